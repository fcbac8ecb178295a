// Package log holds the process-wide structured logger used by the generator
// and its command line tool. It stays a no-op until InitAppLogger or
// SetAppLogger is called, so library users get silent compiles by default.
package log

import (
	"github.com/pingcap/errors"
	pclog "github.com/pingcap/log"
	"go.uber.org/zap"
)

var appLogger = Logger{zap.NewNop()}

// Logger wraps the zap logger.
type Logger struct {
	*zap.Logger
}

// Zap returns the global logger.
func Zap() Logger {
	return appLogger
}

// Config serializes log related config in toml.
type Config struct {
	// Log level.
	// One of "debug", "info", "warn", "error", "dpanic", "panic", and "fatal".
	Level string `toml:"level" json:"level"`
	// Log filename, leave empty to log to stderr.
	File string `toml:"file" json:"file"`
	// Max size for a single file, in MB.
	FileMaxSize int `toml:"max-size" json:"max-size"`
	// Max log keep days, default is never deleting.
	FileMaxDays int `toml:"max-days" json:"max-days"`
	// Maximum number of old log files to retain.
	FileMaxBackups int `toml:"max-backups" json:"max-backups"`
	// Format of the log, one of `text`, `json` or `console`.
	Format string `toml:"format" json:"format"`
}

// DefaultConfig logs warnings and above as text.
func DefaultConfig() Config {
	return Config{Level: "warn", Format: "text"}
}

// InitAppLogger inits the wrapped logger from config.
func InitAppLogger(cfg *Config) error {
	logger, _, err := pclog.InitLogger(&pclog.Config{
		Level: cfg.Level,
		File: pclog.FileLogConfig{
			Filename:   cfg.File,
			MaxSize:    cfg.FileMaxSize,
			MaxDays:    cfg.FileMaxDays,
			MaxBackups: cfg.FileMaxBackups,
		},
		Format: cfg.Format,
	})
	if err != nil {
		return errors.Annotatef(err, "init logger with level %q", cfg.Level)
	}
	logger = logger.WithOptions(zap.AddCallerSkip(1))
	appLogger = Logger{logger}
	return nil
}

// SetAppLogger replaces the wrapped logger. Passing nil restores the no-op
// logger.
func SetAppLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	appLogger = Logger{logger}
}

// Info wraps *zap.Logger's Info function.
func Info(msg string, fields ...zap.Field) {
	appLogger.Info(msg, fields...)
}

// Warn wraps *zap.Logger's Warn function.
func Warn(msg string, fields ...zap.Field) {
	appLogger.Warn(msg, fields...)
}

// Error wraps *zap.Logger's Error function.
func Error(msg string, fields ...zap.Field) {
	appLogger.Error(msg, fields...)
}

// Debug wraps *zap.Logger's Debug function.
func Debug(msg string, fields ...zap.Field) {
	appLogger.Debug(msg, fields...)
}
