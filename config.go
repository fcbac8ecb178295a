package lexgen

import (
	"go.uber.org/zap"
)

// Config controls specification compilation.
type Config struct {
	// MaxMacroDepth bounds how deeply macro references may nest.
	// Default: 32
	MaxMacroDepth int

	// MaxDFAStates bounds the number of states subset construction may
	// create.
	// Default: 10000
	MaxDFAStates int

	// Minimize enables DFA minimization.
	// Default: true
	Minimize bool

	// Logger receives progress messages. nil disables logging.
	Logger *zap.Logger
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxMacroDepth: 32,
		MaxDFAStates:  10000,
		Minimize:      true,
	}
}

// Validate checks that configuration values are within acceptable ranges.
func (c Config) Validate() error {
	if c.MaxMacroDepth < 1 || c.MaxMacroDepth > 1000 {
		return &ConfigError{
			Field:   "MaxMacroDepth",
			Message: "must be between 1 and 1,000",
		}
	}
	if c.MaxDFAStates < 1 || c.MaxDFAStates > 1_000_000 {
		return &ConfigError{
			Field:   "MaxDFAStates",
			Message: "must be between 1 and 1,000,000",
		}
	}
	return nil
}

// WithLogger returns a copy with Logger set.
func (c Config) WithLogger(logger *zap.Logger) Config {
	c.Logger = logger
	return c
}

// ConfigError represents an invalid configuration error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "lexgen: invalid config: " + e.Field + ": " + e.Message
}
