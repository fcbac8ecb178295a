// Package config loads the settings of the lexgen command from a TOML file.
package config

import (
	"github.com/BurntSushi/toml"
	"github.com/coregx/lexgen"
	"github.com/coregx/lexgen/internal/log"
	"github.com/pingcap/errors"
)

// Config is the lexgen command configuration.
type Config struct {
	Log       log.Config `toml:"log" json:"log"`
	Generator Generator  `toml:"generator" json:"generator"`
}

// Generator holds the compile and emit settings.
type Generator struct {
	MaxMacroDepth int  `toml:"max-macro-depth" json:"max-macro-depth"`
	MaxDFAStates  int  `toml:"max-dfa-states" json:"max-dfa-states"`
	Minimize      bool `toml:"minimize" json:"minimize"`
	// Package is the package clause of generated scanners.
	Package string `toml:"package" json:"package"`
}

// NewConfig creates a new config instance with default value.
func NewConfig() *Config {
	def := lexgen.DefaultConfig()
	return &Config{
		Log: log.DefaultConfig(),
		Generator: Generator{
			MaxMacroDepth: def.MaxMacroDepth,
			MaxDFAStates:  def.MaxDFAStates,
			Minimize:      def.Minimize,
			Package:       "main",
		},
	}
}

// Load loads config options from a toml file. Keys missing from the file
// keep their current values; unknown keys are an error.
func (c *Config) Load(confFile string) error {
	meta, err := toml.DecodeFile(confFile, c)
	if err != nil {
		return errors.Annotatef(err, "load config %s", confFile)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return errors.Errorf("unknown keys in config file %s: %v", confFile, undecoded)
	}
	return nil
}

// Valid checks the generator settings.
func (c *Config) Valid() error {
	if c.Generator.Package == "" {
		return errors.New("generator.package must not be empty")
	}
	return c.ToGeneratorConfig().Validate()
}

// ToGeneratorConfig converts the generator table to lexgen.Config.
func (c *Config) ToGeneratorConfig() lexgen.Config {
	cfg := lexgen.DefaultConfig()
	cfg.MaxMacroDepth = c.Generator.MaxMacroDepth
	cfg.MaxDFAStates = c.Generator.MaxDFAStates
	cfg.Minimize = c.Generator.Minimize
	return cfg
}
