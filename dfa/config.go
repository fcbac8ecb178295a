package dfa

// Config configures subset construction.
type Config struct {
	// MaxStates is the maximum number of DFA states construction may create
	// before giving up with ErrStateLimit.
	//
	// Default: 10,000 states
	//
	// Tuning guidelines:
	//   - Hand-written scanners for programming languages: a few hundred states
	//   - Large keyword sets or counted repetitions: 10,000-100,000 states
	MaxStates int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxStates: 10_000,
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of acceptable range.
func (c *Config) Validate() error {
	if c.MaxStates <= 0 {
		return &Error{
			Kind:    InvalidConfig,
			Message: "MaxStates must be > 0",
		}
	}
	return nil
}

// WithMaxStates returns a new config with the specified max states
func (c Config) WithMaxStates(maxStates int) Config {
	c.MaxStates = maxStates
	return c
}
