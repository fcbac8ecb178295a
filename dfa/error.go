package dfa

import "fmt"

// ErrStateLimit indicates that subset construction created more states than
// Config.MaxStates allows.
var ErrStateLimit = &Error{
	Kind:    StateLimitExceeded,
	Message: "DFA state limit exceeded",
}

// ErrInvalidConfig indicates that the provided configuration is invalid.
var ErrInvalidConfig = &Error{
	Kind:    InvalidConfig,
	Message: "invalid DFA configuration",
}

// ErrInternal indicates inconsistent input, such as classes that were not
// computed for the NFA being converted.
var ErrInternal = &Error{
	Kind:    Internal,
	Message: "internal DFA construction error",
}

// ErrorKind classifies DFA errors into categories
type ErrorKind uint8

const (
	// StateLimitExceeded indicates too many states were created
	StateLimitExceeded ErrorKind = iota

	// InvalidConfig indicates configuration validation failed
	InvalidConfig

	// Internal indicates a bug in an earlier stage
	Internal
)

// String returns a human-readable error kind name
func (k ErrorKind) String() string {
	switch k {
	case StateLimitExceeded:
		return "StateLimitExceeded"
	case InvalidConfig:
		return "InvalidConfig"
	case Internal:
		return "Internal"
	default:
		return fmt.Sprintf("UnknownErrorKind(%d)", k)
	}
}

// Error represents an error that occurred during DFA construction
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error // Optional underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error (for errors.Is/As)
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements error comparison for errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
