package parse

import "fmt"

// ErrorKind classifies specification errors.
type ErrorKind uint8

const (
	// BadExpr indicates a malformed regular expression
	BadExpr ErrorKind = iota

	// MissingParen indicates an unbalanced (
	MissingParen

	// StrayBracket indicates a ] outside a character class
	StrayBracket

	// MisplacedBOL indicates a ^ that does not start the expression
	MisplacedBOL

	// DanglingClosure indicates a *, + or ? with nothing to repeat
	DanglingClosure

	// NewlineInQuote indicates a line ending inside a quoted string
	NewlineInQuote

	// UnterminatedMacro indicates a { without a matching } on the line
	UnterminatedMacro

	// UndefinedMacro indicates a reference to a macro never defined
	UndefinedMacro

	// MacroDepth indicates macro references nested beyond the limit
	MacroDepth

	// UnexpectedEOF indicates the input ended inside a construct
	UnexpectedEOF

	// BadDirective indicates an unknown or malformed % directive
	BadDirective

	// UndeclaredState indicates a rule naming an undeclared start state
	UndeclaredState

	// BadMacroDef indicates a malformed macro definition
	BadMacroDef

	// MissingBrace indicates a rule without an action
	MissingBrace

	// BadDash indicates a misplaced - or reversed range in a class
	BadDash

	// ZeroLength indicates an expression that matches nothing
	ZeroLength

	// BadControl indicates an illegal \^X escape
	BadControl

	// Internal indicates a bug in the parser or NFA builder
	Internal
)

var messages = [...]string{
	BadExpr:           "malformed regular expression",
	MissingParen:      "missing close parenthesis",
	StrayBracket:      "missing [ in character class",
	MisplacedBOL:      "^ must be at start of expression or after [",
	DanglingClosure:   "+ ? or * must follow an expression or subexpression",
	NewlineInQuote:    "newline in quoted string",
	UnterminatedMacro: "missing } in macro expansion",
	UndefinedMacro:    "macro does not exist",
	MacroDepth:        "macro expansions nested too deeply",
	UnexpectedEOF:     "unexpected end-of-file found",
	BadDirective:      "undefined or badly-formed directive",
	UndeclaredState:   "uninitialized state name",
	BadMacroDef:       "badly formed macro definition",
	MissingBrace:      "missing brace at start of lexical action",
	BadDash:           "special character dash - in character class [...] must be preceded by start-of-range character",
	ZeroLength:        "malformed regular expression: zero-length expression",
	BadControl:        "illegal \\^C-style escape sequence",
	Internal:          "internal error",
}

var kindNames = [...]string{
	BadExpr:           "BadExpr",
	MissingParen:      "MissingParen",
	StrayBracket:      "StrayBracket",
	MisplacedBOL:      "MisplacedBOL",
	DanglingClosure:   "DanglingClosure",
	NewlineInQuote:    "NewlineInQuote",
	UnterminatedMacro: "UnterminatedMacro",
	UndefinedMacro:    "UndefinedMacro",
	MacroDepth:        "MacroDepth",
	UnexpectedEOF:     "UnexpectedEOF",
	BadDirective:      "BadDirective",
	UndeclaredState:   "UndeclaredState",
	BadMacroDef:       "BadMacroDef",
	MissingBrace:      "MissingBrace",
	BadDash:           "BadDash",
	ZeroLength:        "ZeroLength",
	BadControl:        "BadControl",
	Internal:          "Internal",
}

// String returns a human-readable error kind name
func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("UnknownErrorKind(%d)", k)
}

// Message returns the fixed diagnostic text of the kind.
func (k ErrorKind) Message() string {
	if int(k) < len(messages) {
		return messages[k]
	}
	return "unknown error"
}

// Error is a fatal specification error.
type Error struct {
	Kind ErrorKind
	// Line is the 1-based line the error was detected on, 0 if unknown.
	Line int
	// Detail names the offending item, if any.
	Detail string
	Cause  error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Kind.Message()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
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

// Sentinels for errors.Is, one per kind that callers commonly test for.
var (
	ErrBadExpr           = &Error{Kind: BadExpr}
	ErrMissingParen      = &Error{Kind: MissingParen}
	ErrMisplacedBOL      = &Error{Kind: MisplacedBOL}
	ErrDanglingClosure   = &Error{Kind: DanglingClosure}
	ErrNewlineInQuote    = &Error{Kind: NewlineInQuote}
	ErrUndefinedMacro    = &Error{Kind: UndefinedMacro}
	ErrMacroDepth        = &Error{Kind: MacroDepth}
	ErrUnexpectedEOF     = &Error{Kind: UnexpectedEOF}
	ErrBadDirective      = &Error{Kind: BadDirective}
	ErrUndeclaredState   = &Error{Kind: UndeclaredState}
	ErrBadMacroDef       = &Error{Kind: BadMacroDef}
	ErrMissingBrace      = &Error{Kind: MissingBrace}
	ErrBadDash           = &Error{Kind: BadDash}
	ErrZeroLength        = &Error{Kind: ZeroLength}
	ErrBadControl        = &Error{Kind: BadControl}
	ErrStrayBracket      = &Error{Kind: StrayBracket}
	ErrUnterminatedMacro = &Error{Kind: UnterminatedMacro}
)
