// Package parse reads a lexical specification and builds its spec model and
// Thompson NFA in one pass.
//
// A specification has three sections separated by lines starting with %%:
// user code copied verbatim, declarations (directives, macros and %state
// lists), and rules of the form
//
//	<STATE,...> regex { action }
//
// Regular expressions are parsed by recursive descent and turned into NFA
// fragments as they are recognized; there is no intermediate syntax tree.
// Every error is fatal and reports the line it was found on.
package parse

import (
	"io"

	"github.com/coregx/lexgen/input"
	"github.com/coregx/lexgen/nfa"
	"github.com/coregx/lexgen/spec"
	"github.com/pingcap/errors"
)

// Config configures the parser.
type Config struct {
	// MaxMacroDepth bounds how deeply macro references may nest.
	//
	// Default: 32
	MaxMacroDepth int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{MaxMacroDepth: 32}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.MaxMacroDepth <= 0 {
		return &Error{Kind: Internal, Detail: "MaxMacroDepth must be > 0"}
	}
	return nil
}

// WithMaxMacroDepth returns a copy with MaxMacroDepth set.
func (c Config) WithMaxMacroDepth(depth int) Config {
	c.MaxMacroDepth = depth
	return c
}

// Result is a parsed specification.
type Result struct {
	Spec *spec.Spec
	NFA  *nfa.NFA
}

// parser holds the state of one Parse call.
type parser struct {
	cfg  Config
	r    *input.Reader
	cur  input.Cursor
	spec *spec.Spec
	b    *nfa.Builder
	eof  bool

	// tokenizer state
	tok         token
	lexeme      rune
	inQuote     bool
	inCCL       bool
	advanceStop bool

	// set when the current rule began with a <STATE,...> list
	sawStateList bool

	// end offsets of the macro expansions enclosing the cursor, innermost last
	expansions []int

	// where the current expression began
	exprStart, exprLine int
}

// Parse reads a complete specification from r.
func Parse(r io.Reader, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &parser{
		cfg:  cfg,
		r:    input.NewReader(r),
		spec: spec.New(),
	}
	res, err := p.parse()
	if rerr := p.r.Err(); rerr != nil {
		return nil, errors.Annotate(rerr, "read specification")
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (p *parser) parse() (*Result, error) {
	if err := p.userCode(); err != nil {
		return nil, err
	}
	if err := p.declarations(); err != nil {
		return nil, err
	}
	n, err := p.rules()
	if err != nil {
		return nil, err
	}
	return &Result{Spec: p.spec, NFA: n}, nil
}

// nextLine loads the next input line into the cursor.
func (p *parser) nextLine() bool {
	if !p.r.Next() {
		p.eof = true
		p.cur.Reset(nil)
		return false
	}
	p.cur.Reset(p.r.Line)
	p.expansions = p.expansions[:0]
	return true
}

func (p *parser) fail(kind ErrorKind, detail string) error {
	return &Error{Kind: kind, Line: p.r.LineNo, Detail: detail}
}

func (p *parser) alphabet() int {
	return p.spec.Options.Alphabet.Size()
}

// isSpace reports whether c separates tokens.
func isSpace(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\b':
		return true
	}
	return false
}

func isNewline(c rune) bool {
	return c == '\n' || c == '\r'
}
