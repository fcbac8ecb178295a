// Package lexgen compiles JLex-style lexical specifications into
// table-driven scanners.
//
// A specification lists regular expressions with actions. lexgen parses it,
// builds one Thompson NFA for all rules, collapses the alphabet into symbol
// classes, converts the NFA to a DFA by subset construction and minimizes
// the result. The tables can be emitted as a Go scanner, dumped for
// inspection, or run directly.
//
// Basic usage:
//
//	lx, err := lexgen.CompileFile("calc.lex")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Generate a scanner
//	var buf bytes.Buffer
//	err = lx.Emit(&buf, emit.Options{Package: "calc"})
//
//	// Or scan directly
//	sc := lx.Scanner("12 + 34")
//	for {
//	    tok, err := sc.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    fmt.Println(tok.Rule, tok.Text)
//	}
//
// When several rules match, the longest match wins and ties go to the rule
// declared first.
package lexgen

import (
	"io"
	"os"
	"time"

	"github.com/coregx/lexgen/dfa"
	"github.com/coregx/lexgen/emit"
	"github.com/coregx/lexgen/nfa"
	"github.com/coregx/lexgen/parse"
	"github.com/coregx/lexgen/scan"
	"github.com/coregx/lexgen/spec"
	"github.com/pingcap/errors"
	"go.uber.org/zap"
)

// Lexer is a compiled specification.
type Lexer struct {
	Spec *spec.Spec
	NFA  *nfa.NFA
	// Classes partition the alphabet into the columns of Table.
	Classes *nfa.Classes
	Table   *dfa.Table
	// Compressed is Table with duplicate rows and columns removed.
	Compressed *dfa.Compressed
}

// Generator compiles specifications with a fixed configuration.
type Generator struct {
	config Config
	logger *zap.Logger
}

// NewGenerator returns a generator for config.
func NewGenerator(config Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{config: config, logger: logger}, nil
}

// Compile compiles a specification with the default configuration.
func Compile(r io.Reader) (*Lexer, error) {
	g, err := NewGenerator(DefaultConfig())
	if err != nil {
		return nil, err
	}
	return g.Compile(r)
}

// CompileFile compiles the specification in the named file with the
// default configuration.
func CompileFile(path string) (*Lexer, error) {
	g, err := NewGenerator(DefaultConfig())
	if err != nil {
		return nil, err
	}
	return g.CompileFile(path)
}

// CompileFile compiles the specification in the named file.
func (g *Generator) CompileFile(path string) (*Lexer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Annotatef(err, "open specification %s", path)
	}
	defer f.Close()

	lx, err := g.Compile(f)
	if err != nil {
		return nil, errors.Annotate(err, path)
	}
	return lx, nil
}

// Compile reads and compiles a specification.
func (g *Generator) Compile(r io.Reader) (*Lexer, error) {
	begin := time.Now()

	res, err := parse.Parse(r, parse.DefaultConfig().WithMaxMacroDepth(g.config.MaxMacroDepth))
	if err != nil {
		return nil, err
	}
	g.logger.Info("parsed specification",
		zap.Int("rules", len(res.Spec.Rules)),
		zap.Int("start-states", res.Spec.States.Len()),
		zap.Int("nfa-states", res.NFA.States()))

	classes := nfa.Simplify(res.NFA)
	g.logger.Info("simplified alphabet",
		zap.Int("symbols", classes.Symbols()),
		zap.Int("classes", classes.Len()))

	table, err := dfa.Build(res.NFA, classes, dfa.DefaultConfig().WithMaxStates(g.config.MaxDFAStates))
	if err != nil {
		return nil, err
	}
	g.logger.Info("built DFA", zap.Int("dfa-states", table.Len()))

	if g.config.Minimize {
		before := table.Len()
		table = dfa.Minimize(table)
		g.logger.Info("minimized DFA",
			zap.Int("before", before),
			zap.Int("after", table.Len()))
	}

	lx := &Lexer{
		Spec:       res.Spec,
		NFA:        res.NFA,
		Classes:    classes,
		Table:      table,
		Compressed: dfa.Reduce(table),
	}
	g.logger.Info("compiled specification",
		zap.Int("rows", len(lx.Compressed.Rows)),
		zap.Int("columns", len(lx.Compressed.Rows[0])),
		zap.Duration("took", time.Since(begin)))
	return lx, nil
}

// Emit writes a Go scanner for the specification.
func (lx *Lexer) Emit(w io.Writer, opts emit.Options) error {
	return emit.Go(w, lx.Spec, lx.Table, opts)
}

// Dump writes a listing of the DFA.
func (lx *Lexer) Dump(w io.Writer) error {
	return emit.Dump(w, lx.Spec, lx.Table)
}

// Scanner returns a scanner over src driven by the compiled tables.
func (lx *Lexer) Scanner(src string) *scan.Scanner {
	return scan.New(lx.Table, []rune(src))
}

// StateIndex returns the index of a named start state, for Scanner.Begin.
func (lx *Lexer) StateIndex(name string) (int, bool) {
	return lx.Spec.States.Index(name)
}
