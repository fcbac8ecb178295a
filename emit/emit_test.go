package emit

import (
	"bytes"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/coregx/lexgen/dfa"
	"github.com/coregx/lexgen/internal/log"
	"github.com/coregx/lexgen/nfa"
	"github.com/coregx/lexgen/parse"
	"github.com/coregx/lexgen/spec"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func compile(t *testing.T, src string) (*spec.Spec, *dfa.Table) {
	t.Helper()
	res, err := parse.Parse(strings.NewReader(src), parse.DefaultConfig())
	require.NoError(t, err)
	tab, err := dfa.Build(res.NFA, nfa.Simplify(res.NFA), dfa.DefaultConfig())
	require.NoError(t, err)
	return res.Spec, dfa.Minimize(tab)
}

const calc = `type Yytoken struct {
	Kind int
	Text string
}
%%
%state COMMENT
%{
func (yy *Yylex) token(kind int) (Yytoken, error) {
	return Yytoken{Kind: kind, Text: yy.Text()}, nil
}
%}
%init{
	yy.Begin(YYINITIAL)
%init}
DIGIT=[0-9]
%%
{DIGIT}+ { return yy.token(1) }
"/*" { yy.Begin(COMMENT) }
<COMMENT> "*/" { yy.Begin(YYINITIAL) }
<COMMENT> [^*]+ { }
[ \t\n]+ { }
`

func TestGo(t *testing.T) {
	s, tab := compile(t, calc)

	var buf bytes.Buffer
	require.NoError(t, Go(&buf, s, tab, Options{Package: "calc"}))
	out := buf.String()

	_, err := parser.ParseFile(token.NewFileSet(), "calc.go", out, parser.AllErrors)
	require.NoError(t, err, out)

	for _, want := range []string{
		"// Code generated by lexgen. DO NOT EDIT.",
		"package calc",
		"type Yytoken struct",
		"YYINITIAL = 0",
		"COMMENT   = 1",
		"type Yylex struct",
		"func newYylex(src string) *Yylex",
		"func (yy *Yylex) Yylex() (Yytoken, error)",
		"func (yy *Yylex) token(kind int) (Yytoken, error)",
		"yy.Begin(YYINITIAL)",
		"case 0: // line 17: [0-9]+",
		"return yy.token(1)",
		"return zero, yyio.EOF",
	} {
		require.Contains(t, out, want)
	}
	require.NotContains(t, out, "@@")
}

func TestGo_Directives(t *testing.T) {
	src := "%%\n%class Lexer\n%function next\n%public\n%integer\n%eof{\ndone = true\n%eof}\n%%\na { return 1, nil }\n"
	s, tab := compile(t, "var done bool\n"+src)

	var buf bytes.Buffer
	require.NoError(t, Go(&buf, s, tab, DefaultOptions()))
	out := buf.String()

	_, err := parser.ParseFile(token.NewFileSet(), "lexer.go", out, 0)
	require.NoError(t, err, out)
	require.Contains(t, out, "package main")
	require.Contains(t, out, "func NewLexer(src string) *Lexer")
	require.Contains(t, out, "func (yy *Lexer) Next() (int, error)")
	require.Contains(t, out, "const YYEOF = -1")
	require.Contains(t, out, "return YYEOF, yyio.EOF")
	require.Contains(t, out, "done = true")
}

func TestGo_WarnsAboutIgnoredDirectives(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log.SetAppLogger(zap.New(core))
	defer log.SetAppLogger(nil)

	src := "type Yytoken int\n%%\n%implements Scanner\n%yylexthrow{\nIOException\n%yylexthrow}\n%%\na { }\n"
	s, tab := compile(t, src)
	require.NoError(t, Go(&bytes.Buffer{}, s, tab, DefaultOptions()))

	var names []string
	for _, e := range logs.All() {
		names = append(names, e.ContextMap()["directive"].(string))
	}
	require.ElementsMatch(t, []string{"%implements", "%yylexthrow"}, names)
}

func TestGo_FormatError(t *testing.T) {
	s, tab := compile(t, "%%\n%%\na { return ( }\n")
	err := Go(&bytes.Buffer{}, s, tab, DefaultOptions())
	require.Error(t, err)
	require.Contains(t, err.Error(), "format generated scanner")
}

func TestExpand(t *testing.T) {
	out, err := expand("@@A@@ and @@AB@@, @@A@@@@B@@ @@C", map[string]string{
		"@@A@@":  "x",
		"@@AB@@": "y",
		"@@B@@":  "@@A@@",
	})
	require.NoError(t, err)
	require.Equal(t, "x and y, x@@A@@ @@C", string(out))
}

func TestDump(t *testing.T) {
	s, tab := compile(t, "%%\n%state S\n%%\nabc$ {A}\n<S> [x-z] {B}\n")

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, s, tab))
	out := buf.String()

	require.Contains(t, out, "start YYINITIAL -> 0 (rules 0)\n")
	require.Contains(t, out, "start S -> 1 (rules 0, 1)\n")
	require.Contains(t, out, "accepts rule 0 (line 4, anchor end) abc$")
	require.Contains(t, out, "accepts rule 1 (line 5) [x-z]")
	require.Contains(t, out, "accepts line start or end of input")
	require.Contains(t, out, "on [x-z]")
	require.Contains(t, out, "on [BOL EOF]")
	require.Equal(t, "none", ruleList(nil))
}

func TestSymbolRanges(t *testing.T) {
	require.Equal(t, "[a-c e BOL EOF]", symbolRanges([]int{'a', 'b', 'c', 'e', 128, 129}, 128))
	require.Equal(t, `[\u0000-\u0020 \u002d]`, symbolRanges(append(seq(0, 32), '-'), 128))
}

func seq(lo, hi int) []int {
	var out []int
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}
