package parse

import (
	"errors"
	"strings"
	"testing"

	"github.com/coregx/lexgen/nfa"
	"github.com/coregx/lexgen/spec"
	"github.com/stretchr/testify/require"
)

// source assembles a specification with a one-line user code section.
func source(decls, rules string) string {
	return "package scan\n%%\n" + decls + "%%\n" + rules
}

func mustParse(t *testing.T, src string) *Result {
	t.Helper()
	res, err := Parse(strings.NewReader(src), DefaultConfig())
	require.NoError(t, err)
	return res
}

// match runs the NFA from the rule starts of start state idx over input and
// returns the rule of the lowest-labelled accept state reached.
func match(n *nfa.NFA, idx int, input []int) (int, bool) {
	cur := closure(n, n.StateRules(idx))
	for _, sym := range input {
		var moved []nfa.StateID
		for _, id := range cur {
			if s := n.State(id); s.Consumes(sym) {
				moved = append(moved, s.Next())
			}
		}
		cur = closure(n, moved)
	}
	best := nfa.InvalidState
	for _, id := range cur {
		if n.State(id).Accept() != nil && id < best {
			best = id
		}
	}
	if best == nfa.InvalidState {
		return 0, false
	}
	return n.State(best).Accept().Rule, true
}

func closure(n *nfa.NFA, from []nfa.StateID) []nfa.StateID {
	seen := make(map[nfa.StateID]bool)
	stack := append([]nfa.StateID(nil), from...)
	var out []nfa.StateID
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == nfa.InvalidState || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
		if s := n.State(id); s.IsEpsilon() {
			stack = append(stack, s.Next(), s.Next2())
		}
	}
	return out
}

func text(s string) []int {
	var out []int
	for _, r := range s {
		out = append(out, int(r))
	}
	return out
}

func TestParse_Sections(t *testing.T) {
	src := "import \"fmt\"\n" +
		"%%\n" +
		"%class Lexer\n" +
		"%function Next\n" +
		"%type Token\n" +
		"%line\n" +
		"%char\n" +
		"%state COMMENT, STRING\n" +
		"%{\n" +
		"\tdepth int\n" +
		"%}\n" +
		"DIGIT=[0-9]\n" +
		"\n" +
		"%%\n" +
		"{DIGIT}+ { return num }\n" +
		"<COMMENT> \"*/\" { begin(YYINITIAL) }\n"

	res := mustParse(t, src)
	s := res.Spec

	require.Equal(t, "import \"fmt\"\n", s.UserCode)
	require.Equal(t, "Lexer", s.Options.ClassName)
	require.Equal(t, "Next", s.Options.FunctionName)
	require.Equal(t, "Token", s.Options.TypeName)
	require.True(t, s.Options.CountLines)
	require.True(t, s.Options.CountChars)
	require.Equal(t, "depth int\n", s.Options.ClassCode)
	require.Equal(t, []string{spec.InitialState, "COMMENT", "STRING"}, s.States.Names())

	def, ok := s.Macros.Lookup("DIGIT")
	require.True(t, ok)
	require.Equal(t, "[0-9]", def)

	require.Len(t, s.Rules, 2)
	r := s.Rules[0]
	require.Equal(t, "[0-9]+", r.Pattern)
	require.Equal(t, 15, r.Line)
	require.Equal(t, "{ return num }", r.Accept.Action)
	require.Equal(t, 15, r.Accept.Line)
	require.Equal(t, 0, r.Accept.Rule)
	require.True(t, r.ActiveIn(0))
	require.True(t, r.ActiveIn(1))
	require.True(t, r.ActiveIn(2))

	r = s.Rules[1]
	require.Equal(t, `"*/"`, r.Pattern)
	require.False(t, r.ActiveIn(0))
	require.True(t, r.ActiveIn(1))
	require.False(t, r.ActiveIn(2))

	rule, ok := match(res.NFA, 0, text("123"))
	require.True(t, ok)
	require.Equal(t, 0, rule)
	_, ok = match(res.NFA, 0, text("*/"))
	require.False(t, ok)
	rule, ok = match(res.NFA, 1, text("*/"))
	require.True(t, ok)
	require.Equal(t, 1, rule)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		kind  ErrorKind
		line  int
		match string
	}{
		{"dangling closure", source("", "a {x}\n*abc{...}\n"), DanglingClosure, 5, ""},
		{"undefined macro", source("", "{UNDEFINED} {x}\n"), UndefinedMacro, 4, "UNDEFINED"},
		{"empty macro name", source("", "{} {x}\n"), UndefinedMacro, 4, ""},
		{"unterminated macro", source("", "a{D\n"), UnterminatedMacro, 4, ""},
		{"missing paren", source("", "(ab {x}\n"), MissingParen, 4, ""},
		{"unbalanced paren", source("", "ab) {x}\n"), MissingParen, 4, ""},
		{"stray bracket", source("", "a] {x}\n"), StrayBracket, 4, ""},
		{"misplaced bol", source("", "a^b {x}\n"), MisplacedBOL, 4, ""},
		{"newline in quote", source("", "\"ab {x}\n"), NewlineInQuote, 4, ""},
		{"newline in action quote", source("", "a { s := \"x\n}\n"), NewlineInQuote, 4, ""},
		{"unterminated class", source("", "[abc\n"), BadExpr, 4, "character class"},
		{"trailing operator", source("", "a$b {x}\n"), BadExpr, 4, ""},
		{"out of range", source("", "\\u0100 {x}\n"), BadExpr, 4, "out of range"},
		{"missing action", source("", "a\n"), UnexpectedEOF, 4, ""},
		{"missing brace", source("", "a b\n"), MissingBrace, 4, ""},
		{"unterminated action", source("", "a { {\n}\n"), UnexpectedEOF, 5, ""},
		{"undeclared state", source("", "<FOO> a {x}\n"), UndeclaredState, 4, "FOO"},
		{"reversed range", source("", "[b-a] {x}\n"), BadDash, 4, ""},
		{"dash after range", source("", "[a-c-e] {x}\n"), BadDash, 4, ""},
		{"bad control", source("", "\\^1 {x}\n"), BadControl, 4, ""},
		{"empty alternative", source("", "a| {x}\n"), ZeroLength, 4, ""},
		{"empty group", source("", "() {x}\n"), ZeroLength, 4, ""},
		{"unknown directive", source("%foo\n", ""), BadDirective, 3, ""},
		{"directive suffix", source("%classx Foo\n", ""), BadDirective, 3, ""},
		{"directive without name", source("%class\n", ""), BadDirective, 3, ""},
		{"macro without equals", source("D [0-9]\n", ""), BadMacroDef, 3, ""},
		{"macro without definition", source("D =\n", ""), BadMacroDef, 3, ""},
		{"unterminated code block", source("%{\nint x;\n", ""), UnexpectedEOF, 0, ""},
		{"missing first separator", "package scan\n", UnexpectedEOF, 0, ""},
		{"missing second separator", "package scan\n%%\nD=a\n", UnexpectedEOF, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src), DefaultConfig())
			require.Error(t, err)

			var perr *Error
			require.True(t, errors.As(err, &perr), "unexpected error type %T", err)
			require.Equal(t, tt.kind, perr.Kind, "error: %v", err)
			require.True(t, errors.Is(err, &Error{Kind: tt.kind}))
			if tt.line > 0 {
				require.Equal(t, tt.line, perr.Line, "error: %v", err)
			}
			if tt.match != "" {
				require.Contains(t, err.Error(), tt.match)
			}
		})
	}
}

func TestParse_MacroExpansion(t *testing.T) {
	res := mustParse(t, source("D=[0-9]\nN={D}+\n", "{N}\".\"{N} {x}\n"))
	require.Equal(t, `[0-9]+"."[0-9]+`, res.Spec.Rules[0].Pattern)

	_, ok := match(res.NFA, 0, text("12.5"))
	require.True(t, ok)
	_, ok = match(res.NFA, 0, text("12."))
	require.False(t, ok)
}

func TestParse_MacroDepth(t *testing.T) {
	_, err := Parse(strings.NewReader(source("A={B}\nB={A}\n", "{A} {x}\n")), DefaultConfig())
	require.ErrorIs(t, err, ErrMacroDepth)

	nested := source("A=a\nB={A}\nC={B}\n", "{C} {x}\n")
	_, err = Parse(strings.NewReader(nested), DefaultConfig().WithMaxMacroDepth(2))
	require.ErrorIs(t, err, ErrMacroDepth)

	res, err := Parse(strings.NewReader(nested), DefaultConfig().WithMaxMacroDepth(3))
	require.NoError(t, err)
	_, ok := match(res.NFA, 0, text("a"))
	require.True(t, ok)

	// sequential references do not nest
	res, err = Parse(strings.NewReader(source("A=a\n", "{A}{A}{A} {x}\n")), DefaultConfig().WithMaxMacroDepth(1))
	require.NoError(t, err)
	_, ok = match(res.NFA, 0, text("aaa"))
	require.True(t, ok)
}

func TestParse_Escapes(t *testing.T) {
	res := mustParse(t, source("", `\t\x41\101B\^A"q\"" {x}`+"\n"))
	_, ok := match(res.NFA, 0, text("\tAAB\x01q\""))
	require.True(t, ok)

	res = mustParse(t, source("", `\. {x}`+"\n"))
	_, ok = match(res.NFA, 0, text("."))
	require.True(t, ok)
	_, ok = match(res.NFA, 0, text("z"))
	require.False(t, ok)
}

func TestParse_Quotes(t *testing.T) {
	res := mustParse(t, source("", `"a b*" {x}`+"\n"))
	require.Equal(t, `"a b*"`, res.Spec.Rules[0].Pattern)
	_, ok := match(res.NFA, 0, text("a b*"))
	require.True(t, ok)
	_, ok = match(res.NFA, 0, text("a bb"))
	require.False(t, ok)
}

func TestParse_Classes(t *testing.T) {
	tests := []struct {
		pattern string
		match   []string
		miss    []string
	}{
		{"[a-c]", []string{"a", "b", "c"}, []string{"d", "-"}},
		{"[-a]", []string{"-", "a"}, []string{"b"}},
		{"[a-]", []string{"-", "a"}, []string{"b"}},
		{"[a-ce]", []string{"b", "e"}, []string{"d"}},
		{"[^a]", []string{"b", "\n"}, []string{"a"}},
		{"[.*]", []string{".", "*"}, []string{"a"}},
		{`[\]]`, []string{"]"}, []string{"\\"}},
		{"[ ]", []string{" "}, []string{"a"}},
		{".", []string{"a", "."}, []string{"\n", "\r"}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			res := mustParse(t, source("", tt.pattern+" {x}\n"))
			for _, s := range tt.match {
				_, ok := match(res.NFA, 0, text(s))
				require.True(t, ok, "expected %q to match", s)
			}
			for _, s := range tt.miss {
				_, ok := match(res.NFA, 0, text(s))
				require.False(t, ok, "expected %q not to match", s)
			}
		})
	}
}

func TestParse_IgnoreCase(t *testing.T) {
	res := mustParse(t, source("%ignorecase\n", "abc {x}\n[d-f]+ {y}\n"))
	require.True(t, res.Spec.Options.IgnoreCase)

	rule, ok := match(res.NFA, 0, text("AbC"))
	require.True(t, ok)
	require.Equal(t, 0, rule)
	rule, ok = match(res.NFA, 0, text("dEF"))
	require.True(t, ok)
	require.Equal(t, 1, rule)
}

func TestParse_Anchors(t *testing.T) {
	res := mustParse(t, source("", "^abc$ {x}\nabc {y}\n"))
	n := res.NFA
	r := res.Spec.Rules[0]
	require.Equal(t, spec.AnchorStart|spec.AnchorEnd, r.Anchor)
	require.Equal(t, spec.AnchorNone, res.Spec.Rules[1].Anchor)

	bol := []int{n.BOL()}
	rule, ok := match(n, 0, append(append(bol, text("abc")...), '\n'))
	require.True(t, ok)
	require.Equal(t, 0, rule)
	rule, ok = match(n, 0, append(append(bol, text("abc")...), n.EOF()))
	require.True(t, ok)
	require.Equal(t, 0, rule)

	rule, ok = match(n, 0, text("abc"))
	require.True(t, ok)
	require.Equal(t, 1, rule)
}

func TestParse_StateScoping(t *testing.T) {
	res := mustParse(t, source("%state A\n%s B\n", "<A> a {x}\n<A,B> b {y}\n<B>\nc {z}\nd {w}\n"))
	n := res.NFA

	// every start state also holds the marker rule
	require.Len(t, n.StateRules(0), 2)
	require.Len(t, n.StateRules(1), 4)
	require.Len(t, n.StateRules(2), 4)

	_, ok := match(n, 0, text("a"))
	require.False(t, ok)
	rule, ok := match(n, 1, text("a"))
	require.True(t, ok)
	require.Equal(t, 0, rule)
	rule, ok = match(n, 2, text("c"))
	require.True(t, ok)
	require.Equal(t, 2, rule)
	require.Equal(t, 9, res.Spec.Rules[2].Line)
	rule, ok = match(n, 0, text("d"))
	require.True(t, ok)
	require.Equal(t, 3, rule)
}

func TestParse_MarkerRule(t *testing.T) {
	res := mustParse(t, source("", ""))
	n := res.NFA
	require.Empty(t, res.Spec.Rules)

	cur := closure(n, n.StateRules(0))
	var accept *spec.Accept
	for _, id := range cur {
		if s := n.State(id); s.Consumes(n.EOF()) {
			accept = n.State(s.Next()).Accept()
		}
	}
	require.True(t, accept.IsPseudo())
}

func TestParse_Actions(t *testing.T) {
	rules := "a {\n" +
		"\ts := \"}\" // }\n" +
		"\t/* { */\n" +
		"\tr := '}'\n" +
		"\tq := `{\n" +
		"`\n" +
		"}\n" +
		"b { x } c { y }\n"
	res := mustParse(t, source("", rules))
	require.Len(t, res.Spec.Rules, 3)

	r := res.Spec.Rules[0]
	require.Equal(t, 4, r.Line)
	require.Equal(t, 10, r.Accept.Line)
	require.True(t, strings.HasPrefix(r.Accept.Action, "{\n\ts := \"}\""))
	require.True(t, strings.HasSuffix(r.Accept.Action, "`\n}"))

	require.Equal(t, "{ x }", res.Spec.Rules[1].Accept.Action)
	require.Equal(t, "c", res.Spec.Rules[2].Pattern)
	require.Equal(t, 11, res.Spec.Rules[2].Line)
}

func TestParse_SeparatorPushback(t *testing.T) {
	res := mustParse(t, "package scan\n%%\n%% a {x}\n")
	require.Len(t, res.Spec.Rules, 1)
	require.Equal(t, "a", res.Spec.Rules[0].Pattern)
}

func TestParse_ByteOrderMark(t *testing.T) {
	res := mustParse(t, "\ufeffpackage scan\n%%\n%%\n")
	require.Equal(t, "package scan\n", res.Spec.UserCode)
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	bad := cfg.WithMaxMacroDepth(0)
	require.Error(t, bad.Validate())
	_, err := Parse(strings.NewReader(source("", "")), bad)
	require.Error(t, err)
}

func TestLookupDirective(t *testing.T) {
	tests := []struct {
		line    string
		keyword string
		kind    directiveKind
		ok      bool
	}{
		{"%state A", "%state", dirState, true},
		{"%s A", "%s", dirState, true},
		{"%stateless", "%state", dirState, true},
		{"%init{", "%init{", dirInitCode, true},
		{"%integer", "%integer", dirInteger, true},
		{"%initthrow{", "%initthrow{", dirInitThrow, true},
		{"%eofval{", "%eofval{", dirEOFValueCode, true},
		{"%eof{", "%eof{", dirEOFCode, true},
		{"%{", "%{", dirClassCode, true},
		{"%in", "", 0, false},
		{"%", "", 0, false},
		{"%x", "", 0, false},
		{"class", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			keyword, d, ok := lookupDirective([]rune(tt.line))
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.keyword, keyword)
			if ok {
				require.Equal(t, tt.kind, d.kind)
			}
		})
	}
}
