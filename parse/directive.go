package parse

import (
	"github.com/derekparker/trie"
)

// directiveKind identifies a % directive of the declarations section.
type directiveKind uint8

const (
	dirClass directiveKind = iota
	dirFunction
	dirType
	dirImplements
	dirChar
	dirLine
	dirCup
	dirFull
	dirUnicode
	dirIgnoreCase
	dirNotUnix
	dirPublic
	dirInteger
	dirIntWrap
	dirYYEOF
	dirState
	dirClassCode
	dirInitCode
	dirEOFCode
	dirEOFValueCode
	dirInitThrow
	dirLexThrow
	dirEOFThrow
)

// directive is an entry of the keyword table.
type directive struct {
	kind directiveKind
	// end closes a code block directive.
	end string
}

// isBlock reports whether the directive opens a code block.
func (d directive) isBlock() bool {
	return d.end != ""
}

var directiveTable = []struct {
	keyword string
	directive
}{
	{"%class", directive{kind: dirClass}},
	{"%function", directive{kind: dirFunction}},
	{"%type", directive{kind: dirType}},
	{"%implements", directive{kind: dirImplements}},
	{"%char", directive{kind: dirChar}},
	{"%line", directive{kind: dirLine}},
	{"%cup", directive{kind: dirCup}},
	{"%full", directive{kind: dirFull}},
	{"%unicode", directive{kind: dirUnicode}},
	{"%ignorecase", directive{kind: dirIgnoreCase}},
	{"%notunix", directive{kind: dirNotUnix}},
	{"%public", directive{kind: dirPublic}},
	{"%integer", directive{kind: dirInteger}},
	{"%intwrap", directive{kind: dirIntWrap}},
	{"%yyeof", directive{kind: dirYYEOF}},
	{"%state", directive{kind: dirState}},
	{"%s", directive{kind: dirState}},
	{"%{", directive{kind: dirClassCode, end: "%}"}},
	{"%init{", directive{kind: dirInitCode, end: "%init}"}},
	{"%eof{", directive{kind: dirEOFCode, end: "%eof}"}},
	{"%eofval{", directive{kind: dirEOFValueCode, end: "%eofval}"}},
	{"%initthrow{", directive{kind: dirInitThrow, end: "%initthrow}"}},
	{"%yylexthrow{", directive{kind: dirLexThrow, end: "%yylexthrow}"}},
	{"%eofthrow{", directive{kind: dirEOFThrow, end: "%eofthrow}"}},
}

// directives indexes directiveTable by keyword.
var directives = func() *trie.Trie {
	t := trie.New()
	for _, e := range directiveTable {
		t.Add(e.keyword, e.directive)
	}
	return t
}()

// lookupDirective returns the longest keyword that prefixes line. The trie
// is walked one rune at a time and the walk ends at the first rune no
// keyword continues with. A key ends where a node has a terminating nul
// child.
func lookupDirective(line []rune) (string, directive, bool) {
	var (
		node = directives.Root()
		key  string
		d    directive
		ok   bool
	)
	for _, r := range line {
		if r == 0 {
			break
		}
		next, found := node.Children()[r]
		if !found {
			break
		}
		node = next
		if term, found := node.Children()[0]; found && term.Terminating() {
			key, d, ok = string(line[:node.Depth()]), term.Meta().(directive), true
		}
	}
	return key, d, ok
}
