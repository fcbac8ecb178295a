package parse

import (
	"fmt"
	"unicode"
)

// token is the kind of the current regular expression token.
type token uint8

const (
	tokEOS token = iota // end of the expression
	tokAny
	tokBOL
	tokEOL
	tokCCLEnd
	tokCCLStart
	tokCloseCurly
	tokCloseParen
	tokClosure
	tokDash
	tokEnd // end of input
	tokLiteral
	tokOpenCurly
	tokOpenParen
	tokOptional
	tokOr
	tokPlus
)

var specialTokens = map[rune]token{
	'$': tokEOL,
	'^': tokBOL,
	'.': tokAny,
	'[': tokCCLStart,
	']': tokCCLEnd,
	'}': tokCloseCurly,
	')': tokCloseParen,
	'*': tokClosure,
	'-': tokDash,
	'{': tokOpenCurly,
	'(': tokOpenParen,
	'?': tokOptional,
	'|': tokOr,
	'+': tokPlus,
}

// advance reads the next token into p.tok and p.lexeme.
//
// When the previous token ended an expression, it first moves to the next
// non-blank text, reading lines as needed. Outside quotes, whitespace ends
// the expression unless it is inside a character class, and {name} is
// replaced by the macro's definition before scanning continues.
func (p *parser) advance() error {
	if p.eof {
		p.tok, p.lexeme = tokEnd, 0
		return nil
	}

	if p.tok == tokEOS || !p.cur.More() {
		if p.inQuote {
			return p.fail(NewlineInQuote, "")
		}
		if p.inCCL {
			return p.fail(BadExpr, "unterminated character class")
		}
		for {
			if !p.advanceStop || !p.cur.More() {
				if !p.nextLine() {
					p.tok, p.lexeme = tokEnd, 0
					return nil
				}
			} else {
				p.advanceStop = false
			}
			for p.cur.More() && isSpace(p.cur.Peek()) {
				p.cur.Advance()
			}
			if p.cur.More() {
				break
			}
		}
		p.exprStart, p.exprLine = p.cur.Pos, p.r.LineNo
		p.expansions = p.expansions[:0]
	}

	for {
		c := p.cur.Peek()
		switch {
		case c == '{' && !p.inQuote:
			if err := p.expandMacro(); err != nil {
				return err
			}
		case c == '"':
			p.inQuote = !p.inQuote
			p.cur.Advance()
		default:
			return p.scanToken()
		}
		if !p.cur.More() {
			if p.inQuote {
				return p.fail(NewlineInQuote, "")
			}
			p.tok, p.lexeme = tokEOS, 0
			return nil
		}
	}
}

func (p *parser) scanToken() error {
	c := p.cur.Peek()
	escaped := c == '\\'

	if p.inQuote {
		if isNewline(c) {
			return p.fail(NewlineInQuote, "")
		}
		if escaped && p.cur.PeekAt(1) == '"' {
			p.lexeme = '"'
			p.cur.Pos += 2
		} else {
			p.lexeme = p.cur.Advance()
		}
		p.tok = tokLiteral
		return nil
	}

	if p.inCCL && isNewline(c) {
		return p.fail(BadExpr, "unterminated character class")
	}
	if !p.inCCL && isSpace(c) {
		p.tok, p.lexeme = tokEOS, 0
		return nil
	}

	if escaped {
		r, err := p.expandEscape()
		if err != nil {
			return err
		}
		p.tok, p.lexeme = tokLiteral, r
		return nil
	}

	p.lexeme = p.cur.Advance()
	tok, ok := specialTokens[p.lexeme]
	if !ok {
		tok = tokLiteral
	}
	p.tok = tok
	switch tok {
	case tokCCLStart:
		p.inCCL = true
	case tokCCLEnd:
		p.inCCL = false
	}
	return nil
}

// expandMacro replaces the {name} at the cursor with the definition of name
// and leaves the cursor at the start of the replacement.
func (p *parser) expandMacro() error {
	c := &p.cur
	start := c.Pos
	end := start + 1
	for end < len(c.Line) && c.Line[end] != '}' {
		if isNewline(c.Line[end]) {
			return p.fail(UnterminatedMacro, "")
		}
		end++
	}
	if end >= len(c.Line) {
		return p.fail(UnterminatedMacro, "")
	}
	name := string(c.Line[start+1 : end])
	if name == "" {
		return p.fail(UndefinedMacro, "empty macro name")
	}
	def, ok := p.spec.Macros.Lookup(name)
	if !ok {
		return p.fail(UndefinedMacro, name)
	}

	// drop expansions the cursor has already left
	for len(p.expansions) > 0 && p.expansions[len(p.expansions)-1] <= start {
		p.expansions = p.expansions[:len(p.expansions)-1]
	}
	if len(p.expansions) >= p.cfg.MaxMacroDepth {
		return p.fail(MacroDepth, name)
	}

	text := []rune(def)
	delta := len(text) - (end + 1 - start)
	for i := range p.expansions {
		p.expansions[i] += delta
	}
	p.expansions = append(p.expansions, start+len(text))
	c.Splice(start, end+1, text)
	return nil
}

// expandEscape decodes the escape sequence at the cursor.
func (p *parser) expandEscape() (rune, error) {
	c := &p.cur
	c.Advance() // backslash
	if !c.More() {
		return '\\', nil
	}
	r := c.Advance()
	switch r {
	case 'b':
		return '\b', nil
	case 't':
		return '\t', nil
	case 'n':
		return '\n', nil
	case 'f':
		return '\f', nil
	case 'r':
		return '\r', nil
	case '^':
		x := unicode.ToUpper(c.Advance())
		if x < '@' || x > 'Z' {
			return 0, p.fail(BadControl, "")
		}
		return x - '@', nil
	case 'u':
		return p.digits(4, 16), nil
	case 'x':
		return p.digits(2, 16), nil
	}
	if isOctal(r) {
		c.Pos--
		return p.digits(3, 8), nil
	}
	return r, nil
}

// digits reads up to n digits in the given base.
func (p *parser) digits(n int, base rune) rune {
	var v rune
	for i := 0; i < n; i++ {
		d := digitValue(p.cur.Peek())
		if d < 0 || d >= base {
			break
		}
		v = v*base + d
		p.cur.Advance()
	}
	return v
}

func digitValue(c rune) rune {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return -1
}

func isOctal(c rune) bool {
	return c >= '0' && c <= '7'
}

func (t token) String() string {
	switch t {
	case tokEOS:
		return "end of expression"
	case tokEnd:
		return "end of input"
	case tokLiteral:
		return "literal"
	}
	for r, tok := range specialTokens {
		if tok == t {
			return fmt.Sprintf("%q", r)
		}
	}
	return fmt.Sprintf("token(%d)", uint8(t))
}
