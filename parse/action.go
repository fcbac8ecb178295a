package parse

import (
	"strings"

	"github.com/coregx/lexgen/spec"
)

// packAccept reads the action that follows a rule's expression. The action
// is a brace-balanced block copied verbatim; braces inside string and rune
// literals and comments are not counted. It may span lines.
func (p *parser) packAccept() (*spec.Accept, error) {
	c := &p.cur
	if !p.skipSpace() {
		return nil, p.fail(UnexpectedEOF, "rule without an action")
	}
	if c.Peek() != '{' {
		return nil, p.fail(MissingBrace, "")
	}

	const (
		code = iota
		quoted
		raw
		lineComment
		blockComment
	)
	var (
		sb     strings.Builder
		state  = code
		quote  rune
		braces int
	)
	for {
		if !c.More() {
			if state == quoted {
				return nil, p.fail(NewlineInQuote, "")
			}
			if !p.nextLine() {
				return nil, p.fail(UnexpectedEOF, "unterminated action")
			}
			continue
		}
		r := c.Advance()
		sb.WriteRune(r)

		switch state {
		case code:
			switch {
			case r == '{':
				braces++
			case r == '}':
				braces--
				if braces == 0 {
					return &spec.Accept{Action: sb.String(), Line: p.r.LineNo}, nil
				}
			case r == '"' || r == '\'':
				state, quote = quoted, r
			case r == '`':
				state = raw
			case r == '/' && c.Peek() == '/':
				sb.WriteRune(c.Advance())
				state = lineComment
			case r == '/' && c.Peek() == '*':
				sb.WriteRune(c.Advance())
				state = blockComment
			}
		case quoted:
			switch {
			case isNewline(r):
				return nil, p.fail(NewlineInQuote, "")
			case r == '\\' && c.More():
				sb.WriteRune(c.Advance())
			case r == quote:
				state = code
			}
		case raw:
			if r == '`' {
				state = code
			}
		case lineComment:
			if isNewline(r) {
				state = code
			}
		case blockComment:
			if r == '*' && c.Peek() == '/' {
				sb.WriteRune(c.Advance())
				state = code
			}
		}
	}
}
