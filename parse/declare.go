package parse

import (
	"strings"

	"github.com/coregx/lexgen/spec"
)

// startsWithSeparator reports whether line begins with %%.
func startsWithSeparator(line []rune) bool {
	return len(line) >= 2 && line[0] == '%' && line[1] == '%'
}

// userCode copies the first section up to the %% line. The rest of the %%
// line is discarded.
func (p *parser) userCode() error {
	var sb strings.Builder
	for {
		if !p.nextLine() {
			return p.fail(UnexpectedEOF, "missing %% after user code")
		}
		if startsWithSeparator(p.cur.Line) {
			p.spec.UserCode = sb.String()
			return nil
		}
		sb.WriteString(string(p.cur.Line))
	}
}

// declarations processes the second section. Text after the closing %% on
// the same line is pushed back as the start of the rules section.
func (p *parser) declarations() error {
	for {
		if !p.nextLine() {
			return p.fail(UnexpectedEOF, "missing %% after declarations")
		}
		line := p.cur.Line
		switch {
		case startsWithSeparator(line):
			p.r.Pushback(line[2:])
			return nil
		case line[0] == '%':
			if err := p.directive(); err != nil {
				return err
			}
		default:
			if err := p.saveMacro(); err != nil {
				return err
			}
		}
	}
}

func (p *parser) directive() error {
	keyword, d, ok := lookupDirective(p.cur.Line)
	if !ok {
		return p.fail(BadDirective, strings.TrimSpace(string(p.cur.Line)))
	}
	p.cur.Pos = len([]rune(keyword))
	if d.isBlock() {
		return p.packCode(d)
	}
	if p.cur.More() && !isSpace(p.cur.Peek()) {
		return p.fail(BadDirective, strings.TrimSpace(string(p.cur.Line)))
	}

	o := p.spec.Options
	switch d.kind {
	case dirClass, dirFunction, dirType, dirImplements:
		name, err := p.getName()
		if err != nil {
			return err
		}
		switch d.kind {
		case dirClass:
			o.ClassName = name
		case dirFunction:
			o.FunctionName = name
		case dirType:
			o.TypeName = name
		default:
			o.Implements = name
		}
	case dirChar:
		o.CountChars = true
	case dirLine:
		o.CountLines = true
	case dirCup:
		o.SetCup()
	case dirFull:
		o.Alphabet = spec.Full
	case dirUnicode:
		o.Alphabet = spec.Unicode
	case dirIgnoreCase:
		o.IgnoreCase = true
	case dirNotUnix:
		o.Unix = false
	case dirPublic:
		o.Public = true
	case dirInteger:
		o.IntegerType = true
	case dirIntWrap:
		o.IntWrap = true
	case dirYYEOF:
		o.YYEOF = true
	case dirState:
		p.saveStates()
	default:
		return p.fail(Internal, "unhandled directive "+keyword)
	}
	return nil
}

// getName returns the rest of the directive line, trimmed.
func (p *parser) getName() (string, error) {
	for p.cur.More() && isSpace(p.cur.Peek()) && !isNewline(p.cur.Peek()) {
		p.cur.Advance()
	}
	start := p.cur.Pos
	for p.cur.More() && !isNewline(p.cur.Peek()) {
		p.cur.Advance()
	}
	name := strings.TrimSpace(string(p.cur.Line[start:p.cur.Pos]))
	if name == "" {
		return "", p.fail(BadDirective, "missing name")
	}
	return name, nil
}

// saveStates declares the names listed after %state. Commas are optional.
func (p *parser) saveStates() {
	for p.cur.More() {
		for p.cur.More() && (isSpace(p.cur.Peek()) || p.cur.Peek() == ',') {
			p.cur.Advance()
		}
		start := p.cur.Pos
		for p.cur.More() && !isSpace(p.cur.Peek()) && p.cur.Peek() != ',' {
			p.cur.Advance()
		}
		if p.cur.Pos > start {
			p.spec.States.Declare(string(p.cur.Line[start:p.cur.Pos]))
		}
	}
}

// saveMacro stores a definition of the form "name = regex". The definition
// ends at whitespace outside quotes, classes and escapes. Blank lines are
// ignored.
func (p *parser) saveMacro() error {
	c := &p.cur
	for c.More() && isSpace(c.Peek()) {
		c.Advance()
	}
	if !c.More() {
		return nil
	}

	start := c.Pos
	for c.More() && !isSpace(c.Peek()) && c.Peek() != '=' {
		c.Advance()
	}
	name := string(c.Line[start:c.Pos])
	if name == "" {
		return p.fail(BadMacroDef, "missing name")
	}

	for c.More() && isSpace(c.Peek()) && !isNewline(c.Peek()) {
		c.Advance()
	}
	if c.Peek() != '=' {
		return p.fail(BadMacroDef, name+": missing =")
	}
	c.Advance()
	for c.More() && isSpace(c.Peek()) && !isNewline(c.Peek()) {
		c.Advance()
	}

	start = c.Pos
	inQuote, inCCL, escaped := false, false, false
	for c.More() {
		r := c.Peek()
		if isNewline(r) || (isSpace(r) && !inQuote && !inCCL && !escaped) {
			break
		}
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
		case r == '[' && !inQuote:
			inCCL = true
		case r == ']' && !inQuote:
			inCCL = false
		}
		c.Advance()
	}
	if inQuote || inCCL {
		return p.fail(BadMacroDef, name+": unterminated quote or class")
	}
	def := string(c.Line[start:c.Pos])
	if def == "" {
		return p.fail(BadMacroDef, name+": empty definition")
	}
	p.spec.Macros.Define(name, def)
	return nil
}

// packCode collects a code block. Text after the opening directive on its
// line belongs to the block; the block ends at a line starting with the
// closing directive, whose remainder is discarded. A repeated block is
// appended to the earlier one.
func (p *parser) packCode(d directive) error {
	var sb strings.Builder
	sb.WriteString(string(p.cur.Rest()))
	end := []rune(d.end)
	for {
		if !p.nextLine() {
			return p.fail(UnexpectedEOF, "missing "+d.end)
		}
		if hasPrefix(p.cur.Line, end) {
			break
		}
		sb.WriteString(string(p.cur.Line))
	}

	code := strings.TrimLeft(sb.String(), " \t\r\n")
	o := p.spec.Options
	var dst *string
	switch d.kind {
	case dirClassCode:
		dst = &o.ClassCode
	case dirInitCode:
		dst = &o.InitCode
	case dirEOFCode:
		dst = &o.EOFCode
	case dirEOFValueCode:
		dst = &o.EOFValueCode
	case dirInitThrow:
		dst = &o.InitThrowCode
	case dirLexThrow:
		dst = &o.LexThrowCode
	case dirEOFThrow:
		dst = &o.EOFThrowCode
	default:
		return p.fail(Internal, "unhandled code block "+d.end)
	}
	*dst += code
	return nil
}

func hasPrefix(line, prefix []rune) bool {
	if len(line) < len(prefix) {
		return false
	}
	for i, r := range prefix {
		if line[i] != r {
			return false
		}
	}
	return true
}
