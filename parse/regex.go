package parse

import (
	"strings"
	"unicode"

	"github.com/bits-and-blooms/bitset"
	"github.com/coregx/lexgen/nfa"
	"github.com/coregx/lexgen/spec"
)

// rules parses the rules section and returns the finished NFA.
func (p *parser) rules() (*nfa.NFA, error) {
	p.b = nfa.NewBuilder(p.alphabet(), p.spec.States.Len())
	if !p.nextLine() {
		p.b.AddMarkerRule(p.r.LineNo + 1)
		return p.b.Build()
	}

	for {
		states, ok, err := p.getStates()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		p.tok = tokEOS
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok == tokEnd {
			if p.sawStateList {
				return nil, p.fail(UnexpectedEOF, "state list without a rule")
			}
			break
		}

		f, err := p.rule(states)
		if err != nil {
			return nil, err
		}
		p.b.AddRule(f.Start, states)
	}

	p.b.AddMarkerRule(p.r.LineNo + 1)
	n, err := p.b.Build()
	if err != nil {
		return nil, &Error{Kind: Internal, Line: p.r.LineNo, Cause: err}
	}
	return n, nil
}

// getStates reads an optional <STATE,...> prefix. Without one the rule is
// active in every start state. ok is false at the end of input.
func (p *parser) getStates() (states *bitset.BitSet, ok bool, err error) {
	c := &p.cur
	p.sawStateList = false
	if !p.skipSpace() {
		return nil, false, nil
	}
	if c.Peek() != '<' {
		p.advanceStop = true
		return p.spec.States.All(), true, nil
	}
	c.Advance()
	p.sawStateList = true

	states = bitset.New(uint(p.spec.States.Len()))
	for {
		for c.More() && (isSpace(c.Peek()) || c.Peek() == ',') {
			c.Advance()
		}
		if !c.More() {
			if !p.nextLine() {
				return nil, false, p.fail(UnexpectedEOF, "unterminated state list")
			}
			continue
		}
		if c.Peek() == '>' {
			c.Advance()
			break
		}
		start := c.Pos
		for c.More() && !isSpace(c.Peek()) && c.Peek() != ',' && c.Peek() != '>' {
			c.Advance()
		}
		name := string(c.Line[start:c.Pos])
		idx, declared := p.spec.States.Index(name)
		if !declared {
			return nil, false, p.fail(UndeclaredState, name)
		}
		states.Set(uint(idx))
	}

	p.advanceStop = strings.TrimSpace(string(c.Rest())) != ""
	return states, true, nil
}

// skipSpace moves past whitespace, reading lines as needed, and reports
// whether any text remains.
func (p *parser) skipSpace() bool {
	for {
		for p.cur.More() && isSpace(p.cur.Peek()) {
			p.cur.Advance()
		}
		if p.cur.More() {
			return true
		}
		if !p.nextLine() {
			return false
		}
	}
}

// rule parses one expression with its anchors and action and records it.
func (p *parser) rule(states *bitset.BitSet) (nfa.Fragment, error) {
	var anchor spec.Anchor
	line := p.exprLine

	var f nfa.Fragment
	var err error
	if p.tok == tokBOL {
		anchor |= spec.AnchorStart
		if err := p.advance(); err != nil {
			return f, err
		}
		if f, err = p.expr(); err != nil {
			return f, err
		}
		f = p.b.AnchorStart(f)
	} else if f, err = p.expr(); err != nil {
		return f, err
	}

	if p.tok == tokEOL {
		anchor |= spec.AnchorEnd
		if err := p.advance(); err != nil {
			return f, err
		}
		f = p.b.AnchorEnd(f)
	}

	switch p.tok {
	case tokEOS:
	case tokEnd:
		return f, p.fail(UnexpectedEOF, "rule without an action")
	case tokCloseParen:
		return f, p.fail(MissingParen, "unbalanced )")
	default:
		return f, p.fail(BadExpr, "unexpected "+p.tok.String())
	}
	pattern := strings.TrimRight(string(p.cur.Line[p.exprStart:p.cur.Pos]), " \t\r\n\f\b")

	acc, err := p.packAccept()
	if err != nil {
		return f, err
	}
	if err := p.b.Accept(f, acc, anchor); err != nil {
		return f, &Error{Kind: ZeroLength, Line: line, Cause: err}
	}
	p.spec.AddRule(&spec.Rule{
		States:  states,
		Pattern: pattern,
		Line:    line,
		Accept:  acc,
		Anchor:  anchor,
	})
	return f, nil
}

// expr parses alternatives separated by |.
func (p *parser) expr() (nfa.Fragment, error) {
	f, err := p.catExpr()
	if err != nil {
		return f, err
	}
	for p.tok == tokOr {
		if err := p.advance(); err != nil {
			return f, err
		}
		g, err := p.catExpr()
		if err != nil {
			return f, err
		}
		f = p.b.Alternate(f, g)
	}
	return f, nil
}

// catExpr parses a concatenation of one or more factors.
func (p *parser) catExpr() (nfa.Fragment, error) {
	ok, err := p.firstInCat()
	if err != nil {
		return nfa.Fragment{}, err
	}
	if !ok {
		return nfa.Fragment{}, p.fail(ZeroLength, "")
	}
	f, err := p.factor()
	if err != nil {
		return f, err
	}
	for {
		ok, err := p.firstInCat()
		if err != nil {
			return f, err
		}
		if !ok {
			return f, nil
		}
		g, err := p.factor()
		if err != nil {
			return f, err
		}
		f = p.b.Concat(f, g)
	}
}

// firstInCat reports whether the current token can start a factor.
func (p *parser) firstInCat() (bool, error) {
	switch p.tok {
	case tokCloseParen, tokEOL, tokOr, tokEOS, tokEnd:
		return false, nil
	case tokClosure, tokPlus, tokOptional:
		return false, p.fail(DanglingClosure, "")
	case tokCCLEnd:
		return false, p.fail(StrayBracket, "")
	case tokBOL:
		return false, p.fail(MisplacedBOL, "")
	}
	return true, nil
}

// factor parses a term with an optional *, + or ?.
func (p *parser) factor() (nfa.Fragment, error) {
	f, err := p.term()
	if err != nil {
		return f, err
	}
	switch p.tok {
	case tokClosure:
		f = p.b.Star(f)
	case tokPlus:
		f = p.b.Plus(f)
	case tokOptional:
		f = p.b.Quest(f)
	default:
		return f, nil
	}
	return f, p.advance()
}

// term parses a parenthesized expression, a class, . or one character.
func (p *parser) term() (nfa.Fragment, error) {
	switch p.tok {
	case tokOpenParen:
		if err := p.advance(); err != nil {
			return nfa.Fragment{}, err
		}
		f, err := p.expr()
		if err != nil {
			return f, err
		}
		if p.tok != tokCloseParen {
			return f, p.fail(MissingParen, "")
		}
		return f, p.advance()

	case tokAny:
		return p.b.Any(), p.advance()

	case tokCCLStart:
		set := nfa.NewCharSet()
		if err := p.advance(); err != nil {
			return nfa.Fragment{}, err
		}
		if p.tok == tokBOL {
			set.Add(p.b.BOL())
			set.Add(p.b.EOF())
			set.Complement()
			if err := p.advance(); err != nil {
				return nfa.Fragment{}, err
			}
		}
		if err := p.classBody(set); err != nil {
			return nfa.Fragment{}, err
		}
		// classBody stops on the closing ]
		return p.b.Class(set), p.advance()
	}

	c := int(p.lexeme)
	if err := p.checkChar(c); err != nil {
		return nfa.Fragment{}, err
	}
	var f nfa.Fragment
	if p.spec.Options.IgnoreCase && p.tok == tokLiteral && unicode.IsLetter(p.lexeme) {
		set := nfa.NewCharSet()
		set.AddFold(c, p.alphabet())
		f = p.b.Class(set)
	} else {
		f = p.b.Literal(c)
	}
	return f, p.advance()
}

// classBody adds the members of a [...] class up to the closing ]. A dash
// is literal when it comes first or last; elsewhere it must follow a
// single character, which becomes the low end of a range.
func (p *parser) classBody(set *nfa.CharSet) error {
	first := -1
	leading := true
	for p.tok != tokCCLEnd {
		if p.tok == tokEnd || p.tok == tokEOS {
			return p.fail(BadExpr, "unterminated character class")
		}
		if p.tok == tokDash && !leading {
			if err := p.advance(); err != nil {
				return err
			}
			if p.tok == tokCCLEnd {
				p.add(set, '-')
				return nil
			}
			if first < 0 {
				return p.fail(BadDash, "")
			}
			hi := int(p.lexeme)
			if err := p.checkChar(hi); err != nil {
				return err
			}
			if hi < first {
				return p.fail(BadDash, "reversed range")
			}
			p.addRange(set, first, hi)
			first = -1
		} else {
			c := int(p.lexeme)
			if err := p.checkChar(c); err != nil {
				return err
			}
			p.add(set, c)
			first = c
		}
		leading = false
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) add(set *nfa.CharSet, c int) {
	if p.spec.Options.IgnoreCase {
		set.AddFold(c, p.alphabet())
		return
	}
	set.Add(c)
}

func (p *parser) addRange(set *nfa.CharSet, lo, hi int) {
	if !p.spec.Options.IgnoreCase {
		set.AddRange(lo, hi)
		return
	}
	for c := lo; c <= hi; c++ {
		set.AddFold(c, p.alphabet())
	}
}

func (p *parser) checkChar(c int) error {
	if c < 0 || c >= p.alphabet() {
		return p.fail(BadExpr, "character code out of range for the alphabet")
	}
	return nil
}
