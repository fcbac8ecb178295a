// Package scan runs a generated DFA table over input text.
//
// It is the reference driver for the tables the generator builds and
// behaves like the emitted scanners: the longest match wins, ties go to the
// earlier rule, a rule anchored with ^ only matches at the start of a line
// and a rule anchored with $ only before a line terminator or the end of
// input, without consuming the terminator.
package scan

import (
	"errors"
	"fmt"
	"io"

	"github.com/coregx/lexgen/dfa"
	"github.com/coregx/lexgen/spec"
)

// ErrNoMatch is returned (wrapped in a *MatchError) when no rule matches
// at the current position.
var ErrNoMatch = errors.New("no rule matches the input")

// MatchError reports input no rule matches. The offending character has
// been skipped, so scanning may continue.
type MatchError struct {
	Line, Col int
	Char      rune
}

// Error implements the error interface
func (e *MatchError) Error() string {
	return fmt.Sprintf("line %d, column %d: %v: %q", e.Line, e.Col, ErrNoMatch, e.Char)
}

// Unwrap returns ErrNoMatch
func (e *MatchError) Unwrap() error {
	return ErrNoMatch
}

// Token is one match.
type Token struct {
	// Rule is the declaration index of the matching rule.
	Rule int
	// Accept is the matching rule's action.
	Accept *spec.Accept
	Text   string
	// Line and Col locate the first character of Text, both 1-based.
	Line, Col int
}

// accepted is an accepting state reached after consuming src[:end].
type accepted struct {
	state, end int
}

// Scanner splits input into tokens.
type Scanner struct {
	t   *dfa.Table
	bol int
	eof int

	src   []rune
	pos   int
	state int
	atBOL bool

	// accepts collects the accepting states passed by the current match
	accepts []accepted

	line, col int
}

// New returns a scanner over src in start state 0.
func New(t *dfa.Table, src []rune) *Scanner {
	alphabet := t.Classes.Symbols() - 2
	return &Scanner{
		t:     t,
		bol:   alphabet,
		eof:   alphabet + 1,
		src:   src,
		atBOL: true,
		line:  1,
		col:   1,
	}
}

// Begin switches to the named start state with index state.
func (s *Scanner) Begin(state int) {
	s.state = state
}

// State returns the index of the current start state.
func (s *Scanner) State() int {
	return s.state
}

// Next returns the next token, or io.EOF at the end of input.
func (s *Scanner) Next() (Token, error) {
	for {
		tok, skip, err := s.match()
		if err != nil || !skip {
			return tok, err
		}
	}
}

// match runs the DFA once from the current position. skip is set when the
// match consumed only a line-start or end-of-input marker.
func (s *Scanner) match() (tok Token, skip bool, err error) {
	start := s.pos
	fedBOL := s.atBOL
	state := s.t.Start(s.state)
	initial := true
	s.accepts = s.accepts[:0]

	for i := start; ; {
		var sym int
		switch {
		case initial && s.atBOL:
			sym = s.bol
		case i >= len(s.src):
			sym = s.eof
		case int(s.src[i]) >= s.bol:
			// outside the alphabet; never one of the markers
			sym = -1
		default:
			sym = int(s.src[i])
		}
		if sym == s.eof && initial {
			return Token{}, false, io.EOF
		}

		next := s.t.Transition(state, sym)
		if next == dfa.F {
			break
		}
		state = next
		initial = false
		if sym != s.bol && sym != s.eof {
			i++
		}
		if s.t.Rows[state].IsAccepting() {
			s.accepts = append(s.accepts, accepted{state, i})
		}
		if sym == s.eof {
			break
		}
	}

	// The longest accept wins, except that a $ match left empty by trimming
	// its terminator would consume nothing; the next shorter accept is tried
	// instead, and the character is reported unmatched if none remains.
	for k := len(s.accepts) - 1; k >= 0; k-- {
		a := s.accepts[k]
		row := &s.t.Rows[a.state]
		end := a.end
		if row.Anchor&spec.AnchorEnd != 0 {
			end = trimTerminator(s.src, start, end)
		}
		if end == start && !fedBOL && !row.Accept.IsPseudo() {
			continue
		}

		tok = Token{
			Rule:   row.Accept.Rule,
			Accept: row.Accept,
			Text:   string(s.src[start:end]),
			Line:   s.line,
			Col:    s.col,
		}
		s.consume(start, end)
		return tok, row.Accept.IsPseudo(), nil
	}

	if start >= len(s.src) {
		return Token{}, false, io.EOF
	}
	err = &MatchError{Line: s.line, Col: s.col, Char: s.src[start]}
	s.consume(start, start+1)
	return Token{}, false, err
}

// consume advances past src[start:end] and updates the position counters.
func (s *Scanner) consume(start, end int) {
	for i := start; i < end; i++ {
		c := s.src[i]
		if isTerminator(c) && !(c == '\r' && i+1 < len(s.src) && s.src[i+1] == '\n') {
			s.line++
			s.col = 1
			continue
		}
		if c != '\r' && c != '\n' {
			s.col++
		}
	}
	s.atBOL = end > start && isTerminator(s.src[end-1])
	s.pos = end
}

// trimTerminator drops the line terminator a $ rule matched from the end of
// src[start:end].
func trimTerminator(src []rune, start, end int) int {
	if end > start && (src[end-1] == '\n' || src[end-1] == 0x2028 || src[end-1] == 0x2029) {
		end--
	}
	if end > start && src[end-1] == '\r' {
		end--
	}
	return end
}

func isTerminator(c rune) bool {
	switch c {
	case '\n', '\r', 0x2028, 0x2029:
		return true
	}
	return false
}
