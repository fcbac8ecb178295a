// Package spec holds the in-memory model of a lexical specification: user
// code, directives, macros, named start states and the ordered rule list.
//
// The model is pure data. The parse package fills it; the nfa, dfa and emit
// packages read it.
package spec

import (
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Anchor is a set of line-context constraints on a match.
type Anchor uint8

const (
	// AnchorNone places no constraint on the match.
	AnchorNone Anchor = 0
	// AnchorStart requires the match to begin at the start of a line (^).
	AnchorStart Anchor = 1 << 0
	// AnchorEnd requires the match to end at a line terminator or the end
	// of input (the terminator is not part of the token).
	AnchorEnd Anchor = 1 << 1
)

// String returns "none", "start", "end" or "start|end".
func (a Anchor) String() string {
	if a == AnchorNone {
		return "none"
	}
	var parts []string
	if a&AnchorStart != 0 {
		parts = append(parts, "start")
	}
	if a&AnchorEnd != 0 {
		parts = append(parts, "end")
	}
	return strings.Join(parts, "|")
}

// Accept is the payload of a rule's accepting NFA state. Pointer identity
// distinguishes rules: two rules with identical action text still own
// distinct Accepts.
type Accept struct {
	// Action is the verbatim action source including its braces.
	Action string
	// Line is the 1-based source line on which the action ends.
	Line int
	// Rule is the declaration index of the owning rule, or PseudoRule.
	Rule int
}

// PseudoRule marks the Accept of the built-in rule that consumes an
// unmatched line-start or end-of-input marker.
const PseudoRule = -1

// IsPseudo reports whether a belongs to the built-in marker rule.
func (a *Accept) IsPseudo() bool {
	return a != nil && a.Rule == PseudoRule
}

// Rule is one pattern/action pair from the rules section.
type Rule struct {
	// Index is the position of the rule in declaration order.
	Index int
	// States holds the indices of the start states the rule is active in.
	States *bitset.BitSet
	// Pattern is the expression text with macros expanded.
	Pattern string
	// Line is the line on which the rule begins.
	Line   int
	Accept *Accept
	Anchor Anchor
}

// ActiveIn reports whether the rule is active in start state idx.
func (r *Rule) ActiveIn(idx int) bool {
	return idx >= 0 && r.States.Test(uint(idx))
}

// Spec is a parsed lexical specification.
type Spec struct {
	// UserCode is the verbatim text before the first %%.
	UserCode string
	Options  *Options
	Macros   *Macros
	States   *States
	Rules    []*Rule
}

// New returns an empty specification with default options and the
// implicit initial start state declared.
func New() *Spec {
	return &Spec{
		Options: DefaultOptions(),
		Macros:  NewMacros(),
		States:  NewStates(),
	}
}

// AddRule appends a rule and assigns its declaration index.
func (s *Spec) AddRule(r *Rule) {
	r.Index = len(s.Rules)
	if r.Accept != nil {
		r.Accept.Rule = r.Index
	}
	s.Rules = append(s.Rules, r)
}

// RulesIn returns the rules active in start state idx, in declaration order.
func (s *Spec) RulesIn(idx int) []*Rule {
	var out []*Rule
	for _, r := range s.Rules {
		if r.ActiveIn(idx) {
			out = append(out, r)
		}
	}
	return out
}
