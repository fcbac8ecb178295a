// Package nfa provides the Thompson NFA that a lexical specification is
// compiled into.
//
// States live in a flat pool and refer to each other by StateID. Every state
// has one edge: epsilon (up to two successors), a single symbol, or a
// character class. The alphabet is the configured character range extended
// by two pseudo-symbols, BOL and EOF, which make ^ and $ ordinary edges.
//
// After construction, Simplify partitions the extended alphabet into
// equivalence classes and rewrites every edge in terms of class codes, which
// become the columns of the DFA built by package dfa.
package nfa

import (
	"fmt"

	"github.com/coregx/lexgen/spec"
)

// StateID uniquely identifies an NFA state.
// This is a 32-bit unsigned integer for compact representation.
type StateID uint32

// InvalidState represents an invalid/uninitialized state ID
const InvalidState StateID = 0xFFFFFFFF

// Edge is the label of a state's outgoing edge. Non-negative values are
// symbol codes: characters and the BOL/EOF pseudo-symbols before
// simplification, class codes after.
type Edge int32

const (
	// EdgeEpsilon consumes nothing and leads to Next and, if set, Next2.
	EdgeEpsilon Edge = -1
	// EdgeCCL consumes any symbol in the state's CharSet.
	EdgeCCL Edge = -2
	// EdgeEmpty consumes nothing and leads nowhere.
	EdgeEmpty Edge = -3
)

// String returns a human-readable representation of the Edge
func (e Edge) String() string {
	switch e {
	case EdgeEpsilon:
		return "Epsilon"
	case EdgeCCL:
		return "CCL"
	case EdgeEmpty:
		return "Empty"
	default:
		return fmt.Sprintf("Symbol(%d)", int32(e))
	}
}

// State represents a single NFA state with its transitions.
// The edge determines which fields are valid.
type State struct {
	id   StateID
	edge Edge

	// For EdgeCCL
	set *CharSet

	next, next2 StateID

	// Set on the final state of a rule
	accept *spec.Accept
	anchor spec.Anchor

	dead bool
}

// ID returns the state's label. Labels of rule accept states increase in
// rule declaration order.
func (s *State) ID() StateID {
	return s.id
}

// Edge returns the state's edge label.
func (s *State) Edge() Edge {
	return s.edge
}

// Set returns the class of an EdgeCCL state, nil otherwise.
func (s *State) Set() *CharSet {
	if s.edge == EdgeCCL {
		return s.set
	}
	return nil
}

// Next returns the primary successor, or InvalidState.
func (s *State) Next() StateID {
	return s.next
}

// Next2 returns the second epsilon successor, or InvalidState.
func (s *State) Next2() StateID {
	return s.next2
}

// IsEpsilon returns true if the state consumes no input.
func (s *State) IsEpsilon() bool {
	return s.edge == EdgeEpsilon
}

// Accept returns the rule payload of an accepting state, nil otherwise.
func (s *State) Accept() *spec.Accept {
	return s.accept
}

// Anchor returns the anchors of the rule this state accepts.
func (s *State) Anchor() spec.Anchor {
	return s.anchor
}

// Consumes reports whether the state's edge consumes symbol sym.
func (s *State) Consumes(sym int) bool {
	switch {
	case s.edge == EdgeCCL:
		return s.set.Contains(sym)
	case s.edge >= 0:
		return int(s.edge) == sym
	default:
		return false
	}
}

// String returns a human-readable representation of the state
func (s *State) String() string {
	switch {
	case s.accept != nil:
		return fmt.Sprintf("State(%d, Accept rule %d, anchor %s)", s.id, s.accept.Rule, s.anchor)
	case s.edge == EdgeEpsilon:
		return fmt.Sprintf("State(%d, Epsilon -> [%d, %d])", s.id, int64(s.next), int64(s.next2))
	case s.edge == EdgeCCL:
		return fmt.Sprintf("State(%d, CCL %s -> %d)", s.id, s.set, s.next)
	case s.edge == EdgeEmpty:
		return fmt.Sprintf("State(%d, Empty)", s.id)
	default:
		return fmt.Sprintf("State(%d, Symbol %d -> %d)", s.id, int32(s.edge), s.next)
	}
}

// NFA represents a compiled Thompson NFA for a whole specification.
type NFA struct {
	// states contains all NFA states indexed by StateID
	states []State

	// start is the head of the rule chain
	start StateID

	// stateRules[i] lists the rule start states active in start state i,
	// in rule declaration order.
	stateRules [][]StateID

	// alphabet is the size of the character range; bol and eof follow it
	alphabet int
	bol, eof int

	// classes is set by Simplify
	classes *Classes
}

// Start returns the head of the rule chain.
func (n *NFA) Start() StateID {
	return n.start
}

// State returns the state with the given ID.
// Returns nil if the ID is invalid.
func (n *NFA) State(id StateID) *State {
	if id == InvalidState || int(id) >= len(n.states) {
		return nil
	}
	return &n.states[id]
}

// States returns the total number of states in the NFA
func (n *NFA) States() int {
	return len(n.states)
}

// StateRules returns the rule start states active in start state idx.
func (n *NFA) StateRules(idx int) []StateID {
	return n.stateRules[idx]
}

// StartStates returns the number of named start states.
func (n *NFA) StartStates() int {
	return len(n.stateRules)
}

// Alphabet returns the size of the character range, excluding the
// pseudo-symbols.
func (n *NFA) Alphabet() int {
	return n.alphabet
}

// BOL returns the beginning-of-line pseudo-symbol.
func (n *NFA) BOL() int {
	return n.bol
}

// EOF returns the end-of-input pseudo-symbol.
func (n *NFA) EOF() int {
	return n.eof
}

// Symbols returns the size of the extended alphabet.
func (n *NFA) Symbols() int {
	return n.alphabet + 2
}

// Classes returns the symbol classes computed by Simplify, or nil if the
// NFA has not been simplified.
func (n *NFA) Classes() *Classes {
	return n.classes
}

// String returns a human-readable representation of the NFA
func (n *NFA) String() string {
	return fmt.Sprintf("NFA{states: %d, startStates: %d, alphabet: %d, simplified: %v}",
		len(n.states), len(n.stateRules), n.alphabet, n.classes != nil)
}
