package nfa

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/coregx/lexgen/internal/conv"
	"github.com/coregx/lexgen/spec"
)

// Unicode line terminators beyond \n and \r.
const (
	lineSeparator      = 0x2028
	paragraphSeparator = 0x2029
)

// Fragment is a partially built automaton with a single entry and a single
// exit. The entry is never the target of an edge inside the fragment, which
// is what lets Concat discard it.
type Fragment struct {
	Start, End StateID
}

// Builder constructs the NFA of a specification rule by rule.
//
// Rules are linked into a chain of epsilon states as they are added, so
// the accept states of earlier rules always get lower labels.
type Builder struct {
	states     []State
	stateRules [][]StateID

	alphabet int
	bol, eof int

	start, link StateID
}

// NewBuilder creates a builder for a character range of the given size and
// the given number of named start states. The BOL and EOF pseudo-symbols
// are allocated immediately after the character range.
func NewBuilder(alphabet, startStates int) *Builder {
	b := &Builder{
		states:     make([]State, 0, 64),
		stateRules: make([][]StateID, startStates),
		alphabet:   alphabet,
		bol:        alphabet,
		eof:        alphabet + 1,
	}
	b.start = b.newState()
	b.link = b.start
	return b
}

// BOL returns the beginning-of-line pseudo-symbol.
func (b *Builder) BOL() int {
	return b.bol
}

// EOF returns the end-of-input pseudo-symbol.
func (b *Builder) EOF() int {
	return b.eof
}

// Alphabet returns the size of the character range.
func (b *Builder) Alphabet() int {
	return b.alphabet
}

// States returns the current number of states, discarded ones included.
func (b *Builder) States() int {
	return len(b.states)
}

func (b *Builder) newState() StateID {
	id := StateID(conv.IntToUint32(len(b.states)))
	b.states = append(b.states, State{
		id:    id,
		edge:  EdgeEpsilon,
		next:  InvalidState,
		next2: InvalidState,
	})
	return id
}

func (b *Builder) edge(e Edge, set *CharSet) Fragment {
	start := b.newState()
	end := b.newState()
	s := &b.states[start]
	s.edge = e
	s.set = set
	s.next = end
	return Fragment{Start: start, End: end}
}

// Literal returns a fragment matching the single symbol c.
func (b *Builder) Literal(c int) Fragment {
	return b.edge(Edge(conv.IntToInt32(c)), nil)
}

// Class returns a fragment matching any symbol in set.
func (b *Builder) Class(set *CharSet) Fragment {
	return b.edge(EdgeCCL, set)
}

// Any returns a fragment matching any character except a line terminator.
func (b *Builder) Any() Fragment {
	set := NewCharSet()
	set.Add('\n')
	set.Add('\r')
	set.Add(b.bol)
	set.Add(b.eof)
	set.Complement()
	return b.Class(set)
}

// Concat joins a and c. The exit of a takes over the edges of c's entry,
// which is then discarded.
func (b *Builder) Concat(a, c Fragment) Fragment {
	src := b.states[c.Start]
	dst := &b.states[a.End]
	dst.edge = src.edge
	dst.set = src.set
	dst.next = src.next
	dst.next2 = src.next2
	b.discard(c.Start)

	end := c.End
	if c.End == c.Start {
		end = a.End
	}
	return Fragment{Start: a.Start, End: end}
}

func (b *Builder) discard(id StateID) {
	s := &b.states[id]
	s.dead = true
	s.edge = EdgeEmpty
	s.set = nil
	s.next = InvalidState
	s.next2 = InvalidState
}

// Alternate returns a fragment matching a or c.
func (b *Builder) Alternate(a, c Fragment) Fragment {
	start := b.newState()
	end := b.newState()
	b.states[start].next = a.Start
	b.states[start].next2 = c.Start
	b.states[a.End].next = end
	b.states[c.End].next = end
	return Fragment{Start: start, End: end}
}

func (b *Builder) closure(f Fragment, skip, repeat bool) Fragment {
	start := b.newState()
	end := b.newState()
	b.states[start].next = f.Start
	b.states[f.End].next = end
	if skip {
		b.states[start].next2 = end
	}
	if repeat {
		b.states[f.End].next2 = f.Start
	}
	return Fragment{Start: start, End: end}
}

// Star returns a fragment matching zero or more repetitions of f.
func (b *Builder) Star(f Fragment) Fragment {
	return b.closure(f, true, true)
}

// Plus returns a fragment matching one or more repetitions of f.
func (b *Builder) Plus(f Fragment) Fragment {
	return b.closure(f, false, true)
}

// Quest returns a fragment matching zero or one occurrence of f.
func (b *Builder) Quest(f Fragment) Fragment {
	return b.closure(f, true, false)
}

// NewlinePair returns a fragment matching one line terminator: \n, \r or
// \r\n, and the Unicode line and paragraph separators when the alphabet
// covers them.
func (b *Builder) NewlinePair() Fragment {
	start := b.newState()
	end := b.newState()

	nl := NewCharSet()
	nl.Add('\n')
	if b.alphabet > lineSeparator {
		nl.Add(lineSeparator)
		nl.Add(paragraphSeparator)
	}
	lf := b.Class(nl)
	b.states[lf.End].next = end

	cr := b.Literal('\r')
	crlf := b.Literal('\n')
	b.states[cr.End].next = end
	b.states[cr.End].next2 = crlf.Start
	b.states[crlf.End].next = end

	b.states[start].next = lf.Start
	b.states[start].next2 = cr.Start
	return Fragment{Start: start, End: end}
}

// AnchorStart prefixes f with a BOL edge.
func (b *Builder) AnchorStart(f Fragment) Fragment {
	start := b.newState()
	s := &b.states[start]
	s.edge = Edge(conv.IntToInt32(b.bol))
	s.next = f.Start
	return Fragment{Start: start, End: f.End}
}

// AnchorEnd suffixes f with a line terminator or the EOF pseudo-symbol.
func (b *Builder) AnchorEnd(f Fragment) Fragment {
	nl := b.NewlinePair()
	split := b.newState()
	eof := b.newState()
	b.states[f.End].next = split
	b.states[split].next = nl.Start
	b.states[split].next2 = eof
	b.states[eof].edge = Edge(conv.IntToInt32(b.eof))
	b.states[eof].next = nl.End
	return Fragment{Start: f.Start, End: nl.End}
}

// Accept marks the exit of f as the accept state of a rule.
func (b *Builder) Accept(f Fragment, accept *spec.Accept, anchor spec.Anchor) error {
	if f.End == InvalidState || int(f.End) >= len(b.states) {
		return &BuildError{Message: "rule has no accept state", StateID: f.End, Err: ErrZeroLength}
	}
	s := &b.states[f.End]
	s.accept = accept
	s.anchor = anchor
	return nil
}

// AddRule links a rule starting at start into the machine and makes it
// active in every start state whose index is set in active.
func (b *Builder) AddRule(start StateID, active *bitset.BitSet) {
	if b.states[b.link].next != InvalidState {
		l := b.newState()
		b.states[b.link].next2 = l
		b.link = l
	}
	b.states[b.link].next = start
	for i := range b.stateRules {
		if active.Test(uint(i)) {
			b.stateRules[i] = append(b.stateRules[i], start)
		}
	}
}

// AddMarkerRule adds the built-in rule that consumes a BOL or EOF
// pseudo-symbol no other rule accepts. It is active in every start state
// and must be the last rule.
func (b *Builder) AddMarkerRule(line int) {
	set := NewCharSet()
	set.Add(b.bol)
	set.Add(b.eof)
	f := b.Class(set)
	b.states[f.End].accept = &spec.Accept{Line: line, Rule: spec.PseudoRule}

	all := bitset.New(uint(len(b.stateRules)))
	for i := range b.stateRules {
		all.Set(uint(i))
	}
	b.AddRule(f.Start, all)
}

// Validate checks that every reference points at a live state.
func (b *Builder) Validate() error {
	check := func(from, to StateID, what string) error {
		if to == InvalidState {
			return nil
		}
		if int(to) >= len(b.states) {
			return &BuildError{Message: fmt.Sprintf("invalid %s state %d", what, to), StateID: from, Err: ErrInvalidState}
		}
		if b.states[to].dead {
			return &BuildError{Message: fmt.Sprintf("%s state %d was discarded", what, to), StateID: from, Err: ErrInvalidState}
		}
		return nil
	}
	for i := range b.states {
		s := &b.states[i]
		if s.dead {
			continue
		}
		if err := check(s.id, s.next, "next"); err != nil {
			return err
		}
		if err := check(s.id, s.next2, "next2"); err != nil {
			return err
		}
		if s.edge == EdgeCCL && s.set == nil {
			return &BuildError{Message: "class edge without a set", StateID: s.id}
		}
	}
	for _, starts := range b.stateRules {
		for _, id := range starts {
			if err := check(InvalidState, id, "rule start"); err != nil {
				return err
			}
		}
	}
	return nil
}

// Build validates the pool, drops discarded states and relabels the rest
// densely, keeping their relative order.
func (b *Builder) Build() (*NFA, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	relabel := make([]StateID, len(b.states))
	live := make([]State, 0, len(b.states))
	for i := range b.states {
		if b.states[i].dead {
			relabel[i] = InvalidState
			continue
		}
		relabel[i] = StateID(conv.IntToUint32(len(live)))
		live = append(live, b.states[i])
	}
	remap := func(id StateID) StateID {
		if id == InvalidState {
			return id
		}
		return relabel[id]
	}
	for i := range live {
		s := &live[i]
		s.id = StateID(conv.IntToUint32(i))
		s.next = remap(s.next)
		s.next2 = remap(s.next2)
	}
	stateRules := make([][]StateID, len(b.stateRules))
	for i, starts := range b.stateRules {
		stateRules[i] = make([]StateID, len(starts))
		for j, id := range starts {
			stateRules[i][j] = remap(id)
		}
	}

	n := &NFA{
		states:     live,
		start:      remap(b.start),
		stateRules: stateRules,
		alphabet:   b.alphabet,
		bol:        b.bol,
		eof:        b.eof,
	}
	tracer().Debugf("built NFA with %d states (%d discarded)", len(live), len(b.states)-len(live))
	return n, nil
}
