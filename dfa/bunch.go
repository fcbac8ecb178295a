package dfa

import (
	"encoding/binary"
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/coregx/lexgen/internal/conv"
	"github.com/coregx/lexgen/internal/sparse"
	"github.com/coregx/lexgen/nfa"
	"github.com/coregx/lexgen/spec"
	"github.com/twmb/murmur3"
)

// Bunch is a set of NFA states that becomes one DFA state.
//
// Two bunches are the same DFA state if and only if they hold the same NFA
// states. Bits is the canonical form used for that comparison; Set lists
// the same states in ascending order for iteration.
type Bunch struct {
	// Set holds the member NFA states in ascending order.
	Set []nfa.StateID
	// Bits has one bit per NFA state of the automaton.
	Bits *bitset.BitSet

	// Accept is the action of the accepting member with the lowest label,
	// or nil if no member accepts.
	Accept *spec.Accept
	// Anchor belongs to the same member as Accept.
	Anchor spec.Anchor
	// AcceptIndex is the label of that member, or nfa.InvalidState.
	AcceptIndex nfa.StateID

	label int
}

// Label returns the DFA state index assigned to the bunch.
func (b *Bunch) Label() int {
	return b.label
}

// Key hashes the member set. Equal sets always have equal keys.
func (b *Bunch) Key() uint64 {
	words := b.Bits.Bytes()
	buf := make([]byte, 8*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint64(buf[8*i:], w)
	}
	return murmur3.Sum64(buf)
}

// Equal reports whether b and o hold the same NFA states.
func (b *Bunch) Equal(o *Bunch) bool {
	return b.Bits.Equal(o.Bits)
}

// String returns a human-readable representation of the bunch
func (b *Bunch) String() string {
	return fmt.Sprintf("Bunch(label=%d, accept=%d, anchor=%s, nfaStates=%v)",
		b.label, b.AcceptIndex, b.Anchor, b.Set)
}

// closer computes epsilon closures over one NFA, reusing its scratch space.
type closer struct {
	n     *nfa.NFA
	seen  *sparse.SparseSet
	stack []nfa.StateID
}

func newCloser(n *nfa.NFA) *closer {
	return &closer{
		n:     n,
		seen:  sparse.NewSparseSet(conv.IntToUint32(n.States())),
		stack: make([]nfa.StateID, 0, 64),
	}
}

// close returns the bunch of states reachable from seeds through epsilon
// edges, seeds included.
func (c *closer) close(seeds []nfa.StateID) *Bunch {
	c.seen.Clear()
	c.stack = append(c.stack[:0], seeds...)
	for len(c.stack) > 0 {
		id := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]
		if id == nfa.InvalidState || !c.seen.Insert(uint32(id)) {
			continue
		}
		if s := c.n.State(id); s.IsEpsilon() {
			c.stack = append(c.stack, s.Next(), s.Next2())
		}
	}

	b := &Bunch{
		Bits:        bitset.New(uint(c.n.States())),
		AcceptIndex: nfa.InvalidState,
		label:       -1,
	}
	c.seen.Iter(func(v uint32) {
		b.Bits.Set(uint(v))
	})
	b.Set = make([]nfa.StateID, 0, c.seen.Len())
	for i, ok := b.Bits.NextSet(0); ok; i, ok = b.Bits.NextSet(i + 1) {
		id := nfa.StateID(i)
		b.Set = append(b.Set, id)
		if b.Accept == nil {
			if s := c.n.State(id); s.Accept() != nil {
				b.Accept = s.Accept()
				b.Anchor = s.Anchor()
				b.AcceptIndex = id
			}
		}
	}
	return b
}

// move returns the targets of the members of b whose edge consumes class.
func (c *closer) move(b *Bunch, class int) []nfa.StateID {
	var out []nfa.StateID
	for _, id := range b.Set {
		if s := c.n.State(id); s.Consumes(class) {
			out = append(out, s.Next())
		}
	}
	return out
}
