package nfa

import (
	"unicode"

	"github.com/coregx/lexgen/internal/sparse"
)

// CharSet is the symbol set of a character-class edge. A complemented set
// matches every symbol of the extended alphabet not in its member list.
type CharSet struct {
	bits       *sparse.BitSet
	complement bool
}

// NewCharSet returns an empty, uncomplemented set.
func NewCharSet() *CharSet {
	return &CharSet{bits: sparse.NewBitSet()}
}

// Add adds symbol c.
func (cs *CharSet) Add(c int) {
	cs.bits.Set(c)
}

// AddRange adds every symbol in [lo, hi].
func (cs *CharSet) AddRange(lo, hi int) {
	cs.bits.SetRange(lo, hi)
}

// AddFold adds c and every case variant of c below limit.
func (cs *CharSet) AddFold(c, limit int) {
	cs.bits.Set(c)
	for f := unicode.SimpleFold(rune(c)); f != rune(c); f = unicode.SimpleFold(f) {
		if int(f) < limit {
			cs.bits.Set(int(f))
		}
	}
}

// Complement inverts the meaning of the member list.
func (cs *CharSet) Complement() {
	cs.complement = !cs.complement
}

// IsComplement reports whether the set is complemented.
func (cs *CharSet) IsComplement() bool {
	return cs.complement
}

// Contains reports whether the set matches symbol c.
func (cs *CharSet) Contains(c int) bool {
	return cs.bits.Get(c) != cs.complement
}

// Members returns the member list, which is the excluded list for a
// complemented set.
func (cs *CharSet) Members() []int {
	return cs.bits.Members()
}

// Map rewrites the set in terms of symbol classes: the result holds class k
// iff the member list holds the symbols of class k. The complement flag is
// kept. Every class must be either fully inside or fully outside the member
// list, which Simplify guarantees.
func (cs *CharSet) Map(classes *Classes) *CharSet {
	out := &CharSet{bits: sparse.NewBitSet(), complement: cs.complement}
	cs.bits.Each(func(c int) bool {
		if c < len(classes.of) {
			out.bits.Set(classes.of[c])
		}
		return true
	})
	return out
}

// String returns the member list, prefixed by ^ if complemented.
func (cs *CharSet) String() string {
	if cs.complement {
		return "^" + cs.bits.String()
	}
	return cs.bits.String()
}
