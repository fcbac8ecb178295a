package sparse

import (
	"math/bits"
	"sort"
	"strconv"
	"strings"
)

const blockBits = 64

// BitSet is a set of non-negative integers stored as a sorted list of
// 64-bit blocks. Only blocks holding at least one member are kept, so a set
// drawn from a 65536-symbol alphabet with a few members stays small.
type BitSet struct {
	offs   []int    // block index, ascending
	blocks []uint64 // blocks[i] covers [offs[i]*64, offs[i]*64+64)
}

// NewBitSet returns an empty set.
func NewBitSet() *BitSet {
	return &BitSet{}
}

// find returns the slot of block off and whether it exists.
func (b *BitSet) find(off int) (int, bool) {
	i := sort.SearchInts(b.offs, off)
	return i, i < len(b.offs) && b.offs[i] == off
}

// Set adds n to the set. Panics if n is negative.
func (b *BitSet) Set(n int) {
	if n < 0 {
		panic("sparse: negative bit index " + strconv.Itoa(n))
	}
	off := n / blockBits
	i, ok := b.find(off)
	if !ok {
		b.offs = append(b.offs, 0)
		b.blocks = append(b.blocks, 0)
		copy(b.offs[i+1:], b.offs[i:])
		copy(b.blocks[i+1:], b.blocks[i:])
		b.offs[i] = off
		b.blocks[i] = 0
	}
	b.blocks[i] |= 1 << uint(n%blockBits)
}

// SetRange adds every integer in [lo, hi].
func (b *BitSet) SetRange(lo, hi int) {
	for n := lo; n <= hi; n++ {
		b.Set(n)
	}
}

// Clear removes n from the set.
func (b *BitSet) Clear(n int) {
	if n < 0 {
		return
	}
	i, ok := b.find(n / blockBits)
	if !ok {
		return
	}
	b.blocks[i] &^= 1 << uint(n%blockBits)
	if b.blocks[i] == 0 {
		b.offs = append(b.offs[:i], b.offs[i+1:]...)
		b.blocks = append(b.blocks[:i], b.blocks[i+1:]...)
	}
}

// Get reports whether n is in the set.
func (b *BitSet) Get(n int) bool {
	if n < 0 {
		return false
	}
	i, ok := b.find(n / blockBits)
	return ok && b.blocks[i]&(1<<uint(n%blockBits)) != 0
}

// Len returns the number of members.
func (b *BitSet) Len() int {
	n := 0
	for _, w := range b.blocks {
		n += bits.OnesCount64(w)
	}
	return n
}

// Equal reports whether both sets hold the same members.
func (b *BitSet) Equal(o *BitSet) bool {
	if len(b.offs) != len(o.offs) {
		return false
	}
	for i := range b.offs {
		if b.offs[i] != o.offs[i] || b.blocks[i] != o.blocks[i] {
			return false
		}
	}
	return true
}

// Each calls f for every member in ascending order until f returns false.
func (b *BitSet) Each(f func(n int) bool) {
	for i, w := range b.blocks {
		base := b.offs[i] * blockBits
		for w != 0 {
			t := bits.TrailingZeros64(w)
			if !f(base + t) {
				return
			}
			w &= w - 1
		}
	}
}

// Members returns all members in ascending order.
func (b *BitSet) Members() []int {
	out := make([]int, 0, b.Len())
	b.Each(func(n int) bool {
		out = append(out, n)
		return true
	})
	return out
}

func (b *BitSet) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	b.Each(func(n int) bool {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(strconv.Itoa(n))
		return true
	})
	sb.WriteByte('}')
	return sb.String()
}
