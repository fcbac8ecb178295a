package dfa

import (
	"encoding/binary"

	"github.com/bits-and-blooms/bitset"
	"github.com/coregx/lexgen/internal/conv"
	"github.com/coregx/lexgen/spec"
)

// acceptKey identifies the initial group of a state. Accepts are compared
// by identity, so two rules with the same action text stay apart.
type acceptKey struct {
	accept *spec.Accept
	anchor spec.Anchor
}

// Minimize returns an equivalent table with the fewest states.
//
// States start out grouped by accepted rule and anchor. A group is split
// whenever two members move to different groups (or one to F) on some
// column, until no group splits. Groups are numbered in order of their
// lowest member, so the result of minimizing a minimal table is the table
// itself.
func Minimize(t *Table) *Table {
	n := t.Len()
	group := make([]int, n)

	initial := make(map[acceptKey]int)
	for s := range t.Rows {
		k := acceptKey{t.Rows[s].Accept, t.Rows[s].Anchor}
		g, ok := initial[k]
		if !ok {
			g = len(initial)
			initial[k] = g
		}
		group[s] = g
	}
	groups := len(initial)

	next := make([]int, n)
	sig := make([]byte, 0, 64)
	for {
		split := make(map[string]int, groups)
		for s := range t.Rows {
			sig = binary.AppendUvarint(sig[:0], uint64(group[s]))
			for _, target := range t.Rows[s].Next {
				g := int64(F)
				if target != F {
					g = int64(group[target])
				}
				sig = binary.AppendVarint(sig, g)
			}
			g, ok := split[string(sig)]
			if !ok {
				g = len(split)
				split[string(sig)] = g
			}
			next[s] = g
		}
		group, next = next, group
		if len(split) == groups {
			break
		}
		groups = len(split)
	}

	m := &Table{
		Rows:    make([]Row, groups),
		Starts:  make([]int, len(t.Starts)),
		Classes: t.Classes,
	}
	done := bitset.New(uint(groups))
	for s := range t.Rows {
		g := group[s]
		if done.Test(uint(g)) {
			continue
		}
		done.Set(uint(g))
		src := &t.Rows[s]
		row := Row{
			Next:   make([]int32, len(src.Next)),
			Accept: src.Accept,
			Anchor: src.Anchor,
		}
		for c, target := range src.Next {
			if target == F {
				row.Next[c] = F
				continue
			}
			row.Next[c] = conv.IntToInt32(group[target])
		}
		m.Rows[g] = row
	}
	for i, s := range t.Starts {
		m.Starts[i] = group[s]
	}

	tracer().Debugf("minimized %d DFA states to %d", n, groups)
	return m
}
