package dfa

import (
	"fmt"
	"strings"

	"github.com/coregx/lexgen/nfa"
	"github.com/coregx/lexgen/spec"
)

// F marks a missing transition.
const F = -1

// Row is one DFA state.
type Row struct {
	// Next holds the target state per symbol class, or F.
	Next []int32
	// Accept is the action of the rule this state accepts, or nil.
	Accept *spec.Accept
	// Anchor holds the anchors of that rule.
	Anchor spec.Anchor
}

// IsAccepting reports whether the row accepts a rule.
func (r *Row) IsAccepting() bool {
	return r.Accept != nil
}

// Table is a DFA over symbol classes.
type Table struct {
	Rows []Row
	// Starts holds the start row of each named start state, by state index.
	Starts []int
	// Classes maps symbols to the columns of Next.
	Classes *nfa.Classes
}

// Len returns the number of states.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Columns returns the number of symbol classes.
func (t *Table) Columns() int {
	return t.Classes.Len()
}

// Start returns the start row of named start state idx.
func (t *Table) Start(idx int) int {
	return t.Starts[idx]
}

// Transition returns the state reached from state on symbol sym, or F.
// sym is a character code or one of the BOL and EOF pseudo-symbols.
func (t *Table) Transition(state, sym int) int {
	if state < 0 || state >= len(t.Rows) {
		return F
	}
	class := t.Classes.Of(sym)
	if class < 0 {
		return F
	}
	return int(t.Rows[state].Next[class])
}

// String returns a compact listing of the table
func (t *Table) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "DFA{states: %d, columns: %d, starts: %v}\n", t.Len(), t.Columns(), t.Starts)
	for i := range t.Rows {
		r := &t.Rows[i]
		fmt.Fprintf(&sb, "  %d:", i)
		if r.Accept != nil {
			fmt.Fprintf(&sb, " accept(rule=%d, anchor=%s)", r.Accept.Rule, r.Anchor)
		}
		for c, next := range r.Next {
			if next != F {
				fmt.Fprintf(&sb, " %d->%d", c, next)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
