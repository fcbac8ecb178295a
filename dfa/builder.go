package dfa

import (
	"github.com/coregx/lexgen/internal/conv"
	"github.com/coregx/lexgen/nfa"
)

// Builder converts a simplified NFA into a DFA table by subset
// construction.
type Builder struct {
	n       *nfa.NFA
	classes *nfa.Classes
	config  Config

	reg *registry
	cl  *closer
}

// NewBuilder creates a builder for n. classes must be the result of
// nfa.Simplify on n.
func NewBuilder(n *nfa.NFA, classes *nfa.Classes, config Config) *Builder {
	return &Builder{
		n:       n,
		classes: classes,
		config:  config,
	}
}

// Build is shorthand for NewBuilder(n, classes, config).Build().
func Build(n *nfa.NFA, classes *nfa.Classes, config Config) (*Table, error) {
	return NewBuilder(n, classes, config).Build()
}

// Build performs subset construction.
//
// Each named start state gets its own start row, created in state index
// order from that state's rules only, so row 0 starts the first state.
// Rows are then completed in index order; a move that reaches a set of NFA
// states already seen reuses its row.
func (b *Builder) Build() (*Table, error) {
	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	if b.classes == nil || b.n.Classes() != b.classes {
		return nil, &Error{Kind: Internal, Message: "NFA was not simplified with the given classes"}
	}
	if b.classes.Symbols() != b.n.Symbols() {
		return nil, &Error{Kind: Internal, Message: "classes do not cover the NFA alphabet"}
	}

	b.reg = newRegistry(b.config.MaxStates)
	b.cl = newCloser(b.n)

	t := &Table{
		Starts:  make([]int, b.n.StartStates()),
		Classes: b.classes,
	}
	for i := range t.Starts {
		label, err := b.reg.add(b.cl.close(b.n.StateRules(i)))
		if err != nil {
			return nil, err
		}
		t.Starts[i] = label
	}

	columns := b.classes.Len()
	for w := 0; w < b.reg.len(); w++ {
		bunch := b.reg.bunches[w]
		row := Row{
			Next:   make([]int32, columns),
			Accept: bunch.Accept,
			Anchor: bunch.Anchor,
		}
		for c := 0; c < columns; c++ {
			targets := b.cl.move(bunch, c)
			if len(targets) == 0 {
				row.Next[c] = F
				continue
			}
			label, err := b.reg.getOrAdd(b.cl.close(targets))
			if err != nil {
				return nil, err
			}
			row.Next[c] = conv.IntToInt32(label)
		}
		t.Rows = append(t.Rows, row)
	}

	tracer().Debugf("subset construction: %d NFA states -> %d DFA states over %d classes (%d hits, %d misses)",
		b.n.States(), t.Len(), columns, b.reg.hits, b.reg.misses)
	return t, nil
}
