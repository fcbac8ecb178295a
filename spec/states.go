package spec

import (
	"github.com/bits-and-blooms/bitset"
)

// InitialState is the name of the start state every specification has.
const InitialState = "YYINITIAL"

// States maps start-state names to dense indices.
type States struct {
	index map[string]int
	names []string
}

// NewStates returns a table holding only InitialState at index 0.
func NewStates() *States {
	s := &States{index: make(map[string]int)}
	s.Declare(InitialState)
	return s
}

// Declare assigns name the next free index and returns it. Declaring a name
// twice keeps its first index.
func (s *States) Declare(name string) int {
	if idx, ok := s.index[name]; ok {
		return idx
	}
	idx := len(s.names)
	s.index[name] = idx
	s.names = append(s.names, name)
	return idx
}

// Index returns the index of name.
func (s *States) Index(name string) (int, bool) {
	idx, ok := s.index[name]
	return idx, ok
}

// Name returns the name declared at idx.
func (s *States) Name(idx int) string {
	return s.names[idx]
}

// Len returns the number of declared indices.
func (s *States) Len() int {
	return len(s.names)
}

// Names returns the names ordered by index.
func (s *States) Names() []string {
	return append([]string(nil), s.names...)
}

// All returns a set holding every declared index.
func (s *States) All() *bitset.BitSet {
	all := bitset.New(uint(len(s.names)))
	for i := range s.names {
		all.Set(uint(i))
	}
	return all
}
