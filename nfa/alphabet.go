package nfa

// Classes maps each symbol of the extended alphabet to its equivalence
// class.
//
// Two symbols belong to the same class if no edge of the NFA distinguishes
// them, so they cause identical transitions in every DFA state. The DFA
// then needs one column per class instead of one per symbol.
//
// Example for a specification with the single rule [a-z]+ over ASCII:
//   - Class 0: 0x00-0x60 and 0x7b-0x7f
//   - Class 1: 'a'-'z'
//   - Class 2: BOL and EOF, which only the built-in marker rule reads
type Classes struct {
	// of maps each symbol to its class
	of []int
	n  int
}

// Of returns the class of symbol sym, or -1 if sym is outside the extended
// alphabet.
func (c *Classes) Of(sym int) int {
	if sym < 0 || sym >= len(c.of) {
		return -1
	}
	return c.of[sym]
}

// Len returns the number of classes.
func (c *Classes) Len() int {
	return c.n
}

// Symbols returns the size of the extended alphabet.
func (c *Classes) Symbols() int {
	return len(c.of)
}

// Elements returns all symbols that belong to the given class.
func (c *Classes) Elements(class int) []int {
	var elems []int
	for sym, cl := range c.of {
		if cl == class {
			elems = append(elems, sym)
		}
	}
	return elems
}

// Simplify partitions the extended alphabet of n into equivalence classes
// and rewrites every edge in terms of class codes: a symbol edge becomes the
// code of its class, a class edge becomes the set of codes it covers. The
// language and the accept states are unchanged.
//
// Classes are numbered in order of first split, with the class holding
// symbol 0 numbered 0. Calling Simplify again returns the existing classes.
func Simplify(n *NFA) *Classes {
	if n.classes != nil {
		return n.classes
	}

	symbols := n.Symbols()
	of := make([]int, symbols)
	size := []int{symbols} // members per class
	count := 1

	inside := make(map[int]bool)
	outside := make(map[int]bool)
	split := make(map[int]int)

	for i := range n.states {
		s := &n.states[i]
		switch {
		case s.edge >= 0:
			// a lone symbol splits its class unless it is already alone
			sym := int(s.edge)
			if cl := of[sym]; size[cl] > 1 {
				size[cl]--
				of[sym] = count
				size = append(size, 1)
				count++
			}
		case s.edge == EdgeCCL:
			clear(inside)
			clear(outside)
			for sym := 0; sym < symbols; sym++ {
				if s.set.Contains(sym) {
					inside[of[sym]] = true
				} else {
					outside[of[sym]] = true
				}
			}
			clear(split)
			for sym := 0; sym < symbols; sym++ {
				cl := of[sym]
				if !inside[cl] || !outside[cl] || !s.set.Contains(sym) {
					continue
				}
				to, ok := split[cl]
				if !ok {
					to = count
					split[cl] = to
					size = append(size, 0)
					count++
				}
				size[cl]--
				size[to]++
				of[sym] = to
			}
		}
	}

	classes := &Classes{of: of, n: count}
	for i := range n.states {
		s := &n.states[i]
		switch {
		case s.edge >= 0:
			s.edge = Edge(of[s.edge])
		case s.edge == EdgeCCL:
			s.set = s.set.Map(classes)
		}
	}
	n.classes = classes
	tracer().Debugf("simplified %d symbols into %d classes", symbols, count)
	return classes
}
