package dfa

// registry stores the bunches created during subset construction and finds
// an existing bunch with the same NFA states.
//
// Bunches are indexed by the murmur3 hash of their member bitset; colliding
// keys are told apart by comparing the bitsets.
type registry struct {
	// byKey maps Bunch.Key -> bunches with that key
	byKey map[uint64][]*Bunch

	// bunches in label order
	bunches []*Bunch

	// maxStates is the capacity limit
	maxStates int

	// Statistics for tracing
	hits   uint64 // Number of lookups that found a bunch
	misses uint64 // Number of lookups that did not
}

func newRegistry(maxStates int) *registry {
	return &registry{
		byKey:     make(map[uint64][]*Bunch),
		maxStates: maxStates,
	}
}

// get returns the registered bunch holding the same NFA states as b.
func (r *registry) get(b *Bunch) (*Bunch, bool) {
	for _, o := range r.byKey[b.Key()] {
		if o.Equal(b) {
			r.hits++
			return o, true
		}
	}
	r.misses++
	return nil, false
}

// add labels b with the next DFA state index and registers it.
// Returns ErrStateLimit when the registry is at capacity.
func (r *registry) add(b *Bunch) (int, error) {
	if len(r.bunches) >= r.maxStates {
		return -1, ErrStateLimit
	}
	b.label = len(r.bunches)
	r.bunches = append(r.bunches, b)
	key := b.Key()
	r.byKey[key] = append(r.byKey[key], b)
	return b.label, nil
}

// getOrAdd returns the label of the bunch equal to b, registering b if
// there is none.
func (r *registry) getOrAdd(b *Bunch) (int, error) {
	if existing, ok := r.get(b); ok {
		return existing.label, nil
	}
	return r.add(b)
}

// len returns the number of registered bunches
func (r *registry) len() int {
	return len(r.bunches)
}
