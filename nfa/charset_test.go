package nfa

import (
	"testing"
)

func TestCharSet_Contains(t *testing.T) {
	cs := NewCharSet()
	cs.AddRange('a', 'c')
	cs.Add('x')

	for _, c := range "abcx" {
		if !cs.Contains(int(c)) {
			t.Errorf("expected %q in set", c)
		}
	}
	if cs.Contains('d') {
		t.Error("d should not be in set")
	}

	cs.Complement()
	if !cs.IsComplement() {
		t.Error("expected complemented set")
	}
	if cs.Contains('a') || !cs.Contains('d') {
		t.Error("complement should invert membership")
	}
	if cs.String() != "^{97, 98, 99, 120}" {
		t.Errorf("unexpected String() %q", cs.String())
	}
}

func TestCharSet_AddFold(t *testing.T) {
	tests := []struct {
		c     rune
		limit int
		want  []rune
	}{
		{'a', 128, []rune{'a', 'A'}},
		{'Z', 128, []rune{'z', 'Z'}},
		{'k', 128, []rune{'k', 'K'}},
		{'k', 65536, []rune{'k', 'K', 0x212A}}, // Kelvin sign
		{'1', 128, []rune{'1'}},
	}
	for _, tt := range tests {
		t.Run(string(tt.c), func(t *testing.T) {
			cs := NewCharSet()
			cs.AddFold(int(tt.c), tt.limit)
			if got := len(cs.Members()); got != len(tt.want) {
				t.Errorf("expected %d members, got %d (%s)", len(tt.want), got, cs)
			}
			for _, r := range tt.want {
				if !cs.Contains(int(r)) {
					t.Errorf("expected %U in set", r)
				}
			}
		})
	}
}

func TestCharSet_MapKeepsComplement(t *testing.T) {
	classes := &Classes{of: []int{0, 1, 1, 2}, n: 3}
	cs := NewCharSet()
	cs.AddRange(1, 2)
	cs.Complement()

	mapped := cs.Map(classes)
	if !mapped.IsComplement() {
		t.Error("complement flag lost")
	}
	if mapped.Contains(1) || !mapped.Contains(0) || !mapped.Contains(2) {
		t.Errorf("unexpected mapped set %s", mapped)
	}
}
