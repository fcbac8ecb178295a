package nfa

import (
	"errors"
	"testing"

	"github.com/coregx/lexgen/spec"
)

func TestBuilder_AcceptRejectsInvalidFragment(t *testing.T) {
	b := NewBuilder(128, 1)
	err := b.Accept(Fragment{Start: InvalidState, End: InvalidState}, &spec.Accept{}, spec.AnchorNone)
	if err == nil {
		t.Fatal("expected error for fragment without states")
	}
	if !errors.Is(err, ErrZeroLength) {
		t.Errorf("expected ErrZeroLength, got %v", err)
	}
}

func TestBuilder_ValidateDetectsDiscardedReference(t *testing.T) {
	b := NewBuilder(128, 1)
	x := b.Literal('x')
	y := b.Literal('y')
	b.Concat(x, y)
	// y.Start was discarded by Concat; pointing at it is a bug
	b.states[x.End].next2 = y.Start
	err := b.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	var be *BuildError
	if !errors.As(err, &be) {
		t.Fatalf("expected *BuildError, got %T", err)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestBuilder_PseudoSymbols(t *testing.T) {
	b := NewBuilder(256, 1)
	if b.BOL() != 256 || b.EOF() != 257 {
		t.Errorf("expected BOL=256 EOF=257, got %d %d", b.BOL(), b.EOF())
	}
	if b.Alphabet() != 256 {
		t.Errorf("expected alphabet 256, got %d", b.Alphabet())
	}
}

func TestBuilder_NewlinePairUnicode(t *testing.T) {
	b := NewBuilder(65536, 1)
	f := b.NewlinePair()
	if err := b.Accept(f, &spec.Accept{}, spec.AnchorNone); err != nil {
		t.Fatal(err)
	}
	b.AddRule(f.Start, all(1))
	n, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	for _, in := range [][]int{{'\n'}, {'\r'}, {'\r', '\n'}, {0x2028}, {0x2029}} {
		if _, ok := run(n, in); !ok {
			t.Errorf("expected %v to match a line terminator", in)
		}
	}
	if _, ok := run(n, []int{'\n', '\r'}); ok {
		t.Error("\\n\\r is two terminators")
	}
}
