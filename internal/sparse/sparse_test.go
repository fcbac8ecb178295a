package sparse

import (
	"testing"
)

func TestSparseSet_Basic(t *testing.T) {
	s := NewSparseSet(100)

	// Empty set
	if s.Len() != 0 {
		t.Error("new set should be empty")
	}
	if s.Contains(0) {
		t.Error("empty set should not contain 0")
	}

	// Insert and contain
	if !s.Insert(5) {
		t.Error("first insert should return true")
	}
	if !s.Contains(5) {
		t.Error("set should contain 5 after insert")
	}
	if s.Insert(5) {
		t.Error("duplicate insert should return false")
	}
	if s.Len() != 1 {
		t.Errorf("len should be 1, got %d", s.Len())
	}

	// Multiple inserts
	s.Insert(10)
	s.Insert(3)
	s.Insert(7)
	if s.Len() != 4 {
		t.Errorf("len should be 4, got %d", s.Len())
	}

	// Clear
	s.Clear()
	if s.Len() != 0 {
		t.Error("set should be empty after clear")
	}
	if s.Contains(5) {
		t.Error("cleared set should not contain 5")
	}
}

func TestSparseSet_InsertionOrder(t *testing.T) {
	s := NewSparseSet(100)
	s.Insert(5)
	s.Insert(2)
	s.Insert(8)
	s.Insert(1)

	expected := []uint32{5, 2, 8, 1}
	var values []uint32
	s.Iter(func(v uint32) { values = append(values, v) })
	if len(values) != len(expected) {
		t.Fatalf("expected %d values, got %d", len(expected), len(values))
	}
	for i, v := range values {
		if v != expected[i] {
			t.Errorf("at index %d: expected %d, got %d", i, expected[i], v)
		}
	}
}

func TestSparseSet_ClearPreservesCapacity(t *testing.T) {
	s := NewSparseSet(100)
	for i := uint32(0); i < 50; i++ {
		s.Insert(i)
	}
	s.Clear()

	// Should be able to insert again without issues
	for i := uint32(0); i < 50; i++ {
		s.Insert(i)
	}
	if s.Len() != 50 {
		t.Errorf("len should be 50, got %d", s.Len())
	}
}

func TestSparseSet_CrossValidation(t *testing.T) {
	// Test that garbage values in sparse don't cause false positives
	s := NewSparseSet(100)
	s.Insert(5)
	s.Insert(10)
	s.Clear()

	// After clear, contains should return false even though
	// sparse[5] and sparse[10] still have old values
	if s.Contains(5) || s.Contains(10) {
		t.Error("cleared set should not contain old values")
	}

	// Insert new values
	s.Insert(3)
	if !s.Contains(3) {
		t.Error("should contain 3")
	}
	if s.Contains(5) || s.Contains(10) {
		t.Error("should not contain old values")
	}
}

func BenchmarkSparseSet_Insert(b *testing.B) {
	s := NewSparseSet(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Clear()
		for j := uint32(0); j < 100; j++ {
			s.Insert(j)
		}
	}
}

func BenchmarkSparseSet_Contains(b *testing.B) {
	s := NewSparseSet(1000)
	for j := uint32(0); j < 100; j++ {
		s.Insert(j)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for j := uint32(0); j < 100; j++ {
			s.Contains(j)
		}
	}
}

func BenchmarkSparseSet_Clear(b *testing.B) {
	s := NewSparseSet(1000)
	for j := uint32(0); j < 1000; j++ {
		s.Insert(j)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Clear()
		s.Insert(0) // Re-add one element so Clear has work to "undo"
	}
}
