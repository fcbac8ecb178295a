package conv

import (
	"math"
	"testing"
)

func TestConversionsInRange(t *testing.T) {
	if IntToUint32(42) != 42 {
		t.Error("IntToUint32(42) != 42")
	}
	if IntToInt32(-7) != -7 {
		t.Error("IntToInt32(-7) != -7")
	}
}

func TestConversionsPanicOnOverflow(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"IntToUint32 negative", func() { IntToUint32(-1) }},
		{"IntToInt32 too large", func() { IntToInt32(math.MaxInt32 + 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("%s did not panic", tt.name)
				}
			}()
			tt.fn()
		})
	}
}
