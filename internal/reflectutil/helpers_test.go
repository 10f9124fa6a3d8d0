package reflectutil

import (
	"math"
	"testing"
)

func TestInt64(t *testing.T) {
	type countryID int32
	seven := 7

	tests := []struct {
		name   string
		input  any
		want   int64
		wantOK bool
	}{
		{"int", 42, 42, true},
		{"int32", int32(-3), -3, true},
		{"uint16", uint16(9), 9, true},
		{"named type", countryID(12), 12, true},
		{"pointer", &seven, 7, true},
		{"uint overflow", uint64(math.MaxUint64), 0, false},
		{"float", 1.5, 0, false},
		{"string", "1", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Int64(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("Int64(%v) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Int64(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFloat64(t *testing.T) {
	if got, ok := Float64(float32(1.5)); !ok || got != 1.5 {
		t.Errorf("Float64(float32) = %v, %v", got, ok)
	}
	if got, ok := Float64(3); !ok || got != 3 {
		t.Errorf("Float64(int) = %v, %v", got, ok)
	}
	if _, ok := Float64("3"); ok {
		t.Error("expected string to be rejected")
	}
}

func TestString(t *testing.T) {
	type genre string

	if got, ok := String(genre("DRAMA")); !ok || got != "DRAMA" {
		t.Errorf("String(named) = %q, %v", got, ok)
	}
	if _, ok := String(1); ok {
		t.Error("expected int to be rejected")
	}
}
