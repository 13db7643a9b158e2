package systems

import (
	"math"
	"testing"
)

func TestModAlwaysInRange(t *testing.T) {
	tests := []struct {
		name string
		a, b float32
		want float32
	}{
		{"in range", 3, 10, 3},
		{"at zero", 0, 10, 0},
		{"negative wraps", -2, 10, 8},
		{"far negative wraps", -25, 10, 5},
		{"above wraps", 13, 10, 3},
		{"far above wraps", 1205.5, 1200, 5.5},
		{"exact multiple", 1200, 1200, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Mod(tt.a, tt.b)
			if math.Abs(float64(got-tt.want)) > 1e-4 {
				t.Errorf("Mod(%f, %f) = %f, want %f", tt.a, tt.b, got, tt.want)
			}
			if got < 0 || got >= tt.b {
				t.Errorf("Mod(%f, %f) = %f, outside [0, %f)", tt.a, tt.b, got, tt.b)
			}
		})
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1.5) || !IsFinite(0) || !IsFinite(-1e30) {
		t.Error("finite values reported non-finite")
	}
	if IsFinite(float32(math.NaN())) {
		t.Error("NaN reported finite")
	}
	if IsFinite(float32(math.Inf(1))) || IsFinite(float32(math.Inf(-1))) {
		t.Error("infinity reported finite")
	}
}
