package testutil

import (
	"math"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	a := []float64{1.0, 2.0, 3.0}
	b := []float64{1.0, 2.1, 3.0}

	d, err := MaxAbsDiff(a, b)
	if err != nil {
		t.Fatalf("MaxAbsDiff error: %v", err)
	}

	if math.Abs(d-0.1) > 1e-15 {
		t.Fatalf("MaxAbsDiff = %v, want 0.1", d)
	}
}

func TestMaxAbsDiffMixedPrecision(t *testing.T) {
	d, err := MaxAbsDiff([]float32{0.5, 0.25}, []float64{0.5, 0.25})
	if err != nil {
		t.Fatalf("MaxAbsDiff error: %v", err)
	}

	if d != 0 {
		t.Fatalf("MaxAbsDiff = %v, want 0", d)
	}
}

func TestMaxAbsDiffLengthMismatch(t *testing.T) {
	_, err := MaxAbsDiff([]float64{1}, []float64{1, 2})
	if err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func TestMaxRelDiff(t *testing.T) {
	d, err := MaxRelDiff([]float64{1.1, 0.001}, []float64{1, 0}, 0.01)
	if err != nil {
		t.Fatalf("MaxRelDiff error: %v", err)
	}

	if math.Abs(d-0.1) > 1e-12 {
		t.Fatalf("MaxRelDiff = %v, want 0.1", d)
	}

	if _, err := MaxRelDiff([]float64{1}, []float64{}, 1); err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func TestRequireHelpersPass(t *testing.T) {
	a := []float32{1, 2, 3}
	RequireSliceEqual(t, a, a)
	RequireSliceNearlyEqual(t, a, []float32{1, 2, 3.0000001}, 1e-6)
	RequireFinite(t, a)
}
