package poly

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// binomial computes C(n, 3).
func binomial3(n int) int {
	return n * (n - 1) * (n - 2) / 6
}

func TestBasisSize(t *testing.T) {
	for d := 0; d <= 6; d++ {
		basis := Basis(d)
		want := binomial3(d + 3)
		if len(basis) != want {
			t.Errorf("Basis(%d): got %d entries, want %d", d, len(basis), want)
		}
		if basis[0] != (Exponent{0, 0, 0}) {
			t.Errorf("Basis(%d): first entry %v, want (0,0,0)", d, basis[0])
		}
		found := false
		for _, e := range basis {
			if e == (Exponent{A: d}) {
				found = true
			}
		}
		if !found {
			t.Errorf("Basis(%d): missing (%d,0,0)", d, d)
		}
	}
}

func TestBasisOrder(t *testing.T) {
	want := []Exponent{
		{0, 0, 0},
		{1, 0, 0}, {0, 1, 0}, {0, 0, 1},
		{2, 0, 0}, {1, 1, 0}, {1, 0, 1}, {0, 2, 0}, {0, 1, 1}, {0, 0, 2},
	}
	if diff := cmp.Diff(want, Basis(2)); diff != "" {
		t.Errorf("Basis(2) order mismatch (-want +got):\n%s", diff)
	}
}

func TestFeatures(t *testing.T) {
	pix := []float64{0.5, 0.25, 1.0}
	basis := Basis(2)
	phi := Features(pix, basis)

	rows, cols := phi.Dims()
	if rows != 1 || cols != len(basis) {
		t.Fatalf("Features dims = %dx%d, want 1x%d", rows, cols, len(basis))
	}
	for j, e := range basis {
		want := ipow(0.5, e.A) * ipow(0.25, e.B) * ipow(1.0, e.C)
		if got := phi.At(0, j); got != want {
			t.Errorf("feature %v = %g, want %g", e, got, want)
		}
	}
	if phi.At(0, 0) != 1.0 {
		t.Errorf("constant feature = %g, want 1", phi.At(0, 0))
	}
}
