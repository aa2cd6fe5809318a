package train

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sequencePixels(n int) []float64 {
	pix := make([]float64, n*3)
	for i := range pix {
		pix[i] = float64(i)
	}
	return pix
}

func TestSubsampleDeterministic(t *testing.T) {
	x := sequencePixels(100)
	y := sequencePixels(100)

	x1, y1 := Subsample(x, y, 15, 42)
	x2, y2 := Subsample(x, y, 15, 42)

	if len(x1) != 15*3 || len(y1) != 15*3 {
		t.Fatalf("subsample sizes = %d, %d pixels, want 15 each", len(x1)/3, len(y1)/3)
	}
	if diff := cmp.Diff(x1, x2); diff != "" {
		t.Errorf("same seed selected different x pixels:\n%s", diff)
	}
	if diff := cmp.Diff(y1, y2); diff != "" {
		t.Errorf("same seed selected different y pixels:\n%s", diff)
	}
}

func TestSubsampleKeepsPairsAligned(t *testing.T) {
	x := sequencePixels(50)
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = v + 1000
	}

	xs, ys := Subsample(x, y, 10, 7)
	for i := range xs {
		if ys[i] != xs[i]+1000 {
			t.Fatalf("pair alignment broken at %d: x=%g y=%g", i, xs[i], ys[i])
		}
	}
}

func TestSubsampleCapAtOrAboveCount(t *testing.T) {
	x := sequencePixels(20)
	y := sequencePixels(20)

	for _, capPixels := range []int{20, 100, 0, -1} {
		xs, ys := Subsample(x, y, capPixels, 1)
		if diff := cmp.Diff(x, xs); diff != "" {
			t.Errorf("cap %d altered x:\n%s", capPixels, diff)
		}
		if diff := cmp.Diff(y, ys); diff != "" {
			t.Errorf("cap %d altered y:\n%s", capPixels, diff)
		}
	}
}
