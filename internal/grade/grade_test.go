package grade

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	vibeimage "vibe-trainer/internal/image"
)

func testParams() *Params {
	return &Params{
		AnchorsIn:  [3]float64{0.1, 0.5, 0.9},
		AnchorsOut: [3]float64{0.05, 0.45, 0.80},
		SatScale:   0.8,
		Balance:    [3]float64{1.0, 1.0, 1.0},
		WarmTone:   warmTone,
		CoolTone:   coolTone,
		CyanSupp:   cyanSuppression,
		Vignette:   vignetteStrength,
		MatteLift:  matteLift,
		Grain:      grainStrength,
	}
}

func TestCoordNoiseDeterministic(t *testing.T) {
	coords := [][2]int{{0, 0}, {1, 0}, {0, 1}, {17, 42}, {1023, 767}}
	for _, c := range coords {
		first := CoordNoise(c[0], c[1])
		second := CoordNoise(c[0], c[1])
		if first != second {
			t.Errorf("CoordNoise(%d,%d) not deterministic: %g vs %g", c[0], c[1], first, second)
		}
		if first < 0 || first >= 1 {
			t.Errorf("CoordNoise(%d,%d) = %g, want [0,1)", c[0], c[1], first)
		}
	}
	if CoordNoise(17, 42) == CoordNoise(42, 17) {
		t.Error("transposed coordinates should hash differently")
	}
}

func TestApplyIntensityZeroReturnsInput(t *testing.T) {
	img := vibeimage.New(2, 1)
	img.Set(0, 0, 0.3, 0.6, 0.2)
	img.Set(1, 0, 0.9, 0.1, 0.5)

	out := testParams().Apply(img, 0.0)
	if diff := cmp.Diff(img.Pix, out.Pix); diff != "" {
		t.Errorf("intensity 0 altered the image (-want +got):\n%s", diff)
	}
}

func TestApplyFullIntensityBounded(t *testing.T) {
	img := vibeimage.New(2, 1)
	img.Set(0, 0, 0.3, 0.6, 0.2)
	img.Set(1, 0, 0.9, 0.1, 0.5)

	out := testParams().Apply(img, 1.0)
	if !out.SameSize(img) {
		t.Fatalf("output %dx%d, want %dx%d", out.W, out.H, img.W, img.H)
	}
	for i, v := range out.Pix {
		if v < 0 || v > 1 {
			t.Errorf("pixel %d = %g, out of [0,1]", i, v)
		}
	}
	if diff := cmp.Diff(img.Pix, out.Pix); diff == "" {
		t.Error("full-intensity grade left the image unchanged")
	}
}

func TestApplyIsReproducible(t *testing.T) {
	img := vibeimage.New(4, 3)
	for i := range img.Pix {
		img.Pix[i] = float64(i%7) / 6.0
	}
	p := testParams()
	a := p.Apply(img, 1.0)
	b := p.Apply(img, 1.0)
	if diff := cmp.Diff(a.Pix, b.Pix); diff != "" {
		t.Errorf("repeated grade differs (-first +second):\n%s", diff)
	}
}

// flatImage returns a w x h image of one uniform color.
func flatImage(w, h int, r, g, b float64) *vibeimage.Image {
	img := vibeimage.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, r, g, b)
		}
	}
	return img
}

func rampImage(w, h int) *vibeimage.Image {
	img := vibeimage.New(w, h)
	n := w*h - 1
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := float64(i) / float64(n)
			img.Set(x, y, v, v, v)
			i++
		}
	}
	return img
}

func TestFitAnchorsWithinBands(t *testing.T) {
	inputs := []*vibeimage.Image{rampImage(16, 16)}
	refs := []*vibeimage.Image{rampImage(16, 16)}

	p, err := Fit(inputs, refs)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	shadow, mid, high := p.AnchorsOut[0], p.AnchorsOut[1], p.AnchorsOut[2]
	if shadow < 0.02 || shadow > 0.20 {
		t.Errorf("shadow anchor %g outside [0.02,0.20]", shadow)
	}
	if mid < shadow+0.05 || mid > 0.48 {
		t.Errorf("midtone anchor %g outside [shadow+0.05, 0.48]", mid)
	}
	if high < mid+0.08 || high > 0.86 {
		t.Errorf("highlight anchor %g outside [midtone+0.08, 0.86]", high)
	}
	if p.SatScale < 0.45 || p.SatScale > 0.95 {
		t.Errorf("saturation scale %g outside [0.45,0.95]", p.SatScale)
	}
	if p.Balance[1] != 1.0 {
		t.Errorf("green balance %g, want fixed 1", p.Balance[1])
	}
}

func TestFitBalanceTracksReferences(t *testing.T) {
	inputs := []*vibeimage.Image{flatImage(4, 4, 0.5, 0.5, 0.5)}
	// Warm reference: more red than blue.
	refs := []*vibeimage.Image{flatImage(4, 4, 0.6, 0.5, 0.4)}

	p, err := Fit(inputs, refs)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if math.Abs(p.Balance[0]-1.2) > 1e-9 {
		t.Errorf("red balance %g, want 1.2", p.Balance[0])
	}
	if math.Abs(p.Balance[2]-0.8) > 1e-9 {
		t.Errorf("blue balance %g, want 0.8", p.Balance[2])
	}
}

func TestFitRequiresData(t *testing.T) {
	ref := flatImage(2, 2, 0.5, 0.5, 0.5)
	if _, err := Fit(nil, []*vibeimage.Image{ref}); !errors.Is(err, ErrNoInputs) {
		t.Errorf("got %v, want ErrNoInputs", err)
	}
	if _, err := Fit([]*vibeimage.Image{ref}, nil); !errors.Is(err, ErrNoReferences) {
		t.Errorf("got %v, want ErrNoReferences", err)
	}
}

func TestToneCurveMonotonicAnchors(t *testing.T) {
	p := testParams()
	prev := -1.0
	for i := 0; i <= 100; i++ {
		l := float64(i) / 100.0
		v := p.toneCurve(l)
		if v < prev-1e-12 {
			t.Fatalf("tone curve not monotonic at l=%g: %g < %g", l, v, prev)
		}
		prev = v
	}
	if got := p.toneCurve(0.1); math.Abs(got-0.05) > 1e-12 {
		t.Errorf("toneCurve(0.1) = %g, want anchor 0.05", got)
	}
	if got := p.toneCurve(0.5); math.Abs(got-0.45) > 1e-12 {
		t.Errorf("toneCurve(0.5) = %g, want anchor 0.45", got)
	}
}
