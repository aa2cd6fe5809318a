package poly

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	vibeimage "vibe-trainer/internal/image"
)

func testImage() *vibeimage.Image {
	img := vibeimage.New(2, 1)
	img.Set(0, 0, 0.1, 0.2, 0.3)
	img.Set(1, 0, 0.8, 0.7, 0.6)
	return img
}

// identityModel maps each channel to itself.
func identityModel() *Model {
	return &Model{
		Basis: []Exponent{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		Coefs: []float64{
			1, 0, 0,
			0, 1, 0,
			0, 0, 1,
		},
	}
}

func TestApplyIdentityCoefficients(t *testing.T) {
	img := testImage()
	out := identityModel().Apply(img, 1.0)

	if !out.SameSize(img) {
		t.Fatalf("output %dx%d, want %dx%d", out.W, out.H, img.W, img.H)
	}
	for i := range img.Pix {
		if math.Abs(out.Pix[i]-img.Pix[i]) > 1e-9 {
			t.Errorf("pixel %d = %g, want %g", i, out.Pix[i], img.Pix[i])
		}
	}
}

func TestApplyIntensityZeroReturnsInput(t *testing.T) {
	img := testImage()
	// An aggressive model: everything maps to 0.9.
	m := &Model{Basis: []Exponent{{0, 0, 0}}, Coefs: []float64{0.9, 0.9, 0.9}}

	out := m.Apply(img, 0.0)
	if diff := cmp.Diff(img.Pix, out.Pix); diff != "" {
		t.Errorf("intensity 0 altered the image (-want +got):\n%s", diff)
	}
}

func TestApplyIntensityOneFullGrade(t *testing.T) {
	img := testImage()
	m := &Model{Basis: []Exponent{{0, 0, 0}}, Coefs: []float64{0.9, 0.9, 0.9}}

	out := m.Apply(img, 1.0)
	for i, v := range out.Pix {
		if math.Abs(v-0.9) > 1e-9 {
			t.Errorf("pixel %d = %g, want 0.9", i, v)
		}
	}
}

func TestApplyClampsIntensityAndOutput(t *testing.T) {
	img := testImage()
	m := &Model{Basis: []Exponent{{0, 0, 0}}, Coefs: []float64{2.0, -1.0, 0.5}}

	out := m.Apply(img, 5.0) // clamped to 1
	for i := 0; i < len(out.Pix); i += 3 {
		if out.Pix[i] != 1.0 {
			t.Errorf("red pixel %d = %g, want 1 (clamped)", i, out.Pix[i])
		}
		if out.Pix[i+1] != 0.0 {
			t.Errorf("green pixel %d = %g, want 0 (clamped)", i, out.Pix[i+1])
		}
	}
}

func TestApplyIsDeterministic(t *testing.T) {
	img := testImage()
	m := identityModel()
	a := m.Apply(img, 0.7)
	b := m.Apply(img, 0.7)
	if diff := cmp.Diff(a.Pix, b.Pix); diff != "" {
		t.Errorf("repeated application differs (-first +second):\n%s", diff)
	}
}

func TestModelValidate(t *testing.T) {
	m := identityModel()
	if err := m.Validate(); err != nil {
		t.Errorf("valid model rejected: %v", err)
	}
	m.Coefs = m.Coefs[:4]
	if err := m.Validate(); err == nil {
		t.Error("truncated coefficient matrix accepted")
	}
}
