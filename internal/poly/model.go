package poly

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	vibeimage "vibe-trainer/internal/image"
	"vibe-trainer/pkg/colorutil"
)

// Model is a fitted polynomial color transform. Coefs holds the P x 3
// coefficient matrix row-major, one column per output channel, in the
// exact order of Basis. Immutable after fitting.
type Model struct {
	Basis []Exponent `json:"exps"`
	Coefs []float64  `json:"coefs"`
}

// Fit trains a model on flat pixel buffers at the given ridge strength.
func Fit(x, y []float64, maxDegree int, lambda float64) (*Model, error) {
	basis := Basis(maxDegree)
	coefs, err := FitRidge(x, y, basis, lambda)
	if err != nil {
		return nil, err
	}
	return &Model{Basis: basis, Coefs: coefs}, nil
}

// NumFeatures returns the size of the feature basis.
func (m *Model) NumFeatures() int {
	return len(m.Basis)
}

// Validate checks that the coefficient matrix matches the basis layout.
func (m *Model) Validate() error {
	if len(m.Coefs) != len(m.Basis)*3 {
		return fmt.Errorf("coefficient matrix has %d entries, want %d for %d features",
			len(m.Coefs), len(m.Basis)*3, len(m.Basis))
	}
	return nil
}

// ApplyPixels transforms a flat pixel buffer at full intensity, clamping
// the graded result to [0,1].
func (m *Model) ApplyPixels(pix []float64) []float64 {
	phi := Features(pix, m.Basis)
	coefMat := mat.NewDense(len(m.Basis), 3, m.Coefs)

	var graded mat.Dense
	graded.Mul(phi, coefMat)

	n := len(pix) / 3
	out := make([]float64, len(pix))
	for i := 0; i < n; i++ {
		for c := 0; c < 3; c++ {
			out[i*3+c] = colorutil.Clamp01(graded.At(i, c))
		}
	}
	return out
}

// Apply grades an image and blends it with the original by intensity t,
// clamped to [0,1]. Pure: identical inputs yield identical output, and the
// output always has the input's dimensions.
func (m *Model) Apply(img *vibeimage.Image, intensity float64) *vibeimage.Image {
	t := colorutil.Clamp01(intensity)
	graded := m.ApplyPixels(img.Pix)

	out := vibeimage.New(img.W, img.H)
	for i, v := range img.Pix {
		out.Pix[i] = colorutil.Clamp01(v*(1.0-t) + graded[i]*t)
	}
	return out
}
