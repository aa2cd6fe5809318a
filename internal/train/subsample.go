package train

import "math/rand"

// Subsample caps paired pixel buffers at capPixels pixels using a seeded
// selection without replacement. A cap of zero or below, or a cap at or
// above the available count, returns the inputs unchanged. The same seed
// and cap on the same data always select the same pixels.
func Subsample(x, y []float64, capPixels int, seed int64) ([]float64, []float64) {
	n := len(x) / 3
	if capPixels <= 0 || n <= capPixels {
		return x, y
	}

	r := rand.New(rand.NewSource(seed))
	idx := r.Perm(n)[:capPixels]

	xs := make([]float64, capPixels*3)
	ys := make([]float64, capPixels*3)
	for i, j := range idx {
		copy(xs[i*3:i*3+3], x[j*3:j*3+3])
		copy(ys[i*3:i*3+3], y[j*3:j*3+3])
	}
	return xs, ys
}
