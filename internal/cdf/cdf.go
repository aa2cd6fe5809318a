// Package cdf implements per-channel histogram matching: a 256-entry
// lookup table built from matched quantiles of input and reference
// pixel distributions.
package cdf

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	vibeimage "vibe-trainer/internal/image"
	"vibe-trainer/pkg/colorutil"
)

// Levels is the lookup-table resolution per channel.
const Levels = 256

// ErrNoReferences is returned when fitting without any style reference image.
var ErrNoReferences = errors.New("cdf matching requires at least one style reference image")

// ErrNoInputs is returned when fitting without any input image.
var ErrNoInputs = errors.New("cdf matching requires at least one input image")

// Model holds the per-channel intensity lookup tables. Immutable after fit.
type Model struct {
	LUT [3][Levels]float64 `json:"lut"`
}

// pooledChannel gathers one channel of every image into a sorted slice.
func pooledChannel(images []*vibeimage.Image, c int) []float64 {
	total := 0
	for _, im := range images {
		total += im.W * im.H
	}
	vals := make([]float64, 0, total)
	for _, im := range images {
		for i := c; i < len(im.Pix); i += 3 {
			vals = append(vals, im.Pix[i])
		}
	}
	sort.Float64s(vals)
	return vals
}

// interp evaluates the piecewise-linear curve through (xs, ys) at v,
// saturating at the curve's ends. xs must be nondecreasing.
func interp(v float64, xs, ys []float64) float64 {
	j := sort.SearchFloat64s(xs, v)
	if j == 0 {
		return ys[0]
	}
	if j == len(xs) {
		return ys[len(ys)-1]
	}
	x0, x1 := xs[j-1], xs[j]
	if x1 == x0 {
		return ys[j]
	}
	frac := (v - x0) / (x1 - x0)
	return ys[j-1] + frac*(ys[j]-ys[j-1])
}

// Fit builds the lookup table from pooled input and reference distributions.
// The inputs and references are pooled independently of any pairing. For each
// channel, 256 evenly spaced quantiles of both distributions are sampled and
// each output level maps to the reference value at the input's quantile
// position for that level.
func Fit(inputs, refs []*vibeimage.Image) (*Model, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}
	if len(refs) == 0 {
		return nil, ErrNoReferences
	}

	m := &Model{}
	srcQ := make([]float64, Levels)
	tgtQ := make([]float64, Levels)
	for c := 0; c < 3; c++ {
		src := pooledChannel(inputs, c)
		tgt := pooledChannel(refs, c)
		for i := 0; i < Levels; i++ {
			q := float64(i) / float64(Levels-1)
			srcQ[i] = stat.Quantile(q, stat.LinInterp, src, nil)
			tgtQ[i] = stat.Quantile(q, stat.LinInterp, tgt, nil)
		}
		for i := 0; i < Levels; i++ {
			level := float64(i) / float64(Levels-1)
			m.LUT[c][i] = interp(level, srcQ, tgtQ)
		}
	}
	return m, nil
}

// quantizeLevel maps a [0,1] intensity to the nearest of the 256 integer
// levels, rounding half up.
func quantizeLevel(v float64) int {
	idx := int(math.Floor(v*255.0 + 0.5))
	if idx < 0 {
		idx = 0
	}
	if idx > Levels-1 {
		idx = Levels - 1
	}
	return idx
}

// Apply maps every pixel channel through the lookup table and blends the
// result with the original by intensity t.
func (m *Model) Apply(img *vibeimage.Image, intensity float64) *vibeimage.Image {
	t := colorutil.Clamp01(intensity)
	out := vibeimage.New(img.W, img.H)
	for i, v := range img.Pix {
		mapped := m.LUT[i%3][quantizeLevel(v)]
		out.Pix[i] = colorutil.Clamp01(v*(1.0-t) + mapped*t)
	}
	return out
}
