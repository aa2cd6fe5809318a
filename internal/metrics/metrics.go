// Package metrics computes error metrics between predicted and target
// images on the 0-255 intensity scale.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	vibeimage "vibe-trainer/internal/image"
)

// InnerFrac is the default centered fraction retained when excluding the
// border from scoring.
const InnerFrac = 0.90

// FlatMAERMSE computes mean absolute error and root-mean-square error
// between two equal-length pixel buffers, scaled to 0-255.
func FlatMAERMSE(pred, tgt []float64) (mae, rmse float64) {
	var absSum, sqSum float64
	for i := range pred {
		d := (pred[i] - tgt[i]) * 255.0
		absSum += math.Abs(d)
		sqSum += d * d
	}
	n := float64(len(pred))
	return absSum / n, math.Sqrt(sqSum / n)
}

// MAERMSE scores two images over all channels and pixels. Images of
// differing sizes are first trimmed to their common centered region.
func MAERMSE(pred, tgt *vibeimage.Image) (mae, rmse float64) {
	pred, tgt = vibeimage.CenterCropPair(pred, tgt)
	return FlatMAERMSE(pred.Pix, tgt.Pix)
}

// InnerMAERMSE scores the centered frac region of both images, excluding
// the border to reduce sensitivity to cropping and alignment artifacts.
func InnerMAERMSE(pred, tgt *vibeimage.Image, frac float64) (mae, rmse float64) {
	pred, tgt = vibeimage.CenterCropPair(pred, tgt)
	return FlatMAERMSE(vibeimage.CropInner(pred, frac).Pix, vibeimage.CropInner(tgt, frac).Pix)
}

// Mean averages a slice of metric values. Returns ok=false for an empty
// slice so callers can report a missing split as null.
func Mean(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	return stat.Mean(vals, nil), true
}
