// Package colorutil provides shared color math for the vibe trainer application.
package colorutil

import "math"

// Rec.601 luma weights.
const (
	LumaR = 0.299
	LumaG = 0.587
	LumaB = 0.114
)

// Luma returns the perceptual brightness of an RGB triple in [0,1].
func Luma(r, g, b float64) float64 {
	return LumaR*r + LumaG*g + LumaB*b
}

// Saturation returns the channel spread (max - min) of an RGB triple.
func Saturation(r, g, b float64) float64 {
	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	return maxC - minC
}

// Clamp01 clamps v to the [0,1] range.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clamp clamps v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Balance expresses mean channel intensities as ratios against green,
// with green fixed at 1. The green mean is floored at 1e-6 so a black
// image still yields a finite balance.
func Balance(meanR, meanG, meanB float64) [3]float64 {
	g := math.Max(1e-6, meanG)
	return [3]float64{meanR / g, 1.0, meanB / g}
}
