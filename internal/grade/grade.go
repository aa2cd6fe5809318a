// Package grade implements the procedural tone/color grade: a fixed-structure
// parametric transform (tone curve, saturation, balance, split-tone, vignette,
// grain) whose parameters are derived from reference-image statistics.
package grade

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	vibeimage "vibe-trainer/internal/image"
	"vibe-trainer/pkg/colorutil"
)

// ErrNoInputs is returned when fitting without any training input image.
var ErrNoInputs = errors.New("grade requires at least one training input image")

// ErrNoReferences is returned when fitting without any style reference image.
var ErrNoReferences = errors.New("grade requires at least one style reference image")

// Hand-tuned grade constants. These are fixed configuration values that
// define the look; they are not re-derived from data.
var (
	warmTone = [3]float64{0.055, -0.005, -0.05}
	coolTone = [3]float64{-0.028, 0.005, 0.038}
)

const (
	cyanSuppression  = 0.22
	vignetteStrength = 0.33
	matteLift        = 0.05
	grainStrength    = 0.022

	shoulderKnee     = 0.88
	shoulderStrength = 0.28
)

// Params holds the fitted grade parameters. All values are deterministic
// functions of the training statistics; immutable after fitting.
type Params struct {
	AnchorsIn  [3]float64 `json:"anchors_in"`
	AnchorsOut [3]float64 `json:"anchors_out"`
	SatScale   float64    `json:"sat_scale"`
	Balance    [3]float64 `json:"target_balance"`
	WarmTone   [3]float64 `json:"warm_tone"`
	CoolTone   [3]float64 `json:"cool_tone"`
	CyanSupp   float64    `json:"cyan_suppression"`
	Vignette   float64    `json:"vignette_strength"`
	MatteLift  float64    `json:"matte_lift"`
	Grain      float64    `json:"grain_strength"`
}

// pooledLumaSat gathers luma and saturation of every pixel across images.
func pooledLumaSat(images []*vibeimage.Image) (luma, sat []float64) {
	total := 0
	for _, im := range images {
		total += im.W * im.H
	}
	luma = make([]float64, 0, total)
	sat = make([]float64, 0, total)
	for _, im := range images {
		for i := 0; i < len(im.Pix); i += 3 {
			r, g, b := im.Pix[i], im.Pix[i+1], im.Pix[i+2]
			luma = append(luma, colorutil.Luma(r, g, b))
			sat = append(sat, colorutil.Saturation(r, g, b))
		}
	}
	return luma, sat
}

// percentile returns the p-th percentile (0-100) of vals. Sorts in place.
func percentile(vals []float64, p float64) float64 {
	sort.Float64s(vals)
	return stat.Quantile(p/100.0, stat.LinInterp, vals, nil)
}

// meanBalance averages per-image channel balances across images.
func meanBalance(images []*vibeimage.Image) [3]float64 {
	var sum [3]float64
	for _, im := range images {
		var mean [3]float64
		for i, v := range im.Pix {
			mean[i%3] += v
		}
		n := float64(im.W * im.H)
		bal := colorutil.Balance(mean[0]/n, mean[1]/n, mean[2]/n)
		for c := 0; c < 3; c++ {
			sum[c] += bal[c]
		}
	}
	n := float64(len(images))
	return [3]float64{sum[0] / n, sum[1] / n, sum[2] / n}
}

// Fit derives grade parameters from the aggregate luma and saturation
// distributions of the training inputs versus the style references.
// Output anchors are clamped to disjoint ordered bands so the tone curve
// stays monotonic.
func Fit(inputs, refs []*vibeimage.Image) (*Params, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}
	if len(refs) == 0 {
		return nil, ErrNoReferences
	}

	inLuma, inSat := pooledLumaSat(inputs)
	refLuma, refSat := pooledLumaSat(refs)

	inP10 := percentile(inLuma, 10)
	inMid := percentile(inLuma, 50)
	inP90 := percentile(inLuma, 90)
	refP10 := percentile(refLuma, 10)
	refMid := percentile(refLuma, 50)
	refP90 := percentile(refLuma, 90)

	shadow := math.Max(0.02, math.Min(0.20, refP10+0.01))
	midtone := math.Max(shadow+0.05, math.Min(0.48, refMid+0.02))
	high := math.Max(midtone+0.08, math.Min(0.86, refP90-0.02))

	satScale := colorutil.Clamp(
		(stat.Mean(refSat, nil)+1e-6)/(stat.Mean(inSat, nil)+1e-6), 0.45, 0.95)

	return &Params{
		AnchorsIn:  [3]float64{inP10, inMid, inP90},
		AnchorsOut: [3]float64{shadow, midtone, high},
		SatScale:   satScale,
		Balance:    meanBalance(refs),
		WarmTone:   warmTone,
		CoolTone:   coolTone,
		CyanSupp:   cyanSuppression,
		Vignette:   vignetteStrength,
		MatteLift:  matteLift,
		Grain:      grainStrength,
	}, nil
}

// toneCurve maps a luma value through the 5-point piecewise-linear curve
// anchored at (0, low extrapolation), the three fitted anchor pairs, and
// (1, high extrapolation).
func (p *Params) toneCurve(l float64) float64 {
	xs := [5]float64{0, p.AnchorsIn[0], p.AnchorsIn[1], p.AnchorsIn[2], 1}
	ys := [5]float64{
		math.Max(0, p.AnchorsOut[0]*0.3),
		p.AnchorsOut[0],
		p.AnchorsOut[1],
		p.AnchorsOut[2],
		math.Min(1, p.AnchorsOut[2]*1.05),
	}
	if l <= xs[0] {
		return ys[0]
	}
	for i := 1; i < 5; i++ {
		if l <= xs[i] {
			if xs[i] == xs[i-1] {
				return ys[i]
			}
			frac := (l - xs[i-1]) / (xs[i] - xs[i-1])
			return ys[i-1] + frac*(ys[i]-ys[i-1])
		}
	}
	return ys[4]
}

// CoordNoise is the deterministic grain hash: a pure function of the pixel
// coordinates in [0,1). The same coordinates always yield the same value,
// which keeps graded output byte-reproducible across runs.
func CoordNoise(x, y int) float64 {
	phase := float64(x)*12.9898 + float64(y)*78.233
	v := math.Mod(math.Sin(phase)*43758.5453, 1.0)
	if v < 0 {
		v += 1.0
	}
	return v
}

// Apply runs the ordered grade pipeline on an image and blends the result
// with the original by intensity t. Every step clamps to [0,1] before the
// next. Deterministic: no RNG anywhere, grain comes from CoordNoise.
func (p *Params) Apply(img *vibeimage.Image, intensity float64) *vibeimage.Image {
	t := colorutil.Clamp01(intensity)
	w, h := img.W, img.H

	// Luma-preserving tone remap, then desaturation toward luma.
	base := vibeimage.New(w, h)
	var chanSum [3]float64
	for i := 0; i < len(img.Pix); i += 3 {
		r, g, b := img.Pix[i], img.Pix[i+1], img.Pix[i+2]
		l := colorutil.Luma(r, g, b)
		ratio := p.toneCurve(l) / math.Max(l, 1e-4)
		r = colorutil.Clamp01(r * ratio)
		g = colorutil.Clamp01(g * ratio)
		b = colorutil.Clamp01(b * ratio)

		bl := colorutil.Luma(r, g, b)
		r = colorutil.Clamp01(bl + (r-bl)*p.SatScale)
		g = colorutil.Clamp01(bl + (g-bl)*p.SatScale)
		b = colorutil.Clamp01(bl + (b-bl)*p.SatScale)

		base.Pix[i], base.Pix[i+1], base.Pix[i+2] = r, g, b
		chanSum[0] += r
		chanSum[1] += g
		chanSum[2] += b
	}

	// Balance gain toward the reference channel ratios.
	n := float64(w * h)
	cur := colorutil.Balance(chanSum[0]/n, chanSum[1]/n, chanSum[2]/n)
	var gain [3]float64
	for c := 0; c < 3; c++ {
		gain[c] = colorutil.Clamp(p.Balance[c]/math.Max(cur[c], 1e-4), 0.75, 1.25)
	}

	out := vibeimage.New(w, h)
	for y := 0; y < h; y++ {
		ny := (float64(y)/math.Max(1, float64(h-1)))*2.0 - 1.0
		for x := 0; x < w; x++ {
			r, g, b := base.At(x, y)
			r = colorutil.Clamp01(r * gain[0])
			g = colorutil.Clamp01(g * gain[1])
			b = colorutil.Clamp01(b * gain[2])

			// Split-tone: warm highlights, cool shadows.
			l := colorutil.Luma(r, g, b)
			hiW := colorutil.Clamp01((l - 0.50) / 0.50)
			shW := colorutil.Clamp01((0.55 - l) / 0.55)
			r = colorutil.Clamp01(r + hiW*p.WarmTone[0] + shW*p.CoolTone[0])
			g = colorutil.Clamp01(g + hiW*p.WarmTone[1] + shW*p.CoolTone[1])
			b = colorutil.Clamp01(b + hiW*p.WarmTone[2] + shW*p.CoolTone[2])

			// Suppress cyan dominance: redistribute excess blue into red
			// and green.
			cyan := colorutil.Clamp01(b-math.Max(r, g)) * p.CyanSupp
			r = colorutil.Clamp01(r + cyan*0.65)
			g = colorutil.Clamp01(g + cyan*0.28)
			b = colorutil.Clamp01(b - cyan*1.00)

			// Matte lift and soft highlight shoulder.
			r = shoulder(colorutil.Clamp01(r*(1.0-p.MatteLift) + p.MatteLift))
			g = shoulder(colorutil.Clamp01(g*(1.0-p.MatteLift) + p.MatteLift))
			b = shoulder(colorutil.Clamp01(b*(1.0-p.MatteLift) + p.MatteLift))

			// Radial vignette on squared normalized center distance.
			nx := (float64(x)/math.Max(1, float64(w-1)))*2.0 - 1.0
			vig := 1.0 - p.Vignette*colorutil.Clamp01(nx*nx+ny*ny)
			r = colorutil.Clamp01(r * vig)
			g = colorutil.Clamp01(g * vig)
			b = colorutil.Clamp01(b * vig)

			// Deterministic grain, strongest in red, weakest in blue.
			noise := (CoordNoise(x, y) - 0.5) * (p.Grain * 2.0)
			r = colorutil.Clamp01(r + noise*0.95)
			g = colorutil.Clamp01(g + noise*0.80)
			b = colorutil.Clamp01(b + noise*0.65)

			sr, sg, sb := img.At(x, y)
			out.Set(x, y,
				colorutil.Clamp01(sr*(1.0-t)+r*t),
				colorutil.Clamp01(sg*(1.0-t)+g*t),
				colorutil.Clamp01(sb*(1.0-t)+b*t))
		}
	}
	return out
}

// shoulder compresses values above the knee.
func shoulder(v float64) float64 {
	return colorutil.Clamp01(v - math.Max(0, v-shoulderKnee)*shoulderStrength)
}
