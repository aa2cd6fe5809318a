package algorithm

import (
	"fmt"

	"vibe-trainer/internal/cdf"
	"vibe-trainer/internal/dataset"
	"vibe-trainer/internal/grade"
	vibeimage "vibe-trainer/internal/image"
	"vibe-trainer/internal/model"
	"vibe-trainer/internal/poly"
)

func init() {
	register(polyMap{})
	register(cdfMatch{})
	register(gradeAlg{})
}

// polyMap fits a single polynomial color model at the configured degree and
// ridge strength.
type polyMap struct{}

func (polyMap) Name() string { return string(model.KindPolyMap) }

func (polyMap) Train(ctx *Context) (*model.Record, error) {
	if len(ctx.PairedTrain) == 0 {
		return nil, fmt.Errorf("%w: poly_map requires at least one paired train *_in/_out example", ErrInsufficientData)
	}
	x, y := FlattenPairs(ctx.PairedTrain)
	m, err := poly.Fit(x, y, ctx.MaxDegree, ctx.Lambda)
	if err != nil {
		return nil, err
	}
	return &model.Record{Algorithm: model.KindPolyMap, Poly: m}, nil
}

func (polyMap) Predict(img *vibeimage.Image, rec *model.Record, intensity float64, _ dataset.Sample) (*vibeimage.Image, error) {
	if rec.Poly == nil {
		return nil, fmt.Errorf("record has no polynomial parameters")
	}
	return rec.Poly.Apply(img, intensity), nil
}

// cdfMatch builds per-channel quantile matching tables from the pooled
// input and reference distributions.
type cdfMatch struct{}

func (cdfMatch) Name() string { return string(model.KindCDFMatch) }

func (cdfMatch) Train(ctx *Context) (*model.Record, error) {
	m, err := cdf.Fit(ctx.TrainInputs, ctx.StyleRefs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsufficientData, err)
	}
	return &model.Record{Algorithm: model.KindCDFMatch, CDF: m}, nil
}

func (cdfMatch) Predict(img *vibeimage.Image, rec *model.Record, intensity float64, _ dataset.Sample) (*vibeimage.Image, error) {
	if rec.CDF == nil {
		return nil, fmt.Errorf("record has no lookup table")
	}
	return rec.CDF.Apply(img, intensity), nil
}

// gradeAlg derives procedural grade parameters from reference statistics.
type gradeAlg struct{}

func (gradeAlg) Name() string { return string(model.KindGrade) }

func (gradeAlg) Train(ctx *Context) (*model.Record, error) {
	p, err := grade.Fit(ctx.TrainInputs, ctx.StyleRefs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsufficientData, err)
	}
	return &model.Record{Algorithm: model.KindGrade, Grade: p}, nil
}

func (gradeAlg) Predict(img *vibeimage.Image, rec *model.Record, intensity float64, _ dataset.Sample) (*vibeimage.Image, error) {
	if rec.Grade == nil {
		return nil, fmt.Errorf("record has no grade parameters")
	}
	return rec.Grade.Apply(img, intensity), nil
}
