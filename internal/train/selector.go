package train

import (
	"fmt"

	vibeimage "vibe-trainer/internal/image"
	"vibe-trainer/internal/metrics"
	"vibe-trainer/internal/poly"
)

// ValPair is a held-out validation image pair, already cropped for scoring.
type ValPair struct {
	Key      string
	Src, Tgt *vibeimage.Image
}

// Score orders candidates lexicographically: lower RMSE first, then lower
// MAE, then fewer features, then smaller lambda.
type Score struct {
	RMSE     float64
	MAE      float64
	Features int
	Lambda   float64
}

// Less reports whether s is strictly better than o.
func (s Score) Less(o Score) bool {
	if s.RMSE != o.RMSE {
		return s.RMSE < o.RMSE
	}
	if s.MAE != o.MAE {
		return s.MAE < o.MAE
	}
	if s.Features != o.Features {
		return s.Features < o.Features
	}
	return s.Lambda < o.Lambda
}

// Trial records one evaluated grid combination.
type Trial struct {
	Degree      int
	Lambda      float64
	NumFeatures int
	TrainMAE    float64
	TrainRMSE   float64
	ValMAE      float64
	ValRMSE     float64
}

// Result describes the selected model, its errors, and every trial the
// grid evaluated in order.
type Result struct {
	Model       *poly.Model
	Degree      int
	Lambda      float64
	NumFeatures int
	TrainMAE    float64
	TrainRMSE   float64
	ValMAE      float64
	ValRMSE     float64
	Score       Score
	Trials      []Trial
}

// SelectModel grid-searches every (degree, lambda) combination, fitting a
// polynomial model on the training pixels and scoring it by mean validation
// RMSE/MAE when validation pairs exist, else by training error. Every
// combination is evaluated; the grid order is deterministic (degree
// ascending, lambdas in list order) and the retained best only changes on a
// strictly better score, so the earliest of equals wins.
func SelectModel(xFit, yFit []float64, val []ValPair, maxDegree int, lambdas []float64) (*Result, error) {
	if maxDegree < 1 {
		return nil, fmt.Errorf("max degree must be at least 1, got %d", maxDegree)
	}
	if len(lambdas) == 0 {
		return nil, fmt.Errorf("no lambda candidates given")
	}

	var best *Result
	var trials []Trial
	for degree := 1; degree <= maxDegree; degree++ {
		basis := poly.Basis(degree)
		for _, lambda := range lambdas {
			coefs, err := poly.FitRidge(xFit, yFit, basis, lambda)
			if err != nil {
				return nil, fmt.Errorf("degree %d: %w", degree, err)
			}
			model := &poly.Model{Basis: basis, Coefs: coefs}

			trainMAE, trainRMSE := metrics.FlatMAERMSE(model.ApplyPixels(xFit), yFit)

			valMAE, valRMSE := trainMAE, trainRMSE
			if len(val) > 0 {
				var maeSum, rmseSum float64
				for _, pair := range val {
					mae, rmse := metrics.MAERMSE(model.Apply(pair.Src, 1.0), pair.Tgt)
					maeSum += mae
					rmseSum += rmse
				}
				valMAE = maeSum / float64(len(val))
				valRMSE = rmseSum / float64(len(val))
			}

			trials = append(trials, Trial{
				Degree:      degree,
				Lambda:      lambda,
				NumFeatures: len(basis),
				TrainMAE:    trainMAE,
				TrainRMSE:   trainRMSE,
				ValMAE:      valMAE,
				ValRMSE:     valRMSE,
			})

			score := Score{RMSE: valRMSE, MAE: valMAE, Features: len(basis), Lambda: lambda}
			if best == nil || score.Less(best.Score) {
				best = &Result{
					Model:       model,
					Degree:      degree,
					Lambda:      lambda,
					NumFeatures: len(basis),
					TrainMAE:    trainMAE,
					TrainRMSE:   trainRMSE,
					ValMAE:      valMAE,
					ValRMSE:     valRMSE,
					Score:       score,
				}
			}
		}
	}
	best.Trials = trials
	return best, nil
}
