// Package train drives polynomial model selection: pixel subsampling,
// the degree/lambda grid search, and the complexity presets that bound it.
package train

import (
	"fmt"
	"strconv"
	"strings"
)

// Preset bounds the cost of a grid search.
type Preset struct {
	MaxDegree  int
	SampleSize int // training pixel cap, 0 = unlimited
	Lambdas    []float64
}

// Presets are the built-in complexity/cost presets.
var Presets = map[string]Preset{
	"low": {
		MaxDegree:  2,
		SampleSize: 200_000,
		Lambdas:    []float64{1e-3, 1e-2, 5e-2},
	},
	"medium": {
		MaxDegree:  3,
		SampleSize: 500_000,
		Lambdas:    []float64{1e-4, 1e-3, 1e-2, 5e-2},
	},
	"high": {
		MaxDegree:  5,
		SampleSize: 1_000_000,
		Lambdas:    []float64{1e-5, 1e-4, 1e-3, 1e-2, 5e-2},
	},
}

// ParseLambdas parses a comma-separated list of ridge strengths.
// Returns nil for an empty or blank list.
func ParseLambdas(raw string) ([]float64, error) {
	var vals []float64
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid lambda %q: %w", field, err)
		}
		vals = append(vals, v)
	}
	return vals, nil
}
