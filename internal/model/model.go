// Package model persists fitted models as a human-readable JSON record and
// a compact binary record. Both forms round-trip exactly, including the
// feature basis order the coefficient matrix depends on.
package model

import (
	"encoding/json"
	"fmt"
	"os"

	"vibe-trainer/internal/cdf"
	"vibe-trainer/internal/grade"
	"vibe-trainer/internal/poly"
)

// Kind identifies the algorithm a record belongs to.
type Kind string

// Known algorithm kinds.
const (
	KindPolyMap  Kind = "poly_map"
	KindCDFMatch Kind = "cdf_match"
	KindGrade    Kind = "grade"
)

// Selection records how a polynomial model was chosen by the grid search.
type Selection struct {
	Dataset           string    `json:"dataset,omitempty"`
	Complexity        string    `json:"complexity,omitempty"`
	MaxDegree         int       `json:"max_degree"`
	SelectedDegree    int       `json:"selected_degree"`
	SelectedLambda    float64   `json:"selected_lambda"`
	SampleSize        int       `json:"sample_size"`
	Lambdas           []float64 `json:"lambdas"`
	NumFeatures       int       `json:"num_features"`
	IntensityForPreds float64   `json:"intensity_for_preds"`
	TrainPairs        []string  `json:"train_pairs"`
	ValPairs          []string  `json:"val_pairs"`
	TrainFitMAE       float64   `json:"train_fit_mae"`
	TrainFitRMSE      float64   `json:"train_fit_rmse"`
	ValSelectMAE      float64   `json:"val_select_mae"`
	ValSelectRMSE     float64   `json:"val_select_rmse"`
}

// Record is a persisted model: exactly one of the parameter fields is set,
// matching Algorithm.
type Record struct {
	Algorithm Kind          `json:"algorithm"`
	Poly      *poly.Model   `json:"poly,omitempty"`
	CDF       *cdf.Model    `json:"cdf,omitempty"`
	Grade     *grade.Params `json:"grade,omitempty"`
	Selection *Selection    `json:"selection,omitempty"`
}

// Validate checks that the record's payload matches its declared algorithm.
func (r *Record) Validate() error {
	switch r.Algorithm {
	case KindPolyMap:
		if r.Poly == nil {
			return fmt.Errorf("record declares %s but has no polynomial parameters", r.Algorithm)
		}
		return r.Poly.Validate()
	case KindCDFMatch:
		if r.CDF == nil {
			return fmt.Errorf("record declares %s but has no lookup table", r.Algorithm)
		}
	case KindGrade:
		if r.Grade == nil {
			return fmt.Errorf("record declares %s but has no grade parameters", r.Algorithm)
		}
	default:
		return fmt.Errorf("unknown algorithm kind %q", r.Algorithm)
	}
	return nil
}

// Save writes the record as indented JSON.
func Save(path string, rec *Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}
	return nil
}

// Load reads a JSON record written by Save.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}
	rec := &Record{}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("failed to parse model %s: %w", path, err)
	}
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model %s: %w", path, err)
	}
	return rec, nil
}
