// Package report serializes per-image and aggregate metrics to JSON.
package report

import (
	"encoding/json"
	"fmt"
	"os"

	"vibe-trainer/internal/metrics"
)

// ImageResult is one row of the per-image report. MAE/RMSE are nil when the
// sample has no target image to score against.
type ImageResult struct {
	Key   string   `json:"key"`
	Split string   `json:"split"`
	In    string   `json:"in"`
	Out   string   `json:"out,omitempty"`
	Pred  string   `json:"pred"`
	MAE   *float64 `json:"mae,omitempty"`
	RMSE  *float64 `json:"rmse,omitempty"`
}

// Scored reports whether the row carries metrics.
func (r ImageResult) Scored() bool {
	return r.MAE != nil && r.RMSE != nil
}

// Summary is the full run report written by the vibe trainer.
type Summary struct {
	Dataset        string        `json:"dataset"`
	DatasetPath    string        `json:"dataset_path"`
	Algorithm      string        `json:"algorithm"`
	Intensity      float64       `json:"intensity_for_preds"`
	Quality        int           `json:"quality_for_preds"`
	NumInputs      int           `json:"num_inputs"`
	NumTrainInputs int           `json:"num_train_inputs"`
	NumValInputs   int           `json:"num_val_inputs"`
	NumTrainPairs  int           `json:"num_train_pairs"`
	IgnoredFiles   []string      `json:"ignored_files"`
	StandaloneRefs []string      `json:"standalone_style_refs"`
	TrainAvgMAE    *float64      `json:"train_avg_mae"`
	TrainAvgRMSE   *float64      `json:"train_avg_rmse"`
	ValAvgMAE      *float64      `json:"val_avg_mae"`
	ValAvgRMSE     *float64      `json:"val_avg_rmse"`
	PerImage       []ImageResult `json:"per_image"`
}

// LUTMetrics is the compact report written by the LUT trainer.
type LUTMetrics struct {
	TrainAvgMAE  *float64      `json:"train_avg_mae"`
	TrainAvgRMSE *float64      `json:"train_avg_rmse"`
	ValAvgMAE    *float64      `json:"val_avg_mae"`
	ValAvgRMSE   *float64      `json:"val_avg_rmse"`
	PerImage     []ImageResult `json:"per_image"`
}

// SplitAverages computes mean MAE and RMSE over the scored rows of one
// split. Both are nil when the split has no scored rows.
func SplitAverages(items []ImageResult, split string) (mae, rmse *float64) {
	var maes, rmses []float64
	for _, item := range items {
		if item.Split == split && item.Scored() {
			maes = append(maes, *item.MAE)
			rmses = append(rmses, *item.RMSE)
		}
	}
	if m, ok := metrics.Mean(maes); ok {
		mae = &m
	}
	if r, ok := metrics.Mean(rmses); ok {
		rmse = &r
	}
	return mae, rmse
}

// WriteJSON writes v as indented JSON.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
