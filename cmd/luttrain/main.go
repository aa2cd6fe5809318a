// Command luttrain trains a polynomial color LUT from *_in/*_out image
// pairs, grid-searching degree and ridge strength and selecting the best
// combination by held-out validation error. Files prefixed with val_ form
// the validation split; all inputs must be paired.
//
// Usage: luttrain [flags] <dataset-dir>
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"vibe-trainer/internal/dataset"
	vibeimage "vibe-trainer/internal/image"
	"vibe-trainer/internal/metrics"
	"vibe-trainer/internal/model"
	"vibe-trainer/internal/report"
	"vibe-trainer/internal/train"
)

func main() {
	complexity := flag.String("complexity", "medium", "Complexity preset: low, medium, or high")
	maxDegree := flag.Int("max-degree", 0, "Override max polynomial degree (0 = preset)")
	sampleSize := flag.Int("sample-size", -1, "Override training pixel cap (-1 = preset)")
	lambdasRaw := flag.String("lambdas", "", "Comma list of ridge lambdas (empty = preset)")
	intensity := flag.Float64("intensity", 1.0, "Blend intensity for *_pred.jpg generation")
	quality := flag.Int("quality", 95, "JPEG quality for prediction images")
	seed := flag.Int64("seed", 0, "RNG seed for pixel subsampling")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <dataset-dir>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	datasetDir := flag.Arg(0)

	preset, ok := train.Presets[*complexity]
	if !ok {
		fatalf("Unknown complexity preset %q (want low, medium, or high)", *complexity)
	}
	if *maxDegree > 0 {
		preset.MaxDegree = *maxDegree
	}
	if *sampleSize >= 0 {
		preset.SampleSize = *sampleSize
	}
	if *lambdasRaw != "" {
		lambdas, err := train.ParseLambdas(*lambdasRaw)
		if err != nil {
			fatalf("%v", err)
		}
		if len(lambdas) > 0 {
			preset.Lambdas = lambdas
		}
	}

	ds, err := dataset.Scan(datasetDir)
	if err != nil {
		fatalf("Failed to scan dataset: %v", err)
	}
	if err := ds.RequirePaired(); err != nil {
		fatalf("%v", err)
	}
	trainSamples := ds.BySplit(dataset.SplitTrain)
	valSamples := ds.BySplit(dataset.SplitVal)
	if len(trainSamples) == 0 {
		fatalf("No training pairs found. Add at least one non-val *_in/_out pair.")
	}

	// Flatten the training pairs, excluding the outer border, and cap the
	// pixel count for fitting.
	var xTrain, yTrain []float64
	for _, s := range trainSamples {
		src, tgt, err := loadCroppedPair(s)
		if err != nil {
			fatalf("%v", err)
		}
		xTrain = append(xTrain, src.Pix...)
		yTrain = append(yTrain, tgt.Pix...)
	}
	xFit, yFit := train.Subsample(xTrain, yTrain, preset.SampleSize, *seed)

	var valPairs []train.ValPair
	for _, s := range valSamples {
		src, tgt, err := loadCroppedPair(s)
		if err != nil {
			fatalf("%v", err)
		}
		valPairs = append(valPairs, train.ValPair{Key: s.Key, Src: src, Tgt: tgt})
	}

	fmt.Printf("dataset: %s\n", datasetDir)
	fmt.Printf("fitting on %d pixels (%d train pairs, %d val pairs)\n",
		len(xFit)/3, len(trainSamples), len(valSamples))

	result, err := train.SelectModel(xFit, yFit, valPairs, preset.MaxDegree, preset.Lambdas)
	if err != nil {
		fatalf("Model selection failed: %v", err)
	}
	for _, trial := range result.Trials {
		fmt.Printf("  degree=%d lambda=%-8g features=%-3d train mae=%.3f rmse=%.3f | select mae=%.3f rmse=%.3f\n",
			trial.Degree, trial.Lambda, trial.NumFeatures,
			trial.TrainMAE, trial.TrainRMSE, trial.ValMAE, trial.ValRMSE)
	}

	rec := &model.Record{
		Algorithm: model.KindPolyMap,
		Poly:      result.Model,
		Selection: &model.Selection{
			Dataset:           filepath.Base(datasetDir),
			Complexity:        *complexity,
			MaxDegree:         preset.MaxDegree,
			SelectedDegree:    result.Degree,
			SelectedLambda:    result.Lambda,
			SampleSize:        preset.SampleSize,
			Lambdas:           preset.Lambdas,
			NumFeatures:       result.NumFeatures,
			IntensityForPreds: *intensity,
			TrainPairs:        sampleKeys(trainSamples),
			ValPairs:          sampleKeys(valSamples),
			TrainFitMAE:       result.TrainMAE,
			TrainFitRMSE:      result.TrainRMSE,
			ValSelectMAE:      result.ValMAE,
			ValSelectRMSE:     result.ValRMSE,
		},
	}

	// Apply the selected model to every pair at full resolution; metrics
	// ignore the outer border on each side.
	var perImage []report.ImageResult
	for _, s := range ds.Samples {
		src, err := vibeimage.Load(s.InPath)
		if err != nil {
			fatalf("%v", err)
		}
		tgt, err := vibeimage.Load(s.OutPath)
		if err != nil {
			fatalf("%v", err)
		}
		src, tgt = vibeimage.CenterCropPair(src, tgt)
		pred := result.Model.Apply(src, *intensity)

		predPath := filepath.Join(datasetDir, s.Key+"_pred.jpg")
		if err := vibeimage.Save(predPath, pred, *quality); err != nil {
			fatalf("%v", err)
		}

		mae, rmse := metrics.InnerMAERMSE(pred, tgt, metrics.InnerFrac)
		perImage = append(perImage, report.ImageResult{
			Key:   s.Key,
			Split: s.Split,
			In:    filepath.Base(s.InPath),
			Out:   filepath.Base(s.OutPath),
			Pred:  filepath.Base(predPath),
			MAE:   &mae,
			RMSE:  &rmse,
		})
	}

	lutMetrics := &report.LUTMetrics{PerImage: perImage}
	lutMetrics.TrainAvgMAE, lutMetrics.TrainAvgRMSE = report.SplitAverages(perImage, dataset.SplitTrain)
	lutMetrics.ValAvgMAE, lutMetrics.ValAvgRMSE = report.SplitAverages(perImage, dataset.SplitVal)

	modelPath := filepath.Join(datasetDir, "lut_model.json")
	modelBinPath := filepath.Join(datasetDir, "lut_model.bin")
	metricsPath := filepath.Join(datasetDir, "metrics.json")
	if err := model.Save(modelPath, rec); err != nil {
		fatalf("%v", err)
	}
	if err := model.SaveBinary(modelBinPath, rec); err != nil {
		fatalf("%v", err)
	}
	if err := report.WriteJSON(metricsPath, lutMetrics); err != nil {
		fatalf("%v", err)
	}

	fmt.Printf("complexity: %s | selected degree=%d lambda=%g\n", *complexity, result.Degree, result.Lambda)
	fmt.Printf("features: %d\n", result.NumFeatures)
	fmt.Printf("wrote %s\n", modelPath)
	fmt.Printf("wrote %s\n", modelBinPath)
	fmt.Printf("wrote %s\n", metricsPath)
	fmt.Println("wrote prediction images:")
	for _, item := range perImage {
		fmt.Printf("  - %s (%s) mae=%.3f rmse=%.3f\n", item.Pred, item.Split, *item.MAE, *item.RMSE)
	}
}

// loadCroppedPair loads a sample pair, trims both images to their common
// centered region, and excludes the outer border from fitting.
func loadCroppedPair(s dataset.Sample) (src, tgt *vibeimage.Image, err error) {
	src, err = vibeimage.Load(s.InPath)
	if err != nil {
		return nil, nil, err
	}
	tgt, err = vibeimage.Load(s.OutPath)
	if err != nil {
		return nil, nil, err
	}
	src, tgt = vibeimage.CenterCropPair(src, tgt)
	src = vibeimage.CropInner(src, metrics.InnerFrac)
	tgt = vibeimage.CropInner(tgt, metrics.InnerFrac)
	return src, tgt, nil
}

func sampleKeys(samples []dataset.Sample) []string {
	keys := make([]string, len(samples))
	for i, s := range samples {
		keys[i] = s.Key
	}
	return keys
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
