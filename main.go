// Command vibe-trainer runs an algorithm-agnostic color-grade training loop
// over a dataset directory. Dataset format: *_in inputs, optional paired
// *_out references, optional val_ prefix for the validation split.
//
// Usage: vibe-trainer [flags] <dataset-dir>
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"vibe-trainer/internal/algorithm"
	"vibe-trainer/internal/dataset"
	vibeimage "vibe-trainer/internal/image"
	"vibe-trainer/internal/metrics"
	"vibe-trainer/internal/model"
	"vibe-trainer/internal/report"
)

func main() {
	algoName := flag.String("algorithm", "auto", "Algorithm: auto, poly_map, cdf_match, or grade")
	intensity := flag.Float64("intensity", 1.0, "Blend intensity for predictions (0-1)")
	quality := flag.Int("quality", 95, "JPEG quality for prediction images")
	maxDegree := flag.Int("max-degree", 2, "Polynomial degree for poly_map")
	lambda := flag.Float64("lambda", 1e-3, "Ridge strength for poly_map")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <dataset-dir>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	datasetDir := flag.Arg(0)

	ds, err := dataset.Scan(datasetDir)
	if err != nil {
		fatalf("Failed to scan dataset: %v", err)
	}

	var algo algorithm.Algorithm
	if *algoName == "auto" {
		algo = algorithm.Auto(ds)
	} else {
		algo, err = algorithm.Lookup(*algoName)
		if err != nil {
			fatalf("%v", err)
		}
	}

	ctx, err := buildContext(ds, *maxDegree, *lambda)
	if err != nil {
		fatalf("Failed to load training images: %v", err)
	}

	fmt.Printf("dataset: %s\n", datasetDir)
	fmt.Printf("algorithm: %s\n", algo.Name())
	fmt.Printf("training on %d inputs, %d style refs, %d paired examples\n",
		len(ctx.TrainInputs), len(ctx.StyleRefs), len(ctx.PairedTrain))

	rec, err := algo.Train(ctx)
	if err != nil {
		fatalf("Training failed: %v", err)
	}

	perImage, err := predictAll(ds, algo, rec, *intensity, *quality)
	if err != nil {
		fatalf("%v", err)
	}

	summary := &report.Summary{
		Dataset:        filepath.Base(datasetDir),
		DatasetPath:    datasetDir,
		Algorithm:      algo.Name(),
		Intensity:      *intensity,
		Quality:        *quality,
		NumInputs:      len(ds.Samples),
		NumTrainInputs: len(ds.BySplit(dataset.SplitTrain)),
		NumValInputs:   len(ds.BySplit(dataset.SplitVal)),
		NumTrainPairs:  len(ds.PairedTrain()),
		IgnoredFiles:   baseNames(ds.Ignored),
		StandaloneRefs: baseNames(ds.StandaloneRefs),
		PerImage:       perImage,
	}
	summary.TrainAvgMAE, summary.TrainAvgRMSE = report.SplitAverages(perImage, dataset.SplitTrain)
	summary.ValAvgMAE, summary.ValAvgRMSE = report.SplitAverages(perImage, dataset.SplitVal)

	modelPath := filepath.Join(datasetDir, "vibe_model.json")
	modelBinPath := filepath.Join(datasetDir, "vibe_model.bin")
	reportPath := filepath.Join(datasetDir, "vibe_metrics.json")
	if err := model.Save(modelPath, rec); err != nil {
		fatalf("%v", err)
	}
	if err := model.SaveBinary(modelBinPath, rec); err != nil {
		fatalf("%v", err)
	}
	if err := report.WriteJSON(reportPath, summary); err != nil {
		fatalf("%v", err)
	}

	fmt.Printf("wrote %s\n", modelPath)
	fmt.Printf("wrote %s\n", modelBinPath)
	fmt.Printf("wrote %s\n", reportPath)
	fmt.Println("wrote prediction images:")
	for _, item := range perImage {
		if item.Scored() {
			fmt.Printf("  - %s (%s) mae=%.3f rmse=%.3f\n", item.Pred, item.Split, *item.MAE, *item.RMSE)
		} else {
			fmt.Printf("  - %s (%s)\n", item.Pred, item.Split)
		}
	}
}

// buildContext loads the training inputs, style references, and paired
// examples the algorithms train on.
func buildContext(ds *dataset.Dataset, maxDegree int, lambda float64) (*algorithm.Context, error) {
	ctx := &algorithm.Context{
		DatasetDir: ds.Dir,
		Samples:    ds.Samples,
		MaxDegree:  maxDegree,
		Lambda:     lambda,
	}

	for _, s := range ds.BySplit(dataset.SplitTrain) {
		src, err := vibeimage.Load(s.InPath)
		if err != nil {
			return nil, err
		}
		ctx.TrainInputs = append(ctx.TrainInputs, src)

		if !s.Paired() {
			continue
		}
		tgt, err := vibeimage.Load(s.OutPath)
		if err != nil {
			return nil, err
		}
		ctx.StyleRefs = append(ctx.StyleRefs, tgt)
		srcCrop, tgtCrop := vibeimage.CenterCropPair(src, tgt)
		ctx.PairedTrain = append(ctx.PairedTrain, algorithm.Pair{Src: srcCrop, Tgt: tgtCrop})
	}

	for _, path := range ds.StandaloneRefs {
		ref, err := vibeimage.Load(path)
		if err != nil {
			return nil, err
		}
		ctx.StyleRefs = append(ctx.StyleRefs, ref)
	}
	return ctx, nil
}

// predictAll grades every sample, writes *_pred.jpg images, and scores the
// ones that have a target.
func predictAll(ds *dataset.Dataset, algo algorithm.Algorithm, rec *model.Record, intensity float64, quality int) ([]report.ImageResult, error) {
	var perImage []report.ImageResult
	for _, s := range ds.Samples {
		src, err := vibeimage.Load(s.InPath)
		if err != nil {
			return nil, err
		}
		pred, err := algo.Predict(src, rec, intensity, s)
		if err != nil {
			return nil, fmt.Errorf("prediction failed for %s: %w", s.Key, err)
		}
		if err := algorithm.CheckShape(s, src, pred); err != nil {
			return nil, err
		}

		predPath := filepath.Join(ds.Dir, s.Key+"_pred.jpg")
		if err := vibeimage.Save(predPath, pred, quality); err != nil {
			return nil, err
		}

		item := report.ImageResult{
			Key:   s.Key,
			Split: s.Split,
			In:    filepath.Base(s.InPath),
			Pred:  filepath.Base(predPath),
		}
		if s.Paired() {
			tgt, err := vibeimage.Load(s.OutPath)
			if err != nil {
				return nil, err
			}
			mae, rmse := metrics.MAERMSE(pred, tgt)
			item.Out = filepath.Base(s.OutPath)
			item.MAE = &mae
			item.RMSE = &rmse
		}
		perImage = append(perImage, item)
	}
	return perImage, nil
}

func baseNames(paths []string) []string {
	names := make([]string, len(paths))
	for i, path := range paths {
		names[i] = filepath.Base(path)
	}
	return names
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
