// Command lutapply applies a persisted model to images. It accepts either
// the JSON or the binary model record; the reloaded model reproduces the
// exact feature basis order and numeric values of the trained one.
//
// Usage: lutapply -model <model.json|model.bin> [flags] <image>...
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vibe-trainer/internal/algorithm"
	"vibe-trainer/internal/dataset"
	vibeimage "vibe-trainer/internal/image"
	"vibe-trainer/internal/model"
)

func main() {
	modelPath := flag.String("model", "", "Path to a model record (.json or .bin)")
	intensity := flag.Float64("intensity", 1.0, "Blend intensity (0-1)")
	quality := flag.Int("quality", 95, "JPEG quality for output images")
	flag.Parse()

	if *modelPath == "" || flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s -model <model.json|model.bin> [flags] <image>...\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	var rec *model.Record
	var err error
	if strings.EqualFold(filepath.Ext(*modelPath), ".bin") {
		rec, err = model.LoadBinary(*modelPath)
	} else {
		rec, err = model.Load(*modelPath)
	}
	if err != nil {
		fatalf("Failed to load model: %v", err)
	}

	algo, err := algorithm.ForRecord(rec)
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("model: %s (%s)\n", *modelPath, algo.Name())

	for _, path := range flag.Args() {
		src, err := vibeimage.Load(path)
		if err != nil {
			fatalf("%v", err)
		}
		sample := dataset.Sample{Key: stem(path), InPath: path}
		pred, err := algo.Predict(src, rec, *intensity, sample)
		if err != nil {
			fatalf("Prediction failed for %s: %v", path, err)
		}
		if err := algorithm.CheckShape(sample, src, pred); err != nil {
			fatalf("%v", err)
		}

		outPath := filepath.Join(filepath.Dir(path), sample.Key+"_pred.jpg")
		if err := vibeimage.Save(outPath, pred, *quality); err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("  - %s -> %s (%dx%d)\n", filepath.Base(path), filepath.Base(outPath), pred.W, pred.H)
	}
}

// stem returns the file name without directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
