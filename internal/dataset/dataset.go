// Package dataset discovers training samples in a dataset directory by
// filename convention: files ending _in are inputs, _out are paired
// outputs or standalone style references, and a val_ prefix marks the
// validation split.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Split labels.
const (
	SplitTrain = "train"
	SplitVal   = "val"
)

// ErrNoInputs is returned when a dataset directory contains no input images.
var ErrNoInputs = errors.New("no *_in images found")

// ErrMissingPair is returned when an input lacks its paired output image and
// pairing is mandatory for the chosen algorithm.
var ErrMissingPair = errors.New("missing paired output image")

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".tif":  true,
	".tiff": true,
}

// Sample is one unit of work: an input image and, when present, its paired
// output (style reference) image.
type Sample struct {
	Key     string `json:"key"`
	Split   string `json:"split"`
	InPath  string `json:"in_path"`
	OutPath string `json:"out_path,omitempty"`
}

// Paired reports whether the sample has an output image.
func (s Sample) Paired() bool {
	return s.OutPath != ""
}

// Dataset is the result of scanning a directory.
type Dataset struct {
	Dir            string
	Samples        []Sample
	StandaloneRefs []string // *_out images with no matching *_in
	Ignored        []string // image files following neither convention
}

// Scan enumerates samples in dir. Prediction outputs (*_pred) are skipped.
// Returns ErrNoInputs when no input images exist.
func Scan(dir string) (*Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset directory: %w", err)
	}

	ins := map[string]string{}
	outs := map[string]string{}
	ds := &Dataset{Dir: dir}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !imageExts[ext] {
			continue
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		path := filepath.Join(dir, name)
		switch {
		case strings.HasSuffix(stem, "_pred"):
			// Output of a previous run.
		case strings.HasSuffix(stem, "_in"):
			ins[strings.TrimSuffix(stem, "_in")] = path
		case strings.HasSuffix(stem, "_out"):
			outs[strings.TrimSuffix(stem, "_out")] = path
		default:
			ds.Ignored = append(ds.Ignored, name)
		}
	}

	keys := make([]string, 0, len(ins))
	for key := range ins {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		split := SplitTrain
		if strings.HasPrefix(key, "val_") {
			split = SplitVal
		}
		ds.Samples = append(ds.Samples, Sample{
			Key:     key,
			Split:   split,
			InPath:  ins[key],
			OutPath: outs[key],
		})
		delete(outs, key)
	}

	refKeys := make([]string, 0, len(outs))
	for key := range outs {
		refKeys = append(refKeys, key)
	}
	sort.Strings(refKeys)
	for _, key := range refKeys {
		ds.StandaloneRefs = append(ds.StandaloneRefs, outs[key])
	}

	if len(ds.Samples) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInputs, dir)
	}
	return ds, nil
}

// RequirePaired verifies that every input has its paired output, for
// algorithms where pairing is mandatory.
func (d *Dataset) RequirePaired() error {
	for _, s := range d.Samples {
		if !s.Paired() {
			return fmt.Errorf("%w for %s: expected %s_out.jpg or %s_out.jpeg",
				ErrMissingPair, filepath.Base(s.InPath), s.Key, s.Key)
		}
	}
	return nil
}

// BySplit returns the samples belonging to the given split.
func (d *Dataset) BySplit(split string) []Sample {
	var out []Sample
	for _, s := range d.Samples {
		if s.Split == split {
			out = append(out, s)
		}
	}
	return out
}

// PairedTrain returns the training samples that have a paired output.
func (d *Dataset) PairedTrain() []Sample {
	var out []Sample
	for _, s := range d.BySplit(SplitTrain) {
		if s.Paired() {
			out = append(out, s)
		}
	}
	return out
}
