// Package algorithm defines the pluggable training/prediction contract and
// the built-in model variants. Algorithms are resolved from a static
// registry at configuration time; there is no runtime code loading.
package algorithm

import (
	"errors"
	"fmt"
	"sort"

	"vibe-trainer/internal/dataset"
	vibeimage "vibe-trainer/internal/image"
	"vibe-trainer/internal/model"
)

// ErrInsufficientData is returned when an algorithm lacks the training
// material it requires (paired examples or style references).
var ErrInsufficientData = errors.New("insufficient training data")

// ErrShapeMismatch is returned when a prediction does not preserve the
// input image's dimensions.
var ErrShapeMismatch = errors.New("prediction shape mismatch")

// Pair is a center-cropped paired training example.
type Pair struct {
	Src, Tgt *vibeimage.Image
}

// Context carries everything an algorithm may train on.
type Context struct {
	DatasetDir  string
	Samples     []dataset.Sample
	TrainInputs []*vibeimage.Image // all training inputs
	StyleRefs   []*vibeimage.Image // paired outputs plus standalone *_out refs
	PairedTrain []Pair             // paired training examples, center-cropped
	MaxDegree   int
	Lambda      float64
}

// Algorithm trains a model from a dataset context and predicts graded
// images from it. Predictions must preserve the input's dimensions.
type Algorithm interface {
	Name() string
	Train(ctx *Context) (*model.Record, error)
	Predict(img *vibeimage.Image, rec *model.Record, intensity float64, s dataset.Sample) (*vibeimage.Image, error)
}

var registry = map[string]Algorithm{}

func register(a Algorithm) {
	registry[a.Name()] = a
}

// Lookup resolves an algorithm by name.
func Lookup(name string) (Algorithm, error) {
	a, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown algorithm %q (available: %v)", name, Names())
	}
	return a, nil
}

// ForRecord resolves the algorithm a persisted record belongs to.
func ForRecord(rec *model.Record) (Algorithm, error) {
	return Lookup(string(rec.Algorithm))
}

// Names lists the registered algorithms in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Auto picks the default algorithm for a dataset: the polynomial map when
// paired training examples exist, else CDF matching.
func Auto(ds *dataset.Dataset) Algorithm {
	if len(ds.PairedTrain()) > 0 {
		return registry[string(model.KindPolyMap)]
	}
	return registry[string(model.KindCDFMatch)]
}

// CheckShape enforces the shape-preservation contract on a prediction.
func CheckShape(s dataset.Sample, src, pred *vibeimage.Image) error {
	if !pred.SameSize(src) {
		return fmt.Errorf("%w for %s: expected %dx%d, got %dx%d",
			ErrShapeMismatch, s.Key, src.W, src.H, pred.W, pred.H)
	}
	return nil
}

// FlattenPairs concatenates paired examples into flat pixel buffers.
func FlattenPairs(pairs []Pair) (x, y []float64) {
	total := 0
	for _, p := range pairs {
		total += len(p.Src.Pix)
	}
	x = make([]float64, 0, total)
	y = make([]float64, 0, total)
	for _, p := range pairs {
		x = append(x, p.Src.Pix...)
		y = append(y, p.Tgt.Pix...)
	}
	return x, y
}
