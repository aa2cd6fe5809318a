package metrics

import (
	"math"
	"testing"

	vibeimage "vibe-trainer/internal/image"
)

func patternImage(w, h int, phase float64) *vibeimage.Image {
	img := vibeimage.New(w, h)
	for i := range img.Pix {
		img.Pix[i] = 0.5 + 0.5*math.Sin(float64(i)*0.37+phase)
	}
	img.Clamp()
	return img
}

func TestSelfMetricsZero(t *testing.T) {
	img := patternImage(8, 6, 0)
	mae, rmse := MAERMSE(img, img)
	if mae != 0 || rmse != 0 {
		t.Errorf("self metrics = (%g, %g), want (0, 0)", mae, rmse)
	}
	mae, rmse = InnerMAERMSE(img, img, InnerFrac)
	if mae != 0 || rmse != 0 {
		t.Errorf("inner self metrics = (%g, %g), want (0, 0)", mae, rmse)
	}
}

func TestRMSEAtLeastMAE(t *testing.T) {
	a := patternImage(8, 6, 0)
	b := patternImage(8, 6, 1.3)
	mae, rmse := MAERMSE(a, b)
	if rmse < mae {
		t.Errorf("rmse %g < mae %g", rmse, mae)
	}
	if mae <= 0 {
		t.Errorf("mae = %g, want > 0 for differing images", mae)
	}
}

func TestFlatMAERMSEKnownValues(t *testing.T) {
	pred := []float64{0, 0, 0, 0, 0, 0}
	tgt := []float64{1, 1, 1, 0, 0, 0}
	mae, rmse := FlatMAERMSE(pred, tgt)
	// Half the entries differ by 255.
	if math.Abs(mae-127.5) > 1e-9 {
		t.Errorf("mae = %g, want 127.5", mae)
	}
	want := 255.0 / math.Sqrt2
	if math.Abs(rmse-want) > 1e-9 {
		t.Errorf("rmse = %g, want %g", rmse, want)
	}
}

func TestMAERMSECropsDifferingSizes(t *testing.T) {
	a := patternImage(10, 8, 0)
	b := vibeimage.CropInner(a, 0.5)
	mae, rmse := MAERMSE(a, b)
	// The cropped image is the geometric center of the original, so the
	// common centered region matches exactly.
	if mae != 0 || rmse != 0 {
		t.Errorf("centered crop metrics = (%g, %g), want (0, 0)", mae, rmse)
	}
}

func TestMean(t *testing.T) {
	if _, ok := Mean(nil); ok {
		t.Error("Mean(nil) reported ok")
	}
	got, ok := Mean([]float64{1, 2, 3})
	if !ok || got != 2 {
		t.Errorf("Mean = (%g, %v), want (2, true)", got, ok)
	}
}
