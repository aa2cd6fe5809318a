package train

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLambdas(t *testing.T) {
	cases := []struct {
		raw  string
		want []float64
	}{
		{"1e-4, 0.05 ,1", []float64{1e-4, 0.05, 1.0}},
		{" , ", nil},
		{"", nil},
		{"0.01", []float64{0.01}},
	}
	for _, tc := range cases {
		got, err := ParseLambdas(tc.raw)
		if err != nil {
			t.Errorf("ParseLambdas(%q): %v", tc.raw, err)
			continue
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("ParseLambdas(%q) mismatch (-want +got):\n%s", tc.raw, diff)
		}
	}
}

func TestParseLambdasInvalid(t *testing.T) {
	if _, err := ParseLambdas("1e-3, nope"); err == nil {
		t.Error("expected error for non-numeric lambda")
	}
}

func TestPresetsAreOrderedByCost(t *testing.T) {
	low, medium, high := Presets["low"], Presets["medium"], Presets["high"]
	if !(low.MaxDegree < medium.MaxDegree && medium.MaxDegree < high.MaxDegree) {
		t.Error("preset degrees should increase with complexity")
	}
	if !(low.SampleSize < medium.SampleSize && medium.SampleSize < high.SampleSize) {
		t.Error("preset sample caps should increase with complexity")
	}
	for name, p := range Presets {
		if len(p.Lambdas) == 0 {
			t.Errorf("preset %s has no lambda candidates", name)
		}
	}
}
