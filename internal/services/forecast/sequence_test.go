package forecast

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"StockCast/internal/domain/models"
)

func rampConfig(seed int64) SequenceConfig {
	return SequenceConfig{
		SeqLength: 4,
		Hidden:    8,
		Layers:    1,
		Epochs:    400,
		LearnRate: 0.05,
		Rand:      rand.New(rand.NewSource(seed)),
	}
}

func TestSequenceLearnsRamp(t *testing.T) {
	series := priceSeries(80, func(i int) float64 { return 100 + float64(i) })

	s := NewSequence(rampConfig(3))
	if err := s.Fit(series); err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	eval, err := s.Evaluate()
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if len(eval.Actual) == 0 {
		t.Fatal("expected a non-empty evaluation window")
	}

	// The ramp spans 79 price units; after training, single-shot test
	// predictions should track it well within a tenth of the range.
	priceRange := 79.0
	var sum float64
	for i := range eval.Actual {
		sum += math.Abs(eval.Predicted[i] - eval.Actual[i])
	}
	mae := sum / float64(len(eval.Actual))
	if mae > 0.1*priceRange {
		t.Fatalf("mean absolute error %v exceeds %v", mae, 0.1*priceRange)
	}
}

func TestSequenceExtrapolateShape(t *testing.T) {
	series := priceSeries(80, func(i int) float64 { return 100 + float64(i) })
	last := series.LastDate()

	s := NewSequence(rampConfig(3))
	if err := s.Fit(series); err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	pred, err := s.Extrapolate(7)
	if err != nil {
		t.Fatalf("extrapolate failed: %v", err)
	}
	if len(pred.Dates) != 7 || len(pred.Values) != 7 {
		t.Fatalf("got %d dates %d values, want 7/7", len(pred.Dates), len(pred.Values))
	}
	for i, d := range pred.Dates {
		want := last.AddDate(0, 0, i+1)
		if !d.Equal(want) {
			t.Fatalf("date %d: got %v, want %v", i, d, want)
		}
	}

	// Recursive forecasts drift, but must stay in the neighborhood of the
	// input range for a clean ramp.
	for i, v := range pred.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("prediction step %d is not finite: %v", i, v)
		}
		if v < 50 || v > 250 {
			t.Fatalf("prediction step %d escaped the plausible band: %v", i, v)
		}
	}
}

func TestSequenceDeterministicWithSeed(t *testing.T) {
	series := priceSeries(80, func(i int) float64 { return 150 + 10*math.Sin(float64(i)/5) })

	run := func() []float64 {
		s := NewSequence(rampConfig(11))
		if err := s.Fit(series); err != nil {
			t.Fatalf("fit failed: %v", err)
		}
		pred, err := s.Extrapolate(5)
		if err != nil {
			t.Fatalf("extrapolate failed: %v", err)
		}
		return pred.Values
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("step %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestSequenceInsufficientData(t *testing.T) {
	series := priceSeries(4, func(i int) float64 { return 100 })

	s := NewSequence(rampConfig(1))
	err := s.Fit(series)
	var insufficient *models.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
	if insufficient.Need != 5 {
		t.Fatalf("need = %d, want 5", insufficient.Need)
	}
}
