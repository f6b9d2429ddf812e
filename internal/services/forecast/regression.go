package forecast

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"

	"StockCast/internal/domain/models"
	"StockCast/internal/services/features"
)

const (
	// RegressionEvalWindow is the size of the held-out evaluation segment.
	RegressionEvalWindow = 30
	// RegressionMinRows is the minimum number of engineered rows required.
	RegressionMinRows = 30

	svdEps = 2.220446049250313e-16
)

// RegressionConfig tunes the feature-regression strategy. Rand drives the
// per-step volatility jitter during extrapolation; pass a seeded source to
// make predictions reproducible.
type RegressionConfig struct {
	EvalWindow int
	MinRows    int
	Rand       *rand.Rand
}

// RegressionStrategy fits ordinary least squares on engineered features
// {day, ma_short, ma_long, volatility} against close, then extrapolates by
// drifting the moving averages with a fixed per-step delta. Single-use.
type RegressionStrategy struct {
	cfg      RegressionConfig
	part     models.Partition
	beta     mat.VecDense
	lastDate time.Time
	fitted   bool
}

// NewRegression creates an unfitted regression strategy.
func NewRegression(cfg RegressionConfig) *RegressionStrategy {
	if cfg.EvalWindow <= 0 {
		cfg.EvalWindow = RegressionEvalWindow
	}
	if cfg.MinRows <= 0 {
		cfg.MinRows = RegressionMinRows
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RegressionStrategy{cfg: cfg}
}

func (s *RegressionStrategy) Name() string { return "regression" }

// Fit derives features, partitions them, and solves the least squares
// problem over the training segment. The solve is SVD-based so a
// rank-deficient design (for example constant feature columns) still yields
// the minimum-norm solution instead of failing.
func (s *RegressionStrategy) Fit(series models.PriceSeries) error {
	rows := features.Derive(series)
	if len(rows) < s.cfg.MinRows {
		return &models.InsufficientDataError{Have: len(rows), Need: s.cfg.MinRows}
	}

	part, err := Split(rows, s.cfg.EvalWindow)
	if err != nil {
		return err
	}

	train := part.Train
	x := mat.NewDense(len(train), 5, nil)
	y := mat.NewVecDense(len(train), nil)
	for i, r := range train {
		vals := []float64{1, float64(r.Day), r.MAShort, r.MALong, r.Volatility}
		for j, v := range vals {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &models.FitError{Reason: "non-finite value in design matrix"}
			}
			x.Set(i, j, v)
		}
		if math.IsNaN(r.Close) || math.IsInf(r.Close, 0) {
			return &models.FitError{Reason: "non-finite target value"}
		}
		y.SetVec(i, r.Close)
	}

	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		return &models.FitError{Reason: "svd factorization failed"}
	}
	sv := svd.Values(nil)
	if len(sv) == 0 || sv[0] == 0 {
		return &models.FitError{Reason: "degenerate design matrix"}
	}
	tol := float64(len(train)) * svdEps * sv[0]
	rank := 0
	for _, v := range sv {
		if v > tol {
			rank++
		}
	}
	svd.SolveVecTo(&s.beta, y, rank)

	s.part = part
	s.lastDate = series.LastDate()
	s.fitted = true
	return nil
}

// Evaluate predicts the close for every evaluation row using the fitted model.
func (s *RegressionStrategy) Evaluate() (models.EvalSeries, error) {
	if !s.fitted {
		return models.EvalSeries{}, fmt.Errorf("regression strategy not fitted")
	}
	eval := s.part.Evaluation
	out := models.EvalSeries{
		Dates:     make([]time.Time, len(eval)),
		Actual:    make([]float64, len(eval)),
		Predicted: make([]float64, len(eval)),
	}
	for i, r := range eval {
		out.Dates[i] = r.Date
		out.Actual[i] = r.Close
		out.Predicted[i] = s.predict(float64(r.Day), r.MAShort, r.MALong, r.Volatility)
	}
	return out, nil
}

// Extrapolate forecasts future closes by evolving the moving averages with a
// fixed per-step delta computed once over the evaluation window. The moving
// averages are extrapolated, never recomputed from predicted prices.
// Volatility gets an independent uniform jitter in [0.9, 1.1] each step.
// Output dates advance one calendar day per step.
func (s *RegressionStrategy) Extrapolate(days int) (models.PredSeries, error) {
	if !s.fitted {
		return models.PredSeries{}, fmt.Errorf("regression strategy not fitted")
	}
	eval := s.part.Evaluation
	last := eval[len(eval)-1]

	idxShort := len(eval) - features.WindowShort
	if idxShort < 0 {
		idxShort = 0
	}
	idxLong := len(eval) - features.WindowLong
	if idxLong < 0 {
		idxLong = 0
	}
	maShortDelta := (last.MAShort - eval[idxShort].MAShort) / float64(features.WindowShort)
	maLongDelta := (last.MALong - eval[idxLong].MALong) / float64(features.WindowLong)

	out := models.PredSeries{
		Dates:  make([]time.Time, days),
		Values: make([]float64, days),
	}
	for i := 1; i <= days; i++ {
		maShort := last.MAShort + maShortDelta*float64(i)
		maLong := last.MALong + maLongDelta*float64(i)
		vol := last.Volatility * (0.9 + 0.2*s.cfg.Rand.Float64())
		day := float64(last.Day + i)

		out.Dates[i-1] = s.lastDate.AddDate(0, 0, i)
		out.Values[i-1] = s.predict(day, maShort, maLong, vol)
	}
	return out, nil
}

func (s *RegressionStrategy) predict(day, maShort, maLong, vol float64) float64 {
	return s.beta.AtVec(0) +
		s.beta.AtVec(1)*day +
		s.beta.AtVec(2)*maShort +
		s.beta.AtVec(3)*maLong +
		s.beta.AtVec(4)*vol
}
