package models

import "time"

// EvalSeries holds held-out evaluation rows with actual and predicted closes.
type EvalSeries struct {
	Dates     []time.Time
	Actual    []float64
	Predicted []float64
}

// PredSeries holds future predictions, one per calendar day past the series end.
type PredSeries struct {
	Dates  []time.Time
	Values []float64
}

// SeriesPoints is a parallel (dates, values) pair with dates formatted
// YYYY-MM-DD, ready for serialization.
type SeriesPoints struct {
	Dates  []string  `json:"dates"`
	Values []float64 `json:"values"`
}

// EvaluationPoints is the serialized evaluation window.
type EvaluationPoints struct {
	Dates     []string  `json:"dates"`
	Actual    []float64 `json:"actual"`
	Predicted []float64 `json:"predicted"`
}

// HistoricalPoints carries the four resampled close-price views.
type HistoricalPoints struct {
	Daily   SeriesPoints `json:"daily"`
	Weekly  SeriesPoints `json:"weekly"`
	Monthly SeriesPoints `json:"monthly"`
	Yearly  SeriesPoints `json:"yearly"`
}

// ForecastResult is the complete response payload for a prediction request.
// It is the only artifact that crosses the cache and API boundaries, and is
// never modified after assembly.
type ForecastResult struct {
	Ticker     string           `json:"ticker"`
	Strategy   string           `json:"strategy"`
	LastPrice  float64          `json:"last_price"`
	Prediction SeriesPoints     `json:"prediction"`
	Evaluation EvaluationPoints `json:"evaluation"`
	Historical HistoricalPoints `json:"historical"`
}
