package service

import "StockCast/internal/domain/models"

// ForecastStrategy is the fit/evaluate/extrapolate contract shared by the
// forecast models. Implementations are single-use: one instance is created
// and fitted per request, so no model state is ever shared between in-flight
// invocations. Fit must be called before Evaluate or Extrapolate.
type ForecastStrategy interface {
	// Name identifies the strategy in results, cache keys and metrics.
	Name() string

	// Fit trains the model on the given series. Returns
	// *models.InsufficientDataError when the series is too short and
	// *models.FitError when numeric fitting fails.
	Fit(series models.PriceSeries) error

	// Evaluate predicts the held-out evaluation window in a single shot and
	// returns it alongside the actual closes.
	Evaluate() (models.EvalSeries, error)

	// Extrapolate forecasts the given number of future calendar days
	// recursively, each step feeding on the previous predictions.
	Extrapolate(days int) (models.PredSeries, error)
}
