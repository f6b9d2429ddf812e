package repository

import (
	"context"
	"time"

	"StockCast/internal/domain/models"
)

// SeriesLoader retrieves a time-ordered daily OHLCV series for a ticker.
// Implementations return *models.NoDataError when the ticker is unknown or
// the range yields zero rows.
type SeriesLoader interface {
	Load(ctx context.Context, ticker string, start, end time.Time) (models.PriceSeries, error)
	LoadRange(ctx context.Context, ticker, period string) (models.PriceSeries, error)
	Info(ctx context.Context, ticker string) (*models.StockInfo, error)
}

// SeriesStore is an optional archive for fetched OHLCV batches. The loader
// path falls back to it when the upstream source is unavailable.
type SeriesStore interface {
	Save(ctx context.Context, ticker string, series models.PriceSeries) error
	Query(ctx context.Context, ticker string, from, to time.Time) (models.PriceSeries, error)
	Health(ctx context.Context) error
	Close() error
}

// ForecastPublisher emits a summary event for each freshly computed forecast.
type ForecastPublisher interface {
	Publish(ctx context.Context, ev *models.ForecastEvent) error
	Close() error
}

// Metrics records operational counters for the forecast pipeline.
type Metrics interface {
	RecordForecast(strategy string, seconds float64)
	RecordCacheHit(kind string)
	RecordCacheMiss(kind string)
	RecordError(kind string)
	RecordLastPrice(ticker string, price float64)
}
