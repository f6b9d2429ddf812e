package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockCast/internal/domain/models"
	"StockCast/pkg/cache"
	applogger "StockCast/pkg/logger"
)

type fakeLoader struct {
	series    models.PriceSeries
	info      *models.StockInfo
	err       error
	loads     int
	infoLoads int
}

func (f *fakeLoader) Load(_ context.Context, _ string, _, _ time.Time) (models.PriceSeries, error) {
	f.loads++
	if f.err != nil {
		return nil, f.err
	}
	return f.series, nil
}

func (f *fakeLoader) LoadRange(_ context.Context, _, _ string) (models.PriceSeries, error) {
	f.loads++
	if f.err != nil {
		return nil, f.err
	}
	return f.series, nil
}

func (f *fakeLoader) Info(_ context.Context, _ string) (*models.StockInfo, error) {
	f.infoLoads++
	if f.err != nil {
		return nil, f.err
	}
	return f.info, nil
}

type nopMetrics struct{}

func (nopMetrics) RecordForecast(string, float64)  {}
func (nopMetrics) RecordCacheHit(string)           {}
func (nopMetrics) RecordCacheMiss(string)          {}
func (nopMetrics) RecordError(string)              {}
func (nopMetrics) RecordLastPrice(string, float64) {}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func dailySeries(end time.Time, n int) models.PriceSeries {
	s := make(models.PriceSeries, n)
	for i := 0; i < n; i++ {
		s[i] = models.Candle{
			Date:  end.AddDate(0, 0, i-n+1),
			Close: 100 + float64(i)*0.5,
		}
	}
	return s
}

func newTestForecaster(t *testing.T, loader *fakeLoader, clock *time.Time) (*ForecastUseCase, cache.Store) {
	t.Helper()
	now := func() time.Time { return *clock }

	store, err := cache.NewFileCache(t.TempDir(), cache.WithFileClock(now))
	if err != nil {
		t.Fatalf("file cache: %v", err)
	}

	uc := NewForecastUseCase(loader, store, nil, nil, nopMetrics{}, testLogger(t), ForecastConfig{
		LookbackDays: 180,
		CacheTTL:     24 * time.Hour,
		Seed:         42,
		Now:          now,
	})
	return uc, store
}

func TestPredictPipeline(t *testing.T) {
	clock := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	lastDay := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	loader := &fakeLoader{series: dailySeries(lastDay, 180)}
	uc, _ := newTestForecaster(t, loader, &clock)

	res, err := uc.Predict(context.Background(), "TEST", 10, "regression")
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	if res.Ticker != "TEST" || res.Strategy != "regression" {
		t.Fatalf("unexpected identity: %+v", res)
	}
	if res.LastPrice != loader.series.LastClose() {
		t.Fatalf("last price %v, want %v", res.LastPrice, loader.series.LastClose())
	}
	if len(res.Prediction.Dates) != 10 || len(res.Prediction.Values) != 10 {
		t.Fatalf("prediction has %d dates %d values, want 10/10",
			len(res.Prediction.Dates), len(res.Prediction.Values))
	}
	if res.Prediction.Dates[0] != "2024-06-02" {
		t.Fatalf("first prediction date %q, want 2024-06-02", res.Prediction.Dates[0])
	}
	if res.Prediction.Dates[9] != "2024-06-11" {
		t.Fatalf("last prediction date %q, want 2024-06-11", res.Prediction.Dates[9])
	}
	if len(res.Evaluation.Actual) != 30 || len(res.Evaluation.Predicted) != 30 {
		t.Fatalf("evaluation window %d/%d, want 30/30",
			len(res.Evaluation.Actual), len(res.Evaluation.Predicted))
	}
	if len(res.Historical.Daily.Dates) != 180 {
		t.Fatalf("daily history has %d points, want 180", len(res.Historical.Daily.Dates))
	}
	if len(res.Historical.Weekly.Dates) == 0 || len(res.Historical.Monthly.Dates) == 0 {
		t.Fatal("weekly and monthly history must not be empty")
	}
}

func TestPredictServedFromCache(t *testing.T) {
	clock := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	lastDay := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	loader := &fakeLoader{series: dailySeries(lastDay, 180)}
	uc, _ := newTestForecaster(t, loader, &clock)

	ctx := context.Background()
	first, err := uc.Predict(ctx, "TEST", 10, "regression")
	if err != nil {
		t.Fatalf("first predict: %v", err)
	}
	second, err := uc.Predict(ctx, "TEST", 10, "regression")
	if err != nil {
		t.Fatalf("second predict: %v", err)
	}

	if loader.loads != 1 {
		t.Fatalf("loader called %d times, want 1 (second call must hit the cache)", loader.loads)
	}
	if first.Prediction.Values[0] != second.Prediction.Values[0] {
		t.Fatalf("cached result differs: %v vs %v",
			first.Prediction.Values[0], second.Prediction.Values[0])
	}

	// Different parameters are a different cache entry.
	if _, err := uc.Predict(ctx, "TEST", 20, "regression"); err != nil {
		t.Fatalf("predict with different days: %v", err)
	}
	if loader.loads != 2 {
		t.Fatalf("loader called %d times, want 2", loader.loads)
	}
}

func TestPredictRefitsAfterTTL(t *testing.T) {
	clock := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	lastDay := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	loader := &fakeLoader{series: dailySeries(lastDay, 180)}
	uc, _ := newTestForecaster(t, loader, &clock)

	ctx := context.Background()
	if _, err := uc.Predict(ctx, "TEST", 10, "regression"); err != nil {
		t.Fatalf("first predict: %v", err)
	}

	clock = clock.Add(25 * time.Hour)
	if _, err := uc.Predict(ctx, "TEST", 10, "regression"); err != nil {
		t.Fatalf("predict after expiry: %v", err)
	}
	if loader.loads != 2 {
		t.Fatalf("loader called %d times, want 2 (entry must expire after 24h)", loader.loads)
	}
}

func TestPredictConfiguredDefaults(t *testing.T) {
	clock := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	lastDay := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	loader := &fakeLoader{series: dailySeries(lastDay, 120)}
	now := func() time.Time { return clock }

	store, err := cache.NewFileCache(t.TempDir(), cache.WithFileClock(now))
	if err != nil {
		t.Fatalf("file cache: %v", err)
	}
	uc := NewForecastUseCase(loader, store, nil, nil, nopMetrics{}, testLogger(t), ForecastConfig{
		LookbackDays:    180,
		CacheTTL:        24 * time.Hour,
		DefaultStrategy: "sequence",
		DefaultDays:     7,
		SeqLength:       4,
		Hidden:          8,
		Layers:          1,
		Epochs:          50,
		LearnRate:       0.05,
		Seed:            42,
		Now:             now,
	})

	ctx := context.Background()
	res, err := uc.Predict(ctx, "TEST", 0, "")
	if err != nil {
		t.Fatalf("predict with omitted parameters: %v", err)
	}
	if res.Strategy != "sequence" {
		t.Fatalf("strategy = %q, want configured default sequence", res.Strategy)
	}
	if len(res.Prediction.Dates) != 7 {
		t.Fatalf("prediction has %d dates, want configured default 7", len(res.Prediction.Dates))
	}

	// The explicit equivalents resolve to the same cache entry.
	if _, err := uc.Predict(ctx, "TEST", 7, "sequence"); err != nil {
		t.Fatalf("explicit predict: %v", err)
	}
	if loader.loads != 1 {
		t.Fatalf("loader called %d times, want 1", loader.loads)
	}
}

func TestPredictNoData(t *testing.T) {
	clock := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	loader := &fakeLoader{err: &models.NoDataError{Ticker: "NOPE"}}
	uc, _ := newTestForecaster(t, loader, &clock)

	_, err := uc.Predict(context.Background(), "NOPE", 10, "regression")
	var noData *models.NoDataError
	if !errors.As(err, &noData) {
		t.Fatalf("expected NoDataError, got %v", err)
	}
}

func TestPredictShortSeries(t *testing.T) {
	clock := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	lastDay := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	loader := &fakeLoader{series: dailySeries(lastDay, 25)}
	uc, _ := newTestForecaster(t, loader, &clock)

	_, err := uc.Predict(context.Background(), "TEST", 10, "regression")
	var insufficient *models.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
}

func TestPredictUnknownStrategy(t *testing.T) {
	clock := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	lastDay := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	loader := &fakeLoader{series: dailySeries(lastDay, 180)}
	uc, _ := newTestForecaster(t, loader, &clock)

	if _, err := uc.Predict(context.Background(), "TEST", 10, "lstm"); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}
