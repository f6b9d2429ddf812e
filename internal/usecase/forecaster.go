package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	domsvc "StockCast/internal/domain/service"
	"StockCast/internal/services/forecast"
	"StockCast/internal/services/resample"
	"StockCast/pkg/cache"
	applogger "StockCast/pkg/logger"
)

// ForecastConfig tunes the forecast pipeline. DefaultStrategy and
// DefaultDays apply when a request omits them.
type ForecastConfig struct {
	LookbackDays    int
	CacheTTL        time.Duration
	DefaultStrategy string
	DefaultDays     int
	EvalWindow      int
	SeqLength       int
	Hidden          int
	Layers          int
	Epochs          int
	LearnRate       float64
	Seed            int64 // 0 = time-seeded, nondeterministic
	Now             func() time.Time
}

// ForecastUseCase runs the full forecast pipeline: cache gate, history load,
// per-request model fit, recursive extrapolation, resampling, assembly.
type ForecastUseCase struct {
	loader    domrepo.SeriesLoader
	store     cache.Store
	archive   domrepo.SeriesStore       // optional
	publisher domrepo.ForecastPublisher // optional
	metrics   domrepo.Metrics
	log       *applogger.Logger
	cfg       ForecastConfig
}

func NewForecastUseCase(
	loader domrepo.SeriesLoader,
	store cache.Store,
	archive domrepo.SeriesStore,
	publisher domrepo.ForecastPublisher,
	metrics domrepo.Metrics,
	log *applogger.Logger,
	cfg ForecastConfig,
) *ForecastUseCase {
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 180
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	if cfg.DefaultStrategy == "" {
		cfg.DefaultStrategy = "regression"
	}
	if cfg.DefaultDays <= 0 {
		cfg.DefaultDays = 30
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &ForecastUseCase{
		loader:    loader,
		store:     store,
		archive:   archive,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
		cfg:       cfg,
	}
}

// Predict returns the forecast for ticker, serving a cached result when one
// is fresh. Identical requests within the TTL never refit.
func (uc *ForecastUseCase) Predict(ctx context.Context, ticker string, days int, strategy string) (*models.ForecastResult, error) {
	// Resolve defaults before the cache key so an omitted parameter and its
	// explicit equivalent share one entry.
	if strategy == "" {
		strategy = uc.cfg.DefaultStrategy
	}
	if days <= 0 {
		days = uc.cfg.DefaultDays
	}
	key := cache.GenerateKeyWithParams("forecast", ticker, strategy, days)

	var cached models.ForecastResult
	if err := uc.store.Get(ctx, key, &cached); err == nil {
		uc.metrics.RecordCacheHit("forecast")
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		uc.log.Warn("forecast cache read failed", applogger.String("key", key), applogger.Error(err))
	}
	uc.metrics.RecordCacheMiss("forecast")

	series, err := uc.loadSeries(ctx, ticker)
	if err != nil {
		return nil, err
	}

	strat, err := uc.newStrategy(strategy)
	if err != nil {
		return nil, err
	}

	fitStart := time.Now()
	if err := strat.Fit(series); err != nil {
		uc.metrics.RecordError("fit")
		return nil, err
	}
	eval, err := strat.Evaluate()
	if err != nil {
		uc.metrics.RecordError("evaluate")
		return nil, err
	}
	pred, err := strat.Extrapolate(days)
	if err != nil {
		uc.metrics.RecordError("extrapolate")
		return nil, err
	}
	uc.metrics.RecordForecast(strat.Name(), time.Since(fitStart).Seconds())

	result := forecast.Assemble(ticker, strat.Name(), series, eval, pred, resample.Resample(series))
	uc.metrics.RecordLastPrice(ticker, result.LastPrice)

	if err := uc.store.Set(ctx, key, result, uc.cfg.CacheTTL); err != nil {
		uc.log.Warn("forecast cache write failed", applogger.String("key", key), applogger.Error(err))
	}

	uc.publishEvent(ctx, result, days)

	uc.log.Info("forecast computed",
		applogger.String("ticker", ticker),
		applogger.String("strategy", strat.Name()),
		applogger.Int("days", days),
		applogger.Int("series_len", len(series)),
	)
	return result, nil
}

// loadSeries pulls the trailing lookback window from the upstream source,
// falling back to the archive when upstream fails transiently.
func (uc *ForecastUseCase) loadSeries(ctx context.Context, ticker string) (models.PriceSeries, error) {
	now := uc.cfg.Now()
	start := now.AddDate(0, 0, -uc.cfg.LookbackDays)

	series, err := uc.loader.Load(ctx, ticker, start, now)
	if err != nil {
		var noData *models.NoDataError
		if errors.As(err, &noData) || uc.archive == nil {
			return nil, err
		}

		uc.log.Warn("upstream load failed, trying archive",
			applogger.String("ticker", ticker),
			applogger.Error(err),
		)
		archived, aerr := uc.archive.Query(ctx, ticker, start, now)
		if aerr != nil || len(archived) == 0 {
			uc.metrics.RecordError("load")
			return nil, err
		}
		return archived, nil
	}

	if uc.archive != nil {
		if aerr := uc.archive.Save(ctx, ticker, series); aerr != nil {
			uc.log.Warn("archive save failed", applogger.String("ticker", ticker), applogger.Error(aerr))
		}
	}
	return series, nil
}

func (uc *ForecastUseCase) newStrategy(name string) (domsvc.ForecastStrategy, error) {
	var rng *rand.Rand
	if uc.cfg.Seed != 0 {
		rng = rand.New(rand.NewSource(uc.cfg.Seed))
	}

	switch name {
	case "sequence":
		return forecast.NewSequence(forecast.SequenceConfig{
			SeqLength: uc.cfg.SeqLength,
			Hidden:    uc.cfg.Hidden,
			Layers:    uc.cfg.Layers,
			Epochs:    uc.cfg.Epochs,
			LearnRate: uc.cfg.LearnRate,
			Rand:      rng,
		}), nil
	case "regression":
		return forecast.NewRegression(forecast.RegressionConfig{
			EvalWindow: uc.cfg.EvalWindow,
			Rand:       rng,
		}), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

func (uc *ForecastUseCase) publishEvent(ctx context.Context, result *models.ForecastResult, days int) {
	if uc.publisher == nil {
		return
	}

	finalPrice := result.LastPrice
	if n := len(result.Prediction.Values); n > 0 {
		finalPrice = result.Prediction.Values[n-1]
	}

	ev := &models.ForecastEvent{
		Ticker:     result.Ticker,
		Strategy:   result.Strategy,
		Days:       days,
		LastPrice:  result.LastPrice,
		FinalPrice: finalPrice,
		Timestamp:  uc.cfg.Now().Unix(),
	}
	if err := uc.publisher.Publish(ctx, ev); err != nil {
		uc.metrics.RecordError("publish")
		uc.log.Warn("forecast event publish failed",
			applogger.String("ticker", result.Ticker),
			applogger.Error(err),
		)
	}
}
