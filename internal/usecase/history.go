package usecase

import (
	"context"
	"errors"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/services/resample"
	"StockCast/pkg/cache"
	applogger "StockCast/pkg/logger"
	"StockCast/pkg/util"
)

// HistoryUseCase serves resampled close history for a ticker.
type HistoryUseCase struct {
	loader  domrepo.SeriesLoader
	store   cache.Store
	metrics domrepo.Metrics
	log     *applogger.Logger
	ttl     time.Duration
}

func NewHistoryUseCase(loader domrepo.SeriesLoader, store cache.Store, metrics domrepo.Metrics, log *applogger.Logger, ttl time.Duration) *HistoryUseCase {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &HistoryUseCase{
		loader:  loader,
		store:   store,
		metrics: metrics,
		log:     log,
		ttl:     ttl,
	}
}

// History loads the period's daily closes and downsamples to the requested
// timeframe.
func (uc *HistoryUseCase) History(ctx context.Context, ticker, timeframe, period string) (*models.HistoryResult, error) {
	tf := domrepo.NormalizeTimeframe(timeframe)
	key := cache.GenerateKeyWithParams("history", ticker, string(tf), period)

	var cached models.HistoryResult
	if err := uc.store.Get(ctx, key, &cached); err == nil {
		uc.metrics.RecordCacheHit("history")
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		uc.log.Warn("history cache read failed", applogger.String("key", key), applogger.Error(err))
	}
	uc.metrics.RecordCacheMiss("history")

	series, err := uc.loader.LoadRange(ctx, ticker, period)
	if err != nil {
		uc.metrics.RecordError("load")
		return nil, err
	}

	points := resample.Resample(series).Bucket(tf)
	result := &models.HistoryResult{
		Ticker:    ticker,
		Timeframe: string(tf),
		Period:    period,
		Series: models.SeriesPoints{
			Dates:  make([]string, len(points)),
			Values: make([]float64, len(points)),
		},
	}
	for i, p := range points {
		result.Series.Dates[i] = util.FormatDate(p.Date)
		result.Series.Values[i] = p.Value
	}

	if err := uc.store.Set(ctx, key, result, uc.ttl); err != nil {
		uc.log.Warn("history cache write failed", applogger.String("key", key), applogger.Error(err))
	}
	return result, nil
}
