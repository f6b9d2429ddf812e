package usecase

import (
	"context"
	"errors"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	"StockCast/pkg/cache"
	applogger "StockCast/pkg/logger"
)

// InfoUseCase serves instrument metadata.
type InfoUseCase struct {
	loader  domrepo.SeriesLoader
	store   cache.Store
	metrics domrepo.Metrics
	log     *applogger.Logger
	ttl     time.Duration
}

func NewInfoUseCase(loader domrepo.SeriesLoader, store cache.Store, metrics domrepo.Metrics, log *applogger.Logger, ttl time.Duration) *InfoUseCase {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &InfoUseCase{
		loader:  loader,
		store:   store,
		metrics: metrics,
		log:     log,
		ttl:     ttl,
	}
}

func (uc *InfoUseCase) Info(ctx context.Context, ticker string) (*models.StockInfo, error) {
	key := cache.GenerateKey("info", ticker)

	var cached models.StockInfo
	if err := uc.store.Get(ctx, key, &cached); err == nil {
		uc.metrics.RecordCacheHit("info")
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		uc.log.Warn("info cache read failed", applogger.String("key", key), applogger.Error(err))
	}
	uc.metrics.RecordCacheMiss("info")

	info, err := uc.loader.Info(ctx, ticker)
	if err != nil {
		uc.metrics.RecordError("info")
		return nil, err
	}

	if err := uc.store.Set(ctx, key, info, uc.ttl); err != nil {
		uc.log.Warn("info cache write failed", applogger.String("key", key), applogger.Error(err))
	}
	return info, nil
}
