package usecase

import (
	"context"
	"testing"
	"time"

	"StockCast/internal/domain/models"
	"StockCast/pkg/cache"
)

func TestInfoCachedForFullTTL(t *testing.T) {
	clock := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }

	loader := &fakeLoader{info: &models.StockInfo{Symbol: "AAPL", Name: "Apple Inc."}}
	store, err := cache.NewFileCache(t.TempDir(), cache.WithFileClock(now))
	if err != nil {
		t.Fatalf("file cache: %v", err)
	}
	uc := NewInfoUseCase(loader, store, nopMetrics{}, testLogger(t), 24*time.Hour)

	ctx := context.Background()
	if _, err := uc.Info(ctx, "AAPL"); err != nil {
		t.Fatalf("info: %v", err)
	}

	// 23 hours later the entry is still fresh; upstream is not asked again.
	clock = clock.Add(23 * time.Hour)
	got, err := uc.Info(ctx, "AAPL")
	if err != nil {
		t.Fatalf("info within ttl: %v", err)
	}
	if got.Symbol != "AAPL" || loader.infoLoads != 1 {
		t.Fatalf("got %+v after %d upstream calls, want cached AAPL after 1", got, loader.infoLoads)
	}

	clock = clock.Add(2 * time.Hour)
	if _, err := uc.Info(ctx, "AAPL"); err != nil {
		t.Fatalf("info after expiry: %v", err)
	}
	if loader.infoLoads != 2 {
		t.Fatalf("upstream called %d times, want 2 after the 24h entry expired", loader.infoLoads)
	}
}
