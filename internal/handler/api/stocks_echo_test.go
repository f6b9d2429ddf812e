package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"StockCast/internal/domain/models"
	"StockCast/internal/usecase"
	"StockCast/pkg/cache"
	xlogger "StockCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubLoader struct{}

func (stubLoader) Load(_ context.Context, ticker string, _, _ time.Time) (models.PriceSeries, error) {
	return nil, &models.NoDataError{Ticker: ticker}
}

func (stubLoader) LoadRange(_ context.Context, ticker, _ string) (models.PriceSeries, error) {
	return nil, &models.NoDataError{Ticker: ticker}
}

func (stubLoader) Info(_ context.Context, ticker string) (*models.StockInfo, error) {
	return nil, &models.NoDataError{Ticker: ticker}
}

type stubMetrics struct{}

func (stubMetrics) RecordForecast(string, float64)  {}
func (stubMetrics) RecordCacheHit(string)           {}
func (stubMetrics) RecordCacheMiss(string)          {}
func (stubMetrics) RecordError(string)              {}
func (stubMetrics) RecordLastPrice(string, float64) {}

func newCatalogHandler(t *testing.T) *StocksEchoHandler {
	t.Helper()
	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("file cache: %v", err)
	}
	info := usecase.NewInfoUseCase(stubLoader{}, store, stubMetrics{}, log, time.Hour)
	catalog := usecase.NewCatalogUseCase(info)
	return NewStocksEchoHandler(log, nil, nil, info, catalog)
}

func searchResponse(t *testing.T, h *StocksEchoHandler, target string) (int, []models.CatalogEntry) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Search(c); err != nil {
		t.Fatalf("search handler: %v", err)
	}

	var resp struct {
		Status int                   `json:"status"`
		Data   []models.CatalogEntry `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.Status, resp.Data
}

func TestSearchEmptyQueryReturnsEmptyList(t *testing.T) {
	h := newCatalogHandler(t)

	status, data := searchResponse(t, h, "/api/stocks/search?q=")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200 for an empty query", status)
	}
	if len(data) != 0 {
		t.Fatalf("empty query returned %+v, want empty list", data)
	}
}

func TestSearchMatchesCatalog(t *testing.T) {
	h := newCatalogHandler(t)

	status, data := searchResponse(t, h, "/api/stocks/search?q=aa")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(data) != 1 || data[0].Symbol != "AAPL" {
		t.Fatalf("search aa = %+v, want AAPL", data)
	}
}
