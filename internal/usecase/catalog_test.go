package usecase

import (
	"context"
	"testing"
	"time"

	"StockCast/internal/domain/models"
	"StockCast/pkg/cache"
)

func newTestCatalog(t *testing.T, loader *fakeLoader) *CatalogUseCase {
	t.Helper()
	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("file cache: %v", err)
	}
	info := NewInfoUseCase(loader, store, nopMetrics{}, testLogger(t), time.Hour)
	return NewCatalogUseCase(info)
}

func TestPopularReturnsCopy(t *testing.T) {
	uc := newTestCatalog(t, &fakeLoader{})

	first := uc.Popular()
	if len(first) == 0 {
		t.Fatal("popular catalog is empty")
	}
	first[0].Symbol = "MUTATED"

	second := uc.Popular()
	if second[0].Symbol == "MUTATED" {
		t.Fatal("Popular must return a copy, not the backing slice")
	}
}

func TestSearchSymbolPrefix(t *testing.T) {
	uc := newTestCatalog(t, &fakeLoader{})

	got := uc.Search(context.Background(), "aa")
	if len(got) != 1 || got[0].Symbol != "AAPL" {
		t.Fatalf("search aa = %+v, want AAPL", got)
	}
}

func TestSearchNameSubstring(t *testing.T) {
	uc := newTestCatalog(t, &fakeLoader{})

	got := uc.Search(context.Background(), "micro")
	if len(got) != 1 || got[0].Symbol != "MSFT" {
		t.Fatalf("search micro = %+v, want MSFT", got)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	uc := newTestCatalog(t, &fakeLoader{})

	if got := uc.Search(context.Background(), "   "); len(got) != 0 {
		t.Fatalf("blank query returned %+v, want empty", got)
	}
}

func TestSearchUpstreamFallback(t *testing.T) {
	loader := &fakeLoader{info: &models.StockInfo{
		Symbol:         "IBM",
		Name:           "International Business Machines",
		InstrumentType: "EQUITY",
	}}
	uc := newTestCatalog(t, loader)

	got := uc.Search(context.Background(), "ibm")
	if len(got) != 1 || got[0].Symbol != "IBM" {
		t.Fatalf("search ibm = %+v, want upstream IBM entry", got)
	}
}

func TestSearchUnknownSymbol(t *testing.T) {
	loader := &fakeLoader{err: &models.NoDataError{Ticker: "ZZZZ"}}
	uc := newTestCatalog(t, loader)

	if got := uc.Search(context.Background(), "zzzz"); len(got) != 0 {
		t.Fatalf("unknown symbol returned %+v, want empty", got)
	}
}
