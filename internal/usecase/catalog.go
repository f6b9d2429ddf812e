package usecase

import (
	"context"
	"strings"

	"StockCast/internal/domain/models"
)

// popularStocks is the static catalog behind the popular endpoint. Search
// also matches against it before asking upstream.
var popularStocks = []models.CatalogEntry{
	{Symbol: "AAPL", Name: "Apple Inc.", Sector: "Technology"},
	{Symbol: "MSFT", Name: "Microsoft Corporation", Sector: "Technology"},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", Sector: "Technology"},
	{Symbol: "AMZN", Name: "Amazon.com Inc.", Sector: "Consumer Cyclical"},
	{Symbol: "TSLA", Name: "Tesla, Inc.", Sector: "Consumer Cyclical"},
	{Symbol: "META", Name: "Meta Platforms, Inc.", Sector: "Communication Services"},
	{Symbol: "NVDA", Name: "NVIDIA Corporation", Sector: "Technology"},
	{Symbol: "JPM", Name: "JPMorgan Chase & Co.", Sector: "Financial Services"},
	{Symbol: "V", Name: "Visa Inc.", Sector: "Financial Services"},
	{Symbol: "WMT", Name: "Walmart Inc.", Sector: "Consumer Defensive"},
}

// CatalogUseCase serves the popular-ticker list and symbol search.
type CatalogUseCase struct {
	info *InfoUseCase
}

func NewCatalogUseCase(info *InfoUseCase) *CatalogUseCase {
	return &CatalogUseCase{info: info}
}

// Popular returns the static popular-ticker catalog.
func (uc *CatalogUseCase) Popular() []models.CatalogEntry {
	out := make([]models.CatalogEntry, len(popularStocks))
	copy(out, popularStocks)
	return out
}

// Search matches the query against the catalog by symbol prefix and name
// substring. When nothing matches locally, it falls back to an exact-symbol
// lookup upstream.
func (uc *CatalogUseCase) Search(ctx context.Context, query string) []models.CatalogEntry {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" {
		return []models.CatalogEntry{}
	}

	results := make([]models.CatalogEntry, 0, 4)
	for _, e := range popularStocks {
		if strings.HasPrefix(e.Symbol, q) || strings.Contains(strings.ToUpper(e.Name), q) {
			results = append(results, e)
		}
	}
	if len(results) > 0 {
		return results
	}

	info, err := uc.info.Info(ctx, q)
	if err != nil {
		return []models.CatalogEntry{}
	}
	return []models.CatalogEntry{{
		Symbol: info.Symbol,
		Name:   info.Name,
		Sector: info.InstrumentType,
	}}
}
