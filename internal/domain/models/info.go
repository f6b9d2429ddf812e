package models

// StockInfo is the basic instrument description served by the info endpoint.
type StockInfo struct {
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name"`
	Currency         string  `json:"currency"`
	Exchange         string  `json:"exchange"`
	InstrumentType   string  `json:"instrument_type"`
	MarketPrice      float64 `json:"market_price"`
	PreviousClose    float64 `json:"previous_close"`
	FiftyTwoWeekHigh float64 `json:"fifty_two_week_high"`
	FiftyTwoWeekLow  float64 `json:"fifty_two_week_low"`
}

// CatalogEntry is one row of the static popular-ticker catalog.
type CatalogEntry struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
}

// HistoryResult is the response payload for a history request: the close
// series resampled to the requested timeframe.
type HistoryResult struct {
	Ticker    string       `json:"ticker"`
	Timeframe string       `json:"timeframe"`
	Period    string       `json:"period"`
	Series    SeriesPoints `json:"series"`
}

// ForecastEvent is the compact summary published to the event stream when a
// forecast is freshly computed.
type ForecastEvent struct {
	Ticker     string  `json:"ticker"`
	Strategy   string  `json:"strategy"`
	Days       int     `json:"days"`
	LastPrice  float64 `json:"last_price"`
	FinalPrice float64 `json:"final_price"`
	Timestamp  int64   `json:"timestamp"`
}
