package yahoo

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"StockCast/internal/domain/models"
	"StockCast/internal/service/ratelimit"
	apphttp "StockCast/pkg/http"
	"StockCast/pkg/logger"
)

const (
	defaultBaseURL = "https://query1.finance.yahoo.com"
	userAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	rateLimitKey   = "yahoo-chart"
)

// Config holds Yahoo chart API client configuration.
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	RateCapacity float64
	RateRefill   float64
}

// Client fetches daily OHLCV series from the Yahoo v8 chart API. Implements
// repository.SeriesLoader.
type Client struct {
	cfg     Config
	httpc   *apphttp.Client
	limiter *ratelimit.Limiter
	log     *logger.Logger
}

// NewClient creates a Yahoo chart API client.
func NewClient(cfg Config, log *logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RateCapacity <= 0 {
		cfg.RateCapacity = 5
	}
	if cfg.RateRefill <= 0 {
		cfg.RateRefill = 2
	}

	return &Client{
		cfg:     cfg,
		httpc:   apphttp.NewClient(apphttp.WithTimeout(cfg.Timeout)),
		limiter: ratelimit.New(),
		log:     log,
	}
}

// chartResponse mirrors the Yahoo v8 chart payload. Quote arrays carry nulls
// for halted days, hence the pointer elements.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta       chartMeta `json:"meta"`
	Timestamp  []int64   `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

type chartMeta struct {
	Currency           string  `json:"currency"`
	Symbol             string  `json:"symbol"`
	ExchangeName       string  `json:"exchangeName"`
	FullExchangeName   string  `json:"fullExchangeName"`
	InstrumentType     string  `json:"instrumentType"`
	LongName           string  `json:"longName"`
	ShortName          string  `json:"shortName"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	ChartPreviousClose float64 `json:"chartPreviousClose"`
	FiftyTwoWeekHigh   float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow    float64 `json:"fiftyTwoWeekLow"`
}

// Load fetches the daily series between start and end.
func (c *Client) Load(ctx context.Context, ticker string, start, end time.Time) (models.PriceSeries, error) {
	params := map[string][]string{
		"period1":  {strconv.FormatInt(start.Unix(), 10)},
		"period2":  {strconv.FormatInt(end.Unix(), 10)},
		"interval": {"1d"},
	}
	res, err := c.fetch(ctx, ticker, params)
	if err != nil {
		return nil, err
	}
	return c.toSeries(ticker, res)
}

// LoadRange fetches the daily series for a named lookback period (5d, 1mo,
// 1y, max, ...).
func (c *Client) LoadRange(ctx context.Context, ticker, period string) (models.PriceSeries, error) {
	params := map[string][]string{
		"range":    {strings.ToLower(period)},
		"interval": {"1d"},
	}
	res, err := c.fetch(ctx, ticker, params)
	if err != nil {
		return nil, err
	}
	return c.toSeries(ticker, res)
}

// Info returns basic instrument metadata from the chart meta block.
func (c *Client) Info(ctx context.Context, ticker string) (*models.StockInfo, error) {
	params := map[string][]string{
		"range":    {"5d"},
		"interval": {"1d"},
	}
	res, err := c.fetch(ctx, ticker, params)
	if err != nil {
		return nil, err
	}

	meta := res.Meta
	name := meta.LongName
	if name == "" {
		name = meta.ShortName
	}
	exchange := meta.FullExchangeName
	if exchange == "" {
		exchange = meta.ExchangeName
	}

	return &models.StockInfo{
		Symbol:           meta.Symbol,
		Name:             name,
		Currency:         meta.Currency,
		Exchange:         exchange,
		InstrumentType:   meta.InstrumentType,
		MarketPrice:      meta.RegularMarketPrice,
		PreviousClose:    meta.ChartPreviousClose,
		FiftyTwoWeekHigh: meta.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  meta.FiftyTwoWeekLow,
	}, nil
}

func (c *Client) fetch(ctx context.Context, ticker string, params map[string][]string) (*chartResult, error) {
	deadline := time.Now().Add(c.cfg.Timeout)
	if !c.limiter.Wait(rateLimitKey, c.cfg.RateCapacity, c.cfg.RateRefill, deadline) {
		return nil, fmt.Errorf("rate limit wait timed out for %s", ticker)
	}

	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	var resp chartResponse
	err := c.httpc.GetJSON(ctx, &apphttp.RequestOptions{
		URL:         fmt.Sprintf("%s/v8/finance/chart/%s", c.cfg.BaseURL, ticker),
		Headers:     map[string]string{"User-Agent": userAgent},
		QueryParams: params,
	}, &resp)
	if err != nil {
		// Yahoo answers 404 for unknown symbols.
		if strings.Contains(err.Error(), "status 404") {
			return nil, &models.NoDataError{Ticker: ticker}
		}
		return nil, fmt.Errorf("yahoo chart request: %w", err)
	}

	if resp.Chart.Error != nil {
		c.log.Warn("yahoo chart error",
			logger.String("ticker", ticker),
			logger.String("code", resp.Chart.Error.Code),
		)
		return nil, &models.NoDataError{Ticker: ticker}
	}
	if len(resp.Chart.Result) == 0 {
		return nil, &models.NoDataError{Ticker: ticker}
	}

	return &resp.Chart.Result[0], nil
}

func (c *Client) toSeries(ticker string, res *chartResult) (models.PriceSeries, error) {
	if len(res.Timestamp) == 0 || len(res.Indicators.Quote) == 0 {
		return nil, &models.NoDataError{Ticker: ticker}
	}

	quote := res.Indicators.Quote[0]
	series := make(models.PriceSeries, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		day := time.Unix(ts, 0).UTC()
		candle := models.Candle{
			Date:  time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			candle.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			candle.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			candle.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			candle.Volume = *quote.Volume[i]
		}
		series = append(series, candle)
	}

	if len(series) == 0 {
		return nil, &models.NoDataError{Ticker: ticker}
	}

	return series, nil
}
