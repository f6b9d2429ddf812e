package usecase

import (
	"context"
	"fmt"

	applogger "StockCast/pkg/logger"
	"StockCast/pkg/queue"
)

const PrewarmMessageType = "forecast.prewarm"

// PrewarmPayload is the queue payload for one cache prewarm.
type PrewarmPayload struct {
	Ticker string `json:"ticker"`
	Days   int    `json:"days"`
}

// PrewarmJob computes forecasts for popular tickers in the background so the
// first user request of the day hits a warm cache.
type PrewarmJob struct {
	forecaster *ForecastUseCase
	log        *applogger.Logger
}

func NewPrewarmJob(forecaster *ForecastUseCase, log *applogger.Logger) *PrewarmJob {
	return &PrewarmJob{forecaster: forecaster, log: log}
}

func (j *PrewarmJob) Name() string { return "forecast-prewarm" }
func (j *PrewarmJob) Type() string { return PrewarmMessageType }

func (j *PrewarmJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[PrewarmPayload](payload)
	if err != nil {
		return fmt.Errorf("parse prewarm payload: %w", err)
	}

	// Zero days and empty strategy fall back to the configured defaults, so
	// the warmed entry is the one the default request will hit.
	if _, err := j.forecaster.Predict(ctx, p.Ticker, p.Days, ""); err != nil {
		return fmt.Errorf("prewarm %s: %w", p.Ticker, err)
	}

	j.log.Debug("prewarm done", applogger.String("ticker", p.Ticker))
	return nil
}

// EnqueuePrewarm schedules prewarm jobs for the given tickers.
func EnqueuePrewarm(ctx context.Context, q queue.Service, tickers []string, days int, log *applogger.Logger) {
	for _, t := range tickers {
		if err := q.PublishMessage(ctx, PrewarmMessageType, PrewarmPayload{Ticker: t, Days: days}); err != nil {
			log.Warn("prewarm enqueue failed", applogger.String("ticker", t), applogger.Error(err))
		}
	}
}
