package forecast

import (
	"StockCast/internal/domain/models"
	"StockCast/internal/services/resample"
	"StockCast/pkg/util"
)

// Assemble combines the evaluation window, the future prediction, and the
// resampled history into one immutable ForecastResult. Pure aggregation:
// only date formatting happens here.
func Assemble(ticker, strategy string, series models.PriceSeries, eval models.EvalSeries, pred models.PredSeries, hist resample.Buckets) *models.ForecastResult {
	return &models.ForecastResult{
		Ticker:    ticker,
		Strategy:  strategy,
		LastPrice: series.LastClose(),
		Prediction: models.SeriesPoints{
			Dates:  util.FormatDates(pred.Dates),
			Values: pred.Values,
		},
		Evaluation: models.EvaluationPoints{
			Dates:     util.FormatDates(eval.Dates),
			Actual:    eval.Actual,
			Predicted: eval.Predicted,
		},
		Historical: models.HistoricalPoints{
			Daily:   toPoints(hist.Daily),
			Weekly:  toPoints(hist.Weekly),
			Monthly: toPoints(hist.Monthly),
			Yearly:  toPoints(hist.Yearly),
		},
	}
}

func toPoints(ps []resample.Point) models.SeriesPoints {
	out := models.SeriesPoints{
		Dates:  make([]string, len(ps)),
		Values: make([]float64, len(ps)),
	}
	for i, p := range ps {
		out.Dates[i] = util.FormatDate(p.Date)
		out.Values[i] = p.Value
	}
	return out
}
