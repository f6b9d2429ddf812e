package features

import (
	"gonum.org/v1/gonum/stat"

	"StockCast/internal/domain/models"
)

const (
	// WindowShort and WindowLong are the trailing simple moving average windows.
	WindowShort = 5
	WindowLong  = 20
	// VolWindow is the trailing window (in rows) for the return stddev.
	VolWindow = 20
)

// Derive computes trailing-window features over the close series: MA5, MA20,
// close-to-close fractional return, and the sample stddev of returns over
// the trailing 20-row window. Rows without a full MA20 window are dropped,
// so the output always has len(series) - (WindowLong-1) rows. The first
// emitted row's volatility window spans the 19 returns available at that
// point; every later row sees a full 20.
func Derive(series models.PriceSeries) []models.FeatureRow {
	if len(series) < WindowLong {
		return nil
	}

	closes := series.Closes()

	// returns[t] = close[t]/close[t-1] - 1; returns[0] is undefined.
	returns := make([]float64, len(closes))
	for t := 1; t < len(closes); t++ {
		if closes[t-1] != 0 {
			returns[t] = closes[t]/closes[t-1] - 1
		}
	}

	rows := make([]models.FeatureRow, 0, len(series)-WindowLong+1)
	for t := WindowLong - 1; t < len(series); t++ {
		volFrom := t - VolWindow + 1
		if volFrom < 1 {
			volFrom = 1
		}
		rows = append(rows, models.FeatureRow{
			Date:       series[t].Date,
			Close:      closes[t],
			MAShort:    stat.Mean(closes[t-WindowShort+1:t+1], nil),
			MALong:     stat.Mean(closes[t-WindowLong+1:t+1], nil),
			Return:     returns[t],
			Volatility: stat.StdDev(returns[volFrom:t+1], nil),
		})
	}
	return rows
}
