package resample

import (
	"testing"
	"time"

	"StockCast/internal/domain/models"
	"StockCast/internal/domain/repository"
)

// weekdaysFrom builds a series of consecutive business days.
func weekdaysFrom(start time.Time, n int, f func(i int) float64) models.PriceSeries {
	s := make(models.PriceSeries, 0, n)
	d := start
	for len(s) < n {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			s = append(s, models.Candle{Date: d, Close: f(len(s))})
		}
		d = d.AddDate(0, 0, 1)
	}
	return s
}

func TestResampleDailyIsIdentity(t *testing.T) {
	// 2024-01-01 is a Monday.
	series := weekdaysFrom(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 10, func(i int) float64 { return 100 + float64(i) })

	b := Resample(series)
	if len(b.Daily) != len(series) {
		t.Fatalf("daily has %d points, want %d", len(b.Daily), len(series))
	}
	for i, p := range b.Daily {
		if !p.Date.Equal(series[i].Date) || p.Value != series[i].Close {
			t.Fatalf("daily point %d mismatch: %+v vs %+v", i, p, series[i])
		}
	}
}

func TestResampleWeekly(t *testing.T) {
	// Two full Mon-Fri weeks starting 2024-01-01.
	series := weekdaysFrom(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 10, func(i int) float64 { return 100 + float64(i) })

	b := Resample(series)
	if len(b.Weekly) != 2 {
		t.Fatalf("weekly has %d points, want 2", len(b.Weekly))
	}

	// Week labels are the Sundays ending each week; values are the Friday closes.
	wantDates := []time.Time{
		time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
	}
	wantValues := []float64{104, 109}
	for i := range wantDates {
		if !b.Weekly[i].Date.Equal(wantDates[i]) {
			t.Fatalf("weekly %d: date %v, want %v", i, b.Weekly[i].Date, wantDates[i])
		}
		if b.Weekly[i].Value != wantValues[i] {
			t.Fatalf("weekly %d: value %v, want %v", i, b.Weekly[i].Value, wantValues[i])
		}
	}
}

func TestResampleMonthlyAndYearly(t *testing.T) {
	// About three months of business days starting 2024-01-01.
	series := weekdaysFrom(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 64, func(i int) float64 { return float64(i) })

	b := Resample(series)
	if len(b.Monthly) != 3 {
		t.Fatalf("monthly has %d points, want 3", len(b.Monthly))
	}

	wantLabels := []time.Time{
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	for i, want := range wantLabels {
		if !b.Monthly[i].Date.Equal(want) {
			t.Fatalf("monthly %d: label %v, want %v", i, b.Monthly[i].Date, want)
		}
	}

	// The value for each month is its last trading day's close, so values
	// must be strictly increasing on this ramp.
	if !(b.Monthly[0].Value < b.Monthly[1].Value && b.Monthly[1].Value < b.Monthly[2].Value) {
		t.Fatalf("monthly values not increasing: %+v", b.Monthly)
	}

	if len(b.Yearly) != 1 {
		t.Fatalf("yearly has %d points, want 1", len(b.Yearly))
	}
	if !b.Yearly[0].Date.Equal(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("yearly label %v, want 2024-12-31", b.Yearly[0].Date)
	}
	if b.Yearly[0].Value != series[len(series)-1].Close {
		t.Fatalf("yearly value %v, want last close %v", b.Yearly[0].Value, series[len(series)-1].Close)
	}
}

func TestResampleGapYieldsNoEntry(t *testing.T) {
	// One trading day in the first week of January, then nothing until March.
	series := models.PriceSeries{
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 10},
		{Date: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), Close: 20},
	}

	b := Resample(series)
	if len(b.Weekly) != 2 {
		t.Fatalf("weekly has %d points, want 2 (gap weeks must not be filled)", len(b.Weekly))
	}
	if len(b.Monthly) != 2 {
		t.Fatalf("monthly has %d points, want 2 (February must be absent)", len(b.Monthly))
	}
}

func TestBucketSelection(t *testing.T) {
	series := weekdaysFrom(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 10, func(i int) float64 { return float64(i) })
	b := Resample(series)

	if got := b.Bucket(repository.TFWeekly); len(got) != len(b.Weekly) {
		t.Fatalf("weekly bucket has %d points, want %d", len(got), len(b.Weekly))
	}
	if got := b.Bucket(repository.TFMonthly); len(got) != len(b.Monthly) {
		t.Fatalf("monthly bucket has %d points, want %d", len(got), len(b.Monthly))
	}
	if got := b.Bucket(repository.TFYearly); len(got) != len(b.Yearly) {
		t.Fatalf("yearly bucket has %d points, want %d", len(got), len(b.Yearly))
	}
	if got := b.Bucket(repository.TFDaily); len(got) != len(series) {
		t.Fatalf("daily bucket has %d points, want %d", len(got), len(series))
	}
}
