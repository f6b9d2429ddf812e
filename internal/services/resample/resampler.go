package resample

import (
	"time"

	"StockCast/internal/domain/models"
	"StockCast/internal/domain/repository"
)

// Point is one resampled observation, labeled with the end of its period.
type Point struct {
	Date  time.Time
	Value float64
}

// Buckets holds the close series downsampled to each supported granularity.
type Buckets struct {
	Daily   []Point
	Weekly  []Point
	Monthly []Point
	Yearly  []Point
}

// Resample downsamples the close series by taking the last observation
// within each calendar week, month, and year, in chronological order.
// Periods with zero observations yield no entry; gaps are never
// forward-filled. Labels are period ends (Sunday, last day of month,
// Dec 31); daily is the unmodified series.
func Resample(series models.PriceSeries) Buckets {
	b := Buckets{Daily: make([]Point, len(series))}
	for i, c := range series {
		b.Daily[i] = Point{Date: c.Date, Value: c.Close}
	}
	b.Weekly = lastPerPeriod(series, weekEnd)
	b.Monthly = lastPerPeriod(series, monthEnd)
	b.Yearly = lastPerPeriod(series, yearEnd)
	return b
}

// Bucket returns the view for a single timeframe.
func (b Buckets) Bucket(tf repository.Timeframe) []Point {
	switch tf {
	case repository.TFWeekly:
		return b.Weekly
	case repository.TFMonthly:
		return b.Monthly
	case repository.TFYearly:
		return b.Yearly
	default:
		return b.Daily
	}
}

func lastPerPeriod(series models.PriceSeries, label func(time.Time) time.Time) []Point {
	out := make([]Point, 0, len(series))
	idx := make(map[time.Time]int, len(series))
	for _, c := range series {
		l := label(c.Date)
		if i, ok := idx[l]; ok {
			out[i].Value = c.Close
			continue
		}
		idx[l] = len(out)
		out = append(out, Point{Date: l, Value: c.Close})
	}
	return out
}

// weekEnd labels a date with the Sunday ending its week; a Sunday labels itself.
func weekEnd(t time.Time) time.Time {
	days := (7 - int(t.Weekday())) % 7
	return truncateDay(t).AddDate(0, 0, days)
}

func monthEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
}

func yearEnd(t time.Time) time.Time {
	return time.Date(t.Year(), 12, 31, 0, 0, 0, 0, t.Location())
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
