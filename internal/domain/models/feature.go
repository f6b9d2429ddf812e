package models

import "time"

// FeatureRow is one engineered observation derived from the close series.
// Day is the ordinal position assigned by the partitioner; it is the only
// explicit time feature the regression strategy sees.
type FeatureRow struct {
	Date       time.Time
	Day        int
	Close      float64
	MAShort    float64
	MALong     float64
	Return     float64
	Volatility float64
}

// Partition splits engineered rows into a training segment and the most
// recent fixed-size evaluation segment. The two are disjoint and contiguous,
// with Train entirely preceding Evaluation in time.
type Partition struct {
	Train      []FeatureRow
	Evaluation []FeatureRow
}
