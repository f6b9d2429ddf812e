package repository

// Timeframe identifies a resampling granularity for historical views.
type Timeframe string

const (
	TFDaily   Timeframe = "daily"
	TFWeekly  Timeframe = "weekly"
	TFMonthly Timeframe = "monthly"
	TFYearly  Timeframe = "yearly"
)

// IsValidTimeframe returns true if tf is a supported timeframe.
func IsValidTimeframe(tf Timeframe) bool {
	switch tf {
	case TFDaily, TFWeekly, TFMonthly, TFYearly:
		return true
	default:
		return false
	}
}

// DefaultTimeframe returns the default timeframe.
func DefaultTimeframe() Timeframe { return TFDaily }

// NormalizeTimeframe converts raw string to a valid timeframe (or default).
func NormalizeTimeframe(s string) Timeframe {
	if s == "" {
		return DefaultTimeframe()
	}
	tf := Timeframe(s)
	if IsValidTimeframe(tf) {
		return tf
	}
	return DefaultTimeframe()
}
