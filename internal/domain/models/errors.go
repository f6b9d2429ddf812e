package models

import "fmt"

// NoDataError indicates the upstream source returned an empty series for a
// ticker. Surfaced to callers as a 404-equivalent response; never retried.
type NoDataError struct {
	Ticker string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no data for ticker %s", e.Ticker)
}

// InsufficientDataError indicates the series exists but is shorter than a
// component's minimum (feature derivation, partitioning, or sequence
// windowing).
type InsufficientDataError struct {
	Ticker string
	Have   int
	Need   int
}

func (e *InsufficientDataError) Error() string {
	if e.Ticker == "" {
		return fmt.Sprintf("insufficient data: have %d rows, need %d", e.Have, e.Need)
	}
	return fmt.Sprintf("insufficient data for %s: have %d rows, need %d", e.Ticker, e.Have, e.Need)
}

// FitError indicates numeric fitting failed (degenerate design matrix or
// non-finite values). The detail is logged internally; callers see a generic
// prediction error.
type FitError struct {
	Reason string
	Err    error
}

func (e *FitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model fit failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("model fit failed: %s", e.Reason)
}

func (e *FitError) Unwrap() error { return e.Err }
