package forecast

import "StockCast/internal/domain/models"

// MinMaxScaler maps values into [0, 1] using statistics fit on the full
// series. Kept after fitting for the inverse transform of predictions.
type MinMaxScaler struct {
	min   float64
	scale float64
}

// FitScaler computes min/max over xs. A flat series (max == min) degrades to
// mapping every value to 0, which the fit error checks upstream catch.
func FitScaler(xs []float64) (*MinMaxScaler, error) {
	if len(xs) == 0 {
		return nil, &models.InsufficientDataError{Have: 0, Need: 1}
	}
	lo, hi := xs[0], xs[0]
	for _, v := range xs[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	sc := &MinMaxScaler{min: lo}
	if hi > lo {
		sc.scale = 1 / (hi - lo)
	}
	return sc, nil
}

func (s *MinMaxScaler) Transform(v float64) float64 {
	return (v - s.min) * s.scale
}

func (s *MinMaxScaler) TransformAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, v := range xs {
		out[i] = s.Transform(v)
	}
	return out
}

func (s *MinMaxScaler) Inverse(v float64) float64 {
	if s.scale == 0 {
		return s.min
	}
	return v/s.scale + s.min
}
