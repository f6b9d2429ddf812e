package models

// Requests for the stocks HTTP endpoints. Defined in domain for consistency
// and reuse across handlers.

// PredictRequest leaves Days and Strategy zero-valued when omitted; the
// forecast use case substitutes the configured defaults.
type PredictRequest struct {
	Ticker   string `param:"ticker" json:"ticker" validate:"required,max=12"`
	Days     int    `query:"days" json:"days" validate:"omitempty,gte=1,lte=365"`
	Strategy string `query:"strategy" json:"strategy" validate:"omitempty,oneof=regression sequence"`
}

type HistoryRequest struct {
	Ticker    string `param:"ticker" json:"ticker" validate:"required,max=12"`
	Timeframe string `query:"timeframe" json:"timeframe" default:"daily" validate:"oneof=daily weekly monthly yearly"`
	Period    string `query:"period" json:"period" default:"5y" validate:"oneof=1d 5d 1mo 3mo 6mo 1y 2y 5y 10y ytd max"`
}

type InfoRequest struct {
	Ticker string `param:"ticker" json:"ticker" validate:"required,max=12"`
}

// SearchRequest allows an empty query; the catalog returns an empty list
// rather than a validation error.
type SearchRequest struct {
	Query string `query:"q" json:"q" validate:"omitempty,max=32"`
}
