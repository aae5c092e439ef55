package models

// Requests for the profile/regime HTTP endpoints. Defined in domain for
// consistency and reuse.

type ProfileRequest struct {
	Symbol      string  `query:"symbol" json:"symbol" validate:"required"`
	Date        string  `query:"date" json:"date" validate:"required,datetime=2006-01-02"`
	Granularity float64 `query:"granularity" json:"granularity" default:"0.01" validate:"oneof=0.001 0.005 0.01 0.02 0.05 0.1 0.25"`
	Mode        string  `query:"mode" json:"mode" default:"count" validate:"oneof=count volume"`
}

type TPORequest struct {
	Symbol      string  `query:"symbol" json:"symbol" validate:"required"`
	Date        string  `query:"date" json:"date" validate:"required,datetime=2006-01-02"`
	Granularity float64 `query:"granularity" json:"granularity" default:"0.01" validate:"gt=0"`
}

type RegimeRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	From   string `query:"from" json:"from" validate:"required,datetime=2006-01-02"`
	To     string `query:"to" json:"to" validate:"required,datetime=2006-01-02"`
	MaxLag int    `query:"max_lag" json:"max_lag" default:"100" validate:"gte=10,lte=1000"`
}

type VolatilityRequest struct {
	Symbol   string `query:"symbol" json:"symbol" validate:"required"`
	Sessions int    `query:"sessions" json:"sessions" default:"240" validate:"gte=1,lte=2000"`
	AsOf     string `query:"as_of" json:"as_of" validate:"omitempty"`
}
