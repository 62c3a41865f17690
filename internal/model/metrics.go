package model

import (
	"encoding/json"
	"time"
)

// HorizonRate is the growth rate over one trailing horizon.
// Err is set when the rate could not be computed; Rate is then meaningless.
type HorizonRate struct {
	Label string
	Years int
	Rate  float64
	Err   error
}

// OK reports whether the rate was computed.
func (h HorizonRate) OK() bool { return h.Err == nil }

// MarshalJSON encodes a failed horizon with a null rate and its error text.
func (h HorizonRate) MarshalJSON() ([]byte, error) {
	out := struct {
		Label string   `json:"label"`
		Years int      `json:"years"`
		Rate  *float64 `json:"rate"`
		Error string   `json:"error,omitempty"`
	}{Label: h.Label, Years: h.Years}
	if h.Err != nil {
		out.Error = h.Err.Error()
	} else {
		r := h.Rate
		out.Rate = &r
	}
	return json.Marshal(out)
}

// HorizonResult maps horizon labels to growth rates, in horizon order.
type HorizonResult []HorizonRate

// Lookup returns the rate for label.
func (r HorizonResult) Lookup(label string) (HorizonRate, bool) {
	for _, h := range r {
		if h.Label == label {
			return h, true
		}
	}
	return HorizonRate{}, false
}

// VolatilityResult is the annualized volatility of a series.
type VolatilityResult struct {
	Annualized  float64
	TradingDays float64
	Returns     int // number of daily returns used
	Err         error
}

// OK reports whether the volatility was computed.
func (v VolatilityResult) OK() bool { return v.Err == nil }

// MarshalJSON encodes a failed result with a null value and its error text.
func (v VolatilityResult) MarshalJSON() ([]byte, error) {
	out := struct {
		Annualized  *float64 `json:"annualized"`
		TradingDays float64  `json:"trading_days"`
		Returns     int      `json:"returns"`
		Error       string   `json:"error,omitempty"`
	}{TradingDays: v.TradingDays, Returns: v.Returns}
	if v.Err != nil {
		out.Error = v.Err.Error()
	} else {
		a := v.Annualized
		out.Annualized = &a
	}
	return json.Marshal(out)
}

// PriceRange is the highest and lowest selected price over a series.
type PriceRange struct {
	High     float64   `json:"high"`
	HighDate time.Time `json:"high_date"`
	Low      float64   `json:"low"`
	LowDate  time.Time `json:"low_date"`
}

// Report is the outcome of one computation pass for a symbol and date range.
type Report struct {
	ID          string           `json:"id"`
	Symbol      string           `json:"symbol"`
	Start       time.Time        `json:"start"`
	End         time.Time        `json:"end"`
	Profile     *CompanyProfile  `json:"profile"`
	Brief       string           `json:"brief"`
	Series      *PriceSeries     `json:"series"`
	Horizons    HorizonResult    `json:"horizons"`
	Volatility  VolatilityResult `json:"volatility"`
	Range       *PriceRange      `json:"range,omitempty"`
	GeneratedAt time.Time        `json:"generated_at"`
}
