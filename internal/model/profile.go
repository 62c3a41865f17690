package model

// CompanyProfile is the descriptive and fundamental data shown next to the chart.
// Optional figures are nil when the provider does not report them.
type CompanyProfile struct {
	Symbol        string   `json:"symbol"`
	ShortName     string   `json:"short_name"`
	LongName      string   `json:"long_name"`
	Sector        string   `json:"sector"`
	Industry      string   `json:"industry"`
	Summary       string   `json:"summary"`
	Website       string   `json:"website"`
	LogoURL       string   `json:"logo_url"`
	Currency      string   `json:"currency"`
	CurrentPrice  *float64 `json:"current_price,omitempty"`
	MarketCap     *float64 `json:"market_cap,omitempty"`
	TrailingPE    *float64 `json:"trailing_pe,omitempty"`
	Beta          *float64 `json:"beta,omitempty"`
	DividendYield *float64 `json:"dividend_yield,omitempty"`
	TrailingEPS   *float64 `json:"trailing_eps,omitempty"`
}

// DisplayName returns the long name, falling back to the short name and the symbol.
func (p *CompanyProfile) DisplayName() string {
	switch {
	case p.LongName != "":
		return p.LongName
	case p.ShortName != "":
		return p.ShortName
	default:
		return p.Symbol
	}
}

// Float returns a pointer to v. Providers use it to fill optional figures.
func Float(v float64) *float64 { return &v }
