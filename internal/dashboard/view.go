package dashboard

import (
	"html/template"
	"log"
	"net/url"
	"strconv"

	"StockLens/internal/calculator"
	"StockLens/internal/format"
	"StockLens/internal/model"
)

const (
	recentLimit = 10
	tableRows   = 10
)

type tile struct {
	Label string
	Value string
}

type barRow struct {
	Date, Open, High, Low, Close, AdjClose, Volume string
}

type horizonRow struct {
	Label string
	Value string
	OK    bool
}

type recentRow struct {
	Time, Symbol, Range, CAGR1y, Volatility, Error string
	Link                                           string
}

// pageData is everything the page template shows.
type pageData struct {
	Ticker string
	Start  string
	End    string
	Info   string
	Error  string

	Report      *model.Report
	Name        string
	Sector      string
	Industry    string
	Brief       string
	LogoURL     string
	Tiles       []tile
	PriceColumn string
	Rows        []barRow
	Chart       template.HTML
	Horizons    []horizonRow
	Volatility  string
	Range       string
	RangePos    string
	CSVURL      string
	Explainer   template.HTML

	Recent []recentRow
}

func (s *Server) newPage(q query) *pageData {
	return &pageData{
		Ticker:    q.Ticker,
		Start:     q.Start.Format(dateLayout),
		End:       q.End.Format(dateLayout),
		Explainer: s.explainer,
	}
}

// fill copies a report into the page in display form.
func (p *pageData) fill(r *model.Report) {
	p.Report = r
	prof := r.Profile
	if prof == nil {
		prof = &model.CompanyProfile{Symbol: r.Symbol}
	}
	p.Name = prof.DisplayName()
	p.Sector = orNA(prof.Sector)
	p.Industry = orNA(prof.Industry)
	p.Brief = r.Brief
	p.LogoURL = prof.LogoURL

	p.Tiles = []tile{
		{"Current price", format.Money(prof.CurrentPrice, prof.Currency)},
		{"Market cap", format.Money(prof.MarketCap, prof.Currency)},
		{"P/E (TTM)", format.Number(prof.TrailingPE)},
		{"Beta", format.Number(prof.Beta)},
		{"Dividend yield", format.OptPercent(prof.DividendYield)},
		{"EPS (TTM)", format.Number(prof.TrailingEPS)},
	}

	p.PriceColumn = r.Series.PriceColumn()
	tail := r.Series.Tail(tableRows)
	// newest first
	for i := len(tail) - 1; i >= 0; i-- {
		b := tail[i]
		adj := format.NA
		if b.AdjClose > 0 {
			adj = fmtPrice(b.AdjClose)
		}
		p.Rows = append(p.Rows, barRow{
			Date:     b.Time.Format(dateLayout),
			Open:     fmtPrice(b.Open),
			High:     fmtPrice(b.High),
			Low:      fmtPrice(b.Low),
			Close:    fmtPrice(b.Close),
			AdjClose: adj,
			Volume:   strconv.FormatFloat(b.Volume, 'f', 0, 64),
		})
	}

	chart, err := lineChart(r.Series)
	if err != nil {
		log.Printf("[WARN] chart %s: %v", r.Symbol, err)
	}
	p.Chart = chart

	for _, h := range r.Horizons {
		p.Horizons = append(p.Horizons, horizonRow{Label: h.Label, Value: format.Horizon(h), OK: h.OK()})
	}
	p.Volatility = format.Volatility(r.Volatility)
	if r.Range != nil {
		p.Range = fmtPrice(r.Range.Low) + " – " + fmtPrice(r.Range.High)
		if _, last, ok := r.Series.LastPrice(); ok {
			if pos, err := calculator.RangePosition(last, r.Range); err == nil {
				p.RangePos = format.Percent(pos)
			}
		}
	} else {
		p.Range = format.NA
	}

	v := url.Values{}
	v.Set("ticker", r.Symbol)
	v.Set("start", p.Start)
	v.Set("end", p.End)
	p.CSVURL = "/report.csv?" + v.Encode()
}

func (s *Server) recent() []recentRow {
	lookups, err := s.Recorder.RecentLookups(recentLimit)
	if err != nil {
		log.Printf("[WARN] recent lookups: %v", err)
		return nil
	}
	rows := make([]recentRow, 0, len(lookups))
	for _, l := range lookups {
		v := url.Values{}
		v.Set("ticker", l.Symbol)
		v.Set("start", l.StartDate)
		v.Set("end", l.EndDate)
		rows = append(rows, recentRow{
			Time:       l.Time().Format("2006-01-02 15:04"),
			Symbol:     l.Symbol,
			Range:      l.StartDate + " → " + l.EndDate,
			CAGR1y:     format.OptPercent(l.CAGR1y),
			Volatility: format.OptPercent(l.Volatility),
			Error:      l.ErrorText,
			Link:       "/report?" + v.Encode(),
		})
	}
	return rows
}

func fmtPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func orNA(s string) string {
	if s == "" {
		return format.NA
	}
	return s
}
