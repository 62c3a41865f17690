package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"StockLens/internal/calculator"
	"StockLens/internal/model"
	"StockLens/internal/recorder"
	"StockLens/internal/translate"

	"github.com/google/uuid"
)

// DefaultBriefLimit is the maximum length of the description shown on the dashboard.
const DefaultBriefLimit = 600

// Collector orchestrates one computation pass: profile, history and metrics.
type Collector struct {
	Fetcher    Fetcher
	Calculator calculator.MetricsCalculator
	Translator translate.Translator
	Target     string // translation language, empty disables translation
	Recorder   recorder.Recorder
	BriefLimit int
}

// NewCollector creates a Collector with the default calculator and no translation.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{
		Fetcher:    fetcher,
		Calculator: calculator.NewCalculator(0, nil),
		Translator: translate.Noop{},
		Recorder:   recorder.NewNoopRecorder(),
		BriefLimit: DefaultBriefLimit,
	}
}

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Collect fetches the profile and history of symbol over [start, end) and
// computes every metric. A metric that cannot be computed is reported in the
// result and does not fail the pass.
func (c *Collector) Collect(ctx context.Context, symbol string, start, end time.Time) (*model.Report, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("collect: empty ticker")
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("collect %s: %w", symbol, ErrInvalidRange)
	}

	profile, err := c.Fetcher.FetchProfile(ctx, symbol)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("fetch profile %s: %w", symbol, err)
	case err != nil:
		// The chart request decides whether the ticker exists.
		log.Printf("[WARN] profile for %s unavailable: %v", symbol, err)
		profile = &model.CompanyProfile{Symbol: symbol, ShortName: symbol}
	}
	profile.LogoURL = ResolveLogoURL(profile)

	series, err := c.Fetcher.FetchHistory(ctx, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch history %s: %w", symbol, err)
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("history %s: %v: %w", symbol, err, calculator.ErrMalformedInput)
	}

	report := &model.Report{
		ID:          uuid.NewString(),
		Symbol:      symbol,
		Start:       start,
		End:         end,
		Series:      series,
		GeneratedAt: time.Now(),
	}
	report.Profile, report.Brief = c.localize(ctx, profile)

	calc := c.Calculator
	if calc == nil {
		calc = calculator.NewCalculator(0, nil)
	}
	report.Horizons = calc.Horizons(series)
	for _, h := range report.Horizons {
		if !h.OK() {
			log.Printf("[WARN] %s CAGR %s: %v", symbol, h.Label, h.Err)
		}
	}
	report.Volatility = calc.Volatility(series)
	if !report.Volatility.OK() {
		log.Printf("[WARN] %s volatility: %v", symbol, report.Volatility.Err)
	}
	if r, err := calc.Range(series); err != nil {
		log.Printf("[WARN] %s price range: %v", symbol, err)
	} else {
		report.Range = r
	}

	return report, nil
}

// localize translates the descriptive profile fields and builds the brief
// description. The whole summary is translated before it is shortened, so the
// brief respects the limit in the target language. Each field falls back to
// its original text independently.
func (c *Collector) localize(ctx context.Context, p *model.CompanyProfile) (*model.CompanyProfile, string) {
	limit := c.BriefLimit
	if limit <= 0 {
		limit = DefaultBriefLimit
	}
	out := *p
	out.LongName = translate.OrOriginal(ctx, c.Translator, p.LongName, c.Target)
	out.Sector = translate.OrOriginal(ctx, c.Translator, p.Sector, c.Target)
	out.Industry = translate.OrOriginal(ctx, c.Translator, p.Industry, c.Target)
	summary := translate.OrOriginal(ctx, c.Translator, p.Summary, c.Target)
	return &out, translate.Brief(summary, limit)
}

// Run performs Collect and records the outcome in the lookup history.
// Recording failures are logged only.
func (c *Collector) Run(ctx context.Context, source, symbol string, start, end time.Time) (*model.Report, error) {
	report, err := c.Collect(ctx, symbol, start, end)
	if c.Recorder != nil {
		evt := recorder.NewLookupEvent(report, NormalizeSymbol(symbol), start, end, source, c.Fetcher.Name(), err)
		if rerr := c.Recorder.RecordLookup(evt); rerr != nil {
			log.Printf("[WARN] record lookup %s: %v", evt.Symbol, rerr)
		}
	}
	return report, err
}

// UserMessage turns a pass error into the message shown to users.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "The ticker does not exist or no information is available for it."
	case errors.Is(err, ErrInvalidRange):
		return "The start date must be before the end date."
	case errors.Is(err, ErrNoData):
		return "No price data is available for the selected range."
	default:
		return "Could not retrieve the data. Error: " + err.Error()
	}
}
