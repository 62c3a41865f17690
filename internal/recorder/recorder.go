package recorder

import (
	"time"

	"StockLens/internal/model"
)

// LookupEvent is one computation pass as stored in the lookup history.
// Metric columns are nil when the metric could not be computed.
type LookupEvent struct {
	ID         string   `db:"id" json:"id"`
	Timestamp  int64    `db:"timestamp" json:"timestamp"`
	Source     string   `db:"source" json:"source"` // "dashboard", "cli", "telegram" or "cron"
	Provider   string   `db:"provider" json:"provider"`
	Symbol     string   `db:"symbol" json:"symbol"`
	StartDate  string   `db:"start_date" json:"start_date"`
	EndDate    string   `db:"end_date" json:"end_date"`
	Bars       int      `db:"bars" json:"bars"`
	CAGR1y     *float64 `db:"cagr_1y" json:"cagr_1y"`
	CAGR3y     *float64 `db:"cagr_3y" json:"cagr_3y"`
	CAGR5y     *float64 `db:"cagr_5y" json:"cagr_5y"`
	Volatility *float64 `db:"volatility" json:"volatility"`
	ErrorText  string   `db:"error_text" json:"error,omitempty"`
}

// Time returns the event timestamp.
func (e LookupEvent) Time() time.Time { return time.Unix(e.Timestamp, 0) }

// NewLookupEvent builds the history row for a pass. report may be nil when
// the pass failed before producing one.
func NewLookupEvent(report *model.Report, symbol string, start, end time.Time, source, provider string, passErr error) *LookupEvent {
	evt := &LookupEvent{
		Timestamp: time.Now().Unix(),
		Source:    source,
		Provider:  provider,
		Symbol:    symbol,
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
	}
	if passErr != nil {
		evt.ErrorText = passErr.Error()
	}
	if report == nil {
		return evt
	}
	evt.ID = report.ID
	evt.Bars = report.Series.Len()
	for _, h := range report.Horizons {
		if !h.OK() {
			continue
		}
		switch h.Years {
		case 1:
			evt.CAGR1y = model.Float(h.Rate)
		case 3:
			evt.CAGR3y = model.Float(h.Rate)
		case 5:
			evt.CAGR5y = model.Float(h.Rate)
		}
	}
	if report.Volatility.OK() {
		evt.Volatility = model.Float(report.Volatility.Annualized)
	}
	return evt
}

// Recorder persists the lookup history.
type Recorder interface {
	RecordLookup(evt *LookupEvent) error
	RecentLookups(limit int) ([]LookupEvent, error)
	Close() error
}
