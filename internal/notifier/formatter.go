package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"StockLens/internal/format"
	"StockLens/internal/model"
)

// FormatReport formats one computation pass into a Telegram message.
func FormatReport(r *model.Report) string {
	var b strings.Builder

	name := r.Symbol
	if r.Profile != nil {
		name = r.Profile.DisplayName()
	}
	b.WriteString(fmt.Sprintf("📊 <b>%s</b> (%s)\n", html.EscapeString(name), html.EscapeString(r.Symbol)))
	b.WriteString(fmt.Sprintf("%s → %s\n\n", r.Start.Format("2006-01-02"), r.End.Format("2006-01-02")))

	if day, last, ok := r.Series.LastPrice(); ok {
		currency := ""
		if r.Profile != nil {
			currency = r.Profile.Currency
		}
		b.WriteString(fmt.Sprintf("Last %s: %s (%s)\n", r.Series.PriceColumn(),
			format.Money(model.Float(last), currency), day.Format("2006-01-02")))
	}
	if r.Range != nil {
		b.WriteString(fmt.Sprintf("Range: %.2f – %.2f\n", r.Range.Low, r.Range.High))
	}

	b.WriteString("\n📈 <b>CAGR</b>\n")
	for _, h := range r.Horizons {
		b.WriteString(fmt.Sprintf("  %s: %s\n", h.Label, format.Horizon(h)))
	}
	b.WriteString(fmt.Sprintf("\n〰️ <b>Annualized volatility:</b> %s\n", format.Volatility(r.Volatility)))
	return b.String()
}

// DigestEntry is one watchlist line: a report or the error that prevented it.
type DigestEntry struct {
	Symbol string
	Report *model.Report
	Err    error
}

// FormatDigest formats the watchlist summary sent after the warm-up run.
func FormatDigest(entries []DigestEntry, at time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗂 <b>Watchlist</b> | %s\n\n", at.Format("2006-01-02")))
	for _, e := range entries {
		if e.Err != nil || e.Report == nil {
			b.WriteString(fmt.Sprintf("❌ <b>%s</b>: unavailable\n", html.EscapeString(e.Symbol)))
			continue
		}
		cells := make([]string, 0, len(e.Report.Horizons)+1)
		for _, h := range e.Report.Horizons {
			cells = append(cells, fmt.Sprintf("%dy %s", h.Years, format.Horizon(h)))
		}
		cells = append(cells, "vol "+format.Volatility(e.Report.Volatility))
		b.WriteString(fmt.Sprintf("• <b>%s</b>: %s\n", html.EscapeString(e.Symbol), strings.Join(cells, " | ")))
	}
	return b.String()
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	return "Available commands:\n" +
		"• /metrics TICKER [START] [END] (dates as YYYY-MM-DD)\n" +
		"• /watchlist\n" +
		"• /help"
}
