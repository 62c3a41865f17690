package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"StockLens/internal/collector"
	"StockLens/internal/format"
	"StockLens/internal/model"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

type metricsCmd struct {
	start string
	end   string
	raw   bool
}

func (*metricsCmd) Name() string     { return "metrics" }
func (*metricsCmd) Synopsis() string { return "compute CAGR and volatility for a ticker" }
func (*metricsCmd) Usage() string {
	return `stocklens metrics [-start <date>] [-end <date>] [-raw] TICKER

  Runs one lookup and prints the report. Dates are YYYY-MM-DD; the end date
  is exclusive and defaults to today.
`
}

func (c *metricsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "start", collector.DefaultStart.Format(dateLayout), "First day of the range")
	f.StringVar(&c.end, "end", "", "Day after the last day of the range (default today)")
	f.BoolVar(&c.raw, "raw", false, "Print markdown instead of rendering it for the terminal")
}

func (c *metricsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "expected exactly one ticker")
		return subcommands.ExitUsageError
	}
	start, end, err := parseRange(c.start, c.end, time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	report, err := a.Collector.Run(ctx, "cli", f.Arg(0), start, end)
	if err != nil {
		fmt.Fprintln(os.Stderr, collector.UserMessage(err))
		return subcommands.ExitFailure
	}

	md := markdownReport(report)
	if c.raw {
		fmt.Print(md)
		return subcommands.ExitSuccess
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error creating renderer:", err)
		return subcommands.ExitFailure
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error rendering report:", err)
		return subcommands.ExitFailure
	}
	fmt.Print(out)
	return subcommands.ExitSuccess
}

// markdownReport lays a report out as markdown for terminal rendering.
func markdownReport(r *model.Report) string {
	var b strings.Builder
	p := r.Profile
	if p == nil {
		p = &model.CompanyProfile{Symbol: r.Symbol}
	}

	fmt.Fprintf(&b, "# %s (%s)\n\n", p.DisplayName(), r.Symbol)
	if p.Sector != "" || p.Industry != "" {
		fmt.Fprintf(&b, "*%s · %s*\n\n", orNA(p.Sector), orNA(p.Industry))
	}
	if r.Brief != "" {
		fmt.Fprintf(&b, "%s\n\n", r.Brief)
	}
	fmt.Fprintf(&b, "Range: %s to %s\n\n", r.Start.Format(dateLayout), r.End.Format(dateLayout))

	b.WriteString("| Indicator | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Current price | %s |\n", format.Money(p.CurrentPrice, p.Currency))
	fmt.Fprintf(&b, "| Market cap | %s |\n", format.Compact(p.MarketCap))
	fmt.Fprintf(&b, "| P/E (TTM) | %s |\n", format.Number(p.TrailingPE))
	fmt.Fprintf(&b, "| Beta | %s |\n", format.Number(p.Beta))
	fmt.Fprintf(&b, "| Dividend yield | %s |\n", format.OptPercent(p.DividendYield))
	fmt.Fprintf(&b, "| EPS (TTM) | %s |\n\n", format.Number(p.TrailingEPS))

	b.WriteString("## Growth\n\n| Horizon | CAGR |\n|---|---|\n")
	for _, h := range r.Horizons {
		fmt.Fprintf(&b, "| %s | %s |\n", h.Label, format.Horizon(h))
	}
	fmt.Fprintf(&b, "\n**Annualized volatility:** %s\n\n", format.Volatility(r.Volatility))

	fmt.Fprintf(&b, "## Latest prices (%s)\n\n", r.Series.PriceColumn())
	b.WriteString("| Date | Open | High | Low | Close | Adj Close | Volume |\n|---|---|---|---|---|---|---|\n")
	tail := r.Series.Tail(10)
	for i := len(tail) - 1; i >= 0; i-- {
		bar := tail[i]
		adj := format.NA
		if bar.AdjClose > 0 {
			adj = fmt.Sprintf("%.2f", bar.AdjClose)
		}
		fmt.Fprintf(&b, "| %s | %.2f | %.2f | %.2f | %.2f | %s | %.0f |\n",
			bar.Time.Format(dateLayout), bar.Open, bar.High, bar.Low, bar.Close, adj, bar.Volume)
	}
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return format.NA
	}
	return s
}
