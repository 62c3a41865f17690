package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"StockLens/internal/collector"
	"StockLens/internal/export"

	"github.com/google/subcommands"
)

type exportCmd struct {
	start  string
	end    string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "download the daily history of a ticker as CSV" }
func (*exportCmd) Usage() string {
	return `stocklens export [-start <date>] [-end <date>] [-o <file>] TICKER

  Writes Date,Open,High,Low,Close,Adj Close,Volume rows. Use -o - for stdout;
  the default file name is TICKER_history.csv.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "start", collector.DefaultStart.Format(dateLayout), "First day of the range")
	f.StringVar(&c.end, "end", "", "Day after the last day of the range (default today)")
	f.StringVar(&c.output, "o", "", "Output file, - for stdout")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "expected exactly one ticker")
		return subcommands.ExitUsageError
	}
	symbol := collector.NormalizeSymbol(f.Arg(0))
	start, end, err := parseRange(c.start, c.end, time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if !start.Before(end) {
		fmt.Fprintln(os.Stderr, collector.UserMessage(collector.ErrInvalidRange))
		return subcommands.ExitUsageError
	}

	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	series, err := a.Collector.Fetcher.FetchHistory(ctx, symbol, start, end)
	if err != nil {
		fmt.Fprintln(os.Stderr, collector.UserMessage(err))
		return subcommands.ExitFailure
	}

	output := c.output
	if output == "" {
		output = export.FileName(symbol)
	}
	var w io.Writer = os.Stdout
	if output != "-" {
		file, err := os.Create(output)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error creating file:", err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		w = file
	}
	if err := export.WriteCSV(w, series); err != nil {
		fmt.Fprintln(os.Stderr, "Error writing CSV:", err)
		return subcommands.ExitFailure
	}
	if output != "-" {
		fmt.Fprintf(os.Stderr, "%d rows written to %s\n", series.Len(), output)
	}
	return subcommands.ExitSuccess
}
