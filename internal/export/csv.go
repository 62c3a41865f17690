package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"StockLens/internal/model"

	"github.com/shopspring/decimal"
)

// Header is the first CSV row.
var Header = []string{"Date", "Open", "High", "Low", "Close", "Adj Close", "Volume"}

// FileName returns the download name for a symbol's history.
func FileName(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol)) + "_history.csv"
}

// WriteCSV writes one row per bar, oldest first. Prices use the shortest
// decimal form that round-trips; a missing adjusted close is left empty.
func WriteCSV(w io.Writer, series *model.PriceSeries) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if series != nil {
		for _, b := range series.Bars {
			adj := ""
			if b.AdjClose > 0 {
				adj = number(b.AdjClose)
			}
			row := []string{
				b.Time.Format("2006-01-02"),
				number(b.Open),
				number(b.High),
				number(b.Low),
				number(b.Close),
				adj,
				decimal.NewFromFloat(b.Volume).Round(0).String(),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write row %s: %w", row[0], err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func number(v float64) string {
	return decimal.NewFromFloat(v).String()
}
