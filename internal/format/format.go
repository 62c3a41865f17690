// Package format renders metric values for people: percentages with two
// decimals, money with currency symbols and "N/A" for missing figures.
package format

import (
	"errors"
	"fmt"
	"math"

	"StockLens/internal/calculator"
	"StockLens/internal/model"

	"github.com/Rhymond/go-money"
)

// NA is shown in place of a missing figure.
const NA = "N/A"

// InsufficientData is shown for a horizon the history does not cover.
const InsufficientData = "Insufficient data"

// Percent renders a fraction as a percentage with two decimals (0.1234 -> "12.34%").
func Percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

// OptPercent renders an optional fraction as a percentage.
func OptPercent(v *float64) string {
	if !valid(v) {
		return NA
	}
	return Percent(*v)
}

// Number renders an optional figure with two decimals.
func Number(v *float64) string {
	if !valid(v) {
		return NA
	}
	return fmt.Sprintf("%.2f", *v)
}

// Money renders an optional amount in the given ISO currency. Unknown
// currencies are shown as USD.
func Money(v *float64, currency string) string {
	if !valid(v) {
		return NA
	}
	if currency == "" || money.GetCurrency(currency) == nil {
		currency = money.USD
	}
	return money.New(int64(math.Round(*v*100)), currency).Display()
}

// Compact renders a large amount with a T/B/M suffix, e.g. "2.95T".
func Compact(v *float64) string {
	if !valid(v) {
		return NA
	}
	n := *v
	switch abs := math.Abs(n); {
	case abs >= 1e12:
		return fmt.Sprintf("%.2fT", n/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("%.2fB", n/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.2fM", n/1e6)
	default:
		return fmt.Sprintf("%.0f", n)
	}
}

// Horizon renders a growth rate or the reason it is missing.
func Horizon(h model.HorizonRate) string {
	switch {
	case h.OK():
		return Percent(h.Rate)
	case errors.Is(h.Err, calculator.ErrInsufficientData):
		return InsufficientData
	default:
		return NA
	}
}

// Volatility renders the annualized volatility or the reason it is missing.
func Volatility(v model.VolatilityResult) string {
	switch {
	case v.OK():
		return Percent(v.Annualized)
	case errors.Is(v.Err, calculator.ErrInsufficientData):
		return InsufficientData
	default:
		return NA
	}
}

func valid(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
