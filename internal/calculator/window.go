package calculator

import (
	"time"

	"StockLens/internal/model"
)

// TrailingWindow returns the bars dated within [latest - years, latest], where
// latest is the date of the series' last bar.
func TrailingWindow(series *model.PriceSeries, years int) *model.PriceSeries {
	latest, ok := series.Latest()
	if !ok {
		return &model.PriceSeries{}
	}
	return series.Since(YearsBefore(latest.Time, years))
}

// YearsBefore moves t back by whole calendar years. When the target month is
// shorter (Feb 29 to a non-leap year) the day is clamped to the month's last
// day instead of overflowing into the next month.
func YearsBefore(t time.Time, years int) time.Time {
	y, m, d := t.Date()
	target := y - years
	if last := daysIn(target, m); d > last {
		d = last
	}
	h, min, s := t.Clock()
	return time.Date(target, m, d, h, min, s, t.Nanosecond(), t.Location())
}

func daysIn(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
