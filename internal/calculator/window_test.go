package calculator

import (
	"testing"
	"time"

	"StockLens/internal/model"
)

func TestYearsBefore(t *testing.T) {
	tests := []struct {
		in    time.Time
		years int
		want  time.Time
	}{
		{time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC), 1, time.Date(2023, 6, 14, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), 1, time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), 4, time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 12, 31, 16, 0, 0, 0, time.UTC), 5, time.Date(2019, 12, 31, 16, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got := YearsBefore(tt.in, tt.years)
		if !got.Equal(tt.want) {
			t.Errorf("%s - %d years: expected %s, got %s", tt.in, tt.years, tt.want, got)
		}
	}
}

func TestTrailingWindow(t *testing.T) {
	series := &model.PriceSeries{Bars: []model.OHLCV{
		{Time: time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC), Close: 1},
		{Time: time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), Close: 2},
		{Time: time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC), Close: 3},
		{Time: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Close: 4},
	}}
	w := TrailingWindow(series, 1)
	if w.Len() != 3 {
		t.Fatalf("expected 3 bars (boundary inclusive), got %d", w.Len())
	}
	if w.Bars[0].Close != 2 {
		t.Errorf("expected window to start at the 2023-03-01 bar, got close %v", w.Bars[0].Close)
	}
	if series.Len() != 4 {
		t.Errorf("window must not modify the source series")
	}

	if got := TrailingWindow(&model.PriceSeries{}, 1); got.Len() != 0 {
		t.Errorf("expected empty window from empty series, got %d bars", got.Len())
	}
}

func TestCalculatePriceRange(t *testing.T) {
	series := dailySeries(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 10, 14, 8, 12)
	r, err := CalculatePriceRange(series)
	if err != nil {
		t.Fatal(err)
	}
	if r.High != 14 || r.Low != 8 {
		t.Errorf("expected high 14 low 8, got %v %v", r.High, r.Low)
	}
	if r.LowDate.Day() != 3 {
		t.Errorf("expected low on day 3, got %s", r.LowDate)
	}
	pos, err := RangePosition(12, r)
	if err != nil || pos != 4.0/6.0 {
		t.Errorf("expected position 2/3, got %v (%v)", pos, err)
	}
	if _, err := CalculatePriceRange(&model.PriceSeries{}); err == nil {
		t.Error("expected error for empty series")
	}
}
