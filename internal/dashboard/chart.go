package dashboard

import (
	"fmt"
	"html/template"
	"math"
	"strings"

	"StockLens/internal/calculator"
	"StockLens/internal/model"
)

const (
	chartWidth  = 800
	chartHeight = 300
	chartPad    = 40

	// chartMAPeriod is the window of the dashed moving average overlay.
	chartMAPeriod = 50
)

// lineChart draws the selected price of every bar as an inline SVG polyline,
// with a moving average overlay when the series is long enough.
// All coordinates are computed here; no user text reaches the markup.
func lineChart(series *model.PriceSeries) (template.HTML, error) {
	prices := series.Prices()
	if len(prices) < 2 {
		return "", fmt.Errorf("need at least 2 prices, got %d", len(prices))
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range prices {
		lo = math.Min(lo, p)
		hi = math.Max(hi, p)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	plotW := float64(chartWidth - 2*chartPad)
	plotH := float64(chartHeight - 2*chartPad)
	step := plotW / float64(len(prices)-1)

	points := func(vals []float64) string {
		var pts strings.Builder
		for i, v := range vals {
			if math.IsNaN(v) {
				continue
			}
			if pts.Len() > 0 {
				pts.WriteByte(' ')
			}
			fmt.Fprintf(&pts, "%.1f,%.1f", chartPad+float64(i)*step, chartPad+plotH-(v-lo)/span*plotH)
		}
		return pts.String()
	}

	first, last := series.Bars[0].Time, series.Bars[len(series.Bars)-1].Time
	color := "#16a34a"
	if prices[len(prices)-1] < prices[0] {
		color = "#dc2626"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg class="chart" viewBox="0 0 %d %d" role="img" aria-label="%s price">`, chartWidth, chartHeight, template.HTMLEscapeString(series.PriceColumn()))
	fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#cbd5e1"/>`, chartPad, chartHeight-chartPad, chartWidth-chartPad, chartHeight-chartPad)
	fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#cbd5e1"/>`, chartPad, chartPad, chartPad, chartHeight-chartPad)
	fmt.Fprintf(&b, `<polyline fill="none" stroke="%s" stroke-width="1.5" points="%s"/>`, color, points(prices))
	if ma, err := calculator.MovingAverage(prices, chartMAPeriod); err == nil {
		fmt.Fprintf(&b, `<polyline class="ma" fill="none" stroke="#64748b" stroke-width="1" stroke-dasharray="4 3" points="%s"/>`, points(ma))
	}
	fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="11" text-anchor="end">%.2f</text>`, chartPad-4, chartPad+4, hi)
	fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="11" text-anchor="end">%.2f</text>`, chartPad-4, chartHeight-chartPad, lo)
	fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="11">%s</text>`, chartPad, chartHeight-chartPad+16, first.Format(dateLayout))
	fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="11" text-anchor="end">%s</text>`, chartWidth-chartPad, chartHeight-chartPad+16, last.Format(dateLayout))
	b.WriteString(`</svg>`)
	return template.HTML(b.String()), nil
}
