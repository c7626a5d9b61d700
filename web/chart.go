package web

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"github.com/ycheng/folio"
)

// maxChartPoints bounds how much history a chart renders.
const maxChartPoints = 90

// chartData extracts the tail of the ledger as chartable series.
func chartData(h *folio.History) (dates []time.Time, totals, returns []float64) {
	records := h.Records()
	if len(records) > maxChartPoints {
		records = records[len(records)-maxChartPoints:]
	}
	for _, rec := range records {
		dates = append(dates, rec.Date.Time())
		totals = append(totals, rec.TotalUSD.AsFloat())
		returns = append(returns, float64(rec.DailyReturn))
	}
	return dates, totals, returns
}

// RenderValueChart renders the USD total time series as a PNG line
// chart. It needs at least 2 rows of history.
func RenderValueChart(h *folio.History) ([]byte, error) {
	dates, totals, _ := chartData(h)
	if len(dates) < 2 {
		return nil, fmt.Errorf("need at least 2 history rows, got %d", len(dates))
	}

	graph := chart.Chart{
		Title:  "Total value (USD)",
		Width:  900,
		Height: 360,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "Total USD",
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("2563eb"),
					StrokeWidth: 2.5,
				},
				XValues: dates,
				YValues: totals,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("cannot render value chart: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderReturnChart renders the daily return series as a PNG line
// chart. It needs at least 2 rows of history.
func RenderReturnChart(h *folio.History) ([]byte, error) {
	dates, _, returns := chartData(h)
	if len(dates) < 2 {
		return nil, fmt.Errorf("need at least 2 history rows, got %d", len(dates))
	}

	graph := chart.Chart{
		Title:  "Daily return (%)",
		Width:  900,
		Height: 280,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f%%", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "Daily return",
				Style: chart.Style{
					StrokeColor:     drawing.ColorFromHex("9ca3af"),
					StrokeWidth:     1.5,
					StrokeDashArray: []float64{5.0, 3.0},
				},
				XValues: dates,
				YValues: returns,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("cannot render return chart: %w", err)
	}
	return buf.Bytes(), nil
}
