package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/piewatch/internal/models"
)

// RenderHistoryChart renders a PNG line chart of the daily snapshots.
// Three series: account total (blue), AI pie (amber) and OuterLimits pie (green).
// Returns raw PNG bytes.
func RenderHistoryChart(days []models.DailySnapshot, opts Options) ([]byte, error) {
	xValues := make([]time.Time, 0, len(days))
	totalY := make([]float64, 0, len(days))
	aiY := make([]float64, 0, len(days))
	olY := make([]float64, 0, len(days))

	for _, d := range days {
		date, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			continue
		}
		xValues = append(xValues, date)
		totalY = append(totalY, d.Total)
		aiY = append(aiY, d.AIValue)
		olY = append(olY, d.OLValue)
	}

	if len(xValues) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(xValues))
	}

	series := func(name, hex string, width float64, y []float64) chart.TimeSeries {
		return chart.TimeSeries{
			Name: name,
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex(hex),
				StrokeWidth: width,
			},
			XValues: xValues,
			YValues: y,
		}
	}

	graph := chart.Chart{
		Title:  "Value History",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("02 Jan")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%s%.0f", opts.CurrencySymbol, f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			series("Total", "2563eb", 2.5, totalY),     // blue-600
			series(opts.Labels.AI, "d97706", 1.5, aiY), // amber-600
			series(opts.Labels.OuterLimits, "059669", 1.5, olY),
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
