// Package visualize renders the forecast chart consumed by the frontend.
// Rendering failures never abort the numeric pipeline; callers log them and
// return the report regardless.
package visualize

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/earlystart/spendcast/internal/report"
)

// Renderer writes forecast charts as PNG files.
type Renderer struct{}

// NewRenderer creates a chart renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render draws the historical spending line, the predicted line with its
// uncertainty band, a monthly income reference line, and a "today" marker,
// then writes the chart to path.
func (r *Renderer) Render(data report.ChartData, path string) error {
	if len(data.Forecast) == 0 {
		return fmt.Errorf("no forecast months to plot")
	}

	histX := make([]time.Time, len(data.Historical))
	histY := make([]float64, len(data.Historical))
	for i, p := range data.Historical {
		histX[i] = p.Date
		histY[i] = p.Value
	}

	fcX := make([]time.Time, len(data.Forecast))
	fcY := make([]float64, len(data.Forecast))
	loY := make([]float64, len(data.Forecast))
	hiY := make([]float64, len(data.Forecast))
	for i, m := range data.Forecast {
		fcX[i] = m.Month
		fcY[i] = m.Predicted
		loY[i] = m.LowerBound
		hiY[i] = m.UpperBound
	}

	// Flat income reference across the full plotted range.
	var incomeX []time.Time
	if len(histX) > 0 {
		incomeX = append(incomeX, histX[0])
	} else {
		incomeX = append(incomeX, fcX[0])
	}
	incomeX = append(incomeX, fcX[len(fcX)-1])
	incomeY := []float64{data.MonthlyIncome, data.MonthlyIncome}

	// Empty series fail go-chart validation, so the historical line is only
	// added when there is history to draw.
	var series []chart.Series
	if len(histX) > 0 {
		series = append(series, chart.TimeSeries{
			Name:    "Historical Spending",
			XValues: histX,
			YValues: histY,
			Style: chart.Style{
				StrokeColor: drawing.ColorBlack,
				StrokeWidth: 2.5,
			},
		})
	}
	series = append(series,
		chart.TimeSeries{
			Name:    "Predicted Spending",
			XValues: fcX,
			YValues: fcY,
			Style: chart.Style{
				StrokeColor:     drawing.ColorBlue,
				StrokeWidth:     2.5,
				StrokeDashArray: []float64{5, 5},
			},
		},
		chart.TimeSeries{
			Name:    "Upper Bound",
			XValues: fcX,
			YValues: hiY,
			Style: chart.Style{
				StrokeColor: drawing.ColorBlue.WithAlpha(80),
				StrokeWidth: 1,
			},
		},
		chart.TimeSeries{
			Name:    "Lower Bound",
			XValues: fcX,
			YValues: loY,
			Style: chart.Style{
				StrokeColor: drawing.ColorBlue.WithAlpha(80),
				StrokeWidth: 1,
			},
		},
		chart.TimeSeries{
			Name:    "Monthly Income",
			XValues: incomeX,
			YValues: incomeY,
			Style: chart.Style{
				StrokeColor:     drawing.ColorGreen,
				StrokeWidth:     2,
				StrokeDashArray: []float64{2, 4},
			},
		},
		chart.AnnotationSeries{
			Annotations: []chart.Value2{
				{
					XValue: chart.TimeToFloat64(data.Today),
					YValue: data.MonthlyIncome,
					Label:  "Today",
				},
			},
		},
	)

	graph := chart.Chart{
		Title:  "12-Month Spending Forecast",
		Width:  1400,
		Height: 700,
		XAxis: chart.XAxis{
			Name: "Month",
		},
		YAxis: chart.YAxis{
			Name: "Monthly Spending",
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}
	f, err := os.Create(path) // #nosec G304 -- path comes from caller config
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
