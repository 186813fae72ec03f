package visualize

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earlystart/spendcast/internal/model"
	"github.com/earlystart/spendcast/internal/report"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func testChartData() report.ChartData {
	hist := []model.SeriesPoint{
		{Date: month(2024, 7), Value: 1850},
		{Date: month(2024, 8), Value: 2100},
		{Date: month(2024, 9), Value: 1920},
	}
	fc := make([]model.MonthlySummary, 12)
	for i := range fc {
		fc[i] = model.MonthlySummary{
			Month:      month(2024, 10).AddDate(0, i, 0),
			Predicted:  2000,
			LowerBound: 1600,
			UpperBound: 2400,
		}
	}
	return report.ChartData{
		Historical:    hist,
		Forecast:      fc,
		MonthlyIncome: 3000,
		Today:         time.Date(2024, 9, 28, 0, 0, 0, 0, time.UTC),
	}
}

func TestRenderer_WritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts", "forecast_plot.png")

	require.NoError(t, NewRenderer().Render(testChartData(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "output is a PNG file")
}

func TestRenderer_NoForecastMonths(t *testing.T) {
	data := testChartData()
	data.Forecast = nil

	err := NewRenderer().Render(data, filepath.Join(t.TempDir(), "chart.png"))
	require.Error(t, err)
}

func TestRenderer_NoHistoricalStillRenders(t *testing.T) {
	data := testChartData()
	data.Historical = nil
	path := filepath.Join(t.TempDir(), "chart.png")

	require.NoError(t, NewRenderer().Render(data, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
