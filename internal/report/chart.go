package report

import (
	"time"

	"github.com/earlystart/spendcast/internal/model"
)

// ChartData carries the intermediate series the visualization collaborator
// plots directly: the historical monthly line, the monthly forecast with its
// uncertainty band, an income reference line, and the "today" marker at the
// last historical date.
type ChartData struct {
	Historical    []model.SeriesPoint
	Forecast      []model.MonthlySummary
	MonthlyIncome float64
	Today         time.Time
}
