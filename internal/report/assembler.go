// Package report assembles pipeline output into the canonical report
// structure and its serialized form. Pure assembly; all computation happens
// upstream.
package report

import (
	"encoding/json"
	"math"
	"time"

	"github.com/earlystart/spendcast/internal/model"
)

// DateLayout is the serialized form of all calendar dates.
const DateLayout = "2006-01-02"

// TimestampLayout is the serialized form of the generation timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// Round2 rounds a monetary value to two decimal places. Applied only at the
// point of output.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Assemble combines the future daily points, scalar summary, and category
// table into one immutable Report. The forecast arrays carry the daily
// future points; their length is the realized horizon.
func Assemble(future []model.ForecastPoint, sum model.Summary, cats map[string]model.CategoryStat, now time.Time) *model.Report {
	fs := model.ForecastSeries{
		Dates:      make([]string, len(future)),
		Predicted:  make([]float64, len(future)),
		LowerBound: make([]float64, len(future)),
		UpperBound: make([]float64, len(future)),
	}
	for i, p := range future {
		fs.Dates[i] = p.Date.Format(DateLayout)
		fs.Predicted[i] = Round2(p.Predicted)
		fs.LowerBound[i] = Round2(p.LowerBound)
		fs.UpperBound[i] = Round2(p.UpperBound)
	}

	rounded := make(map[string]model.CategoryStat, len(cats))
	for label, s := range cats {
		rounded[label] = model.CategoryStat{
			Total:             Round2(s.Total),
			Count:             s.Count,
			AvgPerTransaction: Round2(s.AvgPerTransaction),
		}
	}

	return &model.Report{
		Forecast: fs,
		Summary: model.Summary{
			TotalPredictedSpending1Yr: Round2(sum.TotalPredictedSpending1Yr),
			AnnualIncome:              Round2(sum.AnnualIncome),
			ProjectedSavings:          Round2(sum.ProjectedSavings),
			SavingsRate:               Round2(sum.SavingsRate),
			AvgMonthlySpending:        Round2(sum.AvgMonthlySpending),
		},
		Categories: rounded,
		Metadata: model.Metadata{
			GeneratedAt:     now.Format(TimestampLayout),
			ForecastDays:    len(future),
			DataAggregation: "daily",
		},
	}
}

// MarshalJSON renders a report as indented canonical JSON.
func MarshalJSON(r *model.Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
