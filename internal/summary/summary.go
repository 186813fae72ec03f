// Package summary rolls daily forecasts into monthly totals and computes the
// savings and category metrics a report presents.
package summary

import (
	"sort"
	"time"

	"github.com/earlystart/spendcast/internal/model"
	"github.com/earlystart/spendcast/internal/series"
)

// MaxMonths caps the monthly table regardless of horizon length.
const MaxMonths = 12

// MonthsPerYear converts monthly income to annual.
const MonthsPerYear = 12

// FuturePoints selects forecast points strictly after lastHistorical, at most
// maxDays of them.
func FuturePoints(points []model.ForecastPoint, lastHistorical time.Time, maxDays int) []model.ForecastPoint {
	out := make([]model.ForecastPoint, 0, maxDays)
	for _, p := range points {
		if !p.Date.After(lastHistorical) {
			continue
		}
		out = append(out, p)
		if len(out) == maxDays {
			break
		}
	}
	return out
}

// Monthly groups forecast points by calendar month, summing all three bounds,
// and truncates to the first MaxMonths months in chronological order. No
// rounding happens here; rounding before summation would compound error.
func Monthly(points []model.ForecastPoint) []model.MonthlySummary {
	byMonth := make(map[time.Time]*model.MonthlySummary)
	for _, p := range points {
		key := time.Date(p.Date.Year(), p.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		m, ok := byMonth[key]
		if !ok {
			m = &model.MonthlySummary{Month: key}
			byMonth[key] = m
		}
		m.Predicted += p.Predicted
		m.LowerBound += p.LowerBound
		m.UpperBound += p.UpperBound
	}

	months := make([]model.MonthlySummary, 0, len(byMonth))
	for _, m := range byMonth {
		months = append(months, *m)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month.Before(months[j].Month)
	})
	if len(months) > MaxMonths {
		months = months[:MaxMonths]
	}
	return months
}

// Compute derives the scalar metrics from the monthly table and a monthly
// income. Zero income is a valid input ("unknown/unemployed") and yields a
// savings rate of exactly zero rather than an error or NaN.
func Compute(months []model.MonthlySummary, monthlyIncome float64) model.Summary {
	var total float64
	for _, m := range months {
		total += m.Predicted
	}

	var avg float64
	if len(months) > 0 {
		avg = total / float64(len(months))
	}

	annual := monthlyIncome * MonthsPerYear
	savings := annual - total

	var rate float64
	if annual > 0 {
		rate = savings / annual * 100
	}

	return model.Summary{
		TotalPredictedSpending1Yr: total,
		AnnualIncome:              annual,
		ProjectedSavings:          savings,
		SavingsRate:               rate,
		AvgMonthlySpending:        avg,
	}
}

// Categories builds the per-category table from historical transactions.
// Payment rows are excluded; labels are used as-is, no canonicalization.
func Categories(txns []model.Transaction) map[string]model.CategoryStat {
	totals := make(map[string]float64)
	counts := make(map[string]int)
	for _, t := range txns {
		if t.Amount <= 0 || series.IsPayment(t.Category) {
			continue
		}
		cat := t.Category
		if cat == "" {
			cat = model.DefaultCategory
		}
		totals[cat] += t.Amount
		counts[cat]++
	}

	stats := make(map[string]model.CategoryStat, len(totals))
	for cat, total := range totals {
		stats[cat] = model.CategoryStat{
			Total:             total,
			Count:             counts[cat],
			AvgPerTransaction: total / float64(counts[cat]),
		}
	}
	return stats
}

// HistoricalMonthly aggregates historical transactions by calendar month for
// the chart's historical line. Payment rows are excluded to match the series
// the model was fit on.
func HistoricalMonthly(txns []model.Transaction) []model.SeriesPoint {
	byMonth := make(map[time.Time]float64)
	for _, t := range txns {
		if t.Amount <= 0 || series.IsPayment(t.Category) {
			continue
		}
		key := time.Date(t.Date.Year(), t.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		byMonth[key] += t.Amount
	}

	points := make([]model.SeriesPoint, 0, len(byMonth))
	for m, v := range byMonth {
		points = append(points, model.SeriesPoint{Date: m, Value: v})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}
