// Package series converts raw transaction records into the complete,
// gap-free daily spending series the forecast model requires.
package series

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/earlystart/spendcast/internal/common"
	"github.com/earlystart/spendcast/internal/model"
)

// IsPayment reports whether a category label marks a credit-card payment
// entry. Payments are money movement, not spending, and are excluded from
// all analysis.
func IsPayment(category string) bool {
	return strings.Contains(strings.ToLower(category), "payment")
}

// Clean drops payment rows and rows with non-positive amounts or zero dates,
// returning a new slice. Input is never mutated.
func Clean(txns []model.Transaction) ([]model.Transaction, error) {
	out := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.Date.IsZero() {
			return nil, fmt.Errorf("%w: transaction %q has no date", common.ErrInvalidDate, t.Name)
		}
		if t.Amount <= 0 {
			continue
		}
		if IsPayment(t.Category) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// Normalize produces the gap-free daily series for a set of transactions:
// exact (date, amount) duplicates collapse to one contribution, same-day
// transactions coalesce by summing, and every calendar day between the first
// and last observed date is present, with zero for days that had no
// transactions. Zero-filling matters: the model must see "no spend" as a
// value, not as missing data, or weekly patterns are detected from a biased
// sample.
func Normalize(txns []model.Transaction) ([]model.SeriesPoint, error) {
	cleaned, err := Clean(txns)
	if err != nil {
		return nil, err
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: nothing left after cleaning %d records", common.ErrEmptyInput, len(txns))
	}

	type dayAmount struct {
		day    time.Time
		amount float64
	}
	seen := make(map[dayAmount]bool)
	daily := make(map[time.Time]float64)
	var minDay, maxDay time.Time

	for _, t := range cleaned {
		key := dayAmount{day: t.Day(), amount: t.Amount}
		if seen[key] {
			continue
		}
		seen[key] = true

		daily[key.day] += t.Amount
		if minDay.IsZero() || key.day.Before(minDay) {
			minDay = key.day
		}
		if key.day.After(maxDay) {
			maxDay = key.day
		}
	}

	span := int(maxDay.Sub(minDay).Hours()/24) + 1
	points := make([]model.SeriesPoint, 0, span)
	for d := minDay; !d.After(maxDay); d = d.AddDate(0, 0, 1) {
		points = append(points, model.SeriesPoint{Date: d, Value: daily[d]})
	}

	slog.Debug("normalized transaction series",
		"transactions", len(cleaned),
		"days", len(points),
		"start", minDay.Format("2006-01-02"),
		"end", maxDay.Format("2006-01-02"))

	return points, nil
}

// NonZeroMean returns the mean of strictly positive daily values. Zero days
// represent "no transaction", not a true zero trend, so they are excluded
// from the cap basis.
func NonZeroMean(points []model.SeriesPoint) float64 {
	var sum float64
	var n int
	for _, p := range points {
		if p.Value > 0 {
			sum += p.Value
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// SortByDate orders transactions ascending by date, stable for equal dates.
func SortByDate(txns []model.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.Before(txns[j].Date)
	})
}
