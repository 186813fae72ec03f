package model

import "time"

// SeriesPoint is one calendar day's aggregate spend in a gap-free daily
// series. Days without transactions carry a zero value.
type SeriesPoint struct {
	Date  time.Time
	Value float64
}

// ForecastPoint is one day's model output, historical or future.
type ForecastPoint struct {
	Date       time.Time
	Predicted  float64
	LowerBound float64
	UpperBound float64
}

// MonthlySummary aggregates forecast points into one calendar month.
type MonthlySummary struct {
	Month      time.Time
	Predicted  float64
	LowerBound float64
	UpperBound float64
}

// CategoryStat summarizes historical spending for one category label.
type CategoryStat struct {
	Total             float64 `json:"total"`
	Count             int     `json:"count"`
	AvgPerTransaction float64 `json:"avg_per_transaction"`
}
