package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earlystart/spendcast/internal/model"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.005, 1.0},
		{1.015, 1.01},
		{2.675, 2.67},
		{10.999, 11.0},
		{-3.456, -3.46},
		{0, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Round2(tt.in), 1e-9, "Round2(%v)", tt.in)
	}
}

func TestAssemble(t *testing.T) {
	start := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	future := []model.ForecastPoint{
		{Date: start, Predicted: 45.5055, LowerBound: 30.121, UpperBound: 60.989},
		{Date: start.AddDate(0, 0, 1), Predicted: 52.333, LowerBound: 41.111, UpperBound: 63.777},
	}
	sum := model.Summary{
		TotalPredictedSpending1Yr: 24000.456,
		AnnualIncome:              36000,
		ProjectedSavings:          11999.544,
		SavingsRate:               33.33206,
		AvgMonthlySpending:        2000.038,
	}
	cats := map[string]model.CategoryStat{
		"groceries": {Total: 820.456, Count: 14, AvgPerTransaction: 58.604},
	}
	now := time.Date(2024, 10, 2, 15, 4, 5, 0, time.UTC)

	r := Assemble(future, sum, cats, now)

	require.Len(t, r.Forecast.Dates, 2)
	assert.Equal(t, "2024-10-01", r.Forecast.Dates[0])
	assert.Equal(t, "2024-10-02", r.Forecast.Dates[1])
	assert.Equal(t, 45.51, r.Forecast.Predicted[0])
	assert.Equal(t, 30.12, r.Forecast.LowerBound[0])
	assert.Equal(t, 60.99, r.Forecast.UpperBound[0])

	assert.Equal(t, 24000.46, r.Summary.TotalPredictedSpending1Yr)
	assert.Equal(t, 36000.0, r.Summary.AnnualIncome)
	assert.Equal(t, 11999.54, r.Summary.ProjectedSavings)
	assert.Equal(t, 33.33, r.Summary.SavingsRate)

	assert.Equal(t, 820.46, r.Categories["groceries"].Total)
	assert.Equal(t, 14, r.Categories["groceries"].Count)
	assert.Equal(t, 58.6, r.Categories["groceries"].AvgPerTransaction)

	assert.Equal(t, "2024-10-02 15:04:05", r.Metadata.GeneratedAt)
	assert.Equal(t, 2, r.Metadata.ForecastDays)
}

func TestMarshalJSON_Shape(t *testing.T) {
	start := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	r := Assemble(
		[]model.ForecastPoint{{Date: start, Predicted: 10, LowerBound: 5, UpperBound: 15}},
		model.Summary{AnnualIncome: 36000},
		map[string]model.CategoryStat{"other": {Total: 10, Count: 1, AvgPerTransaction: 10}},
		time.Now(),
	)

	data, err := MarshalJSON(r)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"forecast", "summary", "categories", "metadata"} {
		assert.Contains(t, decoded, key)
	}

	var fc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(decoded["forecast"], &fc))
	for _, key := range []string{"dates", "predicted", "lower_bound", "upper_bound"} {
		assert.Contains(t, fc, key)
	}

	var sum map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(decoded["summary"], &sum))
	for _, key := range []string{"total_predicted_spending_1yr", "annual_income", "projected_savings", "savings_rate", "avg_monthly_spending"} {
		assert.Contains(t, sum, key)
	}
}
