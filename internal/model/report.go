package model

// ForecastSeries holds the daily future forecast as parallel arrays, dates
// serialized as YYYY-MM-DD.
type ForecastSeries struct {
	Dates      []string  `json:"dates"`
	Predicted  []float64 `json:"predicted"`
	LowerBound []float64 `json:"lower_bound"`
	UpperBound []float64 `json:"upper_bound"`
}

// Summary holds the scalar forecast metrics.
type Summary struct {
	TotalPredictedSpending1Yr float64 `json:"total_predicted_spending_1yr"`
	AnnualIncome              float64 `json:"annual_income"`
	ProjectedSavings          float64 `json:"projected_savings"`
	SavingsRate               float64 `json:"savings_rate"`
	AvgMonthlySpending        float64 `json:"avg_monthly_spending"`
}

// Metadata records when and how a report was generated.
type Metadata struct {
	GeneratedAt     string `json:"generated_at"`
	ForecastDays    int    `json:"forecast_days"`
	DataAggregation string `json:"data_aggregation"`
}

// Report is the terminal artifact of the pipeline: immutable once assembled,
// owned by the caller that requested it. All monetary fields are rounded to
// two decimal places at assembly time, never earlier.
type Report struct {
	Forecast   ForecastSeries          `json:"forecast"`
	Summary    Summary                 `json:"summary"`
	Categories map[string]CategoryStat `json:"categories"`
	Metadata   Metadata                `json:"metadata"`
}
