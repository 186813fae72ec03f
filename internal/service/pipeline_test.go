package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earlystart/spendcast/internal/common"
	"github.com/earlystart/spendcast/internal/forecast"
	"github.com/earlystart/spendcast/internal/model"
	"github.com/earlystart/spendcast/internal/report"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ninetyDayHistory builds 90 daily transactions with the fixed cycling
// amounts used throughout the acceptance scenarios.
func ninetyDayHistory() []model.Transaction {
	amounts := []float64{45.50, 120.00, 23.75, 89.00, 15.50}
	categories := []string{"groceries", "rent", "transport", "entertainment", "food"}
	txns := make([]model.Transaction, 90)
	start := day(2024, 7, 1)
	for i := range txns {
		txns[i] = model.Transaction{
			Date:     start.AddDate(0, 0, i),
			Amount:   amounts[i%len(amounts)],
			Category: categories[i%len(categories)],
		}
	}
	return txns
}

func newTestPipeline(t *testing.T, opts ...Option) *Pipeline {
	t.Helper()
	p, err := NewPipeline(forecast.DefaultConfig(), opts...)
	require.NoError(t, err)
	return p
}

func TestPipeline_NinetyDayScenario(t *testing.T) {
	p := newTestPipeline(t)

	res, err := p.Run(context.Background(), Request{
		Transactions:  ninetyDayHistory(),
		MonthlyIncome: 3000,
	})
	require.NoError(t, err)

	assert.Equal(t, 36000.00, res.Report.Summary.AnnualIncome)
	assert.Len(t, res.Report.Forecast.Dates, 365, "forecast arrays cover the configured horizon")
	assert.Len(t, res.Report.Forecast.Predicted, 365)
	assert.Equal(t, 365, res.Report.Metadata.ForecastDays)

	// Savings identity holds within rounding tolerance.
	sum := res.Report.Summary
	assert.InDelta(t, sum.AnnualIncome-sum.TotalPredictedSpending1Yr, sum.ProjectedSavings, 0.01)

	// Monthly table never exceeds 12 rows.
	assert.LessOrEqual(t, len(res.ForecastMonthly), 12)

	// The first forecast date is the day after the last historical date.
	assert.Equal(t, "2024-09-29", res.Report.Forecast.Dates[0])

	// Intermediate series are exposed for the chart.
	assert.NotEmpty(t, res.Points)
	assert.NotEmpty(t, res.HistoricalMonthly)
}

func TestPipeline_SingleDayInput(t *testing.T) {
	p := newTestPipeline(t)

	_, err := p.Run(context.Background(), Request{
		Transactions: []model.Transaction{
			{Date: day(2024, 1, 1), Amount: 50, Category: "groceries"},
		},
	})
	require.ErrorIs(t, err, common.ErrInsufficientData)
}

func TestPipeline_EmptyInput(t *testing.T) {
	p := newTestPipeline(t)

	_, err := p.Run(context.Background(), Request{})
	require.ErrorIs(t, err, common.ErrEmptyInput)
}

func TestPipeline_NegativeIncome(t *testing.T) {
	p := newTestPipeline(t)

	_, err := p.Run(context.Background(), Request{
		Transactions:  ninetyDayHistory(),
		MonthlyIncome: -100,
	})
	require.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestPipeline_ZeroIncome(t *testing.T) {
	p := newTestPipeline(t)

	res, err := p.Run(context.Background(), Request{
		Transactions: ninetyDayHistory(),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Report.Summary.SavingsRate)
	assert.Equal(t, 0.0, res.Report.Summary.AnnualIncome)
}

func TestPipeline_PaymentRowsDoNotAffectOutput(t *testing.T) {
	p := newTestPipeline(t)
	base := ninetyDayHistory()

	withPayment := append([]model.Transaction{
		{Date: day(2024, 7, 15), Amount: 2500, Category: "PAYMENT RECEIVED"},
	}, base...)

	resBase, err := p.Run(context.Background(), Request{Transactions: base, MonthlyIncome: 3000})
	require.NoError(t, err)
	resPayment, err := p.Run(context.Background(), Request{Transactions: withPayment, MonthlyIncome: 3000})
	require.NoError(t, err)

	assert.Equal(t, resBase.Report.Categories, resPayment.Report.Categories)
	assert.Equal(t, resBase.Report.Forecast, resPayment.Report.Forecast)
}

func TestPipeline_DuplicatePairsCollapse(t *testing.T) {
	p := newTestPipeline(t)
	base := ninetyDayHistory()

	// An exact (date, amount) duplicate of an existing row.
	withDup := append([]model.Transaction{
		{Date: base[0].Date, Amount: base[0].Amount, Category: base[0].Category},
	}, base...)

	resBase, err := p.Run(context.Background(), Request{Transactions: base, MonthlyIncome: 3000})
	require.NoError(t, err)
	resDup, err := p.Run(context.Background(), Request{Transactions: withDup, MonthlyIncome: 3000})
	require.NoError(t, err)

	assert.Equal(t, resBase.Report.Forecast, resDup.Report.Forecast,
		"duplicate pairs contribute once to the modeled series")
}

type failingRenderer struct{}

func (failingRenderer) Render(_ report.ChartData, _ string) error {
	return errors.New("renderer exploded")
}

type recordingRenderer struct {
	data report.ChartData
	path string
}

func (r *recordingRenderer) Render(data report.ChartData, path string) error {
	r.data = data
	r.path = path
	return nil
}

func TestPipeline_RenderFailureDoesNotAbort(t *testing.T) {
	p := newTestPipeline(t, WithRenderer(failingRenderer{}))

	res, err := p.Run(context.Background(), Request{
		Transactions:  ninetyDayHistory(),
		MonthlyIncome: 3000,
		ChartPath:     "/tmp/chart.png",
	})
	require.NoError(t, err, "the report must survive a rendering failure")
	require.NotNil(t, res.Report)
	assert.Error(t, res.RenderErr)
	assert.Empty(t, res.ChartPath)
}

func TestPipeline_RendererReceivesChartSeries(t *testing.T) {
	rec := &recordingRenderer{}
	p := newTestPipeline(t, WithRenderer(rec))

	res, err := p.Run(context.Background(), Request{
		Transactions:  ninetyDayHistory(),
		MonthlyIncome: 3000,
		ChartPath:     "/tmp/chart.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/chart.png", res.ChartPath)

	assert.Equal(t, 3000.0, rec.data.MonthlyIncome)
	assert.Equal(t, day(2024, 9, 28), rec.data.Today, "today marker sits at the last historical date")
	assert.NotEmpty(t, rec.data.Historical)
	assert.NotEmpty(t, rec.data.Forecast)
}

func TestPipeline_ContextCancellation(t *testing.T) {
	p := newTestPipeline(t, WithFitConcurrency(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, Request{Transactions: ninetyDayHistory()})
	require.Error(t, err)
}
