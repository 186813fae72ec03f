package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earlystart/spendcast/internal/common"
	"github.com/earlystart/spendcast/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalize_GapFilling(t *testing.T) {
	txns := []model.Transaction{
		{Date: day(2024, 1, 1), Amount: 50, Category: "groceries"},
		{Date: day(2024, 1, 5), Amount: 20, Category: "transport"},
		{Date: day(2024, 1, 10), Amount: 35, Category: "food"},
	}

	points, err := Normalize(txns)
	require.NoError(t, err)

	// One point per calendar day across the full span, none skipped.
	require.Len(t, points, 10)
	for i, p := range points {
		assert.Equal(t, day(2024, 1, 1+i), p.Date, "day %d", i)
	}

	assert.Equal(t, 50.0, points[0].Value)
	assert.Equal(t, 0.0, points[1].Value)
	assert.Equal(t, 20.0, points[4].Value)
	assert.Equal(t, 35.0, points[9].Value)
}

func TestNormalize_SameDayCoalesce(t *testing.T) {
	txns := []model.Transaction{
		{Date: day(2024, 3, 1), Amount: 10, Category: "a"},
		{Date: day(2024, 3, 1), Amount: 25, Category: "b"},
		{Date: day(2024, 3, 2), Amount: 5, Category: "a"},
	}

	points, err := Normalize(txns)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 35.0, points[0].Value)
	assert.Equal(t, 5.0, points[1].Value)
}

func TestNormalize_DeduplicatesExactPairs(t *testing.T) {
	// Duplicate (date, amount) pairs contribute once, even across categories.
	txns := []model.Transaction{
		{Date: day(2024, 3, 1), Amount: 10, Category: "a"},
		{Date: day(2024, 3, 1), Amount: 10, Category: "b"},
		{Date: day(2024, 3, 1), Amount: 20, Category: "a"},
		{Date: day(2024, 3, 2), Amount: 10, Category: "a"},
	}

	points, err := Normalize(txns)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 30.0, points[0].Value, "duplicate pair must count once")
	assert.Equal(t, 10.0, points[1].Value, "same amount on another day is distinct")
}

func TestNormalize_PaymentExclusion(t *testing.T) {
	base := []model.Transaction{
		{Date: day(2024, 2, 1), Amount: 40, Category: "groceries"},
		{Date: day(2024, 2, 3), Amount: 60, Category: "rent"},
	}
	withPayment := append([]model.Transaction{
		{Date: day(2024, 2, 2), Amount: 500, Category: "PAYMENT RECEIVED"},
	}, base...)

	got, err := Normalize(withPayment)
	require.NoError(t, err)
	want, err := Normalize(base)
	require.NoError(t, err)

	assert.Equal(t, want, got, "payment rows must not change the series")
}

func TestNormalize_Errors(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		txns    []model.Transaction
	}{
		{
			name:    "no transactions",
			txns:    nil,
			wantErr: common.ErrEmptyInput,
		},
		{
			name: "only payments",
			txns: []model.Transaction{
				{Date: day(2024, 1, 1), Amount: 100, Category: "Payment Thank You"},
			},
			wantErr: common.ErrEmptyInput,
		},
		{
			name: "only non-positive amounts",
			txns: []model.Transaction{
				{Date: day(2024, 1, 1), Amount: 0, Category: "a"},
				{Date: day(2024, 1, 2), Amount: -5, Category: "a"},
			},
			wantErr: common.ErrEmptyInput,
		},
		{
			name: "zero date",
			txns: []model.Transaction{
				{Amount: 10, Category: "a"},
			},
			wantErr: common.ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.txns)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestIsPayment(t *testing.T) {
	assert.True(t, IsPayment("PAYMENT RECEIVED"))
	assert.True(t, IsPayment("Online payment - thank you"))
	assert.False(t, IsPayment("groceries"))
	assert.False(t, IsPayment(""))
}

func TestSortByDate(t *testing.T) {
	txns := []model.Transaction{
		{Date: day(2024, 3, 1), Amount: 30, Category: "c"},
		{Date: day(2024, 1, 1), Amount: 10, Category: "a"},
		{Date: day(2024, 2, 1), Amount: 21, Category: "b1"},
		{Date: day(2024, 2, 1), Amount: 22, Category: "b2"},
	}

	SortByDate(txns)

	assert.Equal(t, "a", txns[0].Category)
	assert.Equal(t, "b1", txns[1].Category, "equal dates keep their input order")
	assert.Equal(t, "b2", txns[2].Category)
	assert.Equal(t, "c", txns[3].Category)
}

func TestNonZeroMean(t *testing.T) {
	points := []model.SeriesPoint{
		{Date: day(2024, 1, 1), Value: 10},
		{Date: day(2024, 1, 2), Value: 0},
		{Date: day(2024, 1, 3), Value: 20},
		{Date: day(2024, 1, 4), Value: 0},
	}
	assert.Equal(t, 15.0, NonZeroMean(points), "zero days excluded from the mean")
	assert.Equal(t, 0.0, NonZeroMean(nil))
}
