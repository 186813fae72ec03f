package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earlystart/spendcast/internal/common"
	"github.com/earlystart/spendcast/internal/model"
)

func setupTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testTxn(date time.Time, amount float64, category string) model.Transaction {
	txn := model.Transaction{
		Date:     date,
		Name:     category,
		Category: category,
		Amount:   amount,
	}
	txn.Hash = txn.GenerateHash()
	txn.ID = txn.Hash[:16]
	return txn
}

func TestSaveTransactions_Deduplicates(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	txns := []model.Transaction{
		testTxn(date, 45.50, "groceries"),
		testTxn(date, 12.00, "coffee"),
	}

	saved, err := store.SaveTransactions(ctx, txns)
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	// Re-importing the same statement is a no-op.
	saved, err = store.SaveTransactions(ctx, txns)
	require.NoError(t, err)
	assert.Equal(t, 0, saved)

	n, err := store.CountTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestGetTransactions_OrderAndRange(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	d3 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := store.SaveTransactions(ctx, []model.Transaction{
		testTxn(d3, 30, "c"),
		testTxn(d1, 10, "a"),
		testTxn(d2, 20, "b"),
	})
	require.NoError(t, err)

	all, err := store.GetTransactions(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].Category)
	assert.Equal(t, "c", all[2].Category)
	assert.True(t, d1.Equal(all[0].Date))

	ranged, err := store.GetTransactions(ctx, &d2, &d2)
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "b", ranged[0].Category)
}

func TestUsers_Lifecycle(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, "alex@example.com", "hunter2"))

	err := store.CreateUser(ctx, "Alex@Example.com", "other")
	require.ErrorIs(t, err, common.ErrDuplicateEntry, "emails are case-insensitive")

	require.NoError(t, store.AuthenticateUser(ctx, "alex@example.com", "hunter2"))
	require.Error(t, store.AuthenticateUser(ctx, "alex@example.com", "wrong"))

	err = store.AuthenticateUser(ctx, "nobody@example.com", "hunter2")
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, store.UpdatePassword(ctx, "alex@example.com", "correct horse"))
	require.Error(t, store.AuthenticateUser(ctx, "alex@example.com", "hunter2"))
	require.NoError(t, store.AuthenticateUser(ctx, "alex@example.com", "correct horse"))

	err = store.UpdatePassword(ctx, "nobody@example.com", "x")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUsers_Validation(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	require.ErrorIs(t, store.CreateUser(ctx, "", "pw"), common.ErrInvalidConfig)
	require.ErrorIs(t, store.CreateUser(ctx, "a@b.com", ""), common.ErrInvalidConfig)
	require.ErrorIs(t, store.UpdatePassword(ctx, "a@b.com", ""), common.ErrInvalidConfig)
}
