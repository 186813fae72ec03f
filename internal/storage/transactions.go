package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/earlystart/spendcast/internal/model"
)

// SaveTransactions inserts transactions, silently skipping hash duplicates
// so re-importing the same statement is safe.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, txns []model.Transaction) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (id, hash, date, name, category, amount)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	saved := 0
	for _, txn := range txns {
		if txn.Hash == "" {
			txn.Hash = txn.GenerateHash()
		}
		if txn.ID == "" {
			txn.ID = txn.Hash[:16]
		}

		res, err := stmt.ExecContext(ctx,
			txn.ID,
			txn.Hash,
			txn.Date.UTC(),
			txn.Name,
			txn.Category,
			txn.Amount,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to save transaction %s: %w", txn.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			saved += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return saved, nil
}

// GetTransactions returns stored transactions ordered by date, optionally
// bounded to [from, to].
func (s *SQLiteStorage) GetTransactions(ctx context.Context, from, to *time.Time) ([]model.Transaction, error) {
	query := `SELECT id, hash, date, name, category, amount FROM transactions`
	var args []any
	switch {
	case from != nil && to != nil:
		query += ` WHERE date >= ? AND date <= ?`
		args = append(args, from.UTC(), to.UTC())
	case from != nil:
		query += ` WHERE date >= ?`
		args = append(args, from.UTC())
	case to != nil:
		query += ` WHERE date <= ?`
		args = append(args, to.UTC())
	}
	query += ` ORDER BY date ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		var date sql.NullTime
		if err := rows.Scan(&txn.ID, &txn.Hash, &date, &txn.Name, &txn.Category, &txn.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if date.Valid {
			txn.Date = date.Time.UTC()
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}

// CountTransactions returns the number of stored transactions.
func (s *SQLiteStorage) CountTransactions(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}
