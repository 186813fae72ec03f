// Package model defines the core types shared across the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// DefaultCategory is assigned to transactions whose source had no usable
// category or description column.
const DefaultCategory = "other"

// Transaction represents a single spending event from any statement source.
// Amount is an absolute spend magnitude; sign normalization happens at
// ingestion time.
type Transaction struct {
	Date     time.Time
	ID       string
	Name     string // Raw transaction description
	Category string
	Hash     string
	Amount   float64
}

// GenerateHash creates a stable hash for storage-level duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Name)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// Day returns the transaction date truncated to midnight UTC, the key used
// for daily aggregation.
func (t *Transaction) Day() time.Time {
	return time.Date(t.Date.Year(), t.Date.Month(), t.Date.Day(), 0, 0, 0, 0, time.UTC)
}
