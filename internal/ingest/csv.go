// Package ingest translates raw statement exports (CSV, OFX) into clean
// Transaction records. All column-identification heuristics live here; the
// core pipeline never guesses column semantics.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/earlystart/spendcast/internal/common"
	"github.com/earlystart/spendcast/internal/model"
)

// dateLayouts are the accepted transaction date formats. Ambiguous numeric
// dates resolve in US month-first order.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"02-Jan-2006",
	"2006-01-02T15:04:05Z",
}

// CSVLoader parses statement CSV exports, sniffing which columns hold the
// date, amount, and description.
type CSVLoader struct{}

// NewCSVLoader creates a CSV loader.
func NewCSVLoader() *CSVLoader {
	return &CSVLoader{}
}

// Load reads a CSV export and returns clean transactions: absolute amounts,
// non-positive rows dropped, missing categories defaulted. A row whose date
// cannot be parsed fails the whole batch with ErrInvalidDate; a malformed
// file must not be partially ingested.
func (l *CSVLoader) Load(r io.Reader) ([]model.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty file", common.ErrEmptyInput)
	}

	header, rows := sniffHeader(records)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no data rows", common.ErrEmptyInput)
	}

	dateCol, amountCol, categoryCol := identifyColumns(header, rows)
	slog.Debug("identified CSV columns",
		"date", dateCol,
		"amount", amountCol,
		"category", categoryCol,
		"rows", len(rows))

	txns := make([]model.Transaction, 0, len(rows))
	for i, row := range rows {
		if dateCol >= len(row) || amountCol >= len(row) {
			continue
		}

		date, err := ParseDate(row[dateCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		amount, ok := parseAmount(row[amountCol])
		if !ok || amount <= 0 {
			continue
		}

		category := model.DefaultCategory
		if categoryCol >= 0 && categoryCol < len(row) && strings.TrimSpace(row[categoryCol]) != "" {
			category = strings.TrimSpace(row[categoryCol])
		}

		txn := model.Transaction{
			Date:     date,
			Name:     category,
			Category: category,
			Amount:   amount,
		}
		txn.Hash = txn.GenerateHash()
		txn.ID = txn.Hash[:16]
		txns = append(txns, txn)
	}

	if len(txns) == 0 {
		return nil, fmt.Errorf("%w: no usable rows in %d records", common.ErrEmptyInput, len(rows))
	}
	return txns, nil
}

// ParseDate parses a date string against the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", common.ErrInvalidDate, s)
}

// parseAmount strips currency formatting and returns the absolute value.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = s[1 : len(s)-1]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return math.Abs(v), true
}

// sniffHeader decides whether the first record is a header row (no parseable
// date or amount in it) and returns it separately from the data rows.
func sniffHeader(records [][]string) ([]string, [][]string) {
	first := records[0]
	for _, cell := range first {
		if _, err := ParseDate(cell); err == nil {
			return nil, records
		}
		if _, ok := parseAmount(cell); ok {
			return nil, records
		}
	}
	return first, records[1:]
}

// identifyColumns applies the column heuristics: a "date"-named or
// date-parseable column, an "amount"-named or numeric column, and the first
// remaining textual column as the category/description. Returns -1 for a
// missing category column.
func identifyColumns(header []string, rows [][]string) (dateCol, amountCol, categoryCol int) {
	dateCol, amountCol, categoryCol = -1, -1, -1
	sample := rows[0]

	for i, name := range header {
		lower := strings.ToLower(name)
		if dateCol < 0 && strings.Contains(lower, "date") {
			dateCol = i
		}
		if amountCol < 0 && strings.Contains(lower, "amount") {
			amountCol = i
		}
	}

	if dateCol < 0 {
		for i, cell := range sample {
			if _, err := ParseDate(cell); err == nil {
				dateCol = i
				break
			}
		}
	}
	if dateCol < 0 {
		dateCol = 0
	}

	if amountCol < 0 {
		for i, cell := range sample {
			if i == dateCol {
				continue
			}
			if _, ok := parseAmount(cell); ok {
				amountCol = i
				break
			}
		}
	}
	if amountCol < 0 {
		amountCol = len(sample) - 1
	}

	for i, name := range header {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "category") || strings.Contains(lower, "description") {
			categoryCol = i
			break
		}
	}
	if categoryCol < 0 {
		for i := range sample {
			if i == dateCol || i == amountCol {
				continue
			}
			if _, ok := parseAmount(sample[i]); ok {
				continue
			}
			categoryCol = i
			break
		}
	}
	return dateCol, amountCol, categoryCol
}
