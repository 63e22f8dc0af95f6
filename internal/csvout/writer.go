// Package csvout serializes record collections to CSV files.
package csvout

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/jonathan/stackoverflow-pipeline/internal/records"
)

// ColumnPolicy decides which columns a written file carries.
type ColumnPolicy int

const (
	// FirstRecordColumns uses the key order of the first record. Keys
	// appearing only in later records are silently dropped; keys missing
	// from a record yield empty cells. This matches the API's mostly
	// homogeneous pages and is the default.
	FirstRecordColumns ColumnPolicy = iota
	// UnionColumns uses the union of all record keys, in first-seen
	// order. Safer for heterogeneous collections.
	UnionColumns
)

// Columns computes the column list for a collection under the policy.
// Returns nil for an empty collection.
func (p ColumnPolicy) Columns(collection []records.Record) []string {
	if len(collection) == 0 {
		return nil
	}
	if p == FirstRecordColumns {
		return collection[0].Keys()
	}

	seen := make(map[string]bool)
	var cols []string
	for _, rec := range collection {
		for _, key := range rec.Keys() {
			if !seen[key] {
				seen[key] = true
				cols = append(cols, key)
			}
		}
	}
	return cols
}

// Writer serializes collections to CSV files.
type Writer struct {
	policy ColumnPolicy
}

// NewWriter returns a writer using the given column policy.
func NewWriter(policy ColumnPolicy) *Writer {
	return &Writer{policy: policy}
}

// Write creates or overwrites the CSV file at path: a header row of the
// policy's columns, then one row per record with empty cells for missing
// keys. A nil or empty collection is a no-op and creates no file.
func (w *Writer) Write(collection []records.Record, path string) error {
	if len(collection) == 0 {
		return nil
	}

	columns := w.policy.Columns(collection)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	cw := csv.NewWriter(file)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("failed to write CSV header to %s: %w", path, err)
	}

	row := make([]string, len(columns))
	for _, rec := range collection {
		for i, col := range columns {
			if val, ok := rec.Get(col); ok {
				row[i] = val.String()
			} else {
				row[i] = ""
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row to %s: %w", path, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV file %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close CSV file %s: %w", path, err)
	}
	return nil
}
