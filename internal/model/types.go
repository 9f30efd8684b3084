package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v6"
)

// Reserved columns present on every row.
const (
	ColumnStock     = "stock"
	ColumnUpdatedAt = "updated_at"
)

// TimestampLayout is the wire format of updated_at.
const TimestampLayout = "2006-01-02 15:04:05"

// -----------------------------------------------------------------------------
// Extraction Types
// -----------------------------------------------------------------------------

// Entity is a tracked company.
type Entity struct {
	Name string // Display name (e.g., "apple")
	ID   string // Exchange-qualified ticker (e.g., "aapl:us")
}

// Stat is one statistic as returned by the API.
type Stat struct {
	Name  string      // Display name (e.g., "Market Cap (M)")
	Value null.String // Usually a formatted string; null when absent
}

// RawStat is the unmodified statistics table of one entity, tagged with its ID.
type RawStat struct {
	Stock string
	Stats []Stat
}

// -----------------------------------------------------------------------------
// Tabular Types
// -----------------------------------------------------------------------------

// Row is one normalized record. Field order is first-seen order.
type Row struct {
	Stock     string
	UpdatedAt time.Time

	keys   []string
	fields map[string]any
}

// NewRow creates an empty row for stock.
func NewRow(stock string, updatedAt time.Time) Row {
	return Row{
		Stock:     stock,
		UpdatedAt: updatedAt,
		fields:    make(map[string]any),
	}
}

// Set stores a field value. A repeated key keeps its position and takes the new value.
func (r *Row) Set(key string, value any) {
	if r.fields == nil {
		r.fields = make(map[string]any)
	}
	if _, ok := r.fields[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.fields[key] = value
}

// Get returns a field value and whether the key is present.
func (r Row) Get(key string) (any, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// Keys returns the field keys in insertion order.
func (r Row) Keys() []string {
	return r.keys
}

// Table is the set of rows of one run. Columns is the union of all row keys.
type Table struct {
	RunID   uuid.UUID
	Columns []string
	Rows    []Row

	seen map[string]bool
}

// NewTable creates an empty table with the reserved columns.
func NewTable(runID uuid.UUID) *Table {
	return &Table{
		RunID:   runID,
		Columns: []string{ColumnStock, ColumnUpdatedAt},
		seen:    map[string]bool{ColumnStock: true, ColumnUpdatedAt: true},
	}
}

// Append adds a row and extends the column set with its keys.
func (t *Table) Append(r Row) {
	if t.seen == nil {
		t.seen = make(map[string]bool)
		for _, c := range t.Columns {
			t.seen[c] = true
		}
	}
	for _, k := range r.Keys() {
		if !t.seen[k] {
			t.seen[k] = true
			t.Columns = append(t.Columns, k)
		}
	}
	t.Rows = append(t.Rows, r)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Cell returns the value of column for row i. Absent fields are nil.
func (t *Table) Cell(i int, column string) any {
	r := t.Rows[i]
	switch column {
	case ColumnStock:
		return r.Stock
	case ColumnUpdatedAt:
		return r.UpdatedAt.UTC().Format(TimestampLayout)
	}
	v, _ := r.Get(column)
	return v
}

// Record returns row i as a map holding every table column.
func (t *Table) Record(i int) map[string]any {
	rec := make(map[string]any, len(t.Columns))
	for _, c := range t.Columns {
		rec[c] = t.Cell(i, c)
	}
	return rec
}

// Records returns every row as produced by Record.
func (t *Table) Records() []map[string]any {
	out := make([]map[string]any, t.Len())
	for i := range t.Rows {
		out[i] = t.Record(i)
	}
	return out
}
