// internal/store/table.go
//
// In-memory representation of the CSV database. Every cell is raw text;
// type coercion happens only in the stats layer. Column order is the
// header order on disk and only ever grows.

package store

// Table is the whole database loaded in memory.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// HasColumn reports whether the header contains col.
func (t *Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Get returns the cell at (row, col). Missing columns read as empty,
// which callers treat as not-applicable.
func (t *Table) Get(row int, col string) string {
	if t == nil || row < 0 || row >= len(t.Rows) {
		return ""
	}
	return t.Rows[row][col]
}

// EnsureColumn appends col to the header if absent. Existing rows keep
// their maps untouched; absent keys read back as empty cells.
func (t *Table) EnsureColumn(col string) {
	if !t.HasColumn(col) {
		t.Columns = append(t.Columns, col)
	}
}

// FindRow returns the index of the unique row whose id column matches,
// or -1. Duplicate ids are a data-integrity bug upstream; the first
// match wins.
func (t *Table) FindRow(idColumn, id string) int {
	if t == nil {
		return -1
	}
	for i, row := range t.Rows {
		if row[idColumn] == id {
			return i
		}
	}
	return -1
}

// Record is one submission assembled by the form, with insertion-ordered
// columns so a fresh database gets a deterministic header.
type Record struct {
	columns []string
	values  map[string]string
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: map[string]string{}}
}

// Set stores a value, remembering first-seen column order.
func (r *Record) Set(col, val string) {
	if _, ok := r.values[col]; !ok {
		r.columns = append(r.columns, col)
	}
	r.values[col] = val
}

// Get returns the value for col, empty when unset.
func (r *Record) Get(col string) string {
	return r.values[col]
}

// Columns returns the column names in insertion order.
func (r *Record) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}
