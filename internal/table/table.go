package table

import "strconv"

// Row is one flat record keyed by column name. Columns not known to the
// join engine are carried through untouched.
type Row map[string]string

// Clone returns a copy of the row that can be mutated independently.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered tabular dataset. Column order is explicit so that
// output is deterministic regardless of map iteration order.
type Table struct {
	Columns []string
	Rows    []Row
}

// New creates an empty table with the given column order.
func New(columns ...string) *Table {
	return &Table{Columns: columns}
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumns appends columns to the table's column order, skipping names
// that are already present.
func (t *Table) AddColumns(names ...string) {
	for _, name := range names {
		if !t.HasColumn(name) {
			t.Columns = append(t.Columns, name)
		}
	}
}

// Append adds a row to the table.
func (t *Table) Append(r Row) {
	t.Rows = append(t.Rows, r)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Mapping aliases the engine's logical column names (age, sex, year,
// country) to the caller's actual column names. A missing entry means the
// logical name is used as-is.
type Mapping map[string]string

// Resolve returns the actual column name for a logical name.
func (m Mapping) Resolve(logical string) string {
	if m == nil {
		return logical
	}
	if actual, ok := m[logical]; ok && actual != "" {
		return actual
	}
	return logical
}

// FixupColumns replaces empty or purely positional column names with a
// stable colN name so output headers are always writable.
func FixupColumns(cols []string) []string {
	out := make([]string, len(cols))
	for i, col := range cols {
		if col == "" {
			out[i] = "col" + strconv.Itoa(i)
			continue
		}
		if _, err := strconv.Atoi(col); err == nil {
			out[i] = "col" + col
			continue
		}
		out[i] = col
	}
	return out
}
