// Package table defines the uniform tabular value passed between the loader,
// the relational store, and the query catalog: an ordered list of typed
// columns plus an ordered sequence of rows.
package table

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// Kind is the primitive type of a column.
type Kind int

const (
	Integer Kind = iota
	Float
	Text
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Float:
		return "float"
	default:
		return "text"
	}
}

// SQLType returns the SQLite column type for the kind.
func (k Kind) SQLType() string {
	switch k {
	case Integer:
		return "INTEGER"
	case Float:
		return "REAL"
	default:
		return "TEXT"
	}
}

// Column describes one named, typed column.
type Column struct {
	Name string
	Kind Kind
}

// Table is a flat relation: columns in declaration order, rows in insertion
// order. Cell values are int64, float64, string, or nil for NULL.
type Table struct {
	Columns []Column
	Rows    [][]any
}

// New creates an empty table with the given columns.
func New(cols ...Column) *Table {
	return &Table{Columns: cols}
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return len(t.Rows) }

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Append adds a row. The row length must match the column count.
func (t *Table) Append(row []any) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("table: row has %d cells, want %d", len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Float reads the cell at (row, col) as a float64. Integer cells widen,
// NULL and text cells report an error.
func (t *Table) Float(row, col int) (float64, error) {
	v := t.Rows[row][col]
	switch x := v.(type) {
	case int64:
		return float64(x), nil
	case float64:
		return x, nil
	case nil:
		return 0, fmt.Errorf("table: NULL at row %d column %q", row, t.Columns[col].Name)
	default:
		return 0, fmt.Errorf("table: non-numeric value %T at row %d column %q", v, row, t.Columns[col].Name)
	}
}

// NullCount returns the number of NULL cells per column, in column order.
func (t *Table) NullCount() []int {
	counts := make([]int, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			if v == nil {
				counts[i]++
			}
		}
	}
	return counts
}

// String renders the table with aligned columns, NULLs shown as empty cells.
func (t *Table) String() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(t.ColumnNames(), "\t"))
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			if v == nil {
				continue
			}
			cells[i] = fmt.Sprint(v)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()
	return b.String()
}
