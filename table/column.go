package table

import (
	"github.com/alsfmt/als/errs"
	"github.com/alsfmt/als/format"
)

// Column is an ordered, homogeneously-typed sequence of Values.
//
// A Column's Type is inferred once at construction and never changes; a
// column that mixes incompatible scalar types across rows is typed
// Mixed and its values are all carried as String (see the ingest rules
// in SPEC_FULL.md §4.11).
type Column struct {
	Name   string
	Type   format.ColumnType
	Values []Value
}

// Len returns the number of values (rows) in the column.
func (c *Column) Len() int { return len(c.Values) }

// TabularData is an ordered set of Columns sharing a common row count.
// Column order and row order are preserved end to end (§3).
type TabularData struct {
	Columns  []*Column
	RowCount int
}

// ColumnByName returns the column with the given name, or nil if absent.
func (t *TabularData) ColumnByName(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Builder accumulates columns and validates the table invariants in one
// place rather than scattering the checks across ingest code: AddColumn
// rejects empty and duplicate names as each column is added, and Build
// checks that every column has the same length.
type Builder struct {
	columns []*Column
	names   map[string]struct{}
}

// NewBuilder creates an empty table builder.
func NewBuilder() *Builder {
	return &Builder{names: make(map[string]struct{})}
}

// AddColumn appends a column to the table under construction.
func (b *Builder) AddColumn(name string, colType format.ColumnType, values []Value) error {
	if name == "" {
		return errs.ErrEmptyColumnName
	}
	if _, exists := b.names[name]; exists {
		return errs.ErrDuplicateColumn
	}
	b.names[name] = struct{}{}
	b.columns = append(b.columns, &Column{Name: name, Type: colType, Values: values})

	return nil
}

// Build finalizes the table, verifying every column shares the same
// length (I1-adjacent invariant from §3: "every column in a table has
// identical length").
func (b *Builder) Build() (*TabularData, error) {
	rowCount := 0
	if len(b.columns) > 0 {
		rowCount = len(b.columns[0].Values)
	}
	for _, c := range b.columns {
		if len(c.Values) != rowCount {
			return nil, errs.ErrColumnLengthMismatch
		}
	}

	return &TabularData{Columns: b.columns, RowCount: rowCount}, nil
}
