// Package ingest implements the CSV and JSON external-format adapters
// (C11, §6.2, §4.11) that produce a table.TabularData a compressor can
// consume.
package ingest

import (
	"strconv"

	"github.com/alsfmt/als/format"
	"github.com/alsfmt/als/table"
)

// cell is one raw ingest observation before type inference: either an
// explicit Null/typed value already known (JSON) or a raw string token
// still needing inference (CSV). A typed cell also carries its source
// text in raw, so a column that ultimately narrows to Mixed can fall
// back to the exact original formatting (byte-exact per P1) instead of
// losing it to a re-rendered numeric string.
type cell struct {
	null  bool
	raw   string
	value table.Value
	typed bool
}

func nullCell() cell        { return cell{null: true} }
func rawCell(s string) cell { return cell{raw: s} }

// typedCell wraps a value already known to be of a specific Kind (JSON
// ingest), along with its verbatim source text for the Mixed fallback.
func typedCell(v table.Value, raw string) cell { return cell{value: v, raw: raw, typed: true} }

// inferColumn narrows a column of cells to the single scalar type every
// non-null cell agrees on, in the priority order Integer, Float,
// Boolean, else String; a column that mixes incompatible types is Mixed
// and every non-null cell is kept as a String value using its verbatim
// source text (P1). An all-null column is typed String.
func inferColumn(cells []cell) (format.ColumnType, []table.Value) {
	colType, ok := narrowType(cells)
	if !ok {
		colType = format.Mixed
	}

	values := make([]table.Value, len(cells))
	for i, c := range cells {
		switch {
		case c.null:
			values[i] = table.Null
		case colType == format.Mixed:
			values[i] = table.NewString(c.raw, true)
		case c.typed:
			values[i] = c.value
		default:
			values[i] = mustParse(colType, c.raw)
		}
	}
	return colType, values
}

// narrowType finds the single ColumnType every non-null cell agrees on.
// A cell already typed (JSON) contributes its own Kind directly; a raw
// cell must parse successfully as that type. An all-null column narrows
// to String (an empty column of Nulls has no evidence either way, and
// String is the least surprising default for an all-null column).
func narrowType(cells []cell) (format.ColumnType, bool) {
	seenAny := false
	var current format.ColumnType

	for _, c := range cells {
		if c.null {
			continue
		}
		var t format.ColumnType
		if c.typed {
			t = kindToColumnType(c.value.Kind)
		} else {
			var ok bool
			t, ok = classify(c.raw)
			if !ok {
				return 0, false
			}
		}
		if !seenAny {
			current = t
			seenAny = true
			continue
		}
		if current != t {
			return 0, false
		}
	}
	if !seenAny {
		return format.String, true
	}
	return current, true
}

func kindToColumnType(k table.Kind) format.ColumnType {
	switch k {
	case table.KindInteger:
		return format.Integer
	case table.KindFloat:
		return format.Float
	case table.KindBoolean:
		return format.Boolean
	default:
		return format.String
	}
}

// classify reports the narrowest type s parses as: Integer, then
// Float, then Boolean, else String. Boolean recognition is
// case-insensitive and accepts the yes/no spelling (§4.6/A2), so a
// column of "TRUE"/"False"/"yes"/"no" narrows to Boolean the same as
// one spelled exactly "true"/"false".
func classify(s string) (format.ColumnType, bool) {
	if s == "" {
		return format.String, true
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return format.Integer, true
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return format.Float, true
	}
	if _, ok := table.ParseBool(s); ok {
		return format.Boolean, true
	}
	return format.String, true
}

func mustParse(t format.ColumnType, s string) table.Value {
	switch t {
	case format.Integer:
		i, _ := strconv.ParseInt(s, 10, 64)
		return table.NewInt(i)
	case format.Float:
		f, _ := strconv.ParseFloat(s, 64)
		return table.NewFloat(f)
	case format.Boolean:
		b, _ := table.ParseBool(s)
		return table.NewBool(b)
	default:
		if s == "" {
			return table.EmptyString
		}
		return table.NewString(s, true)
	}
}
