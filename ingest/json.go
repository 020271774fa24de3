package ingest

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/alsfmt/als/errs"
	"github.com/alsfmt/als/table"
)

// FromJSON reads a JSON array of objects and returns its inferred
// TabularData (§6.2, §4.11). Nested objects flatten to dot-notation
// column names; arrays anywhere in a record are rejected; null becomes
// Null; a key absent from a given record becomes Null for that row;
// numeric literals preserve the source's int/float distinction via the
// decoder's json.Number rather than always widening to float64.
func FromJSON(r io.Reader) (*table.TabularData, error) {
	dec := gojson.NewDecoder(r)
	dec.UseNumber()

	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrJsonParse, err)
	}

	rows := make([]map[string]cell, len(records))
	order := newColumnOrder()
	for i, rec := range records {
		flat := make(map[string]cell)
		if err := flatten("", rec, flat, order); err != nil {
			return nil, err
		}
		rows[i] = flat
	}

	b := table.NewBuilder()
	for _, name := range order.names {
		cells := make([]cell, len(rows))
		for i, row := range rows {
			c, ok := row[name]
			if !ok {
				c = nullCell()
			}
			cells[i] = c
		}
		colType, values := inferColumn(cells)
		if err := b.AddColumn(name, colType, values); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

// columnOrder tracks JSON keys (post-flattening) in first-seen order —
// records in input order, each record's keys in sorted order (see
// flatten) — since map iteration order isn't stable and column order
// must be deterministic run to run (§5).
type columnOrder struct {
	names []string
	seen  map[string]bool
}

func newColumnOrder() *columnOrder {
	return &columnOrder{seen: make(map[string]bool)}
}

func (o *columnOrder) add(name string) {
	if !o.seen[name] {
		o.seen[name] = true
		o.names = append(o.names, name)
	}
}

func flatten(prefix string, obj map[string]any, out map[string]cell, order *columnOrder) error {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := obj[k]
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		if err := flattenValue(name, v, out, order); err != nil {
			return err
		}
	}
	return nil
}

func flattenValue(name string, v any, out map[string]cell, order *columnOrder) error {
	switch val := v.(type) {
	case nil:
		order.add(name)
		out[name] = nullCell()
	case map[string]any:
		return flatten(name, val, out, order)
	case []any:
		return errs.ErrJsonArrayValue
	case gojson.Number:
		order.add(name)
		out[name] = typedCell(numberToValue(val), val.String())
	case string:
		order.add(name)
		out[name] = typedCell(table.NewString(val, true), val)
	case bool:
		order.add(name)
		out[name] = typedCell(table.NewBool(val), strconv.FormatBool(val))
	default:
		return fmt.Errorf("%w: unsupported json value of type %T at %s", errs.ErrJsonParse, v, name)
	}
	return nil
}

func numberToValue(n gojson.Number) table.Value {
	if i, err := n.Int64(); err == nil {
		return table.NewInt(i)
	}
	f, _ := n.Float64()
	return table.NewFloat(f)
}

// ToJSON renders tbl back to a JSON array of objects, reversing the
// dot-notation flattening FromJSON applies: a column named "a.b"
// becomes a nested {"a":{"b":...}} object in each record.
func ToJSON(tbl *table.TabularData) (string, error) {
	records := make([]map[string]any, tbl.RowCount)
	for row := 0; row < tbl.RowCount; row++ {
		rec := make(map[string]any)
		for _, col := range tbl.Columns {
			setNested(rec, strings.Split(col.Name, "."), valueToJSON(col.Values[row]))
		}
		records[row] = rec
	}

	out, err := gojson.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrJsonParse, err)
	}
	return string(out), nil
}

func setNested(rec map[string]any, path []string, v any) {
	if len(path) == 1 {
		rec[path[0]] = v
		return
	}
	child, ok := rec[path[0]].(map[string]any)
	if !ok {
		child = make(map[string]any)
		rec[path[0]] = child
	}
	setNested(child, path[1:], v)
}

func valueToJSON(v table.Value) any {
	switch v.Kind {
	case table.KindNull:
		return nil
	case table.KindInteger:
		return v.Int
	case table.KindFloat:
		return v.Float
	case table.KindBoolean:
		return v.Bool
	default:
		return v.Str
	}
}
