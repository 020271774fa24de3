package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/alsfmt/als/errs"
	"github.com/alsfmt/als/table"
)

// CSVConfig controls CSV ingest (§6.2).
type CSVConfig struct {
	// NullSentinel is the exact cell text that becomes Null. The empty
	// string disables sentinel matching entirely — a bare empty cell
	// then always becomes EmptyString, never Null, matching §6.2's
	// documented default ("unquoted empty is NOT null by itself").
	NullSentinel string
}

// DefaultCSVConfig disables null-sentinel matching.
func DefaultCSVConfig() CSVConfig { return CSVConfig{} }

// FromCSV reads an RFC 4180 CSV document (first row is the header) and
// returns its inferred TabularData. Column type inference and the
// null/empty-string rules follow §6.2 and §4.11.
func FromCSV(r io.Reader, cfg CSVConfig) (*table.TabularData, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return table.NewBuilder().Build()
	}
	if err != nil {
		return nil, wrapCSVErr(err)
	}

	columns := make([][]cell, len(header))
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapCSVErr(err)
		}
		for j := range header {
			var text string
			if j < len(record) {
				text = record[j]
			}
			columns[j] = append(columns[j], classifyCSVCell(text, cfg))
		}
	}

	b := table.NewBuilder()
	for j, name := range header {
		colType, values := inferColumn(columns[j])
		if err := b.AddColumn(name, colType, values); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

func classifyCSVCell(text string, cfg CSVConfig) cell {
	if cfg.NullSentinel != "" && text == cfg.NullSentinel {
		return nullCell()
	}
	return rawCell(text)
}

func wrapCSVErr(err error) error {
	return fmt.Errorf("%w: %v", errs.ErrCsvParse, err)
}

// ToCSV renders tbl back to RFC 4180 CSV text: a header row of column
// names followed by one row per cell index. This direction is
// necessarily lossy versus FromCSV's inference — Null and EmptyString
// both render as an unquoted empty field, since a bare CSV cell alone
// cannot carry that distinction back out without a configured sentinel.
func ToCSV(tbl *table.TabularData) (string, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)

	header := make([]string, len(tbl.Columns))
	for i, col := range tbl.Columns {
		header[i] = col.Name
	}
	if err := w.Write(header); err != nil {
		return "", wrapCSVErr(err)
	}

	for row := 0; row < tbl.RowCount; row++ {
		record := make([]string, len(tbl.Columns))
		for i, col := range tbl.Columns {
			record[i] = cellText(col.Values[row])
		}
		if err := w.Write(record); err != nil {
			return "", wrapCSVErr(err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", wrapCSVErr(err)
	}
	return buf.String(), nil
}

// cellText renders a Value the way an external text format expects to
// see it: unescaped, unlike Value.Literal (which is ALS wire syntax).
func cellText(v table.Value) string {
	switch v.Kind {
	case table.KindNull:
		return ""
	case table.KindString:
		return v.Str
	default:
		return v.Literal()
	}
}
