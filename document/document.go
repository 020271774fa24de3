// Package document implements the AlsDocument model (§3) and the
// serializer/parser pair (C7/C8, §4.7-4.8) that convert between it and
// the wire grammar:
//
//	document     := version directive dict* schema streams
//	version      := "!v" major "." minor "\n"
//	directive    := "!als\n" | "!ctx\n"
//	dict         := "$" dict_id ":" entry ("," entry)* "\n"
//	entry        := escaped_string
//	schema       := "#" col_spec ("," col_spec)* "\n"
//	col_spec     := name ":" type_tag
//	streams      := op_seq ("|" op_seq)* "\n"
//	op_seq       := op ("," op)*
//	op           := raw | range | multiply | toggle | dictref
//	raw          := escaped_scalar
//	range        := scalar ">" scalar ":" step
//	multiply     := op "*" integer
//	toggle       := scalar "~" scalar "*" integer
//	dictref      := "$" dict_id "." local_index
//
// The explicit "!als"/"!ctx" directive line is this implementation's
// resolution of how FormatIndicator is carried on the wire: spec.md's
// grammar names the version directive but leaves the indicator's textual
// encoding unspecified, so a second directive line (same "!"-prefixed
// family as the version line) keeps the indicator inside the tokenizer's
// existing directive-prefix handling instead of inventing a new sigil.
package document

import (
	"github.com/alsfmt/als/dict"
	"github.com/alsfmt/als/errs"
	"github.com/alsfmt/als/format"
	"github.com/alsfmt/als/operator"
	"github.com/alsfmt/als/table"
)

// CurrentMajorVersion and CurrentMinorVersion are the version this
// package writes (§6.1: "Current version: 1.0"). On read, a major
// version above CurrentMajorVersion is rejected; the minor version is
// not checked.
const (
	CurrentMajorVersion = 1
	CurrentMinorVersion = 0
)

// ColumnSpec is one schema entry: a column's name and declared type.
type ColumnSpec struct {
	Name string
	Type format.ColumnType
}

// ColumnStream is the ordered sequence of operators that, expanded in
// order, yields one column's Values (§3).
type ColumnStream struct {
	Ops []*operator.Operator
}

// Expand reproduces the column's Values by expanding every operator in
// order, resolving DictRef operators against dictionaries.
func (s *ColumnStream) Expand(dictionaries map[string][]string) ([]table.Value, error) {
	var out []table.Value
	for _, op := range s.Ops {
		var err error
		out, err = op.Expand(out, dictionaries)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Document is the in-memory AlsDocument (§3): a format version, the
// declared dictionaries, the column schema, one ColumnStream per
// schema column in schema order, and a FormatIndicator selecting
// between pattern-encoded (Als) and verbatim-passthrough (Ctx) bodies.
type Document struct {
	MajorVersion int
	MinorVersion int

	Dictionaries map[string]*dict.Dictionary
	// DictOrder lists dictionary ids in the order they must be
	// written/were read, mirroring dict.Result.Order.
	DictOrder []string

	Schema  []ColumnSpec
	Streams []*ColumnStream

	Indicator format.Indicator
	// CtxPayload holds the original input verbatim when Indicator is
	// Ctx; Schema/Streams/Dictionaries are unused in that case.
	CtxPayload string
}

// DictionaryView returns the plain id -> ordered-entries map the
// operator package's Expand wants, built fresh from d.Dictionaries.
func (d *Document) DictionaryView() map[string][]string {
	view := make(map[string][]string, len(d.Dictionaries))
	for id, dd := range d.Dictionaries {
		view[id] = dd.Entries
	}
	return view
}

// ToTable expands every ColumnStream and reassembles a TabularData,
// verifying I1 (every stream expands to the same row count) and I3
// (schema/stream count agreement) along the way.
func (d *Document) ToTable() (*table.TabularData, error) {
	if d.Indicator == format.Ctx {
		return nil, &errs.AlsSyntaxError{Message: "cannot expand a Ctx document into tabular data"}
	}
	if len(d.Schema) != len(d.Streams) {
		return nil, &errs.ColumnMismatchError{Expected: len(d.Schema), Actual: len(d.Streams)}
	}

	view := d.DictionaryView()
	b := table.NewBuilder()
	rowCount := -1
	for i, spec := range d.Schema {
		values, err := d.Streams[i].Expand(view)
		if err != nil {
			return nil, err
		}
		if rowCount == -1 {
			rowCount = len(values)
		} else if len(values) != rowCount {
			return nil, &errs.ColumnMismatchError{Expected: rowCount, Actual: len(values)}
		}
		if err := b.AddColumn(spec.Name, spec.Type, values); err != nil {
			return nil, err
		}
	}
	return b.Build()
}
