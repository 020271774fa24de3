package document

import (
	"testing"

	"github.com/alsfmt/als/dict"
	"github.com/alsfmt/als/errs"
	"github.com/alsfmt/als/format"
	"github.com/alsfmt/als/operator"
	"github.com/alsfmt/als/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_ToTable(t *testing.T) {
	rangeOp, err := operator.NewRange(1, 3, 1, 100)
	require.NoError(t, err)

	doc := &Document{
		Indicator: format.Als,
		Schema:    []ColumnSpec{{Name: "n", Type: format.Integer}},
		Streams:   []*ColumnStream{{Ops: []*operator.Operator{rangeOp}}},
	}
	tbl, err := doc.ToTable()
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.RowCount)
	assert.Equal(t, []table.Value{table.NewInt(1), table.NewInt(2), table.NewInt(3)}, tbl.Columns[0].Values)
}

func TestDocument_ToTable_RejectsCtx(t *testing.T) {
	doc := &Document{Indicator: format.Ctx, CtxPayload: "a,b\n"}
	_, err := doc.ToTable()
	assert.Error(t, err)
}

func TestDocument_ToTable_RowCountMismatch(t *testing.T) {
	raw3, err := operator.NewRange(1, 3, 1, 100)
	require.NoError(t, err)
	raw2, err := operator.NewRange(1, 2, 1, 100)
	require.NoError(t, err)

	doc := &Document{
		Indicator: format.Als,
		Schema: []ColumnSpec{
			{Name: "a", Type: format.Integer},
			{Name: "b", Type: format.Integer},
		},
		Streams: []*ColumnStream{
			{Ops: []*operator.Operator{raw3}},
			{Ops: []*operator.Operator{raw2}},
		},
	}
	_, err = doc.ToTable()
	assert.ErrorIs(t, err, errs.ErrColumnMismatch)
}

func TestDocument_DictionaryView(t *testing.T) {
	d := dict.NewDictionary("d0")
	d.Add("a")
	d.Add("b")
	doc := &Document{Dictionaries: map[string]*dict.Dictionary{"d0": d}}
	view := doc.DictionaryView()
	assert.Equal(t, []string{"a", "b"}, view["d0"])
}
