package ingest

import (
	"strings"
	"testing"

	"github.com/alsfmt/als/format"
	"github.com/alsfmt/als/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromCSV_TypeInference(t *testing.T) {
	input := "id,score,active,name\n1,1.5,true,alice\n2,2.5,false,bob\n"
	tbl, err := FromCSV(strings.NewReader(input), DefaultCSVConfig())
	require.NoError(t, err)
	require.Len(t, tbl.Columns, 4)

	assert.Equal(t, format.Integer, tbl.Columns[0].Type)
	assert.Equal(t, []table.Value{table.NewInt(1), table.NewInt(2)}, tbl.Columns[0].Values)

	assert.Equal(t, format.Float, tbl.Columns[1].Type)
	assert.Equal(t, format.Boolean, tbl.Columns[2].Type)
	assert.Equal(t, format.String, tbl.Columns[3].Type)
}

func TestFromCSV_EmptyCellBecomesEmptyString(t *testing.T) {
	input := "name,n\nalice,1\n,2\nbob,3\n"
	tbl, err := FromCSV(strings.NewReader(input), DefaultCSVConfig())
	require.NoError(t, err)
	assert.Equal(t, table.EmptyString, tbl.Columns[0].Values[1])
}

func TestFromCSV_NullSentinelDisabledByDefault(t *testing.T) {
	input := "name,n\nalice,1\n,2\n"
	tbl, err := FromCSV(strings.NewReader(input), DefaultCSVConfig())
	require.NoError(t, err)
	assert.False(t, tbl.Columns[0].Values[1].IsNull())
}

func TestFromCSV_ConfiguredNullSentinel(t *testing.T) {
	input := "name\nalice\nNULL\n"
	tbl, err := FromCSV(strings.NewReader(input), CSVConfig{NullSentinel: "NULL"})
	require.NoError(t, err)
	assert.True(t, tbl.Columns[0].Values[1].IsNull())
}

func TestFromCSV_MixedColumnBecomesMixedString(t *testing.T) {
	input := "v\n1\nhello\n"
	tbl, err := FromCSV(strings.NewReader(input), DefaultCSVConfig())
	require.NoError(t, err)
	assert.Equal(t, format.Mixed, tbl.Columns[0].Type)
	assert.Equal(t, []table.Value{table.NewString("1", true), table.NewString("hello", true)}, tbl.Columns[0].Values)
}

func TestFromCSV_EmptyDocument(t *testing.T) {
	tbl, err := FromCSV(strings.NewReader(""), DefaultCSVConfig())
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.RowCount)
}

func TestToCSV_RoundTripsValues(t *testing.T) {
	input := "id,score,active,name\n1,1.5,true,alice\n2,2.5,false,bob\n"
	tbl, err := FromCSV(strings.NewReader(input), DefaultCSVConfig())
	require.NoError(t, err)

	out, err := ToCSV(tbl)
	require.NoError(t, err)

	back, err := FromCSV(strings.NewReader(out), DefaultCSVConfig())
	require.NoError(t, err)
	assert.Equal(t, tbl.Columns, back.Columns)
}
