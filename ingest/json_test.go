package ingest

import (
	"strings"
	"testing"

	"github.com/alsfmt/als/errs"
	"github.com/alsfmt/als/format"
	"github.com/alsfmt/als/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSON_FlatObjects(t *testing.T) {
	input := `[{"id":1,"name":"alice"},{"id":2,"name":"bob"}]`
	tbl, err := FromJSON(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, tbl.Columns, 2)
	assert.Equal(t, "id", tbl.Columns[0].Name)
	assert.Equal(t, format.Integer, tbl.Columns[0].Type)
	assert.Equal(t, []table.Value{table.NewInt(1), table.NewInt(2)}, tbl.Columns[0].Values)
}

func TestFromJSON_NestedObjectsFlattenWithDotNotation(t *testing.T) {
	input := `[{"user":{"id":1,"meta":{"active":true}}}]`
	tbl, err := FromJSON(strings.NewReader(input))
	require.NoError(t, err)
	names := []string{tbl.Columns[0].Name, tbl.Columns[1].Name}
	assert.ElementsMatch(t, []string{"user.id", "user.meta.active"}, names)
}

func TestFromJSON_MissingKeyBecomesNull(t *testing.T) {
	input := `[{"a":1},{"b":2}]`
	tbl, err := FromJSON(strings.NewReader(input))
	require.NoError(t, err)

	a := tbl.ColumnByName("a")
	require.NotNil(t, a)
	assert.True(t, a.Values[1].IsNull())

	b := tbl.ColumnByName("b")
	require.NotNil(t, b)
	assert.True(t, b.Values[0].IsNull())
}

func TestFromJSON_NullLiteralBecomesNull(t *testing.T) {
	input := `[{"a":null}]`
	tbl, err := FromJSON(strings.NewReader(input))
	require.NoError(t, err)
	assert.True(t, tbl.Columns[0].Values[0].IsNull())
}

func TestFromJSON_PreservesIntFloatDistinction(t *testing.T) {
	input := `[{"a":1},{"a":1.5}]`
	tbl, err := FromJSON(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, format.Mixed, tbl.Columns[0].Type)
}

func TestFromJSON_RejectsArrayValue(t *testing.T) {
	input := `[{"a":[1,2,3]}]`
	_, err := FromJSON(strings.NewReader(input))
	assert.ErrorIs(t, err, errs.ErrJsonArrayValue)
}

func TestToJSON_UnflattensDotNotation(t *testing.T) {
	input := `[{"user":{"id":1,"active":true}}]`
	tbl, err := FromJSON(strings.NewReader(input))
	require.NoError(t, err)

	out, err := ToJSON(tbl)
	require.NoError(t, err)

	back, err := FromJSON(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, tbl.Columns, back.Columns)
}
