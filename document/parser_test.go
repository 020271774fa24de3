package document

import (
	"math"
	"testing"

	"github.com/alsfmt/als/errs"
	"github.com/alsfmt/als/format"
	"github.com/alsfmt/als/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SimpleAls(t *testing.T) {
	input := "!v1.0\n!als\n#n:int\n1>3:1\n"
	doc, err := Parse(input, DefaultParserConfig())
	require.NoError(t, err)
	assert.Equal(t, format.Als, doc.Indicator)
	require.Len(t, doc.Schema, 1)
	assert.Equal(t, "n", doc.Schema[0].Name)

	tbl, err := doc.ToTable()
	require.NoError(t, err)
	require.Len(t, tbl.Columns, 1)
	assert.Equal(t, []table.Value{table.NewInt(1), table.NewInt(2), table.NewInt(3)}, tbl.Columns[0].Values)
}

func TestParse_Ctx(t *testing.T) {
	input := "!v1.0\n!ctx\nname,age\nalice,30\n"
	doc, err := Parse(input, DefaultParserConfig())
	require.NoError(t, err)
	assert.Equal(t, format.Ctx, doc.Indicator)
	assert.Equal(t, "name,age\nalice,30\n", doc.CtxPayload)
}

func TestParse_CtxPayloadPreservesCRLF(t *testing.T) {
	input := "!v1.0\r\n!ctx\r\nname,age\r\nalice,30\r\n"
	doc, err := Parse(input, DefaultParserConfig())
	require.NoError(t, err)
	assert.Equal(t, "name,age\r\nalice,30\r\n", doc.CtxPayload)
}

func TestParse_DictRef(t *testing.T) {
	input := "!v1.0\n!als\n$d0:red,green,blue\n#color:str\n$d0.1,$d0.2,$d0.0\n"
	tbl, err := ParseToTable(input, DefaultParserConfig())
	require.NoError(t, err)
	want := []table.Value{
		table.NewString("green", false),
		table.NewString("blue", false),
		table.NewString("red", false),
	}
	assert.Equal(t, want, tbl.Columns[0].Values)
}

func TestParse_UnknownDictRef(t *testing.T) {
	input := "!v1.0\n!als\n#color:str\n$missing.0\n"
	_, err := Parse(input, DefaultParserConfig())
	assert.ErrorIs(t, err, errs.ErrInvalidDictRef)
}

func TestParse_DictRefOutOfRange(t *testing.T) {
	input := "!v1.0\n!als\n$d0:red\n#color:str\n$d0.5\n"
	_, err := Parse(input, DefaultParserConfig())
	assert.ErrorIs(t, err, errs.ErrInvalidDictRef)
}

func TestParse_VersionTooNew(t *testing.T) {
	input := "!v99.0\n!als\n#n:int\n1\n"
	_, err := Parse(input, DefaultParserConfig())
	assert.ErrorIs(t, err, errs.ErrVersionMismatch)
}

func TestParse_ColumnStreamCountMismatch(t *testing.T) {
	input := "!v1.0\n!als\n#a:int,b:int\n1,2,3\n"
	_, err := Parse(input, DefaultParserConfig())
	assert.ErrorIs(t, err, errs.ErrColumnMismatch)
}

func TestParse_MultiplyAndToggle(t *testing.T) {
	input := "!v1.0\n!als\n#n:int,t:bool\n5*4|true~false*4\n"
	tbl, err := ParseToTable(input, DefaultParserConfig())
	require.NoError(t, err)
	assert.Equal(t, []table.Value{table.NewInt(5), table.NewInt(5), table.NewInt(5), table.NewInt(5)}, tbl.Columns[0].Values)
	assert.Equal(t, []table.Value{
		table.NewBool(true), table.NewBool(false), table.NewBool(true), table.NewBool(false),
	}, tbl.Columns[1].Values)
}

func TestParse_NullAndEmptyStringSentinels(t *testing.T) {
	input := "!v1.0\n!als\n#s:str\n~,~~,hello\n"
	tbl, err := ParseToTable(input, DefaultParserConfig())
	require.NoError(t, err)
	want := []table.Value{table.Null, table.EmptyString, table.NewString("hello", true)}
	assert.Equal(t, want, tbl.Columns[0].Values)
}

func TestParse_FloatSpecialValues(t *testing.T) {
	input := "!v1.0\n!als\n#f:float\nnan,inf,-inf,1.5\n"
	tbl, err := ParseToTable(input, DefaultParserConfig())
	require.NoError(t, err)
	vals := tbl.Columns[0].Values
	assert.True(t, math.IsNaN(vals[0].Float))
	assert.True(t, math.IsInf(vals[1].Float, 1))
	assert.True(t, math.IsInf(vals[2].Float, -1))
	assert.Equal(t, 1.5, vals[3].Float)
}

func TestParse_StrictModeRejectsImplicitStep(t *testing.T) {
	input := "!v1.0\n!als\n#n:int\n1>3\n"
	_, err := Parse(input, DefaultParserConfig())
	assert.Error(t, err)
}

func TestParse_LenientImplicitStep(t *testing.T) {
	cfg := Config{Lenient: true, MaxRangeExpansion: 1000}
	input := "!v1.0\n!als\n#n:int\n1>3\n"
	tbl, err := ParseToTable(input, cfg)
	require.NoError(t, err)
	assert.Equal(t, []table.Value{table.NewInt(1), table.NewInt(2), table.NewInt(3)}, tbl.Columns[0].Values)
}

func TestParse_StrictModeRejectsNValueToggle(t *testing.T) {
	input := "!v1.0\n!als\n#n:int\n0~1~2*6\n"
	_, err := Parse(input, DefaultParserConfig())
	assert.Error(t, err)
}

func TestParse_LenientNValueToggle(t *testing.T) {
	cfg := Config{Lenient: true, MaxRangeExpansion: 1000}
	input := "!v1.0\n!als\n#n:int\n0~1~2*7\n"
	tbl, err := ParseToTable(input, cfg)
	require.NoError(t, err)
	want := []table.Value{
		table.NewInt(0), table.NewInt(1), table.NewInt(2),
		table.NewInt(0), table.NewInt(1), table.NewInt(2), table.NewInt(0),
	}
	assert.Equal(t, want, tbl.Columns[0].Values)
}

func TestParse_LenientGroupedMultiply(t *testing.T) {
	cfg := Config{Lenient: true, MaxRangeExpansion: 1000}
	input := "!v1.0\n!als\n#n:int\n(1>3:1)*2\n"
	tbl, err := ParseToTable(input, cfg)
	require.NoError(t, err)
	want := []table.Value{
		table.NewInt(1), table.NewInt(2), table.NewInt(3),
		table.NewInt(1), table.NewInt(2), table.NewInt(3),
	}
	assert.Equal(t, want, tbl.Columns[0].Values)
}

func TestParse_EscapedStringRoundTrip(t *testing.T) {
	input := "!v1.0\n!als\n#s:str\nhello\\,world\n"
	tbl, err := ParseToTable(input, DefaultParserConfig())
	require.NoError(t, err)
	assert.Equal(t, "hello,world", tbl.Columns[0].Values[0].Str)
}

func TestParse_SerializeRoundTrip(t *testing.T) {
	input := "!v1.0\n!als\n$d0:x,y\n#n:int,c:str\n1>4:1|$d0.0,$d0.1,$d0.0,$d0.1\n"
	doc, err := Parse(input, DefaultParserConfig())
	require.NoError(t, err)
	assert.Equal(t, input, Serialize(doc))
}
