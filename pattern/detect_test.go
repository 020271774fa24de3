package pattern

import (
	"testing"

	"github.com/alsfmt/als/format"
	"github.com/alsfmt/als/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intCol(vals ...int64) *table.Column {
	vs := make([]table.Value, len(vals))
	for i, v := range vals {
		vs[i] = table.NewInt(v)
	}
	return &table.Column{Name: "c", Type: format.Integer, Values: vs}
}

func floatCol(vals ...float64) *table.Column {
	vs := make([]table.Value, len(vals))
	for i, v := range vals {
		vs[i] = table.NewFloat(v)
	}
	return &table.Column{Name: "c", Type: format.Float, Values: vs}
}

func strCol(vals ...string) *table.Column {
	vs := make([]table.Value, len(vals))
	for i, v := range vals {
		vs[i] = table.NewString(v, true)
	}
	return &table.Column{Name: "c", Type: format.String, Values: vs}
}

func TestDetectSequentialRange_Ascending(t *testing.T) {
	col := intCol(1, 2, 3, 4, 5)
	results := DetectSequentialRange(col, DefaultConfig())
	require.Len(t, results, 1)
	assert.Equal(t, format.SequentialRange, results[0].Type)
	assert.Equal(t, 0, results[0].Start)
	assert.Equal(t, 5, results[0].Length)
}

func TestDetectSequentialRange_TooShortIgnored(t *testing.T) {
	col := intCol(1, 2, 9, 9, 9)
	results := DetectSequentialRange(col, DefaultConfig())
	assert.Empty(t, results)
}

func TestDetectSequentialRange_NegativeStep(t *testing.T) {
	col := intCol(10, 8, 6, 4)
	results := DetectSequentialRange(col, DefaultConfig())
	require.Len(t, results, 1)
	assert.Equal(t, int64(10), results[0].Op.RangeStart)
	assert.Equal(t, int64(4), results[0].Op.RangeEnd)
	assert.Equal(t, int64(-2), results[0].Op.RangeStep)
}

func TestDetectSequentialRange_FloatStep(t *testing.T) {
	col := floatCol(0.1, 0.2, 0.3, 0.4)
	results := DetectSequentialRange(col, DefaultConfig())
	require.Len(t, results, 1)
	assert.True(t, results[0].Op.RangeIsFloat)
	assert.Equal(t, 4, results[0].Length)
}

func TestDetectSequentialRange_ZeroStepSkipped(t *testing.T) {
	col := intCol(5, 5, 5, 5)
	results := DetectSequentialRange(col, DefaultConfig())
	assert.Empty(t, results)
}

func TestDetectRepetition(t *testing.T) {
	col := strCol("a", "a", "a", "b")
	results := DetectRepetition(col, DefaultConfig())
	require.Len(t, results, 1)
	assert.Equal(t, format.Repetition, results[0].Type)
	assert.Equal(t, 0, results[0].Start)
	assert.Equal(t, 3, results[0].Length)
}

func TestDetectRepetition_BelowMinIgnored(t *testing.T) {
	col := strCol("a", "a", "b", "c")
	results := DetectRepetition(col, DefaultConfig())
	assert.Empty(t, results)
}

func TestDetectAlternation(t *testing.T) {
	col := strCol("x", "y", "x", "y", "x", "y")
	results := DetectAlternation(col, DefaultConfig())
	require.Len(t, results, 1)
	assert.Equal(t, format.Alternation, results[0].Type)
	assert.Equal(t, 6, results[0].Length)
}

func TestDetectAlternation_OddLengthTruncated(t *testing.T) {
	col := strCol("x", "y", "x", "y", "x", "z")
	results := DetectAlternation(col, DefaultConfig())
	require.Len(t, results, 1)
	assert.Equal(t, 4, results[0].Length, "trailing odd cell truncated off")
}

func TestDetectAlternation_RequiresDistinctValues(t *testing.T) {
	col := strCol("x", "x", "x", "x")
	results := DetectAlternation(col, DefaultConfig())
	assert.Empty(t, results)
}

func TestDetectComposite_RepeatedRange(t *testing.T) {
	col := intCol(1, 2, 3, 1, 2, 3, 1, 2, 3)
	ranges := DetectSequentialRange(col, DefaultConfig())
	composite := DetectComposite(ranges, nil)
	require.Len(t, composite, 1)
	assert.Equal(t, format.RepeatedRange, composite[0].Type)
	assert.Equal(t, 9, composite[0].Length)
	assert.Equal(t, 3, composite[0].Op.Count)
}

func TestDetectComposite_RepeatedToggle(t *testing.T) {
	col := strCol("x", "y", "x", "y", "a", "b", "a", "b")
	alts := DetectAlternation(col, DefaultConfig())
	composite := DetectComposite(nil, alts)
	// Two distinct toggle pairs (x/y and a/b) of equal length but
	// different values: not the same key, so no coalescing.
	assert.Empty(t, composite)
}

func TestDetectComposite_SameToggleRepeated(t *testing.T) {
	col := strCol("x", "y", "x", "y", "x", "y", "x", "y")
	cfg := Config{MinPatternLength: 4, MaxRangeExpansion: 1000}
	alts := DetectAlternation(col, cfg)
	// A single run of 8 is already detected as one Toggle(x,y,8); no
	// adjacent distinct runs to coalesce.
	require.Len(t, alts, 1)
	composite := DetectComposite(nil, alts)
	assert.Empty(t, composite)
}
