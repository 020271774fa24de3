package operator

import (
	"testing"

	"github.com/alsfmt/als/errs"
	"github.com/alsfmt/als/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expandAll(t *testing.T, op *Operator) []table.Value {
	t.Helper()
	vs, err := op.Expand(nil, nil)
	require.NoError(t, err)
	return vs
}

func TestRaw(t *testing.T) {
	op := NewRaw(table.NewInt(42))
	assert.Equal(t, 1, op.Len())
	assert.Equal(t, []table.Value{table.NewInt(42)}, expandAll(t, op))
}

func TestRange_Ascending(t *testing.T) {
	op, err := NewRange(1, 5, 1, 1_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, 5, op.Len())

	got := expandAll(t, op)
	want := []table.Value{table.NewInt(1), table.NewInt(2), table.NewInt(3), table.NewInt(4), table.NewInt(5)}
	assert.Equal(t, want, got)
}

func TestRange_Descending(t *testing.T) {
	op, err := NewRange(5, 1, -1, 1_000_000_000)
	require.NoError(t, err)
	got := expandAll(t, op)
	want := []table.Value{table.NewInt(5), table.NewInt(4), table.NewInt(3), table.NewInt(2), table.NewInt(1)}
	assert.Equal(t, want, got)
}

func TestRange_WithStep(t *testing.T) {
	op, err := NewRange(10, 50, 10, 1_000_000_000)
	require.NoError(t, err)
	got := expandAll(t, op)
	want := []table.Value{table.NewInt(10), table.NewInt(20), table.NewInt(30), table.NewInt(40), table.NewInt(50)}
	assert.Equal(t, want, got)
}

func TestRange_ZeroStepRejected(t *testing.T) {
	_, err := NewRange(1, 5, 0, 100)
	assert.ErrorIs(t, err, errs.ErrRangeOverflow)
}

func TestRange_ExceedsMaxExpansion(t *testing.T) {
	_, err := NewRange(1, 1000, 1, 10)
	assert.ErrorIs(t, err, errs.ErrRangeOverflow)
}

func TestRange_WrongDirectionRejected(t *testing.T) {
	// start < end but step is negative: never reaches end.
	_, err := NewRange(1, 5, -1, 100)
	assert.ErrorIs(t, err, errs.ErrRangeOverflow)
}

func TestRange_NonExactLandingUsesFloorCount(t *testing.T) {
	op, err := NewRange(1, 11, 3, 100)
	require.NoError(t, err)
	assert.Equal(t, 4, op.Len())

	got := expandAll(t, op)
	want := []table.Value{table.NewInt(1), table.NewInt(4), table.NewInt(7), table.NewInt(10)}
	assert.Equal(t, want, got)
}

func TestFloatRange(t *testing.T) {
	op, err := NewFloatRange(0.5, 2.5, 0.5, 5, 1_000_000_000)
	require.NoError(t, err)
	got := expandAll(t, op)
	want := []table.Value{
		table.NewFloat(0.5), table.NewFloat(1.0), table.NewFloat(1.5), table.NewFloat(2.0), table.NewFloat(2.5),
	}
	assert.Equal(t, want, got)
}

func TestMultiply(t *testing.T) {
	op := NewMultiply(NewRaw(table.NewString("x", true)), 3)
	assert.Equal(t, 3, op.Len())
	got := expandAll(t, op)
	assert.Equal(t, []table.Value{table.NewString("x", true), table.NewString("x", true), table.NewString("x", true)}, got)
}

func TestMultiplyOfRange(t *testing.T) {
	rangeOp, err := NewRange(1, 3, 1, 100)
	require.NoError(t, err)
	op := NewMultiply(rangeOp, 2)
	assert.Equal(t, 6, op.Len())
	got := expandAll(t, op)
	want := []table.Value{
		table.NewInt(1), table.NewInt(2), table.NewInt(3),
		table.NewInt(1), table.NewInt(2), table.NewInt(3),
	}
	assert.Equal(t, want, got)
}

func TestToggle(t *testing.T) {
	op := NewToggle(table.NewInt(1), table.NewInt(0), 6)
	assert.Equal(t, 6, op.Len())
	got := expandAll(t, op)
	want := []table.Value{table.NewInt(1), table.NewInt(0), table.NewInt(1), table.NewInt(0), table.NewInt(1), table.NewInt(0)}
	assert.Equal(t, want, got)
}

func TestToggleMulti(t *testing.T) {
	op := NewToggleMulti([]table.Value{table.NewInt(0), table.NewInt(1), table.NewInt(2)}, 7)
	got := expandAll(t, op)
	want := []table.Value{
		table.NewInt(0), table.NewInt(1), table.NewInt(2),
		table.NewInt(0), table.NewInt(1), table.NewInt(2), table.NewInt(0),
	}
	assert.Equal(t, want, got)
}

func TestDictRef(t *testing.T) {
	dicts := map[string][]string{"d": {"red", "green", "blue"}}
	op := NewDictRef("d", 1)
	got, err := op.Expand(nil, dicts)
	require.NoError(t, err)
	assert.Equal(t, []table.Value{table.NewString("green", false)}, got)
}

func TestDictRef_UnknownDictionary(t *testing.T) {
	op := NewDictRef("missing", 0)
	_, err := op.Expand(nil, map[string][]string{})
	assert.ErrorIs(t, err, errs.ErrInvalidDictRef)
}

func TestToken(t *testing.T) {
	raw := NewRaw(table.NewInt(5))
	assert.Equal(t, "5", raw.Token())

	rng, err := NewRange(1, 5, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, "1>5:1", rng.Token())

	mul := NewMultiply(rng, 3)
	assert.Equal(t, "1>5:1*3", mul.Token())

	tog := NewToggle(table.NewInt(0), table.NewInt(1), 4)
	assert.Equal(t, "0~1*4", tog.Token())

	ref := NewDictRef("d0", 2)
	assert.Equal(t, "$d0.2", ref.Token())
}

func TestDictRef_IndexOutOfRange(t *testing.T) {
	op := NewDictRef("d", 5)
	_, err := op.Expand(nil, map[string][]string{"d": {"a"}})
	assert.ErrorIs(t, err, errs.ErrInvalidDictRef)
}
