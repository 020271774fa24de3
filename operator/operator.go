// Package operator implements the AlsOperator tagged union (§3, §4.3):
// the per-cell encoding tokens Raw, Range, Multiply, Toggle, and DictRef
// that a ColumnStream is built from. Operators form a tree — Multiply
// wraps one inner operator, while Toggle holds plain scalar values —
// with no cycles, so a single tagged
// struct with an optional inner pointer represents every shape without
// needing a separate interface per variant.
package operator

import (
	"strconv"
	"strings"

	"github.com/alsfmt/als/errs"
	"github.com/alsfmt/als/table"
)

// Kind discriminates which fields of an Operator are meaningful.
type Kind uint8

const (
	Raw Kind = iota
	Range
	Multiply
	Toggle
	DictRef
)

func (k Kind) String() string {
	switch k {
	case Raw:
		return "raw"
	case Range:
		return "range"
	case Multiply:
		return "multiply"
	case Toggle:
		return "toggle"
	case DictRef:
		return "dictref"
	default:
		return "unknown"
	}
}

// Operator is one node of an operator tree. Only the fields relevant to
// Kind are populated; the zero value is an invalid operator (use the
// constructors below).
type Operator struct {
	Kind Kind

	// Raw
	RawValue table.Value

	// Range: start, end, step (step != 0); Count is the number of
	// cells the range expands to, precomputed by NewRange/NewFloatRange
	// so later consumers never need to reconstruct it. RangeIsFloat
	// selects which pair of fields is meaningful: D1 detects float-step
	// progressions on Float columns (§4.4) in addition to integer ones.
	RangeIsFloat    bool
	RangeStart      int64
	RangeEnd        int64
	RangeStep       int64
	RangeFloatStart float64
	RangeFloatEnd   float64
	RangeFloatStep  float64
	RangeCount      int

	// Multiply: Inner is repeated Count times (Count >= 2).
	Inner *Operator
	Count int

	// Toggle: ToggleValues alternate in order, cycling to length N
	// (N >= 2). The spec's detectors only ever produce a 2-value
	// toggle; the parser additionally accepts longer lists as a
	// lenient extension (SPEC_FULL.md §3).
	ToggleValues []table.Value
	ToggleLen    int

	// DictRef
	DictID     string
	LocalIndex int
}

// NewRaw returns a literal-scalar operator.
func NewRaw(v table.Value) *Operator {
	return &Operator{Kind: Raw, RawValue: v}
}

// NewRange constructs a Range operator, validating that step is nonzero
// and that the expansion count fits within maxExpansion (§3: "the
// integer count ⌊(end − start)/step⌋ + 1 is bounded by a configurable
// max_range_expansion"). The constructor is overflow-safe: it computes
// the count using big-enough intermediate arithmetic before any
// expansion is attempted.
func NewRange(start, end, step int64, maxExpansion int64) (*Operator, error) {
	if step == 0 {
		return nil, &errs.RangeOverflowError{Start: start, End: end, Step: step, Limit: maxExpansion}
	}

	count, ok := rangeCount(start, end, step)
	if !ok || count <= 0 || count > maxExpansion {
		return nil, &errs.RangeOverflowError{Start: start, End: end, Step: step, Limit: maxExpansion}
	}

	return &Operator{
		Kind:       Range,
		RangeStart: start,
		RangeEnd:   end,
		RangeStep:  step,
		RangeCount: int(count),
	}, nil
}

// NewFloatRange constructs a floating-point arithmetic progression. Unlike
// the integer form, the expansion count is supplied by the caller (the
// float detector, D1) since equality along a float progression is judged
// within a platform epsilon rather than exact division; the constructor
// only re-validates the count against maxExpansion and rejects a zero
// step.
func NewFloatRange(start, end, step float64, count int, maxExpansion int64) (*Operator, error) {
	if step == 0 {
		return nil, &errs.RangeOverflowError{Limit: maxExpansion}
	}
	if count <= 0 || int64(count) > maxExpansion {
		return nil, &errs.RangeOverflowError{Limit: maxExpansion}
	}

	return &Operator{
		Kind:            Range,
		RangeIsFloat:    true,
		RangeFloatStart: start,
		RangeFloatEnd:   end,
		RangeFloatStep:  step,
		RangeCount:      count,
	}, nil
}

// rangeCount computes floor((end-start)/step)+1 without overflowing
// int64 for the differences involved, returning ok=false on overflow or
// on a step whose sign disagrees with the direction from start to end
// (e.g. start=1, end=5, step=-1 never reaches end).
func rangeCount(start, end, step int64) (int64, bool) {
	diff := end - start
	// Overflow check for the subtraction itself.
	if (end > start) != (diff > 0) && diff != 0 {
		return 0, false
	}
	if diff == 0 {
		return 1, true
	}
	if (diff > 0) != (step > 0) {
		return 0, false
	}

	count := diff/step + 1
	if count < 0 {
		return 0, false
	}

	return count, true
}

// NewMultiply wraps op to repeat n times (n >= 2).
func NewMultiply(op *Operator, n int) *Operator {
	return &Operator{Kind: Multiply, Inner: op, Count: n}
}

// NewToggle constructs a 2-value alternating pattern a,b,a,b,... of
// length n (n >= 2).
func NewToggle(a, b table.Value, n int) *Operator {
	return &Operator{Kind: Toggle, ToggleValues: []table.Value{a, b}, ToggleLen: n}
}

// NewToggleMulti constructs an N-value alternating pattern cycling
// through values, of total length n. This is the lenient-parser
// extension noted in SPEC_FULL.md §3; detectors never emit N > 2.
func NewToggleMulti(values []table.Value, n int) *Operator {
	return &Operator{Kind: Toggle, ToggleValues: values, ToggleLen: n}
}

// NewDictRef returns an operator resolving to dictionary[id][localIndex].
func NewDictRef(id string, localIndex int) *Operator {
	return &Operator{Kind: DictRef, DictID: id, LocalIndex: localIndex}
}

// Len returns the number of Values this operator expands to.
func (o *Operator) Len() int {
	switch o.Kind {
	case Raw, DictRef:
		return 1
	case Range:
		return o.RangeCount
	case Multiply:
		return o.Inner.Len() * o.Count
	case Toggle:
		return o.ToggleLen
	default:
		return 0
	}
}

// Expand appends this operator's expansion to dst and returns the
// extended slice. dictionaries resolves DictRef by id; it may be nil if
// the operator tree contains no DictRef nodes.
func (o *Operator) Expand(dst []table.Value, dictionaries map[string][]string) ([]table.Value, error) {
	switch o.Kind {
	case Raw:
		return append(dst, o.RawValue), nil

	case Range:
		if o.RangeIsFloat {
			v := o.RangeFloatStart
			for i := 0; i < o.RangeCount; i++ {
				dst = append(dst, table.NewFloat(v))
				v += o.RangeFloatStep
			}
			return dst, nil
		}
		v := o.RangeStart
		for i := 0; i < o.RangeCount; i++ {
			dst = append(dst, table.NewInt(v))
			v += o.RangeStep
		}
		return dst, nil

	case Multiply:
		for i := 0; i < o.Count; i++ {
			var err error
			dst, err = o.Inner.Expand(dst, dictionaries)
			if err != nil {
				return nil, err
			}
		}
		return dst, nil

	case Toggle:
		m := len(o.ToggleValues)
		for i := 0; i < o.ToggleLen; i++ {
			dst = append(dst, o.ToggleValues[i%m])
		}
		return dst, nil

	case DictRef:
		entries, ok := dictionaries[o.DictID]
		if !ok {
			return nil, &errs.InvalidDictRefError{DictID: o.DictID, LocalIndex: o.LocalIndex, Reason: "unknown dictionary id"}
		}
		if o.LocalIndex < 0 || o.LocalIndex >= len(entries) {
			return nil, &errs.InvalidDictRefError{DictID: o.DictID, LocalIndex: o.LocalIndex, Reason: "index out of range"}
		}
		return append(dst, table.NewString(entries[o.LocalIndex], false)), nil

	default:
		return dst, nil
	}
}

// Token renders o the way the serializer (C7) writes it into an
// op_seq — the single source of truth both the serializer and the
// pattern optimizer's cost estimates (pattern.TokenCost) build on, so
// a predicted cost can never drift from the text actually written.
func (o *Operator) Token() string {
	switch o.Kind {
	case Raw:
		return o.RawValue.Literal()

	case Range:
		if o.RangeIsFloat {
			return strconv.FormatFloat(o.RangeFloatStart, 'g', -1, 64) + ">" +
				strconv.FormatFloat(o.RangeFloatEnd, 'g', -1, 64) + ":" +
				strconv.FormatFloat(o.RangeFloatStep, 'g', -1, 64)
		}
		return strconv.FormatInt(o.RangeStart, 10) + ">" +
			strconv.FormatInt(o.RangeEnd, 10) + ":" +
			strconv.FormatInt(o.RangeStep, 10)

	case Multiply:
		return o.Inner.Token() + "*" + strconv.Itoa(o.Count)

	case Toggle:
		parts := make([]string, len(o.ToggleValues))
		for i, v := range o.ToggleValues {
			parts[i] = v.Literal()
		}
		return strings.Join(parts, "~") + "*" + strconv.Itoa(o.ToggleLen)

	case DictRef:
		return "$" + o.DictID + "." + strconv.Itoa(o.LocalIndex)

	default:
		return ""
	}
}
