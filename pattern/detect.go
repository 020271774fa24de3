// Package pattern implements the column pattern detectors (C4, D1-D4)
// and the cost-minimizing cover optimizer (C5) described in §4.4-4.5.
// Detectors are pure functions over a table.Column; they hold no
// shared mutable state so a caller may run one detector per column
// concurrently (the compressor façade's column-parallel scheduler
// does exactly this), while the four detectors for a single column
// run sequentially against the same slice.
package pattern

import (
	"math"

	"github.com/alsfmt/als/format"
	"github.com/alsfmt/als/operator"
	"github.com/alsfmt/als/table"
)

// DetectionResult is one candidate span proposed for a column's
// operator cover: a pattern type, the [Start, Start+Length) cell
// range it covers, the operator that reproduces those cells, and its
// serialized token cost.
type DetectionResult struct {
	Type   format.PatternType
	Start  int
	Length int
	Op     *operator.Operator
	Cost   int
}

// Config bounds the detectors' pattern search. Zero-value Config is
// invalid; use DefaultConfig.
type Config struct {
	// MinPatternLength is the minimum run length D2 (repetition) and
	// D3 (alternation, measured after even-length truncation and never
	// below 4) requires before reporting.
	MinPatternLength int
	// MaxRangeExpansion bounds D1 range candidates the same way
	// operator.NewRange does (§3).
	MaxRangeExpansion int64
}

// DefaultConfig matches the defaults named in §4.4/§4.6.
func DefaultConfig() Config {
	return Config{MinPatternLength: 3, MaxRangeExpansion: 1_000_000_000}
}

// DetectSequentialRange is D1: a greedy left-to-right scan for
// numeric arithmetic progressions of length >= 3, with a fixed
// nonzero step (integer equality, or float equality within a
// platform epsilon of 2^-52 * max(|a|,|b|)).
func DetectSequentialRange(col *table.Column, cfg Config) []DetectionResult {
	if col.Type != format.Integer && col.Type != format.Float {
		return nil
	}
	vals := col.Values
	n := len(vals)
	var results []DetectionResult

	isFloat := col.Type == format.Float

	i := 0
	for i+2 < n {
		var step float64
		var ok bool
		if isFloat {
			step = vals[i+1].Float - vals[i].Float
			ok = step != 0
		} else {
			step = float64(vals[i+1].Int - vals[i].Int)
			ok = step != 0
		}
		if !ok {
			i++
			continue
		}

		j := i + 2
		for j < n {
			var diff float64
			if isFloat {
				diff = vals[j].Float - vals[j-1].Float
			} else {
				diff = float64(vals[j].Int - vals[j-1].Int)
			}
			if isFloat {
				if !floatStepEqual(diff, step, vals[j].Float, vals[j-1].Float) {
					break
				}
			} else if diff != step {
				break
			}
			j++
		}

		length := j - i
		if length >= 3 {
			var op *operator.Operator
			var err error
			if isFloat {
				op, err = operator.NewFloatRange(vals[i].Float, vals[j-1].Float, step, length, cfg.MaxRangeExpansion)
			} else {
				op, err = operator.NewRange(vals[i].Int, vals[j-1].Int, int64(step), cfg.MaxRangeExpansion)
			}
			if err == nil {
				results = append(results, DetectionResult{
					Type: format.SequentialRange, Start: i, Length: length, Op: op, Cost: TokenCost(op),
				})
			}
			i = j
			continue
		}
		i++
	}
	return results
}

// floatStepEqual reports whether diff and step agree within a
// platform epsilon scaled to the magnitude of the two cell values the
// difference was computed from (§4.4 D1).
func floatStepEqual(diff, step, a, b float64) bool {
	scale := math.Max(math.Abs(a), math.Abs(b))
	eps := math.Exp2(-52) * scale
	if eps == 0 {
		eps = math.Exp2(-52)
	}
	return math.Abs(diff-step) <= eps
}

// DetectRepetition is D2: a greedy run of type-appropriate-equal
// values of length >= MinPatternLength, emitted as Multiply(Raw(v), n).
func DetectRepetition(col *table.Column, cfg Config) []DetectionResult {
	vals := col.Values
	n := len(vals)
	var results []DetectionResult

	i := 0
	for i < n {
		j := i + 1
		for j < n && vals[j].Equal(vals[i]) {
			j++
		}
		length := j - i
		if length >= cfg.MinPatternLength {
			op := operator.NewMultiply(operator.NewRaw(vals[i]), length)
			results = append(results, DetectionResult{
				Type: format.Repetition, Start: i, Length: length, Op: op, Cost: TokenCost(op),
			})
			i = j
			continue
		}
		i++
	}
	return results
}

// DetectAlternation is D3: a run a,b,a,b,... with a != b of length
// >= 4, truncated to even length at the first break. Emitted as
// Toggle(a, b, n).
func DetectAlternation(col *table.Column, cfg Config) []DetectionResult {
	vals := col.Values
	n := len(vals)
	minLen := cfg.MinPatternLength
	if minLen < 4 {
		minLen = 4
	}
	var results []DetectionResult

	i := 0
	for i+3 < n {
		a, b := vals[i], vals[i+1]
		if a.Equal(b) {
			i++
			continue
		}

		j := i + 2
		for j < n {
			want := a
			if (j-i)%2 == 1 {
				want = b
			}
			if !vals[j].Equal(want) {
				break
			}
			j++
		}

		length := j - i
		if length%2 != 0 {
			length--
		}
		if length >= minLen {
			op := operator.NewToggle(a, b, length)
			results = append(results, DetectionResult{
				Type: format.Alternation, Start: i, Length: length, Op: op, Cost: TokenCost(op),
			})
			i += length
			continue
		}
		i++
	}
	return results
}

// DetectComposite is D4: repeated range and repeated alternation
// patterns, discovered by coalescing adjacent D1 or D3 results that
// share identical parameters (same step and count, or same toggle
// pair and count) into Multiply(Range(...), k) / Multiply(Toggle(...), k).
func DetectComposite(rangeResults, alternationResults []DetectionResult) []DetectionResult {
	var out []DetectionResult
	out = append(out, coalesce(rangeResults, format.RepeatedRange, rangeRepeatKey)...)
	out = append(out, coalesce(alternationResults, format.RepeatedToggle, toggleRepeatKey)...)
	return out
}

func rangeRepeatKey(op *operator.Operator) (any, bool) {
	if op.Kind != operator.Range {
		return nil, false
	}
	if op.RangeIsFloat {
		return [4]any{true, op.RangeFloatStart, op.RangeFloatEnd, op.RangeFloatStep}, true
	}
	return [4]any{false, op.RangeStart, op.RangeEnd, op.RangeStep}, true
}

func toggleRepeatKey(op *operator.Operator) (any, bool) {
	if op.Kind != operator.Toggle || len(op.ToggleValues) != 2 {
		return nil, false
	}
	return [2]table.Value{op.ToggleValues[0], op.ToggleValues[1]}, true
}

// coalesce groups a sorted, disjoint, contiguous-candidate slice into
// runs of k>=2 adjacent results whose operator matches keyFn with the
// same key, and whose covered lengths are identical (a precondition
// for repeating the exact same sub-sequence rather than merely
// similar ones).
func coalesce(results []DetectionResult, kind format.PatternType, keyFn func(*operator.Operator) (any, bool)) []DetectionResult {
	var out []DetectionResult
	i := 0
	for i < len(results) {
		key, ok := keyFn(results[i].Op)
		if !ok {
			i++
			continue
		}
		j := i + 1
		for j < len(results) {
			nextKey, ok := keyFn(results[j].Op)
			if !ok || nextKey != key {
				break
			}
			if results[j].Length != results[i].Length {
				break
			}
			if results[j].Start != results[j-1].Start+results[j-1].Length {
				break
			}
			j++
		}

		k := j - i
		if k >= 2 {
			start := results[i].Start
			length := results[i].Length * k
			op := operator.NewMultiply(results[i].Op, k)
			out = append(out, DetectionResult{
				Type: kind, Start: start, Length: length, Op: op, Cost: TokenCost(op),
			})
		}
		i = j
	}
	return out
}
