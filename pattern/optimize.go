package pattern

import (
	"github.com/alsfmt/als/format"
	"github.com/alsfmt/als/operator"
	"github.com/alsfmt/als/table"
)

// Cover is the chosen disjoint sequence of operators spanning an
// entire column, in left-to-right order.
type Cover struct {
	Ops   []*operator.Operator
	Types []format.PatternType
}

// choice records, for the DP transition landing at cell index i, which
// candidate (or single Raw cell) produced the cheapest dp[i].
type choice struct {
	fromIndex int
	op        *operator.Operator
	patType   format.PatternType
}

// Optimize runs the C5 dynamic-programming pass: given every
// candidate DetectionResult proposed for a column (D1-D4, already
// computed by the caller) plus the implicit per-cell Raw candidate,
// it chooses the disjoint cover minimizing total encoded byte length
// (§4.5).
//
// dp[i] holds the cheapest token-cost total (plus one phantom
// separator per operator, see TokenCost) to cover cells [0, i). Ties
// prefer the candidate with the lower pattern-type ordinal (D1 < D3 <
// D2 < D4), then the longer span — both checked in candidate
// generation order below since candidates are visited start-then-end.
func Optimize(col *table.Column, candidates []DetectionResult) Cover {
	n := col.Len()
	if n == 0 {
		return Cover{}
	}

	const inf = int(^uint(0) >> 1)
	dp := make([]int, n+1)
	back := make([]choice, n+1)
	for i := 1; i <= n; i++ {
		dp[i] = inf
	}

	byEnd := make(map[int][]DetectionResult, n)
	for _, c := range candidates {
		end := c.Start + c.Length
		byEnd[end] = append(byEnd[end], c)
	}

	for i := 1; i <= n; i++ {
		// Raw fallback: extend dp[i-1] by one cell.
		rawCost := len(col.Values[i-1].Literal()) + 1
		if dp[i-1]+rawCost < dp[i] {
			dp[i] = dp[i-1] + rawCost
			back[i] = choice{fromIndex: i - 1, op: operator.NewRaw(col.Values[i-1]), patType: format.RawFallback}
		}

		for _, c := range byEnd[i] {
			from := c.Start
			cost := dp[from] + c.Cost + 1
			if cost > dp[i] {
				continue
			}
			if cost < dp[i] || betterTie(c.Type, back[i].patType, c.Length, i-from) {
				dp[i] = cost
				back[i] = choice{fromIndex: from, op: c.Op, patType: c.Type}
			}
		}
	}

	// Reconstruct the chosen cover by walking `back` from n to 0.
	var revOps []*operator.Operator
	var revTypes []format.PatternType
	for i := n; i > 0; {
		revOps = append(revOps, back[i].op)
		revTypes = append(revTypes, back[i].patType)
		i = back[i].fromIndex
	}

	cover := Cover{Ops: make([]*operator.Operator, len(revOps)), Types: make([]format.PatternType, len(revTypes))}
	for i, op := range revOps {
		cover.Ops[len(revOps)-1-i] = op
	}
	for i, t := range revTypes {
		cover.Types[len(revTypes)-1-i] = t
	}
	return cover
}

// betterTie decides whether a newly-seen candidate of type newType
// spanning newSpan cells should replace the incumbent of type
// curType spanning curSpan cells, given they cost the same. Lower
// pattern-type ordinal wins; RawFallback (the highest ordinal) never
// wins a tie it didn't start with. Equal ordinals prefer the longer
// span.
func betterTie(newType, curType format.PatternType, newSpan, curSpan int) bool {
	if newType != curType {
		return newType < curType
	}
	return newSpan > curSpan
}
