// Package stats implements the process-wide statistics record (C10,
// §4.10): monotonically increasing atomic counters that the
// compression façade's parallel column workers update without
// coordination, and that callers read without locking. Statistics are
// advisory; nothing in the compression/decompression path branches on
// them.
package stats

import (
	"sync/atomic"

	"github.com/alsfmt/als/format"
)

// ColumnEncoding names one column and the pattern type its cover ended
// up dominated by, in schema column order.
type ColumnEncoding struct {
	Column  string
	Pattern format.PatternType
}

// Recorder accumulates commutative, atomic counters across an
// arbitrary number of concurrent column workers.
type Recorder struct {
	inputBytes  atomic.Int64
	outputBytes atomic.Int64

	patternUses  [7]atomic.Int64 // indexed by format.PatternType - 1
	dictHits     atomic.Int64
	ctxFallbacks atomic.Int64

	columnEncoding atomic.Pointer[[]ColumnEncoding]
}

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{}
}

// AddInputBytes adds n to the running input-byte total.
func (r *Recorder) AddInputBytes(n int64) { r.inputBytes.Add(n) }

// AddOutputBytes adds n to the running output-byte total.
func (r *Recorder) AddOutputBytes(n int64) { r.outputBytes.Add(n) }

// RecordPatternUse increments the per-pattern-type use counter.
func (r *Recorder) RecordPatternUse(p format.PatternType) {
	if p >= 1 && int(p) <= len(r.patternUses) {
		r.patternUses[p-1].Add(1)
	}
}

// RecordDictHit increments the dictionary-reference counter.
func (r *Recorder) RecordDictHit() { r.dictHits.Add(1) }

// RecordCtxFallback increments the CTX-fallback-engaged counter.
func (r *Recorder) RecordCtxFallback() { r.ctxFallbacks.Add(1) }

// RecordColumnEncodings publishes the per-column report for one
// Compress run: the compressor façade builds entries positionally, the
// same way computeCovers fills its covers slice, then hands the
// finished slice to a single atomic pointer swap here — no per-column
// locking, matching every other counter in this Recorder.
func (r *Recorder) RecordColumnEncodings(entries []ColumnEncoding) {
	r.columnEncoding.Store(&entries)
}

// Snapshot is a point-in-time, race-free copy of a Recorder's counters.
type Snapshot struct {
	InputBytes     int64
	OutputBytes    int64
	PatternUses    map[format.PatternType]int64
	DictHits       int64
	CtxFallbacks   int64
	ColumnEncoding []ColumnEncoding
}

// Ratio returns OutputBytes/InputBytes, or 0 if InputBytes is 0.
func (s Snapshot) Ratio() float64 {
	if s.InputBytes == 0 {
		return 0
	}
	return float64(s.OutputBytes) / float64(s.InputBytes)
}

// Snapshot reads every counter into a Snapshot.
func (r *Recorder) Snapshot() Snapshot {
	uses := make(map[format.PatternType]int64)
	for i := range r.patternUses {
		if v := r.patternUses[i].Load(); v != 0 {
			uses[format.PatternType(i+1)] = v
		}
	}

	var encoding []ColumnEncoding
	if p := r.columnEncoding.Load(); p != nil {
		encoding = append(encoding, (*p)...)
	}

	return Snapshot{
		InputBytes:     r.inputBytes.Load(),
		OutputBytes:    r.outputBytes.Load(),
		PatternUses:    uses,
		DictHits:       r.dictHits.Load(),
		CtxFallbacks:   r.ctxFallbacks.Load(),
		ColumnEncoding: encoding,
	}
}
