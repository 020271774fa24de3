// Package compress implements the compressor façade (C9, §4.9): the
// single synchronous entry point that turns a table.TabularData into a
// serialized ALS document, wiring together pattern detection (C4),
// cover optimization (C5), the dictionary builder (C6), and the
// serializer (C7), and falling back to a verbatim CTX document when
// the pattern-encoded output would not pay for itself.
package compress

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alsfmt/als/document"
	"github.com/alsfmt/als/config"
	"github.com/alsfmt/als/dict"
	"github.com/alsfmt/als/errs"
	"github.com/alsfmt/als/format"
	"github.com/alsfmt/als/operator"
	"github.com/alsfmt/als/pattern"
	"github.com/alsfmt/als/stats"
	"github.com/alsfmt/als/table"
)

// Compressor runs the façade pipeline against a fixed configuration,
// accumulating statistics across every Compress call it serves.
type Compressor struct {
	cfg    *config.CompressorConfig
	stats  *stats.Recorder
	logger *zap.Logger
}

// New builds a Compressor. A nil cfg uses config.DefaultCompressorConfig;
// a nil logger discards log output.
func New(cfg *config.CompressorConfig, logger *zap.Logger) *Compressor {
	if cfg == nil {
		cfg = config.DefaultCompressorConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compressor{cfg: cfg, stats: stats.New(), logger: logger}
}

// Stats returns a point-in-time snapshot of this Compressor's
// accumulated statistics (C10).
func (c *Compressor) Stats() stats.Snapshot {
	return c.stats.Snapshot()
}

// Compress runs the full façade pipeline (§4.9 steps 1-6) over tbl,
// whose cells must have been ingested from raw, and returns the
// serialized ALS (or, on fallback, CTX) document.
func (c *Compressor) Compress(ctx context.Context, raw string, tbl *table.TabularData) (string, error) {
	if int64(len(raw)) > c.cfg.MaxInputSize {
		return "", errs.ErrInputTooLarge
	}
	c.stats.AddInputBytes(int64(len(raw)))

	covers, err := c.computeCovers(ctx, tbl)
	if err != nil {
		return "", err
	}

	if err := checkCancelled(ctx); err != nil {
		return "", err
	}

	dictResult := c.buildDictionaries(tbl)
	c.reoptimizeWithDictionaries(tbl, covers, dictResult)

	doc := c.buildDocument(tbl, covers, dictResult)
	output := document.Serialize(doc)

	ratio := computeRatio(output, raw)
	if ratio > c.cfg.CtxFallbackThreshold {
		c.logger.Debug("ctx fallback engaged", zap.Float64("ratio", ratio))
		c.stats.RecordCtxFallback()
		output = document.Serialize(&document.Document{
			MajorVersion: document.CurrentMajorVersion,
			MinorVersion: document.CurrentMinorVersion,
			Indicator:    format.Ctx,
			CtxPayload:   raw,
		})
	}

	c.stats.AddOutputBytes(int64(len(output)))
	return output, nil
}

// computeCovers runs pattern detection and optimization (C4/C5) for
// every column, one column per errgroup worker once the table is large
// enough to be worth parallelizing (§5: parallel_threshold).
func (c *Compressor) computeCovers(ctx context.Context, tbl *table.TabularData) ([]pattern.Cover, error) {
	patCfg := pattern.Config{
		MinPatternLength:  c.cfg.MinPatternLength,
		MaxRangeExpansion: c.cfg.MaxRangeExpansion,
	}

	covers := make([]pattern.Cover, len(tbl.Columns))

	if totalCells(tbl) < c.cfg.ParallelThreshold {
		for i, col := range tbl.Columns {
			if err := checkCancelled(ctx); err != nil {
				return nil, err
			}
			covers[i] = coverColumn(col, patCfg)
		}
		return covers, nil
	}

	group, gctx := errgroup.WithContext(ctx)
	for i, col := range tbl.Columns {
		i, col := i, col
		group.Go(func() error {
			if err := checkCancelled(gctx); err != nil {
				return err
			}
			covers[i] = coverColumn(col, patCfg)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return covers, nil
}

// coverColumn runs every detector (D1-D4) over col and hands the
// combined candidate list to the cost-minimizing optimizer (C5).
func coverColumn(col *table.Column, cfg pattern.Config) pattern.Cover {
	rangeResults := pattern.DetectSequentialRange(col, cfg)
	repResults := pattern.DetectRepetition(col, cfg)
	altResults := pattern.DetectAlternation(col, cfg)
	compResults := pattern.DetectComposite(rangeResults, altResults)

	candidates := make([]pattern.DetectionResult, 0, len(rangeResults)+len(repResults)+len(altResults)+len(compResults))
	candidates = append(candidates, rangeResults...)
	candidates = append(candidates, repResults...)
	candidates = append(candidates, altResults...)
	candidates = append(candidates, compResults...)

	return pattern.Optimize(col, candidates)
}

// buildDictionaries runs the dictionary builder (C6) once, globally,
// over every String column in tbl.
func (c *Compressor) buildDictionaries(tbl *table.TabularData) *dict.Result {
	dictCfg := dict.Config{
		HashmapThreshold:     c.cfg.HashmapThreshold,
		AdmissionBytes:       c.cfg.AdmissionBytes,
		EnumMaxCardinality:   c.cfg.EnumMaxCardinality,
		MaxDictionaryEntries: c.cfg.MaxDictionaryEntries,
	}
	return dict.NewBuilder(dictCfg).Build(tbl)
}

// reoptimizeWithDictionaries re-runs the optimizer (§4.9 step 3) for
// every String column that received dictionary admissions, now that
// DictRef is a candidate alongside the original D1-D4 detections: a
// cell whose string was admitted can be replaced by a reference
// cheaper (or no more expensive, and preferred on tie per DictRef's
// pattern-type ordinal) than writing it out raw.
func (c *Compressor) reoptimizeWithDictionaries(tbl *table.TabularData, covers []pattern.Cover, result *dict.Result) {
	for i, col := range tbl.Columns {
		if col.Type != format.String {
			continue
		}
		assignment := result.Assignment[col.Name]
		if len(assignment) == 0 {
			continue
		}

		dictCandidates := make([]pattern.DetectionResult, 0, len(assignment))
		for idx, v := range col.Values {
			if v.IsNull() {
				continue
			}
			loc, ok := assignment[v.Str]
			if !ok {
				continue
			}
			op := operator.NewDictRef(loc.DictID, loc.LocalIndex)
			dictCandidates = append(dictCandidates, pattern.DetectionResult{
				Type: format.DictRef, Start: idx, Length: 1, Op: op, Cost: pattern.TokenCost(op),
			})
		}
		if len(dictCandidates) == 0 {
			continue
		}

		rerun := append(dictCandidates, c.coverOriginalCandidates(col)...)
		covers[i] = pattern.Optimize(col, rerun)
		c.stats.RecordDictHit()
	}
}

// coverOriginalCandidates re-derives the D1-D4 candidates for col, so
// reoptimizeWithDictionaries can feed the optimizer the full candidate
// set (original patterns plus the new DictRef ones) in a single pass,
// rather than trying to merge two independently-chosen covers.
func (c *Compressor) coverOriginalCandidates(col *table.Column) []pattern.DetectionResult {
	cfg := pattern.Config{
		MinPatternLength:  c.cfg.MinPatternLength,
		MaxRangeExpansion: c.cfg.MaxRangeExpansion,
	}
	rangeResults := pattern.DetectSequentialRange(col, cfg)
	repResults := pattern.DetectRepetition(col, cfg)
	altResults := pattern.DetectAlternation(col, cfg)
	compResults := pattern.DetectComposite(rangeResults, altResults)

	out := make([]pattern.DetectionResult, 0, len(rangeResults)+len(repResults)+len(altResults)+len(compResults))
	out = append(out, rangeResults...)
	out = append(out, repResults...)
	out = append(out, altResults...)
	out = append(out, compResults...)
	return out
}

func (c *Compressor) buildDocument(tbl *table.TabularData, covers []pattern.Cover, dictResult *dict.Result) *document.Document {
	schema := make([]document.ColumnSpec, len(tbl.Columns))
	streams := make([]*document.ColumnStream, len(tbl.Columns))
	var encodings []stats.ColumnEncoding

	for i, col := range tbl.Columns {
		schema[i] = document.ColumnSpec{Name: col.Name, Type: col.Type}
		streams[i] = &document.ColumnStream{Ops: covers[i].Ops}

		for _, t := range covers[i].Types {
			c.stats.RecordPatternUse(t)
		}
		if len(covers[i].Types) > 0 {
			encodings = append(encodings, stats.ColumnEncoding{
				Column:  col.Name,
				Pattern: dominantPattern(covers[i].Types),
			})
		}
	}
	c.stats.RecordColumnEncodings(encodings)

	return &document.Document{
		MajorVersion: document.CurrentMajorVersion,
		MinorVersion: document.CurrentMinorVersion,
		Dictionaries: dictResult.Dictionaries,
		DictOrder:    dictResult.Order,
		Schema:       schema,
		Streams:      streams,
		Indicator:    format.Als,
	}
}

// dominantPattern reports the pattern type used by the most operators
// within a single column's cover, for the per-column "best encoding
// chosen" statistic (C10). Operators are counted, not the cells they
// expand to; on a tie the type that reached the top count first wins.
func dominantPattern(types []format.PatternType) format.PatternType {
	counts := make(map[format.PatternType]int, len(types))
	best := types[0]
	for _, t := range types {
		counts[t]++
		if counts[t] > counts[best] {
			best = t
		}
	}
	return best
}

func totalCells(tbl *table.TabularData) int {
	total := 0
	for _, col := range tbl.Columns {
		total += col.Len()
	}
	return total
}

func computeRatio(output, raw string) float64 {
	if len(raw) == 0 {
		if len(output) == 0 {
			return 0
		}
		return 1
	}
	return float64(len(output)) / float64(len(raw))
}

func checkCancelled(ctx context.Context) error {
	if ctx.Err() != nil {
		return errs.ErrCancelled
	}
	return nil
}
