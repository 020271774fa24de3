// Package als provides Array List Serialization, a textual,
// column-oriented compressed representation for tabular data.
//
// ALS trades binary entropy coding for pattern-aware textual encoding:
// sequential ranges, repetitions, and alternating toggles collapse to
// short operator tokens, and repeated strings hoist into shared
// dictionaries referenced by a compact `$dict.index` token. A document
// that would not compress well falls back to a verbatim CTX payload, so
// the output is never much larger than the input.
//
// # Core Features
//
//   - Column-oriented pattern detection (sequential ranges, repetition,
//     alternation, and their repeated-composite forms)
//   - Adaptive dictionary promotion for low-cardinality and frequently
//     repeated strings
//   - CSV and JSON ingest with deterministic column ordering
//   - A CTX verbatim fallback that bounds worst-case output size
//   - Lock-free statistics for every compression run
//
// # Basic Usage
//
//	import "github.com/alsfmt/als"
//
//	raw := "id,name\n1,alice\n2,bob\n"
//	out, err := als.Compress(context.Background(), raw, "csv", nil)
//
//	back, err := als.Decompress(out, "csv", false)
package als

import (
	"context"
	"fmt"
	"strings"

	"github.com/alsfmt/als/compress"
	"github.com/alsfmt/als/config"
	"github.com/alsfmt/als/document"
	"github.com/alsfmt/als/ingest"
	"github.com/alsfmt/als/table"
)

// Compress ingests raw as the named format ("csv" or "json") and
// compresses it to an ALS (or CTX fallback) document using cfg, or the
// package defaults when cfg is nil.
func Compress(ctx context.Context, raw string, format string, cfg *config.CompressorConfig) (string, error) {
	var tbl, err = ingestFormat(raw, format)
	if err != nil {
		return "", err
	}
	c := compress.New(cfg, nil)
	return c.Compress(ctx, raw, tbl)
}

// Decompress parses an ALS document and renders it back as the named
// output format ("csv" or "json"). lenient enables the hand-authored-
// document parsing extensions (SPEC_FULL.md §3/§4.8): an implicit range
// step, the grouped "(op)*n" multiply spelling, and an N-value toggle
// list.
func Decompress(alsDocument string, format string, lenient bool) (string, error) {
	cfg := document.DefaultParserConfig()
	cfg.Lenient = lenient
	doc, err := document.Parse(alsDocument, cfg)
	if err != nil {
		return "", fmt.Errorf("als: parsing document: %w", err)
	}
	if doc.Indicator.String() == "ctx" {
		return doc.CtxPayload, nil
	}

	tbl, err := doc.ToTable()
	if err != nil {
		return "", fmt.Errorf("als: expanding document: %w", err)
	}

	switch format {
	case "csv":
		return ingest.ToCSV(tbl)
	case "json":
		return ingest.ToJSON(tbl)
	default:
		return "", fmt.Errorf("als: unsupported output format %q", format)
	}
}

func ingestFormat(raw, format string) (*table.TabularData, error) {
	switch format {
	case "csv":
		return ingest.FromCSV(strings.NewReader(raw), ingest.DefaultCSVConfig())
	case "json":
		return ingest.FromJSON(strings.NewReader(raw))
	default:
		return nil, fmt.Errorf("als: unsupported input format %q", format)
	}
}
