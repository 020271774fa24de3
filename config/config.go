// Package config implements CompressorConfig construction (C12, §4.12,
// §6.3): a functional-options builder over the teacher's generic
// internal/options package, plus a YAML file loader for the CLI's
// --config flag.
package config

import (
	"github.com/alsfmt/als/internal/options"
)

// CompressorConfig bounds every tunable the compression façade (C9)
// reads, with the defaults documented in §6.3.
type CompressorConfig struct {
	CtxFallbackThreshold float64
	HashmapThreshold     int
	MinPatternLength     int
	MaxRangeExpansion    int64
	MaxDictionaryEntries int
	MaxInputSize         int64
	EnumMaxCardinality   int
	ParallelThreshold    int
	AdmissionBytes       int
}

// DefaultCompressorConfig returns the §6.3 defaults.
func DefaultCompressorConfig() *CompressorConfig {
	return &CompressorConfig{
		CtxFallbackThreshold: 0.95,
		HashmapThreshold:     64,
		MinPatternLength:     3,
		MaxRangeExpansion:    1_000_000_000,
		MaxDictionaryEntries: 65536,
		MaxInputSize:         1 << 30,
		EnumMaxCardinality:   16,
		ParallelThreshold:    10_000,
		AdmissionBytes:       1,
	}
}

// CompressorOption configures a CompressorConfig.
type CompressorOption = options.Option[*CompressorConfig]

// WithCtxFallbackThreshold overrides the ratio above which CTX fallback
// engages (§4.9 step 6).
func WithCtxFallbackThreshold(r float64) CompressorOption {
	return options.NoError(func(c *CompressorConfig) { c.CtxFallbackThreshold = r })
}

// WithHashmapThreshold overrides the adaptive map's upgrade point (C6).
func WithHashmapThreshold(n int) CompressorOption {
	return options.NoError(func(c *CompressorConfig) { c.HashmapThreshold = n })
}

// WithMinPatternLength overrides D2's minimum run length.
func WithMinPatternLength(n int) CompressorOption {
	return options.NoError(func(c *CompressorConfig) { c.MinPatternLength = n })
}

// WithMaxRangeExpansion overrides the Range operator's cell-count bound.
func WithMaxRangeExpansion(n int64) CompressorOption {
	return options.NoError(func(c *CompressorConfig) { c.MaxRangeExpansion = n })
}

// WithMaxDictionaryEntries overrides the per-dictionary entry cap.
func WithMaxDictionaryEntries(n int) CompressorOption {
	return options.NoError(func(c *CompressorConfig) { c.MaxDictionaryEntries = n })
}

// WithMaxInputSize overrides the hard ingest size limit.
func WithMaxInputSize(n int64) CompressorOption {
	return options.NoError(func(c *CompressorConfig) { c.MaxInputSize = n })
}

// WithEnumMaxCardinality overrides A2's per-column promotion threshold.
func WithEnumMaxCardinality(n int) CompressorOption {
	return options.NoError(func(c *CompressorConfig) { c.EnumMaxCardinality = n })
}

// WithParallelThreshold overrides the cell count below which the
// façade runs single-threaded.
func WithParallelThreshold(n int) CompressorOption {
	return options.NoError(func(c *CompressorConfig) { c.ParallelThreshold = n })
}

// WithAdmissionBytes overrides A1's break-even constant.
func WithAdmissionBytes(n int) CompressorOption {
	return options.NoError(func(c *CompressorConfig) { c.AdmissionBytes = n })
}

// New builds a CompressorConfig from the §6.3 defaults with opts applied
// in order.
func New(opts ...CompressorOption) (*CompressorConfig, error) {
	c := DefaultCompressorConfig()
	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}
	return c, nil
}
