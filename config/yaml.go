package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the §6.3 option table for YAML decoding. Fields
// are pointers so LoadYAML can tell "absent" from "explicitly zero"
// and only override what the file actually sets.
type fileConfig struct {
	CtxFallbackThreshold *float64 `yaml:"ctx_fallback_threshold"`
	HashmapThreshold     *int     `yaml:"hashmap_threshold"`
	MinPatternLength     *int     `yaml:"min_pattern_length"`
	MaxRangeExpansion    *int64   `yaml:"max_range_expansion"`
	MaxDictionaryEntries *int     `yaml:"max_dictionary_entries"`
	MaxInputSize         *int64   `yaml:"max_input_size"`
	EnumMaxCardinality   *int     `yaml:"enum_max_cardinality"`
	ParallelThreshold    *int     `yaml:"parallel_threshold"`
	AdmissionBytes       *int     `yaml:"admission_bytes"`
}

// LoadYAML decodes a CompressorConfig from YAML text, starting from the
// §6.3 defaults and overriding only the keys present in data. An
// unknown key is rejected (yaml.v3's strict decode mode) rather than
// silently ignored.
func LoadYAML(data []byte) (*CompressorConfig, error) {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		return nil, fmt.Errorf("config: decoding yaml: %w", err)
	}

	c := DefaultCompressorConfig()
	if fc.CtxFallbackThreshold != nil {
		c.CtxFallbackThreshold = *fc.CtxFallbackThreshold
	}
	if fc.HashmapThreshold != nil {
		c.HashmapThreshold = *fc.HashmapThreshold
	}
	if fc.MinPatternLength != nil {
		c.MinPatternLength = *fc.MinPatternLength
	}
	if fc.MaxRangeExpansion != nil {
		c.MaxRangeExpansion = *fc.MaxRangeExpansion
	}
	if fc.MaxDictionaryEntries != nil {
		c.MaxDictionaryEntries = *fc.MaxDictionaryEntries
	}
	if fc.MaxInputSize != nil {
		c.MaxInputSize = *fc.MaxInputSize
	}
	if fc.EnumMaxCardinality != nil {
		c.EnumMaxCardinality = *fc.EnumMaxCardinality
	}
	if fc.ParallelThreshold != nil {
		c.ParallelThreshold = *fc.ParallelThreshold
	}
	if fc.AdmissionBytes != nil {
		c.AdmissionBytes = *fc.AdmissionBytes
	}
	return c, nil
}
