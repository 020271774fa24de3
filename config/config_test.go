package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCompressorConfig(t *testing.T) {
	c := DefaultCompressorConfig()
	assert.Equal(t, 0.95, c.CtxFallbackThreshold)
	assert.Equal(t, 64, c.HashmapThreshold)
	assert.Equal(t, int64(1_000_000_000), c.MaxRangeExpansion)
	assert.Equal(t, int64(1<<30), c.MaxInputSize)
}

func TestNew_AppliesOptionsOverDefaults(t *testing.T) {
	c, err := New(
		WithCtxFallbackThreshold(0.8),
		WithEnumMaxCardinality(32),
	)
	require.NoError(t, err)
	assert.Equal(t, 0.8, c.CtxFallbackThreshold)
	assert.Equal(t, 32, c.EnumMaxCardinality)
	assert.Equal(t, 64, c.HashmapThreshold) // untouched default
}

func TestLoadYAML_OverridesOnlyGivenKeys(t *testing.T) {
	data := []byte("ctx_fallback_threshold: 0.75\nhashmap_threshold: 128\n")
	c, err := LoadYAML(data)
	require.NoError(t, err)
	assert.Equal(t, 0.75, c.CtxFallbackThreshold)
	assert.Equal(t, 128, c.HashmapThreshold)
	assert.Equal(t, 16, c.EnumMaxCardinality) // default, untouched
}

func TestLoadYAML_RejectsUnknownKey(t *testing.T) {
	data := []byte("not_a_real_option: 1\n")
	_, err := LoadYAML(data)
	assert.Error(t, err)
}
