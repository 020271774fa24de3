package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_NoCollision(t *testing.T) {
	tr := NewTracker()

	assert.False(t, tr.Observe(1, "red"))
	assert.False(t, tr.Observe(1, "red")) // repeat, not a collision
	assert.False(t, tr.Observe(2, "green"))
	assert.False(t, tr.HasAnyCollision())
}

func TestTracker_DetectsCollision(t *testing.T) {
	tr := NewTracker()

	require.False(t, tr.Observe(1, "red"))
	assert.True(t, tr.Observe(1, "blue")) // same hash, different string
	assert.True(t, tr.Collided(1))
	assert.False(t, tr.Collided(2))
	assert.True(t, tr.HasAnyCollision())
}

func TestTracker_Reset(t *testing.T) {
	tr := NewTracker()
	tr.Observe(1, "red")
	tr.Observe(1, "blue")
	require.True(t, tr.HasAnyCollision())

	tr.Reset()

	assert.False(t, tr.HasAnyCollision())
	assert.False(t, tr.Collided(1))
	// after reset, first observation under hash 1 is fresh again
	assert.False(t, tr.Observe(1, "green"))
}
