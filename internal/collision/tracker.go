// Package collision tracks hash collisions for the dictionary builder's
// adaptive map (§4.6). The map keys distinct strings by a 64-bit hash for
// speed; a Tracker records, per hash, the first string observed under it
// so a caller can detect the rare case where two distinct strings share a
// hash and fall back to exact string comparison for that bucket instead
// of silently merging their frequency counts.
package collision

// Tracker records the first string observed under each hash and reports
// whether a later observation under the same hash is a genuine collision
// (a different string) rather than a repeat occurrence of the same one.
type Tracker struct {
	seen         map[uint64]string
	collidedKeys map[uint64]bool
}

// NewTracker creates a new, empty collision tracker.
func NewTracker() *Tracker {
	return &Tracker{
		seen: make(map[uint64]string),
	}
}

// Observe records that s was seen under hash. It returns true the first
// time a distinct string is observed under a hash that already maps to a
// different string — i.e. a genuine hash collision, not a repeat.
func (t *Tracker) Observe(hash uint64, s string) (isCollision bool) {
	existing, ok := t.seen[hash]
	if !ok {
		t.seen[hash] = s
		return false
	}
	if existing == s {
		return false
	}

	if t.collidedKeys == nil {
		t.collidedKeys = make(map[uint64]bool)
	}
	t.collidedKeys[hash] = true

	return true
}

// Collided reports whether hash has ever been observed with two distinct
// strings.
func (t *Tracker) Collided(hash uint64) bool {
	return t.collidedKeys[hash]
}

// HasAnyCollision reports whether any collision has been observed so far.
func (t *Tracker) HasAnyCollision() bool {
	return len(t.collidedKeys) > 0
}

// Reset clears all tracked state, allowing the tracker to be reused for a
// new document.
func (t *Tracker) Reset() {
	for k := range t.seen {
		delete(t.seen, k)
	}
	for k := range t.collidedKeys {
		delete(t.collidedKeys, k)
	}
}
