package dict

import (
	"sync"

	"github.com/alsfmt/als/internal/collision"
	"github.com/alsfmt/als/internal/hash"
)

// numShards is the shard count the adaptive map upgrades to once past
// its threshold; chosen as a fixed small power of two rather than
// scaling with GOMAXPROCS since the dictionary scan is bounded by the
// column-parallel scheduler's own worker count, not this map's.
const numShards = 16

// stringStat accumulates A1 frequency-pruning inputs for one distinct
// string: its occurrence count and total byte length (§4.6 computes
// mean length as totalLen/count).
type stringStat struct {
	sample   string
	count    int
	totalLen int
}

// findOrInsert scans bucket[h] for an exact match before inserting,
// so two distinct strings sharing a 64-bit hash chain instead of
// clobbering each other's counts.
func findOrInsert(buckets map[uint64][]*stringStat, h uint64, s string) (*stringStat, bool) {
	for _, st := range buckets[h] {
		if st.sample == s {
			return st, false
		}
	}
	st := &stringStat{sample: s}
	buckets[h] = append(buckets[h], st)
	return st, true
}

type mapShard struct {
	mu      sync.Mutex
	entries map[uint64][]*stringStat
}

// adaptiveMap is the §4.6 "adaptive map": a single mutex-guarded table
// below threshold distinct entries, upgrading in place to a sharded,
// per-shard-locked table once the scan grows past it so concurrent
// column scans stop serializing on one lock. Collisions within a hash
// bucket are tracked (small-mode only — see observe) purely for
// diagnostics; correctness never depends on xxhash being collision-free
// because every bucket does an exact string comparison.
type adaptiveMap struct {
	threshold int

	mu            sync.Mutex
	small         map[uint64][]*stringStat
	sharded       bool
	shards        [numShards]*mapShard
	distinctCount int
	tracker       *collision.Tracker
}

func newAdaptiveMap(threshold int) *adaptiveMap {
	return &adaptiveMap{
		threshold: threshold,
		small:     make(map[uint64][]*stringStat),
		tracker:   collision.NewTracker(),
	}
}

// observe records one occurrence of s. Safe for concurrent use from
// multiple column-scanning goroutines.
func (m *adaptiveMap) observe(s string) {
	h := hash.ID(s)

	m.mu.Lock()
	if !m.sharded {
		m.tracker.Observe(h, s)
		st, inserted := findOrInsert(m.small, h, s)
		if inserted {
			m.distinctCount++
		}
		st.count++
		st.totalLen += len(s)
		if m.distinctCount >= m.threshold {
			m.upgradeLocked()
		}
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	shard := m.shards[h%numShards]
	shard.mu.Lock()
	st, _ := findOrInsert(shard.entries, h, s)
	st.count++
	st.totalLen += len(s)
	shard.mu.Unlock()
}

// upgradeLocked redistributes every bucket in the small map across
// numShards shards keyed by hash % numShards. Called with m.mu held.
func (m *adaptiveMap) upgradeLocked() {
	m.sharded = true
	for i := range m.shards {
		m.shards[i] = &mapShard{entries: make(map[uint64][]*stringStat)}
	}
	for h, bucket := range m.small {
		idx := h % numShards
		m.shards[idx].entries[h] = append(m.shards[idx].entries[h], bucket...)
	}
	m.small = nil
}

// all returns every distinct string observed, in no particular order.
// The caller is responsible for imposing whatever deterministic
// ordering its admission pass requires.
func (m *adaptiveMap) all() []*stringStat {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*stringStat
	if !m.sharded {
		for _, bucket := range m.small {
			out = append(out, bucket...)
		}
		return out
	}
	for _, shard := range m.shards {
		shard.mu.Lock()
		for _, bucket := range shard.entries {
			out = append(out, bucket...)
		}
		shard.mu.Unlock()
	}
	return out
}
