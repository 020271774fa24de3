// Package dict implements the dictionary builder (C6, §4.6): the
// frequency-pruning (A1) and enum/boolean-promotion (A2) admission
// paths that decide which strings get hoisted into a shared
// dictionary and referenced by DictRef instead of written out in
// full, plus the adaptive map (adaptive_map.go) those paths scan
// through.
package dict

import (
	"sort"
	"strconv"

	"github.com/alsfmt/als/format"
	"github.com/alsfmt/als/table"
)

// Config bounds dictionary admission (§4.6, §6.3).
type Config struct {
	// HashmapThreshold is the adaptive map's upgrade point.
	HashmapThreshold int
	// AdmissionBytes is the break-even constant in the A1 formula
	// f(s) * (L(s) - ref_size(s)) > AdmissionBytes. The source plan
	// left this unpinned (§9 Open Questions); this implementation
	// derives it from the serializer's dictionary entry overhead: one
	// "," separator per admitted entry beyond the first, amortized.
	AdmissionBytes int
	// EnumMaxCardinality is A2's per-column promotion threshold.
	EnumMaxCardinality int
	// MaxDictionaryEntries caps any single dictionary's size.
	MaxDictionaryEntries int
}

// DefaultConfig matches the defaults in §6.3.
func DefaultConfig() Config {
	return Config{
		HashmapThreshold:     64,
		AdmissionBytes:       1,
		EnumMaxCardinality:   16,
		MaxDictionaryEntries: 65536,
	}
}

// Dictionary is one admitted, ordered, deduplicated set of strings.
// Local indices are assigned by insertion order (§4.6).
type Dictionary struct {
	ID      string
	Entries []string
	index   map[string]int
}

func newDictionary(id string) *Dictionary {
	return &Dictionary{ID: id, index: make(map[string]int)}
}

// NewDictionary returns an empty dictionary with the given id, for
// callers outside this package assembling a Dictionary directly (the
// parser, reconstructing dictionaries read off the wire).
func NewDictionary(id string) *Dictionary {
	return newDictionary(id)
}

// Add assigns s a local index if not already present and returns it.
func (d *Dictionary) Add(s string) int {
	if idx, ok := d.index[s]; ok {
		return idx
	}
	idx := len(d.Entries)
	d.Entries = append(d.Entries, s)
	d.index[s] = idx
	return idx
}

// IndexOf reports the local index of s, if present.
func (d *Dictionary) IndexOf(s string) (int, bool) {
	idx, ok := d.index[s]
	return idx, ok
}

// Location names where an admitted string landed: which dictionary,
// at which local index.
type Location struct {
	DictID     string
	LocalIndex int
}

// Result is the outcome of a Build pass.
type Result struct {
	// Dictionaries holds every admitted dictionary, keyed by id.
	Dictionaries map[string]*Dictionary
	// Order lists dictionary ids in creation order (one per A2-promoted
	// column, then the shared A1 dictionary), the order the serializer
	// writes them in — Go map iteration order can't be relied on.
	Order []string
	// Assignment maps column name -> (string -> Location) for every
	// string in that column that was admitted to some dictionary. A
	// string absent from its column's map was not admitted and stays
	// a Raw candidate.
	Assignment map[string]map[string]Location
}

// LocationFor looks up where, if anywhere, s in column col landed.
func (r *Result) LocationFor(col, s string) (Location, bool) {
	loc, ok := r.Assignment[col][s]
	return loc, ok
}

// Builder scans a table's string columns for A1 and A2 admission
// candidates and assembles the global dictionary set.
type Builder struct {
	cfg Config
}

// NewBuilder creates a Builder with the given configuration.
func NewBuilder(cfg Config) *Builder {
	return &Builder{cfg: cfg}
}

// Build runs the two admission paths over every String column in tbl
// and returns the resulting dictionary set and per-column assignment.
// Dictionary ids are assigned "d0", "d1", ... in the order dictionaries
// are created: first one per A2-promoted enum column (in column
// order), then at most one shared dictionary for A1 admissions.
func (b *Builder) Build(tbl *table.TabularData) *Result {
	freq := newAdaptiveMap(b.cfg.HashmapThreshold)

	var stringColumns []*table.Column
	for _, col := range tbl.Columns {
		if col.Type != format.String {
			continue
		}
		stringColumns = append(stringColumns, col)
		for _, v := range col.Values {
			if v.IsNull() {
				continue
			}
			freq.observe(v.Str)
		}
	}

	result := &Result{
		Dictionaries: make(map[string]*Dictionary),
		Assignment:   make(map[string]map[string]Location),
	}
	admitted := make(map[string]bool)
	dictSeq := 0

	// A2: enum/boolean promotion, evaluated per column in schema order.
	for _, col := range stringColumns {
		distinct := distinctValues(col)
		if len(distinct) == 0 || len(distinct) > b.cfg.EnumMaxCardinality {
			continue
		}
		fold := allBooleanLiterals(distinct)

		dictID := dictIDFor(dictSeq)
		dictSeq++
		d := newDictionary(dictID)
		assignment := make(map[string]Location)
		for _, v := range col.Values {
			if v.IsNull() {
				continue
			}
			entry := v.Str
			if fold {
				entry, _ = canonicalBool(v.Str)
			}
			idx := d.Add(entry)
			assignment[v.Str] = Location{DictID: dictID, LocalIndex: idx}
			admitted[v.Str] = true
		}
		result.Dictionaries[dictID] = d
		result.Order = append(result.Order, dictID)
		result.Assignment[col.Name] = assignment
	}

	// A1: frequency pruning, for everything not already enum-promoted.
	// A single shared dictionary id is reserved up front (even before
	// we know whether anything will be admitted to it) so ref_size
	// estimates below are against this dictionary's real id length.
	sharedID := dictIDFor(dictSeq)
	stats := freq.all()
	sort.Slice(stats, func(i, j int) bool { return stats[i].sample < stats[j].sample })

	var shared *Dictionary
	for _, st := range stats {
		if admitted[st.sample] {
			continue
		}
		meanLen := st.totalLen / st.count
		// ref_size(s): "$" + dictID + "." + localIndex. The index
		// isn't assigned until admission; estimate its digit width
		// from the dictionary's current size, which is exact at the
		// moment this string would actually be admitted.
		entryCount := 0
		if shared != nil {
			entryCount = len(shared.Entries)
		}
		refSize := 1 + len(sharedID) + 1 + len(strconv.Itoa(entryCount))
		if st.count*(meanLen-refSize) <= b.cfg.AdmissionBytes {
			continue
		}

		if shared == nil {
			shared = newDictionary(sharedID)
			result.Dictionaries[sharedID] = shared
			result.Order = append(result.Order, sharedID)
		}
		if len(shared.Entries) >= b.cfg.MaxDictionaryEntries {
			continue
		}
		shared.Add(st.sample)
	}

	if shared != nil {
		for _, col := range stringColumns {
			if _, already := result.Assignment[col.Name]; already {
				continue
			}
			assignment := make(map[string]Location)
			for _, v := range col.Values {
				if v.IsNull() {
					continue
				}
				if idx, ok := shared.IndexOf(v.Str); ok {
					assignment[v.Str] = Location{DictID: sharedID, LocalIndex: idx}
				}
			}
			if len(assignment) > 0 {
				result.Assignment[col.Name] = assignment
			}
		}
	}

	return result
}

func dictIDFor(seq int) string {
	return "d" + strconv.Itoa(seq)
}

// canonicalBool folds a boolean literal case variant to "true"/"false".
func canonicalBool(s string) (string, bool) {
	b, ok := table.ParseBool(s)
	if !ok {
		return "", false
	}
	if b {
		return "true", true
	}
	return "false", true
}

// allBooleanLiterals reports whether every distinct value is some case
// variant of a boolean literal, in which case A2 promotion folds them
// to canonical true/false entries before hashing (§4.6/A2) rather than
// admitting each spelling as its own dictionary entry.
func allBooleanLiterals(distinct map[string]struct{}) bool {
	for s := range distinct {
		if _, ok := canonicalBool(s); !ok {
			return false
		}
	}
	return true
}

func distinctValues(col *table.Column) map[string]struct{} {
	out := make(map[string]struct{})
	for _, v := range col.Values {
		if v.IsNull() {
			continue
		}
		out[v.Str] = struct{}{}
	}
	return out
}
