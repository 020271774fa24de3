// Package table implements the ALS in-memory tabular data model: the
// tagged Value scalar, Column, and TabularData types described in the
// data model (§3). Columns are immutable once built; construction goes
// through Builder so the row-length invariant (I1) is enforced in one
// place instead of at every call site.
package table

import (
	"math"
	"strconv"
	"strings"

	"github.com/alsfmt/als/escape"
)

// Kind identifies which variant of Value is populated.
type Kind uint8

const (
	KindNull Kind = iota
	KindInteger
	KindFloat
	KindBoolean
	KindString
)

// Value is a tagged scalar cell. Only the field matching Kind is
// meaningful; the zero Value is Null.
//
// Strings use a borrow-or-own strategy: Str holds the string data either
// way (Go strings are already immutable, read-only views over their
// backing bytes), but Owned records whether the string was copied out of
// a caller-owned buffer or still aliases one the caller must keep alive.
// Compression never mutates a Value, so callers that pass borrowed
// strings safely as long as the source buffer outlives the compression
// call.
type Value struct {
	Kind    Kind
	Int     int64
	Float   float64
	Bool    bool
	Str     string
	Owned   bool
}

// Null is the canonical Null value.
var Null = Value{Kind: KindNull}

// EmptyString is the canonical empty-string value, distinct from Null.
var EmptyString = Value{Kind: KindString, Str: "", Owned: true}

// NewInt returns an owned Integer value.
func NewInt(v int64) Value { return Value{Kind: KindInteger, Int: v} }

// NewFloat returns an owned Float value. NaN payloads are canonicalized
// to a single quiet-NaN bit pattern per the data model's documented
// design decision on NaN preservation (§9 Open Questions).
func NewFloat(v float64) Value {
	if math.IsNaN(v) {
		v = math.NaN()
	}
	return Value{Kind: KindFloat, Float: v}
}

// NewBool returns an owned Boolean value.
func NewBool(v bool) Value { return Value{Kind: KindBoolean, Bool: v} }

// ParseBool recognizes a boolean literal case-insensitively, including
// the yes/no spelling (§4.6/A2: case variants of the input fold to
// canonical values prior to hashing). ok reports whether s named a
// boolean literal at all.
func ParseBool(s string) (value bool, ok bool) {
	switch strings.ToLower(s) {
	case "true", "yes":
		return true, true
	case "false", "no":
		return false, true
	default:
		return false, false
	}
}

// NewString returns a String value. owned indicates whether s was copied
// (true) or is a borrowed view into caller-owned storage (false); either
// way the Value is safe to read for the lifetime of the source buffer.
func NewString(s string, owned bool) Value {
	return Value{Kind: KindString, Str: s, Owned: owned}
}

// IsNull reports whether the value is Null.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Equal reports whether two values are identical, using bitwise equality
// for floats (I4: preserve exact IEEE-754 bit patterns, including
// canonicalized NaN, rather than numeric equality where NaN != NaN).
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindInteger:
		return v.Int == o.Int
	case KindFloat:
		return math.Float64bits(v.Float) == math.Float64bits(o.Float)
	case KindBoolean:
		return v.Bool == o.Bool
	case KindString:
		return v.Str == o.Str
	default:
		return false
	}
}

// Literal renders v the way the serializer (C7) writes a raw scalar:
// the canonical text a cost estimate or an actual serialization both
// use, so pattern costs predicted by the optimizer never drift from
// what gets written to the document. Strings are escaped per the
// metacharacter set; the empty string and Null use the reserved
// escape.EmptyToken/escape.NullToken spellings so a raw scalar's
// payload is never ambiguous with either sentinel.
func (v Value) Literal() string {
	switch v.Kind {
	case KindNull:
		return escape.NullToken
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return formatFloat(v.Float)
	case KindBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindString:
		if v.Str == "" {
			return escape.EmptyToken
		}
		return escape.Escape(v.Str)
	default:
		return ""
	}
}

// formatFloat renders f using the shortest decimal that round-trips to
// the exact same bit pattern (strconv's 'g' with precision -1), with
// dedicated literals for the non-finite cases.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}
