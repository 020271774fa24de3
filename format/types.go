// Package format defines the small set of enumerations shared across the
// ALS data model, serializer, and parser: column types, the document's
// top-level format indicator, and the pattern types a detector can
// contribute to a column's operator cover.
package format

// ColumnType identifies the inferred scalar type of a column.
//
// A column's type is inferred once, at ingest time, from its values; it
// never changes during compression. Mixed means the column could not be
// narrowed to a single scalar type and its values are carried as String.
type ColumnType uint8

const (
	Integer ColumnType = 0x1 // Integer represents signed 64-bit integers.
	Float   ColumnType = 0x2 // Float represents IEEE-754 binary64 values.
	Boolean ColumnType = 0x3 // Boolean represents true/false values.
	String  ColumnType = 0x4 // String represents UTF-8 text.
	Mixed   ColumnType = 0x5 // Mixed represents a column with no single inferred type.
)

func (t ColumnType) String() string {
	switch t {
	case Integer:
		return "int"
	case Float:
		return "float"
	case Boolean:
		return "bool"
	case String:
		return "str"
	case Mixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// ParseColumnType parses the schema type tag used in the `#name:tag` grammar.
func ParseColumnType(tag string) (ColumnType, bool) {
	switch tag {
	case "int":
		return Integer, true
	case "float":
		return Float, true
	case "bool":
		return Boolean, true
	case "str":
		return String, true
	case "mixed":
		return Mixed, true
	default:
		return 0, false
	}
}

// Indicator identifies whether a document's streams section holds ALS
// operator-encoded columns (Als) or a verbatim passthrough payload (Ctx).
type Indicator uint8

const (
	Als Indicator = 0x1 // Als is the pattern-encoded document format.
	Ctx Indicator = 0x2 // Ctx is the verbatim passthrough fallback format.
)

func (i Indicator) String() string {
	switch i {
	case Als:
		return "als"
	case Ctx:
		return "ctx"
	default:
		return "unknown"
	}
}

// PatternType identifies which detector contributed a DetectionResult.
// The ordinal values define the tie-break ordering the optimizer (C5)
// uses when two candidates cover the same span at equal cost: lower
// ordinal wins.
type PatternType uint8

const (
	DictRef         PatternType = 0x1 // dictionary-backed candidate, re-optimized in after C6 runs
	SequentialRange PatternType = 0x2 // D1
	Alternation     PatternType = 0x3 // D3
	Repetition      PatternType = 0x4 // D2
	RepeatedRange   PatternType = 0x5 // D4 (composite over D1)
	RepeatedToggle  PatternType = 0x6 // D4 (composite over D3)
	RawFallback     PatternType = 0x7 // implicit Raw candidate
)

func (p PatternType) String() string {
	switch p {
	case DictRef:
		return "dict_ref"
	case SequentialRange:
		return "sequential_range"
	case Alternation:
		return "alternation"
	case Repetition:
		return "repetition"
	case RepeatedRange:
		return "repeated_range"
	case RepeatedToggle:
		return "repeated_toggle"
	case RawFallback:
		return "raw"
	default:
		return "unknown"
	}
}
