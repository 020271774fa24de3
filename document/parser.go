package document

import (
	"math"
	"strconv"
	"strings"

	"github.com/alsfmt/als/dict"
	"github.com/alsfmt/als/errs"
	"github.com/alsfmt/als/escape"
	"github.com/alsfmt/als/format"
	"github.com/alsfmt/als/operator"
	"github.com/alsfmt/als/table"
)

// Config controls parser behavior.
type Config struct {
	// Lenient enables the three hand-authored-document extensions
	// recovered from the original prototype (SPEC_FULL.md §3): an
	// implicit range step, grouped "(op)*n" multiply spelling, and
	// N-value toggle lists. Strict mode (the default, Lenient=false)
	// rejects an implicit range step and an N-value toggle list as
	// syntax errors; it does not recognize the grouped spelling, so a
	// "(op)*n" token is parsed as an ordinary token.
	Lenient bool
	// MaxRangeExpansion bounds Range operator cell counts, as in
	// operator.NewRange.
	MaxRangeExpansion int64
}

// DefaultParserConfig is strict mode with the §6.3 default range bound.
func DefaultParserConfig() Config {
	return Config{Lenient: false, MaxRangeExpansion: 1_000_000_000}
}

// Parse decodes an ALS (or CTX) document from its wire text (§4.8).
func Parse(input string, cfg Config) (*Document, error) {
	lines, offsets, lineEnds := splitLines(input)
	if len(lines) == 0 {
		return nil, &errs.AlsSyntaxError{Message: "empty document"}
	}

	idx := 0
	major, minor, err := parseVersion(lines[idx], offsets[idx])
	if err != nil {
		return nil, err
	}
	if major > CurrentMajorVersion {
		return nil, &errs.VersionMismatchError{Supported: CurrentMajorVersion, Found: major}
	}
	idx++

	if idx >= len(lines) {
		return nil, &errs.AlsSyntaxError{Offset: offsets[idx-1], Message: "missing format directive"}
	}
	directive := lines[idx]
	directiveEnd := idx
	idx++

	doc := &Document{MajorVersion: major, MinorVersion: minor}

	switch directive {
	case "!als":
		doc.Indicator = format.Als
	case "!ctx":
		doc.Indicator = format.Ctx
		payloadStart := lineEnds[directiveEnd]
		if payloadStart <= len(input) {
			doc.CtxPayload = input[payloadStart:]
		}
		return doc, nil
	default:
		return nil, &errs.AlsSyntaxError{Offset: offsets[directiveEnd], Message: "unknown format directive " + directive}
	}

	doc.Dictionaries = make(map[string]*dict.Dictionary)
	for idx < len(lines) && strings.HasPrefix(lines[idx], "$") {
		id, d, err := parseDictLine(lines[idx], offsets[idx])
		if err != nil {
			return nil, err
		}
		doc.Dictionaries[id] = d
		doc.DictOrder = append(doc.DictOrder, id)
		idx++
	}

	if idx >= len(lines) || !strings.HasPrefix(lines[idx], "#") {
		return nil, &errs.AlsSyntaxError{Offset: lastOffset(offsets, idx), Message: "expected schema line"}
	}
	schema, err := parseSchemaLine(lines[idx], offsets[idx])
	if err != nil {
		return nil, err
	}
	doc.Schema = schema
	idx++

	if idx >= len(lines) {
		return nil, &errs.AlsSyntaxError{Offset: lastOffset(offsets, idx), Message: "missing streams line"}
	}
	opSeqs := splitTopLevel(lines[idx], '|')
	if len(opSeqs) != len(schema) {
		return nil, &errs.ColumnMismatchError{Expected: len(schema), Actual: len(opSeqs)}
	}

	doc.Streams = make([]*ColumnStream, len(opSeqs))
	for i, seqText := range opSeqs {
		ops, err := parseOpSeq(seqText, cfg)
		if err != nil {
			return nil, err
		}
		doc.Streams[i] = &ColumnStream{Ops: ops}
	}

	if err := validateDictRefs(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseToTable parses input and immediately expands it into a
// TabularData, matching the text -> C8 -> C2 data flow (§2).
func ParseToTable(input string, cfg Config) (*table.TabularData, error) {
	doc, err := Parse(input, cfg)
	if err != nil {
		return nil, err
	}
	return doc.ToTable()
}

func lastOffset(offsets []int, idx int) int {
	if idx > 0 && idx-1 < len(offsets) {
		return offsets[idx-1]
	}
	return 0
}

// splitLines splits on LF, stripping one trailing CR per line (§6.1:
// "CRLF accepted on read"). offsets reports each line's starting byte
// offset in the original input for error reporting; lineEnds reports
// the byte offset of the first byte after that line's full terminator
// (its "\n" or "\r\n"), so a caller can slice the untouched remainder
// of the original input — used to keep a CTX payload verbatim instead
// of reassembling it from trimmed lines.
func splitLines(s string) (lines []string, offsets []int, lineEnds []int) {
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			line := strings.TrimSuffix(s[start:i], "\r")
			lines = append(lines, line)
			offsets = append(offsets, start)
			lineEnds = append(lineEnds, i+1)
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, strings.TrimSuffix(s[start:], "\r"))
		offsets = append(offsets, start)
		lineEnds = append(lineEnds, len(s))
	}
	return lines, offsets, lineEnds
}

// splitTopLevel splits s on delim, skipping any delim byte that is
// escaped (preceded by an unescaped backslash).
func splitTopLevel(s string, delim byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i] == delim {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// topLevelIndices returns the byte offsets of every unescaped
// occurrence of target in s.
func topLevelIndices(s string, target byte) []int {
	var idx []int
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i] == target {
			idx = append(idx, i)
		}
	}
	return idx
}

func parseVersion(line string, offset int) (major, minor int, err error) {
	if !strings.HasPrefix(line, "!v") {
		return 0, 0, &errs.AlsSyntaxError{Offset: offset, Message: "expected version directive !v<major>.<minor>"}
	}
	rest := line[2:]
	dot := strings.IndexByte(rest, '.')
	if dot < 0 {
		return 0, 0, &errs.AlsSyntaxError{Offset: offset, Message: "malformed version directive"}
	}
	major, errMajor := strconv.Atoi(rest[:dot])
	minor, errMinor := strconv.Atoi(rest[dot+1:])
	if errMajor != nil || errMinor != nil {
		return 0, 0, &errs.AlsSyntaxError{Offset: offset, Message: "non-numeric version component"}
	}
	return major, minor, nil
}

func parseDictLine(line string, offset int) (string, *dict.Dictionary, error) {
	colon := topLevelIndices(line, ':')
	if len(colon) == 0 {
		return "", nil, &errs.AlsSyntaxError{Offset: offset, Message: "malformed dictionary line: missing ':'"}
	}
	id := line[1:colon[0]]
	d := dict.NewDictionary(id)
	rest := line[colon[0]+1:]
	if rest != "" {
		for _, raw := range splitTopLevel(rest, ',') {
			entry, err := escape.Unescape(raw)
			if err != nil {
				return "", nil, err
			}
			d.Add(entry)
		}
	}
	return id, d, nil
}

func parseSchemaLine(line string, offset int) ([]ColumnSpec, error) {
	body := line[1:]
	if body == "" {
		return nil, nil
	}
	var specs []ColumnSpec
	for _, raw := range splitTopLevel(body, ',') {
		colon := strings.LastIndexByte(raw, ':')
		if colon < 0 {
			return nil, &errs.AlsSyntaxError{Offset: offset, Message: "malformed column spec: missing ':'"}
		}
		name := raw[:colon]
		tag := raw[colon+1:]
		ct, ok := format.ParseColumnType(tag)
		if !ok {
			return nil, &errs.AlsSyntaxError{Offset: offset, Message: "unknown column type tag " + tag}
		}
		specs = append(specs, ColumnSpec{Name: name, Type: ct})
	}
	return specs, nil
}

func parseOpSeq(seqText string, cfg Config) ([]*operator.Operator, error) {
	if seqText == "" {
		return nil, nil
	}
	tokens := splitTopLevel(seqText, ',')
	ops := make([]*operator.Operator, 0, len(tokens))
	for _, tok := range tokens {
		op, err := parseOp(tok, cfg)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func parseOp(tok string, cfg Config) (*operator.Operator, error) {
	if tok == "" {
		return nil, &errs.AlsSyntaxError{Message: "empty operator token"}
	}

	if cfg.Lenient && tok[0] == '(' {
		return parseGroupedMultiply(tok, cfg)
	}

	stars := topLevelIndices(tok, '*')
	if len(stars) > 0 {
		starPos := stars[len(stars)-1]
		body := tok[:starPos]
		countStr := tok[starPos+1:]
		count, err := strconv.Atoi(countStr)
		if err != nil {
			return nil, &errs.AlsSyntaxError{Message: "non-numeric multiplier count: " + countStr}
		}

		tildes := topLevelIndices(body, '~')
		if len(tildes) > 0 {
			return parseToggleBody(body, tildes, count, cfg)
		}

		if body != "" && body[0] == '$' {
			refOp, err := parseDictRef(body)
			if err != nil {
				return nil, err
			}
			return operator.NewMultiply(refOp, count), nil
		}

		if len(topLevelIndices(body, '>')) > 0 {
			rangeOp, err := parseRange(body, cfg)
			if err != nil {
				return nil, err
			}
			return operator.NewMultiply(rangeOp, count), nil
		}

		v, err := parseScalar(body)
		if err != nil {
			return nil, err
		}
		return operator.NewMultiply(operator.NewRaw(v), count), nil
	}

	if tok[0] == '$' {
		return parseDictRef(tok)
	}

	if len(topLevelIndices(tok, '>')) > 0 {
		return parseRange(tok, cfg)
	}

	v, err := parseScalar(tok)
	if err != nil {
		return nil, err
	}
	return operator.NewRaw(v), nil
}

func parseDictRef(tok string) (*operator.Operator, error) {
	dots := topLevelIndices(tok, '.')
	if len(dots) == 0 {
		return nil, &errs.AlsSyntaxError{Message: "malformed dictref: missing '.'"}
	}
	dot := dots[0]
	id := tok[1:dot]
	idxStr := tok[dot+1:]
	localIndex, err := strconv.Atoi(idxStr)
	if err != nil {
		return nil, &errs.AlsSyntaxError{Message: "non-numeric dictref index: " + idxStr}
	}
	return operator.NewDictRef(id, localIndex), nil
}

func parseToggleBody(body string, tildes []int, count int, cfg Config) (*operator.Operator, error) {
	if len(tildes) > 1 && !cfg.Lenient {
		return nil, &errs.AlsSyntaxError{Message: "N-value toggle requires lenient mode"}
	}
	parts := splitTopLevel(body, '~')
	values := make([]table.Value, len(parts))
	for i, p := range parts {
		v, err := parseScalar(p)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	if len(values) == 2 {
		return operator.NewToggle(values[0], values[1], count), nil
	}
	return operator.NewToggleMulti(values, count), nil
}

func parseRange(body string, cfg Config) (*operator.Operator, error) {
	gts := topLevelIndices(body, '>')
	if len(gts) == 0 {
		return nil, &errs.AlsSyntaxError{Message: "malformed range: missing '>'"}
	}
	startText := body[:gts[0]]
	rest := body[gts[0]+1:]

	colons := topLevelIndices(rest, ':')
	var endText, stepText string
	hasStep := len(colons) > 0
	if hasStep {
		endText = rest[:colons[0]]
		stepText = rest[colons[0]+1:]
	} else {
		if !cfg.Lenient {
			return nil, &errs.AlsSyntaxError{Message: "range missing explicit step (strict mode)"}
		}
		endText = rest
	}

	startV, err := parseScalar(startText)
	if err != nil {
		return nil, err
	}
	endV, err := parseScalar(endText)
	if err != nil {
		return nil, err
	}

	if startV.Kind == table.KindFloat || endV.Kind == table.KindFloat {
		start := asFloat(startV)
		end := asFloat(endV)
		var step float64
		if hasStep {
			stepV, err := parseScalar(stepText)
			if err != nil {
				return nil, err
			}
			step = asFloat(stepV)
		} else {
			step = defaultStep(start, end)
		}
		count, ok := floatRangeCount(start, end, step)
		if !ok {
			return nil, &errs.RangeOverflowError{Limit: cfg.MaxRangeExpansion}
		}
		return operator.NewFloatRange(start, end, step, count, cfg.MaxRangeExpansion)
	}

	start, end := startV.Int, endV.Int
	var step int64
	if hasStep {
		stepV, err := parseScalar(stepText)
		if err != nil {
			return nil, err
		}
		step = stepV.Int
	} else {
		if end >= start {
			step = 1
		} else {
			step = -1
		}
	}
	return operator.NewRange(start, end, step, cfg.MaxRangeExpansion)
}

func asFloat(v table.Value) float64 {
	if v.Kind == table.KindFloat {
		return v.Float
	}
	return float64(v.Int)
}

func defaultStep(start, end float64) float64 {
	if end >= start {
		return 1
	}
	return -1
}

func floatRangeCount(start, end, step float64) (int, bool) {
	if step == 0 {
		return 0, false
	}
	n := (end - start) / step
	count := int(n + 0.5)
	if count < 0 {
		return 0, false
	}
	return count + 1, true
}

// parseGroupedMultiply handles the lenient "(op)*n" spelling
// (SPEC_FULL.md §3, matching the original's parse_grouped_element).
func parseGroupedMultiply(tok string, cfg Config) (*operator.Operator, error) {
	closeParen := strings.LastIndexByte(tok, ')')
	if closeParen < 0 || !strings.HasPrefix(tok[closeParen+1:], "*") {
		return nil, &errs.AlsSyntaxError{Message: "malformed grouped operator: expected (op)*n"}
	}
	inner := tok[1:closeParen]
	countStr := tok[closeParen+2:]
	count, err := strconv.Atoi(countStr)
	if err != nil {
		return nil, &errs.AlsSyntaxError{Message: "non-numeric grouped multiplier count: " + countStr}
	}
	innerOp, err := parseOp(inner, cfg)
	if err != nil {
		return nil, err
	}
	return operator.NewMultiply(innerOp, count), nil
}

// parseScalar parses a raw_scalar token: the Null/EmptyString
// sentinels, an integer, a float, a boolean literal, or an escaped
// string (§4.1, §4.7).
func parseScalar(tok string) (table.Value, error) {
	switch tok {
	case escape.NullToken:
		return table.Null, nil
	case escape.EmptyToken:
		return table.EmptyString, nil
	case "true":
		return table.NewBool(true), nil
	case "false":
		return table.NewBool(false), nil
	}

	if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return table.NewInt(i), nil
	}
	switch tok {
	case "nan":
		return table.NewFloat(math.NaN()), nil
	case "inf":
		return table.NewFloat(math.Inf(1)), nil
	case "-inf":
		return table.NewFloat(math.Inf(-1)), nil
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return table.NewFloat(f), nil
	}

	unescaped, err := escape.Unescape(tok)
	if err != nil {
		return table.Value{}, err
	}
	return table.NewString(unescaped, true), nil
}

// validateDictRefs walks every stream's operators, failing fast on a
// DictRef naming an unknown dictionary or an out-of-range index
// (§4.8 point 2), ahead of any expansion.
func validateDictRefs(doc *Document) error {
	for _, stream := range doc.Streams {
		for _, op := range stream.Ops {
			if err := checkDictRefs(op, doc.Dictionaries); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkDictRefs(op *operator.Operator, dicts map[string]*dict.Dictionary) error {
	switch op.Kind {
	case operator.DictRef:
		d, ok := dicts[op.DictID]
		if !ok {
			return &errs.InvalidDictRefError{DictID: op.DictID, LocalIndex: op.LocalIndex, Reason: "unknown dictionary id"}
		}
		if op.LocalIndex < 0 || op.LocalIndex >= len(d.Entries) {
			return &errs.InvalidDictRefError{DictID: op.DictID, LocalIndex: op.LocalIndex, Reason: "index out of range"}
		}
	case operator.Multiply:
		return checkDictRefs(op.Inner, dicts)
	}
	return nil
}
