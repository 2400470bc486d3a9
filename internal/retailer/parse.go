package retailer

import (
	"strconv"
	"strings"
	"time"
)

// mapColumns builds a case-insensitive column name to index map from a
// header row.
func mapColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		m[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return m
}

// pick returns the index of the first candidate column present in the map.
// Source files rename columns between exports, so adapters list the variants
// they have seen.
func pick(colIdx map[string]int, candidates ...string) (int, bool) {
	for _, c := range candidates {
		if i, ok := colIdx[strings.ToLower(strings.TrimSpace(c))]; ok {
			return i, true
		}
	}
	return -1, false
}

// cellAt returns the trimmed cell at index i, or "" when the row is short
// or the index is unset (-1).
func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseFloatOr parses a numeric cell, tolerating currency/percent adornments
// and thousands separators; def on failure.
func parseFloatOr(s string, def float64) float64 {
	v, ok := parseFloatOk(s)
	if !ok {
		return def
	}
	return v
}

// parseFloatOk is parseFloatOr for callers that must distinguish an absent
// or non-numeric cell from a genuine zero.
func parseFloatOk(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseIntOr parses an integer cell, accepting float-serialized values
// ("42.0"); def on failure.
func parseIntOr(s string, def int) int {
	v := parseFloatOr(s, float64(def))
	return int(v)
}

// dateLayouts covers the date renderings seen across vendor workbooks: ISO,
// US slashed, and the short formats spreadsheet cells format dates with.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"1/2/06",
	"01/02/06",
	"2006-01-02T15:04:05Z",
}

// parseDateAny tries the known date layouts; false means the row should be
// skipped, never that the file should fail.
func parseDateAny(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
