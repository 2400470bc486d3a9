package reconcile

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Month-name table for "<month> <year>" style labels. Both 3-letter and full
// names, matched case-insensitively.
var monthNames = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

var embeddedDateRe = regexp.MustCompile(`(\d{2}/\d{2}/\d{4})`)

// MonthKey returns the canonical monthly period key "YYYY-MM".
func MonthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// MonthOf truncates a date to its monthly period key.
func MonthOf(t time.Time) string {
	return t.Format("2006-01")
}

// WeekKey returns the weekly period key for an end-of-week date,
// "YYYY-MM-DD".
func WeekKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseMonthName resolves a month-name token. Unrecognized tokens return
// false; the caller skips the row rather than failing the file.
func ParseMonthName(name string) (time.Month, bool) {
	m, ok := monthNames[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

// MonthFromLabel derives a monthly key from a "<month-name>" token and a
// 4-digit year, e.g. ("January", 2026) -> "2026-01".
func MonthFromLabel(label string, year int) (string, bool) {
	m, ok := ParseMonthName(label)
	if !ok {
		return "", false
	}
	return MonthKey(year, m), true
}

// ExtractDate pulls an embedded MM/DD/YYYY date out of a free-text phrase
// such as "WEEK End 02/15/2025".
func ExtractDate(s string) (time.Time, bool) {
	m := embeddedDateRe.FindString(s)
	if m == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("01/02/2006", m)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FileDate builds a date from filename-embedded (year, month, day) integers.
// A 2-digit year is interpreted as 2000+year. Invalid calendar dates return
// false.
func FileDate(year, month, day int) (time.Time, bool) {
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range days (Feb 30 -> Mar 2); reject those.
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// PriorYearKey returns the period key one calendar year earlier, preserving
// the month (and day, for weekly keys). Returns false for keys that are not
// in canonical "YYYY-MM" or "YYYY-MM-DD" form.
func PriorYearKey(key string) (string, bool) {
	if len(key) != 7 && len(key) != 10 {
		return "", false
	}
	year, err := strconv.Atoi(key[:4])
	if err != nil || key[4] != '-' {
		return "", false
	}
	return fmt.Sprintf("%04d%s", year-1, key[4:]), true
}
