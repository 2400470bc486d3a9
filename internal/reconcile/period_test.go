package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthFromLabel(t *testing.T) {
	key, ok := MonthFromLabel("January", 2026)
	assert.True(t, ok)
	assert.Equal(t, "2026-01", key)

	key, ok = MonthFromLabel("sep", 2024)
	assert.True(t, ok)
	assert.Equal(t, "2024-09", key)

	key, ok = MonthFromLabel("  DECEMBER ", 2025)
	assert.True(t, ok)
	assert.Equal(t, "2025-12", key)

	// Unrecognized month yields no key, not an error.
	_, ok = MonthFromLabel("Frimaire", 2026)
	assert.False(t, ok)
}

func TestExtractDate(t *testing.T) {
	d, ok := ExtractDate("WEEK End 02/15/2025")
	assert.True(t, ok)
	assert.Equal(t, "2025-02", MonthOf(d))
	assert.Equal(t, "2025-02-15", WeekKey(d))

	_, ok = ExtractDate("no date here")
	assert.False(t, ok)

	// Pattern matches but the calendar date is impossible.
	_, ok = ExtractDate("WEEK End 13/45/2025")
	assert.False(t, ok)
}

func TestFileDate(t *testing.T) {
	d, ok := FileDate(2025, 6, 30)
	assert.True(t, ok)
	assert.Equal(t, "2025-06-30", WeekKey(d))

	// 2-digit years are 2000-based.
	d, ok = FileDate(25, 1, 6)
	assert.True(t, ok)
	assert.Equal(t, 2025, d.Year())

	_, ok = FileDate(2025, 2, 30)
	assert.False(t, ok)
	_, ok = FileDate(2025, 0, 1)
	assert.False(t, ok)
}

func TestPriorYearKey(t *testing.T) {
	key, ok := PriorYearKey("2025-03")
	assert.True(t, ok)
	assert.Equal(t, "2024-03", key)

	key, ok = PriorYearKey("2025-02-15")
	assert.True(t, ok)
	assert.Equal(t, "2024-02-15", key)

	_, ok = PriorYearKey("March 2025")
	assert.False(t, ok)
	_, ok = PriorYearKey("")
	assert.False(t, ok)
}

func TestPeriodKeyOrdering(t *testing.T) {
	// Lexicographic order of period keys must equal chronological order.
	d1 := time.Date(2025, time.September, 5, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)
	assert.Less(t, MonthOf(d1), MonthOf(d2))
	assert.Less(t, WeekKey(d1), WeekKey(d2))
	assert.Less(t, MonthKey(2025, time.September), MonthKey(2026, time.January))
}
