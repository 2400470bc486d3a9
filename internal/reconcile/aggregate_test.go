package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/retail-etl/internal/model"
)

func TestTable_AccumulateSum(t *testing.T) {
	tbl := NewTable()
	tbl.Combine("X", "2025-06", model.Metrics{Dollars: 10, Units: 2}, AccumulateSum)
	tbl.Combine("X", "2025-06", model.Metrics{Dollars: 5, Units: 1}, AccumulateSum)

	m, ok := tbl.Get("2025-06", "X")
	require.True(t, ok)
	assert.Equal(t, 15.0, m.Dollars)
	assert.Equal(t, 3.0, m.Units)
}

func TestTable_AccumulateSum_RecomputesPct(t *testing.T) {
	tbl := NewTable()
	tbl.Combine("X", "2025-06", model.Metrics{Dollars: 100, DollarsYago: 40}, AccumulateSum)
	tbl.Combine("X", "2025-06", model.Metrics{Dollars: 50, DollarsYago: 60}, AccumulateSum)

	m, _ := tbl.Get("2025-06", "X")
	assert.Equal(t, 100.0, m.DollarsYago)
	// (150-100)/100*100
	assert.Equal(t, 50.0, m.DollarsYoYPct)
	// Zero prior guards division.
	assert.Equal(t, 0.0, m.UnitsYoYPct)
}

func TestTable_OverwriteLatest(t *testing.T) {
	tbl := NewTable()
	tbl.Combine("X", "2025-06", model.Metrics{Dollars: 100, Units: 10}, OverwriteLatest)
	tbl.Combine("X", "2025-06", model.Metrics{Dollars: 80, Units: 8}, OverwriteLatest)

	m, _ := tbl.Get("2025-06", "X")
	assert.Equal(t, 80.0, m.Dollars)
	assert.Equal(t, 8.0, m.Units)
}

func TestTable_Rounding(t *testing.T) {
	tbl := NewTable()
	tbl.Combine("X", "2025-06", model.Metrics{Dollars: 10.005, Units: 1.2345}, OverwriteLatest)

	m, _ := tbl.Get("2025-06", "X")
	assert.Equal(t, 10.01, m.Dollars)
	assert.Equal(t, 1.23, m.Units)
}

func TestTable_PeriodsSorted(t *testing.T) {
	tbl := NewTable()
	tbl.Combine("X", "2025-06", model.Metrics{Units: 1}, OverwriteLatest)
	tbl.Combine("X", "2024-12", model.Metrics{Units: 1}, OverwriteLatest)
	tbl.Combine("X", "2025-01", model.Metrics{Units: 1}, OverwriteLatest)

	assert.Equal(t, []string{"2024-12", "2025-01", "2025-06"}, tbl.Periods())
	assert.Equal(t, 3, tbl.Len())
}

func TestWeeklyStage_MonthlyPreferred(t *testing.T) {
	tbl := NewTable()
	tbl.Combine("X", "2026-01", model.Metrics{Dollars: 200}, OverwriteLatest)

	stage := NewWeeklyStage()
	stage.Observe("X", time.Date(2026, 1, 25, 0, 0, 0, 0, time.UTC), model.Metrics{Dollars: 999})
	stage.PromoteInto(tbl)

	// The monthly entry is authoritative; the weekly candidate is discarded.
	m, _ := tbl.Get("2026-01", "X")
	assert.Equal(t, 200.0, m.Dollars)
}

func TestWeeklyStage_LatestWeekCumulativeWins(t *testing.T) {
	stage := NewWeeklyStage()
	// Weekly MTD snapshots are cumulative: each week supersedes the last.
	stage.Observe("A", time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC), model.Metrics{Dollars: 50, Units: 5})
	stage.Observe("A", time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), model.Metrics{Dollars: 120, Units: 12})
	stage.Observe("A", time.Date(2025, 6, 28, 0, 0, 0, 0, time.UTC), model.Metrics{Dollars: 200, Units: 20})
	stage.Observe("A", time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC), model.Metrics{Dollars: 170, Units: 17})

	tbl := NewTable()
	stage.PromoteInto(tbl)

	m, ok := tbl.Get("2025-06", "A")
	require.True(t, ok)
	assert.Equal(t, 200.0, m.Dollars, "must take the latest week's cumulative value, not a sum")
	assert.Equal(t, 20.0, m.Units)
}

func TestWeeklyStage_OlderWeekNeverDropsNewerUPCs(t *testing.T) {
	stage := NewWeeklyStage()
	wk2 := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	stage.Observe("A", wk2, model.Metrics{Units: 12})
	stage.Observe("B", wk2, model.Metrics{Units: 3})
	stage.Observe("A", time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC), model.Metrics{Units: 99})

	tbl := NewTable()
	stage.PromoteInto(tbl)

	m, _ := tbl.Get("2025-06", "A")
	assert.Equal(t, 12.0, m.Units)
	_, ok := tbl.Get("2025-06", "B")
	assert.True(t, ok)
}

func TestEndToEnd_MonthlyBeatsWeekly(t *testing.T) {
	// Two source files for the same retailer: one monthly (authoritative)
	// and four weekly cumulative snapshots for the same month.
	tbl := NewTable()
	tbl.Combine("A", "2025-06", model.Metrics{Dollars: 200}, OverwriteLatest)

	stage := NewWeeklyStage()
	for day, dollars := range map[int]float64{7: 40, 14: 90, 21: 150, 28: 260} {
		stage.Observe("A", time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC), model.Metrics{Dollars: dollars})
	}
	stage.PromoteInto(tbl)

	require.Equal(t, 1, tbl.Len())
	m, ok := tbl.Get("2025-06", "A")
	require.True(t, ok)
	assert.Equal(t, 200.0, m.Dollars)
}
