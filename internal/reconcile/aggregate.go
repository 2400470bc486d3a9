package reconcile

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sells-group/retail-etl/internal/model"
)

// Policy selects how overlapping observations of the same (UPC, period) are
// combined.
type Policy int

const (
	// OverwriteLatest replaces any prior record outright. The caller must
	// supply observations pre-ordered by effective date: this policy makes
	// "latest wins" an explicit ordering contract, not an iteration accident.
	OverwriteLatest Policy = iota

	// AccumulateSum sums dollars/units and their prior-year counterparts
	// field-by-field. Used when two structurally distinct feeds contribute
	// partial, non-duplicated coverage of the same period. YoY percentages
	// are recomputed from the accumulated values.
	AccumulateSum
)

func (p Policy) String() string {
	switch p {
	case OverwriteLatest:
		return "overwrite-latest"
	case AccumulateSum:
		return "accumulate-sum"
	default:
		return "unknown"
	}
}

// Round2 rounds to 2 decimal places (monetary and percentage fields).
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Round4 rounds to 4 decimal places (distribution-breadth ACV scores).
func Round4(v float64) float64 {
	return decimal.NewFromFloat(v).Round(4).InexactFloat64()
}

// Table accumulates one metrics record per (UPC, period key). Inputs must
// already carry a normalized UPC and a canonical period key; the table never
// normalizes.
type Table struct {
	periods model.PeriodTable
}

// NewTable returns an empty period table.
func NewTable() *Table {
	return &Table{periods: make(model.PeriodTable)}
}

// Combine folds one observation into the table under the given policy.
func (t *Table) Combine(upc, period string, obs model.Metrics, policy Policy) {
	bucket := t.periods[period]
	if bucket == nil {
		bucket = make(map[string]*model.Metrics)
		t.periods[period] = bucket
	}

	cur, ok := bucket[upc]
	if policy == AccumulateSum && ok {
		cur.Dollars = Round2(cur.Dollars + obs.Dollars)
		cur.Units = Round2(cur.Units + obs.Units)
		cur.DollarsYago = Round2(cur.DollarsYago + obs.DollarsYago)
		cur.UnitsYago = Round2(cur.UnitsYago + obs.UnitsYago)
		recomputePct(cur)
		return
	}

	m := model.Metrics{
		Dollars:       Round2(obs.Dollars),
		Units:         Round2(obs.Units),
		DollarsYago:   Round2(obs.DollarsYago),
		UnitsYago:     Round2(obs.UnitsYago),
		DollarsYoYPct: Round2(obs.DollarsYoYPct),
		UnitsYoYPct:   Round2(obs.UnitsYoYPct),
	}
	if policy == AccumulateSum {
		recomputePct(&m)
	}
	bucket[upc] = &m
}

// recomputePct derives YoY percentages from the committed values, guarding
// against a zero prior year.
func recomputePct(m *model.Metrics) {
	m.DollarsYoYPct = yoyPct(m.Dollars, m.DollarsYago)
	m.UnitsYoYPct = yoyPct(m.Units, m.UnitsYago)
}

func yoyPct(current, prior float64) float64 {
	if prior == 0 {
		return 0.0
	}
	return Round2((current - prior) / prior * 100)
}

// Get returns the record for (period, upc).
func (t *Table) Get(period, upc string) (model.Metrics, bool) {
	m, ok := t.periods[period][upc]
	if !ok {
		return model.Metrics{}, false
	}
	return *m, true
}

// Has reports whether any record exists for a period key.
func (t *Table) Has(period string) bool {
	return len(t.periods[period]) > 0
}

// Periods returns all period keys in chronological order.
func (t *Table) Periods() []string {
	keys := make([]string, 0, len(t.periods))
	for k := range t.periods {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of distinct period keys.
func (t *Table) Len() int {
	return len(t.periods)
}

// Export hands out the underlying table for dataset assembly.
func (t *Table) Export() model.PeriodTable {
	return t.periods
}

// WeeklyStage implements the monthly-preferred-fallback rule for sources
// whose weekly snapshots carry month-to-date cumulative values. Only the
// most recent week's snapshot per month is retained — summing cumulative
// values across weeks would double-count.
type WeeklyStage struct {
	months map[string]*weekSnapshot
}

type weekSnapshot struct {
	week    time.Time
	metrics map[string]model.Metrics
}

// NewWeeklyStage returns an empty stage.
func NewWeeklyStage() *WeeklyStage {
	return &WeeklyStage{months: make(map[string]*weekSnapshot)}
}

// Observe records one UPC's cumulative metrics from the weekly snapshot
// dated week. A newer week replaces the whole month's staged snapshot;
// observations from older weeks are dropped.
func (s *WeeklyStage) Observe(upc string, week time.Time, obs model.Metrics) {
	month := MonthOf(week)
	snap := s.months[month]
	if snap == nil || week.After(snap.week) {
		snap = &weekSnapshot{week: week, metrics: make(map[string]model.Metrics)}
		s.months[month] = snap
	}
	if !week.Before(snap.week) {
		snap.metrics[upc] = obs
	}
}

// PromoteInto fills the table's months that no monthly source populated. A
// month already present in the table is authoritative and the staged weekly
// aggregate for it is discarded entirely.
func (s *WeeklyStage) PromoteInto(t *Table) {
	months := make([]string, 0, len(s.months))
	for m := range s.months {
		months = append(months, m)
	}
	sort.Strings(months)

	for _, month := range months {
		if t.Has(month) {
			continue
		}
		for upc, m := range s.months[month].metrics {
			t.Combine(upc, month, m, OverwriteLatest)
		}
	}
}
