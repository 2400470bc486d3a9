package model

// Metrics holds one period's measures for a single UPC. All fields are
// always present and default to zero: a units-only source reports zero
// dollars, never an absent field. Downstream feature detection depends on
// zero-vs-present, not on field absence.
type Metrics struct {
	Dollars       float64 `json:"dollars"`
	Units         float64 `json:"units"`
	DollarsYago   float64 `json:"dollars_yago"`
	UnitsYago     float64 `json:"units_yago"`
	DollarsYoYPct float64 `json:"dollars_yoy_pct"`
	UnitsYoYPct   float64 `json:"units_yoy_pct"`
}

// PeriodTable maps period key -> UPC -> metrics. Period keys are either
// "YYYY-MM" (monthly) or "YYYY-MM-DD" (weekly); lexicographic order equals
// chronological order.
type PeriodTable map[string]map[string]*Metrics
