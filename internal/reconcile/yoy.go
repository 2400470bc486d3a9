package reconcile

// DeriveYoY enriches every period of the table with prior-year comparisons.
// For each period whose prior-year key exists in the table, the prior
// period's committed dollars/units are copied into the *_yago fields and the
// percentages recomputed (0.0 when the prior value is zero or the UPC is
// absent from the prior period).
//
// The derivation reads only committed dollars/units, never its own derived
// fields, so running it twice produces the same result.
func DeriveYoY(t *Table) {
	for _, period := range t.Periods() {
		prior, ok := PriorYearKey(period)
		if !ok || !t.Has(prior) {
			continue
		}
		priorBucket := t.periods[prior]
		for upc, cur := range t.periods[period] {
			var yagoDollars, yagoUnits float64
			if prev, ok := priorBucket[upc]; ok {
				yagoDollars = prev.Dollars
				yagoUnits = prev.Units
			}
			cur.DollarsYago = Round2(yagoDollars)
			cur.UnitsYago = Round2(yagoUnits)
			cur.DollarsYoYPct = yoyPct(cur.Dollars, yagoDollars)
			cur.UnitsYoYPct = yoyPct(cur.Units, yagoUnits)
		}
	}
}
