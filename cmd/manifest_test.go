package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/retail-etl/internal/model"
	"github.com/sells-group/retail-etl/internal/retailer"
)

func TestFormatManifest(t *testing.T) {
	m := &model.Manifest{
		GeneratedAt: "2026-02-10T09:30:00",
		Retailers: map[string]model.ManifestEntry{
			"sprouts": {
				DisplayName:  "Sprouts",
				DateRange:    model.DateRange{Start: "2025-01", End: "2025-06"},
				Features:     []string{"executive_summary", "weekly_trends"},
				ProductCount: 38,
				TimeGrain:    model.GrainMonthly,
				HasWeekly:    true,
			},
		},
	}

	var buf bytes.Buffer
	formatManifest(&buf, m)

	out := buf.String()
	assert.Contains(t, out, "Generated: 2026-02-10T09:30:00")
	assert.Contains(t, out, "Sprouts")
	assert.Contains(t, out, "2025-01 .. 2025-06")
	assert.Contains(t, out, "monthly+weekly")
	assert.Contains(t, out, "executive_summary,weekly_trends")
}

func TestFormatRetailers(t *testing.T) {
	var buf bytes.Buffer
	formatRetailers(&buf, retailer.NewRegistry().All())

	out := buf.String()
	assert.Contains(t, out, "ngvc")
	assert.Contains(t, out, "Vitacost")
}
