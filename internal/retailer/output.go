package retailer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/retail-etl/internal/model"
	"github.com/sells-group/retail-etl/internal/reconcile"
)

// supplementalOrder fixes the data_files ordering for the known supplemental
// kinds; unknown kinds sort after these alphabetically.
var supplementalOrder = []string{
	model.SupplementalInventory,
	model.SupplementalLTOOS,
	model.SupplementalForecast,
	model.SupplementalEcommerce,
}

// writeOutputs persists one retailer's result under outputDir/<key>/ and
// returns the manifest entry describing it.
func writeOutputs(outputDir, key, displayName string, res *Result) (model.ManifestEntry, error) {
	dir := filepath.Join(outputDir, key)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return model.ManifestEntry{}, eris.Wrapf(err, "retailer: create output dir %s", dir)
	}

	if err := writeJSON(filepath.Join(dir, "pos_data.json"), res.Dataset); err != nil {
		return model.ManifestEntry{}, err
	}
	dataFiles := []string{"pos_data.json"}

	for _, kind := range supplementalKinds(res.Supplemental) {
		name := kind + ".json"
		if err := writeJSON(filepath.Join(dir, name), res.Supplemental[kind]); err != nil {
			return model.ManifestEntry{}, err
		}
		dataFiles = append(dataFiles, name)
	}

	e := buildEntry(displayName, res)
	e.DataFiles = dataFiles
	return e, nil
}

// supplementalKinds returns the kinds present in the result, known kinds
// first in canonical order, then any others sorted.
func supplementalKinds(sup map[string]*model.Supplemental) []string {
	var kinds []string
	seen := make(map[string]bool, len(sup))
	for _, k := range supplementalOrder {
		if sup[k] != nil {
			kinds = append(kinds, k)
			seen[k] = true
		}
	}
	var rest []string
	for k, v := range sup {
		if v != nil && !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(kinds, rest...)
}

// buildEntry derives the manifest summary (date range, features, counts)
// from a finished result.
func buildEntry(displayName string, res *Result) model.ManifestEntry {
	ds := res.Dataset

	var dr model.DateRange
	if len(ds.Periods) > 0 {
		keys := make([]string, 0, len(ds.Periods))
		for k := range ds.Periods {
			keys = append(keys, k)
		}
		// period keys are ISO-prefixed, so lexical order is chronological
		min, max := keys[0], keys[0]
		for _, k := range keys[1:] {
			if k < min {
				min = k
			}
			if k > max {
				max = k
			}
		}
		dr = model.DateRange{Start: min, End: max}
	}

	return model.ManifestEntry{
		DisplayName:  displayName,
		DateRange:    dr,
		Features:     reconcile.DetectFeatures(ds, res.Supplemental),
		ProductCount: len(ds.Products),
		TimeGrain:    ds.TimeGrain,
		HasWeekly:    len(ds.WeeklyPeriods) > 0,
	}
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrapf(err, "retailer: marshal %s", filepath.Base(path))
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return eris.Wrapf(err, "retailer: write %s", path)
	}
	return nil
}
