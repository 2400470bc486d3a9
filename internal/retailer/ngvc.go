package retailer

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/retail-etl/internal/fetcher"
	"github.com/sells-group/retail-etl/internal/model"
	"github.com/sells-group/retail-etl/internal/reconcile"
)

// NGVC reads Natural Grocers SPINS exports: a QUAD workbook, a WEEK
// workbook, and a monthly units/set-status workbook. QUAD and WEEK rows for
// the same UPC and month are partial slices of the same month, so they are
// summed.
type NGVC struct{}

func (a *NGVC) Key() string         { return "ngvc" }
func (a *NGVC) DisplayName() string { return "NGVC" }

// unitsHeaderRe extracts the month a units column covers, e.g.
// "Units sold in January 2026".
var unitsHeaderRe = regexp.MustCompile(`(?i)(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{4})`)

func (a *NGVC) Build(ctx context.Context, env Env) (*Result, error) {
	dir := filepath.Join(env.SourceDir, "NGVC")
	log := zap.L().With(zap.String("retailer", a.Key()))

	quad := readOptionalXLSX(log, filepath.Join(dir, "Irwin_Naturals_NGVC.xlsx"))
	week := readOptionalXLSX(log, filepath.Join(dir, "P12 - Irwin_Naturals_Pull.xlsx"))
	if quad == nil && week == nil {
		return nil, eris.Errorf("ngvc: no SPINS files found in %s", dir)
	}

	reg := reconcile.NewProductRegistry()
	tbl := reconcile.NewTable()

	a.mergeSPINS(quad, reg, tbl)
	a.mergeSPINS(week, reg, tbl)

	if path := latestUnitsFile(dir); path != "" {
		if rows := readOptionalXLSX(log, path); rows != nil {
			a.mergeUnits(rows, reg, tbl)
		}
	}

	return &Result{Dataset: newDataset(a.DisplayName(), env.Now, reg, tbl)}, nil
}

// mergeSPINS folds one SPINS workbook (QUAD or WEEK) into the registry and
// period table. Rows without a parseable period end date are skipped.
func (a *NGVC) mergeSPINS(rows [][]string, reg *reconcile.ProductRegistry, tbl *reconcile.Table) {
	if len(rows) < 2 {
		return
	}
	cols := mapColumns(rows[0])
	upcIdx, ok := pick(cols, "upc")
	if !ok {
		return
	}
	dateIdx, _ := pick(cols, "time period end date")
	descIdx, _ := pick(cols, "description")
	brandIdx, _ := pick(cols, "brand")
	catIdx, _ := pick(cols, "category")
	subcatIdx, _ := pick(cols, "subcategory")
	dollarsIdx, _ := pick(cols, "dollars")
	dollarsYagoIdx, _ := pick(cols, "dollars, yago")
	unitsIdx, _ := pick(cols, "units")
	unitsYagoIdx, _ := pick(cols, "units, yago")

	for _, row := range rows[1:] {
		upc := reconcile.NormalizeUPC(cellAt(row, upcIdx))
		if upc == reconcile.ZeroUPC {
			continue
		}
		d, ok := parseDateAny(cellAt(row, dateIdx))
		if !ok {
			continue
		}

		reg.Upsert(model.Product{
			UPC:         upc,
			ProductName: cellAt(row, descIdx),
			Brand:       cellAt(row, brandIdx),
			Category:    cellAt(row, catIdx),
			Subcategory: cellAt(row, subcatIdx),
		})

		tbl.Combine(upc, reconcile.MonthOf(d), spinsMetrics(row, dollarsIdx, unitsIdx, dollarsYagoIdx, unitsYagoIdx), reconcile.AccumulateSum)
	}
}

// mergeUnits folds the units/set-status workbook in. The units column name
// carries the month it covers; units replace any SPINS value for that month
// since the units file is the more direct source.
func (a *NGVC) mergeUnits(rows [][]string, reg *reconcile.ProductRegistry, tbl *reconcile.Table) {
	if len(rows) < 2 {
		return
	}
	header := rows[0]

	upcIdx := -1
	for i, h := range header {
		if strings.Contains(strings.ToUpper(h), "UPC") {
			upcIdx = i
			break
		}
	}
	if upcIdx < 0 {
		return
	}

	unitsIdx, unitsPeriod := -1, ""
	for i, h := range header {
		hl := strings.ToLower(strings.TrimSpace(h))
		if !strings.Contains(hl, "units") {
			continue
		}
		if !strings.Contains(hl, "sold") && !strings.Contains(hl, "jan") && !strings.Contains(hl, "feb") {
			continue
		}
		m := unitsHeaderRe.FindStringSubmatch(hl)
		if m == nil {
			continue
		}
		if month, ok := reconcile.ParseMonthName(m[1]); ok {
			year, _ := strconv.Atoi(m[2])
			unitsIdx, unitsPeriod = i, reconcile.MonthKey(year, month)
			break
		}
	}

	cols := mapColumns(header)
	statusIdx, _ := pick(cols, "set status")
	descIdx, _ := pick(cols, "description")
	brandIdx, _ := pick(cols, "brand name")

	for _, row := range rows[1:] {
		upc := reconcile.NormalizeUPC(cellAt(row, upcIdx))
		if upc == reconcile.ZeroUPC {
			continue
		}

		reg.Upsert(model.Product{
			UPC:         upc,
			ProductName: cellAt(row, descIdx),
			Brand:       cellAt(row, brandIdx),
			SetStatus:   cellAt(row, statusIdx),
		})

		if unitsIdx < 0 {
			continue
		}
		units := reconcile.Round2(parseFloatOr(cellAt(row, unitsIdx), 0))
		if units > 0 {
			tbl.Combine(upc, unitsPeriod, model.Metrics{Units: units}, reconcile.OverwriteLatest)
		}
	}
}

// latestUnitsFile returns the newest "Irwin Naturals Units ..." workbook in
// dir, or "" when none exists.
func latestUnitsFile(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "Irwin Naturals Units") && strings.HasSuffix(e.Name(), ".xlsx") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return filepath.Join(dir, names[len(names)-1])
}

// readOptionalXLSX reads a workbook that may be absent; unreadable files are
// logged and skipped.
func readOptionalXLSX(log *zap.Logger, path string) [][]string {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{})
	if err != nil {
		log.Warn("skipping unreadable workbook", zap.String("path", path), zap.Error(err))
		return nil
	}
	return rows
}

// spinsMetrics reads the four SPINS measure columns into a metrics
// observation.
func spinsMetrics(row []string, dollarsIdx, unitsIdx, dollarsYagoIdx, unitsYagoIdx int) model.Metrics {
	return model.Metrics{
		Dollars:     parseFloatOr(cellAt(row, dollarsIdx), 0),
		Units:       parseFloatOr(cellAt(row, unitsIdx), 0),
		DollarsYago: parseFloatOr(cellAt(row, dollarsYagoIdx), 0),
		UnitsYago:   parseFloatOr(cellAt(row, unitsYagoIdx), 0),
	}
}
