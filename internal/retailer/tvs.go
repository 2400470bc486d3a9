package retailer

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/retail-etl/internal/model"
	"github.com/sells-group/retail-etl/internal/reconcile"
)

// TVS reads The Vitamin Shoppe's point-in-time snapshot workbooks. These are
// inventory/distribution reports rather than POS sales, so the 8-week
// average sales figure stands in for units. Several snapshots can land in
// one month; the latest file date per month wins.
type TVS struct{}

func (a *TVS) Key() string         { return "tvs" }
func (a *TVS) DisplayName() string { return "TVS" }

// tvsFileRe matches snapshot names like
// "Irwin Naturals_All In Stock 1.15.25.xlsx" (with an optional "[2]"
// duplicate-download suffix).
var tvsFileRe = regexp.MustCompile(`^Irwin Naturals_All In Stock (\d{1,2})\.(\d{1,2})\.(\d{2,4})(?:\[\d+\])?\.xlsx$`)

type tvsInventoryRecord struct {
	UPC           string  `json:"upc"`
	ProductName   string  `json:"product_name"`
	Period        string  `json:"period"`
	StoreCounts   int     `json:"store_counts"`
	InstockPct    float64 `json:"instock_pct"`
	StoreWOS8Wk   float64 `json:"store_wos_8wk"`
	OHUnitsStore  int     `json:"oh_units_store"`
	OHUnitsDC     int     `json:"oh_units_dc"`
	OHUnitsTotal  int     `json:"oh_units_total"`
	OverallStatus string  `json:"overall_status"`
	AsOf          string  `json:"as_of"`
}

type tvsSnapshot struct {
	date time.Time
	path string
}

func (a *TVS) Build(ctx context.Context, env Env) (*Result, error) {
	dir := filepath.Join(env.SourceDir, "TVS")
	log := zap.L().With(zap.String("retailer", a.Key()))

	snapshots, err := latestSnapshotPerMonth(dir)
	if err != nil {
		return nil, err
	}

	reg := reconcile.NewProductRegistry()
	tbl := reconcile.NewTable()
	var inventory []any

	months := make([]string, 0, len(snapshots))
	for ym := range snapshots {
		months = append(months, ym)
	}
	sort.Strings(months)

	for _, ym := range months {
		snap := snapshots[ym]
		rows := readOptionalXLSX(log, snap.path)
		if rows == nil {
			continue
		}
		a.mergeSnapshot(log, rows, ym, snap.date, reg, tbl, &inventory)
	}

	reconcile.DeriveYoY(tbl)

	res := &Result{
		Dataset:      newDataset(a.DisplayName(), env.Now, reg, tbl),
		Supplemental: make(map[string]*model.Supplemental),
	}
	if len(inventory) > 0 {
		res.Supplemental[model.SupplementalInventory] = newSupplemental(a.DisplayName(), env.Now, inventory)
	}
	return res, nil
}

// mergeSnapshot folds one month's snapshot into the registry, period table,
// and inventory records.
func (a *TVS) mergeSnapshot(log *zap.Logger, rows [][]string, ym string, asOf time.Time, reg *reconcile.ProductRegistry, tbl *reconcile.Table, inventory *[]any) {
	if len(rows) < 2 {
		return
	}

	// column names drift between exports
	cols := mapColumns(rows[0])
	upcIdx, ok := pick(cols, "upc id", "upc")
	if !ok {
		log.Warn("snapshot has no UPC column", zap.String("period", ym))
		return
	}
	descIdx, _ := pick(cols, "sku desc", "description")
	brandIdx, brandOK := pick(cols, "brand name id", "brand")
	deptIdx, _ := pick(cols, "department desc", "dept")
	subdeptIdx, _ := pick(cols, "sub department desc", "sub-dept")
	statusIdx, _ := pick(cols, "overall status id", "item status")
	storeCtIdx, _ := pick(cols, "store counts", "store ct")
	instockIdx, _ := pick(cols, "instock %")
	avgUnitsIdx, _ := pick(cols, "avg 08 weeks sales units", "last 8 wks avg sales")
	storeWOSIdx, _ := pick(cols, "store wos (8 weeks) units", "store wos")
	ohStoreIdx, _ := pick(cols, "oh units store", "store oh")
	ohDCIdx, _ := pick(cols, "oh units dc", "dc oh")
	ohTotalIdx, _ := pick(cols, "oh units")

	for _, row := range rows[1:] {
		upc := reconcile.NormalizeUPC(cellAt(row, upcIdx))
		if upc == reconcile.ZeroUPC {
			continue
		}

		brand := cellAt(row, brandIdx)
		if !brandOK {
			brand = "Irwin Naturals"
		}
		reg.Upsert(model.Product{
			UPC:         upc,
			ProductName: cellAt(row, descIdx),
			Brand:       brand,
			Category:    cellAt(row, deptIdx),
			Subcategory: cellAt(row, subdeptIdx),
		})

		tbl.Combine(upc, ym, model.Metrics{
			Units: reconcile.Round2(parseFloatOr(cellAt(row, avgUnitsIdx), 0)),
		}, reconcile.OverwriteLatest)

		*inventory = append(*inventory, tvsInventoryRecord{
			UPC:           upc,
			ProductName:   cellAt(row, descIdx),
			Period:        ym,
			StoreCounts:   parseIntOr(cellAt(row, storeCtIdx), 0),
			InstockPct:    normalizeInstockPct(parseFloatOr(cellAt(row, instockIdx), 0)),
			StoreWOS8Wk:   reconcile.Round2(parseFloatOr(cellAt(row, storeWOSIdx), 0)),
			OHUnitsStore:  parseIntOr(cellAt(row, ohStoreIdx), 0),
			OHUnitsDC:     parseIntOr(cellAt(row, ohDCIdx), 0),
			OHUnitsTotal:  parseIntOr(cellAt(row, ohTotalIdx), 0),
			OverallStatus: cellAt(row, statusIdx),
			AsOf:          asOf.Format("2006-01-02"),
		})
	}
}

// normalizeInstockPct maps an in-stock value to a 0-100 percentage. Exports
// alternate between fraction (0.97) and percentage (97.0) renderings; values
// at or below 1 are treated as fractions. A true in-stock of exactly 1% is
// indistinguishable from a fraction and scales to 100.
func normalizeInstockPct(v float64) float64 {
	if v <= 1 {
		return reconcile.Round2(v * 100)
	}
	return reconcile.Round2(v)
}

// latestSnapshotPerMonth scans dir for snapshot files and keeps the latest
// file date per month. Files whose name encodes an impossible date are
// skipped.
func latestSnapshotPerMonth(dir string) (map[string]tvsSnapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "tvs: read dir %s", dir)
	}

	snapshots := make(map[string]tvsSnapshot)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := tvsFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		d, ok := reconcile.FileDate(year, month, day)
		if !ok {
			zap.L().Warn("skipping snapshot with invalid date", zap.String("file", e.Name()))
			continue
		}

		ym := reconcile.MonthOf(d)
		if cur, exists := snapshots[ym]; !exists || d.After(cur.date) {
			snapshots[ym] = tvsSnapshot{date: d, path: filepath.Join(dir, e.Name())}
		}
	}
	if len(snapshots) == 0 {
		return nil, eris.Errorf("tvs: no snapshot files found in %s", dir)
	}
	return snapshots, nil
}
