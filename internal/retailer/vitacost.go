package retailer

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/retail-etl/internal/fetcher"
	"github.com/sells-group/retail-etl/internal/model"
	"github.com/sells-group/retail-etl/internal/reconcile"
)

// Vitacost reads the vendor report workbooks under Vitacost/History. Two
// report families share one layout: OMNI files land once a month and are
// authoritative; OMNIw files land weekly and their MTD- sheet carries
// month-to-date cumulative figures. Months covered by a monthly file use it
// outright; otherwise the latest weekly snapshot of the month stands in
// (cumulative values must not be summed across weeks).
type Vitacost struct{}

func (a *Vitacost) Key() string         { return "vitacost" }
func (a *Vitacost) DisplayName() string { return "Vitacost" }

var vcDateRe = regexp.MustCompile(`(\d{2})-(\d{2})-(\d{4})\.xlsx$`)

type vcInventoryRecord struct {
	UPC            string `json:"upc"`
	ProductName    string `json:"product_name"`
	Brand          string `json:"brand"`
	VitacostStatus string `json:"vitacost_status"`
	STHStatus      string `json:"sth_status"`
	OnHandNC       int    `json:"on_hand_nc"`
	OnHandLV       int    `json:"on_hand_lv"`
	OnHandMZ       int    `json:"on_hand_mz"`
	OnHandTotal    int    `json:"on_hand_total"`
	Period         string `json:"period"`
}

// vcRecord is one product row off an MTD- sheet.
type vcRecord struct {
	upc         string
	name        string
	brand       string
	category    string
	subcategory string
	dollars     float64
	units       float64
}

type vcFile struct {
	date time.Time
	path string
}

func (a *Vitacost) Build(ctx context.Context, env Env) (*Result, error) {
	dir := filepath.Join(env.SourceDir, "Vitacost", "History")
	log := zap.L().With(zap.String("retailer", a.Key()))

	monthly, weekly, err := vitacostFiles(dir)
	if err != nil {
		return nil, err
	}

	reg := reconcile.NewProductRegistry()
	tbl := reconcile.NewTable()
	var inventory []any

	// monthly files first, in chronological order
	months := make([]string, 0, len(monthly))
	for ym := range monthly {
		months = append(months, ym)
	}
	sort.Strings(months)

	for _, ym := range months {
		f := monthly[ym]
		for _, rec := range a.readMTD(log, f.path) {
			reg.Upsert(model.Product{
				UPC:         rec.upc,
				ProductName: rec.name,
				Brand:       rec.brand,
				Category:    rec.category,
				Subcategory: rec.subcategory,
			})
			tbl.Combine(rec.upc, ym, model.Metrics{Dollars: rec.dollars, Units: rec.units}, reconcile.OverwriteLatest)
		}
		inventory = append(inventory, a.readInventory(log, f.path, ym)...)
	}

	// weekly snapshots fill the months no monthly file covers
	stage := reconcile.NewWeeklyStage()
	latestWeekly := make(map[string]string)
	for _, f := range weekly {
		ym := reconcile.MonthOf(f.date)
		if tbl.Has(ym) {
			continue
		}
		for _, rec := range a.readMTD(log, f.path) {
			reg.Upsert(model.Product{
				UPC:         rec.upc,
				ProductName: rec.name,
				Brand:       rec.brand,
				Category:    rec.category,
				Subcategory: rec.subcategory,
			})
			stage.Observe(rec.upc, f.date, model.Metrics{Dollars: rec.dollars, Units: rec.units})
		}
		latestWeekly[ym] = f.path
	}

	promoted := make([]string, 0, len(latestWeekly))
	for ym := range latestWeekly {
		if !tbl.Has(ym) {
			promoted = append(promoted, ym)
		}
	}
	sort.Strings(promoted)
	stage.PromoteInto(tbl)

	for _, ym := range promoted {
		inventory = append(inventory, a.readInventory(log, latestWeekly[ym], ym)...)
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

// readMTD reads the MTD- sheet. The sheet opens with merged title rows, so
// the header row is located by scanning for a row carrying both UPC and
// Net Sales; historically it sits at row index 3.
func (a *Vitacost) readMTD(log *zap.Logger, path string) []vcRecord {
	rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{SheetName: "MTD-"})
	if err != nil {
		log.Warn("no MTD sheet", zap.String("path", path), zap.Error(err))
		return nil
	}

	headerIdx := -1
	for i := 0; i < len(rows) && i < 10; i++ {
		var hasUPC, hasNetSales bool
		for _, cell := range rows[i] {
			switch strings.TrimSpace(cell) {
			case "UPC":
				hasUPC = true
			case "Net Sales":
				hasNetSales = true
			}
		}
		if hasUPC && hasNetSales {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		headerIdx = 3
	}
	if headerIdx+1 >= len(rows) {
		return nil
	}

	cols := mapColumns(rows[headerIdx])
	upcIdx, ok := pick(cols, "upc")
	if !ok {
		log.Warn("MTD sheet has no UPC column", zap.String("path", path))
		return nil
	}
	netSalesIdx, _ := pick(cols, "net sales")
	unitsIdx, _ := pick(cols, "units")
	brandIdx, brandOK := pick(cols, "brand id")
	nameIdx, _ := pick(cols, "product name")
	catIdx, _ := pick(cols, "category name")
	subcatIdx, _ := pick(cols, "secondary category")

	var records []vcRecord
	for _, row := range rows[headerIdx+1:] {
		upc := reconcile.NormalizeUPC(cellAt(row, upcIdx))
		if upc == reconcile.ZeroUPC {
			continue
		}
		brand := cellAt(row, brandIdx)
		if !brandOK {
			brand = "Irwin Naturals"
		}
		records = append(records, vcRecord{
			upc:         upc,
			name:        cellAt(row, nameIdx),
			brand:       brand,
			category:    cellAt(row, catIdx),
			subcategory: cellAt(row, subcatIdx),
			dollars:     reconcile.Round2(parseFloatOr(cellAt(row, netSalesIdx), 0)),
			units:       float64(parseIntOr(cellAt(row, unitsIdx), 0)),
		})
	}
	return records
}

// readInventory reads the Current Inventory- sheet into warehouse on-hand
// records.
func (a *Vitacost) readInventory(log *zap.Logger, path, ym string) []any {
	rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{SheetName: "Current Inventory-"})
	if err != nil {
		log.Warn("no inventory sheet", zap.String("path", path), zap.Error(err))
		return nil
	}
	if len(rows) < 2 {
		return nil
	}

	cols := mapColumns(rows[0])
	upcIdx, ok := pick(cols, "upc")
	if !ok {
		return nil
	}
	descIdx, _ := pick(cols, "description")
	brandIdx, _ := pick(cols, "brandname")
	statusIdx, _ := pick(cols, "vitacost status")
	sthIdx, _ := pick(cols, "sth status")
	ncIdx, _ := pick(cols, "nc onhand")
	lvIdx, _ := pick(cols, "lv onhand")
	mzIdx, _ := pick(cols, "mz onhand")

	var records []any
	for _, row := range rows[1:] {
		upc := reconcile.NormalizeUPC(cellAt(row, upcIdx))
		if upc == reconcile.ZeroUPC {
			continue
		}
		nc := parseIntOr(cellAt(row, ncIdx), 0)
		lv := parseIntOr(cellAt(row, lvIdx), 0)
		mz := parseIntOr(cellAt(row, mzIdx), 0)
		records = append(records, vcInventoryRecord{
			UPC:            upc,
			ProductName:    cellAt(row, descIdx),
			Brand:          cellAt(row, brandIdx),
			VitacostStatus: cellAt(row, statusIdx),
			STHStatus:      cellAt(row, sthIdx),
			OnHandNC:       nc,
			OnHandLV:       lv,
			OnHandMZ:       mz,
			OnHandTotal:    nc + lv + mz,
			Period:         ym,
		})
	}
	return records
}

// vitacostFiles scans the history directory: monthly OMNI files keep the
// latest per month, weekly OMNIw files are returned in date order. ROAS
// reports share the directory and are ignored.
func vitacostFiles(dir string) (map[string]vcFile, []vcFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "vitacost: read dir %s", dir)
	}

	monthly := make(map[string]vcFile)
	var weekly []vcFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".xlsx") || strings.Contains(name, "ROAS") {
			continue
		}
		m := vcDateRe.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		d, ok := reconcile.FileDate(year, month, day)
		if !ok {
			zap.L().Warn("skipping report with invalid date", zap.String("file", name))
			continue
		}

		f := vcFile{date: d, path: filepath.Join(dir, name)}
		switch {
		case strings.Contains(name, "OMNIw"):
			weekly = append(weekly, f)
		case strings.Contains(name, "OMNI"):
			ym := reconcile.MonthOf(d)
			if cur, exists := monthly[ym]; !exists || d.After(cur.date) {
				monthly[ym] = f
			}
		}
	}
	if len(monthly) == 0 && len(weekly) == 0 {
		return nil, nil, eris.Errorf("vitacost: no OMNI reports found in %s", dir)
	}

	sort.Slice(weekly, func(i, j int) bool { return weekly[i].date.Before(weekly[j].date) })
	return monthly, weekly, nil
}
