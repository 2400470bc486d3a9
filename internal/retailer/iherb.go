package retailer

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/retail-etl/internal/fetcher"
	"github.com/sells-group/retail-etl/internal/model"
	"github.com/sells-group/retail-etl/internal/reconcile"
)

// IHerb reads the monthly vendor CSV exports under iHerb/<year>/. Each file
// carries a rolling 14-month window of unit columns, so the same month shows
// up in several files; later files carry corrected figures and overwrite
// earlier ones. The data is units-only, year-over-year is derived from the
// assembled timeline.
type IHerb struct{}

func (a *IHerb) Key() string         { return "iherb" }
func (a *IHerb) DisplayName() string { return "iHerb" }

var (
	iherbFileRe  = regexp.MustCompile(`^(\d{4})(\d{2})_IRW\.csv$`)
	iherbYearRe  = regexp.MustCompile(`^\d{4}$`)
	iherbMonthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

// categoryMapping maps UPCs and vendor SKUs to official categories. The
// vendor export has no category column, so this sits beside the source files
// as category_mapping.json; a missing file just leaves categories empty.
type categoryMapping struct {
	ByUPC map[string]string `json:"by_upc"`
	BySKU map[string]string `json:"by_sku"`
}

type iherbLTOOSRecord struct {
	UPC         string `json:"upc"`
	ProductName string `json:"product_name"`
	LTOOS       bool   `json:"ltoos"`
	DaysOnLTOOS int    `json:"days_on_ltoos"`
	AsOf        string `json:"as_of"`
}

type iherbInventoryRecord struct {
	UPC               string `json:"upc"`
	ProductName       string `json:"product_name"`
	QuantityAvailable int    `json:"quantity_available"`
	Status            string `json:"status"`
	LTOOS             bool   `json:"ltoos"`
	DaysOnLTOOS       int    `json:"days_on_ltoos"`
	AsOf              string `json:"as_of"`
}

func (a *IHerb) Build(ctx context.Context, env Env) (*Result, error) {
	dir := filepath.Join(env.SourceDir, "iHerb")
	log := zap.L().With(zap.String("retailer", a.Key()))

	paths, err := iherbCSVFiles(dir)
	if err != nil {
		return nil, err
	}
	cats := loadCategoryMapping(log, filepath.Join(dir, "category_mapping.json"))

	reg := reconcile.NewProductRegistry()
	tbl := reconcile.NewTable()
	var ltoos, inventory []any

	for i, path := range paths {
		rows, err := fetcher.ReadCSV(path)
		if err != nil {
			log.Warn("skipping unreadable export", zap.String("path", path), zap.Error(err))
			continue
		}
		latest := i == len(paths)-1
		a.mergeExport(filepath.Base(path), rows, cats, reg, tbl, latest, &ltoos, &inventory, env.Now.Format("2006-01"))
	}

	reconcile.DeriveYoY(tbl)

	res := &Result{
		Dataset:      newDataset(a.DisplayName(), env.Now, reg, tbl),
		Supplemental: make(map[string]*model.Supplemental),
	}
	if len(ltoos) > 0 {
		res.Supplemental[model.SupplementalLTOOS] = newSupplemental(a.DisplayName(), env.Now, ltoos)
	}
	if len(inventory) > 0 {
		res.Supplemental[model.SupplementalInventory] = newSupplemental(a.DisplayName(), env.Now, inventory)
	}
	return res, nil
}

// mergeExport folds one monthly export into the registry and timeline.
// LTOOS and inventory snapshots come from the latest file only, since each
// export restates the full current state.
func (a *IHerb) mergeExport(basename string, rows [][]string, cats categoryMapping, reg *reconcile.ProductRegistry, tbl *reconcile.Table, latest bool, ltoos, inventory *[]any, fallbackAsOf string) {
	if len(rows) < 2 {
		return
	}

	asOf := fallbackAsOf
	if m := iherbFileRe.FindStringSubmatch(basename); m != nil {
		asOf = m[1] + "-" + m[2]
	}

	cols := mapColumns(rows[0])
	upcIdx, ok := pick(cols, "upccode", "upc code", "upc")
	if !ok {
		return
	}
	skuIdx, _ := pick(cols, "part number")
	nameIdx, _ := pick(cols, "product description")
	brandIdx, _ := pick(cols, "brand name")
	statusIdx, _ := pick(cols, "status name")
	ltoosIdx, _ := pick(cols, "ltoos")
	ltoosDaysIdx, _ := pick(cols, "days on ltoos")
	qtyIdx, _ := pick(cols, "quantity available")

	// unit columns are named for the month they cover
	var monthCols []int
	for i, h := range rows[0] {
		if iherbMonthRe.MatchString(strings.TrimSpace(h)) {
			monthCols = append(monthCols, i)
		}
	}

	for _, row := range rows[1:] {
		upc := reconcile.NormalizeUPC(cellAt(row, upcIdx))
		if upc == reconcile.ZeroUPC {
			continue
		}

		category := cats.ByUPC[upc]
		if category == "" {
			category = cats.BySKU[cellAt(row, skuIdx)]
		}
		reg.Upsert(model.Product{
			UPC:         upc,
			ProductName: cellAt(row, nameIdx),
			Brand:       cellAt(row, brandIdx),
			Category:    category,
		})

		for _, mc := range monthCols {
			v, ok := parseFloatOk(cellAt(row, mc))
			if !ok {
				continue
			}
			ym := strings.TrimSpace(rows[0][mc])
			tbl.Combine(upc, ym, model.Metrics{Units: float64(int(v))}, reconcile.OverwriteLatest)
		}

		if !latest {
			continue
		}

		isLTOOS := strings.EqualFold(cellAt(row, ltoosIdx), "yes")
		days := parseIntOr(cellAt(row, ltoosDaysIdx), 0)
		if isLTOOS {
			*ltoos = append(*ltoos, iherbLTOOSRecord{
				UPC:         upc,
				ProductName: cellAt(row, nameIdx),
				LTOOS:       true,
				DaysOnLTOOS: days,
				AsOf:        asOf,
			})
		}
		*inventory = append(*inventory, iherbInventoryRecord{
			UPC:               upc,
			ProductName:       cellAt(row, nameIdx),
			QuantityAvailable: parseIntOr(cellAt(row, qtyIdx), 0),
			Status:            cellAt(row, statusIdx),
			LTOOS:             isLTOOS,
			DaysOnLTOOS:       days,
			AsOf:              asOf,
		})
	}
}

// iherbCSVFiles finds the vendor exports under dir's year subdirectories,
// sorted by name so the newest file comes last. Edited copies are excluded.
func iherbCSVFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "iherb: read dir %s", dir)
	}

	var paths []string
	for _, e := range entries {
		if !e.IsDir() || !iherbYearRe.MatchString(e.Name()) {
			continue
		}
		sub, err := os.ReadDir(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		for _, f := range sub {
			if !f.IsDir() && strings.HasSuffix(f.Name(), "_IRW.csv") && !strings.HasSuffix(f.Name(), "_edited.csv") {
				paths = append(paths, filepath.Join(dir, e.Name(), f.Name()))
			}
		}
	}
	if len(paths) == 0 {
		return nil, eris.Errorf("iherb: no vendor exports found under %s", dir)
	}

	sort.Slice(paths, func(i, j int) bool {
		return filepath.Base(paths[i]) < filepath.Base(paths[j])
	})
	return paths, nil
}

func loadCategoryMapping(log *zap.Logger, path string) categoryMapping {
	cats := categoryMapping{ByUPC: map[string]string{}, BySKU: map[string]string{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("category mapping unreadable", zap.String("path", path), zap.Error(err))
		}
		return cats
	}
	if err := json.Unmarshal(data, &cats); err != nil {
		log.Warn("category mapping malformed", zap.String("path", path), zap.Error(err))
		return categoryMapping{ByUPC: map[string]string{}, BySKU: map[string]string{}}
	}
	if cats.ByUPC == nil {
		cats.ByUPC = map[string]string{}
	}
	if cats.BySKU == nil {
		cats.BySKU = map[string]string{}
	}
	return cats
}
