package retailer

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/retail-etl/internal/fetcher"
	"github.com/sells-group/retail-etl/internal/model"
	"github.com/sells-group/retail-etl/internal/reconcile"
)

// Sprouts reads a single SPINS WEEK export. Weeks are rolled up into months
// (summing across the weeks of a month) and also kept at week grain in the
// weekly_periods table.
type Sprouts struct{}

func (a *Sprouts) Key() string         { return "sprouts" }
func (a *Sprouts) DisplayName() string { return "Sprouts" }

func (a *Sprouts) Build(ctx context.Context, env Env) (*Result, error) {
	dir := filepath.Join(env.SourceDir, "Sprouts")

	path, err := firstXLSX(dir)
	if err != nil {
		return nil, err
	}
	rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{})
	if err != nil {
		return nil, eris.Wrap(err, "sprouts: read workbook")
	}
	if len(rows) < 2 {
		return nil, eris.Errorf("sprouts: workbook %s has no data rows", path)
	}

	cols := mapColumns(rows[0])
	tfIdx, ok := pick(cols, "time frame")
	if !ok {
		return nil, eris.Errorf("sprouts: workbook %s has no TIME FRAME column", path)
	}
	upcIdx, _ := pick(cols, "upc")
	descIdx, _ := pick(cols, "description")
	brandIdx, _ := pick(cols, "brand")
	catIdx, _ := pick(cols, "category")
	subcatIdx, _ := pick(cols, "subcategory")
	dollarsIdx, _ := pick(cols, "dollars")
	dollarsYagoIdx, _ := pick(cols, "dollars, yago")
	unitsIdx, _ := pick(cols, "units")
	unitsYagoIdx, _ := pick(cols, "units, yago")

	reg := reconcile.NewProductRegistry()
	monthly := reconcile.NewTable()
	weekly := reconcile.NewTable()

	for _, row := range rows[1:] {
		d, ok := reconcile.ExtractDate(cellAt(row, tfIdx))
		if !ok {
			continue
		}
		upc := reconcile.NormalizeUPC(cellAt(row, upcIdx))
		if upc == reconcile.ZeroUPC {
			continue
		}

		reg.Upsert(model.Product{
			UPC:         upc,
			ProductName: cellAt(row, descIdx),
			Brand:       cellAt(row, brandIdx),
			Category:    cellAt(row, catIdx),
			Subcategory: cellAt(row, subcatIdx),
		})

		m := spinsMetrics(row, dollarsIdx, unitsIdx, dollarsYagoIdx, unitsYagoIdx)
		monthly.Combine(upc, reconcile.MonthOf(d), m, reconcile.AccumulateSum)
		weekly.Combine(upc, reconcile.WeekKey(d), m, reconcile.AccumulateSum)
	}

	ds := newDataset(a.DisplayName(), env.Now, reg, monthly)
	ds.WeeklyPeriods = weekly.Export()

	return &Result{Dataset: ds}, nil
}

// firstXLSX returns the lexically first workbook in dir.
func firstXLSX(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", eris.Wrapf(err, "sprouts: read dir %s", dir)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".xlsx") && !strings.HasPrefix(e.Name(), "~") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", eris.Errorf("sprouts: no workbook found in %s", dir)
	}
	sort.Strings(names)
	return filepath.Join(dir, names[0]), nil
}
