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

	"github.com/sells-group/retail-etl/internal/model"
	"github.com/sells-group/retail-etl/internal/reconcile"
)

// FreshThyme reads one workbook per month named like FreshThyme_March_2025.xlsx.
// The layout is a pivot export: the first seven columns are unlabeled group
// headers (description, UPC+short name, category, subcategory, ..., brand)
// followed by named measure columns. The source already carries prior-year
// figures; its vs-LY ratios are fractions and are scaled to percentages.
type FreshThyme struct{}

func (a *FreshThyme) Key() string         { return "freshthyme" }
func (a *FreshThyme) DisplayName() string { return "FreshThyme" }

var (
	ftFileRe = regexp.MustCompile(`(?i)^FreshThyme_(\w+)_(\d{4})\.xlsx$`)
	ftUPCRe  = regexp.MustCompile(`^(\d{5,14})\s`)
	ftNameRe = regexp.MustCompile(`^\d{5,14}\s+(.*)`)
)

// fixed positions of the unlabeled group-header columns
const (
	ftColDesc    = 0
	ftColUPCName = 1
	ftColCat     = 2
	ftColSubcat  = 3
	ftColBrand   = 5
)

func (a *FreshThyme) Build(ctx context.Context, env Env) (*Result, error) {
	dir := filepath.Join(env.SourceDir, "FreshThyme")
	log := zap.L().With(zap.String("retailer", a.Key()))

	files, err := freshThymeFiles(dir)
	if err != nil {
		return nil, err
	}

	reg := reconcile.NewProductRegistry()
	tbl := reconcile.NewTable()

	for _, f := range files {
		rows := readOptionalXLSX(log, f.path)
		if rows == nil {
			continue
		}
		a.mergeMonth(rows, f.ym, reg, tbl)
	}

	return &Result{Dataset: newDataset(a.DisplayName(), env.Now, reg, tbl)}, nil
}

// mergeMonth folds one monthly workbook into the registry and period table.
func (a *FreshThyme) mergeMonth(rows [][]string, ym string, reg *reconcile.ProductRegistry, tbl *reconcile.Table) {
	if len(rows) < 2 {
		return
	}

	var dollarsIdx, dollarsPctIdx, unitsIdx, unitsPctIdx int = -1, -1, -1, -1
	var dollarsYagoIdx, unitsYagoIdx, acvIdx, storeCtIdx int = -1, -1, -1, -1
	for i, h := range rows[0] {
		switch hl := strings.ToLower(strings.TrimSpace(h)); {
		case hl == "sales ty":
			dollarsIdx = i
		case strings.HasPrefix(hl, "sales vs ly"):
			dollarsPctIdx = i
		case hl == "volume ty":
			unitsIdx = i
		case strings.HasPrefix(hl, "volume vs ly"):
			unitsPctIdx = i
		case hl == "my sales ly":
			dollarsYagoIdx = i
		case hl == "my volume ly":
			unitsYagoIdx = i
		case hl == "acv":
			acvIdx = i
		case hl == "stores selling ty":
			storeCtIdx = i
		}
	}

	for _, row := range rows[1:] {
		if cellAt(row, ftColDesc) == "Grand Total" {
			continue
		}
		upcName := cellAt(row, ftColUPCName)
		m := ftUPCRe.FindStringSubmatch(upcName)
		if m == nil {
			continue
		}
		upc := reconcile.NormalizeUPC(m[1])
		if upc == reconcile.ZeroUPC {
			continue
		}

		name := cellAt(row, ftColDesc)
		if name == "" {
			if nm := ftNameRe.FindStringSubmatch(upcName); nm != nil {
				name = strings.TrimSpace(nm[1])
			} else {
				name = upcName
			}
		}

		reg.Upsert(model.Product{
			UPC:         upc,
			ProductName: name,
			Brand:       cellAt(row, ftColBrand),
			Category:    cellAt(row, ftColCat),
			Subcategory: cellAt(row, ftColSubcat),
			ACV:         reconcile.Round4(parseFloatOr(cellAt(row, acvIdx), 0)),
			StoreCount:  parseIntOr(cellAt(row, storeCtIdx), 0),
		})

		tbl.Combine(upc, ym, model.Metrics{
			Dollars:       parseFloatOr(cellAt(row, dollarsIdx), 0),
			Units:         parseFloatOr(cellAt(row, unitsIdx), 0),
			DollarsYago:   parseFloatOr(cellAt(row, dollarsYagoIdx), 0),
			UnitsYago:     parseFloatOr(cellAt(row, unitsYagoIdx), 0),
			DollarsYoYPct: parseFloatOr(cellAt(row, dollarsPctIdx), 0) * 100,
			UnitsYoYPct:   parseFloatOr(cellAt(row, unitsPctIdx), 0) * 100,
		}, reconcile.OverwriteLatest)
	}
}

type ftFile struct {
	ym   string
	path string
}

// freshThymeFiles finds the monthly workbooks and returns them in
// chronological order.
func freshThymeFiles(dir string) ([]ftFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "freshthyme: read dir %s", dir)
	}

	var files []ftFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := ftFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		year, _ := strconv.Atoi(m[2])
		ym, ok := reconcile.MonthFromLabel(m[1], year)
		if !ok {
			continue
		}
		files = append(files, ftFile{ym: ym, path: filepath.Join(dir, e.Name())})
	}
	if len(files) == 0 {
		return nil, eris.Errorf("freshthyme: no monthly workbooks found in %s", dir)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].ym < files[j].ym })
	return files, nil
}
