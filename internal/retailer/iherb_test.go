package retailer

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/retail-etl/internal/model"
)

const iherbHeader = "Part Number,UPCCode,Brand Name,Product Description,Status Name,LTOOS,Days on LTOOS,Quantity Available"

func TestIHerb_LaterFilesOverwriteAndYoYDerived(t *testing.T) {
	src := t.TempDir()
	dir := filepath.Join(src, "iHerb")

	writeFile(t, filepath.Join(dir, "2025", "202501_IRW.csv"),
		iherbHeader+",2024-01,2024-12\n"+
			"IRW-1,71036359201.0,Irwin Naturals,MEGA D3+K2,Active,No,0,10,100,110\n")
	writeFile(t, filepath.Join(dir, "2025", "202502_IRW.csv"),
		iherbHeader+",2024-12,2025-01\n"+
			"IRW-1,71036359201,Irwin Naturals,MEGA D3+K2,Active,Yes,12,5,115,120\n")
	writeFile(t, filepath.Join(dir, "category_mapping.json"),
		`{"by_upc": {"0071036359201": "Wellness"}, "by_sku": {}}`)

	res, err := (&IHerb{}).Build(context.Background(), Env{SourceDir: src, Now: testNow})
	require.NoError(t, err)
	ds := res.Dataset

	// the february file restates 2024-12 and wins
	assert.Equal(t, 115.0, ds.Periods["2024-12"]["0071036359201"].Units)

	// 2025-01 vs 2024-01 is twelve months apart
	m := ds.Periods["2025-01"]["0071036359201"]
	require.NotNil(t, m)
	assert.Equal(t, 120.0, m.Units)
	assert.Equal(t, 100.0, m.UnitsYago)
	assert.Equal(t, 20.0, m.UnitsYoYPct)
	assert.Equal(t, 0.0, m.Dollars)

	require.Len(t, ds.Products, 1)
	assert.Equal(t, "Wellness", ds.Products[0].Category)
}

func TestIHerb_SupplementalFromLatestFileOnly(t *testing.T) {
	src := t.TempDir()
	dir := filepath.Join(src, "iHerb")

	writeFile(t, filepath.Join(dir, "2024", "202412_IRW.csv"),
		iherbHeader+",2024-11\n"+
			"IRW-1,71036359201,Irwin Naturals,MEGA D3+K2,Active,Yes,40,2,90\n")
	writeFile(t, filepath.Join(dir, "2025", "202501_IRW.csv"),
		iherbHeader+",2024-12\n"+
			"IRW-1,71036359201,Irwin Naturals,MEGA D3+K2,Active,Yes,12,5,110\n"+
			"IRW-2,71036359401,Irwin Naturals,GINKGO,Discontinued,No,0,0,15\n")

	res, err := (&IHerb{}).Build(context.Background(), Env{SourceDir: src, Now: testNow})
	require.NoError(t, err)

	ltoos := res.Supplemental[model.SupplementalLTOOS]
	require.NotNil(t, ltoos)
	require.Len(t, ltoos.Records, 1)
	rec := ltoos.Records[0].(iherbLTOOSRecord)
	assert.Equal(t, 12, rec.DaysOnLTOOS)
	assert.Equal(t, "2025-01", rec.AsOf)

	inv := res.Supplemental[model.SupplementalInventory]
	require.NotNil(t, inv)
	require.Len(t, inv.Records, 2)
	first := inv.Records[0].(iherbInventoryRecord)
	assert.Equal(t, 5, first.QuantityAvailable)
	assert.True(t, first.LTOOS)
}

func TestIHerb_NoFiles(t *testing.T) {
	_, err := (&IHerb{}).Build(context.Background(), Env{SourceDir: t.TempDir(), Now: testNow})
	require.Error(t, err)
}
