package retailer

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreshThyme_PivotExport(t *testing.T) {
	src := t.TempDir()
	writeXLSX(t, filepath.Join(src, "FreshThyme", "FreshThyme_January_2025.xlsx"), [][]string{
		{"", "", "", "", "", "", "", "Items Selling TY", "Stores Selling TY", "ACV",
			"Sales TY", "Sales vs LY %", "Volume TY", "Volume vs LY %", "My Sales LY", "My Sales TY", "My Volume LY", "My Volume TY"},
		{"Grand Total", "", "", "", "", "", "", "9", "99", "1", "9999", "1", "999", "1", "9999", "9999", "999", "999"},
		{"Irwin Naturals Mega Vitamin D3", "71036359201 MEGA D3+K2", "Vitamins", "D3", "", "Irwin Naturals", "",
			"3", "25", "0.1234", "100.5", "0.25", "10", "-0.1", "80", "100.5", "11", "10"},
		{"", "subtotal without a upc", "", "", "", "", "", "", "", "", "5", "0", "1", "0", "0", "0", "0", "0"},
	})

	res, err := (&FreshThyme{}).Build(context.Background(), Env{SourceDir: src, Now: testNow})
	require.NoError(t, err)
	ds := res.Dataset

	require.Len(t, ds.Products, 1)
	p := ds.Products[0]
	assert.Equal(t, "0071036359201", p.UPC)
	assert.Equal(t, "Irwin Naturals Mega Vitamin D3", p.ProductName)
	assert.Equal(t, 0.1234, p.ACV)
	assert.Equal(t, 25, p.StoreCount)

	m := ds.Periods["2025-01"]["0071036359201"]
	require.NotNil(t, m)
	assert.Equal(t, 100.5, m.Dollars)
	assert.Equal(t, 10.0, m.Units)
	assert.Equal(t, 80.0, m.DollarsYago)
	assert.Equal(t, 11.0, m.UnitsYago)
	// the source ratio columns are fractions
	assert.Equal(t, 25.0, m.DollarsYoYPct)
	assert.Equal(t, -10.0, m.UnitsYoYPct)
}

func TestFreshThyme_ShortNameFallback(t *testing.T) {
	src := t.TempDir()
	writeXLSX(t, filepath.Join(src, "FreshThyme", "FreshThyme_Feb_2025.xlsx"), [][]string{
		{"", "", "", "", "", "", "", "Sales TY", "Volume TY"},
		{"", "71036359401 GINKGO SMART", "Herbs", "Memory", "", "Irwin Naturals", "", "50", "5"},
	})

	res, err := (&FreshThyme{}).Build(context.Background(), Env{SourceDir: src, Now: testNow})
	require.NoError(t, err)

	require.Len(t, res.Dataset.Products, 1)
	assert.Equal(t, "GINKGO SMART", res.Dataset.Products[0].ProductName)
	assert.Equal(t, 50.0, res.Dataset.Periods["2025-02"]["0071036359401"].Dollars)
}

func TestFreshThyme_NoFiles(t *testing.T) {
	_, err := (&FreshThyme{}).Build(context.Background(), Env{SourceDir: t.TempDir(), Now: testNow})
	require.Error(t, err)
}
