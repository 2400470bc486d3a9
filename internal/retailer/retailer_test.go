package retailer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

// testNow is the fixed run time used across adapter tests.
var testNow = time.Date(2026, time.February, 10, 9, 30, 0, 0, time.UTC)

type testSheet struct {
	name string
	rows [][]string
}

// writeWorkbook writes an xlsx fixture with the given sheets, creating
// parent directories as needed.
func writeWorkbook(t *testing.T, path string, sheets ...testSheet) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	f := xlsx.NewFile()
	for _, s := range sheets {
		sheet, err := f.AddSheet(s.name)
		require.NoError(t, err)
		for _, row := range s.rows {
			r := sheet.AddRow()
			for _, cell := range row {
				r.AddCell().Value = cell
			}
		}
	}
	require.NoError(t, f.Save(path))
}

// writeXLSX writes a single-sheet xlsx fixture.
func writeXLSX(t *testing.T, path string, rows [][]string) {
	t.Helper()
	writeWorkbook(t, path, testSheet{name: "Sheet1", rows: rows})
}

// writeFile writes a raw text fixture, creating parent directories.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
