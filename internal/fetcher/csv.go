package fetcher

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"
)

// ReadCSV reads a CSV file into string rows. Vendor exports are sloppy, so
// quoting is lax and ragged records are tolerated; unreadable individual
// records are skipped rather than failing the file.
func ReadCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "csv: open %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		rows = append(rows, record)
	}

	return rows, nil
}
