package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"datamart-etl/models"
)

// WriteTable renders a table as a UTF-8 CSV file with a header row,
// creating intermediate directories as needed. encoding/csv quotes any
// field containing delimiters, quotes, or newlines, so free-text columns
// (review bodies in particular) embed safely.
func WriteTable(path string, tbl models.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(tbl.Columns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, row := range tbl.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv: flush %q: %w", path, err)
	}
	return nil
}

// ReadTable parses a delimited file into a table. The first record is
// the header row. A missing file is an error for the caller to treat as
// fatal.
func ReadTable(path string) (models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Table{}, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return models.Table{}, fmt.Errorf("csv: parse %q: %w", path, err)
	}
	if len(records) == 0 {
		return models.Table{}, fmt.Errorf("csv: %q has no header row", path)
	}

	tbl := models.NewTable(records[0]...)
	for _, rec := range records[1:] {
		tbl.AppendRow(rec)
	}
	return tbl, nil
}
