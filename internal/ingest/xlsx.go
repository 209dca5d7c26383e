package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"grocerydash/internal/core"
)

// ParseXLSX reads receipt rows from the first sheet of an XLSX workbook.
// Cells are normalized under the same acceptance rule as CSV rows, so a
// spreadsheet export and its CSV twin yield identical record sets.
func ParseXLSX(r io.Reader, schema Schema) ([]core.Record, Stats, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, Stats{}, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	records, stats := normalizeRows(rows, schema)
	return records, stats, nil
}
