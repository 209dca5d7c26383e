package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"grocerydash/internal/core"
)

// Stats counts the outcome of one normalization pass.
type Stats struct {
	Accepted int
	Dropped  int
}

// ParseCSV reads a comma-delimited, header-less receipt export and
// returns the accepted records. Rows with fewer positional values than
// the schema declares, or whose total does not parse as money, are
// dropped silently; all other field mismatches fall back to zero values
// and the row is kept. A zero-record result with a high drop count is
// indistinguishable from an empty file by design.
func ParseCSV(r io.Reader, schema Schema) ([]core.Record, Stats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows are ragged in the wild
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, Stats{}, fmt.Errorf("read csv: %w", err)
	}
	records, stats := normalizeRows(rows, schema)
	return records, stats, nil
}

// normalizeRows applies the acceptance rule to every raw row.
func normalizeRows(rows [][]string, schema Schema) ([]core.Record, Stats) {
	var stats Stats
	records := make([]core.Record, 0, len(rows))
	for i, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		rec, ok := normalizeRow(row, schema)
		if !ok {
			stats.Dropped++
			slog.Debug("Dropped malformed receipt row", "row", i+1, "fields", len(row))
			continue
		}
		stats.Accepted++
		records = append(records, rec)
	}
	return records, stats
}

// normalizeRow maps one raw row onto the fixed record shape. A row is
// accepted iff it carries at least MinFields values and its total column
// parses as money. Quantity and price fall back to "not recorded" when
// they do not parse; strings are kept as-is.
func normalizeRow(row []string, schema Schema) (core.Record, bool) {
	if len(row) < schema.MinFields() {
		return core.Record{}, false
	}
	total, err := core.ParseMoney(schema.field(row, ColTotal))
	if err != nil {
		return core.Record{}, false
	}

	rec := core.Record{
		Date:     schema.field(row, ColDate),
		Store:    schema.field(row, ColStore),
		Category: schema.field(row, ColCategory),
		Item:     schema.field(row, ColItem),
		Unit:     schema.field(row, ColUnit),
		Total:    total,
	}
	if q, err := strconv.ParseFloat(schema.field(row, ColQuantity), 64); err == nil {
		rec.Quantity = q
	}
	if p, err := core.ParseMoney(schema.field(row, ColPrice)); err == nil {
		rec.Price = p
	}
	return rec, true
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
