// Package ingest turns raw receipt exports (CSV or XLSX) into normalized
// core.Record sets. Parsing is best-effort by design: rows that do not
// satisfy the acceptance rule are dropped and counted, never surfaced as
// errors.
package ingest

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Canonical column names. Every schema must bind all eight.
const (
	ColDate     = "date"
	ColStore    = "store"
	ColCategory = "category"
	ColItem     = "item"
	ColQuantity = "quantity"
	ColUnit     = "unit"
	ColPrice    = "price"
	ColTotal    = "total"
)

// Column binds one canonical field to a positional column.
type Column struct {
	Name string `yaml:"name"`
}

// Schema is the explicit positional column declaration for a receipt
// export. The default layout matches the standard export; a YAML file
// can reorder columns for other producers. Declaring the mapping up
// front replaces parser-side type inference with a typed conversion
// step in normalizeRow.
type Schema struct {
	Columns []Column `yaml:"columns"`

	index map[string]int
}

// ReceiptSchema returns the fixed 8-column layout of the standard
// export: Date, Store, Category, Item, Quantity, Unit, Price, Total.
func ReceiptSchema() Schema {
	s := Schema{Columns: []Column{
		{Name: ColDate}, {Name: ColStore}, {Name: ColCategory}, {Name: ColItem},
		{Name: ColQuantity}, {Name: ColUnit}, {Name: ColPrice}, {Name: ColTotal},
	}}
	s.buildIndex()
	return s
}

// LoadSchema reads a column declaration from a YAML file and validates
// that all canonical fields are bound.
func LoadSchema(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("read schema file: %w", err)
	}
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Schema{}, fmt.Errorf("parse schema file: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Schema{}, fmt.Errorf("schema %s: %w", path, err)
	}
	s.buildIndex()
	return s, nil
}

// Validate checks that the schema binds every canonical column exactly
// once.
func (s Schema) Validate() error {
	required := []string{ColDate, ColStore, ColCategory, ColItem, ColQuantity, ColUnit, ColPrice, ColTotal}
	seen := make(map[string]int)
	for _, c := range s.Columns {
		seen[strings.ToLower(strings.TrimSpace(c.Name))]++
	}
	var missing []string
	for _, name := range required {
		switch seen[name] {
		case 0:
			missing = append(missing, name)
		case 1:
		default:
			return fmt.Errorf("column %q declared more than once", name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// MinFields is the number of positional values a row must carry to be
// considered at all.
func (s Schema) MinFields() int {
	return len(s.Columns)
}

func (s *Schema) buildIndex() {
	s.index = make(map[string]int, len(s.Columns))
	for i, c := range s.Columns {
		s.index[strings.ToLower(strings.TrimSpace(c.Name))] = i
	}
}

// pos returns the positional index of a canonical column.
func (s Schema) pos(name string) int {
	if s.index == nil {
		for i, c := range s.Columns {
			if strings.EqualFold(strings.TrimSpace(c.Name), name) {
				return i
			}
		}
		return -1
	}
	i, ok := s.index[name]
	if !ok {
		return -1
	}
	return i
}

// field returns the trimmed value of a canonical column in a raw row,
// or "" when the row is too short.
func (s Schema) field(row []string, name string) string {
	i := s.pos(name)
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
