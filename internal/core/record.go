package core

import "strings"

// CategoryCRV marks container-deposit line items. CRV rows count toward
// overall and per-store totals but are excluded from category and item
// aggregates.
const CategoryCRV = "CRV"

// Record is one normalized receipt line item. Records are never mutated
// after creation; every derived view is a pure projection over a slice
// of them.
type Record struct {
	Date     string // lexical YYYY-MM-DD, kept as-is
	Store    string
	Category string
	Item     string
	Quantity float64 // <= 0 means not recorded
	Unit     string  // display only
	Price    Money   // unit price, zero means not recorded
	Total    Money   // mandatory, the line amount
}

// MonthKey returns the YYYY-MM prefix of the record date, or the whole
// date string when it is shorter than seven characters.
func (r Record) MonthKey() string {
	if len(r.Date) < 7 {
		return r.Date
	}
	return r.Date[:7]
}

// EffectiveQuantity returns the recorded quantity, defaulting to 1 when
// the receipt did not carry one.
func (r Record) EffectiveQuantity() float64 {
	if r.Quantity <= 0 {
		return 1
	}
	return r.Quantity
}

// IsDeposit reports whether the record is a CRV deposit line.
func (r Record) IsDeposit() bool {
	return strings.EqualFold(r.Category, CategoryCRV)
}

// HasPrice reports whether both unit price and quantity were recorded.
// The per-date price snapshot only considers such records.
func (r Record) HasPrice() bool {
	return r.Price.Cents != 0 && r.Quantity > 0
}
