package core

import (
	"sort"
	"strings"
)

type (
	// PurchasePoint is one day's worth of purchases for a searched item:
	// quantities summed (missing quantity counts as 1) and totals summed.
	PurchasePoint struct {
		Date     string
		Quantity float64
		Total    Money
	}

	// PricePoint is the unit price observed for a searched item on one
	// date. Only the first price seen per date is kept, and only from
	// records that carry both a price and a quantity.
	PricePoint struct {
		Date  string
		Price Money
	}

	// SearchResult is everything the search view renders for one query.
	SearchResult struct {
		Term       string
		Records    []Record
		TotalSpent Money
		History    []PurchasePoint
		Prices     []PricePoint
	}
)

// Search filters records whose item name contains term as a
// case-insensitive substring and derives the per-date purchase history
// and price snapshot, both ascending by date string. Like Summarize it
// is pure; callers are expected to screen out empty terms.
func Search(records []Record, term string) SearchResult {
	needle := strings.ToLower(strings.TrimSpace(term))
	res := SearchResult{Term: strings.TrimSpace(term)}

	history := make(map[string]*PurchasePoint)
	prices := make(map[string]Money)
	for _, r := range records {
		if !strings.Contains(strings.ToLower(r.Item), needle) {
			continue
		}
		res.Records = append(res.Records, r)
		res.TotalSpent = res.TotalSpent.Add(r.Total)

		p, ok := history[r.Date]
		if !ok {
			p = &PurchasePoint{Date: r.Date}
			history[r.Date] = p
		}
		p.Quantity += r.EffectiveQuantity()
		p.Total = p.Total.Add(r.Total)

		if r.HasPrice() {
			if _, seen := prices[r.Date]; !seen {
				prices[r.Date] = r.Price
			}
		}
	}

	for _, date := range sortedKeys(history) {
		res.History = append(res.History, *history[date])
	}
	for date, price := range prices {
		res.Prices = append(res.Prices, PricePoint{Date: date, Price: price})
	}
	sort.Slice(res.Prices, func(i, j int) bool {
		return res.Prices[i].Date < res.Prices[j].Date
	})
	return res
}

func sortedKeys(m map[string]*PurchasePoint) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
