package core

import (
	"math"
	"sort"
)

// TopItemLimit caps the item frequency table.
const TopItemLimit = 10

type (
	// CategoryAmount is a named spending bucket with its share of the
	// grand total. The grand total includes CRV deposits even though
	// CRV itself never appears as a category row, so percentages are
	// fractions of everything spent.
	CategoryAmount struct {
		Name    string
		Total   Money
		Percent float64
	}

	// MonthTotal is spending summed over one YYYY-MM month key.
	MonthTotal struct {
		Month string
		Total Money
	}

	// TopItem is one row of the item frequency table.
	TopItem struct {
		Name     string
		Count    int
		Total    Money
		Category string
		AvgPrice float64 // dollars, rounded to 2 decimals for display
	}

	// TripStats summarizes shopping trips. A trip is the set of records
	// sharing one exact date string.
	TripStats struct {
		TotalSpent Money
		TotalTrips int
		AvgPerTrip float64 // dollars
		TotalItems int
	}

	// Summary bundles the five derived views recomputed in full on
	// every ingest.
	Summary struct {
		Categories []CategoryAmount
		Stores     []CategoryAmount
		Months     []MonthTotal
		TopItems   []TopItem
		Trips      TripStats
	}
)

// Summarize computes all derived views from a normalized record set.
// It is a pure function: records are only read, and running it twice on
// the same input yields identical output. An empty input produces zeroed
// stats rather than NaN or Inf.
func Summarize(records []Record) Summary {
	return Summary{
		Categories: sumByCategory(records),
		Stores:     sumByStore(records),
		Months:     sumByMonth(records),
		TopItems:   rankItems(records),
		Trips:      tripStats(records),
	}
}

func grandTotal(records []Record) Money {
	var total Money
	for _, r := range records {
		total = total.Add(r.Total)
	}
	return total
}

// sumByCategory buckets spending by category, descending. CRV deposit
// rows are excluded as buckets but still count toward the grand total
// used for percentages.
func sumByCategory(records []Record) []CategoryAmount {
	grand := grandTotal(records)
	buckets := make(map[string]Money)
	var order []string
	for _, r := range records {
		if r.IsDeposit() {
			continue
		}
		if _, ok := buckets[r.Category]; !ok {
			order = append(order, r.Category)
		}
		buckets[r.Category] = buckets[r.Category].Add(r.Total)
	}
	return rankBuckets(buckets, order, grand)
}

// sumByStore buckets spending by store, descending. Deposits stay in:
// the store still charged them.
func sumByStore(records []Record) []CategoryAmount {
	grand := grandTotal(records)
	buckets := make(map[string]Money)
	var order []string
	for _, r := range records {
		if _, ok := buckets[r.Store]; !ok {
			order = append(order, r.Store)
		}
		buckets[r.Store] = buckets[r.Store].Add(r.Total)
	}
	return rankBuckets(buckets, order, grand)
}

// rankBuckets turns a bucket map into rows sorted descending by amount.
// The order slice preserves first-seen input order so that equal amounts
// keep their relative position under the stable sort.
func rankBuckets(buckets map[string]Money, order []string, grand Money) []CategoryAmount {
	rows := make([]CategoryAmount, 0, len(order))
	for _, name := range order {
		total := buckets[name]
		pct := 0.0
		if grand.Cents != 0 {
			pct = float64(total.Cents) / float64(grand.Cents) * 100
		}
		rows = append(rows, CategoryAmount{Name: name, Total: total, Percent: pct})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Total.Cents > rows[j].Total.Cents
	})
	return rows
}

func sumByMonth(records []Record) []MonthTotal {
	buckets := make(map[string]Money)
	for _, r := range records {
		key := r.MonthKey()
		buckets[key] = buckets[key].Add(r.Total)
	}
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([]MonthTotal, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, MonthTotal{Month: k, Total: buckets[k]})
	}
	return rows
}

// rankItems counts purchase occurrences per item name, excluding CRV
// deposits, and keeps the ten most frequent. The category shown is the
// one first observed for the item.
func rankItems(records []Record) []TopItem {
	type itemAcc struct {
		count    int
		total    Money
		category string
	}
	acc := make(map[string]*itemAcc)
	var order []string
	for _, r := range records {
		if r.IsDeposit() {
			continue
		}
		a, ok := acc[r.Item]
		if !ok {
			a = &itemAcc{category: r.Category}
			acc[r.Item] = a
			order = append(order, r.Item)
		}
		a.count++
		a.total = a.total.Add(r.Total)
	}
	rows := make([]TopItem, 0, len(order))
	for _, name := range order {
		a := acc[name]
		rows = append(rows, TopItem{
			Name:     name,
			Count:    a.count,
			Total:    a.total,
			Category: a.category,
			AvgPrice: round2(a.total.Dollars() / float64(a.count)),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})
	if len(rows) > TopItemLimit {
		rows = rows[:TopItemLimit]
	}
	return rows
}

func tripStats(records []Record) TripStats {
	dates := make(map[string]struct{})
	for _, r := range records {
		dates[r.Date] = struct{}{}
	}
	stats := TripStats{
		TotalSpent: grandTotal(records),
		TotalTrips: len(dates),
		TotalItems: len(records),
	}
	if stats.TotalTrips > 0 {
		stats.AvgPerTrip = stats.TotalSpent.Dollars() / float64(stats.TotalTrips)
	}
	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
