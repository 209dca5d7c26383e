package ingest

import (
	"strings"
	"testing"
)

const sampleCSV = `2025-01-05,Fresh Mart,Dairy,Whole Milk,1,gal,3.50,3.50
2025-01-05,Fresh Mart,CRV,CRV Bottle Deposit,1,ea,0.05,0.05
2025-01-06,Corner Grocer,Dairy,Almond Milk,1,qt,4.00,4.00
`

func TestParseCSVAcceptsWellFormedRows(t *testing.T) {
	records, stats, err := ParseCSV(strings.NewReader(sampleCSV), ReceiptSchema())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Accepted != 3 || stats.Dropped != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	r := records[0]
	if r.Date != "2025-01-05" || r.Store != "Fresh Mart" || r.Item != "Whole Milk" {
		t.Fatalf("unexpected record: %+v", r)
	}
	if r.Total.Cents != 350 || r.Price.Cents != 350 || r.Quantity != 1 || r.Unit != "gal" {
		t.Fatalf("unexpected fields: %+v", r)
	}
}

func TestParseCSVDropsShortRows(t *testing.T) {
	// 6 columns only
	in := "2025-01-05,Fresh Mart,Dairy,Whole Milk,1,gal\n" + sampleCSV
	records, stats, err := ParseCSV(strings.NewReader(in), ReceiptSchema())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Dropped != 1 || len(records) != 3 {
		t.Fatalf("stats = %+v, records = %d", stats, len(records))
	}
}

func TestParseCSVDropsNonNumericTotal(t *testing.T) {
	in := "2025-01-05,Fresh Mart,Dairy,Whole Milk,1,gal,3.50,N/A\n"
	records, stats, err := ParseCSV(strings.NewReader(in), ReceiptSchema())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 || stats.Dropped != 1 {
		t.Fatalf("expected row dropped, got records=%d stats=%+v", len(records), stats)
	}
}

func TestParseCSVToleratesBadQuantityAndPrice(t *testing.T) {
	in := "2025-01-05,Fresh Mart,Produce,Bananas,about two,lb,n/a,1.24\n"
	records, stats, err := ParseCSV(strings.NewReader(in), ReceiptSchema())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Accepted != 1 {
		t.Fatalf("expected acceptance, stats = %+v", stats)
	}
	r := records[0]
	if r.Quantity != 0 || r.Price.Cents != 0 {
		t.Fatalf("expected zero fallbacks, got %+v", r)
	}
	if r.Total.Cents != 124 {
		t.Fatalf("total = %d", r.Total.Cents)
	}
}

func TestParseCSVSkipsBlankRows(t *testing.T) {
	in := sampleCSV + "\n   ,,,,,,,\n"
	records, stats, err := ParseCSV(strings.NewReader(in), ReceiptSchema())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 || stats.Dropped != 0 {
		t.Fatalf("blank row should not count: records=%d stats=%+v", len(records), stats)
	}
}

func TestParseCSVNegativeTotalAccepted(t *testing.T) {
	in := "2025-01-05,Fresh Mart,Dairy,Milk Coupon,1,ea,0,-0.50\n"
	records, _, err := ParseCSV(strings.NewReader(in), ReceiptSchema())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].Total.Cents != -50 {
		t.Fatalf("discount line mishandled: %+v", records)
	}
}
