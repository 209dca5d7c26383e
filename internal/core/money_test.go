package core

import "testing"

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"$3.50", 350, true},
		{"-0.05", -5, true},
		{"0", 0, true},
		{"12.345", 1234, true}, // rounds down
		{"12.346", 1235, true}, // rounds up
		{".99", 99, true},
		{"N/A", 0, false},
		{"", 0, false},
		{"1.2.3", 0, false},
		{"12a", 0, false},
	}
	for _, tc := range cases {
		m, err := ParseMoney(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("ParseMoney(%q) unexpected error %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseMoney(%q) expected error", tc.in)
		}
		if tc.ok && m.Cents != tc.cents {
			t.Fatalf("ParseMoney(%q) = %d, want %d", tc.in, m.Cents, tc.cents)
		}
	}
}

func TestMoneyString(t *testing.T) {
	if s := (Money{Cents: 1234}).String(); s != "$12.34" {
		t.Fatalf("got %s", s)
	}
	if s := (Money{Cents: -5}).String(); s != "-$0.05" {
		t.Fatalf("got %s", s)
	}
	if s := (Money{Cents: 305}).String(); s != "$3.05" {
		t.Fatalf("got %s", s)
	}
}

func TestRecordMonthKey(t *testing.T) {
	r := Record{Date: "2025-01-05"}
	if r.MonthKey() != "2025-01" {
		t.Fatalf("month key = %q", r.MonthKey())
	}
	short := Record{Date: "2025"}
	if short.MonthKey() != "2025" {
		t.Fatalf("short month key = %q", short.MonthKey())
	}
}
