package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoaderReadsLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "receipts.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}

	l := NewLoader(2 * time.Second)
	records, stats, err := l.Load(context.Background(), path, ReceiptSchema())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 3 || stats.Accepted != 3 {
		t.Fatalf("records=%d stats=%+v", len(records), stats)
	}
}

func TestLoaderFetchesHTTP(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer ts.Close()

	l := NewLoader(2 * time.Second)
	records, _, err := l.Load(context.Background(), ts.URL+"/receipts.csv", ReceiptSchema())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records=%d", len(records))
	}
}

func TestLoaderReportsMissingFile(t *testing.T) {
	l := NewLoader(time.Second)
	if _, _, err := l.Load(context.Background(), "/definitely/not/here.csv", ReceiptSchema()); err == nil {
		t.Fatalf("expected error for missing dataset")
	}
}

func TestLoaderReportsBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	l := NewLoader(time.Second)
	if _, _, err := l.Load(context.Background(), ts.URL, ReceiptSchema()); err == nil {
		t.Fatalf("expected error for 404 dataset")
	}
}
