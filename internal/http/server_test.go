package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"grocerydash/internal/core"
	"grocerydash/internal/ingest"
	"grocerydash/internal/view"
)

const sampleCSV = `Date,Store,Category,Item,Quantity,Unit,Price,Total
2024-01-05,FoodMart,Dairy,Whole Milk,2,gal,3.50,7.00
2024-01-05,FoodMart,CRV,CRV Deposit,,,,0.50
2024-02-10,GreenGrocer,Produce,Bananas,3,lb,0.59,1.77
`

func newTestServer(t *testing.T) (*Server, *view.Dashboard, *view.Finder) {
	t.Helper()
	dashboard := view.NewDashboard()
	finder := view.NewFinder()
	srv := NewServer(":0", dashboard, finder, ingest.ReceiptSchema(), Options{})
	t.Cleanup(func() { srv.rateLimiter.stop(); srv.cacheManager.Stop() })
	return srv, dashboard, finder
}

func ingestSample(t *testing.T, dashboard *view.Dashboard, finder *view.Finder) view.Snapshot {
	t.Helper()
	records, _, err := ingest.ParseCSV(strings.NewReader(sampleCSV), ingest.ReceiptSchema())
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	snap := dashboard.Ingest("sample.csv", records)
	finder.SetRecords(snap.ID, snap.Records)
	return snap
}

func TestPagesAndHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)

	for _, path := range []string{"/", "/search", "/healthz", "/readyz"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestOverviewBeforeFirstIngest(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ui/overview", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("overview status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Upload a receipt export") {
		t.Fatalf("expected prompt placeholder, got: %s", rr.Body.String())
	}
}

func TestOverviewAfterIngest(t *testing.T) {
	srv, dashboard, finder := newTestServer(t)
	ingestSample(t, dashboard, finder)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ui/overview", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("overview status=%d", rr.Code)
	}
	body := rr.Body.String()
	// Grand total includes the deposit row: 7.00 + 0.50 + 1.77
	if !strings.Contains(body, "$9.27") {
		t.Fatalf("expected grand total in overview, got: %s", body)
	}
	if !strings.Contains(body, "Whole Milk") {
		t.Fatalf("expected top item in overview, got: %s", body)
	}
}

func TestCategoriesEndpointExcludesDeposits(t *testing.T) {
	srv, dashboard, finder := newTestServer(t)
	ingestSample(t, dashboard, finder)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("categories status=%d", rr.Code)
	}

	var rows []struct {
		Name    string  `json:"name"`
		Cents   int64   `json:"cents"`
		Percent float64 `json:"percent"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(rows))
	}
	for _, row := range rows {
		if row.Name == core.CategoryCRV {
			t.Fatalf("deposit category leaked into breakdown")
		}
	}
	// Largest category first
	if rows[0].Name != "Dairy" || rows[0].Cents != 700 {
		t.Fatalf("rows[0] = %+v", rows[0])
	}
}

func TestMonthlyEndpointAscending(t *testing.T) {
	srv, dashboard, finder := newTestServer(t)
	ingestSample(t, dashboard, finder)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/monthly", nil)
	srv.Handler.ServeHTTP(rr, req)

	var rows []struct {
		Month string `json:"month"`
		Cents int64  `json:"cents"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 2 || rows[0].Month != "2024-01" || rows[1].Month != "2024-02" {
		t.Fatalf("months out of order: %+v", rows)
	}
}

func TestTripsEndpointEmptyDataset(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/trips", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("trips status=%d", rr.Code)
	}

	var trips struct {
		TotalCents int64   `json:"total_cents"`
		TotalTrips int     `json:"total_trips"`
		AvgPerTrip float64 `json:"avg_per_trip"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &trips); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if trips.TotalCents != 0 || trips.TotalTrips != 0 || trips.AvgPerTrip != 0 {
		t.Fatalf("expected zeros before first ingest, got %+v", trips)
	}
}

func multipartUpload(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUploadSwapsSnapshot(t *testing.T) {
	srv, dashboard, finder := newTestServer(t)

	body, contentType := multipartUpload(t, "receipts", "week1.csv", sampleCSV)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	srv.Handler.ServeHTTP(rr, req)

	if rr.Code != 200 {
		t.Fatalf("upload status=%d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), "receipts:ingested") {
		t.Fatalf("missing ingest trigger, header=%q", rr.Header().Get("HX-Trigger"))
	}
	if dashboard.Phase() != view.PhaseReady {
		t.Fatalf("phase = %v, want ready", dashboard.Phase())
	}
	snap, ok := dashboard.Snapshot()
	if !ok || len(snap.Records) != 3 {
		t.Fatalf("snapshot records = %d, ok = %v", len(snap.Records), ok)
	}
	if finder.SnapshotID() != snap.ID {
		t.Fatalf("finder not rebound to new snapshot")
	}
}

func TestUploadWrongMethodAndMissingFile(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/upload", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	body, contentType := multipartUpload(t, "wrongfield", "week1.csv", sampleCSV)
	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing file field, got %d", rr.Code)
	}
}

func TestUploadFailureKeepsPreviousSnapshot(t *testing.T) {
	srv, dashboard, finder := newTestServer(t)
	prev := ingestSample(t, dashboard, finder)

	// Claims to be a spreadsheet but is not one.
	body, contentType := multipartUpload(t, "receipts", "broken.xlsx", "not a zip archive")
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	srv.Handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	if dashboard.Phase() != view.PhaseReady {
		t.Fatalf("phase = %v, want ready after abort", dashboard.Phase())
	}
	snap, _ := dashboard.Snapshot()
	if snap.ID != prev.ID {
		t.Fatalf("snapshot replaced on failed upload")
	}
}

func TestFindRendersResults(t *testing.T) {
	srv, dashboard, finder := newTestServer(t)
	ingestSample(t, dashboard, finder)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/find", strings.NewReader("term=milk"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)

	if rr.Code != 200 {
		t.Fatalf("find status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Whole Milk") || !strings.Contains(body, "$7.00") {
		t.Fatalf("result partial missing match: %s", body)
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), "with-results") {
		t.Fatalf("missing search trigger, header=%q", rr.Header().Get("HX-Trigger"))
	}
}

func TestFindNoMatches(t *testing.T) {
	srv, dashboard, finder := newTestServer(t)
	ingestSample(t, dashboard, finder)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/find", strings.NewReader("term=caviar"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)

	if rr.Code != 200 {
		t.Fatalf("find status=%d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), "no-results") {
		t.Fatalf("expected no-results state, header=%q", rr.Header().Get("HX-Trigger"))
	}
}

func TestFindEmptyTermIsNoOp(t *testing.T) {
	srv, dashboard, finder := newTestServer(t)
	ingestSample(t, dashboard, finder)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/find", strings.NewReader("term=milk"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/find", strings.NewReader("term=   "))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)

	if rr.Code != 200 {
		t.Fatalf("find status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Whole Milk") {
		t.Fatalf("empty term should keep previous results: %s", rr.Body.String())
	}
	if _, state := finder.Current(); state != view.WithResults {
		t.Fatalf("state = %v after empty term, want with-results", state)
	}
}

func TestFindUsesCacheWithinSnapshot(t *testing.T) {
	srv, dashboard, finder := newTestServer(t)
	ingestSample(t, dashboard, finder)

	post := func() *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/find", strings.NewReader("term=Milk"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		srv.Handler.ServeHTTP(rr, req)
		return rr
	}

	first := post()
	if srv.searchCache.Size() != 1 {
		t.Fatalf("cache size = %d after first search", srv.searchCache.Size())
	}
	second := post()
	if first.Body.String() != second.Body.String() {
		t.Fatalf("cached response differs from computed one")
	}

	// New snapshot invalidates by key construction.
	ingestSample(t, dashboard, finder)
	third := post()
	if third.Code != 200 {
		t.Fatalf("find after re-ingest status=%d", third.Code)
	}
	if srv.searchCache.Size() != 2 {
		t.Fatalf("cache size = %d, want entries under both snapshots", srv.searchCache.Size())
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	srv.Handler.ServeHTTP(rr, req)

	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing nosniff header")
	}
	if rr.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatalf("missing frame options header")
	}
}
