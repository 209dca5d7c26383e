package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"grocerydash/internal/core"
	"grocerydash/internal/view"
)

// handleDashboard renders the main dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded")
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	snap, ok := s.dashboard.Snapshot()
	data := struct {
		Phase   string
		Source  string
		Records int
	}{
		Phase: s.dashboard.Phase().String(),
	}
	if ok {
		data.Source = snap.Source
		data.Records = len(snap.Records)
	}

	if err := s.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Dashboard template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// overviewData is the template payload for the overview partial. Money
// is preformatted so templates never do arithmetic.
type overviewData struct {
	Phase      string
	Source     string
	Records    int
	Trips      tripView
	TopItems   []topItemView
	Categories []categoryView
}

type tripView struct {
	TotalSpent string
	TotalTrips int
	AvgPerTrip string
	TotalItems int
}

type topItemView struct {
	Name     string
	Count    int
	Total    string
	Category string
	AvgPrice string
}

type categoryView struct {
	Name    string
	Total   string
	Percent string
	Width   int
}

// handleOverview renders the dashboard overview partial: trip stats,
// category breakdown, and the item frequency table.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	snap, ok := s.dashboard.Snapshot()
	if !ok {
		_, _ = w.Write([]byte(`<section id="overview" class="overview"><div class="placeholder">Upload a receipt export to see your spending.</div></section>`))
		return
	}

	data := buildOverviewData(s.dashboard.Phase(), snap)
	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="overview" class="overview"><div class="placeholder">Total: ` + data.Trips.TotalSpent + `</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "overview.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Overview template execution failed", "error", err)
		_, _ = w.Write([]byte(`<section id="overview" class="overview"><div class="placeholder">Error rendering overview</div></section>`))
	}
}

func buildOverviewData(phase view.Phase, snap view.Snapshot) overviewData {
	data := overviewData{
		Phase:   phase.String(),
		Source:  snap.Source,
		Records: len(snap.Records),
		Trips: tripView{
			TotalSpent: snap.Summary.Trips.TotalSpent.String(),
			TotalTrips: snap.Summary.Trips.TotalTrips,
			AvgPerTrip: formatDollarsFloat(snap.Summary.Trips.AvgPerTrip),
			TotalItems: snap.Summary.Trips.TotalItems,
		},
	}
	for _, item := range snap.Summary.TopItems {
		data.TopItems = append(data.TopItems, topItemView{
			Name:     item.Name,
			Count:    item.Count,
			Total:    item.Total.String(),
			Category: item.Category,
			AvgPrice: formatDollarsFloat(item.AvgPrice),
		})
	}
	// Bar widths scale against the largest category, rounded percent.
	var maxCents int64
	for _, c := range snap.Summary.Categories {
		if c.Total.Cents > maxCents {
			maxCents = c.Total.Cents
		}
	}
	for _, c := range snap.Summary.Categories {
		width := 0
		if maxCents > 0 && c.Total.Cents > 0 {
			width = int((c.Total.Cents*100 + maxCents/2) / maxCents)
			if width > 0 && width < 2 {
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		data.Categories = append(data.Categories, categoryView{
			Name:    c.Name,
			Total:   c.Total.String(),
			Percent: formatPercent(c.Percent),
			Width:   width,
		})
	}
	return data
}

// writeJSON encodes v with the right content type; encode failures are
// logged but the status is already committed.
func writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "JSON encode failed", "error", err, "url", r.URL.Path)
	}
}

// summary returns the current snapshot's summary, or a zero summary
// before the first ingest. Charts render empty rather than erroring.
func (s *Server) summary() core.Summary {
	snap, ok := s.dashboard.Snapshot()
	if !ok {
		return core.Summary{}
	}
	return snap.Summary
}

// handleCategories returns per-category totals for the doughnut chart.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}
	type row struct {
		Name    string  `json:"name"`
		Cents   int64   `json:"cents"`
		Percent float64 `json:"percent"`
	}
	rows := []row{}
	for _, c := range s.summary().Categories {
		rows = append(rows, row{Name: c.Name, Cents: c.Total.Cents, Percent: c.Percent})
	}
	writeJSON(w, r, rows)
}

// handleStores returns per-store totals, deposits included.
func (s *Server) handleStores(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}
	type row struct {
		Name  string `json:"name"`
		Cents int64  `json:"cents"`
	}
	rows := []row{}
	for _, st := range s.summary().Stores {
		rows = append(rows, row{Name: st.Name, Cents: st.Total.Cents})
	}
	writeJSON(w, r, rows)
}

// handleMonthly returns month totals in ascending month order for the
// trend line.
func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}
	type row struct {
		Month string `json:"month"`
		Cents int64  `json:"cents"`
	}
	rows := []row{}
	for _, m := range s.summary().Months {
		rows = append(rows, row{Month: m.Month, Cents: m.Total.Cents})
	}
	writeJSON(w, r, rows)
}

// handleTopItems returns the most frequently bought items.
func (s *Server) handleTopItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}
	type row struct {
		Name     string  `json:"name"`
		Count    int     `json:"count"`
		Cents    int64   `json:"cents"`
		Category string  `json:"category"`
		AvgPrice float64 `json:"avg_price"`
	}
	rows := []row{}
	for _, item := range s.summary().TopItems {
		rows = append(rows, row{
			Name:     item.Name,
			Count:    item.Count,
			Cents:    item.Total.Cents,
			Category: item.Category,
			AvgPrice: item.AvgPrice,
		})
	}
	writeJSON(w, r, rows)
}

// handleTrips returns aggregate trip statistics.
func (s *Server) handleTrips(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}
	trips := s.summary().Trips
	writeJSON(w, r, struct {
		TotalCents int64   `json:"total_cents"`
		TotalTrips int     `json:"total_trips"`
		AvgPerTrip float64 `json:"avg_per_trip"`
		TotalItems int     `json:"total_items"`
	}{
		TotalCents: trips.TotalSpent.Cents,
		TotalTrips: trips.TotalTrips,
		AvgPerTrip: trips.AvgPerTrip,
		TotalItems: trips.TotalItems,
	})
}
