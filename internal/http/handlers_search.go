package http

import (
	"log/slog"
	"net/http"
	"strings"

	"grocerydash/internal/core"
	"grocerydash/internal/view"
)

// handleSearchPage renders the item search page in its current state.
func (s *Server) handleSearchPage(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded")
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	result, state := s.finder.Current()
	data := struct {
		State string
		Term  string
	}{
		State: state.String(),
		Term:  result.Term,
	}
	if err := s.templates.ExecuteTemplate(w, "search.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Search template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleFind runs a search and responds with the results partial. An
// empty term leaves the view exactly as it was.
func (s *Server) handleFind(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	term := sanitizeInput(r.Form.Get("term"))
	if strings.TrimSpace(term) == "" {
		// No-op per the view contract: re-render whatever was shown.
		result, state := s.finder.Current()
		s.renderSearchResults(w, r, result, state)
		return
	}

	snapshotID := s.finder.SnapshotID()
	key := searchCacheKey(snapshotID, term)
	if cached, found := s.searchCache.Get(key); found && snapshotID != "" {
		slog.DebugContext(r.Context(), "Search cache hit", "term", term, "snapshot", snapshotID)
		state := s.finder.SetResult(cached)
		s.renderSearchResults(w, r, cached, state)
		return
	}

	result, state := s.finder.Search(term)
	if snapshotID != "" {
		s.searchCache.Set(key, result)
	}
	s.renderSearchResults(w, r, result, state)
}

// handleSearchResults re-renders the current results partial, used by
// the page to restore state after navigation.
func (s *Server) handleSearchResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}
	result, state := s.finder.Current()
	s.renderSearchResults(w, r, result, state)
}

type searchResultData struct {
	State      string
	Term       string
	TotalSpent string
	Matches    int
	Records    []searchRecordView
	History    []historyView
	Prices     []priceView
}

type searchRecordView struct {
	Date     string
	Store    string
	Category string
	Item     string
	Quantity string
	Unit     string
	Total    string
}

type historyView struct {
	Date     string
	Quantity string
	Total    string
}

type priceView struct {
	Date  string
	Price string
}

func (s *Server) renderSearchResults(w http.ResponseWriter, r *http.Request, result core.SearchResult, state view.SearchState) {
	data := searchResultData{
		State:      state.String(),
		Term:       result.Term,
		TotalSpent: result.TotalSpent.String(),
		Matches:    len(result.Records),
	}
	for _, rec := range result.Records {
		data.Records = append(data.Records, searchRecordView{
			Date:     rec.Date,
			Store:    rec.Store,
			Category: rec.Category,
			Item:     rec.Item,
			Quantity: formatQuantity(rec.EffectiveQuantity()),
			Unit:     rec.Unit,
			Total:    rec.Total.String(),
		})
	}
	for _, h := range result.History {
		data.History = append(data.History, historyView{
			Date:     h.Date,
			Quantity: formatQuantity(h.Quantity),
			Total:    h.Total.String(),
		})
	}
	for _, p := range result.Prices {
		data.Prices = append(data.Prices, priceView{Date: p.Date, Price: p.Price.String()})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="search-results"><div class="placeholder">Search unavailable</div></section>`))
		return
	}

	builder := NewHTMXResponse().TriggerSearchCompleted(result.Term, state.String())
	builder.Write(w)
	if err := s.templates.ExecuteTemplate(w, "search_results.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Search results template failed", "error", err, "term", result.Term)
		_, _ = w.Write([]byte(`<section id="search-results"><div class="placeholder">Error rendering results</div></section>`))
	}
}
