package view

import (
	"strings"
	"sync"

	"grocerydash/internal/core"
)

// SearchState distinguishes the prompt view (nothing searched yet) from
// an executed search with or without matches.
type SearchState int

const (
	NotSearched SearchState = iota
	WithResults
	NoResults
)

func (s SearchState) String() string {
	switch s {
	case WithResults:
		return "with-results"
	case NoResults:
		return "no-results"
	default:
		return "not-searched"
	}
}

// Finder is the item search view. It owns its own copy of the record
// set, independent of the dashboard, and recomputes the full result on
// every query.
type Finder struct {
	mu         sync.RWMutex
	snapshotID string
	records    []core.Record
	state      SearchState
	result     core.SearchResult
}

func NewFinder() *Finder {
	return &Finder{}
}

// SetRecords installs a new working set and resets the view to its
// prompt state. The slice is copied.
func (f *Finder) SetRecords(snapshotID string, records []core.Record) {
	owned := make([]core.Record, len(records))
	copy(owned, records)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshotID = snapshotID
	f.records = owned
	f.state = NotSearched
	f.result = core.SearchResult{}
}

// Search runs a query and replaces the current result. An empty or
// whitespace-only term is a no-op: the previous result stays visible
// and is returned unchanged.
func (f *Finder) Search(term string) (core.SearchResult, SearchState) {
	if strings.TrimSpace(term) == "" {
		return f.Current()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.result = core.Search(f.records, term)
	if len(f.result.Records) > 0 {
		f.state = WithResults
	} else {
		f.state = NoResults
	}
	return f.result, f.state
}

// SetResult installs a previously computed result, used when a cached
// result is replayed instead of recomputed. State follows the result.
func (f *Finder) SetResult(result core.SearchResult) SearchState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.result = result
	if len(result.Records) > 0 {
		f.state = WithResults
	} else {
		f.state = NoResults
	}
	return f.state
}

// Current returns the last search result and state without recomputing.
func (f *Finder) Current() (core.SearchResult, SearchState) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.result, f.state
}

// SnapshotID identifies the working set currently installed, used as a
// cache key component by the HTTP layer.
func (f *Finder) SnapshotID() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snapshotID
}
