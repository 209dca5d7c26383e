// Package view holds the per-view in-memory state. Each view owns its
// own copy of the ingested record set; an ingest or search replaces
// derived state wholesale, so readers always observe a complete,
// consistent snapshot.
package view

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"grocerydash/internal/core"
)

// Phase is the dashboard lifecycle: idle until the first dataset
// arrives, loading while one is being read, ready once a snapshot
// exists. There is no error phase; a failed ingest returns the view to
// whatever it showed before.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	default:
		return "idle"
	}
}

// Snapshot is one complete ingest result: the normalized records plus
// every derived aggregate, stamped with a fresh ID. Snapshots are
// immutable; a new upload produces a new one.
type Snapshot struct {
	ID         string
	Source     string
	IngestedAt time.Time
	Records    []core.Record
	Summary    core.Summary
}

// Dashboard is the aggregate view. All mutation goes through Ingest,
// which swaps the snapshot in one step.
type Dashboard struct {
	mu    sync.RWMutex
	phase Phase
	snap  Snapshot
}

func NewDashboard() *Dashboard {
	return &Dashboard{}
}

// BeginLoad marks the view as loading. Safe to call repeatedly; the
// previous snapshot stays visible until Ingest replaces it.
func (d *Dashboard) BeginLoad() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.phase = PhaseLoading
}

// Ingest builds a new snapshot from a normalized record set and makes
// it the current one. The record slice is copied so later caller
// mutation cannot leak into the snapshot.
func (d *Dashboard) Ingest(source string, records []core.Record) Snapshot {
	owned := make([]core.Record, len(records))
	copy(owned, records)

	snap := Snapshot{
		ID:         uuid.NewString(),
		Source:     source,
		IngestedAt: time.Now(),
		Records:    owned,
		Summary:    core.Summarize(owned),
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.snap = snap
	d.phase = PhaseReady
	return snap
}

// AbortLoad reverts a loading view to its previous phase after a failed
// ingest: ready if a snapshot exists, idle otherwise.
func (d *Dashboard) AbortLoad() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.snap.ID != "" {
		d.phase = PhaseReady
	} else {
		d.phase = PhaseIdle
	}
}

// Phase returns the current lifecycle phase.
func (d *Dashboard) Phase() Phase {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.phase
}

// Snapshot returns the current snapshot and whether one exists yet.
func (d *Dashboard) Snapshot() (Snapshot, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snap, d.snap.ID != ""
}
