package view

import (
	"testing"

	"grocerydash/internal/core"
)

func testRecords() []core.Record {
	return []core.Record{
		{Date: "2025-01-05", Store: "Fresh Mart", Category: "Dairy", Item: "Whole Milk", Quantity: 1, Price: core.Money{Cents: 350}, Total: core.Money{Cents: 350}},
		{Date: "2025-01-06", Store: "Fresh Mart", Category: "Dairy", Item: "Almond Milk", Quantity: 1, Price: core.Money{Cents: 400}, Total: core.Money{Cents: 400}},
	}
}

func TestDashboardPhaseTransitions(t *testing.T) {
	d := NewDashboard()
	if d.Phase() != PhaseIdle {
		t.Fatalf("new dashboard phase = %v", d.Phase())
	}
	d.BeginLoad()
	if d.Phase() != PhaseLoading {
		t.Fatalf("phase after BeginLoad = %v", d.Phase())
	}
	d.Ingest("test.csv", testRecords())
	if d.Phase() != PhaseReady {
		t.Fatalf("phase after Ingest = %v", d.Phase())
	}
}

func TestDashboardAbortLoadKeepsPriorSnapshot(t *testing.T) {
	d := NewDashboard()
	d.BeginLoad()
	d.AbortLoad()
	if d.Phase() != PhaseIdle {
		t.Fatalf("abort with no snapshot should return to idle, got %v", d.Phase())
	}

	first := d.Ingest("test.csv", testRecords())
	d.BeginLoad()
	d.AbortLoad()
	if d.Phase() != PhaseReady {
		t.Fatalf("abort with snapshot should return to ready, got %v", d.Phase())
	}
	snap, ok := d.Snapshot()
	if !ok || snap.ID != first.ID {
		t.Fatalf("snapshot changed across aborted load")
	}
}

func TestDashboardIngestReplacesSnapshot(t *testing.T) {
	d := NewDashboard()
	first := d.Ingest("a.csv", testRecords())
	second := d.Ingest("b.csv", testRecords()[:1])
	if first.ID == second.ID {
		t.Fatalf("snapshot IDs must differ")
	}
	snap, _ := d.Snapshot()
	if snap.ID != second.ID || len(snap.Records) != 1 {
		t.Fatalf("current snapshot not the latest ingest: %+v", snap)
	}
	if snap.Summary.Trips.TotalItems != 1 {
		t.Fatalf("summary not rebuilt: %+v", snap.Summary.Trips)
	}
}

func TestDashboardSnapshotOwnsRecords(t *testing.T) {
	d := NewDashboard()
	records := testRecords()
	d.Ingest("a.csv", records)
	records[0].Item = "mutated"
	snap, _ := d.Snapshot()
	if snap.Records[0].Item == "mutated" {
		t.Fatalf("snapshot shares backing array with caller")
	}
}

func TestFinderStates(t *testing.T) {
	f := NewFinder()
	if _, state := f.Current(); state != NotSearched {
		t.Fatalf("new finder state = %v", state)
	}

	f.SetRecords("snap-1", testRecords())
	res, state := f.Search("milk")
	if state != WithResults || len(res.Records) != 2 {
		t.Fatalf("state=%v matches=%d", state, len(res.Records))
	}
	if res.TotalSpent.Cents != 750 {
		t.Fatalf("total spent = %d", res.TotalSpent.Cents)
	}

	_, state = f.Search("caviar")
	if state != NoResults {
		t.Fatalf("expected no-results state, got %v", state)
	}
}

func TestFinderEmptyTermIsNoOp(t *testing.T) {
	f := NewFinder()
	f.SetRecords("snap-1", testRecords())
	prior, _ := f.Search("milk")

	res, state := f.Search("   ")
	if state != WithResults {
		t.Fatalf("empty term changed state to %v", state)
	}
	if res.Term != prior.Term || len(res.Records) != len(prior.Records) {
		t.Fatalf("empty term changed result")
	}
}

func TestFinderSetResult(t *testing.T) {
	f := NewFinder()
	f.SetRecords("snap-1", testRecords())

	state := f.SetResult(core.SearchResult{Term: "milk", Records: testRecords()})
	if state != WithResults {
		t.Fatalf("state = %v", state)
	}
	res, _ := f.Current()
	if res.Term != "milk" {
		t.Fatalf("result not installed: %+v", res)
	}

	if state := f.SetResult(core.SearchResult{Term: "caviar"}); state != NoResults {
		t.Fatalf("empty result should yield no-results, got %v", state)
	}
}

func TestFinderSetRecordsResetsState(t *testing.T) {
	f := NewFinder()
	f.SetRecords("snap-1", testRecords())
	f.Search("milk")
	f.SetRecords("snap-2", testRecords())
	if _, state := f.Current(); state != NotSearched {
		t.Fatalf("new working set should reset to prompt state, got %v", state)
	}
	if f.SnapshotID() != "snap-2" {
		t.Fatalf("snapshot id = %q", f.SnapshotID())
	}
}
