package state

import (
	"errors"
	"reflect"
	"testing"
	"testing/fstest"
	"time"

	"github.com/five82/assetlist/internal/host"
	"github.com/five82/assetlist/internal/listconfig"
)

func testCatalog(t *testing.T) *host.Catalog {
	t.Helper()
	c, err := host.LoadFS("mem", fstest.MapFS{
		"a.yaml": {Data: []byte("type: Unit\nname: A\nfields: {hp: 1}\n")},
	}, nil)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	return c
}

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	catalog := testCatalog(t)
	lists := []*listconfig.Configuration{{Name: "Units", TypeName: "Unit"}, {Name: "Props", TypeName: "Prop"}}

	before := time.Now()
	s.Update(catalog, lists, nil, nil)

	snap := s.Snapshot()
	if snap.Catalog != catalog {
		t.Fatalf("snapshot catalog = %p, want %p", snap.Catalog, catalog)
	}
	if len(snap.Lists) != 2 || snap.Lists[0].Name != "Units" {
		t.Fatalf("snapshot lists = %#v, want 2 lists", snap.Lists)
	}
	if snap.Generation != 1 || s.Generation() != 1 {
		t.Fatalf("Generation = %d, want 1", snap.Generation)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}
	if cfg, ok := snap.Find("props"); !ok || cfg.TypeName != "Prop" {
		t.Fatalf("Find(props) = %v, %v, want Prop list", cfg, ok)
	}

	snap.Lists[0] = nil
	snap2 := s.Snapshot()
	if snap2.Lists[0] == nil {
		t.Fatalf("Snapshot should clone the list slice")
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	catalog := testCatalog(t)
	s.Update(catalog, []*listconfig.Configuration{{Name: "Units"}}, errors.New("bad list"), nil)
	prev := s.Snapshot()

	before := time.Now()
	origErr := errors.New("boom")
	s.Update(nil, nil, nil, origErr)

	snap := s.Snapshot()
	if snap.Catalog != prev.Catalog {
		t.Fatalf("catalog changed on error")
	}
	if len(snap.Lists) != 1 || snap.ListErr == nil {
		t.Fatalf("lists changed on error: got %#v, %v", snap.Lists, snap.ListErr)
	}
	if snap.Generation != prev.Generation {
		t.Fatalf("Generation = %d, want %d", snap.Generation, prev.Generation)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsStale() {
		t.Fatalf("zero store = %d failures, stale %v", snap.ConsecutiveFailures, snap.IsStale())
	}

	for i, wantStale := range []bool{false, true, true} {
		s.Update(nil, nil, nil, errors.New("fail"))
		snap = s.Snapshot()
		if snap.ConsecutiveFailures != i+1 {
			t.Fatalf("ConsecutiveFailures = %d, want %d", snap.ConsecutiveFailures, i+1)
		}
		if snap.IsStale() != wantStale {
			t.Fatalf("IsStale() = %v after %d failures, want %v", snap.IsStale(), i+1, wantStale)
		}
	}

	s.Update(testCatalog(t), nil, nil, nil)
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsStale() {
		t.Fatalf("success did not reset failures: %d", snap.ConsecutiveFailures)
	}
	if snap.Generation != 1 {
		t.Fatalf("Generation = %d, want 1", snap.Generation)
	}
}
