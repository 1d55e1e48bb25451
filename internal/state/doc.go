// Package state shares the loaded catalog and list configurations between the
// background watcher and the UI.
//
// # Architecture
//
//	Producer (watcher):              Consumer (UI):
//	┌──────────────────┐            ┌──────────────────┐
//	│ LoadCatalog()    │            │                  │
//	│ listconfig.Load  │            │                  │
//	│      ↓           │            │                  │
//	│ store.Update()   │───────────→│ store.Snapshot() │
//	│      ↓           │  (mutex)   │      ↓           │
//	│ wait for change  │            │ rebind on new    │
//	│                  │            │ generation       │
//	└──────────────────┘            └──────────────────┘
//
// # Update Semantics
//
//	// Success: replace catalog and lists, bump the generation
//	store.Update(catalog, lists, listErr, nil)
//
//	// Failure: keep old data, record the error
//	store.Update(nil, nil, nil, err)
//
// A successful load always produces a fresh catalog; the store never mutates
// one in place. The UI compares Generation against the generation its session
// was bound to and rebinds when they differ. While the UI holds uncommitted
// edits it keeps its own catalog and only reports that a newer one exists.
//
// Snapshot copies the list slice and the error value. Catalogs are shared
// read-only.
//
// # Staleness
//
// ConsecutiveFailures counts reloads that failed since the last success.
// IsStale reports two or more, which the UI shows in the status line.
//
// The zero Store is ready to use and returns a zero Snapshot until the first
// Update.
package state
