// Package app is the composition root of assetlist.
//
// # Overview
//
// It wires configuration, the catalog watcher, the shared state store and the
// UI together, and hosts the headless commands that run the same column engine
// without a terminal UI.
//
// # Components
//
//   - app.go: Run, which starts the browser
//   - watcher.go: Watcher, which keeps the store in sync with the files on disk
//   - commands.go: Export, Check and Paths for scripted use
//   - sortspec.go: parsing of command line sort keys
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read config.toml, apply overrides
//	       ├─────> logging.File()       Session log the log view tails
//	       ├─────> prefs.Load()         Theme, last list, sort histories
//	       ├─────> Watcher.Load()       First catalog and list load
//	       ├─────> go Watcher.Run()     Background reloads
//	       └─────> ui.Run()             Start TUI (blocks)
//
//	Watcher loop:
//	┌─────────────────────────────────────────┐
//	│ fsnotify event ──> settle 250ms ─┐      │
//	│ Reload() (r key) ────────────────┼─> Load() ─> store.Update()
//	│ rescan timer ──> fingerprint changed? ──┘      │
//	└─────────────────────────────────────────┘
//
// # Reload Behavior
//
// File notifications are the primary trigger. Directories created after start
// are added to the watch as they appear. A periodic rescan (rescan_seconds,
// default 30s) hashes the names, sizes and modification times of the watched
// files and reloads only when that fingerprint changes, which covers network
// file systems and editors that replace files in ways fsnotify misses.
//
// A failed load keeps the previous snapshot and records the error. Consecutive
// failures double the rescan interval up to five minutes; the first success
// resets it.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file invalid
//   - Log file cannot be opened
//   - Catalog directory missing or unreadable on first load
//
// Recoverable errors (logged, browsing continues):
//   - A document that fails to parse is skipped
//   - A list file that fails to parse is skipped
//   - Reload failures after start
//
// # Headless Commands
//
// Export, Check and Paths log to stderr through tint and write their results
// to the given writer, so they compose with shell pipelines:
//
//	assetlist export units --sort "HP:desc" -o - | column -t -s $'\t'
package app
