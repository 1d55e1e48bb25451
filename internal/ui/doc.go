// Package ui provides the terminal interface for browsing asset lists.
//
// The interface is a Bubble Tea program. Model holds all state; Update handles
// keys, window sizes, the polling tick and the results of background commands;
// View draws the header, the command bar, the active view and a status line.
//
// # Views
//
//   - Table: the open list, one row per object and one column per configured
//     property. The name column stays put while the other columns scroll. A
//     detail pane shows every value of the selected object on wide terminals.
//   - Tree: every property path of the list's object type, with the paths the
//     list already shows marked.
//   - Log: the tail of the log file, scoped to the open list's session.
//
// # Data Flow
//
// A tick fetches the latest state.Snapshot. A new catalog generation rebinds
// the open list and starts a fresh host.Session for edits. While that session
// holds unsaved edits the new catalog is held back, so edits are never
// applied to documents that have been replaced underneath them.
//
// Sorting, the last open list and the theme are written to the preferences
// file from a command, so a slow disk never blocks input.
package ui
