// Package sorting keeps the bounded multi-column sort history of a list and
// derives display order from it.
package sorting

import (
	"fmt"
	"strings"
)

// Depth is the number of sort keys remembered.
const Depth = 3

// Direction is the order of one sort key.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Direction) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "asc", "ascending":
		*d = Ascending
	case "desc", "descending":
		*d = Descending
	default:
		return fmt.Errorf("unknown sort direction %q", string(text))
	}
	return nil
}

// Entry is one remembered sort key. Column is a display position in the session.
type Entry struct {
	Column    int
	Direction Direction
}

// State describes how many keys are active.
type State int

const (
	Unsorted State = iota
	SingleKey
	MultiKey
)

func (s State) String() string {
	switch s {
	case SingleKey:
		return "single"
	case MultiKey:
		return "multi"
	}
	return "unsorted"
}

// History is a fixed-capacity ring of sort keys, newest first. The zero value
// is an empty history.
type History struct {
	buf  [Depth]Entry
	head int
	n    int
}

// Restore rebuilds a history from entries listed newest first.
func Restore(entries []Entry) History {
	var h History
	if len(entries) > Depth {
		entries = entries[:Depth]
	}
	for i := len(entries) - 1; i >= 0; i-- {
		h.Apply(entries[i].Column, entries[i].Direction)
	}
	return h
}

func (h *History) push(e Entry) {
	h.head = (h.head + 1) % Depth
	h.buf[h.head] = e
	if h.n < Depth {
		h.n++
	}
}

func (h *History) at(i int) *Entry {
	return &h.buf[(h.head-i+Depth)%Depth]
}

// Apply makes col the primary key with direction dir. Re-applying the primary
// column changes its direction in place. A column found deeper in the history
// moves to the primary slot. A new column is pushed and the oldest key is
// evicted once the history is full.
func (h *History) Apply(col int, dir Direction) {
	if h.n > 0 && h.at(0).Column == col {
		h.at(0).Direction = dir
		return
	}
	entries := h.Entries()
	for i, e := range entries {
		if e.Column == col {
			entries = append(entries[:i], entries[i+1:]...)
			h.reset(entries)
			break
		}
	}
	h.push(Entry{Column: col, Direction: dir})
}

// Toggle is the header click: it flips the direction of the primary column
// and applies any other column ascending. It returns the new direction.
func (h *History) Toggle(col int) Direction {
	dir := Ascending
	if p, ok := h.Primary(); ok && p.Column == col {
		dir = p.Direction.Flip()
	}
	h.Apply(col, dir)
	return dir
}

func (h *History) reset(newestFirst []Entry) {
	*h = History{}
	for i := len(newestFirst) - 1; i >= 0; i-- {
		h.push(newestFirst[i])
	}
}

// Clear returns the history to Unsorted.
func (h *History) Clear() { *h = History{} }

// Len returns the number of active keys.
func (h *History) Len() int { return h.n }

// Primary returns the newest key.
func (h *History) Primary() (Entry, bool) {
	if h.n == 0 {
		return Entry{}, false
	}
	return *h.at(0), true
}

// Entries returns the active keys, newest first.
func (h *History) Entries() []Entry {
	out := make([]Entry, h.n)
	for i := range out {
		out[i] = *h.at(i)
	}
	return out
}

// Rank returns the position of col in the history, or -1.
func (h *History) Rank(col int) (int, Direction) {
	for i := 0; i < h.n; i++ {
		if e := h.at(i); e.Column == col {
			return i, e.Direction
		}
	}
	return -1, Ascending
}

// State reports how many keys drive the current order.
func (h *History) State() State {
	switch h.n {
	case 0:
		return Unsorted
	case 1:
		return SingleKey
	}
	return MultiKey
}
