package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/assetlist/internal/host"
	"github.com/five82/assetlist/internal/listconfig"
)

// Snapshot represents the latest catalog and list configurations available to the UI.
type Snapshot struct {
	Catalog *host.Catalog
	Lists   []*listconfig.Configuration
	// ListErr reports list files that failed to load; the remaining lists are usable.
	ListErr error
	// Generation increases on every successful load.
	Generation          uint64
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsStale returns true when reloading has failed repeatedly.
func (s Snapshot) IsStale() bool {
	return s.ConsecutiveFailures >= 2
}

// Find returns the list configuration with the given name.
func (s Snapshot) Find(name string) (*listconfig.Configuration, bool) {
	return listconfig.Find(s.Lists, name)
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored snapshot. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(catalog *host.Catalog, lists []*listconfig.Configuration, listErr, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Catalog = catalog
	s.snapshot.Lists = cloneLists(lists)
	s.snapshot.ListErr = listErr
	s.snapshot.Generation++
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot. The catalog is shared and
// must be treated as read-only by everyone but the session that edits it.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Lists = cloneLists(s.snapshot.Lists)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Generation returns the generation of the stored snapshot without copying it.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Generation
}

func cloneLists(lists []*listconfig.Configuration) []*listconfig.Configuration {
	if len(lists) == 0 {
		return nil
	}
	dup := make([]*listconfig.Configuration, len(lists))
	copy(dup, lists)
	return dup
}
