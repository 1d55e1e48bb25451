package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/five82/assetlist/internal/config"
	"github.com/five82/assetlist/internal/logging"
	"github.com/five82/assetlist/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 30 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 30 * time.Second},
		{"negative failures", -1, 30 * time.Second},
		{"one failure", 1, time.Minute},
		{"two failures", 2, 2 * time.Minute},
		{"three failures", 3, 4 * time.Minute},
		{"four failures capped", 4, 5 * time.Minute},
		{"many failures capped", 40, 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
	if got := calculateBackoff(3, 10*time.Minute); got != 10*time.Minute {
		t.Errorf("calculateBackoff(3, 10m) = %v, want the base interval", got)
	}
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.CatalogDir = filepath.Join(root, "catalog")
	cfg.ListsDir = filepath.Join(root, "lists")
	cfg.Rescan = time.Hour
	for _, dir := range []string{cfg.CatalogDir, cfg.ListsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
	}
	writeFile(t, filepath.Join(cfg.CatalogDir, "units", "a.yaml"), "type: Unit\nname: A\nfields: {hp: 1}\n")
	writeFile(t, filepath.Join(cfg.ListsDir, "units.toml"), "type = \"Unit\"\n[[columns]]\npath = \"hp\"\nkind = \"integer\"\n")
	return cfg
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestWatcher_LoadPublishesSnapshot(t *testing.T) {
	cfg := testConfig(t)
	store := &state.Store{}
	w := NewWatcher(cfg, store, logging.Discard())

	if err := w.Load(); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	snap := store.Snapshot()
	if snap.Generation != 1 {
		t.Fatalf("Generation = %d, want 1", snap.Generation)
	}
	if got := len(snap.Catalog.Objects()); got != 1 {
		t.Fatalf("objects = %d, want 1", got)
	}
	if _, ok := snap.Find("units"); !ok {
		t.Fatalf("list units not loaded: %v", snap.Lists)
	}
}

func TestWatcher_LoadFailureKeepsPreviousSnapshot(t *testing.T) {
	cfg := testConfig(t)
	store := &state.Store{}
	w := NewWatcher(cfg, store, logging.Discard())
	if err := w.Load(); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if err := os.RemoveAll(cfg.CatalogDir); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if got := w.reload(0, true); got != 1 {
		t.Fatalf("reload failures = %d, want 1", got)
	}
	snap := store.Snapshot()
	if snap.Catalog == nil || snap.Generation != 1 || snap.ConsecutiveFailures != 1 {
		t.Fatalf("snapshot = gen %d failures %d, want previous catalog kept", snap.Generation, snap.ConsecutiveFailures)
	}
}

func TestWatcher_RescanSkipsUnchangedFiles(t *testing.T) {
	cfg := testConfig(t)
	store := &state.Store{}
	w := NewWatcher(cfg, store, logging.Discard())
	if err := w.Load(); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	w.reload(0, false)
	if got := store.Generation(); got != 1 {
		t.Fatalf("Generation after idle rescan = %d, want 1", got)
	}

	writeFile(t, filepath.Join(cfg.CatalogDir, "units", "b.yaml"), "type: Unit\nname: B\nfields: {hp: 2}\n")
	w.reload(0, false)
	if got := store.Generation(); got != 2 {
		t.Fatalf("Generation after change = %d, want 2", got)
	}
}

func TestWatcher_RelevantPaths(t *testing.T) {
	cfg := testConfig(t)
	w := NewWatcher(cfg, &state.Store{}, logging.Discard())

	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(cfg.CatalogDir, "units", "c.yaml"), true},
		{filepath.Join(cfg.CatalogDir, "units", "c.yml"), true},
		{filepath.Join(cfg.CatalogDir, "notes.txt"), false},
		{filepath.Join(cfg.ListsDir, "weapons.toml"), true},
		{filepath.Join(cfg.ListsDir, "weapons.toml.swp"), false},
		{filepath.Join(t.TempDir(), "elsewhere.yaml"), false},
	}
	for _, tt := range tests {
		if got := w.relevant(tt.path); got != tt.want {
			t.Errorf("relevant(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatcher_RunReloadsOnRequest(t *testing.T) {
	cfg := testConfig(t)
	store := &state.Store{}
	w := NewWatcher(cfg, store, logging.Discard())
	if err := w.Load(); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	w.Reload()
	deadline := time.Now().Add(5 * time.Second)
	for store.Generation() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("Generation = %d, want a reload after Reload()", store.Generation())
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
