package app

import (
	"context"
	"errors"
	"hash/fnv"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/five82/assetlist/internal/config"
	"github.com/five82/assetlist/internal/host"
	"github.com/five82/assetlist/internal/listconfig"
	"github.com/five82/assetlist/internal/state"
)

const (
	defaultRescan = 30 * time.Second
	maxBackoff    = 5 * time.Minute
	settleDelay   = 250 * time.Millisecond
)

// Watcher reloads the catalog and list configurations into a store whenever
// files change, with a periodic rescan as a fallback for missed events.
type Watcher struct {
	cfg    config.Config
	store  *state.Store
	logger *slog.Logger
	kick   chan struct{}
	last   uint64
}

// NewWatcher returns a watcher for cfg's catalog and lists directories.
func NewWatcher(cfg config.Config, store *state.Store, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Rescan <= 0 {
		cfg.Rescan = defaultRescan
	}
	return &Watcher{cfg: cfg, store: store, logger: logger, kick: make(chan struct{}, 1)}
}

// Reload asks the running watcher to reload as soon as possible. It never blocks.
func (w *Watcher) Reload() {
	select {
	case w.kick <- struct{}{}:
	default:
	}
}

// Load reads the catalog and lists synchronously and publishes them. A broken
// list file is reported but does not fail the load; an unreadable catalog does.
func (w *Watcher) Load() error {
	fp, fpErr := fingerprint(w.cfg)

	catalog, err := host.LoadCatalog(w.cfg.CatalogDir, w.cfg.Include)
	if err != nil {
		w.store.Update(nil, nil, nil, err)
		return err
	}
	for _, problem := range catalog.Problems {
		w.logger.Warn("catalog document skipped", "error", problem)
	}

	lists, listErr := listconfig.LoadDir(w.cfg.ListsDir)
	if listErr != nil {
		w.logger.Warn("list configuration skipped", "error", listErr)
	}

	w.store.Update(catalog, lists, listErr, nil)
	if fpErr == nil {
		w.last = fp
	}
	w.logger.Info("catalog loaded",
		"root", catalog.Root,
		"documents", len(catalog.Docs),
		"objects", len(catalog.Objects()),
		"lists", len(lists),
	)
	return nil
}

// Run watches until ctx is cancelled. When file notifications are unavailable
// it falls back to rescanning only.
func (w *Watcher) Run(ctx context.Context) {
	var (
		events <-chan fsnotify.Event
		errs   <-chan error
	)
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Warn("file notifications unavailable, rescanning only", "error", err)
	} else {
		defer fsw.Close()
		for _, dir := range []string{w.cfg.CatalogDir, w.cfg.ListsDir} {
			w.watchTree(fsw, dir)
		}
		events, errs = fsw.Events, fsw.Errors
	}

	failures := 0
	rescan := time.NewTimer(calculateBackoff(failures, w.cfg.Rescan))
	defer rescan.Stop()
	var settle <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					w.watchTree(fsw, ev.Name)
				}
			}
			if w.relevant(ev.Name) {
				settle = time.After(settleDelay)
			}
			continue

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			w.logger.Warn("file watch error", "error", err)
			continue

		case <-settle:
			settle = nil
			failures = w.reload(failures, true)

		case <-w.kick:
			failures = w.reload(failures, true)

		case <-rescan.C:
			failures = w.reload(failures, false)
		}
		rescan.Reset(calculateBackoff(failures, w.cfg.Rescan))
	}
}

// reload loads and returns the new failure count. Unless forced it skips the
// load when no watched file changed since the last one.
func (w *Watcher) reload(failures int, force bool) int {
	if !force {
		if fp, err := fingerprint(w.cfg); err == nil && fp == w.last && failures == 0 {
			return 0
		}
	}
	if err := w.Load(); err != nil {
		w.logger.Warn("catalog reload failed", "error", err, "failures", failures+1)
		return failures + 1
	}
	return 0
}

func (w *Watcher) watchTree(fsw *fsnotify.Watcher, root string) {
	if strings.TrimSpace(root) == "" {
		return
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			w.logger.Debug("cannot watch directory", "path", path, "error", err)
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		w.logger.Debug("walk watch tree", "root", root, "error", err)
	}
}

// relevant reports whether a changed path can affect the catalog or the lists.
func (w *Watcher) relevant(path string) bool {
	if rel, ok := within(w.cfg.ListsDir, path); ok {
		return strings.EqualFold(filepath.Ext(rel), listconfig.Ext)
	}
	rel, ok := within(w.cfg.CatalogDir, path)
	if !ok {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range includeOf(w.cfg) {
		if match, _ := doublestar.Match(pattern, rel); match {
			return true
		}
	}
	return false
}

func within(dir, path string) (string, bool) {
	if strings.TrimSpace(dir) == "" {
		return "", false
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return rel, true
}

func includeOf(cfg config.Config) []string {
	if len(cfg.Include) == 0 {
		return host.DefaultInclude
	}
	return cfg.Include
}

// fingerprint hashes the names, sizes and modification times of every watched file.
func fingerprint(cfg config.Config) (uint64, error) {
	h := fnv.New64a()
	add := func(fsys fs.FS, prefix string, patterns []string) error {
		seen := make(map[string]bool)
		for _, pattern := range patterns {
			matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
			if err != nil {
				return err
			}
			for _, name := range matches {
				if seen[name] {
					continue
				}
				seen[name] = true
				info, err := fs.Stat(fsys, name)
				if err != nil {
					continue
				}
				_, _ = h.Write([]byte(prefix + name + "\x00" +
					strconv.FormatInt(info.Size(), 10) + "\x00" +
					strconv.FormatInt(info.ModTime().UnixNano(), 10) + "\n"))
			}
		}
		return nil
	}
	if err := add(os.DirFS(cfg.CatalogDir), "c:", includeOf(cfg)); err != nil {
		return 0, err
	}
	if cfg.ListsDir != "" {
		if _, err := os.Stat(cfg.ListsDir); err == nil {
			if err := add(os.DirFS(cfg.ListsDir), "l:", []string{"*" + listconfig.Ext}); err != nil {
				return 0, err
			}
		}
	}
	return h.Sum64(), nil
}

// calculateBackoff doubles the rescan interval per consecutive failure, capped
// at maxBackoff or the base interval, whichever is larger.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	limit := max(maxBackoff, base)
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= limit {
			return limit
		}
	}
	return d
}
