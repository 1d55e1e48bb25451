package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/five82/assetlist/internal/config"
	"github.com/five82/assetlist/internal/logging"
	"github.com/five82/assetlist/internal/prefs"
	"github.com/five82/assetlist/internal/state"
	"github.com/five82/assetlist/internal/ui"
)

// Options configure an assetlist run.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/assetlist/prefs.toml
	CatalogDir string // overrides catalog_dir when set
	ListsDir   string // overrides lists_dir when set
	List       string // list to open first; empty uses the last one browsed
	Verbose    bool
	Stderr     io.Writer
}

func (o Options) stderr() io.Writer {
	if o.Stderr == nil {
		return os.Stderr
	}
	return o.Stderr
}

func loadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg = cfg.WithDirs(opts.CatalogDir, opts.ListsDir)
	if opts.Verbose {
		cfg.LogLevel = slog.LevelDebug
	}
	return cfg, nil
}

// Run boots the browser TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, closer, err := logging.File(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, _ := prefs.Load(prefsPath)

	store := &state.Store{}
	watcher := NewWatcher(cfg, store, logger)

	// Load once before the UI starts so the first frame has data.
	if err := watcher.Load(); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go watcher.Run(ctx)

	logger.Info("browser started", "catalog", cfg.CatalogDir, "lists", cfg.ListsDir)

	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     store,
		Config:    &cfg,
		Prefs:     userPrefs,
		PrefsPath: prefsPath,
		List:      opts.List,
		Logger:    logger,
		Reload:    watcher.Reload,
	})
}
