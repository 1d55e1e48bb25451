package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/assetlist/internal/host"
)

// Config holds the locations and settings assetlist runs with.
type Config struct {
	CatalogDir string
	ListsDir   string
	ExportDir  string
	LogDir     string
	LogLevel   slog.Level
	Include    []string
	Rescan     time.Duration
}

const (
	defaultConfigPath = "~/.config/assetlist/config.toml"
	defaultCatalogDir = "."
	defaultListsDir   = "~/.config/assetlist/lists"
	defaultExportDir  = "~/.local/share/assetlist/exports"
	defaultLogDir     = "~/.local/share/assetlist/logs"
	defaultRescan     = 30 * time.Second
	logFileName       = "assetlist.log"
)

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		CatalogDir: mustExpand(defaultCatalogDir),
		ListsDir:   mustExpand(defaultListsDir),
		ExportDir:  mustExpand(defaultExportDir),
		LogDir:     mustExpand(defaultLogDir),
		LogLevel:   slog.LevelInfo,
		Include:    append([]string(nil), host.DefaultInclude...),
		Rescan:     defaultRescan,
	}
}

// Load locates and parses the config file, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		CatalogDir    string   `toml:"catalog_dir"`
		ListsDir      string   `toml:"lists_dir"`
		ExportDir     string   `toml:"export_dir"`
		LogDir        string   `toml:"log_dir"`
		LogLevel      string   `toml:"log_level"`
		Include       []string `toml:"include"`
		RescanSeconds int      `toml:"rescan_seconds"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.CatalogDir = dirOr(raw.CatalogDir, cfg.CatalogDir)
	cfg.ListsDir = dirOr(raw.ListsDir, cfg.ListsDir)
	cfg.ExportDir = dirOr(raw.ExportDir, cfg.ExportDir)
	cfg.LogDir = dirOr(raw.LogDir, cfg.LogDir)

	if level := strings.TrimSpace(raw.LogLevel); level != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
			return Config{}, fmt.Errorf("parse config: log_level: %w", err)
		}
	}

	var include []string
	for _, pattern := range raw.Include {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			include = append(include, pattern)
		}
	}
	if len(include) > 0 {
		cfg.Include = include
	}

	if raw.RescanSeconds > 0 {
		cfg.Rescan = time.Duration(raw.RescanSeconds) * time.Second
	}

	return cfg, nil
}

// LogPath returns the path of the session log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/" + logFileName)
	}
	return filepath.Join(c.LogDir, logFileName)
}

// WithDirs returns c with the catalog and lists directories replaced by any
// non-empty override, expanded the same way as the file values.
func (c Config) WithDirs(catalogDir, listsDir string) Config {
	c.CatalogDir = dirOr(catalogDir, c.CatalogDir)
	c.ListsDir = dirOr(listsDir, c.ListsDir)
	return c
}

func dirOr(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return mustExpand(value)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
