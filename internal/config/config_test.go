package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	wantLogDir, err := expandPath(defaultLogDir)
	if err != nil {
		t.Fatalf("expandPath(defaultLogDir) returned error: %v", err)
	}
	if cfg.LogDir != wantLogDir {
		t.Fatalf("LogDir = %q, want %q", cfg.LogDir, wantLogDir)
	}
	if !strings.HasPrefix(cfg.ListsDir, home) {
		t.Fatalf("ListsDir = %q, want it under HOME %q", cfg.ListsDir, home)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("LogLevel = %v, want %v", cfg.LogLevel, slog.LevelInfo)
	}
	if cfg.Rescan != defaultRescan {
		t.Fatalf("Rescan = %v, want %v", cfg.Rescan, defaultRescan)
	}
	if !slices.Equal(cfg.Include, []string{"**/*.yaml", "**/*.yml"}) {
		t.Fatalf("Include = %v, want default globs", cfg.Include)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
catalog_dir = "  ~/game/data  "
lists_dir = " /srv/lists "
log_level = " debug "
include = [" units/**/*.yaml ", "  "]
rescan_seconds = 5
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.CatalogDir != filepath.Join(home, "game/data") {
		t.Fatalf("CatalogDir = %q, want %q", cfg.CatalogDir, filepath.Join(home, "game/data"))
	}
	if cfg.ListsDir != "/srv/lists" {
		t.Fatalf("ListsDir = %q, want %q", cfg.ListsDir, "/srv/lists")
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("LogLevel = %v, want %v", cfg.LogLevel, slog.LevelDebug)
	}
	if !slices.Equal(cfg.Include, []string{"units/**/*.yaml"}) {
		t.Fatalf("Include = %v, want [units/**/*.yaml]", cfg.Include)
	}
	if cfg.Rescan != 5*time.Second {
		t.Fatalf("Rescan = %v, want 5s", cfg.Rescan)
	}
	if !strings.HasPrefix(cfg.ExportDir, home) {
		t.Fatalf("ExportDir = %q, want default under HOME %q", cfg.ExportDir, home)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
log_dir = "   "
include = []
rescan_seconds = -4
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	wantLogDir, err := expandPath(defaultLogDir)
	if err != nil {
		t.Fatalf("expandPath(defaultLogDir) returned error: %v", err)
	}
	if cfg.LogDir != wantLogDir {
		t.Fatalf("LogDir = %q, want %q", cfg.LogDir, wantLogDir)
	}
	if cfg.Rescan != defaultRescan {
		t.Fatalf("Rescan = %v, want %v", cfg.Rescan, defaultRescan)
	}
	if len(cfg.Include) != 2 {
		t.Fatalf("Include = %v, want default globs", cfg.Include)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`catalog_dir = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_UnknownLogLevelFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`log_level = "chatty"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "log_level") {
		t.Fatalf("Load error = %v, want log_level error", err)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestLogPath_DefaultsWhenLogDirEmpty(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var cfg Config
	got := cfg.LogPath()
	if !strings.HasPrefix(got, home) {
		t.Fatalf("LogPath = %q, want it under HOME %q", got, home)
	}
	if !strings.HasSuffix(got, filepath.FromSlash("/assetlist.log")) {
		t.Fatalf("LogPath = %q, want it to end with /assetlist.log", got)
	}
}

func TestWithDirs_OverridesOnlyNonEmpty(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	base := Default()
	got := base.WithDirs("~/game/assets", "  ")
	if want := filepath.Join(home, "game/assets"); got.CatalogDir != want {
		t.Fatalf("CatalogDir = %q, want %q", got.CatalogDir, want)
	}
	if got.ListsDir != base.ListsDir {
		t.Fatalf("ListsDir = %q, want unchanged %q", got.ListsDir, base.ListsDir)
	}
}
