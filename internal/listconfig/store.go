package listconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/assetlist/internal/atomicfile"
)

// Ext is the file extension of list configurations.
const Ext = ".toml"

// Load reads one configuration. The list name defaults to the file stem.
func Load(path string) (*Configuration, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read list: %w", err)
	}
	var cfg Configuration
	if err := toml.Unmarshal(bytes, &cfg); err != nil {
		return nil, fmt.Errorf("parse list %s: %w", filepath.Base(path), err)
	}
	cfg.Name = strings.TrimSpace(cfg.Name)
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	cfg.TypeName = strings.TrimSpace(cfg.TypeName)
	return &cfg, nil
}

// LoadDir reads every configuration in dir, sorted by name. Files that fail to
// parse are skipped and reported through the joined error.
func LoadDir(dir string) ([]*Configuration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read lists dir: %w", err)
	}
	var out []*Configuration
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != Ext {
			continue
		}
		cfg, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, cfg)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, errors.Join(errs...)
}

// Find returns the configuration with the given name, case-insensitively.
func Find(lists []*Configuration, name string) (*Configuration, bool) {
	name = strings.TrimSpace(name)
	for _, cfg := range lists {
		if strings.EqualFold(cfg.Name, name) {
			return cfg, true
		}
	}
	return nil, false
}

// Save writes a configuration, creating directories as needed.
func Save(path string, cfg *Configuration) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create lists dir: %w", err)
	}
	bytes, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal list: %w", err)
	}
	if err := atomicfile.Write(path, bytes, 0o644); err != nil {
		return fmt.Errorf("write list: %w", err)
	}
	return nil
}
