package column

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/five82/assetlist/internal/host"
	"github.com/five82/assetlist/internal/listconfig"
)

// Session is one browsing session over a configuration: the bound columns and
// the objects in insertion order. Sessions are not shared between views.
type Session struct {
	ID      string
	Config  *listconfig.Configuration
	Columns []Column
	Objects []host.Object
	// Misses counts absent values per property column, keyed by column index.
	Misses map[int]int
}

// NewSession binds every column of cfg. Columns that fail to bind are left out
// and their errors joined into the returned error; the session is still usable.
// Absent properties are logged once per column, never per object.
func NewSession(cfg *listconfig.Configuration, objects []host.Object, logger *slog.Logger) (*Session, error) {
	if cfg == nil {
		return nil, errors.New("nil configuration")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		ID:      uuid.NewString(),
		Config:  cfg,
		Objects: objects,
		Misses:  make(map[int]int),
	}
	logger = logger.With("session", s.ID, "list", cfg.Name)

	var errs []error
	name, err := NewNameColumn(cfg)
	if err != nil {
		errs = append(errs, fmt.Errorf("icon: %w", err))
	}
	s.Columns = append(s.Columns, name)
	if cfg.AdditionalColumns.Has(listconfig.ColumnPath) {
		s.Columns = append(s.Columns, PathColumn{})
	}
	for i, cc := range cfg.Columns {
		col, err := Bind(cc, i)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s.Columns = append(s.Columns, col)
	}

	s.audit(logger)
	if err := errors.Join(errs...); err != nil {
		logger.Warn("list configuration has invalid columns", "error", err)
		return s, err
	}
	return s, nil
}

func (s *Session) audit(logger *slog.Logger) {
	for _, c := range s.Columns {
		pc, ok := c.(*PropertyColumn)
		if !ok {
			continue
		}
		misses := 0
		for _, obj := range s.Objects {
			if _, ok := pc.Get(obj); !ok {
				misses++
			}
		}
		if misses == 0 {
			continue
		}
		s.Misses[pc.Index()] = misses
		logger.Warn("property not found",
			"column", pc.Title(),
			"path", pc.Path(),
			"missing", misses,
			"objects", len(s.Objects),
		)
	}
}

// Titles returns the column titles in display order.
func (s *Session) Titles() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Title()
	}
	return out
}

// Missing returns the configured display for absent values.
func (s *Session) Missing() listconfig.MissingDisplay {
	return s.Config.MissingPropertyDisplay
}
