package host

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/five82/assetlist/internal/atomicfile"
)

var (
	// ErrNotEditable is returned when a property kind has no text edit form.
	ErrNotEditable = errors.New("property is not editable")
	// ErrForeignProperty is returned for properties not backed by this catalog.
	ErrForeignProperty = errors.New("property does not belong to a catalog document")
)

type edit struct {
	doc      *Document
	node     *yaml.Node
	previous yaml.Node
	wasDirty bool
}

// Session is the edit, undo and commit boundary for a catalog. Browsing never
// writes; only SetText does, and only Commit touches disk.
type Session struct {
	catalog *Catalog
	undo    []edit
}

// NewSession starts an edit session on the catalog.
func NewSession(c *Catalog) *Session {
	return &Session{catalog: c}
}

// Editable reports whether SetText accepts values for the kind.
func Editable(k Kind) bool {
	switch k {
	case KindInteger, KindFloat, KindBoolean, KindString, KindCharacter,
		KindEnum, KindFlags, KindColor, KindObjectRef:
		return true
	}
	return false
}

// SetText parses text according to the property's kind and stores it.
func (s *Session) SetText(p Property, text string) error {
	dp, ok := p.(*docProperty)
	if !ok {
		return ErrForeignProperty
	}
	if !Editable(dp.kind) {
		return fmt.Errorf("%s (%s): %w", dp.path, dp.kind, ErrNotEditable)
	}
	text = strings.TrimSpace(text)
	node := deref(dp.node)
	next := *node
	next.Content = nil

	switch dp.kind {
	case KindInteger:
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", dp.path, text)
		}
		next.Value, next.Tag = strconv.FormatInt(v, 10), "!!int"
	case KindFloat:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s: invalid number %q", dp.path, text)
		}
		next.Value, next.Tag = formatFloat(v), "!!float"
		if !strings.ContainsAny(next.Value, ".e") {
			next.Value += ".0"
		}
	case KindBoolean:
		v, err := strconv.ParseBool(strings.ToLower(text))
		if err != nil {
			return fmt.Errorf("%s: invalid boolean %q", dp.path, text)
		}
		next.Value, next.Tag = strconv.FormatBool(v), "!!bool"
	case KindString:
		next.Value, next.Tag = text, "!!str"
	case KindCharacter:
		if utf8.RuneCountInString(text) != 1 {
			return fmt.Errorf("%s: want a single character, got %q", dp.path, text)
		}
		next.Value = text
	case KindEnum:
		cur := dp.Value().(Enum)
		idx := indexOf(cur.Names, text)
		if idx < 0 {
			return fmt.Errorf("%s: %q is not a %s value", dp.path, text, cur.Type)
		}
		next.Value = qualify(cur.Type, cur.Names[idx])
	case KindFlags:
		cur := dp.Value().(Flags)
		parts, err := flagNames(cur, text)
		if err != nil {
			return fmt.Errorf("%s: %w", dp.path, err)
		}
		next.Value = qualify(cur.Type, strings.Join(parts, "|"))
	case KindColor:
		if _, err := ParseHexColor(text); err != nil {
			return fmt.Errorf("%s: %w", dp.path, err)
		}
		next.Kind, next.Value, next.Style = yaml.ScalarNode, text, yaml.DoubleQuotedStyle
	case KindObjectRef:
		if text != "" && s.catalog.Lookup(text) == nil {
			return fmt.Errorf("%s: no object named %q", dp.path, text)
		}
		next.Tag, next.Value = tagRef, text
	}

	doc := dp.owner.doc
	s.undo = append(s.undo, edit{doc: doc, node: node, previous: *node, wasDirty: doc.dirty})
	*node = next
	doc.dirty = true
	return nil
}

// Undo reverts the most recent edit. It reports false when there is nothing to undo.
func (s *Session) Undo() bool {
	if len(s.undo) == 0 {
		return false
	}
	last := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	*last.node = last.previous
	last.doc.dirty = last.wasDirty
	return true
}

// Dirty reports whether any document has uncommitted edits.
func (s *Session) Dirty() bool {
	return len(s.catalog.Dirty()) > 0
}

// Commit writes every modified document back to disk and clears the undo stack.
// Each file is replaced atomically; a failed write leaves the original intact.
func (s *Session) Commit() ([]string, error) {
	var written []string
	var errs []error
	for _, doc := range s.catalog.Dirty() {
		data, err := encode(doc.Root)
		if err != nil {
			errs = append(errs, fmt.Errorf("encode %s: %w", doc.Path, err))
			continue
		}
		target := filepath.Join(s.catalog.Root, filepath.FromSlash(doc.Path))
		if err := writeAtomic(target, data); err != nil {
			errs = append(errs, err)
			continue
		}
		doc.dirty = false
		written = append(written, doc.Path)
	}
	if len(errs) == 0 {
		s.undo = nil
	}
	return written, errors.Join(errs...)
}

func encode(root *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeAtomic replaces target, keeping its permission bits.
func writeAtomic(target string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(target); err == nil {
		perm = info.Mode().Perm()
	}
	return atomicfile.Write(target, data, perm)
}

func flagNames(cur Flags, text string) ([]string, error) {
	switch text {
	case "", "Nothing":
		return nil, nil
	case "Everything":
		return []string{"Everything"}, nil
	}
	var out []string
	for _, part := range strings.Split(text, "|") {
		part = strings.TrimSpace(part)
		if indexOf(cur.Names, part) < 0 {
			return nil, fmt.Errorf("%q is not a %s flag", part, cur.Type)
		}
		out = append(out, part)
	}
	return out, nil
}

func indexOf(names []string, want string) int {
	for i, n := range names {
		if n == want {
			return i
		}
	}
	return -1
}

func qualify(typ, value string) string {
	if typ == "" {
		return value
	}
	return typ + "." + value
}
