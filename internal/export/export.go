// Package export writes a session as tab separated text in display order.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/five82/assetlist/internal/atomicfile"
	"github.com/five82/assetlist/internal/column"
	"github.com/five82/assetlist/internal/projection"
)

// Ext is the file extension of exported tables.
const Ext = ".tsv"

// TSV writes the header of column titles followed by one line per object in
// order. Absent values are empty fields. Every line ends with \n.
func TSV(w io.Writer, s *column.Session, order []int) error {
	bw := bufio.NewWriter(w)
	titles := make([]string, len(s.Columns))
	for i, t := range s.Titles() {
		titles[i] = projection.Sanitize(t)
	}
	if err := writeLine(bw, titles); err != nil {
		return err
	}

	fields := make([]string, len(s.Columns))
	for _, row := range order {
		if row < 0 || row >= len(s.Objects) {
			return fmt.Errorf("row %d out of range", row)
		}
		obj := s.Objects[row]
		for i, c := range s.Columns {
			fields[i] = c.Export(obj)
		}
		if err := writeLine(bw, fields); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeLine(w *bufio.Writer, fields []string) error {
	if _, err := w.WriteString(strings.Join(fields, "\t")); err != nil {
		return err
	}
	return w.WriteByte('\n')
}

// String returns the TSV text of a session.
func String(s *column.Session, order []int) (string, error) {
	var b strings.Builder
	if err := TSV(&b, s, order); err != nil {
		return "", err
	}
	return b.String(), nil
}

// WriteFile writes the TSV to path through a temporary file in the same
// directory, so a failed export never leaves a partial file behind.
func WriteFile(path string, s *column.Session, order []int) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	err := atomicfile.WriteFunc(path, 0o644, func(w io.Writer) error {
		return TSV(w, s, order)
	})
	if err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// FileName returns a file name for an export of the named list.
func FileName(list, stamp string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, strings.TrimSpace(list))
	if name == "" {
		name = "list"
	}
	if stamp != "" {
		name += "-" + stamp
	}
	return name + Ext
}
