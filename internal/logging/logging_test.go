package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/five82/assetlist/internal/logtail"
)

func TestFile_WritesParseableRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "assetlist.log")

	logger, closer, err := File(path, slog.LevelInfo)
	if err != nil {
		t.Fatalf("File returned error: %v", err)
	}
	logger.Debug("hidden")
	logger.With("session", "abc").Warn("property not found", "column", "Max HP", "missing", 2)
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lines, err := logtail.Read(path, 10, nil)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("lines = %q, want 1 record", lines)
	}
	rec := logtail.Parse(lines[0])
	if rec.Level != "WARN" || rec.Message != "property not found" {
		t.Fatalf("Parse = %#v, want WARN property not found", rec)
	}
	if rec.Time == "" || strings.Contains(rec.Time, " ") {
		t.Fatalf("Time = %q, want RFC3339", rec.Time)
	}
	want := []logtail.Attr{{Key: "session", Value: "abc"}, {Key: "column", Value: "Max HP"}, {Key: "missing", Value: "2"}}
	if len(rec.Attrs) != len(want) {
		t.Fatalf("Attrs = %v, want %v", rec.Attrs, want)
	}
	for i := range want {
		if rec.Attrs[i] != want[i] {
			t.Fatalf("Attrs[%d] = %v, want %v", i, rec.Attrs[i], want[i])
		}
	}
}

func TestFile_AppendsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assetlist.log")
	for i := 0; i < 2; i++ {
		logger, closer, err := File(path, slog.LevelInfo)
		if err != nil {
			t.Fatalf("File returned error: %v", err)
		}
		logger.Info("opened")
		_ = closer.Close()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := strings.Count(string(data), "msg=opened"); got != 2 {
		t.Fatalf("records = %d, want 2", got)
	}
}

func TestTerminal_NoColorForBuffers(t *testing.T) {
	var buf bytes.Buffer
	Terminal(&buf, slog.LevelInfo).Info("catalog loaded", "objects", 3)
	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("output %q contains color escapes", out)
	}
	if !strings.Contains(out, "catalog loaded") || !strings.Contains(out, "objects=3") {
		t.Fatalf("output %q missing record", out)
	}
}
