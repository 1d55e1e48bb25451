package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/assetlist/internal/sorting"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 6, "hello…"},
		{"hello", 0, ""},
		{"日本語テキスト", 5, "日本…"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}

func TestTruncateMiddle_KeepsFileName(t *testing.T) {
	got := truncateMiddle("assets/units/infantry/rifleman.yaml", 20)
	if textWidth(got) > 20 {
		t.Fatalf("truncateMiddle width = %d, want <= 20", textWidth(got))
	}
	if !strings.HasSuffix(got, "rifleman.yaml") {
		t.Fatalf("truncateMiddle = %q, want suffix %q", got, "rifleman.yaml")
	}
	if !strings.Contains(got, ellipsis) {
		t.Fatalf("truncateMiddle = %q, want an ellipsis", got)
	}
}

func TestBgStyleCell_ExactWidth(t *testing.T) {
	bg := NewBgStyle("#000000")
	style := lipgloss.NewStyle()
	for _, align := range []lipgloss.Position{lipgloss.Left, lipgloss.Center, lipgloss.Right} {
		for _, text := range []string{"", "ab", "a much longer label than fits"} {
			cell := bg.Cell(text, 10, style, align)
			if w := lipgloss.Width(cell); w != 10 {
				t.Fatalf("Cell(%q, 10, %v) width = %d, want 10", text, align, w)
			}
		}
	}
	if got := bg.Spaces(-1); got != "" {
		t.Fatalf("Spaces(-1) = %q, want empty", got)
	}
}

func TestSortMarker(t *testing.T) {
	cases := []struct {
		rank    int
		dir     sorting.Direction
		want    string
		primary bool
	}{
		{-1, sorting.Ascending, "", false},
		{0, sorting.Ascending, "▲", true},
		{0, sorting.Descending, "▼", true},
		{1, sorting.Ascending, "△", false},
		{2, sorting.Descending, "▽", false},
	}
	for _, tc := range cases {
		got, primary := sortMarker(tc.rank, tc.dir)
		if got != tc.want || primary != tc.primary {
			t.Fatalf("sortMarker(%d, %v) = %q, %v; want %q, %v", tc.rank, tc.dir, got, primary, tc.want, tc.primary)
		}
	}
}

func TestShortTime(t *testing.T) {
	if got := shortTime("2026-10-18T09:15:42.123+02:00"); got != "09:15:42" {
		t.Fatalf("shortTime = %q, want %q", got, "09:15:42")
	}
	if got := shortTime("not a time"); got != "not a time" {
		t.Fatalf("shortTime(invalid) = %q, want input unchanged", got)
	}
}
