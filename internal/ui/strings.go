package ui

import "github.com/mattn/go-runewidth"

const ellipsis = "…"

// textWidth returns the number of terminal columns s occupies.
func textWidth(s string) int {
	return runewidth.StringWidth(s)
}

// truncate shortens s to at most width terminal columns, ending in an
// ellipsis when anything was cut.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, ellipsis)
}

// truncateMiddle shortens s by cutting from the middle, keeping more of the
// end, which for paths holds the file name.
func truncateMiddle(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 5 {
		return runewidth.Truncate(s, width, "")
	}
	endWidth := (width - 1) * 2 / 3
	startWidth := width - 1 - endWidth
	start := runewidth.Truncate(s, startWidth, "")
	end := tailWidth(s, endWidth)
	return start + ellipsis + end
}

// tailWidth returns the longest suffix of s that fits in width columns.
func tailWidth(s string, width int) string {
	runes := []rune(s)
	w := 0
	i := len(runes)
	for i > 0 {
		rw := runewidth.RuneWidth(runes[i-1])
		if w+rw > width {
			break
		}
		w += rw
		i--
	}
	return string(runes[i:])
}

// padRight pads s with spaces to width columns.
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

