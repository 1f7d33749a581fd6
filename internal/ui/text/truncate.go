// Package text holds ANSI-aware string helpers for fixed-width terminal
// columns.
package text

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Truncate cuts s to maxWidth cells, ending in "…" when anything was cut.
// Escape sequences are not counted and never split.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, "…")
}

// TruncateLeft keeps the tail of s, which is the informative end of a file
// path or an operation name.
func TruncateLeft(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	w := ansi.StringWidth(s)
	if w <= maxWidth {
		return s
	}
	return ansi.TruncateLeft(s, w-maxWidth+1, "…")
}

// WrapText wraps s at word boundaries to width columns, hard-breaking words
// that are longer than a line. Existing newlines are kept.
func WrapText(s string, width int) []string {
	if width <= 0 || s == "" {
		return []string{s}
	}
	return strings.Split(ansi.Wrap(s, width, ""), "\n")
}

// PadRight pads s with spaces to exactly width cells. Wider strings are
// returned unchanged.
func PadRight(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// PadLeft right-aligns s in width cells.
func PadLeft(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return strings.Repeat(" ", width-w) + s
}
