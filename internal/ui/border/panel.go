// Package border draws the rounded panel frames the dashboard is built
// from.
package border

import "strings"

// Panel describes one framed region of the screen.
type Panel struct {
	Title    string
	Badge    string // right-aligned in the top border, e.g. "3/12"
	Keybinds []Keybind
	Width    int
	Height   int
	Focused  bool
}

// Render frames content, cropping or padding it to exactly fill the panel.
// Keybinds show only while the panel is focused.
func (p Panel) Render(content string) string {
	if p.Width < 2 || p.Height < 2 {
		return ""
	}
	innerH := p.Height - 2

	var lines []string
	if content != "" {
		lines = strings.Split(content, "\n")
	}
	if len(lines) > innerH {
		lines = lines[:innerH]
	}
	for len(lines) < innerH {
		lines = append(lines, "")
	}

	out := make([]string, 0, p.Height)
	out = append(out, top(p.Title, p.Badge, p.Width, p.Focused))
	out = append(out, sides(lines, p.Width, p.Focused)...)
	out = append(out, bottom(p.Keybinds, p.Width, p.Focused))
	return strings.Join(out, "\n")
}
