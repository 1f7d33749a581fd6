package border

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/justinpbarnett/guildview/internal/ui/styles"
)

const (
	cornerTL = "╭"
	cornerTR = "╮"
	cornerBL = "╰"
	cornerBR = "╯"
	horizBar = "─"
	vertBar  = "│"
)

func borderStyle(focused bool) lipgloss.Style {
	if focused {
		return lipgloss.NewStyle().Foreground(styles.BorderFocused)
	}
	return lipgloss.NewStyle().Foreground(styles.BorderUnfocused)
}

// top renders ╭─ Title ──────── badge ─╮. The badge is dropped first, then
// the title truncated, when the width cannot hold both.
func top(title, badge string, width int, focused bool) string {
	bs := borderStyle(focused)
	inner := width - 2

	ts := styles.TextSecondaryStyle.Bold(true)
	if focused {
		ts = styles.TitleStyle
	}

	// "─ " before the title and " " after it
	const titlePad = 3
	// " " before the badge and " ─" after it
	const badgePad = 3

	titleR := ""
	if title != "" {
		titleR = ts.Render(title)
		if maxW := inner - titlePad; lipgloss.Width(titleR) > maxW {
			if maxW <= 0 {
				titleR = ""
			} else {
				titleR = lipgloss.NewStyle().MaxWidth(maxW).Render(titleR)
			}
		}
	}

	used := 0
	if titleR != "" {
		used = titlePad + lipgloss.Width(titleR)
	}

	badgeR := ""
	if badge != "" {
		badgeR = styles.TextSecondaryStyle.Render(badge)
		if used+badgePad+lipgloss.Width(badgeR) > inner {
			badgeR = ""
		}
	}

	var b strings.Builder
	b.WriteString(bs.Render(cornerTL))
	if titleR != "" {
		b.WriteString(bs.Render(horizBar + " "))
		b.WriteString(titleR)
		b.WriteString(bs.Render(" "))
	}
	fill := inner - used
	if badgeR != "" {
		fill -= badgePad + lipgloss.Width(badgeR)
	}
	b.WriteString(bs.Render(strings.Repeat(horizBar, max(fill, 0))))
	if badgeR != "" {
		b.WriteString(bs.Render(" "))
		b.WriteString(badgeR)
		b.WriteString(bs.Render(" " + horizBar))
	}
	b.WriteString(bs.Render(cornerTR))
	return b.String()
}

// bottom renders ╰─ [r]efresh  [y]ank ──╯ when focused, a plain rule
// otherwise. Keybinds that do not fit are dropped from the end.
func bottom(keybinds []Keybind, width int, focused bool) string {
	bs := borderStyle(focused)
	inner := width - 2

	if !focused || len(keybinds) == 0 {
		return bs.Render(cornerBL + strings.Repeat(horizBar, inner) + cornerBR)
	}

	maxW := max(inner-3, 0)
	var parts []string
	used := 0
	for _, kb := range keybinds {
		r := RenderKeybind(kb)
		w := lipgloss.Width(r)
		sep := 0
		if len(parts) > 0 {
			sep = 2
		}
		if used+sep+w > maxW {
			break
		}
		parts = append(parts, r)
		used += sep + w
	}

	return bs.Render(cornerBL+horizBar+" ") +
		strings.Join(parts, "  ") +
		bs.Render(" "+strings.Repeat(horizBar, maxW-used)+cornerBR)
}

// sides wraps each content line in │…│, cropping or padding it to the inner
// width. Widths are measured ANSI-aware.
func sides(lines []string, width int, focused bool) []string {
	bs := borderStyle(focused)
	inner := width - 2
	crop := lipgloss.NewStyle().MaxWidth(inner)
	bar := bs.Render(vertBar)

	out := make([]string, len(lines))
	for i, line := range lines {
		w := lipgloss.Width(line)
		if w > inner {
			line = crop.Render(line)
			w = lipgloss.Width(line)
		}
		if w < inner {
			line += strings.Repeat(" ", inner-w)
		}
		out[i] = bar + line + bar
	}
	return out
}
