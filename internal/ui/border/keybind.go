package border

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/justinpbarnett/guildview/internal/ui/styles"
)

// Keybind is a single hint such as [r]efresh: Key in brackets, then Label.
type Keybind struct {
	Key   string
	Label string
}

var (
	keyStyle   = lipgloss.NewStyle().Foreground(styles.KeybindKey).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(styles.KeybindLabel)
)

func RenderKeybind(kb Keybind) string {
	return keyStyle.Render("["+kb.Key+"]") + labelStyle.Render(kb.Label)
}
