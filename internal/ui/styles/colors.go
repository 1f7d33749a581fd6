package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Semantic colors, AdaptiveColor{Light, Dark}
var (
	BorderFocused   = lipgloss.AdaptiveColor{Light: "#2e5cb8", Dark: "#7aa2f7"}
	BorderUnfocused = lipgloss.AdaptiveColor{Light: "#c0c0c0", Dark: "#3b4261"}
	TitleText       = lipgloss.AdaptiveColor{Light: "#1a1b26", Dark: "#c0caf5"}
	KeybindKey      = lipgloss.AdaptiveColor{Light: "#8a6200", Dark: "#e0af68"}
	KeybindLabel    = lipgloss.AdaptiveColor{Light: "#8890a8", Dark: "#565f89"}
	TextPrimary     = lipgloss.AdaptiveColor{Light: "#1a1b26", Dark: "#c0caf5"}
	TextSecondary   = lipgloss.AdaptiveColor{Light: "#8890a8", Dark: "#565f89"}
	TextDim         = lipgloss.AdaptiveColor{Light: "#b0b0b0", Dark: "#3b4261"}

	StatusRunning = lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#7dcfff"}
	StatusSuccess = lipgloss.AdaptiveColor{Light: "#1a7f37", Dark: "#9ece6a"}
	StatusError   = lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#f7768e"}
	StatusWarning = lipgloss.AdaptiveColor{Light: "#8a6200", Dark: "#e0af68"}
	StatusPending = lipgloss.AdaptiveColor{Light: "#8890a8", Dark: "#565f89"}

	SelectedRowBg = lipgloss.AdaptiveColor{Light: "#e0e0e0", Dark: "#292e42"}

	StderrText = lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#f7768e"}
)

// Material palette names used by run status descriptors.
var descriptorColors = map[string]lipgloss.AdaptiveColor{
	"green":          {Light: "#2e7d32", Dark: "#81c784"},
	"red":            {Light: "#c62828", Dark: "#e57373"},
	"teal lighten-2": {Light: "#00897b", Dark: "#4db6ac"},
	"orange":         {Light: "#ef6c00", Dark: "#ffb74d"},
	"grey":           {Light: "#757575", Dark: "#9e9e9e"},
}

// DescriptorColor maps a status descriptor color name to a terminal color.
// Unknown names render dim.
func DescriptorColor(name string) lipgloss.AdaptiveColor {
	if c, ok := descriptorColors[name]; ok {
		return c
	}
	return TextDim
}
