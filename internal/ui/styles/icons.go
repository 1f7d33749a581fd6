package styles

// Glyphs for the Material Design icon names the backend and the status
// descriptors use.
var glyphs = map[string]string{
	"check-circle":           "✔",
	"alert":                  "✖",
	"close-circle":           "⊗",
	"dots-horizontal-circle": "⋯",
	"help-circle":            "?",

	"file":        "▤",
	"file-export": "↗",
	"file-image":  "▣",
	"file-music":  "♪",
	"file-pdf":    "▥",
	"folder":      "▸",
}

// Glyph returns the terminal glyph for a Material icon name, or "·".
func Glyph(icon string) string {
	if g, ok := glyphs[icon]; ok {
		return g
	}
	return "·"
}
