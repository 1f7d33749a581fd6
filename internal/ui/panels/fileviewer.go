package panels

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/justinpbarnett/guildview/internal/run"
	"github.com/justinpbarnett/guildview/internal/ui/border"
	"github.com/justinpbarnett/guildview/internal/ui/styles"
	"github.com/justinpbarnett/guildview/internal/ui/text"
)

const tabWidth = 4

// FileViewer is the modal that shows a run file as plain text.
type FileViewer struct {
	viewport  viewport.Model
	runID     string
	file      run.File
	lines     []string
	loading   bool
	truncated bool
	binary    bool
	err       error
	width     int
	height    int
	gTap      DoubleTap
}

func NewFileViewer(runID string, file run.File, width, height int) *FileViewer {
	v := &FileViewer{
		viewport: viewport.New(0, 0),
		runID:    runID,
		file:     file,
		loading:  true,
		gTap:     NewDoubleTap(gTapIDViewer),
	}
	v.SetSize(width, height)
	return v
}

func (v FileViewer) Update(msg tea.Msg) (FileViewer, tea.Cmd) {
	switch msg := msg.(type) {
	case GTimerExpiredMsg:
		v.gTap.HandleExpiry(msg)
		return v, nil
	case tea.KeyMsg:
		if msg.String() != "g" {
			v.gTap.Reset()
		}
		switch msg.String() {
		case "esc", "q", "enter":
			return v, func() tea.Msg { return CloseModalMsg{} }
		case "y":
			path := v.file.Path
			return v, func() tea.Msg { return YankMsg{Text: path, What: "path"} }
		case "G":
			v.viewport.GotoBottom()
			return v, nil
		case "g":
			fired, cmd := v.gTap.Check()
			if fired {
				v.viewport.GotoTop()
			}
			return v, cmd
		case "j", "down":
			v.viewport.SetYOffset(v.viewport.YOffset + 1)
			return v, nil
		case "k", "up":
			v.viewport.SetYOffset(max(v.viewport.YOffset-1, 0))
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

func (v FileViewer) View() string {
	var content string
	switch {
	case v.err != nil:
		content = styles.StderrStyle.Render(text.Truncate("Error: "+v.err.Error(), max(v.width-2, 0)))
	case v.loading:
		content = styles.TextDimStyle.Render("Loading " + v.file.Path + "...")
	case v.binary:
		content = styles.TextDimStyle.Render("Binary file, not shown")
	case len(v.lines) == 0:
		content = styles.TextDimStyle.Render("Empty file")
	default:
		content = v.viewport.View()
	}

	badge := ""
	if len(v.lines) > 0 {
		badge = fmt.Sprintf("%d lines", len(v.lines))
		if v.truncated {
			badge += " (truncated)"
		}
	}

	p := border.Panel{
		Title:   v.file.Path,
		Badge:   badge,
		Width:   v.width,
		Height:  v.height,
		Focused: true,
		Keybinds: []border.Keybind{
			{Key: "y", Label: "ank path"},
			{Key: "Esc", Label: " close"},
		},
	}
	return p.Render(content)
}

// SetContent shows data. Content that is not UTF-8 text, or holds NUL
// bytes, is reported as binary.
func (v *FileViewer) SetContent(data []byte, truncated bool) {
	v.loading = false
	v.err = nil
	v.truncated = truncated
	if truncated {
		// the limit may have split a multi-byte rune
		for i := 0; i < utf8.UTFMax && len(data) > 0 && !utf8.Valid(data); i++ {
			data = data[:len(data)-1]
		}
	}
	v.binary = bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data)
	v.lines = nil
	if !v.binary && len(data) > 0 {
		s := strings.TrimSuffix(string(data), "\n")
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
		v.lines = strings.Split(s, "\n")
	}
	v.refresh()
}

func (v *FileViewer) SetError(err error) {
	v.loading = false
	v.err = err
}

func (v *FileViewer) SetSize(w, h int) {
	v.width = w
	v.height = h
	v.viewport.Width = max(w-2, 0)
	v.viewport.Height = max(h-2, 0)
	v.refresh()
}

// Showing reports whether the viewer is for path in runID.
func (v FileViewer) Showing(runID, path string) bool {
	return v.runID == runID && v.file.Path == path
}

func (v *FileViewer) refresh() {
	width := v.viewport.Width
	rendered := make([]string, len(v.lines))
	for i, line := range v.lines {
		rendered[i] = styles.TextPrimaryStyle.Render(text.Truncate(line, width))
	}
	v.viewport.SetContent(strings.Join(rendered, "\n"))
}
