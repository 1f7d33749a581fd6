package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/justinpbarnett/guildview/internal/format"
	"github.com/justinpbarnett/guildview/internal/run"
	"github.com/justinpbarnett/guildview/internal/ui/border"
	"github.com/justinpbarnett/guildview/internal/ui/styles"
	"github.com/justinpbarnett/guildview/internal/ui/text"
)

const (
	colFileTypeW = 14
	colFileSizeW = 9
	colFileModW  = 14
)

// Files lists the selected run's directory.
type Files struct {
	files    []run.File
	runID    string
	selected int
	offset   int
	width    int
	height   int
	focused  bool
	gTap     DoubleTap
}

func NewFiles() Files {
	return Files{gTap: NewDoubleTap(gTapIDFiles)}
}

func (f Files) Update(msg tea.Msg) (Files, tea.Cmd) {
	switch msg := msg.(type) {
	case GTimerExpiredMsg:
		f.gTap.HandleExpiry(msg)
		return f, nil
	case tea.KeyMsg:
		if msg.String() != "g" {
			f.gTap.Reset()
		}
		switch msg.String() {
		case "j", "down":
			if f.selected < len(f.files)-1 {
				f.selected++
				f.scrollToSelection()
			}
		case "k", "up":
			if f.selected > 0 {
				f.selected--
				f.scrollToSelection()
			}
		case "G":
			f.selected = max(len(f.files)-1, 0)
			f.scrollToSelection()
		case "g":
			fired, cmd := f.gTap.Check()
			if fired {
				f.selected = 0
				f.scrollToSelection()
			}
			return f, cmd
		case "enter":
			if sel := f.SelectedFile(); sel != nil {
				open := OpenFileMsg{RunID: f.runID, File: *sel}
				return f, func() tea.Msg { return open }
			}
		case "y":
			if sel := f.SelectedFile(); sel != nil {
				path := sel.Path
				return f, func() tea.Msg { return YankMsg{Text: path, What: "path"} }
			}
		}
	}
	return f, nil
}

func (f Files) View() string {
	p := border.Panel{
		Title:   "[3] Files",
		Width:   f.width,
		Height:  f.height,
		Focused: f.focused,
		Keybinds: []border.Keybind{
			{Key: "Enter", Label: " view"},
			{Key: "y", Label: "ank path"},
		},
	}
	if len(f.files) > 0 {
		p.Badge = fmt.Sprintf("%d/%d", f.selected+1, len(f.files))
	}
	return p.Render(f.renderContent(max(f.width-2, 0), max(f.height-2, 0)))
}

func (f Files) renderContent(width, height int) string {
	if f.runID == "" {
		return styles.TextDimStyle.Render("No run selected")
	}
	if len(f.files) == 0 {
		return styles.TextDimStyle.Render("No files")
	}

	pathW := max(width-(colIconW+colFileTypeW+colFileSizeW+colFileModW+4), 8)
	end := min(f.offset+height, len(f.files))

	var b strings.Builder
	for i := f.offset; i < end; i++ {
		file := f.files[i]
		typ := file.IconTooltip
		if typ == "" {
			typ = file.Type
		}
		row := fmt.Sprintf("%s %s %s %s %s",
			text.PadRight(styles.Glyph(file.Icon), colIconW),
			text.PadRight(text.TruncateLeft(file.Path, pathW), pathW),
			text.PadRight(text.Truncate(typ, colFileTypeW), colFileTypeW),
			text.PadLeft(format.FormatSize(file.Size), colFileSizeW),
			text.PadLeft(text.Truncate(format.FormatMTime(file.MTime), colFileModW), colFileModW),
		)
		row = text.Truncate(row, width)
		if i == f.selected && f.focused {
			b.WriteString(styles.SelectedRowStyle.Width(width).Render(row))
		} else {
			b.WriteString(styles.TextPrimaryStyle.Render(row))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// SetRun shows the files of r. The cursor is kept when the same run is
// refreshed and reset otherwise.
func (f *Files) SetRun(r *run.Run) {
	if r == nil {
		f.files = nil
		f.runID = ""
		f.selected, f.offset = 0, 0
		return
	}
	if r.ID != f.runID {
		f.selected, f.offset = 0, 0
	}
	f.runID = r.ID
	f.files = r.Files
	f.selected = min(f.selected, max(len(f.files)-1, 0))
	f.scrollToSelection()
}

func (f *Files) SetSize(w, h int) {
	f.width = w
	f.height = h
	f.scrollToSelection()
}

func (f *Files) SetFocused(focused bool) {
	f.focused = focused
}

func (f Files) SelectedFile() *run.File {
	if f.selected >= len(f.files) {
		return nil
	}
	file := f.files[f.selected]
	return &file
}

func (f *Files) scrollToSelection() {
	visible := max(f.height-2, 1)
	if f.selected < f.offset {
		f.offset = f.selected
	}
	if f.selected >= f.offset+visible {
		f.offset = f.selected - visible + 1
	}
	f.offset = max(min(f.offset, len(f.files)-visible), 0)
}
