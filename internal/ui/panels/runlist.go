package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/justinpbarnett/guildview/internal/format"
	"github.com/justinpbarnett/guildview/internal/run"
	"github.com/justinpbarnett/guildview/internal/ui/border"
	"github.com/justinpbarnett/guildview/internal/ui/styles"
	"github.com/justinpbarnett/guildview/internal/ui/text"
)

// Column widths for the run list.
const (
	colIconW    = 2
	colIDW      = 8
	colStatusW  = 10
	colStartedW = 16
)

type RunList struct {
	store        *run.Store
	all          []format.FormattedRun
	filtered     []format.FormattedRun
	selected     int
	offset       int
	width        int
	height       int
	gTap         DoubleTap
	filterActive bool
	filterText   string
	filterInput  textinput.Model
	focused      bool
	title        string
	loaded       bool
}

func NewRunList(store *run.Store) RunList {
	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.CharLimit = 64

	rl := RunList{
		store:       store,
		filterInput: ti,
		gTap:        NewDoubleTap(gTapIDRunList),
	}
	rl.reload()
	return rl
}

func (r RunList) Update(msg tea.Msg) (RunList, tea.Cmd) {
	switch msg := msg.(type) {
	case RunStoreUpdatedMsg:
		r.loaded = true
		r.reloadKeepingSelection()
		return r, nil
	case GTimerExpiredMsg:
		r.gTap.HandleExpiry(msg)
		return r, nil
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return r, nil
	}

	if r.filterActive {
		return r.updateFilter(km)
	}

	if km.String() != "g" {
		r.gTap.Reset()
	}

	switch km.String() {
	case "/":
		r.filterActive = true
		r.filterInput.Focus()
		return r, textinput.Blink
	case "j", "down":
		if r.selected < len(r.filtered)-1 {
			r.selected++
			r.scrollToSelection()
		}
	case "k", "up":
		if r.selected > 0 {
			r.selected--
			r.scrollToSelection()
		}
	case "y":
		if sel := r.SelectedRun(); sel != nil {
			id := sel.ID
			return r, func() tea.Msg { return YankMsg{Text: id, What: "run ID"} }
		}
	case "G":
		r.selected = max(len(r.filtered)-1, 0)
		r.scrollToSelection()
	case "g":
		fired, cmd := r.gTap.Check()
		if fired {
			r.selected = 0
			r.scrollToSelection()
		}
		return r, cmd
	}
	return r, nil
}

func (r *RunList) updateFilter(msg tea.KeyMsg) (RunList, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		if msg.Type == tea.KeyEsc {
			r.filterText = ""
			r.filterInput.SetValue("")
		}
		r.filterActive = false
		r.filterInput.Blur()
		r.applyFilter()
		r.clampSelection()
		return *r, nil
	}

	var cmd tea.Cmd
	r.filterInput, cmd = r.filterInput.Update(msg)
	r.filterText = r.filterInput.Value()
	r.applyFilter()
	r.clampSelection()
	return *r, cmd
}

func (r RunList) View() string {
	title := "Runs"
	if r.title != "" {
		title = "Runs: " + r.title
	}

	badge := ""
	if len(r.filtered) > 0 {
		badge = fmt.Sprintf("%d/%d", r.selected+1, len(r.filtered))
		if len(r.filtered) != len(r.all) {
			badge += fmt.Sprintf(" of %d", len(r.all))
		}
	}

	p := border.Panel{
		Title:   "[1] " + title,
		Badge:   badge,
		Width:   r.width,
		Height:  r.height,
		Focused: r.focused,
		Keybinds: []border.Keybind{
			{Key: "y", Label: "ank ID"},
			{Key: "/", Label: "filter"},
			{Key: "r", Label: "efresh"},
		},
	}
	return p.Render(r.renderContent(max(r.width-2, 0), max(r.height-2, 0)))
}

func (r RunList) renderContent(width, height int) string {
	if len(r.filtered) == 0 {
		switch {
		case r.filterActive || r.filterText != "":
			return r.renderFilterBar() + "\nNo matching runs."
		case !r.loaded:
			return "Loading runs..."
		default:
			return "No runs."
		}
	}

	var b strings.Builder
	rows := height

	if r.filterActive {
		b.WriteString(r.renderFilterBar())
		b.WriteString("\n")
		rows--
	}

	header := fmt.Sprintf("%*s %-*s %-*s %-*s %s",
		colIconW, "",
		colIDW, "ID",
		colStatusW, "STATUS",
		colStartedW, "STARTED",
		"OPERATION",
	)
	b.WriteString(styles.TextSecondaryStyle.Render(text.Truncate(header, width)))
	b.WriteString("\n")
	rows--

	if r.offset > 0 {
		b.WriteString(styles.TextDimStyle.Render("  ▲"))
		b.WriteString("\n")
		rows--
	}

	end := min(r.offset+rows, len(r.filtered))
	if end < len(r.filtered) && rows > 1 {
		end = min(r.offset+rows-1, len(r.filtered))
	}

	opW := max(width-(colIconW+colIDW+colStatusW+colStartedW+4), 4)
	for i := r.offset; i < end; i++ {
		fr := r.filtered[i]
		glyph := text.PadRight(styles.Glyph(fr.Icon.Icon), colIconW)
		started := fr.Started
		if len(started) > colStartedW {
			started = started[:colStartedW]
		}
		rest := fmt.Sprintf(" %-*s %-*s %-*s %s",
			colIDW, fr.DisplayID(),
			colStatusW, text.Truncate(fr.Icon.Tooltip, colStatusW),
			colStartedW, started,
			text.TruncateLeft(fr.Operation, opW),
		)

		var line string
		if i == r.selected {
			line = styles.SelectedRowStyle.Width(width).Render(text.Truncate(glyph+rest, width))
		} else {
			icon := lipgloss.NewStyle().Foreground(styles.DescriptorColor(fr.Icon.Color)).Render(glyph)
			line = text.Truncate(icon+styles.TextPrimaryStyle.Render(rest), width)
		}

		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	if end < len(r.filtered) {
		b.WriteString("\n")
		b.WriteString(styles.TextDimStyle.Render("  ▼"))
	}

	return b.String()
}

func (r *RunList) SetSize(w, h int) {
	r.width = w
	r.height = h
	r.filterInput.Width = w - 6
	r.clampSelection()
}

func (r *RunList) SetFocused(focused bool) {
	r.focused = focused
}

// SetTitle shows the backend's title label next to the panel name.
func (r *RunList) SetTitle(title string) {
	r.title = title
}

func (r RunList) SelectedRun() *format.FormattedRun {
	if len(r.filtered) == 0 || r.selected >= len(r.filtered) {
		return nil
	}
	fr := r.filtered[r.selected]
	return &fr
}

// Runs returns every formatted run, ignoring the filter.
func (r RunList) Runs() []format.FormattedRun {
	return r.all
}

// FilterActive reports whether the filter input is currently active.
func (r RunList) FilterActive() bool {
	return r.filterActive
}

func (r *RunList) reload() {
	r.all = format.FormatRuns(r.store.List())
	r.applyFilter()
}

// reloadKeepingSelection re-reads the store and keeps the cursor on the
// same run when it is still listed.
func (r *RunList) reloadKeepingSelection() {
	var id string
	if sel := r.SelectedRun(); sel != nil {
		id = sel.ID
	}
	r.reload()
	if id == "" || !r.SelectByID(id) {
		r.clampSelection()
	}
}

func (r *RunList) applyFilter() {
	if r.filterText == "" {
		r.filtered = r.all
		return
	}
	query := strings.ToLower(r.filterText)
	filtered := make([]format.FormattedRun, 0, len(r.all))
	for _, fr := range r.all {
		if strings.Contains(strings.ToLower(fr.ID), query) ||
			strings.Contains(strings.ToLower(fr.Operation), query) ||
			strings.Contains(strings.ToLower(string(fr.Status)), query) ||
			strings.Contains(strings.ToLower(fr.Icon.Tooltip), query) ||
			strings.Contains(strings.ToLower(fr.Label), query) {
			filtered = append(filtered, fr)
		}
	}
	r.filtered = filtered
}

func (r *RunList) clampSelection() {
	if len(r.filtered) == 0 {
		r.selected = 0
		r.offset = 0
		return
	}
	r.selected = min(max(r.selected, 0), len(r.filtered)-1)
	r.scrollToSelection()
}

func (r *RunList) scrollToSelection() {
	visible := r.visibleRows()
	if visible <= 0 {
		return
	}
	if r.selected < r.offset {
		r.offset = r.selected
	}
	if r.selected >= r.offset+visible {
		r.offset = r.selected - visible + 1
	}
	r.offset = min(r.offset, max(len(r.filtered)-visible, 0))
	r.offset = max(r.offset, 0)
}

func (r RunList) visibleRows() int {
	rows := r.height - 2 // border
	rows--               // column header
	if r.filterActive {
		rows--
	}
	if r.offset > 0 {
		rows--
	}
	if r.offset+rows < len(r.filtered) {
		rows--
	}
	return max(rows, 1)
}

func (r RunList) renderFilterBar() string {
	return "/ " + r.filterInput.View()
}

// SelectByID moves the cursor to the run with the given full ID.
func (r *RunList) SelectByID(id string) bool {
	for i, fr := range r.filtered {
		if fr.ID == id {
			r.selected = i
			r.scrollToSelection()
			return true
		}
	}
	return false
}
