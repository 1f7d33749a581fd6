package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/justinpbarnett/guildview/internal/run"
	"github.com/justinpbarnett/guildview/internal/ui/border"
	"github.com/justinpbarnett/guildview/internal/ui/selection"
	"github.com/justinpbarnett/guildview/internal/ui/styles"
	"github.com/justinpbarnett/guildview/internal/ui/text"
)

const outputTimeLayout = "15:04:05"

// Output shows the captured stdout and stderr of the selected run. Lines
// arrive in chunks; received counts every line the backend has sent so the
// next fetch can start where the last one ended, even after old lines were
// trimmed from the buffer.
type Output struct {
	viewport viewport.Model
	width    int
	height   int
	runID    string
	lines    []run.OutputLine
	received int
	maxLines int
	follow   bool
	focused  bool
	loading  bool
	err      error
	gTap     DoubleTap
	sel      selection.Selection
}

func NewOutput(maxLines int) Output {
	return Output{
		viewport: viewport.New(0, 0),
		maxLines: maxLines,
		follow:   true,
		gTap:     NewDoubleTap(gTapIDOutput),
	}
}

func (o Output) Update(msg tea.Msg) (Output, tea.Cmd) {
	switch msg := msg.(type) {
	case GTimerExpiredMsg:
		o.gTap.HandleExpiry(msg)
		return o, nil
	case tea.KeyMsg:
		if o.sel.Active() {
			return o.updateSelection(msg)
		}
		if msg.String() != "g" {
			o.gTap.Reset()
		}
		switch msg.String() {
		case "v":
			o.sel.Enter(o.textLines(), o.viewport.YOffset, o.viewport.Height)
			if o.sel.Active() {
				o.follow = false
				o.refresh()
			}
			return o, nil
		case "f":
			o.follow = !o.follow
			if o.follow {
				o.viewport.GotoBottom()
			}
			return o, nil
		case "G":
			o.follow = true
			o.viewport.GotoBottom()
			return o, nil
		case "g":
			fired, cmd := o.gTap.Check()
			if fired {
				o.follow = false
				o.viewport.GotoTop()
			}
			return o, cmd
		case "j", "down":
			o.viewport.SetYOffset(o.viewport.YOffset + 1)
			o.follow = o.viewport.AtBottom()
			return o, nil
		case "k", "up":
			o.follow = false
			o.viewport.SetYOffset(max(o.viewport.YOffset-1, 0))
			return o, nil
		}
	}

	var cmd tea.Cmd
	o.viewport, cmd = o.viewport.Update(msg)
	return o, cmd
}

func (o Output) updateSelection(msg tea.KeyMsg) (Output, tea.Cmd) {
	yank, cmd := o.sel.Update(msg, o.textLines(), &o.viewport, &o.gTap.Pending, GTimerExpiredMsg{ID: gTapIDOutput})
	o.viewport.SetContent(o.renderLines(o.viewport.Width))
	if yank != "" {
		n := strings.Count(yank, "\n") + 1
		what := fmt.Sprintf("%d output lines", n)
		if n == 1 {
			what = "output line"
		}
		return o, tea.Batch(cmd, func() tea.Msg { return YankMsg{Text: yank, What: what} })
	}
	return o, cmd
}

func (o Output) View() string {
	var content string
	switch {
	case o.runID == "":
		content = styles.TextDimStyle.Render("No run selected")
	case o.err != nil && len(o.lines) == 0:
		content = styles.StderrStyle.Render(text.Truncate("Error: "+o.err.Error(), max(o.width-2, 0)))
	case len(o.lines) == 0 && o.loading:
		content = styles.TextDimStyle.Render("Loading output...")
	case len(o.lines) == 0:
		content = styles.TextDimStyle.Render("No output")
	default:
		content = o.viewport.View()
	}

	badge := ""
	if o.received > 0 {
		badge = fmt.Sprintf("%d lines", o.received)
	}
	if o.follow {
		badge = strings.TrimSpace(badge + " follow")
	}

	p := border.Panel{
		Title:   "[4] Output",
		Badge:   badge,
		Width:   o.width,
		Height:  o.height,
		Focused: o.focused,
		Keybinds: []border.Keybind{
			{Key: "f", Label: "ollow"},
			{Key: "v", Label: " select"},
			{Key: "G", Label: " end"},
		},
	}
	if o.sel.Active() {
		p.Keybinds = []border.Keybind{
			{Key: "y", Label: "ank"},
			{Key: "Esc", Label: " cancel"},
		}
	}
	return p.Render(content)
}

// SetRun switches the panel to runID. It reports whether the run changed,
// in which case the buffer was cleared and a fetch from line 0 is due.
func (o *Output) SetRun(runID string) bool {
	if runID == o.runID {
		return false
	}
	o.runID = runID
	o.lines = nil
	o.received = 0
	o.err = nil
	o.sel.Reset()
	o.follow = true
	o.loading = runID != ""
	o.refresh()
	return true
}

// AddLines applies a fetched chunk that began at line start. A chunk from
// 0 replaces the buffer. Chunks that do not continue the received count
// are stale and ignored.
func (o *Output) AddLines(start int, lines []run.OutputLine) {
	o.loading = false
	o.err = nil
	switch {
	case start == 0:
		o.lines = append([]run.OutputLine(nil), lines...)
		o.received = len(lines)
		o.sel.Reset()
	case start == o.received:
		o.lines = append(o.lines, lines...)
		o.received += len(lines)
	default:
		return
	}
	if o.maxLines > 0 && len(o.lines) > o.maxLines {
		dropped := len(o.lines) - o.maxLines
		o.lines = o.lines[dropped:]
		o.sel.Shift(dropped)
	}
	o.refresh()
}

func (o *Output) SetError(err error) {
	o.loading = false
	o.err = err
}

// Received is the index of the next line to fetch.
func (o Output) Received() int {
	return o.received
}

func (o Output) RunID() string {
	return o.runID
}

// Lines returns the buffered lines, oldest first.
func (o Output) Lines() []run.OutputLine {
	return o.lines
}

// Selecting reports whether copy mode is active.
func (o Output) Selecting() bool {
	return o.sel.Active()
}

func (o Output) textLines() selection.Lines {
	lines := make(selection.Lines, len(o.lines))
	for i, l := range o.lines {
		lines[i] = l.Text
	}
	return lines
}

func (o *Output) SetSize(w, h int) {
	o.width = w
	o.height = h
	o.viewport.Width = max(w-2, 0)
	o.viewport.Height = max(h-2, 0)
	o.refresh()
}

func (o *Output) SetFocused(focused bool) {
	o.focused = focused
}

func (o *Output) refresh() {
	o.viewport.SetContent(o.renderLines(o.viewport.Width))
	if o.follow {
		o.viewport.GotoBottom()
	}
}

func (o Output) renderLines(width int) string {
	if len(o.lines) == 0 {
		return ""
	}
	textW := max(width-len(outputTimeLayout)-1, 1)

	var b strings.Builder
	for i, l := range o.lines {
		ts := styles.TextDimStyle.Render(l.Time.Format(outputTimeLayout))
		line := text.Truncate(l.Text, textW)
		switch {
		case o.sel.Contains(i):
			line = styles.SelectedRowStyle.Render(text.PadRight(line, textW))
		case l.Stream == run.Stderr:
			line = styles.StderrStyle.Render(line)
		default:
			line = styles.TextPrimaryStyle.Render(line)
		}
		b.WriteString(ts + " " + line)
		if i < len(o.lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
