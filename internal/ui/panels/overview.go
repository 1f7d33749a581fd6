package panels

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/justinpbarnett/guildview/internal/format"
	"github.com/justinpbarnett/guildview/internal/ui/border"
	"github.com/justinpbarnett/guildview/internal/ui/styles"
	"github.com/justinpbarnett/guildview/internal/ui/text"
)

// Overview shows everything the backend knows about the selected run.
type Overview struct {
	viewport    viewport.Model
	width       int
	height      int
	run         *format.FormattedRun
	focused     bool
	showScalars bool
	gTap        DoubleTap
	now         func() time.Time
}

func NewOverview(showScalars bool) Overview {
	return Overview{
		viewport:    viewport.New(0, 0),
		showScalars: showScalars,
		gTap:        NewDoubleTap(gTapIDOverview),
		now:         time.Now,
	}
}

func (o Overview) Update(msg tea.Msg) (Overview, tea.Cmd) {
	switch msg := msg.(type) {
	case GTimerExpiredMsg:
		o.gTap.HandleExpiry(msg)
		return o, nil
	case tea.KeyMsg:
		if msg.String() != "g" {
			o.gTap.Reset()
		}
		switch msg.String() {
		case "j", "down":
			o.viewport.SetYOffset(o.viewport.YOffset + 1)
			return o, nil
		case "k", "up":
			o.viewport.SetYOffset(max(o.viewport.YOffset-1, 0))
			return o, nil
		case "G":
			o.viewport.GotoBottom()
			return o, nil
		case "g":
			fired, cmd := o.gTap.Check()
			if fired {
				o.viewport.GotoTop()
			}
			return o, cmd
		case "y":
			if o.run != nil && o.run.Command != "" {
				cmd := o.run.Command
				return o, func() tea.Msg { return YankMsg{Text: cmd, What: "command"} }
			}
			return o, nil
		}
	}
	return o, nil
}

func (o Overview) View() string {
	var content string
	if o.run == nil {
		content = styles.TextDimStyle.Render("No run selected")
	} else {
		content = o.viewport.View()
	}

	p := border.Panel{
		Title:   "[2] Overview",
		Width:   o.width,
		Height:  o.height,
		Focused: o.focused,
		Keybinds: []border.Keybind{
			{Key: "y", Label: "ank command"},
		},
	}
	if o.run != nil {
		p.Badge = o.run.DisplayID()
	}
	return p.Render(content)
}

// SetRun replaces the displayed run. The scroll position is kept when the
// same run is refreshed.
func (o *Overview) SetRun(fr *format.FormattedRun) {
	sameRun := o.run != nil && fr != nil && o.run.ID == fr.ID
	o.run = fr
	o.refresh()
	if !sameRun {
		o.viewport.GotoTop()
	}
}

func (o *Overview) SetSize(w, h int) {
	o.width = w
	o.height = h
	o.viewport.Width = max(w-2, 0)
	o.viewport.Height = max(h-2, 0)
	o.refresh()
}

func (o *Overview) SetFocused(focused bool) {
	o.focused = focused
}

func (o *Overview) refresh() {
	if o.run == nil {
		o.viewport.SetContent("")
		return
	}
	o.viewport.SetContent(o.renderDetails(o.viewport.Width))
}

func (o Overview) renderDetails(width int) string {
	fr := o.run
	keyStyle := styles.TextSecondaryStyle
	valStyle := styles.TextPrimaryStyle
	statusStyle := lipgloss.NewStyle().Foreground(styles.DescriptorColor(fr.Icon.Color))

	var b strings.Builder
	field := func(key, val string) {
		if val == "" {
			return
		}
		fmt.Fprintf(&b, " %s %s\n", keyStyle.Render(text.PadRight(key+":", 10)), valStyle.Render(val))
	}

	status := statusStyle.Render(styles.Glyph(fr.Icon.Icon) + " " + fr.Icon.Tooltip)
	fmt.Fprintf(&b, " %s  %s\n", status, styles.TitleStyle.Render(fr.Operation))
	b.WriteString("\n")

	field("ID", fr.ID)
	field("Model", fr.OpModel)
	field("Started", fr.Started)
	field("Stopped", fr.Stopped)
	field("Time", text.RunDuration(fr.Started, fr.Stopped, o.now()))
	field("Label", fr.Label)
	field("Tags", fr.Tags)
	if fr.IsTerminal() {
		field("Exit", string(fr.ExitStatus))
	}
	field("Run dir", fr.Dir)

	if fr.Command != "" {
		b.WriteString("\n")
		b.WriteString(" " + styles.SectionStyle.Render("Command") + "\n")
		for _, line := range text.WrapText(fr.Command, max(width-3, 10)) {
			b.WriteString("  " + valStyle.Render(line) + "\n")
		}
	}

	if len(fr.Flags) > 0 {
		b.WriteString("\n")
		b.WriteString(" " + styles.SectionStyle.Render("Flags") + "\n")
		for _, name := range sortedKeys(fr.Flags) {
			fmt.Fprintf(&b, "  %s %s\n",
				keyStyle.Render(name+":"),
				valStyle.Render(format.FormatFlagValue(fr.Flags[name])))
		}
	}

	if o.showScalars && len(fr.Scalars) > 0 {
		b.WriteString("\n")
		b.WriteString(" " + styles.SectionStyle.Render("Scalars") + "\n")
		for _, sc := range fr.Scalars {
			tag := sc.Tag
			if sc.Prefix != "" {
				tag = sc.Prefix + "#" + sc.Tag
			}
			step := ""
			if sc.LastStep != nil {
				step = keyStyle.Render(fmt.Sprintf(" (step %d)", *sc.LastStep))
			}
			fmt.Fprintf(&b, "  %s %s%s\n",
				keyStyle.Render(tag+":"),
				valStyle.Render(format.FormatScalar(sc.LastVal)),
				step)
		}
	}

	if len(fr.Deps) > 0 {
		b.WriteString("\n")
		b.WriteString(" " + styles.SectionStyle.Render("Dependencies") + "\n")
		for _, d := range fr.Deps {
			short := d.Run
			if len(short) > 8 {
				short = short[:8]
			}
			fmt.Fprintf(&b, "  %s %s\n", valStyle.Render(d.Operation), keyStyle.Render(short))
			for _, p := range d.Paths {
				b.WriteString("    " + keyStyle.Render(text.TruncateLeft(p, max(width-5, 10))) + "\n")
			}
		}
	}

	if len(fr.Env) > 0 {
		b.WriteString("\n")
		b.WriteString(" " + styles.SectionStyle.Render("Environment") + "\n")
		for _, name := range sortedKeys(fr.Env) {
			fmt.Fprintf(&b, "  %s=%s\n", keyStyle.Render(name), valStyle.Render(fr.Env[name]))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
