// Package selection implements line-wise copy mode for scrollable panels:
// an anchor and a cursor over a list of lines, moved with vim keys and
// yanked as text.
package selection

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const gTimeout = 500 * time.Millisecond

// LinesProvider abstracts over the line sources of the panels that
// support copy mode.
type LinesProvider interface {
	Lines() []string
}

// Lines adapts a plain slice to LinesProvider.
type Lines []string

func (l Lines) Lines() []string { return l }

type Selection struct {
	active bool
	anchor int
	cursor int
}

// Active returns true if copy mode is on.
func (s *Selection) Active() bool { return s.active }

// Reset leaves copy mode.
func (s *Selection) Reset() { *s = Selection{} }

// Enter activates copy mode anchored at the last visible line, which is
// the newest output while following. Does nothing if lines is empty.
func (s *Selection) Enter(lines LinesProvider, viewportYOffset, viewportHeight int) {
	all := lines.Lines()
	if len(all) == 0 {
		return
	}
	line := viewportYOffset + viewportHeight - 1
	line = min(max(line, 0), len(all)-1)
	s.active = true
	s.anchor = line
	s.cursor = line
}

// Update handles keyboard input during copy mode. It returns yankText
// when "y" is pressed; the caller turns it into a clipboard write.
// gPending is the caller's double-tap flag and gTimerMsg is sent when the
// "gg" window closes.
func (s *Selection) Update(
	msg tea.KeyMsg,
	lines LinesProvider,
	vp *viewport.Model,
	gPending *bool,
	gTimerMsg tea.Msg,
) (yankText string, cmd tea.Cmd) {
	lineCount := len(lines.Lines())
	if msg.String() != "g" {
		*gPending = false
	}
	switch msg.String() {
	case "esc", "v":
		s.active = false
	case "y":
		yankText = s.Yank(lines)
		s.active = false
	case "j", "down":
		if s.cursor < lineCount-1 {
			s.cursor++
			if s.cursor >= vp.YOffset+vp.Height {
				vp.SetYOffset(s.cursor - vp.Height + 1)
			}
		}
	case "k", "up":
		if s.cursor > 0 {
			s.cursor--
			if s.cursor < vp.YOffset {
				vp.SetYOffset(s.cursor)
			}
		}
	case "G":
		s.cursor = max(lineCount-1, 0)
		vp.GotoBottom()
	case "g":
		if *gPending {
			*gPending = false
			s.cursor = 0
			vp.GotoTop()
		} else {
			*gPending = true
			timerMsg := gTimerMsg
			cmd = tea.Tick(gTimeout, func(time.Time) tea.Msg {
				return timerMsg
			})
		}
	}
	return
}

// Yank returns the selected lines joined by newlines.
func (s *Selection) Yank(lines LinesProvider) string {
	all := lines.Lines()
	if len(all) == 0 {
		return ""
	}
	start, end := s.Range()
	start = max(start, 0)
	end = min(end, len(all)-1)
	if start > end {
		return ""
	}
	return strings.Join(all[start:end+1], "\n")
}

// Range returns normalized (start <= end) line indices of the selection.
func (s *Selection) Range() (start, end int) {
	start, end = s.anchor, s.cursor
	if start > end {
		start, end = end, start
	}
	return
}

// Contains reports whether line i is selected.
func (s *Selection) Contains(i int) bool {
	if !s.active {
		return false
	}
	start, end := s.Range()
	return i >= start && i <= end
}

// Shift moves the selection up by n lines after the n oldest lines were
// dropped from the buffer. Copy mode ends if the cursor falls off the top.
func (s *Selection) Shift(n int) {
	if !s.active || n <= 0 {
		return
	}
	s.anchor = max(s.anchor-n, 0)
	s.cursor -= n
	if s.cursor < 0 {
		s.Reset()
	}
}
