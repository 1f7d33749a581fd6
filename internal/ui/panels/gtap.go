package panels

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const gTimeout = 500 * time.Millisecond

// GTimerExpiredMsg is sent when a double-tap "gg" window expires.
// ID identifies which panel's timer fired.
type GTimerExpiredMsg struct{ ID int }

// Unique panel IDs for double-tap timer disambiguation.
const (
	gTapIDRunList  = 1
	gTapIDOverview = 2
	gTapIDFiles    = 3
	gTapIDOutput   = 4
	gTapIDViewer   = 5
)

// DoubleTap tracks state for the "gg" double-tap navigation pattern.
type DoubleTap struct {
	Pending bool
	id      int
}

func NewDoubleTap(id int) DoubleTap {
	return DoubleTap{id: id}
}

// Check handles a "g" keypress. It reports fired on the second tap, and
// otherwise returns the cmd that closes the window after gTimeout.
func (dt *DoubleTap) Check() (fired bool, cmd tea.Cmd) {
	if dt.Pending {
		dt.Pending = false
		return true, nil
	}
	dt.Pending = true
	id := dt.id
	return false, tea.Tick(gTimeout, func(time.Time) tea.Msg {
		return GTimerExpiredMsg{ID: id}
	})
}

// Reset cancels a pending first tap, e.g. when another key is pressed.
func (dt *DoubleTap) Reset() {
	dt.Pending = false
}

// HandleExpiry clears Pending if the expired message belongs to this panel.
// Returns true if the message was consumed.
func (dt *DoubleTap) HandleExpiry(msg GTimerExpiredMsg) bool {
	if msg.ID == dt.id {
		dt.Pending = false
		return true
	}
	return false
}
