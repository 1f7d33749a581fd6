package panels

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/justinpbarnett/guildview/internal/run"
)

func TestRunListNavigation(t *testing.T) {
	rl := NewRunList(testStore())
	rl.SetSize(80, 20)

	if rl.selected != 0 {
		t.Errorf("expected initial selection 0, got %d", rl.selected)
	}

	rl, _ = rl.Update(keyMsg("j"))
	if rl.selected != 1 {
		t.Errorf("expected selection 1 after j, got %d", rl.selected)
	}

	rl, _ = rl.Update(keyMsg("k"))
	if rl.selected != 0 {
		t.Errorf("expected selection 0 after k, got %d", rl.selected)
	}
}

func TestRunListBounds(t *testing.T) {
	rl := NewRunList(testStore())
	rl.SetSize(80, 20)

	rl, _ = rl.Update(keyMsg("k"))
	if rl.selected != 0 {
		t.Errorf("expected selection clamped at 0, got %d", rl.selected)
	}

	for i := 0; i < 10; i++ {
		rl, _ = rl.Update(keyMsg("j"))
	}
	if rl.selected != len(rl.filtered)-1 {
		t.Errorf("expected selection clamped at %d, got %d", len(rl.filtered)-1, rl.selected)
	}
}

func TestRunListJumpTopAndBottom(t *testing.T) {
	rl := NewRunList(testStore())
	rl.SetSize(80, 20)

	rl, _ = rl.Update(keyMsg("G"))
	if rl.selected != 4 {
		t.Errorf("expected selection at last, got %d", rl.selected)
	}

	rl, cmd := rl.Update(keyMsg("g"))
	if cmd == nil {
		t.Error("expected first g to start the double-tap timer")
	}
	rl, _ = rl.Update(keyMsg("g"))
	if rl.selected != 0 {
		t.Errorf("expected selection at 0 after gg, got %d", rl.selected)
	}
}

func TestRunListSingleGExpires(t *testing.T) {
	rl := NewRunList(testStore())
	rl.SetSize(80, 20)

	rl, _ = rl.Update(keyMsg("G"))
	rl, _ = rl.Update(keyMsg("g"))
	rl, _ = rl.Update(GTimerExpiredMsg{ID: gTapIDRunList})
	rl, _ = rl.Update(keyMsg("g"))
	if rl.selected != 4 {
		t.Errorf("expected expired g to not jump, got %d", rl.selected)
	}
}

func TestRunListView(t *testing.T) {
	rl := NewRunList(testStore())
	rl.SetSize(80, 20)
	rl.SetTitle("slim/resnet")
	view := ansi.Strip(rl.View())

	for _, want := range []string{
		"Runs: slim/resnet",
		"ID", "STATUS", "OPERATION",
		"e61e0ba2", "Failed", "Completed", "Terminated", "Running", "paused",
		"✖", "✔", "⊗", "⋯",
		"1/5",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestRunListSelectedRun(t *testing.T) {
	rl := NewRunList(testStore())
	rl.SetSize(80, 20)

	r := rl.SelectedRun()
	if r == nil {
		t.Fatal("expected non-nil selected run")
	}
	if r.ShortID != "e61e0ba2" || r.Icon.Tooltip != "Failed" {
		t.Errorf("expected the first backend run, got %s/%s", r.ShortID, r.Icon.Tooltip)
	}

	rl, _ = rl.Update(keyMsg("j"))
	if r := rl.SelectedRun(); r.ShortID != "0df943ac" {
		t.Errorf("expected 0df943ac, got %s", r.ShortID)
	}
}

func TestRunListEmpty(t *testing.T) {
	rl := NewRunList(run.NewStore())
	rl.SetSize(80, 20)

	if rl.SelectedRun() != nil {
		t.Error("expected nil selected run for empty store")
	}
	if !strings.Contains(rl.View(), "Loading runs") {
		t.Error("expected loading message before the first fetch")
	}

	rl, _ = rl.Update(RunStoreUpdatedMsg{})
	if !strings.Contains(rl.View(), "No runs.") {
		t.Error("expected empty message after a fetch returned nothing")
	}
}

func TestRunListFilter(t *testing.T) {
	rl := NewRunList(testStore())
	rl.SetSize(80, 20)

	rl, _ = rl.Update(keyMsg("/"))
	if !rl.FilterActive() {
		t.Fatal("expected filter to be active after /")
	}
	for _, r := range "mnist" {
		rl, _ = rl.Update(keyMsg(string(r)))
	}
	if len(rl.filtered) != 3 {
		t.Fatalf("expected 3 mnist runs, got %d", len(rl.filtered))
	}

	rl, _ = rl.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if rl.FilterActive() {
		t.Error("expected filter input closed after enter")
	}
	if len(rl.filtered) != 3 {
		t.Error("expected filter kept after enter")
	}
	if !strings.Contains(ansi.Strip(rl.View()), "1/3 of 5") {
		t.Error("expected filtered badge")
	}

	rl, _ = rl.Update(keyMsg("/"))
	rl, _ = rl.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if len(rl.filtered) != 5 {
		t.Errorf("expected esc to clear the filter, got %d runs", len(rl.filtered))
	}
}

func TestRunListFilterMatchesFields(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"e61e0ba2", 1},    // id
		{"failed", 1},      // tooltip
		{"terminated", 1},  // status
		{"baseline", 1},    // label
		{"slim-resnet", 2}, // operation
		{"no-such-run", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rl := NewRunList(testStore())
			rl.SetSize(80, 20)
			rl.filterText = tt.query
			rl.applyFilter()
			if len(rl.filtered) != tt.want {
				t.Errorf("filter %q matched %d runs, want %d", tt.query, len(rl.filtered), tt.want)
			}
		})
	}
}

func TestRunListKeepsSelectionAcrossRefresh(t *testing.T) {
	s := testStore()
	rl := NewRunList(s)
	rl.SetSize(80, 20)

	rl, _ = rl.Update(keyMsg("j"))
	rl, _ = rl.Update(keyMsg("j"))
	if rl.SelectedRun().ShortID != "39d61334" {
		t.Fatalf("setup: expected 39d61334 selected")
	}

	// a new run appears at the top
	runs := append([]run.Run{{ID: "ffff0000", ShortID: "ffff0000", Status: run.StatusRunning}}, testRuns()...)
	s.Replace(runs)
	rl, _ = rl.Update(RunStoreUpdatedMsg{})

	if got := rl.SelectedRun().ShortID; got != "39d61334" {
		t.Errorf("expected selection to follow the run, got %s", got)
	}
}

func TestRunListSelectionClampedWhenRunDisappears(t *testing.T) {
	s := testStore()
	rl := NewRunList(s)
	rl.SetSize(80, 20)
	rl, _ = rl.Update(keyMsg("G"))

	s.Replace(testRuns()[:2])
	rl, _ = rl.Update(RunStoreUpdatedMsg{})

	if rl.selected != 1 {
		t.Errorf("expected selection clamped to 1, got %d", rl.selected)
	}
}

func TestRunListYank(t *testing.T) {
	rl := NewRunList(testStore())
	rl.SetSize(80, 20)

	_, cmd := rl.Update(keyMsg("y"))
	if cmd == nil {
		t.Fatal("expected yank command")
	}
	msg, ok := cmd().(YankMsg)
	if !ok {
		t.Fatal("expected YankMsg")
	}
	if msg.Text != "e61e0ba2f2a611e7b4cac85b76c2f2f6" {
		t.Errorf("expected full run ID yanked, got %q", msg.Text)
	}
}

func TestRunListScrolls(t *testing.T) {
	rl := NewRunList(testStore())
	rl.SetSize(80, 6) // room for the header and two rows

	rl, _ = rl.Update(keyMsg("G"))
	if rl.offset == 0 {
		t.Error("expected list to scroll to the last run")
	}
	if !strings.Contains(rl.View(), "9a0c11d0") {
		t.Error("expected last run visible after G")
	}
	if !strings.Contains(rl.View(), "▲") {
		t.Error("expected scroll-up indicator")
	}
}
