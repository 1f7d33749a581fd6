package panels

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/justinpbarnett/guildview/internal/run"
)

// panelAdapter wraps panel types that use typed Update signatures into
// a proper tea.Model so they can be used with teatest.
type panelAdapter struct {
	view     func() string
	updateFn func(tea.Msg) tea.Cmd
}

func (a panelAdapter) Init() tea.Cmd                           { return nil }
func (a panelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) { return a, a.updateFn(msg) }
func (a panelAdapter) View() string                            { return a.view() }

func wrapRunList(rl *RunList) tea.Model {
	return panelAdapter{
		view: func() string { return rl.View() },
		updateFn: func(msg tea.Msg) tea.Cmd {
			newRL, cmd := rl.Update(msg)
			*rl = newRL
			return cmd
		},
	}
}

// addLinesMsg delivers an output chunk on the program goroutine.
type addLinesMsg struct {
	start int
	lines []run.OutputLine
}

func wrapOutput(o *Output) tea.Model {
	return panelAdapter{
		view: func() string { return o.View() },
		updateFn: func(msg tea.Msg) tea.Cmd {
			if m, ok := msg.(addLinesMsg); ok {
				o.AddLines(m.start, m.lines)
				return nil
			}
			newO, cmd := o.Update(msg)
			*o = newO
			return cmd
		},
	}
}

func wrapHelpOverlay(h *HelpOverlay) tea.Model {
	return panelAdapter{
		view: func() string { return h.View() },
		updateFn: func(msg tea.Msg) tea.Cmd {
			newH, cmd := h.Update(msg)
			*h = newH
			return cmd
		},
	}
}

// waitDuration is the standard timeout for WaitFor calls in tests.
const waitDuration = 3 * time.Second

// waitForContains waits until the output contains the given substring.
func waitForContains(tb testing.TB, tm *teatest.TestModel, substr string) {
	tb.Helper()
	teatest.WaitFor(
		tb,
		tm.Output(),
		func(bts []byte) bool { return bytes.Contains(bts, []byte(substr)) },
		teatest.WithDuration(waitDuration),
	)
}

func keyMsg(s string) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func int64Ptr(n int64) *int64 { return &n }

// testRuns mirrors what a Guild View backend returns for a small project:
// one run per known status plus one the dashboard has never heard of.
func testRuns() []run.Run {
	return []run.Run{
		{
			ID: "e61e0ba2f2a611e7b4cac85b76c2f2f6", ShortID: "e61e0ba2",
			Operation: "slim-resnet:train", OpModel: "slim-resnet",
			Started: "2017-12-05 19:12:57", Stopped: "2017-12-05 19:14:02",
			Status: run.StatusError, ExitStatus: "1", Label: "lr=0.1",
			Command: "/usr/bin/python -um guild.op_main train --learning-rate 0.1",
			Flags:   map[string]any{"learning-rate": 0.1, "batch-size": float64(32), "pretrained": true},
			Env:     map[string]string{"CUDA_VISIBLE_DEVICES": "0"},
			Deps: []run.Dep{
				{Run: "0df943acf2a611e7", Operation: "slim-resnet:prepare", Paths: []string{"data/train.tfrecord"}},
			},
			Scalars: []run.ScalarSummary{
				{Tag: "loss", LastVal: run.ScalarOf(0.0123456), LastStep: int64Ptr(400)},
			},
			Files: []run.File{
				{Path: "model/checkpoint", Size: int64Ptr(85), Type: "file", Icon: "file", IconTooltip: "File"},
				{Path: "data/train.tfrecord", Size: int64Ptr(7200000), Type: "link", Icon: "file-export", IconTooltip: "Link"},
				{Path: "plots", Type: "directory", Icon: "folder", IconTooltip: "Directory"},
			},
		},
		{ID: "0df943acf2a611e7b4cac85b76c2f2f6", ShortID: "0df943ac", Operation: "slim-resnet:prepare", Started: "2017-12-05 19:10:01", Stopped: "2017-12-05 19:11:30", Status: run.StatusCompleted, ExitStatus: "0"},
		{ID: "39d61334f2a611e7b4cac85b76c2f2f6", ShortID: "39d61334", Operation: "mnist:train", Started: "2017-12-05 18:00:00", Stopped: "2017-12-05 18:20:00", Status: run.StatusTerminated, Label: "baseline"},
		{ID: "2f64285cf2a611e7b4cac85b76c2f2f6", ShortID: "2f64285c", Operation: "mnist:evaluate", Started: "2017-12-05 19:20:00", Status: run.StatusRunning},
		{ID: "9a0c11d0f2a611e7b4cac85b76c2f2f6", ShortID: "9a0c11d0", Operation: "mnist:serve", Status: "paused"},
	}
}

func testStore() *run.Store {
	s := run.NewStore()
	s.Replace(testRuns())
	return s
}
