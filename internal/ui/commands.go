package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/justinpbarnett/guildview/internal/ui/clipboard"
	"github.com/justinpbarnett/guildview/internal/ui/panels"
)

func fetchRuns(b Backend, route string, timeout time.Duration, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		runs, err := b.Runs(ctx, route)
		return RunsLoadedMsg{Seq: seq, Runs: runs, Err: err}
	}
}

func fetchConfig(b Backend, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		cfg, err := b.Config(ctx)
		return ConfigLoadedMsg{Config: cfg, Err: err}
	}
}

// fetchOutput reads runID's output from line start to the end.
func fetchOutput(b Backend, timeout time.Duration, runID string, start int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		lines, err := b.Output(ctx, runID, start, -1)
		return OutputLoadedMsg{RunID: runID, Start: start, Lines: lines, Err: err}
	}
}

// fetchFile reads at most limit bytes of a run file for the viewer.
func fetchFile(b Backend, timeout time.Duration, runID, path string, limit int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		content, err := b.File(ctx, runID, path, limit)
		return FileLoadedMsg{RunID: runID, Path: path, Content: content, Err: err}
	}
}

// refreshTick returns nil when auto refresh is disabled.
func refreshTick(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return RefreshTickMsg{}
	})
}

func listenForChanges(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return RunStoreUpdatedMsg{}
	}
}

func clearFlashAfter() tea.Cmd {
	return tea.Tick(panels.FlashDuration(), func(time.Time) tea.Msg {
		return ClearFlashMsg{}
	})
}

func yank(w clipboard.Writer, msg YankMsg) tea.Cmd {
	return func() tea.Msg {
		if w == nil {
			w = clipboard.System
		}
		return yankDoneMsg{what: msg.What, err: w(msg.Text)}
	}
}

func requestContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}
