package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/justinpbarnett/guildview/internal/config"
	"github.com/justinpbarnett/guildview/internal/run"
	"github.com/justinpbarnett/guildview/internal/ui/clipboard"
	"github.com/justinpbarnett/guildview/internal/ui/layout"
	"github.com/justinpbarnett/guildview/internal/ui/panels"
	"github.com/justinpbarnett/guildview/internal/ui/styles"
	"github.com/justinpbarnett/guildview/internal/update"
)

const (
	panelRunList  = 0
	panelOverview = 1
	panelFiles    = 2
	panelOutput   = 3
	numPanels     = 4

	// maxFileBytes caps how much of a file the viewer downloads.
	maxFileBytes = 256 << 10
)

type App struct {
	backend      Backend
	clipboard    clipboard.Writer
	config       *config.Config
	logger       zerolog.Logger
	store        *run.Store
	width        int
	height       int
	layout       layout.Layout
	focusedPanel int
	runList      panels.RunList
	overview     panels.Overview
	files        panels.Files
	output       panels.Output
	statusBar    panels.StatusBar
	helpOverlay  *panels.HelpOverlay
	fileViewer   *panels.FileViewer
	keys         KeyMap
	ready        bool

	// runsSeq numbers /runs requests; responses from older ones are dropped.
	runsSeq int
	// outputDone records that the output run was terminal at its last fetch.
	outputDone bool
}

func NewApp(c Components, deps Deps) App {
	cfg := deps.Config
	if cfg == nil {
		def := config.DefaultConfig()
		cfg = &def
	}

	a := App{
		backend:   deps.Backend,
		clipboard: deps.Clipboard,
		config:    cfg,
		logger:    deps.Logger,
		store:     c.Store,
		runList:   c.RunList,
		overview:  c.Overview,
		files:     c.Files,
		output:    c.Output,
		statusBar: c.StatusBar,
		keys:      DefaultKeyMap(),
		runsSeq:   1,
	}
	a.statusBar.SetLoading(true)
	a.updateFocusState()
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		fetchConfig(a.backend, a.config.View.RequestTimeout()),
		fetchRuns(a.backend, a.config.View.Route, a.config.View.RequestTimeout(), a.runsSeq),
		refreshTick(a.config.View.Refresh()),
		listenForChanges(a.store.Changes()),
		a.statusBar.SpinnerTick(),
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.layout = layout.Calculate(msg.Width, msg.Height)
		a.propagateSizes()
		if a.fileViewer != nil {
			a.fileViewer.SetSize(a.viewerSize())
		}
		return a, nil

	case CloseModalMsg:
		a.helpOverlay = nil
		a.fileViewer = nil
		return a, nil

	case RunsLoadedMsg:
		if msg.Seq != a.runsSeq {
			a.logger.Debug().Int("seq", msg.Seq).Int("latest", a.runsSeq).Msg("dropping stale run list")
			return a, nil
		}
		a.statusBar.SetLoading(false)
		if msg.Err != nil {
			a.logger.Warn().Err(msg.Err).Msg("fetching runs failed")
			return a, a.flash("Fetching runs: "+msg.Err.Error(), panels.FlashError)
		}
		a.store.Replace(msg.Runs)
		return a, nil

	case RunStoreUpdatedMsg:
		var cmd tea.Cmd
		a.runList, cmd = a.runList.Update(msg)
		return a, tea.Batch(cmd, a.syncSelection(), listenForChanges(a.store.Changes()))

	case ConfigLoadedMsg:
		if msg.Err != nil {
			a.logger.Warn().Err(msg.Err).Msg("fetching backend config failed")
			return a, a.flash("Fetching config: "+msg.Err.Error(), panels.FlashWarning)
		}
		a.runList.SetTitle(msg.Config.TitleLabel)
		a.statusBar.SetBackend(msg.Config.TitleLabel, msg.Config.Version)
		if err := update.CheckBackendVersion(msg.Config.Version, a.config.View.MinBackendVersion); err != nil {
			a.logger.Warn().Err(err).Str("backend", msg.Config.Version).Msg("backend version check failed")
			return a, a.flash(err.Error(), panels.FlashWarning)
		}
		return a, nil

	case OutputLoadedMsg:
		if msg.RunID != a.output.RunID() {
			return a, nil
		}
		if msg.Err != nil {
			a.logger.Warn().Err(msg.Err).Str("run", msg.RunID).Msg("fetching output failed")
			a.output.SetError(msg.Err)
			return a, nil
		}
		a.output.AddLines(msg.Start, msg.Lines)
		return a, nil

	case OpenFileMsg:
		if !msg.File.Viewable() {
			kind := msg.File.Type
			if kind == "" {
				kind = msg.File.Path
			}
			return a, a.flash("No text view for "+kind, panels.FlashWarning)
		}
		w, h := a.viewerSize()
		a.fileViewer = panels.NewFileViewer(msg.RunID, msg.File, w, h)
		return a, fetchFile(a.backend, a.config.View.RequestTimeout(), msg.RunID, msg.File.Path, maxFileBytes)

	case FileLoadedMsg:
		if a.fileViewer == nil || !a.fileViewer.Showing(msg.RunID, msg.Path) {
			return a, nil
		}
		if msg.Err != nil {
			a.logger.Warn().Err(msg.Err).Str("run", msg.RunID).Str("path", msg.Path).Msg("fetching file failed")
			a.fileViewer.SetError(msg.Err)
			return a, nil
		}
		a.fileViewer.SetContent(msg.Content.Data, msg.Content.Truncated)
		return a, nil

	case RefreshTickMsg:
		cmds := []tea.Cmd{a.refreshRuns(), refreshTick(a.config.View.Refresh())}
		if r, ok := a.store.Get(a.output.RunID()); ok && !r.IsTerminal() {
			cmds = append(cmds, a.fetchOutput(r.ID, a.output.Received()))
		}
		return a, tea.Batch(cmds...)

	case YankMsg:
		return a, yank(a.clipboard, msg)

	case yankDoneMsg:
		if msg.err != nil {
			a.logger.Warn().Err(msg.err).Msg("clipboard write failed")
			return a, a.flash("Copy failed: "+msg.err.Error(), panels.FlashError)
		}
		return a, a.flash("Copied "+msg.what, panels.FlashSuccess)

	case ClearFlashMsg:
		a.statusBar.ClearFlash()
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.statusBar, cmd = a.statusBar.Update(msg)
		return a, cmd

	case panels.GTimerExpiredMsg:
		a.runList, _ = a.runList.Update(msg)
		a.overview, _ = a.overview.Update(msg)
		a.files, _ = a.files.Update(msg)
		a.output, _ = a.output.Update(msg)
		if a.fileViewer != nil {
			*a.fileViewer, _ = a.fileViewer.Update(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if a.helpOverlay != nil {
			var cmd tea.Cmd
			*a.helpOverlay, cmd = a.helpOverlay.Update(msg)
			return a, cmd
		}

		if key.Matches(msg, a.keys.ForceQuit) {
			return a, tea.Quit
		}
		if a.fileViewer != nil {
			var cmd tea.Cmd
			*a.fileViewer, cmd = a.fileViewer.Update(msg)
			return a, cmd
		}
		// Text entry and copy mode own the keyboard until they close.
		if a.focusedPanel == panelRunList && a.runList.FilterActive() {
			return a.routeKey(msg)
		}
		if a.focusedPanel == panelOutput && a.output.Selecting() {
			return a.routeKey(msg)
		}

		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keys.FocusNext):
			a.focus((a.focusedPanel + 1) % numPanels)
			return a, nil
		case key.Matches(msg, a.keys.FocusPrev):
			a.focus((a.focusedPanel + numPanels - 1) % numPanels)
			return a, nil
		case key.Matches(msg, a.keys.Left):
			// Spatial: move to the left column of the same row
			if a.focusedPanel == panelOverview || a.focusedPanel == panelOutput {
				a.focus(a.focusedPanel - 1)
			}
			return a, nil
		case key.Matches(msg, a.keys.Right):
			if a.focusedPanel == panelRunList || a.focusedPanel == panelFiles {
				a.focus(a.focusedPanel + 1)
			}
			return a, nil
		case key.Matches(msg, a.keys.Help):
			if a.helpOverlay == nil {
				a.helpOverlay = panels.NewHelpOverlay()
			} else {
				a.helpOverlay = nil
			}
			return a, nil
		case key.Matches(msg, a.keys.Refresh):
			return a, a.refreshAll()
		case msg.String() == "/":
			a.focus(panelRunList)
			return a.routeKey(msg)
		}
		for i, b := range a.keys.Focus {
			if key.Matches(msg, b) {
				a.focus(i)
				return a, nil
			}
		}

		return a.routeKey(msg)
	}
	return a, nil
}

func (a App) View() string {
	if !a.ready {
		return lipgloss.Place(a.width, a.height,
			lipgloss.Center, lipgloss.Center, "Loading...")
	}

	if a.layout.TooSmall {
		msg := fmt.Sprintf("Terminal too small (%d×%d)\nMinimum: %d×%d",
			a.width, a.height, layout.MinWidth, layout.MinHeight)
		return lipgloss.Place(a.width, a.height,
			lipgloss.Center, lipgloss.Center, msg)
	}

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, a.runList.View(), a.overview.View())
	bottomRow := lipgloss.JoinHorizontal(lipgloss.Top, a.files.View(), a.output.View())
	fullLayout := lipgloss.JoinVertical(lipgloss.Left, topRow, bottomRow, a.statusBar.View())

	if a.fileViewer != nil {
		fullLayout = lipgloss.Place(a.width, a.height,
			lipgloss.Center, lipgloss.Center, a.fileViewer.View(),
			lipgloss.WithWhitespaceChars(" "),
			lipgloss.WithWhitespaceForeground(styles.TextDim),
		)
	}

	if a.helpOverlay != nil {
		fullLayout = lipgloss.Place(a.width, a.height,
			lipgloss.Center, lipgloss.Center, a.helpOverlay.View(),
			lipgloss.WithWhitespaceChars(" "),
			lipgloss.WithWhitespaceForeground(styles.TextDim),
		)
	}

	return fullLayout
}

// Store exposes the run store the dashboard renders.
func (a App) Store() *run.Store {
	return a.store
}

func (a App) routeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.focusedPanel {
	case panelRunList:
		a.runList, cmd = a.runList.Update(msg)
		return a, tea.Batch(cmd, a.syncSelection())
	case panelOverview:
		a.overview, cmd = a.overview.Update(msg)
	case panelFiles:
		a.files, cmd = a.files.Update(msg)
	case panelOutput:
		a.output, cmd = a.output.Update(msg)
	}
	return a, cmd
}

// syncSelection points the detail panels at the selected run. It returns
// the output fetch due when the run changed, or when it just finished and
// its last lines are still to be read.
func (a *App) syncSelection() tea.Cmd {
	selected := a.runList.SelectedRun()
	a.overview.SetRun(selected)
	if selected == nil {
		a.files.SetRun(nil)
		a.output.SetRun("")
		return nil
	}
	a.files.SetRun(&selected.Run)

	wasDone := a.outputDone
	a.outputDone = selected.IsTerminal()
	if a.output.SetRun(selected.ID) {
		return a.fetchOutput(selected.ID, 0)
	}
	if !wasDone && a.outputDone {
		return a.fetchOutput(selected.ID, a.output.Received())
	}
	return nil
}

func (a *App) refreshRuns() tea.Cmd {
	a.runsSeq++
	return tea.Batch(
		a.statusBar.SetLoading(true),
		fetchRuns(a.backend, a.config.View.Route, a.config.View.RequestTimeout(), a.runsSeq),
	)
}

// refreshAll is the manual refresh: runs, backend config and the
// selected run's output.
func (a *App) refreshAll() tea.Cmd {
	cmds := []tea.Cmd{a.refreshRuns(), fetchConfig(a.backend, a.config.View.RequestTimeout())}
	if id := a.output.RunID(); id != "" {
		cmds = append(cmds, a.fetchOutput(id, a.output.Received()))
	}
	return tea.Batch(cmds...)
}

func (a *App) fetchOutput(runID string, start int) tea.Cmd {
	return fetchOutput(a.backend, a.config.View.RequestTimeout(), runID, start)
}

func (a *App) flash(msg string, level panels.FlashLevel) tea.Cmd {
	a.statusBar.SetFlashWithLevel(msg, level)
	return clearFlashAfter()
}

// viewerSize leaves a margin around the file viewer modal.
func (a *App) viewerSize() (int, int) {
	return max(a.width-8, 20), max(a.height-4, 6)
}

func (a *App) focus(panel int) {
	a.focusedPanel = panel
	a.updateFocusState()
}

func (a *App) propagateSizes() {
	l := a.layout
	a.runList.SetSize(l.RunList.Width, l.RunList.Height)
	a.overview.SetSize(l.Overview.Width, l.Overview.Height)
	a.files.SetSize(l.Files.Width, l.Files.Height)
	a.output.SetSize(l.Output.Width, l.Output.Height)
	a.statusBar.SetSize(l.StatusBarWidth)
}

func (a *App) updateFocusState() {
	a.runList.SetFocused(a.focusedPanel == panelRunList)
	a.overview.SetFocused(a.focusedPanel == panelOverview)
	a.files.SetFocused(a.focusedPanel == panelFiles)
	a.output.SetFocused(a.focusedPanel == panelOutput)
}
