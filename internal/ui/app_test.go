package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/justinpbarnett/guildview/internal/run"
	"github.com/justinpbarnett/guildview/internal/viewapi"
)

func newTestApp() (App, *fakeBackend, *clipboardRecorder) {
	b := newFakeBackend()
	clip := &clipboardRecorder{}
	deps := newTestDeps(b, clip)
	return NewApp(NewComponents(deps), deps), b, clip
}

func updateApp(a App, msg tea.Msg) (App, tea.Cmd) {
	m, cmd := a.Update(msg)
	return m.(App), cmd
}

func sendKey(a App, key string) (App, tea.Cmd) {
	return updateApp(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
}

func sendSpecialKey(a App, t tea.KeyType) App {
	a, _ = updateApp(a, tea.KeyMsg{Type: t})
	return a
}

func sendWindowSize(a App, w, h int) App {
	a, _ = updateApp(a, tea.WindowSizeMsg{Width: w, Height: h})
	return a
}

// loadRuns applies a /runs response and the store notification it causes.
func loadRuns(a App, runs []run.Run) (App, tea.Cmd) {
	a, _ = updateApp(a, RunsLoadedMsg{Seq: a.runsSeq, Runs: runs})
	return updateApp(a, RunStoreUpdatedMsg{})
}

// applyAll feeds every message cmd produces back into the app.
func applyAll(a App, cmd tea.Cmd) App {
	for _, msg := range drain(cmd) {
		a, _ = updateApp(a, msg)
	}
	return a
}

func TestAppInitialState(t *testing.T) {
	a, _, _ := newTestApp()
	if a.ready {
		t.Error("expected ready to be false initially")
	}
	if a.focusedPanel != panelRunList {
		t.Errorf("expected focusedPanel 0, got %d", a.focusedPanel)
	}
	if a.helpOverlay != nil {
		t.Error("expected helpOverlay to be nil initially")
	}
	if !a.statusBar.Loading() {
		t.Error("expected the spinner to show until the first run list arrives")
	}
}

func TestAppInitFetchesRunsAndConfig(t *testing.T) {
	a, _, _ := newTestApp()
	msgs := drain(a.Init())

	runs, ok := findMsg[RunsLoadedMsg](msgs)
	if !ok {
		t.Fatal("expected a RunsLoadedMsg from Init")
	}
	if runs.Seq != 1 || len(runs.Runs) != 3 {
		t.Errorf("unexpected runs message: seq=%d runs=%d", runs.Seq, len(runs.Runs))
	}
	if cfg, ok := findMsg[ConfigLoadedMsg](msgs); !ok || cfg.Config.TitleLabel != "slim/resnet" {
		t.Errorf("expected config from Init, got %+v", cfg)
	}
}

func TestAppWindowResize(t *testing.T) {
	a, _, _ := newTestApp()
	a = sendWindowSize(a, 120, 40)

	if !a.ready {
		t.Error("expected ready to be true after WindowSizeMsg")
	}
	if a.width != 120 || a.height != 40 {
		t.Errorf("expected 120x40, got %dx%d", a.width, a.height)
	}
}

func TestAppTooSmall(t *testing.T) {
	a, _, _ := newTestApp()
	a = sendWindowSize(a, 60, 20)
	if !strings.Contains(a.View(), "Terminal too small") {
		t.Error("expected too-small message")
	}
}

func TestAppFocusCycle(t *testing.T) {
	a, _, _ := newTestApp()
	a = sendWindowSize(a, 120, 40)

	for want := 1; want <= numPanels; want++ {
		a = sendSpecialKey(a, tea.KeyTab)
		if a.focusedPanel != want%numPanels {
			t.Errorf("expected focus %d after %d tabs, got %d", want%numPanels, want, a.focusedPanel)
		}
	}

	a = sendSpecialKey(a, tea.KeyShiftTab)
	if a.focusedPanel != panelOutput {
		t.Errorf("expected shift+tab to wrap to output, got %d", a.focusedPanel)
	}
}

func TestAppFocusNumberKeys(t *testing.T) {
	a, _, _ := newTestApp()
	a = sendWindowSize(a, 120, 40)

	for key, want := range map[string]int{"3": panelFiles, "4": panelOutput, "2": panelOverview, "1": panelRunList} {
		a, _ = sendKey(a, key)
		if a.focusedPanel != want {
			t.Errorf("key %s: expected focus %d, got %d", key, want, a.focusedPanel)
		}
	}
}

func TestAppSpatialNavigation(t *testing.T) {
	a, _, _ := newTestApp()
	a = sendWindowSize(a, 120, 40)

	a, _ = sendKey(a, "l")
	if a.focusedPanel != panelOverview {
		t.Errorf("expected l to move right to overview, got %d", a.focusedPanel)
	}
	a, _ = sendKey(a, "l")
	if a.focusedPanel != panelOverview {
		t.Errorf("expected l at the right edge to stay, got %d", a.focusedPanel)
	}
	a, _ = sendKey(a, "h")
	if a.focusedPanel != panelRunList {
		t.Errorf("expected h to move left to runs, got %d", a.focusedPanel)
	}

	a, _ = sendKey(a, "3")
	a, _ = sendKey(a, "l")
	if a.focusedPanel != panelOutput {
		t.Errorf("expected l from files to reach output, got %d", a.focusedPanel)
	}
}

func TestAppFocusStatePropagates(t *testing.T) {
	a, _, _ := newTestApp()
	a = sendWindowSize(a, 120, 40)
	a, _ = sendKey(a, "4")

	if !strings.Contains(ansi.Strip(a.output.View()), "ollow") {
		t.Error("expected output keybinds once focused")
	}
	if strings.Contains(ansi.Strip(a.runList.View()), "ank ID") {
		t.Error("expected run list keybinds hidden when unfocused")
	}
}

func TestAppHelpToggle(t *testing.T) {
	a, _, _ := newTestApp()
	a = sendWindowSize(a, 120, 40)

	a, _ = sendKey(a, "?")
	if a.helpOverlay == nil {
		t.Fatal("expected help overlay after ?")
	}
	if !strings.Contains(a.View(), "Keybinds") {
		t.Error("expected help overlay rendered")
	}

	// keys go to the overlay while it is open
	a, _ = sendKey(a, "3")
	if a.focusedPanel != panelRunList {
		t.Error("expected focus unchanged while help is open")
	}

	a, _ = updateApp(a, CloseModalMsg{})
	if a.helpOverlay != nil {
		t.Error("expected overlay closed")
	}
}

func TestAppQuit(t *testing.T) {
	a, _, _ := newTestApp()
	_, cmd := sendKey(a, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestAppFilterCapturesKeys(t *testing.T) {
	a, _, _ := newTestApp()
	a = sendWindowSize(a, 120, 40)
	a, _ = loadRuns(a, testRuns())

	a, _ = sendKey(a, "/")
	if !a.runList.FilterActive() {
		t.Fatal("expected filter active after /")
	}

	a, cmd := sendKey(a, "q")
	if _, ok := findMsg[tea.QuitMsg](drain(cmd)); ok {
		t.Fatal("expected q typed into the filter, not quit")
	}
	a, _ = sendKey(a, "4")
	if a.focusedPanel != panelRunList {
		t.Error("expected number keys typed into the filter")
	}
}

func TestAppSlashFocusesRunList(t *testing.T) {
	a, _, _ := newTestApp()
	a = sendWindowSize(a, 120, 40)
	a, _ = sendKey(a, "2")

	a, _ = sendKey(a, "/")
	if a.focusedPanel != panelRunList || !a.runList.FilterActive() {
		t.Error("expected / to focus the run list and open the filter")
	}
}

func TestAppRunsLoadedSyncsPanels(t *testing.T) {
	a, _, _ := newTestApp()
	a = sendWindowSize(a, 120, 40)

	a, cmd := loadRuns(a, testRuns())
	if a.statusBar.Loading() {
		t.Error("expected spinner stopped after the run list arrived")
	}
	if len(a.runList.Runs()) != 3 {
		t.Fatalf("expected 3 runs listed, got %d", len(a.runList.Runs()))
	}
	if a.output.RunID() != "e61e0ba2d1c44c3a" {
		t.Errorf("expected output pointed at the first run, got %q", a.output.RunID())
	}

	out, ok := findMsg[OutputLoadedMsg](drain(cmd))
	if !ok {
		t.Fatal("expected an output fetch for the selected run")
	}
	if out.RunID != "e61e0ba2d1c44c3a" || out.Start != 0 || len(out.Lines) != 2 {
		t.Errorf("unexpected output message: %+v", out)
	}

	a, _ = updateApp(a, out)
	view := a.View()
	for _, want := range []string{"resnet:train", "python train.py", "Starting Session."} {
		if !strings.Contains(view, want) {
			t.Errorf("expected dashboard to contain %q", want)
		}
	}
}

func TestAppStaleRunsDropped(t *testing.T) {
	a, _, _ := newTestApp()

	a, _ = sendKey(a, "r")
	if a.runsSeq != 2 {
		t.Fatalf("expected refresh to issue request 2, got %d", a.runsSeq)
	}

	a, _ = updateApp(a, RunsLoadedMsg{Seq: 1, Runs: testRuns()})
	if a.store.Count() != 0 {
		t.Error("expected response to request 1 dropped")
	}
	if !a.statusBar.Loading() {
		t.Error("expected spinner kept while request 2 is pending")
	}

	a, _ = updateApp(a, RunsLoadedMsg{Seq: 2, Runs: testRuns()[:1]})
	if a.store.Count() != 1 {
		t.Errorf("expected latest response applied, got %d runs", a.store.Count())
	}
}

func TestAppRunsErrorKeepsData(t *testing.T) {
	a, _, _ := newTestApp()
	a = sendWindowSize(a, 120, 40)
	a, _ = loadRuns(a, testRuns())

	a, _ = sendKey(a, "r")
	a, cmd := updateApp(a, RunsLoadedMsg{Seq: a.runsSeq, Err: errors.New("connection refused")})
	if cmd == nil {
		t.Error("expected a flash clear timer")
	}
	if a.store.Count() != 3 {
		t.Errorf("expected last good runs kept, got %d", a.store.Count())
	}
	if !strings.Contains(a.statusBar.Flash(), "connection refused") {
		t.Errorf("expected error flash, got %q", a.statusBar.Flash())
	}
}

func TestAppConfigLoaded(t *testing.T) {
	a, b, _ := newTestApp()
	a = sendWindowSize(a, 120, 40)

	a, _ = updateApp(a, ConfigLoadedMsg{Config: b.cfg})
	if !strings.Contains(a.runList.View(), "slim/resnet") {
		t.Error("expected title label in the run list title")
	}
	if !strings.Contains(a.statusBar.View(), "guild 0.9.0") {
		t.Error("expected backend version in the status bar")
	}
	if a.statusBar.Flash() != "" {
		t.Errorf("expected no flash for a compatible backend, got %q", a.statusBar.Flash())
	}
}

func TestAppConfigOldBackendWarns(t *testing.T) {
	a, b, _ := newTestApp()
	a.config.View.MinBackendVersion = "0.7.0"
	b.cfg.Version = "0.6.2"

	a, _ = updateApp(a, ConfigLoadedMsg{Config: b.cfg})
	if !strings.Contains(a.statusBar.Flash(), "too old") {
		t.Errorf("expected backend version warning, got %q", a.statusBar.Flash())
	}
}

func TestAppConfigErrorFlashes(t *testing.T) {
	a, _, _ := newTestApp()
	a, _ = updateApp(a, ConfigLoadedMsg{Err: errors.New("timeout")})
	if !strings.Contains(a.statusBar.Flash(), "Fetching config: timeout") {
		t.Errorf("unexpected flash %q", a.statusBar.Flash())
	}
}

func TestAppOutputForOtherRunDropped(t *testing.T) {
	a, _, _ := newTestApp()
	a, _ = loadRuns(a, testRuns())

	a, _ = updateApp(a, OutputLoadedMsg{RunID: "0df943acf2a611e7", Lines: textLines("stray")})
	if a.output.Received() != 0 {
		t.Error("expected output for an unselected run dropped")
	}
}

func TestAppOutputError(t *testing.T) {
	a, _, _ := newTestApp()
	a = sendWindowSize(a, 120, 40)
	a, _ = loadRuns(a, testRuns())

	a, _ = updateApp(a, OutputLoadedMsg{RunID: a.output.RunID(), Err: errors.New("returned 500")})
	if !strings.Contains(a.View(), "returned 500") {
		t.Error("expected the output error in the output panel")
	}
}

func TestAppSelectionChangeFetchesOutput(t *testing.T) {
	a, b, _ := newTestApp()
	a = sendWindowSize(a, 120, 40)
	a, cmd := loadRuns(a, testRuns())
	a = applyAll(a, cmd)

	a, cmd = sendKey(a, "j")
	if a.output.RunID() != "0df943acf2a611e7" {
		t.Fatalf("expected output to follow the selection, got %q", a.output.RunID())
	}
	a = applyAll(a, cmd)
	if got := a.output.Lines(); len(got) != 1 || got[0].Text != "Wrote 10 MIDI files" {
		t.Errorf("unexpected output lines %+v", got)
	}

	b.mu.Lock()
	calls := len(b.outputCalls)
	b.mu.Unlock()
	if calls != 2 {
		t.Errorf("expected one output fetch per selected run, got %d", calls)
	}
}

func TestAppRefreshTickStreamsRunningOutput(t *testing.T) {
	a, b, _ := newTestApp()
	a = sendWindowSize(a, 120, 40)
	a, cmd := loadRuns(a, testRuns())
	a = applyAll(a, cmd)
	a, cmd = sendKey(a, "G")
	a = applyAll(a, cmd)
	if a.output.Received() != 2 {
		t.Fatalf("expected 2 lines of the running run, got %d", a.output.Received())
	}

	b.mu.Lock()
	b.output["2f64285c91a94d7e"] = textLines("step 1", "step 2", "step 3")
	b.mu.Unlock()

	a, cmd = updateApp(a, RefreshTickMsg{})
	msgs := drain(cmd)
	out, ok := findMsg[OutputLoadedMsg](msgs)
	if !ok || out.Start != 2 {
		t.Fatalf("expected an incremental output fetch from line 2, got %+v", out)
	}
	if runs, ok := findMsg[RunsLoadedMsg](msgs); !ok || runs.Seq != a.runsSeq {
		t.Error("expected the tick to refresh the run list")
	}

	a, _ = updateApp(a, out)
	if a.output.Received() != 3 || a.output.Lines()[2].Text != "step 3" {
		t.Errorf("expected the new line appended, received=%d", a.output.Received())
	}
}

func TestAppRefreshTickSkipsFinishedOutput(t *testing.T) {
	a, _, _ := newTestApp()
	a, cmd := loadRuns(a, testRuns())
	a = applyAll(a, cmd)

	_, cmd = updateApp(a, RefreshTickMsg{})
	if _, ok := findMsg[OutputLoadedMsg](drain(cmd)); ok {
		t.Error("expected no output fetch for a finished run")
	}
}

func TestAppRunFinishingFetchesTail(t *testing.T) {
	a, b, _ := newTestApp()
	a = sendWindowSize(a, 120, 40)
	a, cmd := loadRuns(a, testRuns())
	a = applyAll(a, cmd)
	a, cmd = sendKey(a, "G")
	a = applyAll(a, cmd)

	runs := testRuns()
	runs[2].Status = run.StatusCompleted
	b.mu.Lock()
	b.output["2f64285c91a94d7e"] = textLines("step 1", "step 2", "done")
	b.mu.Unlock()

	a, cmd = loadRuns(a, runs)
	out, ok := findMsg[OutputLoadedMsg](drain(cmd))
	if !ok || out.Start != 2 || len(out.Lines) != 1 {
		t.Fatalf("expected a final fetch of the remaining lines, got %+v", out)
	}
}

func TestAppYankRunID(t *testing.T) {
	a, _, clip := newTestApp()
	a = sendWindowSize(a, 120, 40)
	a, _ = loadRuns(a, testRuns())

	a, cmd := sendKey(a, "y")
	yankMsg, ok := findMsg[YankMsg](drain(cmd))
	if !ok {
		t.Fatal("expected a YankMsg from the run list")
	}

	a, cmd = updateApp(a, yankMsg)
	a = applyAll(a, cmd)
	if clip.last() != "e61e0ba2d1c44c3a" {
		t.Errorf("expected full run ID copied, got %q", clip.last())
	}
	if a.statusBar.Flash() != "Copied run ID" {
		t.Errorf("unexpected flash %q", a.statusBar.Flash())
	}
}

func TestAppYankError(t *testing.T) {
	a, _, clip := newTestApp()
	clip.err = errClipboard

	a, cmd := updateApp(a, YankMsg{Text: "x", What: "path"})
	a = applyAll(a, cmd)
	if !strings.Contains(a.statusBar.Flash(), "Copy failed") {
		t.Errorf("expected copy failure flash, got %q", a.statusBar.Flash())
	}
}

func TestAppClearFlash(t *testing.T) {
	a, _, _ := newTestApp()
	a, _ = updateApp(a, ConfigLoadedMsg{Err: errors.New("x")})
	a, _ = updateApp(a, ClearFlashMsg{})
	if a.statusBar.Flash() != "" {
		t.Error("expected flash cleared")
	}
}

func TestAppOpenFile(t *testing.T) {
	a, _, _ := newTestApp()
	a = sendWindowSize(a, 120, 40)
	a, cmd := loadRuns(a, testRuns())
	a = applyAll(a, cmd)

	a, _ = sendKey(a, "3")
	a, cmd = updateApp(a, tea.KeyMsg{Type: tea.KeyEnter})
	open, ok := findMsg[OpenFileMsg](drain(cmd))
	if !ok || open.File.Path != "checkpoint" {
		t.Fatalf("expected the files panel to open checkpoint, got %+v", open)
	}

	a, cmd = updateApp(a, open)
	if a.fileViewer == nil {
		t.Fatal("expected the file viewer to open")
	}
	if !strings.Contains(ansi.Strip(a.View()), "Loading checkpoint...") {
		t.Error("expected the viewer to show loading first")
	}
	loaded, ok := findMsg[FileLoadedMsg](drain(cmd))
	if !ok || loaded.Err != nil {
		t.Fatalf("expected file content, got %+v", loaded)
	}
	a, _ = updateApp(a, loaded)
	if !strings.Contains(ansi.Strip(a.View()), `model_checkpoint_path: "model.ckpt-1000"`) {
		t.Error("expected file content in the view")
	}

	// q closes the viewer rather than quitting
	a, cmd = sendKey(a, "q")
	msgs := drain(cmd)
	if _, quit := findMsg[tea.QuitMsg](msgs); quit {
		t.Fatal("expected q to close the viewer, not quit")
	}
	closeMsg, ok := findMsg[CloseModalMsg](msgs)
	if !ok {
		t.Fatal("expected q to close the viewer")
	}
	a, _ = updateApp(a, closeMsg)
	if a.fileViewer != nil {
		t.Error("expected the viewer closed")
	}
}

func TestAppOpenFileWithoutViewer(t *testing.T) {
	a, _, _ := newTestApp()
	a = sendWindowSize(a, 120, 40)
	a, _ = loadRuns(a, testRuns())

	a, cmd := updateApp(a, OpenFileMsg{RunID: "e61e0ba2d1c44c3a", File: testRuns()[0].Files[1]})
	if a.fileViewer != nil {
		t.Error("expected no viewer for an event log")
	}
	if cmd == nil || a.statusBar.Flash() != "No text view for Event log" {
		t.Errorf("unexpected flash %q", a.statusBar.Flash())
	}
}

func TestAppFileErrorAndStaleResult(t *testing.T) {
	a, _, _ := newTestApp()
	a = sendWindowSize(a, 120, 40)

	missing := run.File{Path: "missing.txt", Viewer: "text"}
	a, cmd := updateApp(a, OpenFileMsg{RunID: "e61e0ba2d1c44c3a", File: missing})
	loaded, ok := findMsg[FileLoadedMsg](drain(cmd))
	if !ok || !viewapi.IsNotFound(loaded.Err) {
		t.Fatalf("expected a not found error, got %+v", loaded)
	}

	a, _ = updateApp(a, FileLoadedMsg{RunID: "e61e0ba2d1c44c3a", Path: "other.txt", Content: viewapi.FileContent{Data: []byte("stale")}})
	if strings.Contains(ansi.Strip(a.View()), "stale") {
		t.Error("expected content for another file to be dropped")
	}

	a, _ = updateApp(a, loaded)
	if !strings.Contains(ansi.Strip(a.View()), "Error:") {
		t.Error("expected the error in the viewer")
	}

	a, _ = updateApp(a, CloseModalMsg{})
	a, _ = updateApp(a, loaded)
	if a.fileViewer != nil {
		t.Error("expected a late result not to reopen the viewer")
	}
}

func TestAppRefreshTickUsesStoreStatus(t *testing.T) {
	a, _, _ := newTestApp()
	a = sendWindowSize(a, 120, 40)
	a, cmd := loadRuns(a, testRuns())
	a = applyAll(a, cmd)
	a, cmd = sendKey(a, "G")
	a = applyAll(a, cmd)

	// the store no longer has the output run
	a.store.Replace(testRuns()[:2])
	_, cmd = updateApp(a, RefreshTickMsg{})
	if _, ok := findMsg[OutputLoadedMsg](drain(cmd)); ok {
		t.Error("expected no output fetch for a run missing from the store")
	}
}
