package ui

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/rs/zerolog"

	"github.com/justinpbarnett/guildview/internal/config"
	"github.com/justinpbarnett/guildview/internal/run"
	"github.com/justinpbarnett/guildview/internal/viewapi"
)

const waitDuration = 3 * time.Second

type outputCall struct {
	runID string
	start int
}

// fakeBackend serves fixed data and records output requests.
type fakeBackend struct {
	mu          sync.Mutex
	runs        []run.Run
	runsErr     error
	cfg         viewapi.ViewConfig
	cfgErr      error
	output      map[string][]run.OutputLine
	outputCalls []outputCall
	files       map[string]string
}

func (f *fakeBackend) Runs(ctx context.Context, route string) ([]run.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.runsErr != nil {
		return nil, f.runsErr
	}
	return append([]run.Run(nil), f.runs...), nil
}

func (f *fakeBackend) Config(ctx context.Context) (viewapi.ViewConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg, f.cfgErr
}

func (f *fakeBackend) Output(ctx context.Context, runID string, start, end int) ([]run.OutputLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outputCalls = append(f.outputCalls, outputCall{runID: runID, start: start})
	lines, ok := f.output[runID]
	if !ok {
		return nil, &viewapi.StatusError{URL: "/runs/" + runID + "/output", Code: 404}
	}
	if start >= len(lines) {
		return nil, nil
	}
	return append([]run.OutputLine(nil), lines[start:]...), nil
}

// File serves files keyed "runID/path".
func (f *fakeBackend) File(ctx context.Context, runID, path string, limit int64) (viewapi.FileContent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[runID+"/"+path]
	if !ok {
		return viewapi.FileContent{}, &viewapi.StatusError{URL: viewapi.FilePath(runID, path), Code: 404}
	}
	if int64(len(data)) > limit {
		return viewapi.FileContent{Data: []byte(data[:limit]), Truncated: true}, nil
	}
	return viewapi.FileContent{Data: []byte(data)}, nil
}

func testRuns() []run.Run {
	return []run.Run{
		{
			ID: "e61e0ba2d1c44c3a", ShortID: "e61e0ba2", Operation: "resnet:train", Status: run.StatusError, Command: "python train.py",
			Files: []run.File{
				{Path: "checkpoint", Type: "Latest checkpoint marker", Icon: "file-document", IconTooltip: "Text file", Viewer: "text"},
				{Path: "events.out.tfevents", Type: "Event log", Icon: "file-chart", IconTooltip: "File"},
			},
		},
		{ID: "0df943acf2a611e7", ShortID: "0df943ac", Operation: "magenta:generate", Status: run.StatusCompleted},
		{ID: "2f64285c91a94d7e", ShortID: "2f64285c", Operation: "mnist:evaluate", Status: run.StatusRunning},
	}
}

func textLines(texts ...string) []run.OutputLine {
	base := time.Date(2017, 12, 5, 19, 12, 57, 0, time.Local)
	lines := make([]run.OutputLine, len(texts))
	for i, t := range texts {
		lines[i] = run.OutputLine{Time: base.Add(time.Duration(i) * time.Second), Stream: run.Stdout, Text: t}
	}
	return lines
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		runs: testRuns(),
		cfg:  viewapi.ViewConfig{TitleLabel: "slim/resnet", Version: "0.9.0"},
		output: map[string][]run.OutputLine{
			"e61e0ba2d1c44c3a": textLines("Restoring parameters", "Starting Session."),
			"0df943acf2a611e7": textLines("Wrote 10 MIDI files"),
			"2f64285c91a94d7e": textLines("step 1", "step 2"),
		},
		files: map[string]string{
			"e61e0ba2d1c44c3a/checkpoint": "model_checkpoint_path: \"model.ckpt-1000\"\n",
		},
	}
}

// clipboardRecorder is a clipboard.Writer that keeps what it was given.
type clipboardRecorder struct {
	mu     sync.Mutex
	copied []string
	err    error
}

func (c *clipboardRecorder) write(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.copied = append(c.copied, text)
	return nil
}

func (c *clipboardRecorder) last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.copied) == 0 {
		return ""
	}
	return c.copied[len(c.copied)-1]
}

var errClipboard = errors.New("no clipboard")

func newTestDeps(b Backend, clip *clipboardRecorder) Deps {
	cfg := config.DefaultConfig()
	return Deps{
		Backend:   b,
		Config:    &cfg,
		Clipboard: clip.write,
		Logger:    zerolog.Nop(),
	}
}

// appAdapter wraps the App (value receiver model) into a model that
// suppresses Init() side effects (store listener, tick timer) so the
// teatest program doesn't block forever on channel reads.
type appAdapter struct {
	app App
}

func newTestAppAdapter(a App) *appAdapter {
	return &appAdapter{app: a}
}

func (a *appAdapter) Init() tea.Cmd {
	return nil
}

func (a *appAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := a.app.Update(msg)
	a.app = m.(App)
	return a, cmd
}

func (a *appAdapter) View() string {
	return a.app.View()
}

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

// drain runs cmd, unpacking batches, and collects the messages produced
// within a short window. Ticks and store listeners that block are skipped.
func drain(cmd tea.Cmd) []tea.Msg {
	return drainWithin(cmd, 50*time.Millisecond)
}

func drainWithin(cmd tea.Cmd, window time.Duration) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, drainWithin(c, window)...)
			}
			return out
		}
		return []tea.Msg{msg}
	case <-time.After(window):
		return nil
	}
}

func findMsg[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
