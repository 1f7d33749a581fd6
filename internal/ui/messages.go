package ui

import (
	"github.com/justinpbarnett/guildview/internal/run"
	"github.com/justinpbarnett/guildview/internal/ui/panels"
	"github.com/justinpbarnett/guildview/internal/viewapi"
)

// Aliases of the panels message types, so both packages share one definition.

// RunStoreUpdatedMsg is sent after the run store has been replaced.
type RunStoreUpdatedMsg = panels.RunStoreUpdatedMsg

// CloseModalMsg signals that the modal should be closed.
type CloseModalMsg = panels.CloseModalMsg

type ClearFlashMsg = panels.ClearFlashMsg

// YankMsg asks for text to be copied to the clipboard.
type YankMsg = panels.YankMsg

type OpenFileMsg = panels.OpenFileMsg

// RunsLoadedMsg carries the result of a /runs fetch. Seq identifies the
// request; only the newest one is applied.
type RunsLoadedMsg struct {
	Seq  int
	Runs []run.Run
	Err  error
}

// ConfigLoadedMsg carries the backend's /config payload.
type ConfigLoadedMsg struct {
	Config viewapi.ViewConfig
	Err    error
}

// OutputLoadedMsg carries output lines of RunID starting at line Start.
type OutputLoadedMsg struct {
	RunID string
	Start int
	Lines []run.OutputLine
	Err   error
}

// FileLoadedMsg carries the head of a run file for the file viewer.
type FileLoadedMsg struct {
	RunID   string
	Path    string
	Content viewapi.FileContent
	Err     error
}

// RefreshTickMsg fires once per refresh interval.
type RefreshTickMsg struct{}

type yankDoneMsg struct {
	what string
	err  error
}
