package panels

import "github.com/justinpbarnett/guildview/internal/run"

// RunStoreUpdatedMsg is sent after the run store has been replaced.
type RunStoreUpdatedMsg struct{}

// CloseModalMsg signals that the modal should be closed.
type CloseModalMsg struct{}

// ClearFlashMsg signals the status bar flash should be cleared.
type ClearFlashMsg struct{}

// YankMsg asks the app to copy Text to the clipboard. What names the
// copied thing for the confirmation flash.
type YankMsg struct {
	Text string
	What string
}

// OpenFileMsg asks the app to show File from run RunID in the file viewer.
type OpenFileMsg struct {
	RunID string
	File  run.File
}
