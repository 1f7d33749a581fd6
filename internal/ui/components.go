package ui

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/justinpbarnett/guildview/internal/config"
	"github.com/justinpbarnett/guildview/internal/run"
	"github.com/justinpbarnett/guildview/internal/ui/clipboard"
	"github.com/justinpbarnett/guildview/internal/ui/panels"
	"github.com/justinpbarnett/guildview/internal/viewapi"
)

// Backend is the part of the view API the dashboard reads from.
// *viewapi.Client satisfies it.
type Backend interface {
	Runs(ctx context.Context, route string) ([]run.Run, error)
	Config(ctx context.Context) (viewapi.ViewConfig, error)
	Output(ctx context.Context, runID string, start, end int) ([]run.OutputLine, error)
	File(ctx context.Context, runID, path string, limit int64) (viewapi.FileContent, error)
}

// Deps are the collaborators the dashboard is built from.
type Deps struct {
	Backend   Backend
	Config    *config.Config
	Clipboard clipboard.Writer
	Logger    zerolog.Logger
}

// Components is the set of views making up the dashboard. It is built once
// by NewComponents and handed to NewApp.
type Components struct {
	Store     *run.Store
	RunList   panels.RunList
	Overview  panels.Overview
	Files     panels.Files
	Output    panels.Output
	StatusBar panels.StatusBar
}

// NewComponents builds the dashboard views from the configured options.
func NewComponents(deps Deps) Components {
	cfg := deps.Config
	if cfg == nil {
		def := config.DefaultConfig()
		cfg = &def
	}
	showScalars := cfg.UI.ShowScalars == nil || *cfg.UI.ShowScalars

	store := run.NewStore()
	rl := panels.NewRunList(store)
	rl.SetFocused(true)

	return Components{
		Store:     store,
		RunList:   rl,
		Overview:  panels.NewOverview(showScalars),
		Files:     panels.NewFiles(),
		Output:    panels.NewOutput(cfg.UI.OutputLines),
		StatusBar: panels.NewStatusBar(store),
	}
}
