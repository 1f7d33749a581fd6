package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/justinpbarnett/guildview/internal/config"
	"github.com/justinpbarnett/guildview/internal/ui"
	"github.com/justinpbarnett/guildview/internal/ui/clipboard"
	"github.com/justinpbarnett/guildview/internal/ui/panels"
	"github.com/justinpbarnett/guildview/internal/ui/styles"
	"github.com/justinpbarnett/guildview/internal/viewapi"
)

// Create the root command
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guildview",
		Short: "Terminal dashboard for Guild runs",
		Long:  "guildview reads runs from a Guild View backend and shows their status, flags, files and output.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("log", "l", "", "Set log level. Available: debug, info, warn, error")
	cmd.PersistentFlags().String("log-file", "", "write logs to this file")
	cmd.PersistentFlags().String("config", "", "config file")
	cmd.PersistentFlags().String("view-base", "", "Guild View backend URL (overrides VIEW_BASE)")
	cmd.PersistentFlags().String("route", "", "route whose query filters the runs, e.g. /runs?op=train")

	cmd.PersistentPreRun = func(c *cobra.Command, args []string) {
		if levelStr, _ := c.Flags().GetString("log"); levelStr != "" {
			setLogLevel(levelStr)
		}
	}

	cmd.AddCommand(newRunsCmd())
	cmd.AddCommand(newCompareCmd())
	cmd.AddCommand(newSampleServerCmd())
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newUpdateCmd())
	return cmd
}

func setLogLevel(levelStr string) {
	switch levelStr {
	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// loadConfig loads the config file chain and applies the command-line
// overrides on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if v, _ := cmd.Flags().GetString("view-base"); v != "" {
		cfg.View.Base = v
	}
	if v, _ := cmd.Flags().GetString("route"); v != "" {
		cfg.View.Route = v
	}
	if v, _ := cmd.Flags().GetString("log-file"); v != "" {
		cfg.Log.File = v
	}
	if v, _ := cmd.Flags().GetString("log"); v != "" {
		cfg.Log.Level = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	// --log wins; otherwise the configured level applies
	setLogLevel(cfg.Log.Level)
	return cfg, nil
}

func newClient(cfg *config.Config, logger zerolog.Logger) *viewapi.Client {
	return viewapi.New(cfg.View.Base,
		viewapi.WithTimeout(cfg.View.RequestTimeout()),
		viewapi.WithUserAgent("guildview/"+panels.Version),
		viewapi.WithLogger(logger),
	)
}

// dashboardLogger writes to the configured log file. The dashboard owns
// the terminal, so without a file nothing is logged.
func dashboardLogger(cfg *config.Config) (zerolog.Logger, io.Closer, error) {
	if cfg.Log.File == "" {
		return zerolog.Nop(), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("opening log file: %w", err)
	}
	return zerolog.New(f).With().Timestamp().Logger(), f, nil
}

func runDashboard(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	styles.ApplyTheme(cfg.UI.Theme)

	logger, closer, err := dashboardLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Info().Str("base", cfg.View.Base).Str("route", cfg.View.Route).Msg("starting dashboard")

	deps := ui.Deps{
		Backend:   newClient(cfg, logger),
		Config:    cfg,
		Clipboard: clipboard.System,
		Logger:    logger,
	}
	app := ui.NewApp(ui.NewComponents(deps), deps)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}

// Setup the logger
func setupLogger() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func main() {
	setupLogger()
	root := newRootCmd()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	root.SetContext(ctx)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
