package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/justinpbarnett/guildview/internal/format"
	"github.com/justinpbarnett/guildview/internal/run"
	"github.com/justinpbarnett/guildview/internal/ui/styles"
	"github.com/justinpbarnett/guildview/internal/viewapi"
)

// List runs with their status descriptors
func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs [RUN]",
		Short: "List runs, or show one run by ID prefix",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			client := newClient(cfg, log.Logger)
			ctx := cmd.Context()

			// config and runs load concurrently
			cfgCh := viewapi.FetchAsync(ctx, client.Config)
			var runsCh <-chan viewapi.Result[[]run.Run]
			if len(args) == 1 {
				runsCh = viewapi.FetchAsync(ctx, func(ctx context.Context) ([]run.Run, error) {
					r, err := client.Run(ctx, args[0])
					if err != nil {
						return nil, err
					}
					return []run.Run{r}, nil
				})
			} else {
				runsCh = viewapi.FetchAsync(ctx, func(ctx context.Context) ([]run.Run, error) {
					return client.Runs(ctx, cfg.View.Route)
				})
			}

			runsRes := <-runsCh
			if runsRes.Err != nil {
				return fmt.Errorf("fetching runs: %w", runsRes.Err)
			}
			formatted := format.FormatRuns(runsRes.Value)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(formatted)
			}

			if cfgRes := <-cfgCh; cfgRes.Err != nil {
				log.Warn().Err(cfgRes.Err).Msg("backend config unavailable")
			} else if cfgRes.Value.TitleLabel != "" {
				fmt.Fprintln(cmd.OutOrStdout(), styles.TitleStyle.Render(cfgRes.Value.TitleLabel))
			}
			printRuns(cmd.OutOrStdout(), formatted)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "print formatted runs as JSON")
	return cmd
}

func printRuns(w io.Writer, runs []format.FormattedRun) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs.")
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "STATUS", "OPERATION", "STARTED", "LABEL")
	for _, fr := range runs {
		status := lipgloss.NewStyle().
			Foreground(styles.DescriptorColor(fr.Icon.Color)).
			Render(styles.Glyph(fr.Icon.Icon) + " " + fr.Icon.Tooltip)
		t.Row(fr.DisplayID(), status, fr.Operation, fr.Started, fr.Label)
	}
	fmt.Fprintln(w, t.Render())
}
