package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/justinpbarnett/guildview/internal/format"
	"github.com/justinpbarnett/guildview/internal/run"
	"github.com/justinpbarnett/guildview/internal/viewapi"
)

// Compare runs side by side
func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Print the run comparison table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			tbl, err := newClient(cfg, log.Logger).Compare(cmd.Context(), cfg.View.Route)
			if err != nil {
				return fmt.Errorf("fetching comparison: %w", err)
			}
			printCompare(cmd.OutOrStdout(), tbl)
			return nil
		},
	}
}

func printCompare(w io.Writer, tbl viewapi.CompareTable) {
	header := tbl.Header()
	if len(header) == 0 {
		fmt.Fprintln(w, "No runs to compare.")
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(header...)
	for _, row := range tbl.Rows() {
		cells := make([]string, len(header))
		for i := range cells {
			if i < len(row) {
				cells[i] = compareCell(row[i])
			}
		}
		t.Row(cells...)
	}
	fmt.Fprintln(w, t.Render())
}

// compareCell formats numbers as scalars and everything else as given.
func compareCell(v any) string {
	switch v := v.(type) {
	case float64:
		return format.FormatScalar(run.ScalarOf(v))
	case string:
		// non-finite scalars arrive as strings
		if s, ok := run.SpecialScalar(v); ok {
			return format.FormatScalar(s)
		}
		return v
	default:
		return format.FormatFlagValue(v)
	}
}
