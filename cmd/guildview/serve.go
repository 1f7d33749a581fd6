package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/justinpbarnett/guildview/internal/sampleapi"
)

// Serve the bundled sample runs
func newSampleServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample-server",
		Short: "Serve the bundled sample runs as a Guild View backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			version, _ := cmd.Flags().GetString("backend-version")

			opts := []sampleapi.Option{sampleapi.WithLogger(log.Logger)}
			if version != "" {
				opts = append(opts, sampleapi.WithVersion(version))
			}
			srv, err := sampleapi.New(opts...)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().String("backend-version", "", "Guild version reported by /config")
	return cmd
}
