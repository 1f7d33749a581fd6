package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/justinpbarnett/guildview/internal/ui/panels"
	"github.com/justinpbarnett/guildview/internal/update"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information and check for a newer release",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("guildview version %s\n", panels.Version)

			if panels.Version == "dev" {
				fmt.Println("Development build, update check skipped.")
				return
			}

			rel, err := update.CheckForUpdate(cmd.Context(), panels.Version, update.Repo)
			if err != nil {
				fmt.Printf("Update check failed: %v\n", err)
				return
			}

			if rel != nil {
				fmt.Printf("Update available: v%s. Run \"guildview update\" to install.\n", rel.Version)
			} else {
				fmt.Println("You are up to date.")
			}
		},
	}
}

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Replace this binary with the latest release",
		RunE: func(cmd *cobra.Command, args []string) error {
			rel, err := update.CheckForUpdate(cmd.Context(), panels.Version, update.Repo)
			if err != nil {
				return err
			}
			if rel == nil && panels.Version != "dev" {
				fmt.Printf("guildview %s is up to date.\n", panels.Version)
				return nil
			}

			rel, err = update.Apply(cmd.Context(), panels.Version, update.Repo)
			if err != nil {
				return err
			}
			fmt.Printf("Updated to v%s.\n", rel.Version)
			if rel.ReleaseNotes != "" {
				fmt.Println(rel.ReleaseNotes)
			}
			return nil
		},
	}
}
