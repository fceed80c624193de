package main

import (
	"github.com/spf13/cobra"

	"github.com/schaermu/localesync/internal/project"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List the enabled projects from the configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(setupLogger(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		printProjects(newPrinter(cmd), project.Enabled(cfg.Projects))
		return nil
	},
}
