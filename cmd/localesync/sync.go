package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/schaermu/localesync/internal/errors"
	"github.com/schaermu/localesync/internal/logging"
	"github.com/schaermu/localesync/internal/project"
	"github.com/schaermu/localesync/internal/sync"
)

var noGit bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Copy translation files from language repositories into web projects",
	Long: `Sync refreshes each selected language repository (switch to the default
branch, fetch, pull) and then copies every matching translation file into the
project's target directory, keeping relative paths.

A failed refresh skips that project and the run continues with the next one.
Without --projects the projects are chosen interactively.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVarP(&projectsFlag, "projects", "p", "", "comma-separated project names (skips the prompt)")
	syncCmd.Flags().BoolVar(&noGit, "no-git", false, "skip the git refresh for this run")
	addSelectionFlags(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx, cancel := setupSignalHandler()
	defer cancel()
	defer closePrompter()

	logger := setupLogger(cmd.ErrOrStderr())
	printer := newPrinter(cmd)

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	projects := project.Enabled(cfg.Projects)
	if listOnly {
		printProjects(printer, projects)
		return nil
	}

	selected, err := selectProjects(ctx, cmd, "Select projects to sync", projects, false)
	if err != nil || len(selected) == 0 {
		return err
	}

	printer.Heading("Selected projects")
	printProjects(printer, selected)

	ok, err := confirm(ctx, cmd, fmt.Sprintf("Sync %d project(s)?", len(selected)))
	if err != nil {
		return err
	}
	if !ok {
		printer.Info("Cancelled, no files were changed")
		return nil
	}

	filter, err := cfg.Filter()
	if err != nil {
		return errors.ConfigError("invalid sync filter", err)
	}

	engine := sync.NewEngine(newGitClient(cfg, cmd.OutOrStdout(), logger), logger, sync.Options{
		GitRefresh: cfg.GitRefreshEnabled() && !noGit,
		DryRun:     dryRun,
		Filter:     filter,
	})

	summary, err := engine.Run(ctx, selected)
	printSyncSummary(printer, summary)
	if err != nil {
		if ctx.Err() != nil {
			return errors.Interrupted(err)
		}
		return err
	}

	if failed := summary.FailedProjects(); len(failed) > 0 {
		return errors.SyncFailures(failed)
	}

	if dryRun {
		printer.Info("Dry run, no files were changed")
	}
	return nil
}

func printSyncSummary(p *logging.Printer, summary sync.Summary) {
	rows := make([][]string, 0, len(summary.Reports))
	for _, r := range summary.Reports {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		rows = append(rows, []string{
			r.Project,
			strconv.Itoa(r.Found),
			strconv.Itoa(r.Changed),
			strconv.Itoa(r.Stats.Success),
			strconv.Itoa(r.Stats.Failed),
			strconv.Itoa(r.Stats.Skipped),
			status,
		})
	}

	p.Heading("Sync summary")
	p.Table([]string{"Project", "Found", "Changed", "Success", "Failed", "Skipped", "Status"}, rows)

	total := summary.Total
	if len(summary.FailedProjects()) > 0 {
		p.Warning("%d succeeded, %d failed, %d skipped", total.Success, total.Failed, total.Skipped)
		return
	}
	p.Success("%d succeeded, %d failed, %d skipped", total.Success, total.Failed, total.Skipped)
}
