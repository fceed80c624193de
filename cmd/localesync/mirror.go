package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/schaermu/localesync/internal/errors"
	"github.com/schaermu/localesync/internal/mirror"
	"github.com/schaermu/localesync/internal/project"
)

var (
	mirrorSource string
	mirrorTarget string
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Replace shared folders in one front-end project with another's copy",
	Long: `Mirror copies the configured list of folders and files (mirror.paths) from a
source project to a target project under mirror.base_path.

Every listed path is removed from the target before the source copy is put
in its place. Paths missing from the source are skipped.`,
	RunE: runMirror,
}

func init() {
	mirrorCmd.Flags().StringVar(&mirrorSource, "source", "", "source project name (skips the prompt)")
	mirrorCmd.Flags().StringVar(&mirrorTarget, "target", "", "target project name (skips the prompt)")
	addSelectionFlags(mirrorCmd)
}

func runMirror(cmd *cobra.Command, args []string) error {
	ctx, cancel := setupSignalHandler()
	defer cancel()
	defer closePrompter()

	logger := setupLogger(cmd.ErrOrStderr())
	printer := newPrinter(cmd)

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	base := cfg.Mirror.BasePath
	var candidates []project.Project
	for _, name := range mirror.Available(base, cfg.Mirror.Projects) {
		candidates = append(candidates, project.Project{Name: name, SourcePath: filepath.Join(base, name)})
	}

	if listOnly {
		printProjects(printer, candidates)
		return nil
	}

	if len(candidates) < 2 {
		return errors.NoSelection(fmt.Sprintf("at least two mirror projects must exist under %s", base))
	}

	source, err := pickMirrorProject(ctx, cmd, mirrorSource, "Select the source project", candidates)
	if err != nil || source == nil {
		return err
	}

	var targets []project.Project
	for _, c := range candidates {
		if c.Name != source.Name {
			targets = append(targets, c)
		}
	}
	target, err := pickMirrorProject(ctx, cmd, mirrorTarget, "Select the target project", targets)
	if err != nil || target == nil {
		return err
	}

	printer.Heading(fmt.Sprintf("Mirror %s → %s", source.Name, target.Name))
	for _, p := range cfg.Mirror.Paths {
		printer.Plain("  %s", p)
	}

	ok, err := confirm(ctx, cmd, fmt.Sprintf("Replace %d path(s) in %s?", len(cfg.Mirror.Paths), target.Name))
	if err != nil {
		return err
	}
	if !ok {
		printer.Info("Cancelled, no files were changed")
		return nil
	}

	m := mirror.New(cfg.Mirror.Paths, logger, dryRun)
	stats, err := m.Run(ctx, source.SourcePath, target.SourcePath)
	if err != nil {
		if ctx.Err() != nil {
			return errors.Interrupted(err)
		}
		return err
	}

	summary := fmt.Sprintf("%d/%d paths mirrored, %d failed, %d skipped",
		stats.Success, len(cfg.Mirror.Paths), stats.Failed, stats.Skipped)
	if stats.Failed > 0 {
		printer.Warning("%s", summary)
		return errors.SyncFailures([]string{target.Name})
	}
	printer.Success("%s", summary)
	if dryRun {
		printer.Info("Dry run, no files were changed")
	}
	return nil
}

// pickMirrorProject resolves a --source/--target name or prompts for one
// project. A nil project with a nil error means the operator quit.
func pickMirrorProject(ctx context.Context, cmd *cobra.Command, name, title string, candidates []project.Project) (*project.Project, error) {
	if name != "" {
		p, ok := project.Find(candidates, name)
		if !ok {
			return nil, errors.UnknownProjects([]string{name})
		}
		return &p, nil
	}

	selected, err := prompterFor(cmd).SelectProjects(ctx, title, candidates, true)
	if err != nil {
		return nil, promptError(err)
	}
	return &selected[0], nil
}
