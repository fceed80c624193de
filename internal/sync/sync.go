package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/schaermu/localesync/internal/fsutil"
	"github.com/schaermu/localesync/internal/git"
	"github.com/schaermu/localesync/internal/match"
	"github.com/schaermu/localesync/internal/project"
)

var (
	// ErrSourceMissing is reported when a project's source root does not exist.
	ErrSourceMissing = errors.New("source directory does not exist")

	// ErrTargetMissing is reported when a project's target root does not
	// exist. The target root is never created.
	ErrTargetMissing = errors.New("target directory does not exist")
)

// Options configures an Engine
type Options struct {
	// GitRefresh refreshes each source repository before copying.
	GitRefresh bool
	// DryRun logs the planned copies and counts them as skipped.
	DryRun bool
	Filter *match.Filter
}

// Engine orchestrates the sync process
type Engine struct {
	git    git.Client
	logger *slog.Logger
	opts   Options
}

// NewEngine creates a new sync engine
func NewEngine(gitClient git.Client, logger *slog.Logger, opts Options) *Engine {
	return &Engine{
		git:    gitClient,
		logger: logger,
		opts:   opts,
	}
}

// Run syncs the projects one after another. It stops between projects once
// ctx is done and returns the summary so far together with ctx.Err().
func (e *Engine) Run(ctx context.Context, projects []project.Project) (Summary, error) {
	e.logger.Info("starting sync",
		"projects", len(projects),
		"git_refresh", e.opts.GitRefresh,
		"dry_run", e.opts.DryRun)

	var summary Summary
	for _, p := range projects {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.add(e.SyncProject(ctx, p))
	}

	e.logger.Info("sync completed",
		"success", summary.Total.Success,
		"failed", summary.Total.Failed,
		"skipped", summary.Total.Skipped)
	return summary, ctx.Err()
}

// SyncProject refreshes and copies a single project. Project-scoped
// problems skip the project and are returned in Report.Err; per-file copy
// errors are counted as failed without stopping the remaining files.
func (e *Engine) SyncProject(ctx context.Context, p project.Project) Report {
	report := Report{Project: p.Name}
	logger := e.logger.With("project", p.Name)

	skip := func(err error) Report {
		report.Err = err
		report.Stats = Stats{Skipped: 1}
		if err != nil {
			logger.Error("skipping project", "error", err)
		}
		return report
	}

	if e.opts.GitRefresh {
		logger.Info("refreshing source", "dir", p.SourcePath)
		if err := e.git.Refresh(ctx, p.SourcePath); err != nil {
			return skip(fmt.Errorf("git refresh: %w", err))
		}
		report.Refreshed = true
	}

	if !fsutil.IsDir(p.SourcePath) {
		return skip(fmt.Errorf("%w: %s", ErrSourceMissing, p.SourcePath))
	}
	if !fsutil.IsDir(p.TargetPath) {
		return skip(fmt.Errorf("%w: %s", ErrTargetMissing, p.TargetPath))
	}

	plan, err := e.buildPlan(p)
	if err != nil {
		return skip(fmt.Errorf("failed to build sync plan: %w", err))
	}

	report.Found = len(plan.Copy)
	for _, op := range plan.Copy {
		if op.Changed {
			report.Changed++
		}
	}

	logger.Info("sync plan", "found", report.Found, "changed", report.Changed)

	if len(plan.Copy) == 0 {
		logger.Warn("no matching files found", "dir", p.SourcePath)
		return skip(nil)
	}

	if e.opts.DryRun {
		e.logPlanDetails(logger, plan)
		report.Stats.Skipped = len(plan.Copy)
		return report
	}

	report.Stats, report.Err = e.applyPlan(ctx, logger, plan)
	return report
}

// buildPlan lists the matching source files and their destinations
func (e *Engine) buildPlan(p project.Project) (*Plan, error) {
	files, err := e.opts.Filter.Discover(p.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to discover source files: %w", err)
	}

	plan := &Plan{Copy: make([]FileOp, 0, len(files))}
	for _, rel := range files {
		dest, err := fsutil.SafeJoin(p.TargetPath, rel)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve destination for %s: %w", rel, err)
		}
		src, err := fsutil.SafeJoin(p.SourcePath, rel)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve source for %s: %w", rel, err)
		}
		plan.Copy = append(plan.Copy, FileOp{
			RelPath:    rel,
			SourcePath: src,
			DestPath:   dest,
			Changed:    !fsutil.SameContent(src, dest),
		})
	}

	return plan, nil
}

// applyPlan copies every planned file. Copies are unconditional so repeated
// runs over the same source produce the same target and the same counts.
func (e *Engine) applyPlan(ctx context.Context, logger *slog.Logger, plan *Plan) (Stats, error) {
	var stats Stats
	for _, op := range plan.Copy {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := fsutil.CopyFile(op.SourcePath, op.DestPath); err != nil {
			stats.Failed++
			logger.Error("failed to copy file", "file", op.RelPath, "error", err)
			continue
		}
		stats.Success++
		logger.Debug("copied file", "file", op.RelPath, "changed", op.Changed)
	}
	return stats, nil
}

// logPlanDetails logs detailed plan information for dry-run
func (e *Engine) logPlanDetails(logger *slog.Logger, plan *Plan) {
	for _, op := range plan.Copy {
		if op.Changed {
			logger.Info("[dry-run] would update", "dest", op.DestPath, "source", op.SourcePath)
		} else {
			logger.Info("[dry-run] would overwrite unchanged", "dest", op.DestPath)
		}
	}
}
