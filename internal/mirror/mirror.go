// Package mirror copies a fixed list of sub-paths from one project tree to
// a sibling project tree, replacing whatever the target had at those paths.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/schaermu/localesync/internal/fsutil"
	"github.com/schaermu/localesync/internal/sync"
)

var (
	// ErrRootMissing is returned when the source or target project root
	// does not exist.
	ErrRootMissing = errors.New("project root does not exist")

	// ErrSameRoot is returned when source and target are the same tree.
	ErrSameRoot = errors.New("source and target must differ")
)

// Mirror replaces configured sub-paths of a target tree with the source copy
type Mirror struct {
	logger *slog.Logger
	paths  []string
	dryRun bool
}

// New creates a Mirror for the given relative paths.
func New(paths []string, logger *slog.Logger, dryRun bool) *Mirror {
	return &Mirror{
		logger: logger,
		paths:  paths,
		dryRun: dryRun,
	}
}

// Paths returns the relative paths this Mirror copies.
func (m *Mirror) Paths() []string {
	return m.paths
}

// Run mirrors every configured path from sourceRoot to targetRoot. Each path
// counts once in the returned Stats: a missing source path is skipped, a
// failed remove or copy is failed and does not stop the remaining paths.
func (m *Mirror) Run(ctx context.Context, sourceRoot, targetRoot string) (sync.Stats, error) {
	var stats sync.Stats

	src, err := filepath.Abs(sourceRoot)
	if err != nil {
		return stats, err
	}
	dst, err := filepath.Abs(targetRoot)
	if err != nil {
		return stats, err
	}
	if src == dst {
		return stats, fmt.Errorf("%w: %s", ErrSameRoot, src)
	}
	if !fsutil.IsDir(src) {
		return stats, fmt.Errorf("%w: %s", ErrRootMissing, src)
	}
	if !fsutil.IsDir(dst) {
		return stats, fmt.Errorf("%w: %s", ErrRootMissing, dst)
	}

	m.logger.Info("starting mirror", "source", src, "target", dst, "paths", len(m.paths), "dry_run", m.dryRun)

	for _, rel := range m.paths {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		logger := m.logger.With("path", rel)

		from, err := fsutil.SafeJoin(src, rel)
		if err != nil {
			stats.Failed++
			logger.Error("invalid source path", "error", err)
			continue
		}
		to, err := fsutil.SafeJoin(dst, rel)
		if err != nil {
			stats.Failed++
			logger.Error("invalid target path", "error", err)
			continue
		}

		if !fsutil.Exists(from) {
			stats.Skipped++
			logger.Warn("source path does not exist", "source", from)
			continue
		}

		if m.dryRun {
			stats.Skipped++
			logger.Info("[dry-run] would replace", "dest", to, "source", from)
			continue
		}

		if err := m.replace(from, to); err != nil {
			stats.Failed++
			logger.Error("failed to mirror path", "error", err)
			continue
		}

		stats.Success++
		logger.Info("mirrored path")
	}

	m.logger.Info("mirror completed",
		"success", stats.Success,
		"failed", stats.Failed,
		"skipped", stats.Skipped)
	return stats, nil
}

func (m *Mirror) replace(from, to string) error {
	if err := fsutil.RemovePath(to); err != nil {
		return fmt.Errorf("failed to remove %s: %w", to, err)
	}
	if err := fsutil.CopyTree(from, to); err != nil {
		return fmt.Errorf("failed to copy %s: %w", from, err)
	}
	return nil
}

// Available returns the names from candidates whose directory exists
// under base, in their original order.
func Available(base string, candidates []string) []string {
	var found []string
	for _, name := range candidates {
		if fsutil.IsDir(filepath.Join(base, name)) {
			found = append(found, name)
		}
	}
	return found
}
