// Package prompt asks the operator which projects to process and whether
// to go ahead. Parsing of the answer lives in the project package; this
// package only owns the re-prompt loop around it.
package prompt

import (
	"context"
	"errors"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/schaermu/localesync/internal/project"
)

var (
	// ErrAborted is returned when the operator quits a prompt with "q" or
	// closes its input.
	ErrAborted = errors.New("aborted by operator")

	// ErrInterrupted is returned when the operator interrupts a prompt.
	ErrInterrupted = errors.New("interrupted")
)

// Prompter asks the operator questions.
type Prompter interface {
	// SelectProjects shows projects and returns the operator's choice. An
	// empty choice re-prompts. With single set, exactly one project must
	// be chosen.
	SelectProjects(ctx context.Context, title string, projects []project.Project, single bool) ([]project.Project, error)

	// Confirm asks a yes/no question. Anything but yes is a no.
	Confirm(ctx context.Context, question string) (bool, error)

	// Close releases resources held between questions.
	Close() error
}

// New returns a TUI prompter when in is a terminal and a line prompter
// otherwise.
func New(in, out *os.File) Prompter {
	if isTerminal(in) && isTerminal(out) {
		return NewTUIPrompter(in, out)
	}
	return NewLinePrompter(in, out)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

const selectHelp = "Enter numbers (1,3), ranges (2-4), names or all. q quits."
