package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/schaermu/localesync/internal/project"
)

// LinePrompter reads answers line by line. It is used when input is not a
// terminal, e.g. piped answers in scripts and tests.
type LinePrompter struct {
	lines <-chan lineResult
	out   io.Writer

	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

type lineResult struct {
	text string
	err  error
}

// NewLinePrompter creates a prompter reading from in and writing to out.
// Close releases the reader goroutine once no more questions are asked.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	lines := make(chan lineResult)
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		defer close(lines)

		send := func(res lineResult) bool {
			select {
			case lines <- res:
				return true
			case <-done:
				return false
			}
		}

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			if !send(lineResult{text: scanner.Text()}) {
				return
			}
		}
		err := scanner.Err()
		if err == nil {
			err = io.EOF
		}
		send(lineResult{err: err})
	}()

	return &LinePrompter{lines: lines, out: out, done: done, stopped: stopped}
}

// Close implements Prompter. A read already blocked on in still holds the
// goroutine until it returns.
func (p *LinePrompter) Close() error {
	p.closeOnce.Do(func() { close(p.done) })
	return nil
}

// readLine blocks until a line arrives or ctx is done.
func (p *LinePrompter) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ErrInterrupted
	case res, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return strings.TrimSpace(res.text), res.err
	}
}

// SelectProjects implements Prompter.
func (p *LinePrompter) SelectProjects(ctx context.Context, title string, projects []project.Project, single bool) ([]project.Project, error) {
	fmt.Fprintf(p.out, "\n%s\n", title)
	for i, proj := range projects {
		fmt.Fprintf(p.out, "%3d. %s\n", i+1, proj.Name)
	}
	fmt.Fprintln(p.out, selectHelp)

	for {
		fmt.Fprint(p.out, "> ")
		answer, err := p.readLine(ctx)
		if err != nil {
			if err == io.EOF {
				return nil, ErrAborted
			}
			return nil, err
		}

		if strings.EqualFold(answer, "q") {
			return nil, ErrAborted
		}

		selected, err := project.Select(answer, projects)
		if err != nil {
			fmt.Fprintln(p.out, "No valid projects selected, try again.")
			continue
		}
		if single && len(selected) != 1 {
			fmt.Fprintln(p.out, "Select exactly one project.")
			continue
		}
		return selected, nil
	}
}

// Confirm implements Prompter. End of input counts as no.
func (p *LinePrompter) Confirm(ctx context.Context, question string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N] ", question)
	answer, err := p.readLine(ctx)
	if err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}
	return isYes(answer), nil
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
