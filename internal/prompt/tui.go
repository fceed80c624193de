package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/schaermu/localesync/internal/project"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	indexStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)

// outcome is how a prompt model finished.
type outcome int

const (
	outcomePending outcome = iota
	outcomeDone
	outcomeAborted
	outcomeInterrupted
)

func (o outcome) err() error {
	switch o {
	case outcomeAborted:
		return ErrAborted
	case outcomeInterrupted:
		return ErrInterrupted
	}
	return nil
}

// selectModel is the bubbletea model for project selection
type selectModel struct {
	title    string
	projects []project.Project
	single   bool
	input    textinput.Model
	selected []project.Project
	errMsg   string
	outcome  outcome
}

func newSelectModel(title string, projects []project.Project, single bool) selectModel {
	ti := textinput.New()
	ti.Placeholder = "1,3 or 2-4 or all"
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.Width = 40
	ti.Focus()

	return selectModel{
		title:    title,
		projects: projects,
		single:   single,
		input:    ti,
	}
}

func (m selectModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			m.outcome = outcomeInterrupted
			return m, tea.Quit

		case "enter":
			answer := strings.TrimSpace(m.input.Value())
			if strings.EqualFold(answer, "q") {
				m.outcome = outcomeAborted
				return m, tea.Quit
			}

			selected, err := project.Select(answer, m.projects)
			switch {
			case err != nil:
				m.errMsg = "No valid projects selected, try again."
			case m.single && len(selected) != 1:
				m.errMsg = "Select exactly one project."
			default:
				m.selected = selected
				m.outcome = outcomeDone
				return m, tea.Quit
			}
			m.input.Reset()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m selectModel) View() string {
	if m.outcome != outcomePending {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	for i, p := range m.projects {
		b.WriteString(indexStyle.Render(fmt.Sprintf("%3d.", i+1)))
		b.WriteString(" " + p.Name + "\n")
	}
	b.WriteString("\n" + m.input.View() + "\n")
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg) + "\n")
	}
	b.WriteString(helpStyle.Render(selectHelp + " esc cancels."))
	return b.String()
}

// confirmModel is the bubbletea model for a yes/no question
type confirmModel struct {
	question string
	answer   bool
	outcome  outcome
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			m.outcome = outcomeInterrupted
			return m, tea.Quit
		case "y", "Y":
			m.answer = true
			m.outcome = outcomeDone
			return m, tea.Quit
		case "n", "N", "enter", "q":
			m.outcome = outcomeDone
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.outcome != outcomePending {
		return ""
	}
	return titleStyle.UnsetMarginBottom().Render(m.question) + " " + indexStyle.Render("[y/N]")
}

// TUIPrompter asks questions with bubbletea programs.
type TUIPrompter struct {
	in  io.Reader
	out io.Writer
}

// NewTUIPrompter creates a prompter for an interactive terminal.
func NewTUIPrompter(in io.Reader, out io.Writer) *TUIPrompter {
	return &TUIPrompter{in: in, out: out}
}

// Close implements Prompter. Each question runs its own program, so there
// is nothing to release.
func (p *TUIPrompter) Close() error { return nil }

func (p *TUIPrompter) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	prog := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)
	final, err := prog.Run()
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, tea.ErrProgramKilled) {
			return nil, ErrInterrupted
		}
		return nil, err
	}
	return final, nil
}

// SelectProjects implements Prompter.
func (p *TUIPrompter) SelectProjects(ctx context.Context, title string, projects []project.Project, single bool) ([]project.Project, error) {
	final, err := p.run(ctx, newSelectModel(title, projects, single))
	if err != nil {
		return nil, err
	}
	m := final.(selectModel)
	if err := m.outcome.err(); err != nil {
		return nil, err
	}
	return m.selected, nil
}

// Confirm implements Prompter.
func (p *TUIPrompter) Confirm(ctx context.Context, question string) (bool, error) {
	final, err := p.run(ctx, confirmModel{question: question})
	if err != nil {
		return false, err
	}
	m := final.(confirmModel)
	if err := m.outcome.err(); err != nil {
		return false, err
	}
	return m.answer, nil
}
