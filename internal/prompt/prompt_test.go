package prompt

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/schaermu/localesync/internal/project"
)

func testProjects() []project.Project {
	return []project.Project{
		{Name: "web-language"},
		{Name: "trade-language"},
		{Name: "activity-language"},
	}
}

func names(projects []project.Project) []string {
	return project.Names(projects)
}

func TestLinePrompter_SelectProjects(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		single  bool
		want    []string
		wantErr error
	}{
		{name: "indexes", input: "1,3\n", want: []string{"web-language", "activity-language"}},
		{name: "names and range", input: "Trade-Language,1-2\n", want: []string{"trade-language", "web-language"}},
		{name: "re-prompt after empty selection", input: "9\nnope\nall\n", want: []string{"web-language", "trade-language", "activity-language"}},
		{name: "single re-prompts on many", input: "1,2\n2\n", single: true, want: []string{"trade-language"}},
		{name: "quit", input: "q\n", wantErr: ErrAborted},
		{name: "end of input", input: "x\n", wantErr: ErrAborted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewLinePrompter(strings.NewReader(tt.input), &out)

			got, err := p.SelectProjects(context.Background(), "Select projects", testProjects(), tt.single)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(names(got), tt.want) {
				t.Errorf("selected = %v, want %v", names(got), tt.want)
			}
			if !strings.Contains(out.String(), "  2. trade-language") {
				t.Errorf("project list not shown:\n%s", out.String())
			}
		})
	}
}

func TestLinePrompter_RepromptMessage(t *testing.T) {
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader("0\n1\n"), &out)

	if _, err := p.SelectProjects(context.Background(), "Select", testProjects(), false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No valid projects selected") {
		t.Errorf("expected re-prompt message, got:\n%s", out.String())
	}
}

func TestLinePrompter_Interrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A reader that never yields keeps the prompt waiting on ctx.
	pr := blockingReader{}
	p := NewLinePrompter(pr, &bytes.Buffer{})

	if _, err := p.SelectProjects(ctx, "Select", testProjects(), false); !errors.Is(err, ErrInterrupted) {
		t.Errorf("error = %v, want ErrInterrupted", err)
	}
}

func TestLinePrompter_CloseStopsReader(t *testing.T) {
	p := NewLinePrompter(strings.NewReader("q\nmore\nlines\n"), &bytes.Buffer{})

	if _, err := p.SelectProjects(context.Background(), "Select", testProjects(), false); !errors.Is(err, ErrAborted) {
		t.Fatalf("error = %v, want ErrAborted", err)
	}

	// The remaining lines are never read.
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	select {
	case <-p.stopped:
	case <-time.After(time.Second):
		t.Fatal("reader goroutine still running after Close")
	}

	if err := p.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) {
	select {}
}

func TestLinePrompter_Confirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: "n\n", want: false},
		{input: "\n", want: false},
		{input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := NewLinePrompter(strings.NewReader(tt.input), &bytes.Buffer{})
			got, err := p.Confirm(context.Background(), "Proceed?")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func typeText(m tea.Model, text string) tea.Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestSelectModel(t *testing.T) {
	t.Run("valid selection quits", func(t *testing.T) {
		m := typeText(newSelectModel("Select", testProjects(), false), "1-2")
		m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		sm := m.(selectModel)
		if !isQuit(cmd) {
			t.Fatal("expected quit after valid selection")
		}
		if sm.outcome != outcomeDone {
			t.Errorf("outcome = %v, want done", sm.outcome)
		}
		if got := names(sm.selected); !reflect.DeepEqual(got, []string{"web-language", "trade-language"}) {
			t.Errorf("selected = %v", got)
		}
	})

	t.Run("empty selection re-prompts", func(t *testing.T) {
		m := typeText(newSelectModel("Select", testProjects(), false), "7")
		m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		sm := m.(selectModel)
		if isQuit(cmd) {
			t.Fatal("should not quit on empty selection")
		}
		if sm.errMsg == "" {
			t.Error("expected error message")
		}
		if sm.input.Value() != "" {
			t.Errorf("input should be cleared, got %q", sm.input.Value())
		}
		if !strings.Contains(sm.View(), "No valid projects selected") {
			t.Error("view should show the error message")
		}
	})

	t.Run("single requires one", func(t *testing.T) {
		m := typeText(newSelectModel("Source", testProjects(), true), "all")
		m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if isQuit(cmd) {
			t.Fatal("should not quit with several projects in single mode")
		}
		if m.(selectModel).errMsg != "Select exactly one project." {
			t.Errorf("errMsg = %q", m.(selectModel).errMsg)
		}
	})

	t.Run("q aborts", func(t *testing.T) {
		m := typeText(newSelectModel("Select", testProjects(), false), "q")
		m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if !isQuit(cmd) {
			t.Fatal("expected quit")
		}
		if !errors.Is(m.(selectModel).outcome.err(), ErrAborted) {
			t.Errorf("outcome = %v, want aborted", m.(selectModel).outcome)
		}
	})

	t.Run("esc interrupts", func(t *testing.T) {
		m, cmd := newSelectModel("Select", testProjects(), false).Update(tea.KeyMsg{Type: tea.KeyEsc})
		if !isQuit(cmd) {
			t.Fatal("expected quit")
		}
		if !errors.Is(m.(selectModel).outcome.err(), ErrInterrupted) {
			t.Errorf("outcome = %v, want interrupted", m.(selectModel).outcome)
		}
	})

	t.Run("view lists projects", func(t *testing.T) {
		view := newSelectModel("Select projects", testProjects(), false).View()
		for _, name := range []string{"web-language", "trade-language", "activity-language"} {
			if !strings.Contains(view, name) {
				t.Errorf("view missing %q", name)
			}
		}
	})
}

func TestConfirmModel(t *testing.T) {
	tests := []struct {
		name    string
		key     tea.KeyMsg
		want    bool
		wantErr error
	}{
		{name: "yes", key: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}}, want: true},
		{name: "no", key: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}},
		{name: "enter defaults to no", key: tea.KeyMsg{Type: tea.KeyEnter}},
		{name: "ctrl+c", key: tea.KeyMsg{Type: tea.KeyCtrlC}, wantErr: ErrInterrupted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := confirmModel{question: "Proceed?"}.Update(tt.key)
			if !isQuit(cmd) {
				t.Fatal("expected quit")
			}
			cm := m.(confirmModel)
			if !errors.Is(cm.outcome.err(), tt.wantErr) {
				t.Errorf("err = %v, want %v", cm.outcome.err(), tt.wantErr)
			}
			if cm.answer != tt.want {
				t.Errorf("answer = %v, want %v", cm.answer, tt.want)
			}
		})
	}
}
