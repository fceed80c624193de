// Package project models the configured projects and parses operator
// selections against them.
package project

import (
	"errors"
	"strconv"
	"strings"
)

// ErrNoSelection is returned when a selection string matches no project.
var ErrNoSelection = errors.New("no projects selected")

// Project is one synchronizable unit: a named source tree and the target
// tree it is copied into.
type Project struct {
	Name       string `yaml:"name" toml:"name" json:"name"`
	SourcePath string `yaml:"source_path" toml:"source_path" json:"source_path"`
	TargetPath string `yaml:"target_path" toml:"target_path" json:"target_path"`
	// Enabled is a pointer so an omitted field can default to true.
	Enabled *bool `yaml:"enabled" toml:"enabled" json:"enabled,omitempty"`
}

// IsEnabled reports whether the project may be offered for selection.
func (p Project) IsEnabled() bool {
	return p.Enabled == nil || *p.Enabled
}

// Enabled returns the projects that are not disabled, in order.
func Enabled(projects []Project) []Project {
	result := make([]Project, 0, len(projects))
	for _, p := range projects {
		if p.IsEnabled() {
			result = append(result, p)
		}
	}
	return result
}

// Names returns the project names in order.
func Names(projects []Project) []string {
	names := make([]string, len(projects))
	for i, p := range projects {
		names[i] = p.Name
	}
	return names
}

// Find returns the project whose name matches case-insensitively.
func Find(projects []Project, name string) (Project, bool) {
	for _, p := range projects {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Project{}, false
}

// Select parses an operator selection against the displayed list.
//
// The input is a comma-separated list of tokens. Each token is "all", a
// 1-based index, an inclusive range "a-b", or a project name compared
// case-insensitively. Tokens that match nothing are ignored, as are range
// members outside the list. The result is de-duplicated by name and keeps
// the order in which projects were first selected.
func Select(input string, projects []Project) ([]Project, error) {
	var selected []Project

	for _, token := range strings.Split(input, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		if strings.EqualFold(token, "all") {
			selected = append(selected, projects...)
			continue
		}

		if start, end, ok := parseRange(token); ok {
			for i := start; i <= end; i++ {
				if i >= 1 && i <= len(projects) {
					selected = append(selected, projects[i-1])
				}
			}
			continue
		}

		if index, err := strconv.Atoi(token); err == nil {
			if index >= 1 && index <= len(projects) {
				selected = append(selected, projects[index-1])
			}
			continue
		}

		if p, ok := Find(projects, token); ok {
			selected = append(selected, p)
		}
	}

	selected = dedupe(selected)
	if len(selected) == 0 {
		return nil, ErrNoSelection
	}
	return selected, nil
}

// ByNames resolves names given on the command line. Names that match no
// project are returned in unknown.
func ByNames(names []string, projects []Project) (matched []Project, unknown []string) {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		p, ok := Find(projects, name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		matched = append(matched, p)
	}
	return dedupe(matched), unknown
}

// SplitList splits a comma-separated flag value into trimmed, non-empty parts.
func SplitList(value string) []string {
	var parts []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// parseRange recognizes "a-b" where both bounds are integers. Names that
// merely contain a dash (e.g. "web-language") are not ranges.
func parseRange(token string) (int, int, bool) {
	lo, hi, found := strings.Cut(token, "-")
	if !found {
		return 0, 0, false
	}
	start, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return 0, 0, false
	}
	end, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return 0, 0, false
	}
	return start, end, true
}

func dedupe(projects []Project) []Project {
	seen := make(map[string]bool, len(projects))
	result := make([]Project, 0, len(projects))
	for _, p := range projects {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		result = append(result, p)
	}
	return result
}
