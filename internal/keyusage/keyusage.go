// Package keyusage finds where translation keys are used in a pages tree
// and which routes those pages serve.
package keyusage

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/schaermu/localesync/internal/keys"
	"github.com/schaermu/localesync/internal/match"
)

// callPattern matches $t, $tc, $te and $d calls whose first argument is a
// quoted string literal.
var callPattern = regexp.MustCompile("\\$(?:tc|te|t|d)\\(\\s*['\"`]([^'\"`]+)['\"`]")

// Usage lists where one key is used.
type Usage struct {
	Files  []string `json:"files"`
	Routes []string `json:"routes"`
}

// Report is the result of a scan.
type Report struct {
	LocaleFile string           `json:"locale_file,omitempty"`
	TotalKeys  int              `json:"total_keys"`
	UsedCount  int              `json:"used_count"`
	Used       map[string]Usage `json:"used"`
	Unused     []string         `json:"unused"`
}

// Extract returns the keys referenced by translation calls in content, in
// order of appearance.
func Extract(content string) []string {
	var found []string
	for _, m := range callPattern.FindAllStringSubmatch(content, -1) {
		found = append(found, m[1])
	}
	return found
}

// Route converts a page path relative to the pages directory into the
// route it serves: the extension and a trailing index are dropped and
// _param segments become :param.
func Route(rel string) string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, path.Ext(rel))

	segments := strings.Split(rel, "/")
	if segments[len(segments)-1] == "index" {
		segments = segments[:len(segments)-1]
	}
	for i, seg := range segments {
		if strings.HasPrefix(seg, "_") && len(seg) > 1 {
			segments[i] = ":" + seg[1:]
		}
	}

	return "/" + strings.Join(segments, "/")
}

// Scan walks pagesDir for files with the given extensions and records every
// use of a key present in known. Keys not in known are ignored, and so are
// array element paths such as list[0].label: pages look up the array key
// itself, so only that key is counted.
func Scan(pagesDir string, known keys.Set, extensions []string) (*Report, error) {
	known = lookupKeys(known)

	filter, err := match.New(extensions, []string{"node_modules"})
	if err != nil {
		return nil, err
	}

	files, err := filter.Discover(pagesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan pages: %w", err)
	}

	type usage struct {
		files  map[string]struct{}
		routes map[string]struct{}
	}
	used := make(map[string]*usage)

	for _, rel := range files {
		data, err := os.ReadFile(filepath.Join(pagesDir, rel))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", rel, err)
		}

		route := Route(rel)
		slashed := filepath.ToSlash(rel)
		for _, key := range Extract(string(data)) {
			if !known.Has(key) {
				continue
			}
			u, ok := used[key]
			if !ok {
				u = &usage{files: make(map[string]struct{}), routes: make(map[string]struct{})}
				used[key] = u
			}
			u.files[slashed] = struct{}{}
			u.routes[route] = struct{}{}
		}
	}

	report := &Report{
		TotalKeys: len(known),
		UsedCount: len(used),
		Used:      make(map[string]Usage, len(used)),
		Unused:    []string{},
	}
	for key, u := range used {
		report.Used[key] = Usage{
			Files:  keys.Set(u.files).Sorted(),
			Routes: keys.Set(u.routes).Sorted(),
		}
	}
	for _, key := range known.Sorted() {
		if _, ok := used[key]; !ok {
			report.Unused = append(report.Unused, key)
		}
	}

	return report, nil
}

// lookupKeys drops array element paths from known.
func lookupKeys(known keys.Set) keys.Set {
	out := make(keys.Set, len(known))
	for key := range known {
		if !strings.Contains(key, "[") {
			out[key] = struct{}{}
		}
	}
	return out
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(file string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return err
	}
	return os.WriteFile(file, append(data, '\n'), 0644)
}
