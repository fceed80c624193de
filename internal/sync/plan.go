package sync

// Stats tallies file operations. Every operation increments exactly one
// counter.
type Stats struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Success += o.Success
	s.Failed += o.Failed
	s.Skipped += o.Skipped
}

// Total returns the number of counted operations.
func (s Stats) Total() int {
	return s.Success + s.Failed + s.Skipped
}

// Plan represents the copy operations for one project
type Plan struct {
	Copy []FileOp
}

// FileOp represents a file operation
type FileOp struct {
	RelPath    string // path relative to both roots
	SourcePath string // absolute path in the source tree
	DestPath   string // absolute path in the target tree
	Changed    bool   // destination is missing or differs from source
}

// Report is the outcome of syncing one project
type Report struct {
	Project   string
	Stats     Stats
	Found     int
	Changed   int
	Refreshed bool
	// Err is the project-scoped error that caused the project to be
	// skipped. Per-file failures are only counted in Stats.
	Err error
}

// Failed reports whether the project hit any error.
func (r Report) Failed() bool {
	return r.Err != nil || r.Stats.Failed > 0
}

// Summary aggregates the reports of a run
type Summary struct {
	Reports []Report
	Total   Stats
}

func (s *Summary) add(r Report) {
	s.Reports = append(s.Reports, r)
	s.Total.Add(r.Stats)
}

// FailedProjects returns the names of projects that hit any error.
func (s Summary) FailedProjects() []string {
	var names []string
	for _, r := range s.Reports {
		if r.Failed() {
			names = append(names, r.Project)
		}
	}
	return names
}
