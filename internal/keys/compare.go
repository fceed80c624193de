package keys

import (
	"log/slog"
)

// Named identifies a document to compare.
type Named struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// FileInfo holds the per-document counts of a comparison.
type FileInfo struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Total  int    `json:"total_keys"`
	Common int    `json:"common_keys"`
	Unique int    `json:"unique_keys"`
}

// LoadFailure records a document excluded from the comparison.
type LoadFailure struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Result is the outcome of Compare.
type Result struct {
	Common       []string      `json:"common_keys"`
	CommonCount  int           `json:"common_count"`
	Files        []FileInfo    `json:"files"`
	Loaded       int           `json:"loaded"`
	Failed       []LoadFailure `json:"failed,omitempty"`
	Insufficient bool          `json:"insufficient"`
}

// minDocuments is the number of loaded documents a comparison needs.
const minDocuments = 2

// Compare loads each document, flattens it and intersects the key sets.
// Documents that cannot be loaded are logged and left out. With fewer than
// two loaded documents the result is marked Insufficient and has no
// common keys; this is not an error.
func Compare(docs []Named, logger *slog.Logger) Result {
	res := Result{Common: []string{}}

	var loaded []Named
	var sets []Set
	for _, d := range docs {
		doc, err := Load(d.Path)
		if err != nil {
			logger.Warn("skipping document", "name", d.Name, "path", d.Path, "error", err)
			res.Failed = append(res.Failed, LoadFailure{Name: d.Name, Path: d.Path, Error: err.Error()})
			continue
		}
		logger.Debug("loaded document", "name", d.Name, "path", d.Path)
		loaded = append(loaded, d)
		sets = append(sets, Flatten(doc))
	}
	res.Loaded = len(loaded)

	if len(loaded) < minDocuments {
		logger.Warn("insufficient input for comparison", "loaded", len(loaded), "required", minDocuments)
		res.Insufficient = true
		return res
	}

	res.Common = Intersect(sets...)
	res.CommonCount = len(res.Common)

	for i, d := range loaded {
		total := len(sets[i])
		res.Files = append(res.Files, FileInfo{
			Name:   d.Name,
			Path:   d.Path,
			Total:  total,
			Common: res.CommonCount,
			Unique: total - res.CommonCount,
		})
	}

	return res
}
