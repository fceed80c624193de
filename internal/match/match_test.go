package match

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestNew_RequiresExtension(t *testing.T) {
	if _, err := New(nil, nil); err == nil {
		t.Error("expected error without extensions")
	}
	if _, err := New([]string{" "}, nil); err == nil {
		t.Error("expected error with blank extension")
	}
}

func TestNew_InvalidGlob(t *testing.T) {
	if _, err := New([]string{".json"}, []string{"[unclosed"}); err == nil {
		t.Error("expected error for invalid glob")
	}
}

func TestFilter_Match(t *testing.T) {
	f, err := New([]string{".json", "yaml"}, []string{"node_modules", "*.bak.json", "draft-*"})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		want bool
	}{
		{path: "zh-cn.json", want: true},
		{path: "nested/en.JSON", want: true},
		{path: "config.yaml", want: true},
		{path: "readme.md", want: false},
		{path: "node_modules/pkg/en.json", want: false},
		{path: "en.bak.json", want: false},
		{path: "nested/en.bak.json", want: false},
		{path: "draft-2024/en.json", want: false},
		{path: "final/draft-en.json", want: false},
		{path: "final/en.json", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := f.Match(tt.path); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"zh-cn.json":                 "{}",
		"en/common.json":             "{}",
		"en/readme.md":               "docs",
		"node_modules/dep/pkg.json":  "{}",
		"deep/er/still/matches.json": "{}",
	}
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	f, err := New([]string{".json"}, []string{"node_modules"})
	if err != nil {
		t.Fatal(err)
	}

	got, err := f.Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	want := []string{
		filepath.Join("deep", "er", "still", "matches.json"),
		filepath.Join("en", "common.json"),
		"zh-cn.json",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Discover() = %v, want %v", got, want)
	}
}

func TestDiscover_MissingDir(t *testing.T) {
	f, err := New([]string{".json"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Discover(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestDiscover_SymlinkedRoot(t *testing.T) {
	real := t.TempDir()
	if err := os.MkdirAll(filepath.Join(real, "en"), 0755); err != nil {
		t.Fatal(err)
	}
	for _, rel := range []string{"zh-cn.json", filepath.Join("en", "common.json")} {
		if err := os.WriteFile(filepath.Join(real, rel), []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	link := filepath.Join(t.TempDir(), "locales")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	f, err := New([]string{".json"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	got, err := f.Discover(link)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	want := []string{filepath.Join("en", "common.json"), "zh-cn.json"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Discover() = %v, want %v", got, want)
	}
}
