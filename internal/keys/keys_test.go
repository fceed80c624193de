package keys

import (
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func mustParse(t *testing.T, s string) map[string]any {
	t.Helper()
	doc, err := Parse([]byte(s))
	if err != nil {
		t.Fatalf("Parse(%s): %v", s, err)
	}
	return doc
}

func TestFlatten(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "nested objects",
			doc:  `{"a":{"b":1}}`,
			want: []string{"a", "a.b"},
		},
		{
			name: "scalars",
			doc:  `{"a":"x","b":true,"c":null,"d":1.5}`,
			want: []string{"a", "b", "c", "d"},
		},
		{
			name: "array of objects",
			doc:  `{"list":[{"name":"x"},"scalar",{"id":1,"meta":{"k":2}}]}`,
			want: []string{"list", "list[0].name", "list[2].id", "list[2].meta", "list[2].meta.k"},
		},
		{
			name: "array of scalars",
			doc:  `{"tags":["a","b"]}`,
			want: []string{"tags"},
		},
		{
			name: "nested arrays are not descended",
			doc:  `{"m":[[{"x":1}]]}`,
			want: []string{"m"},
		},
		{
			name: "empty object",
			doc:  `{}`,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Flatten(mustParse(t, tt.doc)).Sorted()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Flatten(%s) = %v, want %v", tt.doc, got, tt.want)
			}
		})
	}
}

func TestFlatten_InsertionOrderIrrelevant(t *testing.T) {
	a := Flatten(mustParse(t, `{"x":{"p":1,"q":2},"y":3}`))
	b := Flatten(mustParse(t, `{"y":3,"x":{"q":2,"p":1}}`))
	if !reflect.DeepEqual(a, b) {
		t.Errorf("flattened sets differ: %v vs %v", a.Sorted(), b.Sorted())
	}
}

func TestIntersect(t *testing.T) {
	a := Flatten(mustParse(t, `{"a":{"b":1}}`))
	b := Flatten(mustParse(t, `{"a":{"b":2},"c":3}`))

	got := Intersect(a, b)
	want := []string{"a", "a.b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Intersect() = %v, want %v", got, want)
	}
}

func TestIntersect_Properties(t *testing.T) {
	x := Flatten(mustParse(t, `{"a":1,"b":{"c":2},"d":[{"e":1}]}`))
	y := Flatten(mustParse(t, `{"b":{"c":3,"z":1},"d":[{"e":0}],"f":1}`))
	z := Flatten(mustParse(t, `{"d":[{"e":5}],"b":{"c":1}}`))

	t.Run("disjoint", func(t *testing.T) {
		p := Flatten(mustParse(t, `{"p":1}`))
		q := Flatten(mustParse(t, `{"q":{"r":1}}`))
		if got := Intersect(p, q); len(got) != 0 {
			t.Errorf("expected empty intersection, got %v", got)
		}
	})

	t.Run("identical", func(t *testing.T) {
		if got := Intersect(x, x); !reflect.DeepEqual(got, x.Sorted()) {
			t.Errorf("Intersect(x, x) = %v, want %v", got, x.Sorted())
		}
	})

	t.Run("commutative and associative", func(t *testing.T) {
		want := Intersect(x, y, z)
		orders := [][]Set{
			{y, x, z},
			{z, y, x},
			{x, z, y},
		}
		for _, sets := range orders {
			if got := Intersect(sets...); !reflect.DeepEqual(got, want) {
				t.Errorf("order changed result: %v vs %v", got, want)
			}
		}

		xy := make(Set)
		for _, k := range Intersect(x, y) {
			xy[k] = struct{}{}
		}
		if got := Intersect(xy, z); !reflect.DeepEqual(got, want) {
			t.Errorf("grouping changed result: %v vs %v", got, want)
		}
	})

	t.Run("no sets", func(t *testing.T) {
		if got := Intersect(); got == nil || len(got) != 0 {
			t.Errorf("Intersect() = %v, want empty", got)
		}
	})
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "invalid", data: `{"a":`},
		{name: "array top level", data: `[1,2]`},
		{name: "null", data: `null`},
		{name: "trailing data", data: `{} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Errorf("expected error for %q", tt.data)
			}
		})
	}
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCompare(t *testing.T) {
	dir := t.TempDir()
	docs := []Named{
		{Name: "web", Path: writeDoc(t, dir, "web.json", `{"a":{"b":1}}`)},
		{Name: "trade", Path: writeDoc(t, dir, "trade.json", `{"a":{"b":2},"c":3}`)},
		{Name: "broken", Path: writeDoc(t, dir, "broken.json", `{"a":`)},
		{Name: "missing", Path: filepath.Join(dir, "missing.json")},
	}

	res := Compare(docs, testLogger())

	if res.Insufficient {
		t.Fatal("two documents loaded, comparison should run")
	}
	if !reflect.DeepEqual(res.Common, []string{"a", "a.b"}) {
		t.Errorf("common = %v", res.Common)
	}
	if res.CommonCount != 2 || res.Loaded != 2 {
		t.Errorf("common_count = %d, loaded = %d", res.CommonCount, res.Loaded)
	}
	if len(res.Failed) != 2 {
		t.Errorf("expected 2 failed documents, got %+v", res.Failed)
	}

	wantFiles := []FileInfo{
		{Name: "web", Path: docs[0].Path, Total: 2, Common: 2, Unique: 0},
		{Name: "trade", Path: docs[1].Path, Total: 3, Common: 2, Unique: 1},
	}
	if !reflect.DeepEqual(res.Files, wantFiles) {
		t.Errorf("files = %+v, want %+v", res.Files, wantFiles)
	}
}

func TestCompare_Insufficient(t *testing.T) {
	dir := t.TempDir()
	docs := []Named{
		{Name: "only", Path: writeDoc(t, dir, "only.json", `{"a":1}`)},
		{Name: "broken", Path: writeDoc(t, dir, "broken.json", `not json`)},
	}

	res := Compare(docs, testLogger())

	if !res.Insufficient {
		t.Error("expected insufficient input")
	}
	if len(res.Common) != 0 || res.Common == nil {
		t.Errorf("expected empty non-nil common keys, got %v", res.Common)
	}
	if res.Loaded != 1 {
		t.Errorf("loaded = %d, want 1", res.Loaded)
	}
}

func TestCompare_EmptyObjectIsValid(t *testing.T) {
	dir := t.TempDir()
	docs := []Named{
		{Name: "empty", Path: writeDoc(t, dir, "empty.json", `{}`)},
		{Name: "full", Path: writeDoc(t, dir, "full.json", `{"a":1}`)},
	}

	res := Compare(docs, testLogger())

	if res.Insufficient {
		t.Fatal("an empty object is a loadable document")
	}
	if res.CommonCount != 0 {
		t.Errorf("common_count = %d, want 0", res.CommonCount)
	}
}
