// Package keys flattens JSON translation documents into key paths and
// finds the keys every document shares.
package keys

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// Set is a set of flattened key paths such as "a.b" or "list[0].name".
type Set map[string]struct{}

// Has reports whether key is in the set.
func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Sorted returns the keys in lexicographic order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Flatten returns every key path in doc. Nested objects extend the path with
// ".key"; objects inside arrays extend it with "[i]". Scalars and arrays of
// scalars end the path at the key naming them.
func Flatten(doc map[string]any) Set {
	set := make(Set)
	flatten(doc, "", set)
	return set
}

func flatten(obj map[string]any, prefix string, set Set) {
	for key, value := range obj {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		set[path] = struct{}{}

		switch v := value.(type) {
		case map[string]any:
			flatten(v, path, set)
		case []any:
			for i, item := range v {
				if child, ok := item.(map[string]any); ok {
					flatten(child, path+"["+strconv.Itoa(i)+"]", set)
				}
			}
		}
	}
}

// Intersect returns the keys present in every set, sorted. It returns an
// empty slice when sets is empty.
func Intersect(sets ...Set) []string {
	if len(sets) == 0 {
		return []string{}
	}

	// Iterate the smallest set.
	smallest := 0
	for i, s := range sets {
		if len(s) < len(sets[smallest]) {
			smallest = i
		}
	}

	common := make([]string, 0, len(sets[smallest]))
	for key := range sets[smallest] {
		inAll := true
		for i, s := range sets {
			if i == smallest {
				continue
			}
			if !s.Has(key) {
				inAll = false
				break
			}
		}
		if inAll {
			common = append(common, key)
		}
	}

	sort.Strings(common)
	return common
}

// Load reads a JSON document whose top level must be an object.
func Load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a JSON document whose top level must be an object.
func Parse(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("invalid JSON: trailing data after document")
	}

	doc, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top level must be a JSON object")
	}
	return doc, nil
}
