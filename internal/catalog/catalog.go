// Package catalog holds the fixed language/topic table quizzes are filed
// under. It is static configuration loaded once at startup, never mutated.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

type Catalog struct {
	topics map[string][]string
}

// defaultTopics mirrors the trainer's published curriculum.
var defaultTopics = map[string][]string{
	"javascript": {"basics", "functions", "arrays", "objects", "async", "dom"},
	"typescript": {"types", "interfaces", "generics", "narrowing"},
	"python":     {"basics", "data-structures", "comprehensions", "oop", "modules"},
	"java":       {"syntax", "oop", "collections", "streams", "exceptions"},
	"go":         {"basics", "slices-maps", "interfaces", "goroutines", "errors"},
	"sql":        {"select", "joins", "aggregation", "indexes"},
	"react":      {"components", "hooks", "state", "routing"},
}

// Default builds the catalog from the built-in table.
func Default() *Catalog {
	return fromTable(defaultTopics)
}

// Load reads a {"language": ["topic", ...]} JSON file. Used when the
// deployment overrides the built-in curriculum.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var table map[string][]string
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("catalog %s has no languages", path)
	}
	return fromTable(table), nil
}

func fromTable(table map[string][]string) *Catalog {
	topics := make(map[string][]string, len(table))
	for lang, ts := range table {
		copied := make([]string, len(ts))
		copy(copied, ts)
		topics[lang] = copied
	}
	return &Catalog{topics: topics}
}

// Languages lists known languages, sorted.
func (c *Catalog) Languages() []string {
	langs := make([]string, 0, len(c.topics))
	for lang := range c.topics {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Topics lists the topics of one language; ok reports whether the language
// exists.
func (c *Catalog) Topics(language string) ([]string, bool) {
	ts, ok := c.topics[language]
	if !ok {
		return nil, false
	}
	out := make([]string, len(ts))
	copy(out, ts)
	return out, true
}

// Has reports whether the language/topic pair is in the catalog. An empty
// topic checks the language only.
func (c *Catalog) Has(language, topic string) bool {
	ts, ok := c.topics[language]
	if !ok {
		return false
	}
	if topic == "" {
		return true
	}
	for _, t := range ts {
		if t == topic {
			return true
		}
	}
	return false
}
