// Package fallback synthesizes deterministic perspective text when no live
// generation is available.
//
// Two sources exist: a generic template per lens, and a catalog of curated
// entries with hand-written text for specific topics. Curated entries are an
// explicit configuration choice; the only compiled-in entry covers the 1492
// voyage.
package fallback

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tinyland-inc/rashomon/pkg/lens"
)

// Placeholder is the event text used when the caller submits blank input.
const Placeholder = "the event"

// Entry is one curated topic.
type Entry struct {
	Name string
	// Keywords are matched case-insensitively as substrings of the event.
	Keywords []string
	// Placeholder also selects the entry for the blank-input placeholder.
	Placeholder bool
	Texts       map[lens.Lens]string
}

func (e Entry) clone() Entry {
	e.Keywords = append([]string(nil), e.Keywords...)
	e.Texts = maps.Clone(e.Texts)
	return e
}

// Matches reports whether event selects this entry.
func (e Entry) Matches(event string) bool {
	if e.Placeholder && event == Placeholder {
		return true
	}
	lower := strings.ToLower(event)
	for _, kw := range e.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Validate checks the entry can ever be selected and has something to say.
func (e Entry) Validate() error {
	if e.Name == "" {
		return errors.New("name is required")
	}
	if len(e.Keywords) == 0 && !e.Placeholder {
		return fmt.Errorf("entry %q: needs keywords or placeholder", e.Name)
	}
	if len(e.Texts) == 0 {
		return fmt.Errorf("entry %q: needs at least one lens text", e.Name)
	}
	for l, text := range e.Texts {
		if !l.Valid() {
			return fmt.Errorf("entry %q: %w", e.Name, lens.ErrUnknownLens)
		}
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("entry %q: empty text for %s", e.Name, l.Slug())
		}
	}
	return nil
}

// Catalog is an ordered list of curated entries; the first match wins.
// A Catalog is read-only after construction and safe for concurrent use.
type Catalog struct {
	entries []Entry
}

// NewCatalog validates and orders the given entries.
func NewCatalog(entries ...Entry) (*Catalog, error) {
	c := &Catalog{entries: make([]Entry, 0, len(entries))}
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		c.entries = append(c.entries, e.clone())
	}
	return c, nil
}

// DefaultCatalog holds only the builtin entries.
func DefaultCatalog() *Catalog {
	return &Catalog{entries: BuiltinEntries()}
}

// Entries returns a copy of the catalog contents.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.clone()
	}
	return out
}

// Lookup returns the curated text for l when some entry matches event.
func (c *Catalog) Lookup(l lens.Lens, event string) (string, bool) {
	if c == nil {
		return "", false
	}
	for _, e := range c.entries {
		if !e.Matches(event) {
			continue
		}
		if text, ok := e.Texts[l]; ok {
			return text, true
		}
	}
	return "", false
}

type catalogFile struct {
	Entries []struct {
		Name        string            `yaml:"name"`
		Keywords    []string          `yaml:"keywords"`
		Placeholder bool              `yaml:"placeholder"`
		Texts       map[string]string `yaml:"texts"`
	} `yaml:"entries"`
}

// ParseCatalog decodes YAML catalog entries. Lens keys accept any alias
// understood by lens.Parse.
func ParseCatalog(data []byte) ([]Entry, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	entries := make([]Entry, 0, len(f.Entries))
	for _, raw := range f.Entries {
		e := Entry{
			Name:        raw.Name,
			Keywords:    raw.Keywords,
			Placeholder: raw.Placeholder,
			Texts:       make(map[lens.Lens]string, len(raw.Texts)),
		}
		for key, text := range raw.Texts {
			l, err := lens.Parse(key)
			if err != nil {
				return nil, fmt.Errorf("catalog entry %q: %w", raw.Name, err)
			}
			e.Texts[l] = strings.TrimSpace(text)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// LoadCatalog builds a catalog from an optional YAML file. File entries take
// precedence over builtin ones; includeBuiltin=false drops the builtins.
func LoadCatalog(path string, includeBuiltin bool) (*Catalog, error) {
	var entries []Entry
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		entries, err = ParseCatalog(data)
		if err != nil {
			return nil, err
		}
	}
	if includeBuiltin {
		entries = append(entries, BuiltinEntries()...)
	}
	return NewCatalog(entries...)
}
