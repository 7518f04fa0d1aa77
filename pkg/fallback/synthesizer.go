package fallback

import "github.com/tinyland-inc/rashomon/pkg/lens"

// Synthesizer produces demo-mode text. Output is a pure function of
// (lens, event) for a given catalog.
type Synthesizer struct {
	catalog *Catalog
}

// New returns a Synthesizer over catalog. A nil catalog disables curated text.
func New(catalog *Catalog) *Synthesizer {
	return &Synthesizer{catalog: catalog}
}

// Default uses the builtin catalog.
func Default() *Synthesizer {
	return New(DefaultCatalog())
}

// Text returns curated text when an entry matches, otherwise the generic
// template for l.
func (s *Synthesizer) Text(l lens.Lens, event string) string {
	if s != nil {
		if text, ok := s.catalog.Lookup(l, event); ok {
			return text
		}
	}
	return Generic(l, event)
}
