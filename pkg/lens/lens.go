// Package lens defines the fixed analytical stances an event is read through.
//
// The set is closed: every Lens maps explicitly to its display name, slug and
// instruction text. Unknown names are rejected by Parse rather than mapped to
// a default lens.
package lens

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLens is returned by Parse for names outside the closed set.
var ErrUnknownLens = errors.New("unknown lens")

// Lens is one analytical stance.
type Lens int

const (
	Establishment Lens = iota
	Money
	Subtext
)

const outputRequirements = "Output Requirements: Use Markdown formatting. Use **bold** for key terms. " +
	"Structure your response with bullet points or short paragraphs for readability. Keep it under 150 words."

type definition struct {
	name        string
	slug        string
	aliases     []string
	instruction string
}

var definitions = [...]definition{
	Establishment: {
		name:    "The Establishment",
		slug:    "establishment",
		aliases: []string{"establishment", "the establishment"},
		instruction: "You are an official historian tasked with producing a concise, balanced account. " +
			"Prioritize institutional continuity, archival records, legal frameworks, and procedural legitimacy. " +
			"Distill complexity into a coherent narrative grounded in validated sources and public administration. " +
			outputRequirements,
	},
	Money: {
		name:    "Follow the Money",
		slug:    "money",
		aliases: []string{"money", "follow the money"},
		instruction: "You are a materialist historian focusing on economic determinism. " +
			"Analyze incentives, capital flows, interest groups, and institutional arrangements shaping outcomes. " +
			"Ask empirically who benefits and trace subsidies, trade routes, and financial instruments. " +
			outputRequirements,
	},
	Subtext: {
		name:    "The Subtext",
		slug:    "subtext",
		aliases: []string{"subtext", "the subtext"},
		instruction: "You are a critical theorist drawing on postmodern and Foucauldian analysis. " +
			"Interrogate discourse, power circulation, institutional vocabularies, and silences. " +
			"Expose regimes of truth, classification, and governance while highlighting subaltern voices and resistance. " +
			outputRequirements,
	},
}

// All returns every lens in declaration order.
func All() []Lens {
	return []Lens{Establishment, Money, Subtext}
}

// Valid reports whether l is a member of the closed set.
func (l Lens) Valid() bool {
	return l >= Establishment && l <= Subtext
}

// Name returns the display name, e.g. "Follow the Money".
func (l Lens) Name() string {
	if !l.Valid() {
		return fmt.Sprintf("Lens(%d)", int(l))
	}
	return definitions[l].name
}

// Slug returns the short machine identifier, e.g. "money".
func (l Lens) Slug() string {
	if !l.Valid() {
		return ""
	}
	return definitions[l].slug
}

// Instruction returns the system prompt that defines the stance.
func (l Lens) Instruction() string {
	if !l.Valid() {
		return ""
	}
	return definitions[l].instruction
}

func (l Lens) String() string { return l.Name() }

// MarshalText encodes the lens as its display name.
func (l Lens) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLens, int(l))
	}
	return []byte(l.Name()), nil
}

// UnmarshalText accepts any alias understood by Parse.
func (l *Lens) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Parse resolves a lens by display name, slug or alias. Matching is
// case-insensitive and ignores surrounding whitespace.
func Parse(name string) (Lens, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i := range definitions {
		for _, alias := range definitions[i].aliases {
			if key == alias {
				return Lens(i), nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLens, name)
}

// ParseAll resolves every name, failing on the first unknown one.
func ParseAll(names []string) ([]Lens, error) {
	out := make([]Lens, 0, len(names))
	for _, n := range names {
		l, err := Parse(n)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}
