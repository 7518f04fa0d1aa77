// Package sensemaking implements the two-question reflection shown after a
// dispatch.
package sensemaking

import (
	"fmt"

	"github.com/tinyland-inc/rashomon/pkg/lens"
)

const (
	AlignedQuestion    = "Which perspective aligns most with your initial view?"
	ChallengedQuestion = "Which perspective challenged you the most?"
)

// Reflect returns the closing sentence for a pair of choices.
func Reflect(aligned, challenged lens.Lens) string {
	return fmt.Sprintf(
		"Interesting choice! You started with %s but found %s most challenging. "+
			"This creates a cognitive gap that allows for new insights.",
		aligned.Name(), challenged.Name())
}

// ReflectNames parses both choices before reflecting.
func ReflectNames(aligned, challenged string) (string, error) {
	a, err := lens.Parse(aligned)
	if err != nil {
		return "", fmt.Errorf("aligned choice: %w", err)
	}
	c, err := lens.Parse(challenged)
	if err != nil {
		return "", fmt.Errorf("challenged choice: %w", err)
	}
	return Reflect(a, c), nil
}
