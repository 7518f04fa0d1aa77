// Package auth obtains a generation credential from the user.
package auth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrNoInput    = errors.New("no input received")
	ErrEmptyToken = errors.New("api key cannot be empty")
)

// PromptAPIKey writes a prompt to w and consumes exactly one line from r,
// leaving the rest of r for the caller.
func PromptAPIKey(provider string, r *bufio.Reader, w io.Writer) (string, error) {
	fmt.Fprintf(w, "Paste your API key from %s:\n", providerDisplayName(provider))
	fmt.Fprint(w, "> ")

	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading api key: %w", err)
	}
	if err != nil && line == "" {
		return "", ErrNoInput
	}

	token := strings.TrimSpace(line)
	if token == "" {
		return "", ErrEmptyToken
	}
	return token, nil
}

func providerDisplayName(provider string) string {
	switch provider {
	case "anthropic":
		return "console.anthropic.com"
	case "openai":
		return "platform.openai.com"
	case "gemini":
		return "aistudio.google.com"
	default:
		return provider
	}
}
