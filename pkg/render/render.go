// Package render formats dispatch results for a terminal.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tinyland-inc/rashomon/pkg/lens"
	"github.com/tinyland-inc/rashomon/pkg/perspective"
)

// DefaultWidth is used when the terminal width is unknown.
const DefaultWidth = 120

var (
	accents = map[lens.Lens]lipgloss.Color{
		lens.Establishment: lipgloss.Color("#5B8DEF"),
		lens.Money:         lipgloss.Color("#4CAF50"),
		lens.Subtext:       lipgloss.Color("#B388FF"),
	}
	icons = map[lens.Lens]string{
		lens.Establishment: "🏛️",
		lens.Money:         "💰",
		lens.Subtext:       "🎭",
	}

	bodyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	summaryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F7B801"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// Heading is the column title for l.
func Heading(l lens.Lens) string {
	if icon, ok := icons[l]; ok {
		return icon + " " + l.Name()
	}
	return l.Name()
}

// Columns lays out one bordered column per lens, in the given order, side by
// side within width.
func Columns(results []perspective.Result, order []lens.Lens, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	if len(order) == 0 {
		order = lens.All()
	}
	texts := make(map[lens.Lens]string, len(results))
	for _, r := range results {
		texts[r.Lens] = r.Text
	}

	colWidth := max(20, width/len(order)-2)
	boxes := make([]string, 0, len(order))
	for _, l := range order {
		head := lipgloss.NewStyle().
			Bold(true).
			Foreground(accents[l]).
			Render(Heading(l))
		body := bodyStyle.Render(texts[l])
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1).
			Width(colWidth).
			Render(lipgloss.JoinVertical(lipgloss.Left, head, "", body))
		boxes = append(boxes, box)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

// Plain renders a single result without styling.
func Plain(r perspective.Result) string {
	return fmt.Sprintf("## %s\n%s\n", r.Lens.Name(), strings.TrimSpace(r.Text))
}

// Summary is the latency line shown after a dispatch.
func Summary(elapsed time.Duration, styled bool) string {
	line := fmt.Sprintf("AI Analysis generated in %.2fs (Concurrent Parallel Execution)", elapsed.Seconds())
	if !styled {
		return line
	}
	return summaryStyle.Render("⚡ " + line)
}

// Hint renders secondary text such as the demo-mode warning.
func Hint(text string, styled bool) string {
	if !styled {
		return text
	}
	return hintStyle.Render(text)
}
