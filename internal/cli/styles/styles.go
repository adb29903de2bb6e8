// Package styles renders the human-readable output of the CLI
package styles

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"

	"github.com/thenoetrevino/etapa/internal/config/colors"
)

var (
	// Card styles
	CardStyle lipgloss.Style
	CardWidth = 72

	// Text styles
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	LabelStyle    lipgloss.Style // For field labels like "Stage:", "Amount:"
	ValueStyle    lipgloss.Style
	AmountStyle   lipgloss.Style
	SectionStyle  lipgloss.Style // For section headers like "Description"
)

func init() {
	Init(*colors.Default())
}

// Init initializes all CLI styles with the given color scheme
func Init(cs colors.ColorScheme) {
	cs.ApplyDefaults()

	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(cs.Accent)).
		Padding(1, 2).
		Width(CardWidth)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(cs.Title))

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(cs.Subtle))

	LabelStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(cs.Accent))

	ValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(cs.Normal))

	AmountStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(cs.Amount))

	SectionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(cs.Accent)).
		Bold(true).
		MarginTop(1)
}

// Field renders "Label: value"
func Field(label, value string) string {
	return LabelStyle.Render(label+":") + " " + ValueStyle.Render(value)
}

// RenderCard wraps content in a styled card border
func RenderCard(content string) string {
	return CardStyle.Render(content)
}

// RenderMarkdown renders a deal description for the terminal. Rendering
// errors fall back to the raw text.
func RenderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return SubtitleStyle.Italic(true).Render("No description")
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
