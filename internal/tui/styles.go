package tui

import (
	"charm.land/huh/v2"
	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/etapa/internal/config/colors"
)

const (
	columnWidth = 28
	cardWidth   = columnWidth - 4
)

// Styles holds every lipgloss style of the board, derived from a color scheme
type Styles struct {
	Header      lipgloss.Style
	Column      lipgloss.Style
	ColumnFocus lipgloss.Style
	ColumnDrag  lipgloss.Style
	ColumnTitle lipgloss.Style
	Card        lipgloss.Style
	CardFocus   lipgloss.Style
	CardDrag    lipgloss.Style
	DropMarker  lipgloss.Style
	Amount      lipgloss.Style
	Subtle      lipgloss.Style
	Success     lipgloss.Style
	Error       lipgloss.Style
	Modal       lipgloss.Style
	HelpKey     lipgloss.Style
}

// NewStyles builds the board styles from a color scheme
func NewStyles(cs colors.ColorScheme) Styles {
	cs.ApplyDefaults()

	column := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(cs.ColumnBorder)).
		Width(columnWidth).
		Padding(0, 1)

	card := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(cs.CardBorder)).
		Background(lipgloss.Color(cs.CardBackground)).
		Foreground(lipgloss.Color(cs.Normal)).
		Width(cardWidth)

	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color(cs.Title)).
			Bold(true).
			Padding(0, 1),
		Column:      column,
		ColumnFocus: column.BorderForeground(lipgloss.Color(cs.SelectedBorder)),
		ColumnDrag:  column.BorderForeground(lipgloss.Color(cs.DragBorder)).BorderStyle(lipgloss.DoubleBorder()),
		ColumnTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(cs.Title)).
			Bold(true),
		Card:      card,
		CardFocus: card.BorderForeground(lipgloss.Color(cs.SelectedBorder)),
		CardDrag:  card.BorderForeground(lipgloss.Color(cs.DragBorder)).BorderStyle(lipgloss.ThickBorder()),
		DropMarker: lipgloss.NewStyle().
			Foreground(lipgloss.Color(cs.DragBorder)).
			Bold(true),
		Amount: lipgloss.NewStyle().
			Foreground(lipgloss.Color(cs.Amount)),
		Subtle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(cs.Subtle)).
			Italic(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(cs.SuccessFg)).
			Background(lipgloss.Color(cs.SuccessBg)).
			Padding(0, 1),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(cs.ErrorFg)).
			Background(lipgloss.Color(cs.ErrorBg)).
			Padding(0, 1),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(cs.Accent)).
			Padding(1, 2),
		HelpKey: lipgloss.NewStyle().
			Foreground(lipgloss.Color(cs.Accent)).
			Bold(true),
	}
}

// formTheme matches huh forms to the board's color scheme
func formTheme(cs colors.ColorScheme) huh.Theme {
	cs.ApplyDefaults()
	return huh.ThemeFunc(func(isDark bool) *huh.Styles {
		t := huh.ThemeBase(isDark)

		accent := lipgloss.Color(cs.Accent)
		subtle := lipgloss.Color(cs.Subtle)
		title := lipgloss.Color(cs.Title)
		errorColor := lipgloss.Color(cs.ErrorBg)

		t.Focused.Base = t.Focused.Base.BorderForeground(accent)
		t.Focused.Title = t.Focused.Title.Foreground(title).Bold(true)
		t.Focused.Description = t.Focused.Description.Foreground(subtle)
		t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(errorColor)
		t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(errorColor)
		t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(accent)
		t.Focused.TextInput.Placeholder = t.Focused.TextInput.Placeholder.Foreground(subtle)
		t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(accent)

		t.Blurred = t.Focused
		t.Blurred.Base = t.Blurred.Base.BorderStyle(lipgloss.HiddenBorder())
		t.Blurred.Title = t.Blurred.Title.Foreground(subtle)
		return t
	})
}
