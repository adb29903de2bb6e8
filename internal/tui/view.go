package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/etapa/internal/board"
	"github.com/thenoetrevino/etapa/internal/dnd"
	"github.com/thenoetrevino/etapa/internal/models"
	"github.com/thenoetrevino/etapa/internal/notify"
)

// View renders the current state of the board
func (m Model) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.Content = m.render()
	return view
}

func (m Model) render() string {
	if m.denied != nil {
		return m.styles.Error.Render("access denied: "+m.denied.Error()) + "\n" +
			m.styles.Subtle.Render("press any key to quit") + "\n" + m.renderToasts()
	}
	if m.board == nil {
		if m.loadErr != nil {
			return m.styles.Error.Render("failed to load board: "+m.loadErr.Error()) + "\n" + m.renderToasts()
		}
		return "Loading..."
	}

	parts := []string{m.renderHeader()}
	switch m.mode {
	case HelpMode:
		parts = append(parts, m.renderHelp())
	case FormMode:
		if m.form != nil {
			parts = append(parts, m.styles.Modal.Render(m.form.View()))
		}
	case ConfirmMode:
		if m.confirm != nil {
			parts = append(parts, m.styles.Modal.Render(m.confirm.prompt+"\n\n"+m.styles.Subtle.Render("y to confirm, any other key to cancel")))
		}
	default:
		parts = append(parts, m.renderBoard())
	}

	if t := m.renderToasts(); t != "" {
		parts = append(parts, t)
	}
	parts = append(parts, m.shortHelp())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderHeader() string {
	title := "Pipeline · " + m.ctrl.TenantID()
	if n := m.ctrl.InFlight(); n > 0 {
		title += m.styles.Subtle.Render(fmt.Sprintf("  saving %d…", n))
	}
	switch m.surface.Mode() {
	case dnd.DraggingCard:
		title += m.styles.DropMarker.Render("  [moving deal]")
	case dnd.DraggingColumn:
		title += m.styles.DropMarker.Render("  [moving stage]")
	}
	return m.styles.Header.Render(title)
}

func (m Model) renderBoard() string {
	if len(m.board.Stages) == 0 {
		return m.styles.Subtle.Render(fmt.Sprintf("No stages yet. Press %s to add one.", m.keys.CreateColumn))
	}
	cols := make([]string, len(m.board.Stages))
	for i, s := range m.board.Stages {
		cols[i] = m.renderColumn(i, s)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m Model) renderColumn(idx int, s *models.Stage) string {
	cursor := m.surface.Cursor()
	mode := m.surface.Mode()

	var total int64
	for _, d := range s.Deals {
		total += d.Amount
	}

	titleStyle := m.styles.ColumnTitle
	if s.Color != "" {
		titleStyle = titleStyle.Foreground(lipgloss.Color(s.Color))
	}
	header := titleStyle.Render(fmt.Sprintf("%s (%d)", s.Label, len(s.Deals)))
	if board.IsPlaceholder(s.ID) {
		header = m.styles.Subtle.Render(s.Label + " (saving)")
	}
	lines := []string{header, m.styles.Amount.Render(models.FormatAmount(total))}

	dropRow := -1
	if mode == dnd.DraggingCard && m.surface.Target().Column == idx {
		dropRow = m.surface.Target().Row
	}
	dragged := m.surface.DraggedDealID()

	// While a card is dragged its own column is drawn without it, so the drop
	// marker sits on the same splice index the controller will use.
	row := 0
	for i, d := range s.Deals {
		if d.ID == dragged {
			continue
		}
		if row == dropRow {
			lines = append(lines, m.styles.DropMarker.Render("▸ drop here"))
		}
		focused := mode == dnd.Idle && idx == cursor.Column && i == cursor.Row
		lines = append(lines, m.renderCard(d, focused))
		row++
	}
	if dropRow >= row {
		lines = append(lines, m.styles.DropMarker.Render("▸ drop here"))
	}
	if dragged != "" && s.DealIndex(dragged) >= 0 {
		lines = append(lines, m.renderDraggedCard(s.Deals[s.DealIndex(dragged)]))
	}
	if len(s.Deals) == 0 && dropRow < 0 {
		lines = append(lines, m.styles.Subtle.Render("No deals"))
	}

	style := m.styles.Column
	switch {
	case mode == dnd.DraggingColumn && m.surface.Target().Column == idx:
		style = m.styles.ColumnDrag
	case mode == dnd.Idle && idx == cursor.Column:
		style = m.styles.ColumnFocus
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m Model) renderCard(d *models.Deal, focused bool) string {
	style := m.styles.Card
	if focused {
		style = m.styles.CardFocus
	}
	return style.Render(m.cardContent(d))
}

func (m Model) renderDraggedCard(d *models.Deal) string {
	return m.styles.CardDrag.Render(m.cardContent(d))
}

func (m Model) cardContent(d *models.Deal) string {
	title := truncate(d.Title, cardWidth-2)
	if board.IsPlaceholder(d.ID) {
		title = m.styles.Subtle.Render(title)
	}
	lines := []string{title, m.styles.Amount.Render(models.FormatAmount(d.Amount))}
	if len(d.Tags) > 0 {
		lines = append(lines, m.styles.Subtle.Render(truncate("#"+strings.Join(d.Tags, " #"), cardWidth-2)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderToasts() string {
	if len(m.notices) == 0 {
		return ""
	}
	lines := make([]string, len(m.notices))
	for i, t := range m.notices {
		if t.n.Kind == notify.KindError {
			lines[i] = m.styles.Error.Render("✕ " + t.n.Message)
		} else {
			lines[i] = m.styles.Success.Render("✓ " + t.n.Message)
		}
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
