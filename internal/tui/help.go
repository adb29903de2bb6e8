package tui

import (
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/etapa/internal/config"
)

// helpSection groups related key bindings in the help overlay
type helpSection struct {
	title    string
	bindings []key.Binding
}

func binding(k, desc string, extra ...string) key.Binding {
	keys := append([]string{k}, extra...)
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(keys, "/"), desc),
	)
}

// helpSections lists the bindings of km in the order they are shown
func helpSections(km config.KeyMappings) []helpSection {
	return []helpSection{
		{"Navigation", []key.Binding{
			binding(km.PrevColumn, "previous stage", "←"),
			binding(km.NextColumn, "next stage", "→"),
			binding(km.PrevDeal, "previous deal", "↑"),
			binding(km.NextDeal, "next deal", "↓"),
		}},
		{"Drag and drop", []key.Binding{
			binding(km.GrabDeal, "grab deal"),
			binding(km.GrabColumn, "grab stage"),
			binding(km.Drop, "drop"),
			binding(km.Cancel, "cancel drag"),
		}},
		{"Deals", []key.Binding{
			binding(km.AddDeal, "add deal"),
			binding(km.DeleteDeal, "delete deal"),
		}},
		{"Stages", []key.Binding{
			binding(km.CreateColumn, "add stage"),
			binding(km.RenameColumn, "rename stage"),
			binding(km.ArchiveColumn, "archive stage"),
		}},
		{"Other", []key.Binding{
			binding(km.Reload, "reload"),
			binding(km.ShowHelp, "help"),
			binding(km.Quit, "quit"),
		}},
	}
}

func (m Model) renderHelp() string {
	var sections []string
	for _, sec := range helpSections(m.keys) {
		lines := []string{m.styles.ColumnTitle.Render(sec.title)}
		for _, b := range sec.bindings {
			h := b.Help()
			lines = append(lines, m.styles.HelpKey.Width(12).Render(h.Key)+" "+h.Desc)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}
	body := lipgloss.JoinVertical(lipgloss.Left, strings.Join(sections, "\n\n"), "", m.styles.Subtle.Render("press any key to close"))
	return m.styles.Modal.Render(body)
}

// shortHelp is the one-line hint shown under the board
func (m Model) shortHelp() string {
	km := m.keys
	pairs := [][2]string{
		{km.GrabDeal, "grab"},
		{km.GrabColumn, "move stage"},
		{km.AddDeal, "add"},
		{km.ShowHelp, "help"},
		{km.Quit, "quit"},
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, m.styles.HelpKey.Render(p[0])+" "+p[1])
	}
	return strings.Join(parts, "  ")
}
