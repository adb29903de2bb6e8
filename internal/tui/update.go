package tui

import (
	"errors"
	"log/slog"

	tea "charm.land/bubbletea/v2"
	"charm.land/huh/v2"

	"github.com/thenoetrevino/etapa/internal/dnd"
	"github.com/thenoetrevino/etapa/internal/models"
	"github.com/thenoetrevino/etapa/internal/notify"
)

// Update handles all messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case boardLoadedMsg:
		if msg.err != nil {
			m.loadErr = msg.err
			slog.Error("failed to load board", "tenant", m.ctrl.TenantID(), "error", msg.err)
			return m, m.pushLocal(notify.KindError, msg.err.Error())
		}
		m.loadErr = nil
		m.board = msg.board
		m.surface.SetLayout(dnd.LayoutOf(m.board))
		return m, nil

	case resolvedMsg:
		if msg.err != nil {
			slog.Debug("mutation rolled back", "op", msg.op, "error", msg.err)
		}
		m.syncBoard()
		if errors.Is(msg.err, models.ErrUnauthorized) && m.denied == nil {
			return m.deny(msg.err)
		}
		return m, m.collectToasts()

	case expireToastsMsg:
		m.expireToasts()
		return m, nil
	}

	if m.denied != nil {
		if _, ok := msg.(tea.KeyPressMsg); ok {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.mode == FormMode {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyPressMsg); ok {
		if m.toastTTL <= 0 {
			m.notices = nil
		}
		switch m.mode {
		case HelpMode:
			m.mode = NormalMode
			return m, nil
		case ConfirmMode:
			return m.handleConfirmKey(msg)
		default:
			if m.surface.Mode() != dnd.Idle {
				return m.handleDragKey(msg)
			}
			return m.handleNormalKey(msg)
		}
	}
	return m, nil
}

// ============================================================================
// NORMAL MODE
// ============================================================================

func (m Model) handleNormalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	km := m.keys
	switch msg.String() {
	case km.Quit, "ctrl+c":
		return m.quit()
	case km.ShowHelp:
		m.mode = HelpMode
	case km.PrevColumn, "left":
		m.surface.Left()
	case km.NextColumn, "right":
		m.surface.Right()
	case km.PrevDeal, "up":
		m.surface.Up()
	case km.NextDeal, "down":
		m.surface.Down()
	case km.GrabDeal:
		m.surface.GrabCard()
	case km.GrabColumn:
		m.surface.GrabColumn()
	case km.AddDeal:
		return m.openForm(addDealForm)
	case km.CreateColumn:
		return m.openForm(addColumnForm)
	case km.RenameColumn:
		return m.openForm(renameColumnForm)
	case km.DeleteDeal:
		m.askConfirm(confirmDeleteDeal)
	case km.ArchiveColumn:
		m.askConfirm(confirmArchiveColumn)
	case km.Reload:
		if n := m.ctrl.InFlight(); n > 0 {
			return m, m.pushLocal(notify.KindError, "reload postponed: changes still saving")
		}
		return m, m.loadCmd(true)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.surface.Cancel()
	// In-flight operations still settle in the cache, without toasts
	m.ctrl.Detach()
	return m, tea.Quit
}

// deny stops editing once the store refuses the tenant. Writes already in
// flight settle without toasts; the next key press quits.
func (m Model) deny(err error) (tea.Model, tea.Cmd) {
	slog.Warn("access denied, board is read only", "tenant", m.ctrl.TenantID(), "error", err)
	m.surface.Cancel()
	m.ctrl.Detach()
	m.mode = NormalMode
	m.form, m.confirm = nil, nil
	m.denied = err
	return m, m.collectToasts()
}

// ============================================================================
// DRAGGING
// ============================================================================

func (m Model) handleDragKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	km := m.keys
	key := msg.String()
	switch {
	case key == km.Quit || key == "ctrl+c":
		return m.quit()
	case key == km.Cancel:
		m.surface.Cancel()
	case key == km.PrevColumn || key == "left":
		m.surface.Left()
	case key == km.NextColumn || key == "right":
		m.surface.Right()
	case key == km.PrevDeal || key == "up":
		m.surface.Up()
	case key == km.NextDeal || key == "down":
		m.surface.Down()
	case key == km.Drop,
		key == km.GrabDeal && m.surface.Mode() == dnd.DraggingCard,
		key == km.GrabColumn && m.surface.Mode() == dnd.DraggingColumn:
		ev, ok := m.surface.Drop()
		if !ok {
			return m, nil
		}
		return m, m.begin(m.ctrl.Begin(ev))
	}
	return m, nil
}

// ============================================================================
// CONFIRMATIONS
// ============================================================================

func (m *Model) askConfirm(kind confirmKind) {
	switch kind {
	case confirmDeleteDeal:
		id := m.surface.SelectedDealID()
		if id == "" {
			return
		}
		title := id
		if loc, ok := m.board.LocateDeal(id); ok {
			title = m.board.Stage(loc.StageID).Deals[loc.Index].Title
		}
		m.confirm = &confirmation{kind: kind, targetID: id, prompt: "Delete deal \"" + title + "\"?"}
	case confirmArchiveColumn:
		stage := m.selectedStage()
		if stage == nil {
			return
		}
		prompt := "Archive stage \"" + stage.Label + "\"?"
		if len(stage.Deals) > 0 {
			if m.cfg.ArchivePolicy() == models.ArchiveReassignDeals {
				prompt += " Its deals move to the first stage."
			} else {
				prompt += " Its deals are deleted."
			}
		}
		m.confirm = &confirmation{kind: kind, targetID: stage.ID, prompt: prompt}
	}
	m.mode = ConfirmMode
}

func (m Model) handleConfirmKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	c := m.confirm
	m.confirm = nil
	m.mode = NormalMode
	if c == nil || (msg.String() != "y" && msg.String() != "Y") {
		return m, nil
	}
	switch c.kind {
	case confirmDeleteDeal:
		return m, m.begin(m.ctrl.BeginDeleteCard(c.targetID))
	case confirmArchiveColumn:
		return m, m.begin(m.ctrl.BeginArchiveColumn(c.targetID))
	}
	return m, nil
}

// ============================================================================
// FORMS
// ============================================================================

func (m Model) openForm(kind formKind) (tea.Model, tea.Cmd) {
	values := &formValues{kind: kind}
	stage := m.selectedStage()

	switch kind {
	case addDealForm, renameColumnForm:
		if stage == nil {
			return m, nil
		}
		values.stageID = stage.ID
		if kind == renameColumnForm {
			values.label, values.color = stage.Label, stage.Color
		}
	}

	m.values = values
	m.form = buildForm(values).WithTheme(formTheme(m.cfg.ColorScheme))
	m.mode = FormMode
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.mode = NormalMode
		return m, nil
	}
	if key, ok := msg.(tea.KeyPressMsg); ok && key.String() == m.keys.Cancel {
		m.closeForm()
		return m, nil
	}

	model, cmd := m.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		values := *m.values
		m.closeForm()
		return m, m.submitForm(values)
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	}
	return m, cmd
}

func (m *Model) closeForm() {
	m.form = nil
	m.values = nil
	m.mode = NormalMode
}

// submitForm begins the mutation a completed form describes
func (m *Model) submitForm(v formValues) tea.Cmd {
	switch v.kind {
	case addColumnForm:
		return m.begin(m.ctrl.BeginAddColumn(v.label, v.color))
	case renameColumnForm:
		return m.begin(m.ctrl.BeginRenameColumn(v.stageID, v.label, v.color))
	case addDealForm:
		amount, err := models.ParseAmount(v.amount)
		if err != nil {
			return m.pushLocal(notify.KindError, err.Error())
		}
		draft := models.DealDraft{Title: v.title, Amount: amount, Tags: splitTags(v.tags)}
		return m.begin(m.ctrl.BeginAddCard(v.stageID, draft))
	}
	return nil
}
