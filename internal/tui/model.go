// Package tui is the terminal board: a bubbletea program that turns key
// presses into drag gestures, applies them through the board controller and
// renders the controller's notifications as toasts.
package tui

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/huh/v2"

	"github.com/thenoetrevino/etapa/internal/board"
	"github.com/thenoetrevino/etapa/internal/config"
	"github.com/thenoetrevino/etapa/internal/dnd"
	"github.com/thenoetrevino/etapa/internal/models"
	"github.com/thenoetrevino/etapa/internal/notify"
)

const (
	defaultToastTTL = 4 * time.Second
	maxToasts       = 3

	// WriteTimeout bounds one background write. Writes outlive the program
	// context so a shutdown does not abandon them half way.
	WriteTimeout = 5 * time.Second
)

// Mode is what the keyboard currently drives
type Mode int

const (
	NormalMode Mode = iota
	HelpMode
	FormMode
	ConfirmMode
)

type formKind int

const (
	addColumnForm formKind = iota
	renameColumnForm
	addDealForm
)

type confirmKind int

const (
	confirmDeleteDeal confirmKind = iota
	confirmArchiveColumn
)

// formValues is shared with the open huh form, which writes into it
type formValues struct {
	kind    formKind
	stageID string
	label   string
	color   string
	title   string
	amount  string
	tags    string
}

type confirmation struct {
	kind     confirmKind
	targetID string
	prompt   string
}

type toast struct {
	n       notify.Notification
	shownAt time.Time
}

// Messages
type (
	boardLoadedMsg struct {
		board *models.Board
		err   error
	}
	resolvedMsg struct {
		op  string
		err error
	}
	expireToastsMsg struct{}
)

// Model is the terminal board state. It is a value type; the controller,
// surface and form values it points to are shared between copies.
type Model struct {
	ctx     context.Context
	ctrl    *board.Controller
	toasts  *notify.MemorySink
	keys    config.KeyMappings
	cfg     *config.Config
	styles  Styles
	surface *dnd.Surface

	board   *models.Board
	loadErr error
	denied  error
	mode    Mode
	form    *huh.Form
	values  *formValues
	confirm *confirmation
	notices []toast

	width    int
	height   int
	toastTTL time.Duration
	now      func() time.Time
}

// Option configures a Model
type Option func(*Model)

// WithToastTTL sets how long a toast stays up. Zero keeps toasts until the
// next key press.
func WithToastTTL(d time.Duration) Option {
	return func(m *Model) {
		m.toastTTL = d
	}
}

// WithClock sets the clock used to age toasts
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		m.now = now
	}
}

// New creates the board model for ctrl. toasts must be the memory sink the
// controller notifies, so its messages can be shown.
func New(ctx context.Context, ctrl *board.Controller, toasts *notify.MemorySink, cfg *config.Config, opts ...Option) Model {
	if cfg == nil {
		cfg = config.Default()
	}
	m := Model{
		ctx:      ctx,
		ctrl:     ctrl,
		toasts:   toasts,
		keys:     cfg.KeyMappings,
		cfg:      cfg,
		styles:   NewStyles(cfg.ColorScheme),
		surface:  dnd.New(),
		toastTTL: defaultToastTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init loads the board
func (m Model) Init() tea.Cmd {
	return m.loadCmd(false)
}

// Mode returns what the keyboard currently drives
func (m Model) Mode() Mode {
	return m.mode
}

// Board returns the board as shown
func (m Model) Board() *models.Board {
	return m.board
}

// Surface exposes the drag surface
func (m Model) Surface() *dnd.Surface {
	return m.surface
}

// Toasts returns the notifications currently on screen, oldest first
func (m Model) Toasts() []notify.Notification {
	out := make([]notify.Notification, len(m.notices))
	for i, t := range m.notices {
		out[i] = t.n
	}
	return out
}

// ============================================================================
// COMMANDS
// ============================================================================

func (m Model) loadCmd(refresh bool) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		var (
			b   *models.Board
			err error
		)
		if refresh {
			b, err = ctrl.Refresh(ctx)
		} else {
			b, err = ctrl.Load(ctx)
		}
		return boardLoadedMsg{board: b, err: err}
	}
}

func resolveCmd(ctx context.Context, p *board.Pending) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), WriteTimeout)
		defer cancel()
		err := p.Resolve(ctx)
		return resolvedMsg{op: p.Op(), err: err}
	}
}

func (m Model) expireCmd() tea.Cmd {
	if m.toastTTL <= 0 {
		return nil
	}
	return tea.Tick(m.toastTTL, func(time.Time) tea.Msg {
		return expireToastsMsg{}
	})
}

// ============================================================================
// STATE HELPERS
// ============================================================================

// syncBoard takes the controller's current board and re-lays the surface
func (m *Model) syncBoard() {
	m.board = m.ctrl.Board()
	m.surface.SetLayout(dnd.LayoutOf(m.board))
}

// begin shows an optimistic change at once and resolves it in the background
func (m *Model) begin(p *board.Pending, err error) tea.Cmd {
	if err != nil {
		return m.pushLocal(notify.KindError, err.Error())
	}
	m.syncBoard()
	if p == nil {
		return nil
	}
	return resolveCmd(m.ctx, p)
}

// collectToasts moves the controller's notifications on screen
func (m *Model) collectToasts() tea.Cmd {
	if m.toasts == nil {
		return nil
	}
	drained := m.toasts.Drain()
	if len(drained) == 0 {
		return nil
	}
	now := m.now()
	for _, n := range drained {
		m.notices = append(m.notices, toast{n: n, shownAt: now})
	}
	m.trimToasts()
	return m.expireCmd()
}

// pushLocal shows a message that did not come from the controller, such as
// a mutation refused before it applied
func (m *Model) pushLocal(kind notify.Kind, message string) tea.Cmd {
	m.notices = append(m.notices, toast{
		n:       notify.Notification{Kind: kind, TenantID: m.ctrl.TenantID(), Message: message, Timestamp: m.now()},
		shownAt: m.now(),
	})
	m.trimToasts()
	return m.expireCmd()
}

func (m *Model) trimToasts() {
	if len(m.notices) > maxToasts {
		m.notices = m.notices[len(m.notices)-maxToasts:]
	}
}

func (m *Model) expireToasts() {
	if m.toastTTL <= 0 {
		return
	}
	cutoff := m.now().Add(-m.toastTTL)
	var kept []toast
	for _, t := range m.notices {
		if t.shownAt.After(cutoff) {
			kept = append(kept, t)
		}
	}
	m.notices = kept
}

func (m Model) selectedStage() *models.Stage {
	if m.board == nil {
		return nil
	}
	return m.board.Stage(m.surface.SelectedStageID())
}
