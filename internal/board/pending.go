package board

import (
	"context"
	"fmt"

	"github.com/thenoetrevino/etapa/internal/models"
)

// State is where a single operation stands
type State int

const (
	Idle State = iota
	OptimisticallyApplied
	Committed
	RolledBack
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case OptimisticallyApplied:
		return "optimistically_applied"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled_back"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Pending is an optimistically applied operation awaiting its remote outcome.
// It holds the board exactly as it was before this operation applied.
type Pending struct {
	c              *Controller
	op             operation
	snapshot       *models.Board
	appliedVersion uint64
	state          State
	resolving      bool
}

// Resolve performs the remote call and commits or rolls back. It must be
// called exactly once; the returned error carries the failure kind.
func (p *Pending) Resolve(ctx context.Context) error {
	p.c.mu.Lock()
	if p.resolving {
		state := p.state
		p.c.mu.Unlock()
		return fmt.Errorf("%s: already resolved (%s)", p.op.name(), state)
	}
	p.resolving = true
	p.c.mu.Unlock()

	return p.c.resolve(ctx, p)
}

// State returns where the operation stands
func (p *Pending) State() State {
	p.c.mu.Lock()
	defer p.c.mu.Unlock()
	return p.state
}

// Op names the operation, e.g. "move_card"
func (p *Pending) Op() string {
	return p.op.name()
}

// ============================================================================
// SYNCHRONOUS HELPERS
// ============================================================================

func run(ctx context.Context, p *Pending, err error) error {
	if err != nil || p == nil {
		return err
	}
	return p.Resolve(ctx)
}

// MoveCard moves a deal to toStageID at toIndex. The from coordinates are the
// ones reported at drag start and only serve to detect a no-op.
func (c *Controller) MoveCard(ctx context.Context, dealID, fromStageID string, fromIndex int, toStageID string, toIndex int) error {
	p, err := c.Begin(CardMove{DealID: dealID, FromStageID: fromStageID, FromIndex: fromIndex, ToStageID: toStageID, ToIndex: toIndex})
	return run(ctx, p, err)
}

// ReorderColumns moves the stage at board index fromIndex to toIndex
func (c *Controller) ReorderColumns(ctx context.Context, fromIndex, toIndex int) error {
	p, err := c.Begin(ColumnMove{FromIndex: fromIndex, ToIndex: toIndex})
	return run(ctx, p, err)
}

// AddColumn appends a stage and returns it as stored
func (c *Controller) AddColumn(ctx context.Context, label, color string) (*models.Stage, error) {
	p, err := c.BeginAddColumn(label, color)
	if err := run(ctx, p, err); err != nil {
		return nil, err
	}
	return p.op.(*addColumnOp).created.Clone(), nil
}

// ArchiveColumn removes a stage from the board
func (c *Controller) ArchiveColumn(ctx context.Context, stageID string) error {
	p, err := c.BeginArchiveColumn(stageID)
	return run(ctx, p, err)
}

// RenameColumn changes a stage's label and color
func (c *Controller) RenameColumn(ctx context.Context, stageID, label, color string) error {
	p, err := c.BeginRenameColumn(stageID, label, color)
	return run(ctx, p, err)
}

// AddCard appends a deal to a stage and returns it as stored
func (c *Controller) AddCard(ctx context.Context, stageID string, draft models.DealDraft) (*models.Deal, error) {
	p, err := c.BeginAddCard(stageID, draft)
	if err := run(ctx, p, err); err != nil {
		return nil, err
	}
	return p.op.(*addCardOp).created.Clone(), nil
}

// DeleteCard removes a deal
func (c *Controller) DeleteCard(ctx context.Context, dealID string) error {
	p, err := c.BeginDeleteCard(dealID)
	return run(ctx, p, err)
}
