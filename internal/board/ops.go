package board

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/thenoetrevino/etapa/internal/models"
)

// Operation names, used for metrics labels and notifications
const (
	opMoveCard       = "move_card"
	opReorderColumns = "reorder_columns"
	opAddColumn      = "add_column"
	opArchiveColumn  = "archive_column"
	opRenameColumn   = "rename_column"
	opAddCard        = "add_card"
	opDeleteCard     = "delete_card"
)

// PlaceholderPrefix marks ids the controller invented for entities the store
// has not confirmed yet.
const PlaceholderPrefix = "temp-"

// IsPlaceholder reports whether id was minted locally for an unconfirmed entity
func IsPlaceholder(id string) bool {
	return strings.HasPrefix(id, PlaceholderPrefix)
}

// operation is one optimistic mutation. apply must leave the board untouched
// when it fails.
type operation interface {
	name() string
	// apply mutates the controller board before the remote call
	apply(b *models.Board) error
	// call performs the remote mutation
	call(ctx context.Context, r Remote, tenantID string) error
	// commit folds the remote result into the controller board
	commit(b *models.Board)
	// patch reproduces the committed effect on the cached snapshot, placing
	// entities where the controller board holds them now
	patch(cached, current *models.Board) error
	// revert is the compensating inverse of apply
	revert(b *models.Board)
}

func errPending(kind, id string) error {
	return fmt.Errorf("%s %s is not confirmed yet: %w", kind, id, models.ErrConflict)
}

// ============================================================================
// CARD MOVE
// ============================================================================

type cardMoveOp struct {
	ev   CardMove
	from models.DealLocation
}

func (o *cardMoveOp) name() string { return opMoveCard }

func (o *cardMoveOp) apply(b *models.Board) error {
	if IsPlaceholder(o.ev.DealID) {
		return errPending("deal", o.ev.DealID)
	}
	if IsPlaceholder(o.ev.ToStageID) {
		return errPending("stage", o.ev.ToStageID)
	}
	from, err := b.MoveDeal(o.ev.DealID, o.ev.ToStageID, o.ev.ToIndex)
	if err != nil {
		return err
	}
	o.from = from
	return nil
}

func (o *cardMoveOp) call(ctx context.Context, r Remote, _ string) error {
	_, err := r.MoveCard(ctx, o.ev.DealID, o.ev.ToStageID)
	return err
}

func (o *cardMoveOp) commit(*models.Board) {}

func (o *cardMoveOp) patch(cached, current *models.Board) error {
	if cached.Stage(o.ev.ToStageID) == nil {
		return fmt.Errorf("stage %s: %w", o.ev.ToStageID, models.ErrNotFound)
	}
	index := o.ev.ToIndex
	if loc, ok := current.LocateDeal(o.ev.DealID); ok && loc.StageID == o.ev.ToStageID {
		index = cachedDealIndex(cached, current, o.ev.ToStageID, o.ev.DealID)
	}
	_, err := cached.MoveDeal(o.ev.DealID, o.ev.ToStageID, index)
	return err
}

func (o *cardMoveOp) revert(b *models.Board) {
	if b.Stage(o.from.StageID) == nil {
		return
	}
	_, _ = b.MoveDeal(o.ev.DealID, o.from.StageID, o.from.Index)
}

// ============================================================================
// COLUMN MOVE
// ============================================================================

// columnMoveOp moves a stage within the board. Adjacent moves map onto a
// single position swap; longer moves renumber the whole board.
type columnMoveOp struct {
	ev           ColumnMove
	adjacentOnly bool

	swap       bool
	posA, posB int
	order      []string
	before     map[string]int
	after      map[string]int
}

func (o *columnMoveOp) name() string { return opReorderColumns }

func (o *columnMoveOp) apply(b *models.Board) error {
	from, to, n := o.ev.FromIndex, o.ev.ToIndex, len(b.Stages)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: column index out of range (from %d, to %d, %d columns)", models.ErrInvalidArgument, from, to, n)
	}
	distance := from - to
	if distance < 0 {
		distance = -distance
	}
	if o.adjacentOnly && distance > 1 {
		return fmt.Errorf("%w: columns can only move one step at a time", models.ErrInvalidArgument)
	}

	if distance == 1 {
		moved, other := b.Stages[from], b.Stages[to]
		if IsPlaceholder(moved.ID) || IsPlaceholder(other.ID) {
			return errPending("stage", moved.ID)
		}
		o.swap = true
		o.posA, o.posB = moved.Position, other.Position
		o.before = map[string]int{moved.ID: moved.Position, other.ID: other.Position}
		if err := b.MoveStage(from, to); err != nil {
			return err
		}
		moved.Position, other.Position = o.posB, o.posA
		o.after = map[string]int{moved.ID: moved.Position, other.ID: other.Position}
		return nil
	}

	o.before = make(map[string]int, n)
	for _, s := range b.Stages {
		if IsPlaceholder(s.ID) {
			return errPending("stage", s.ID)
		}
		o.before[s.ID] = s.Position
	}
	if err := b.MoveStage(from, to); err != nil {
		return err
	}
	b.RenumberPositions()
	o.order = b.StageIDs()
	o.after = make(map[string]int, n)
	for _, s := range b.Stages {
		o.after[s.ID] = s.Position
	}
	return nil
}

func (o *columnMoveOp) call(ctx context.Context, r Remote, tenantID string) error {
	if o.swap {
		return r.SwapPositions(ctx, tenantID, o.posA, o.posB)
	}
	return r.RenumberPositions(ctx, tenantID, o.order)
}

func (o *columnMoveOp) commit(*models.Board) {}

func (o *columnMoveOp) patch(b, _ *models.Board) error {
	for id := range o.after {
		if b.Stage(id) == nil {
			return fmt.Errorf("stage %s: %w", id, models.ErrNotFound)
		}
	}
	applyPositions(b, o.after)
	return nil
}

func (o *columnMoveOp) revert(b *models.Board) {
	applyPositions(b, o.before)
}

// applyPositions sets the given positions and restores position order
func applyPositions(b *models.Board, positions map[string]int) {
	for _, s := range b.Stages {
		if p, ok := positions[s.ID]; ok {
			s.Position = p
		}
	}
	slices.SortStableFunc(b.Stages, func(x, y *models.Stage) int {
		return cmp.Compare(x.Position, y.Position)
	})
}

// ============================================================================
// ADD / ARCHIVE / RENAME COLUMN
// ============================================================================

type addColumnOp struct {
	label, color string
	tempID       string
	created      *models.Stage
}

func (o *addColumnOp) name() string { return opAddColumn }

func (o *addColumnOp) apply(b *models.Board) error {
	b.InsertStage(len(b.Stages), &models.Stage{
		ID:       o.tempID,
		TenantID: b.TenantID,
		Label:    o.label,
		Color:    o.color,
		Position: b.NextPosition(),
		Deals:    []*models.Deal{},
	})
	return nil
}

func (o *addColumnOp) call(ctx context.Context, r Remote, tenantID string) error {
	created, err := r.CreateColumn(ctx, tenantID, o.label, o.color)
	if err != nil {
		return err
	}
	o.created = created
	return nil
}

// commit swaps the placeholder for the stored stage at the same list index
func (o *addColumnOp) commit(b *models.Board) {
	if i := b.StageIndex(o.tempID); i >= 0 {
		deals := b.Stages[i].Deals
		b.Stages[i] = o.confirmed()
		b.Stages[i].Deals = deals
	}
}

func (o *addColumnOp) patch(cached, current *models.Board) error {
	index := len(cached.Stages)
	if i := current.StageIndex(o.created.ID); i >= 0 {
		index = 0
		for _, s := range current.Stages[:i] {
			if cached.Stage(s.ID) != nil {
				index++
			}
		}
	}
	cached.InsertStage(index, o.confirmed())
	return nil
}

func (o *addColumnOp) revert(b *models.Board) {
	b.RemoveStage(o.tempID)
}

func (o *addColumnOp) confirmed() *models.Stage {
	s := o.created.Clone()
	s.Deals = []*models.Deal{}
	return s
}

type archiveColumnOp struct {
	stageID string
	policy  models.ArchivePolicy

	removed *models.Stage
	index   int
	moved   []string
}

func (o *archiveColumnOp) name() string { return opArchiveColumn }

func (o *archiveColumnOp) apply(b *models.Board) error {
	if IsPlaceholder(o.stageID) {
		return errPending("stage", o.stageID)
	}
	removed, index, moved, err := archiveStage(b, o.stageID, o.policy)
	if err != nil {
		return err
	}
	o.removed, o.index, o.moved = removed, index, moved
	return nil
}

func (o *archiveColumnOp) call(ctx context.Context, r Remote, _ string) error {
	return r.ArchiveColumn(ctx, o.stageID)
}

func (o *archiveColumnOp) commit(*models.Board) {}

func (o *archiveColumnOp) patch(b, _ *models.Board) error {
	_, _, _, err := archiveStage(b, o.stageID, o.policy)
	return err
}

// revert takes reassigned deals back and reinserts the stage at its old index
func (o *archiveColumnOp) revert(b *models.Board) {
	if b.Stage(o.stageID) != nil {
		return
	}
	for _, id := range o.moved {
		b.RemoveDeal(id)
	}
	b.InsertStage(o.index, o.removed.Clone())
}

// archiveStage removes a stage from the board and applies the archive policy
// to its deals. It returns a copy of the stage as it was, its index, and the
// ids of deals handed to another stage.
func archiveStage(b *models.Board, stageID string, policy models.ArchivePolicy) (*models.Stage, int, []string, error) {
	if b.Stage(stageID) == nil {
		return nil, 0, nil, fmt.Errorf("stage %s: %w", stageID, models.ErrNotFound)
	}
	removed, index := b.RemoveStage(stageID)
	snapshot := removed.Clone()

	var moved []string
	if policy == models.ArchiveReassignDeals {
		if heir := firstConfirmedStage(b); heir != nil {
			for _, d := range removed.Deals {
				d.StageID = heir.ID
				heir.Deals = append(heir.Deals, d)
				moved = append(moved, d.ID)
			}
		}
	}
	return snapshot, index, moved, nil
}

func firstConfirmedStage(b *models.Board) *models.Stage {
	for _, s := range b.Stages {
		if !IsPlaceholder(s.ID) {
			return s
		}
	}
	return nil
}

type renameColumnOp struct {
	stageID      string
	label, color string

	oldLabel, oldColor string
}

func (o *renameColumnOp) name() string { return opRenameColumn }

func (o *renameColumnOp) apply(b *models.Board) error {
	if IsPlaceholder(o.stageID) {
		return errPending("stage", o.stageID)
	}
	s := b.Stage(o.stageID)
	if s == nil {
		return fmt.Errorf("stage %s: %w", o.stageID, models.ErrNotFound)
	}
	o.oldLabel, o.oldColor = s.Label, s.Color
	s.Label, s.Color = o.label, o.color
	return nil
}

func (o *renameColumnOp) call(ctx context.Context, r Remote, _ string) error {
	_, err := r.RenameColumn(ctx, o.stageID, o.label, o.color)
	return err
}

func (o *renameColumnOp) commit(*models.Board) {}

func (o *renameColumnOp) patch(b, _ *models.Board) error {
	s := b.Stage(o.stageID)
	if s == nil {
		return fmt.Errorf("stage %s: %w", o.stageID, models.ErrNotFound)
	}
	s.Label, s.Color = o.label, o.color
	return nil
}

func (o *renameColumnOp) revert(b *models.Board) {
	if s := b.Stage(o.stageID); s != nil {
		s.Label, s.Color = o.oldLabel, o.oldColor
	}
}

// ============================================================================
// ADD / DELETE CARD
// ============================================================================

type addCardOp struct {
	stageID string
	draft   models.DealDraft
	tempID  string
	deal    *models.Deal
	created *models.Deal
}

func (o *addCardOp) name() string { return opAddCard }

func (o *addCardOp) apply(b *models.Board) error {
	if IsPlaceholder(o.stageID) {
		return errPending("stage", o.stageID)
	}
	s := b.Stage(o.stageID)
	if s == nil {
		return fmt.Errorf("stage %s: %w", o.stageID, models.ErrNotFound)
	}
	return b.InsertDeal(o.stageID, len(s.Deals), o.deal.Clone())
}

func (o *addCardOp) call(ctx context.Context, r Remote, _ string) error {
	created, err := r.CreateCard(ctx, o.stageID, o.draft)
	if err != nil {
		return err
	}
	o.created = created
	return nil
}

// commit swaps the placeholder for the stored deal at the same list index
func (o *addCardOp) commit(b *models.Board) {
	if loc, ok := b.LocateDeal(o.tempID); ok {
		b.Stage(loc.StageID).Deals[loc.Index] = o.created.Clone()
	}
}

func (o *addCardOp) patch(cached, current *models.Board) error {
	s := cached.Stage(o.stageID)
	if s == nil {
		return fmt.Errorf("stage %s: %w", o.stageID, models.ErrNotFound)
	}
	index := len(s.Deals)
	if loc, ok := current.LocateDeal(o.created.ID); ok && loc.StageID == o.stageID {
		index = cachedDealIndex(cached, current, o.stageID, o.created.ID)
	}
	return cached.InsertDeal(o.stageID, index, o.created.Clone())
}

// cachedDealIndex returns where dealID belongs in the cached stage: after
// every deal that precedes it on the controller board and is already cached.
// Unconfirmed or still pending neighbours are skipped.
func cachedDealIndex(cached, current *models.Board, stageID, dealID string) int {
	cachedStage := cached.Stage(stageID)
	index := 0
	for _, d := range current.Stage(stageID).Deals {
		if d.ID == dealID {
			break
		}
		if cachedStage.DealIndex(d.ID) >= 0 {
			index++
		}
	}
	return index
}

func (o *addCardOp) revert(b *models.Board) {
	b.RemoveDeal(o.tempID)
}

type deleteCardOp struct {
	dealID string

	removed *models.Deal
	from    models.DealLocation
}

func (o *deleteCardOp) name() string { return opDeleteCard }

func (o *deleteCardOp) apply(b *models.Board) error {
	if IsPlaceholder(o.dealID) {
		return errPending("deal", o.dealID)
	}
	deal, from := b.RemoveDeal(o.dealID)
	if deal == nil {
		return fmt.Errorf("deal %s: %w", o.dealID, models.ErrNotFound)
	}
	o.removed, o.from = deal.Clone(), from
	return nil
}

func (o *deleteCardOp) call(ctx context.Context, r Remote, _ string) error {
	return r.DeleteCard(ctx, o.dealID)
}

func (o *deleteCardOp) commit(*models.Board) {}

func (o *deleteCardOp) patch(b, _ *models.Board) error {
	if deal, _ := b.RemoveDeal(o.dealID); deal == nil {
		return fmt.Errorf("deal %s: %w", o.dealID, models.ErrNotFound)
	}
	return nil
}

func (o *deleteCardOp) revert(b *models.Board) {
	if b.Deal(o.dealID) != nil || b.Stage(o.from.StageID) == nil {
		return
	}
	_ = b.InsertDeal(o.from.StageID, o.from.Index, o.removed.Clone())
}
