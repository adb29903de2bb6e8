package models

import "fmt"

// Board is the full ordered pipeline of one tenant: stages in position order,
// each carrying its deals in list order. It is the unit held by the board
// controller and by the read-through cache.
type Board struct {
	TenantID string   `json:"tenant_id"`
	Stages   []*Stage `json:"stages"`
}

// NewBoard builds a board; a nil stage list becomes an empty one
func NewBoard(tenantID string, stages []*Stage) *Board {
	if stages == nil {
		stages = []*Stage{}
	}
	return &Board{TenantID: tenantID, Stages: stages}
}

// Clone returns a deep copy: mutating the copy never affects the original.
func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	out := &Board{TenantID: b.TenantID, Stages: make([]*Stage, len(b.Stages))}
	for i, s := range b.Stages {
		out.Stages[i] = s.Clone()
	}
	return out
}

// StageIndex returns the list index of a stage, or -1
func (b *Board) StageIndex(stageID string) int {
	for i, s := range b.Stages {
		if s.ID == stageID {
			return i
		}
	}
	return -1
}

// Stage returns the stage with the given id, or nil
func (b *Board) Stage(stageID string) *Stage {
	if i := b.StageIndex(stageID); i >= 0 {
		return b.Stages[i]
	}
	return nil
}

// LocateDeal finds the current stage and list index of a deal
func (b *Board) LocateDeal(dealID string) (DealLocation, bool) {
	for _, s := range b.Stages {
		if i := s.DealIndex(dealID); i >= 0 {
			return DealLocation{StageID: s.ID, Index: i}, true
		}
	}
	return DealLocation{}, false
}

// Deal returns the deal with the given id, or nil
func (b *Board) Deal(dealID string) *Deal {
	loc, ok := b.LocateDeal(dealID)
	if !ok {
		return nil
	}
	return b.Stage(loc.StageID).Deals[loc.Index]
}

// StageIDs returns the stage ids in board order
func (b *Board) StageIDs() []string {
	ids := make([]string, len(b.Stages))
	for i, s := range b.Stages {
		ids[i] = s.ID
	}
	return ids
}

// NextPosition returns the position a new stage appended to the board gets
func (b *Board) NextPosition() int {
	next := FirstPosition
	for _, s := range b.Stages {
		if s.Position >= next {
			next = s.Position + 1
		}
	}
	return next
}

// ============================================================================
// SPLICE OPERATIONS
// ============================================================================

// MoveDeal removes a deal from wherever it currently is and inserts it into
// toStageID at toIndex. The source index is resolved from the current board,
// not from a caller-supplied index. toIndex is clamped to the valid range.
// It returns the location the deal was taken from.
func (b *Board) MoveDeal(dealID, toStageID string, toIndex int) (DealLocation, error) {
	from, ok := b.LocateDeal(dealID)
	if !ok {
		return DealLocation{}, fmt.Errorf("deal %s: %w", dealID, ErrNotFound)
	}
	target := b.Stage(toStageID)
	if target == nil {
		return DealLocation{}, fmt.Errorf("stage %s: %w", toStageID, ErrNotFound)
	}
	deal, _ := b.RemoveDeal(dealID)
	deal.StageID = toStageID
	target.Deals = insertAt(target.Deals, clamp(toIndex, 0, len(target.Deals)), deal)
	return from, nil
}

// RemoveDeal takes a deal out of the board and returns it with its old location
func (b *Board) RemoveDeal(dealID string) (*Deal, DealLocation) {
	loc, ok := b.LocateDeal(dealID)
	if !ok {
		return nil, DealLocation{}
	}
	s := b.Stage(loc.StageID)
	deal := s.Deals[loc.Index]
	s.Deals = append(s.Deals[:loc.Index], s.Deals[loc.Index+1:]...)
	return deal, loc
}

// InsertDeal places a deal into a stage at index (clamped)
func (b *Board) InsertDeal(stageID string, index int, deal *Deal) error {
	s := b.Stage(stageID)
	if s == nil {
		return fmt.Errorf("stage %s: %w", stageID, ErrNotFound)
	}
	deal.StageID = stageID
	s.Deals = insertAt(s.Deals, clamp(index, 0, len(s.Deals)), deal)
	return nil
}

// MoveStage splices the stage at index from to index to. Positions are left
// untouched; callers decide how stored positions follow the new order.
func (b *Board) MoveStage(from, to int) error {
	if from < 0 || from >= len(b.Stages) || to < 0 || to >= len(b.Stages) {
		return fmt.Errorf("%w: stage index out of range (from %d, to %d, %d stages)", ErrInvalidArgument, from, to, len(b.Stages))
	}
	s := b.Stages[from]
	b.Stages = append(b.Stages[:from], b.Stages[from+1:]...)
	b.Stages = insertAt(b.Stages, to, s)
	return nil
}

// InsertStage places a stage at index (clamped)
func (b *Board) InsertStage(index int, s *Stage) {
	b.Stages = insertAt(b.Stages, clamp(index, 0, len(b.Stages)), s)
}

// RemoveStage takes a stage out of the board and returns it with its old index
func (b *Board) RemoveStage(stageID string) (*Stage, int) {
	i := b.StageIndex(stageID)
	if i < 0 {
		return nil, -1
	}
	s := b.Stages[i]
	b.Stages = append(b.Stages[:i], b.Stages[i+1:]...)
	return s, i
}

// RenumberPositions assigns 1..n to the stages in board order
func (b *Board) RenumberPositions() {
	for i, s := range b.Stages {
		s.Position = FirstPosition + i
	}
}

// ============================================================================
// INVARIANTS
// ============================================================================

// Validate checks the board invariants: every stage position is valid and
// unique, and every deal appears in exactly one stage whose id it references.
func (b *Board) Validate() error {
	positions := make(map[int]string, len(b.Stages))
	owners := make(map[string]string)
	for _, s := range b.Stages {
		if s.Position < FirstPosition {
			return fmt.Errorf("stage %s has invalid position %d", s.ID, s.Position)
		}
		if other, dup := positions[s.Position]; dup {
			return fmt.Errorf("stages %s and %s share position %d", other, s.ID, s.Position)
		}
		positions[s.Position] = s.ID
		for _, d := range s.Deals {
			if owner, dup := owners[d.ID]; dup {
				return fmt.Errorf("deal %s appears in stages %s and %s", d.ID, owner, s.ID)
			}
			owners[d.ID] = s.ID
			if d.StageID != s.ID {
				return fmt.Errorf("deal %s references stage %s but is listed in %s", d.ID, d.StageID, s.ID)
			}
		}
	}
	return nil
}

func insertAt[T any](list []T, index int, item T) []T {
	list = append(list, item)
	copy(list[index+1:], list[index:])
	list[index] = item
	return list
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
