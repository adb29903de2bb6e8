// Package dnd turns cursor gestures over a board into move events. It owns no
// board data: it works on a Layout snapshot and reports the drop as a
// board.CardMove or board.ColumnMove for the controller to apply.
package dnd

import (
	"fmt"

	"github.com/thenoetrevino/etapa/internal/board"
	"github.com/thenoetrevino/etapa/internal/models"
)

// Mode is the drag state of the surface
type Mode int

const (
	Idle Mode = iota
	DraggingCard
	DraggingColumn
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case DraggingCard:
		return "dragging_card"
	case DraggingColumn:
		return "dragging_column"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Column is one stage as the surface sees it: an id and its deal ids in order
type Column struct {
	ID    string
	Deals []string
}

// LayoutOf extracts the layout of a board
func LayoutOf(b *models.Board) []Column {
	if b == nil {
		return nil
	}
	layout := make([]Column, len(b.Stages))
	for i, s := range b.Stages {
		deals := make([]string, len(s.Deals))
		for j, d := range s.Deals {
			deals[j] = d.ID
		}
		layout[i] = Column{ID: s.ID, Deals: deals}
	}
	return layout
}

// Cursor addresses a column and a row within it
type Cursor struct {
	Column int
	Row    int
}

// Surface tracks the cursor and the gesture in progress
type Surface struct {
	layout []Column
	cursor Cursor
	mode   Mode

	origin Cursor
	dealID string
	target Cursor
}

// New returns an idle surface with the cursor on the first column
func New() *Surface {
	return &Surface{}
}

// SetLayout replaces the layout after the board changed. The cursor and any
// drop target are clamped; a drag whose card or column vanished is canceled.
func (s *Surface) SetLayout(layout []Column) {
	s.layout = layout

	switch s.mode {
	case DraggingCard:
		if col, row, ok := s.findDeal(s.dealID); ok {
			s.origin = Cursor{Column: col, Row: row}
			s.target = s.clampCardTarget(s.target)
		} else {
			s.Cancel()
		}
	case DraggingColumn:
		if s.origin.Column >= len(s.layout) {
			s.Cancel()
		} else {
			s.target.Column = clamp(s.target.Column, 0, len(s.layout)-1)
		}
	}
	s.cursor = s.clampCursor(s.cursor)
}

// Mode returns the current drag mode
func (s *Surface) Mode() Mode {
	return s.mode
}

// Cursor returns the selected column and row
func (s *Surface) Cursor() Cursor {
	return s.cursor
}

// Target returns where the dragged item would land, valid while dragging
func (s *Surface) Target() Cursor {
	return s.target
}

// Origin returns where the drag started, valid while dragging
func (s *Surface) Origin() Cursor {
	return s.origin
}

// DraggedDealID returns the id of the card being dragged, or ""
func (s *Surface) DraggedDealID() string {
	if s.mode != DraggingCard {
		return ""
	}
	return s.dealID
}

// SelectedStageID returns the id of the column under the cursor, or ""
func (s *Surface) SelectedStageID() string {
	if s.cursor.Column >= len(s.layout) {
		return ""
	}
	return s.layout[s.cursor.Column].ID
}

// SelectedDealID returns the id of the deal under the cursor, or ""
func (s *Surface) SelectedDealID() string {
	if s.cursor.Column >= len(s.layout) {
		return ""
	}
	deals := s.layout[s.cursor.Column].Deals
	if s.cursor.Row >= len(deals) {
		return ""
	}
	return deals[s.cursor.Row]
}

// ============================================================================
// NAVIGATION
// ============================================================================

// Left moves the cursor, or the drop target while dragging, one column left
func (s *Surface) Left() { s.step(-1, 0) }

// Right moves the cursor, or the drop target while dragging, one column right
func (s *Surface) Right() { s.step(1, 0) }

// Up moves the cursor, or the card drop target, one row up
func (s *Surface) Up() { s.step(0, -1) }

// Down moves the cursor, or the card drop target, one row down
func (s *Surface) Down() { s.step(0, 1) }

func (s *Surface) step(dc, dr int) {
	switch s.mode {
	case DraggingCard:
		s.target = s.clampCardTarget(Cursor{Column: s.target.Column + dc, Row: s.target.Row + dr})
	case DraggingColumn:
		if len(s.layout) > 0 {
			s.target.Column = clamp(s.target.Column+dc, 0, len(s.layout)-1)
		}
	default:
		s.cursor = s.clampCursor(Cursor{Column: s.cursor.Column + dc, Row: s.cursor.Row + dr})
	}
}

// ============================================================================
// GESTURES
// ============================================================================

// GrabCard starts dragging the deal under the cursor. It reports false when
// there is no deal there or a gesture is already in progress.
func (s *Surface) GrabCard() bool {
	if s.mode != Idle {
		return false
	}
	id := s.SelectedDealID()
	if id == "" {
		return false
	}
	s.mode = DraggingCard
	s.dealID = id
	s.origin = s.cursor
	s.target = s.cursor
	return true
}

// GrabColumn starts dragging the column under the cursor
func (s *Surface) GrabColumn() bool {
	if s.mode != Idle || s.cursor.Column >= len(s.layout) {
		return false
	}
	s.mode = DraggingColumn
	s.origin = Cursor{Column: s.cursor.Column}
	s.target = s.origin
	return true
}

// Drop ends the gesture and returns the move it describes. The cursor
// follows the dropped item. It reports false when nothing was being dragged.
func (s *Surface) Drop() (board.MoveEvent, bool) {
	var ev board.MoveEvent
	switch s.mode {
	case DraggingCard:
		ev = board.CardMove{
			DealID:      s.dealID,
			FromStageID: s.layout[s.origin.Column].ID,
			FromIndex:   s.origin.Row,
			ToStageID:   s.layout[s.target.Column].ID,
			ToIndex:     s.target.Row,
		}
		s.cursor = s.target
	case DraggingColumn:
		ev = board.ColumnMove{FromIndex: s.origin.Column, ToIndex: s.target.Column}
		s.cursor = Cursor{Column: s.target.Column}
	default:
		return nil, false
	}
	s.reset()
	return ev, true
}

// Cancel abandons the gesture; the cursor returns to where it started
func (s *Surface) Cancel() {
	if s.mode == Idle {
		return
	}
	s.cursor = s.clampCursor(s.origin)
	s.reset()
}

func (s *Surface) reset() {
	s.mode = Idle
	s.dealID = ""
	s.origin = Cursor{}
	s.target = Cursor{}
}

// ============================================================================
// CLAMPING
// ============================================================================

func (s *Surface) clampCursor(c Cursor) Cursor {
	if len(s.layout) == 0 {
		return Cursor{}
	}
	c.Column = clamp(c.Column, 0, len(s.layout)-1)
	c.Row = clamp(c.Row, 0, max(len(s.layout[c.Column].Deals)-1, 0))
	return c
}

// clampCardTarget keeps a card target on a valid splice index. In the card's
// own column the card is taken out first, so the last index is one lower.
func (s *Surface) clampCardTarget(c Cursor) Cursor {
	c.Column = clamp(c.Column, 0, len(s.layout)-1)
	limit := len(s.layout[c.Column].Deals)
	if c.Column == s.origin.Column {
		limit--
	}
	c.Row = clamp(c.Row, 0, max(limit, 0))
	return c
}

func (s *Surface) findDeal(id string) (int, int, bool) {
	for col, c := range s.layout {
		for row, d := range c.Deals {
			if d == id {
				return col, row, true
			}
		}
	}
	return 0, 0, false
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
