package board

// MoveEvent is what the drag-and-drop surface reports when a gesture ends.
// It is a closed set: CardMove or ColumnMove.
type MoveEvent interface {
	isMoveEvent()
}

// CardMove reports a deal dragged from one stage list position to another.
// The From fields are the indices seen at drag start; the controller resolves
// the deal's current location by id.
type CardMove struct {
	DealID      string
	FromStageID string
	FromIndex   int
	ToStageID   string
	ToIndex     int
}

// ColumnMove reports a stage dragged from one board index to another
type ColumnMove struct {
	FromIndex int
	ToIndex   int
}

func (CardMove) isMoveEvent()   {}
func (ColumnMove) isMoveEvent() {}

// IsNoop reports whether the gesture ended where it started
func (m CardMove) IsNoop() bool {
	return m.FromStageID == m.ToStageID && m.FromIndex == m.ToIndex
}

// IsNoop reports whether the gesture ended where it started
func (m ColumnMove) IsNoop() bool {
	return m.FromIndex == m.ToIndex
}
