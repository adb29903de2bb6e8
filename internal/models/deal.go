package models

import "time"

// Deal is a single opportunity card on the pipeline board.
// Amount is expressed in minor currency units (cents).
// A deal has no numeric rank: its order is its index in Stage.Deals.
type Deal struct {
	ID          string     `json:"id"`
	StageID     string     `json:"stage_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Amount      int64      `json:"amount"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Tags        []string   `json:"tags"`
	AssigneeID  string     `json:"assignee_id,omitempty"`
	ContactID   string     `json:"contact_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// DealDraft carries the user-supplied fields of a deal that does not exist yet.
type DealDraft struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Amount      int64      `json:"amount"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Tags        []string   `json:"tags"`
	AssigneeID  string     `json:"assignee_id,omitempty"`
	ContactID   string     `json:"contact_id,omitempty"`
}

// Clone returns a deep copy of the deal.
func (d *Deal) Clone() *Deal {
	if d == nil {
		return nil
	}
	out := *d
	if d.Tags != nil {
		out.Tags = make([]string, len(d.Tags))
		copy(out.Tags, d.Tags)
	}
	if d.DueDate != nil {
		due := *d.DueDate
		out.DueDate = &due
	}
	return &out
}

// GetID returns the deal ID (used by the CLI quiet output mode)
func (d *Deal) GetID() string {
	return d.ID
}

// DealLocation pins a deal to a stage and a list index.
type DealLocation struct {
	StageID string
	Index   int
}
