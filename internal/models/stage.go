package models

// Stage is a pipeline column (e.g., "Nouveau", "Qualifié", "Gagné").
// Position is 1-based and unique among a tenant's non-archived stages.
// Deals holds the stage's cards in rendering order; membership is owned by
// each deal's StageID, the slice only carries the order.
type Stage struct {
	ID       string  `json:"id"`
	TenantID string  `json:"tenant_id"`
	Label    string  `json:"label"`
	Color    string  `json:"color,omitempty"`
	Position int     `json:"position"`
	Deals    []*Deal `json:"deals"`
}

// Clone returns a deep copy of the stage and its deals.
func (s *Stage) Clone() *Stage {
	if s == nil {
		return nil
	}
	out := *s
	out.Deals = make([]*Deal, len(s.Deals))
	for i, d := range s.Deals {
		out.Deals[i] = d.Clone()
	}
	return &out
}

// DealIndex returns the list index of a deal in this stage, or -1.
func (s *Stage) DealIndex(dealID string) int {
	for i, d := range s.Deals {
		if d.ID == dealID {
			return i
		}
	}
	return -1
}

// GetID returns the stage ID (used by the CLI quiet output mode)
func (s *Stage) GetID() string {
	return s.ID
}
