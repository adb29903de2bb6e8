package models

import "fmt"

// ============================================================================
// POSITION CONSTANTS
// ============================================================================

// FirstPosition is the position of the leftmost stage of a board
const FirstPosition = 1

// SentinelPosition parks a stage during a swap. Valid positions are always
// >= FirstPosition so the sentinel can never collide with a live stage.
const SentinelPosition = -1

// ============================================================================
// VALIDATION LIMITS
// ============================================================================

const (
	MaxLabelLength = 50
	MaxTitleLength = 255
)

// ============================================================================
// ARCHIVE POLICY
// ============================================================================

// ArchivePolicy decides what happens to the deals of an archived stage.
type ArchivePolicy string

const (
	// ArchiveDeleteDeals deletes the deals held by the archived stage
	ArchiveDeleteDeals ArchivePolicy = "delete"
	// ArchiveReassignDeals appends the deals to the first remaining stage
	// (lowest position); they are deleted when no stage remains
	ArchiveReassignDeals ArchivePolicy = "reassign"
)

// ParseArchivePolicy maps a configuration string to an ArchivePolicy.
// The empty string selects ArchiveDeleteDeals.
func ParseArchivePolicy(s string) (ArchivePolicy, error) {
	switch ArchivePolicy(s) {
	case "", ArchiveDeleteDeals:
		return ArchiveDeleteDeals, nil
	case ArchiveReassignDeals:
		return ArchiveReassignDeals, nil
	default:
		return "", fmt.Errorf("%w: unknown archive policy %q (must be: delete, reassign)", ErrInvalidArgument, s)
	}
}
