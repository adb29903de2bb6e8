package models

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var colorHex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidateLabel checks a stage label
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return ErrEmptyLabel
	}
	if utf8.RuneCountInString(label) > MaxLabelLength {
		return ErrLabelTooLong
	}
	return nil
}

// ValidateColor accepts an empty color (no tag) or #RRGGBB
func ValidateColor(color string) error {
	if color == "" || colorHex.MatchString(color) {
		return nil
	}
	return ErrInvalidColor
}

// ValidateDraft checks the user-supplied fields of a new deal
func ValidateDraft(draft DealDraft) error {
	if strings.TrimSpace(draft.Title) == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(draft.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

// NormalizeTags trims, drops empties and de-duplicates tags while keeping
// their first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
