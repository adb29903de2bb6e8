package tui

import (
	"strings"

	"charm.land/huh/v2"

	"github.com/thenoetrevino/etapa/internal/models"
)

// buildForm creates the huh form for a stage or deal. Fields write straight
// into v.
func buildForm(v *formValues) *huh.Form {
	switch v.kind {
	case addDealForm:
		return huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("New Deal").
				Placeholder("Deal title...").
				Validate(func(s string) error {
					return models.ValidateDraft(models.DealDraft{Title: s})
				}).
				Value(&v.title),
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("0.00").
				Validate(func(s string) error {
					_, err := models.ParseAmount(s)
					return err
				}).
				Value(&v.amount),
			huh.NewInput().
				Key("tags").
				Title("Tags").
				Placeholder("comma separated").
				Value(&v.tags),
		))
	default:
		title := "New Stage"
		if v.kind == renameColumnForm {
			title = "Rename Stage"
		}
		return huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Key("label").
				Title(title).
				Placeholder("Stage label...").
				Validate(models.ValidateLabel).
				Value(&v.label),
			huh.NewInput().
				Key("color").
				Title("Color").
				Placeholder("#RRGGBB (optional)").
				Validate(models.ValidateColor).
				Value(&v.color),
		))
	}
}

func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return models.NormalizeTags(strings.Split(s, ","))
}
