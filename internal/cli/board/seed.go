package board

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/etapa/internal/cli"
	"github.com/thenoetrevino/etapa/internal/models"
)

type demoStage struct {
	label string
	color string
	deals []models.DealDraft
}

var demoBoard = []demoStage{
	{"Nouveau", "#3B82F6", []models.DealDraft{
		{Title: "Acme renewal", Amount: 1250000, Tags: []string{"renewal"}},
		{Title: "Globex pilot", Amount: 480000},
	}},
	{"Qualifié", "#EAB308", []models.DealDraft{
		{Title: "Initech expansion", Amount: 2200000, Tags: []string{"upsell", "priority"}},
	}},
	{"Proposition", "#A855F7", []models.DealDraft{
		{Title: "Umbrella audit", Amount: 990000, Description: "Send the **revised** quote before Friday."},
	}},
	{"Gagné", "#22C55E", nil},
}

// SeedCmd returns the board seed subcommand
func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill an empty board with a demo pipeline",
		Long: `Create a few stages and deals to try etapa with.

Refuses to touch a board that already has stages.

Examples:
  etapa board seed --tenant=demo
`,
		Args: cobra.NoArgs,
		RunE: runSeed,
	}

	cli.AddTenantFlag(cmd)
	cli.AddOutputFlags(cmd)
	return cmd
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	c, formatter, err := cli.Open(cmd)
	if err != nil {
		return err
	}
	defer cli.CloseQuietly(c)

	tenant := c.Tenant(cmd)
	ctrl, err := c.LoadedController(ctx, tenant)
	if err != nil {
		return formatter.Fail("", err)
	}
	if n := len(ctrl.Board().Stages); n > 0 {
		return formatter.Fail("", fmt.Errorf("%w: board of '%s' already has %d stages", models.ErrConflict, tenant, n))
	}

	deals := 0
	for _, ds := range demoBoard {
		stage, err := ctrl.AddColumn(ctx, ds.label, ds.color)
		if err != nil {
			return formatter.Fail("", err)
		}
		for _, draft := range ds.deals {
			if _, err := ctrl.AddCard(ctx, stage.ID, draft); err != nil {
				return formatter.Fail("", err)
			}
			deals++
		}
	}

	b := ctrl.Board()
	return formatter.Success("board", b, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Seeded '%s' with %d stages and %d deals\n", tenant, len(b.Stages), deals)
	})
}
