package deal

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/etapa/internal/cli"
	"github.com/thenoetrevino/etapa/internal/models"
)

// MoveCmd returns the deal move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <deal-id>",
		Short: "Move a deal to another stage",
		Long: `Move a deal to a stage, at the given 0-based index or at the bottom.

Examples:
  etapa deal move <deal-id> --to=<stage-id>
  etapa deal move <deal-id> --to=<stage-id> --index=0 --json
`,
		Args: cobra.ExactArgs(1),
		RunE: runMove,
	}

	cmd.Flags().String("to", "", "Target stage ID (required)")
	cmd.Flags().Int("index", -1, "Index in the target stage (default: last)")
	_ = cmd.MarkFlagRequired("to")
	cli.AddTenantFlag(cmd)
	cli.AddOutputFlags(cmd)
	return cmd
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dealID := args[0]
	toStageID, _ := cmd.Flags().GetString("to")
	index, _ := cmd.Flags().GetInt("index")

	c, formatter, err := cli.Open(cmd)
	if err != nil {
		return err
	}
	defer cli.CloseQuietly(c)

	ctrl, err := c.LoadedController(ctx, c.Tenant(cmd))
	if err != nil {
		return formatter.Fail("", err)
	}

	b := ctrl.Board()
	from, ok := b.LocateDeal(dealID)
	if !ok {
		return formatter.Fail("", fmt.Errorf("%w: deal %s", models.ErrNotFound, dealID))
	}
	target := b.Stage(toStageID)
	if target == nil {
		return formatter.Fail("", fmt.Errorf("%w: stage %s", models.ErrNotFound, toStageID))
	}
	if index < 0 {
		index = len(target.Deals)
		if from.StageID == toStageID {
			index--
		}
	}

	if err := ctrl.MoveCard(ctx, dealID, from.StageID, from.Index, toStageID, index); err != nil {
		return formatter.Fail("", err)
	}

	deal := ctrl.Board().Deal(dealID)
	if deal == nil {
		return formatter.Fail("", fmt.Errorf("%w: deal %s", models.ErrNotFound, dealID))
	}
	return formatter.Success("deal", deal, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Deal '%s' moved to stage %s\n", deal.Title, toStageID)
	})
}
