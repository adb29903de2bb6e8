package stage

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/etapa/internal/cli"
)

// MoveCmd returns the stage move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move a stage to another place in the board",
		Long: `Move the stage at one board place to another, as a drag would.

Places are 1-based, as printed by "etapa stage list". Neighbouring stages
are swapped; longer moves renumber the whole board in one transaction.

Examples:
  # Move the first stage to third place
  etapa stage move --from=1 --to=3
`,
		Args: cobra.NoArgs,
		RunE: runMove,
	}

	cmd.Flags().Int("from", 0, "Current place of the stage (required)")
	cmd.Flags().Int("to", 0, "Target place (required)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	cli.AddTenantFlag(cmd)
	cli.AddOutputFlags(cmd)
	return cmd
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	from, _ := cmd.Flags().GetInt("from")
	to, _ := cmd.Flags().GetInt("to")

	c, formatter, err := cli.Open(cmd)
	if err != nil {
		return err
	}
	defer cli.CloseQuietly(c)

	if from < 1 || to < 1 {
		return formatter.Usage("places are 1-based", "etapa stage move --from=1 --to=3")
	}

	ctrl, err := c.LoadedController(ctx, c.Tenant(cmd))
	if err != nil {
		return formatter.Fail("", err)
	}
	if err := ctrl.ReorderColumns(ctx, from-1, to-1); err != nil {
		return formatter.Fail("", err)
	}

	order := ctrl.Board().StageIDs()
	return formatter.Success("order", order, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Stage moved from place %d to %d\n", from, to)
	})
}
