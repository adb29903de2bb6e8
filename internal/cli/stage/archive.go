package stage

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/etapa/internal/cli"
	"github.com/thenoetrevino/etapa/internal/models"
)

// ArchiveCmd returns the stage archive subcommand
func ArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "archive <stage-id>",
		Aliases: []string{"delete"},
		Short:   "Archive a stage",
		Long: `Archive a stage and close the gap it leaves in the board order.

What happens to its deals depends on board.archive_policy: "delete" removes
them, "reassign" moves them to the first remaining stage.

Examples:
  etapa stage archive 3f2c...
  etapa stage archive 3f2c... --json
`,
		Args: cobra.ExactArgs(1),
		RunE: runArchive,
	}

	cli.AddTenantFlag(cmd)
	cli.AddOutputFlags(cmd)
	return cmd
}

func runArchive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	stageID := args[0]

	c, formatter, err := cli.Open(cmd)
	if err != nil {
		return err
	}
	defer cli.CloseQuietly(c)

	ctrl, err := c.LoadedController(ctx, c.Tenant(cmd))
	if err != nil {
		return formatter.Fail("", err)
	}
	stage := ctrl.Board().Stage(stageID)
	if stage == nil {
		return formatter.Fail("STAGE_NOT_FOUND", fmt.Errorf("%w: stage %s", models.ErrNotFound, stageID))
	}
	if err := ctrl.ArchiveColumn(ctx, stageID); err != nil {
		return formatter.Fail("", err)
	}

	policy := c.App.Config.ArchivePolicy()
	return formatter.Success("archived", map[string]any{"id": stageID, "deals": len(stage.Deals), "policy": policy}, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Stage '%s' archived\n", stage.Label)
		if n := len(stage.Deals); n > 0 {
			if policy == models.ArchiveReassignDeals {
				fmt.Fprintf(w, "  %d deals moved to the first stage\n", n)
			} else {
				fmt.Fprintf(w, "  %d deals deleted\n", n)
			}
		}
	})
}
