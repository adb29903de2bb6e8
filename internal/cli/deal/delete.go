package deal

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/etapa/internal/cli"
)

// DeleteCmd returns the deal delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <deal-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a deal",
		Long: `Delete a deal from the board.

Examples:
  etapa deal delete <deal-id>
  etapa deal delete <deal-id> --json
`,
		Args: cobra.ExactArgs(1),
		RunE: runDelete,
	}

	cli.AddTenantFlag(cmd)
	cli.AddOutputFlags(cmd)
	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dealID := args[0]

	c, formatter, err := cli.Open(cmd)
	if err != nil {
		return err
	}
	defer cli.CloseQuietly(c)

	ctrl, err := c.LoadedController(ctx, c.Tenant(cmd))
	if err != nil {
		return formatter.Fail("", err)
	}
	if err := ctrl.DeleteCard(ctx, dealID); err != nil {
		return formatter.Fail("", err)
	}

	return formatter.Success("deleted", dealID, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Deal %s deleted\n", dealID)
	})
}
