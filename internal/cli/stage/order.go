package stage

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/etapa/internal/cli"
)

// OrderCmd returns the stage order subcommand
func OrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order <stage-id>...",
		Short: "Renumber every stage in the given order",
		Long: `Assign positions 1..N to the listed stages in one transaction.

The ids must be exactly the tenant's live stages.

Examples:
  etapa stage order $(etapa stage list --quiet | tac)
`,
		Args: cobra.MinimumNArgs(1),
		RunE: runOrder,
	}

	cli.AddTenantFlag(cmd)
	cli.AddOutputFlags(cmd)
	return cmd
}

func runOrder(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	c, formatter, err := cli.Open(cmd)
	if err != nil {
		return err
	}
	defer cli.CloseQuietly(c)

	tenant := c.Tenant(cmd)
	if err := c.App.Remote.RenumberPositions(ctx, tenant, args); err != nil {
		return formatter.Fail("", err)
	}
	c.App.Cache.Discard(tenant)

	return formatter.Success("order", args, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Renumbered %d stages\n", len(args))
	})
}
