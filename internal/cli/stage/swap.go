package stage

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/etapa/internal/cli"
)

// SwapCmd returns the stage swap subcommand
func SwapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap <position-a> <position-b>",
		Short: "Swap the stages at two stored positions",
		Long: `Exchange the stored positions of two stages atomically.

Examples:
  etapa stage swap 1 2
  etapa stage swap 2 5 --tenant=acme --json
`,
		Args: cobra.ExactArgs(2),
		RunE: runSwap,
	}

	cli.AddTenantFlag(cmd)
	cli.AddOutputFlags(cmd)
	return cmd
}

func runSwap(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	c, formatter, err := cli.Open(cmd)
	if err != nil {
		return err
	}
	defer cli.CloseQuietly(c)

	a, errA := strconv.Atoi(args[0])
	b, errB := strconv.Atoi(args[1])
	if errA != nil || errB != nil {
		return formatter.Usage("positions must be integers", "etapa stage swap 1 2")
	}

	tenant := c.Tenant(cmd)
	if err := c.App.Remote.SwapPositions(ctx, tenant, a, b); err != nil {
		return formatter.Fail("", err)
	}
	c.App.Cache.Discard(tenant)

	return formatter.Success("swapped", []int{a, b}, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Swapped positions %d and %d\n", a, b)
	})
}
