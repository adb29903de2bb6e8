package stage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/etapa/internal/cli"
)

type compacter interface {
	CompactPositions(ctx context.Context, tenantID string) error
}

// CompactCmd returns the stage compact subcommand
func CompactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compact",
		Short: "Close gaps in stored stage positions",
		Long: `Renumber the tenant's stages 1..N keeping their order.

Examples:
  etapa stage compact --tenant=acme
`,
		Args: cobra.NoArgs,
		RunE: runCompact,
	}

	cli.AddTenantFlag(cmd)
	cli.AddOutputFlags(cmd)
	return cmd
}

func runCompact(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	c, formatter, err := cli.Open(cmd)
	if err != nil {
		return err
	}
	defer cli.CloseQuietly(c)

	store, ok := c.App.Remote.(compacter)
	if !ok {
		return formatter.Fail("UNSUPPORTED", errors.New("this store cannot compact positions"))
	}

	tenant := c.Tenant(cmd)
	if err := store.CompactPositions(ctx, tenant); err != nil {
		return formatter.Fail("", err)
	}
	c.App.Cache.Discard(tenant)

	return formatter.Success("compacted", tenant, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Positions of '%s' compacted\n", tenant)
	})
}
