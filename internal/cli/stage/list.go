package stage

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/etapa/internal/cli"
	"github.com/thenoetrevino/etapa/internal/cli/styles"
	"github.com/thenoetrevino/etapa/internal/models"
)

// ListCmd returns the stage list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stages in board order",
		Long: `List the tenant's stages in position order.

Examples:
  # Human-readable list
  etapa stage list

  # JSON output for agents
  etapa stage list --tenant=acme --json

  # Quiet mode (one ID per line)
  etapa stage list --quiet
`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	cli.AddTenantFlag(cmd)
	cli.AddOutputFlags(cmd)
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	c, formatter, err := cli.Open(cmd)
	if err != nil {
		return err
	}
	defer cli.CloseQuietly(c)

	tenant := c.Tenant(cmd)
	stages, err := c.App.Remote.ListColumnsOrdered(ctx, tenant)
	if errors.Is(err, models.ErrNotFound) {
		stages, err = []*models.Stage{}, nil
	}
	if err != nil {
		return formatter.Fail("STAGE_FETCH_ERROR", err)
	}

	if formatter.Quiet {
		ids := make([]string, len(stages))
		for i, s := range stages {
			ids[i] = s.ID
		}
		return formatter.Success("", ids, nil)
	}

	return formatter.Success("stages", stages, func(w io.Writer) {
		if len(stages) == 0 {
			fmt.Fprintf(w, "No stages found for tenant '%s'\n", tenant)
			return
		}
		fmt.Fprintf(w, "Stages of '%s':\n", tenant)
		for i, s := range stages {
			fmt.Fprintf(w, "  %d. %s %s  %d deals  %s\n",
				i+1,
				styles.TitleStyle.Render(s.Label),
				styles.SubtitleStyle.Render("("+s.ID+", position "+fmt.Sprint(s.Position)+")"),
				len(s.Deals),
				styles.AmountStyle.Render(models.FormatAmount(stageTotal(s))))
		}
	})
}

func stageTotal(s *models.Stage) int64 {
	var total int64
	for _, d := range s.Deals {
		total += d.Amount
	}
	return total
}
