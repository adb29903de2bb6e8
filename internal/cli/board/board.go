package board

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/etapa/internal/cli"
	"github.com/thenoetrevino/etapa/internal/cli/styles"
	"github.com/thenoetrevino/etapa/internal/models"
)

// BoardCmd returns the board command with all subcommands
func BoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Inspect a tenant's pipeline board",
	}

	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(HistoryCmd())
	cmd.AddCommand(SeedCmd())

	return cmd
}

// ShowCmd returns the board show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print every stage with its deals",
		Long: `Print the board: stages in order, deals in their rendering order.

Examples:
  etapa board show
  etapa board show --tenant=acme --json
`,
		Args: cobra.NoArgs,
		RunE: runShow,
	}

	cli.AddTenantFlag(cmd)
	cli.AddOutputFlags(cmd)
	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

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

	if formatter.Quiet {
		var ids []string
		for _, s := range b.Stages {
			for _, d := range s.Deals {
				ids = append(ids, d.ID)
			}
		}
		return formatter.Success("", ids, nil)
	}

	return formatter.Success("board", b, func(w io.Writer) {
		fmt.Fprintln(w, styles.TitleStyle.Render("Pipeline · "+b.TenantID))
		if len(b.Stages) == 0 {
			fmt.Fprintln(w, styles.SubtitleStyle.Render("No stages yet. Create one with: etapa stage create"))
			return
		}
		for _, s := range b.Stages {
			var total int64
			for _, d := range s.Deals {
				total += d.Amount
			}
			fmt.Fprintf(w, "\n%s %s  %s\n",
				styles.SectionStyle.UnsetMarginTop().Render(s.Label),
				styles.SubtitleStyle.Render(fmt.Sprintf("(%d)", len(s.Deals))),
				styles.AmountStyle.Render(models.FormatAmount(total)))
			for _, d := range s.Deals {
				line := fmt.Sprintf("  • %s  %s", d.Title, styles.AmountStyle.Render(models.FormatAmount(d.Amount)))
				if len(d.Tags) > 0 {
					line += "  " + styles.SubtitleStyle.Render("#"+strings.Join(d.Tags, " #"))
				}
				fmt.Fprintln(w, line)
			}
		}
	})
}
