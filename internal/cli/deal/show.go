package deal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/etapa/internal/cli"
	"github.com/thenoetrevino/etapa/internal/cli/styles"
	"github.com/thenoetrevino/etapa/internal/models"
)

type cardGetter interface {
	GetCard(ctx context.Context, dealID string) (*models.Deal, error)
}

// ShowCmd returns the deal show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <deal-id>",
		Short: "Show a deal with its description",
		Long: `Show a deal's fields and render its markdown description.

Examples:
  etapa deal show <deal-id>
  etapa deal show <deal-id> --json
`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}

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

	getter, ok := c.App.Remote.(cardGetter)
	if !ok {
		return formatter.Fail("UNSUPPORTED", errors.New("this store cannot read single deals"))
	}
	deal, err := getter.GetCard(ctx, args[0])
	if err != nil {
		return formatter.Fail("", err)
	}

	return formatter.Success("deal", deal, func(w io.Writer) {
		fields := []string{
			styles.Field("ID", deal.ID),
			styles.Field("Stage", deal.StageID),
			styles.Field("Amount", styles.AmountStyle.Render(models.FormatAmount(deal.Amount))),
		}
		if len(deal.Tags) > 0 {
			fields = append(fields, styles.Field("Tags", strings.Join(deal.Tags, ", ")))
		}
		if deal.DueDate != nil {
			fields = append(fields, styles.Field("Due", humanize.Time(*deal.DueDate)))
		}
		if deal.AssigneeID != "" {
			fields = append(fields, styles.Field("Assignee", deal.AssigneeID))
		}
		if deal.ContactID != "" {
			fields = append(fields, styles.Field("Contact", deal.ContactID))
		}
		fields = append(fields, styles.Field("Updated", humanize.Time(deal.UpdatedAt)))

		body := styles.TitleStyle.Render(deal.Title) + "\n\n" + strings.Join(fields, "\n") +
			"\n" + styles.SectionStyle.Render("Description") + "\n" +
			styles.RenderMarkdown(deal.Description, styles.CardWidth-6)
		fmt.Fprintln(w, styles.RenderCard(body))
	})
}
