package deal

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/etapa/internal/cli"
	"github.com/thenoetrevino/etapa/internal/models"
	"github.com/thenoetrevino/etapa/internal/user"
)

// CreateCmd returns the deal create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a deal at the bottom of a stage",
		Long: `Add a deal to a stage. The new deal is listed last in its stage.

Examples:
  # Minimal
  etapa deal create --stage=<stage-id> --title="Acme renewal"

  # With amount and tags, JSON output
  etapa deal create --stage=<stage-id> --title="Acme renewal" \
    --amount="12,500.00" --tags=renewal,priority --json

  # Assigned to yourself
  etapa deal create --stage=<stage-id> --title="Initech" --mine

  # Quiet mode for bash capture
  DEAL_ID=$(etapa deal create --stage=<stage-id> --title="Globex" --quiet)
`,
		Args: cobra.NoArgs,
		RunE: runCreate,
	}

	cmd.Flags().String("stage", "", "Stage ID (required)")
	cmd.Flags().String("title", "", "Deal title (required)")
	cmd.Flags().String("amount", "", "Amount, e.g. 1,250.50")
	cmd.Flags().StringSlice("tags", nil, "Comma separated tags")
	cmd.Flags().String("description", "", "Markdown description")
	cmd.Flags().String("assignee", "", "Assignee ID")
	cmd.Flags().String("contact", "", "Contact ID")
	cmd.Flags().Bool("mine", false, "Assign the deal to the current user")
	_ = cmd.MarkFlagRequired("stage")
	_ = cmd.MarkFlagRequired("title")
	cli.AddTenantFlag(cmd)
	cli.AddOutputFlags(cmd)
	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	stageID, _ := cmd.Flags().GetString("stage")
	title, _ := cmd.Flags().GetString("title")
	amountText, _ := cmd.Flags().GetString("amount")
	tags, _ := cmd.Flags().GetStringSlice("tags")
	description, _ := cmd.Flags().GetString("description")
	assignee, _ := cmd.Flags().GetString("assignee")
	contact, _ := cmd.Flags().GetString("contact")
	mine, _ := cmd.Flags().GetBool("mine")

	c, formatter, err := cli.Open(cmd)
	if err != nil {
		return err
	}
	defer cli.CloseQuietly(c)

	var amount int64
	if strings.TrimSpace(amountText) != "" {
		amount, err = models.ParseAmount(amountText)
		if err != nil {
			return formatter.Fail("", err)
		}
	}

	if mine && assignee == "" {
		assignee = user.Name()
	}

	draft := models.DealDraft{
		Title:       title,
		Description: description,
		Amount:      amount,
		Tags:        models.NormalizeTags(tags),
		AssigneeID:  assignee,
		ContactID:   contact,
	}

	ctrl, err := c.LoadedController(ctx, c.Tenant(cmd))
	if err != nil {
		return formatter.Fail("", err)
	}
	deal, err := ctrl.AddCard(ctx, stageID, draft)
	if err != nil {
		return formatter.Fail("", err)
	}

	return formatter.Success("deal", deal, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Deal '%s' created successfully (ID: %s)\n", deal.Title, deal.ID)
		fmt.Fprintf(w, "  Stage: %s\n", deal.StageID)
		fmt.Fprintf(w, "  Amount: %s\n", models.FormatAmount(deal.Amount))
	})
}
