package stage

import (
	"fmt"
	"io"

	"charm.land/huh/v2"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/etapa/internal/cli"
	"github.com/thenoetrevino/etapa/internal/models"
)

// CreateCmd returns the stage create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Append a new stage to the board",
		Long: `Append a new stage after the last one.

Without --label the label is asked for interactively.

Examples:
  # Create a stage (human-readable output)
  etapa stage create --label="Qualifié"

  # With a color, JSON output for agents
  etapa stage create --label="Gagné" --color="#22C55E" --json

  # Quiet mode for bash capture
  STAGE_ID=$(etapa stage create --label="Perdu" --quiet)
`,
		Args: cobra.NoArgs,
		RunE: runCreate,
	}

	cmd.Flags().String("label", "", "Stage label")
	cmd.Flags().String("color", "", "Stage color as #RRGGBB")
	cli.AddTenantFlag(cmd)
	cli.AddOutputFlags(cmd)
	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	label, _ := cmd.Flags().GetString("label")
	color, _ := cmd.Flags().GetString("color")

	c, formatter, err := cli.Open(cmd)
	if err != nil {
		return err
	}
	defer cli.CloseQuietly(c)

	if label == "" {
		if formatter.JSON || formatter.Quiet {
			return formatter.Usage("--label is required with --json or --quiet", `etapa stage create --label="Qualifié" --json`)
		}
		if err := promptLabel(&label, &color); err != nil {
			return formatter.Fail("PROMPT_ABORTED", err)
		}
	}

	ctrl, err := c.LoadedController(ctx, c.Tenant(cmd))
	if err != nil {
		return formatter.Fail("", err)
	}
	stage, err := ctrl.AddColumn(ctx, label, color)
	if err != nil {
		return formatter.Fail("STAGE_CREATE_ERROR", err)
	}

	return formatter.Success("stage", stage, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Stage '%s' created successfully (ID: %s)\n", stage.Label, stage.ID)
		fmt.Fprintf(w, "  Position: %d\n", stage.Position)
	})
}

func promptLabel(label, color *string) error {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Stage label").
			Placeholder("e.g. Qualifié").
			Validate(models.ValidateLabel).
			Value(label),
		huh.NewInput().
			Title("Color").
			Placeholder("#RRGGBB (optional)").
			Validate(models.ValidateColor).
			Value(color),
	)).Run()
}
