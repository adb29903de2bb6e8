package stage

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/etapa/internal/cli"
)

// RenameCmd returns the stage rename subcommand
func RenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <stage-id>",
		Short: "Change a stage's label and color",
		Long: `Change a stage's label and color. Labels are unique per tenant.

Examples:
  etapa stage rename 3f2c... --label="Négociation"
  etapa stage rename 3f2c... --label="Gagné" --color="#22C55E" --json
`,
		Args: cobra.ExactArgs(1),
		RunE: runRename,
	}

	cmd.Flags().String("label", "", "New label (required)")
	cmd.Flags().String("color", "", "New color as #RRGGBB (empty clears it)")
	_ = cmd.MarkFlagRequired("label")
	cli.AddTenantFlag(cmd)
	cli.AddOutputFlags(cmd)
	return cmd
}

func runRename(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	stageID := args[0]
	label, _ := cmd.Flags().GetString("label")
	color, _ := cmd.Flags().GetString("color")

	c, formatter, err := cli.Open(cmd)
	if err != nil {
		return err
	}
	defer cli.CloseQuietly(c)

	ctrl, err := c.LoadedController(ctx, c.Tenant(cmd))
	if err != nil {
		return formatter.Fail("", err)
	}
	if err := ctrl.RenameColumn(ctx, stageID, label, color); err != nil {
		return formatter.Fail("", err)
	}

	stage := ctrl.Board().Stage(stageID)
	return formatter.Success("stage", stage, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Stage %s renamed to '%s'\n", stageID, label)
	})
}
