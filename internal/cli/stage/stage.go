package stage

import (
	"github.com/spf13/cobra"
)

// StageCmd returns the stage parent command
func StageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stage",
		Aliases: []string{"column"},
		Short:   "Manage pipeline stages",
	}

	cmd.AddCommand(ListCmd())
	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(RenameCmd())
	cmd.AddCommand(ArchiveCmd())
	cmd.AddCommand(MoveCmd())
	cmd.AddCommand(SwapCmd())
	cmd.AddCommand(OrderCmd())
	cmd.AddCommand(CompactCmd())

	return cmd
}
