package deal

import "github.com/spf13/cobra"

// DealCmd returns the deal command with all subcommands
func DealCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "deal",
		Aliases: []string{"card"},
		Short:   "Manage deals",
		Long:    "Create, move, show, and delete the deals on a pipeline board.",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(MoveCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(DeleteCmd())

	return cmd
}
