package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/etapa/internal/cli"
	"github.com/thenoetrevino/etapa/internal/cli/board"
	"github.com/thenoetrevino/etapa/internal/cli/deal"
	"github.com/thenoetrevino/etapa/internal/cli/serve"
	"github.com/thenoetrevino/etapa/internal/cli/stage"
	"github.com/thenoetrevino/etapa/internal/launcher"
	"github.com/thenoetrevino/etapa/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "etapa",
	Short: "Etapa - a terminal sales pipeline board",
	Long: `Etapa is a kanban board for sales pipelines: stages hold deals, and both
are reordered by dragging them with the keyboard.

Run without a subcommand to open the board.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBoard,
}

func init() {
	cli.AddTenantFlag(rootCmd)

	rootCmd.AddCommand(stage.StageCmd())
	rootCmd.AddCommand(deal.DealCmd())
	rootCmd.AddCommand(board.BoardCmd())
	rootCmd.AddCommand(serve.ServeCmd())
}

// Execute runs the command line. Errors have already been reported to the
// user; the caller only turns them into an exit code.
func Execute() error {
	closer, err := logging.Init()
	if err != nil {
		slog.Warn("file logging unavailable", "error", err)
	} else {
		defer func() { _ = closer.Close() }()
	}

	err = rootCmd.ExecuteContext(context.Background())
	if err != nil {
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		}
	}
	return err
}

func runBoard(cmd *cobra.Command, args []string) error {
	c, err := cli.GetCLIFromContext(cmd.Context())
	if err != nil {
		return err
	}
	defer cli.CloseQuietly(c)

	return launcher.Launch(cmd.Context(), c.App, c.Tenant(cmd))
}
