package board

import (
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/etapa/internal/cli"
	"github.com/thenoetrevino/etapa/internal/notify"
)

// HistoryCmd returns the board history subcommand
func HistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the latest board notifications",
		Long: `Show the notifications recently published for a tenant, newest first.

Requires notify.redis_url (or ETAPA_REDIS_URL).

Examples:
  etapa board history --limit=10
`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().Int("limit", 20, "Maximum number of notifications")
	cli.AddTenantFlag(cmd)
	cli.AddOutputFlags(cmd)
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")

	c, formatter, err := cli.Open(cmd)
	if err != nil {
		return err
	}
	defer cli.CloseQuietly(c)

	sink := c.App.Redis()
	if sink == nil {
		return formatter.Fail("NOT_CONFIGURED", errors.New("notification history needs notify.redis_url"))
	}
	tenant := c.Tenant(cmd)
	history, err := sink.History(ctx, tenant, limit)
	if err != nil {
		return formatter.Fail("", err)
	}

	return formatter.Success("notifications", history, func(w io.Writer) {
		if len(history) == 0 {
			fmt.Fprintf(w, "No notifications for '%s'\n", tenant)
			return
		}
		for _, n := range history {
			mark := "✓"
			if n.Kind == notify.KindError {
				mark = "✕"
			}
			fmt.Fprintf(w, "%s %s  (%s)\n", mark, n.Message, humanize.Time(n.Timestamp))
		}
	})
}
