// Package serve runs the board HTTP API
package serve

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/etapa/internal/cli"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over HTTP",
		Long: `Expose the position store as a JSON API, with /healthz and /metrics.

Bearer tokens and their tenants come from api.tokens in the config file;
without any token the API is open.

Examples:
  etapa serve
  etapa serve --addr=0.0.0.0:8787
`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (defaults to api.addr)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, formatter, err := cli.Open(cmd)
	if err != nil {
		return err
	}
	defer cli.CloseQuietly(c)

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = c.App.Config.API.Addr
	}

	server, err := c.App.APIServer()
	if err != nil {
		return formatter.Fail("", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Serving board API on http://%s\n", addr)
	slog.Info("api server starting", "addr", addr)
	if err := server.Run(ctx, addr); err != nil && ctx.Err() == nil {
		return formatter.Fail("SERVER_ERROR", err)
	}
	slog.Info("api server stopped", "reason", context.Cause(ctx))
	return nil
}
