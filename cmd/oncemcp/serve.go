package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var httpAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the MCP tools over stdio or streamable HTTP",
		Long: "Without --http the server speaks MCP over stdin/stdout, the way MCP hosts launch it. " +
			"With --http it serves streamable HTTP at /mcp and a health probe at /healthz.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := wireApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			addr := a.cfg.Server.HTTPAddr
			if cmd.Flags().Changed("http") {
				addr = httpAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if addr != "" {
				return a.server.ListenAndServe(ctx, addr)
			}

			err = a.server.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http", "", "serve streamable HTTP on this address, e.g. :8080")

	return cmd
}
