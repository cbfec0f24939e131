// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/curioquest/internal/server"
	"github.com/pdiddy/curioquest/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON HTTP API",
	Long: `Serve starts the HTTP API under /api/v1 and Prometheus metrics on
/metrics. Each browser session (cookie) keeps its own search results,
summaries, chat history and uploaded PDF in memory until the process exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var opts []server.Option
		if a.cache != nil {
			opts = append(opts, server.WithDocumentCounter(a.cache))
		}
		srv := server.New(a.svc, session.NewManager(), a.cfg.Server, a.log, version, opts...)
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}
