package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/internal/server"
	lifecycleadapter "github.com/aretw0/folio/pkg/adapters/lifecycle"
	"github.com/aretw0/folio/pkg/core"
)

var (
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API, RSS feed and contact endpoint",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		if serveWatch || cfg.Content.Watch {
			if err := watchContent(ctx, a); err != nil {
				return err
			}
		}
		if !a.contact.Configured() {
			slog.Warn("contact relay is not configured, POST /api/contact will fail")
		}

		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		srv := server.New(server.Deps{
			Site:        a.site,
			Posts:       a.posts,
			Projects:    a.projects,
			Contact:     a.contact,
			Metrics:     a.metrics,
			MetricsPath: cfg.Metrics.Path,
			Logger:      slog.Default(),
		})
		return srv.ListenAndServe(ctx, addr, server.Timeouts{
			Read:     cfg.Server.ReadTimeout,
			Write:    cfg.Server.WriteTimeout,
			Shutdown: cfg.Server.ShutdownTimeout,
		})
	},
}

// watchContent logs out-of-band edits and drops the cached parse of each
// changed file so the next request sees it.
func watchContent(ctx context.Context, a *app) error {
	events, err := a.service.Watch(ctx, "**/*")
	if err != nil {
		return err
	}

	src := lifecycleadapter.NewSource(events)
	if err := src.Start(ctx); err != nil {
		return err
	}
	go func() {
		for e := range src.Events() {
			if ce, ok := e.(core.Event); ok {
				a.service.Invalidate(ce.ID)
			}
			slog.Info("content changed", "event", e.String())
		}
	}()
	slog.Info("watching content", "dir", cfg.Content.Dir)
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload content when files change")
}
