package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio"
	"github.com/aretw0/folio/internal/config"
	"github.com/aretw0/folio/internal/contact"
	"github.com/aretw0/folio/internal/feed"
	"github.com/aretw0/folio/internal/posts"
	"github.com/aretw0/folio/internal/projects"
	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/logger"
	"github.com/aretw0/folio/pkg/metrics"
)

var (
	cfgFile    string
	contentDir string
	verbose    bool

	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Content indices, RSS feed and contact relay for a personal site",
	Long: `Folio reads a directory of Markdown posts and JSON project records and
serves them as a blog index, a project portfolio, an RSS feed and a contact
form endpoint.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			if root, err := folio.FindRoot("."); err == nil {
				if candidate := filepath.Join(root, "folio.yaml"); fileExists(candidate) {
					path = candidate
				}
			}
		}

		loaded, used, err := config.Load(path)
		if err != nil {
			return err
		}
		if contentDir != "" {
			loaded.Content.Dir = contentDir
		}
		if verbose {
			loaded.Logging.Level = "debug"
		}
		cfg = loaded

		logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
		if used != "" {
			slog.Debug("using config file", "path", used)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is folio.yaml at the site root)")
	rootCmd.PersistentFlags().StringVar(&contentDir, "content", "", "content directory (overrides content.dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// app is the object graph every command works on.
type app struct {
	service  *core.Service
	posts    *posts.Index
	projects *projects.Index
	contact  *contact.Service
	metrics  *metrics.Metrics
	site     feed.Site
}

func newApp(ctx context.Context) (*app, error) {
	opts := []folio.Option{
		folio.WithLogger(slog.Default()),
		folio.WithStrict(cfg.Content.Strict),
		folio.WithCacheSize(cfg.Content.CacheSize),
		folio.WithWatcherErrorHandler(func(err error) {
			slog.Error("content watcher failed", "error", err)
		}),
	}
	if len(cfg.Content.Include) > 0 {
		opts = append(opts, folio.WithInclude(cfg.Content.Include...))
	}

	svc, err := folio.New(ctx, cfg.Content.Dir, opts...)
	if err != nil {
		return nil, fmt.Errorf("open content store: %w", err)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}
	mailer := contact.NewHTTPMailer(cfg.Contact.Endpoint, cfg.Contact.APIKey)

	return &app{
		service: svc,
		posts: posts.NewIndex(svc.Repository(), posts.Config{
			Prefix:   cfg.Content.PostsPrefix(),
			Logger:   slog.Default(),
			Recorder: m,
		}),
		projects: projects.NewIndex(svc.Repository(), projects.Config{
			Prefix:   cfg.Content.ProjectsPrefix(),
			Logger:   slog.Default(),
			Recorder: m,
		}),
		contact: contact.NewService(mailer, contact.Config{
			From:     cfg.Contact.From,
			To:       cfg.Contact.To,
			SiteName: cfg.Site.Title,
		}, slog.Default()),
		metrics: m,
		site: feed.Site{
			Title:       cfg.Site.Title,
			BaseURL:     cfg.Site.BaseURL,
			Description: cfg.Site.Description,
			Language:    cfg.Site.Language,
		},
	}, nil
}

func mustApp(ctx context.Context) *app {
	a, err := newApp(ctx)
	if err != nil {
		fatal("Error initializing folio", err)
	}
	return a
}

func printJSON(v any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fatal("Error encoding JSON", err)
	}
}
