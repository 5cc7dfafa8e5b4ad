// Package server exposes the post and project indices, the RSS feed and
// the contact relay over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/aretw0/folio/internal/contact"
	"github.com/aretw0/folio/internal/feed"
	"github.com/aretw0/folio/internal/posts"
	"github.com/aretw0/folio/internal/projects"
	"github.com/aretw0/folio/pkg/logger"
	"github.com/aretw0/folio/pkg/metrics"
)

// Deps are the collaborators a Server is built from.
type Deps struct {
	Site     feed.Site
	Posts    *posts.Index
	Projects *projects.Index
	Contact  *contact.Service
	// Metrics is optional. When nil no metrics are recorded or served.
	Metrics     *metrics.Metrics
	MetricsPath string
	Logger      *slog.Logger
	// Now defaults the upper bound of year filters. Defaults to time.Now.
	Now func() time.Time
}

// Server holds the HTTP handlers.
type Server struct {
	site        feed.Site
	posts       *posts.Index
	projects    *projects.Index
	contact     *contact.Service
	metrics     *metrics.Metrics
	metricsPath string
	logger      *slog.Logger
	now         func() time.Time

	loads singleflight.Group
}

func New(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.MetricsPath == "" {
		d.MetricsPath = "/metrics"
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Server{
		site:        d.Site,
		posts:       d.Posts,
		projects:    d.Projects,
		contact:     d.Contact,
		metrics:     d.Metrics,
		metricsPath: d.MetricsPath,
		logger:      logger.WithComponent(d.Logger, "server"),
		now:         d.Now,
	}
}

// listPosts collapses concurrent loads into one read of the store. The
// shared load ignores cancellation of the request that started it, since
// other requests may be waiting on it. The returned slice is shared and
// must not be modified.
func (s *Server) listPosts(ctx context.Context) []posts.Post {
	v, _, _ := s.loads.Do("posts", func() (any, error) {
		return s.posts.List(context.WithoutCancel(ctx)), nil
	})
	return v.([]posts.Post)
}

// listProjects is listPosts for projects.
func (s *Server) listProjects(ctx context.Context) []projects.Project {
	v, _, _ := s.loads.Do("projects", func() (any, error) {
		return s.projects.List(context.WithoutCancel(ctx)), nil
	})
	return v.([]projects.Project)
}

// Timeouts configure the http.Server built by ListenAndServe.
type Timeouts struct {
	Read     time.Duration
	Write    time.Duration
	Shutdown time.Duration
}

// ListenAndServe serves on addr until ctx is cancelled, then drains
// in-flight requests for up to t.Shutdown.
func (s *Server) ListenAndServe(ctx context.Context, addr string, t Timeouts) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  t.Read,
		WriteTimeout: t.Write,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server", "timeout", t.Shutdown)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), t.Shutdown)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
