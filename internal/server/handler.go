package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aretw0/folio/internal/contact"
	"github.com/aretw0/folio/internal/feed"
	"github.com/aretw0/folio/internal/posts"
	"github.com/aretw0/folio/internal/projects"
	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/logger"
)

const maxContactBody = 64 << 10

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Feed renders the RSS document on every request.
func (s *Server) Feed(w http.ResponseWriter, r *http.Request) {
	out, err := feed.Build(s.site, s.listPosts(r.Context()), s.posts.Render)
	if err != nil {
		logger.FromContext(r.Context()).Error("feed build failed", "error", err)
		s.fail(w, r, err)
		return
	}
	if s.metrics != nil {
		s.metrics.FeedBuildsTotal.Inc()
	}
	w.Header().Set("Content-Type", feed.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// Contact relays a contact form submission.
func (s *Server) Contact(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req contact.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxContactBody)).Decode(&req); err != nil {
		s.recordContact("invalid")
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	err := s.contact.Submit(r.Context(), req)
	var validationErr *contact.ValidationError
	switch {
	case err == nil:
		s.recordContact("sent")
		s.writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Message sent successfully",
		})
	case errors.As(err, &validationErr):
		s.recordContact("invalid")
		s.writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": validationErr.Fields,
		})
	case errors.Is(err, contact.ErrNotConfigured):
		s.recordContact("unconfigured")
		log.Error("contact relay is not configured")
		s.fail(w, r, NewAppError(ErrInternal, http.StatusInternalServerError, "email service is not configured"))
	default:
		s.recordContact("failed")
		log.Error("contact delivery failed", "error", err)
		s.fail(w, r, NewAppError(ErrInternal, http.StatusInternalServerError, "failed to send message"))
	}
}

func (s *Server) recordContact(outcome string) {
	if s.metrics != nil {
		s.metrics.ContactSubmissions.WithLabelValues(outcome).Inc()
	}
}

// ListPosts returns published post summaries, optionally filtered by ?tag=.
func (s *Server) ListPosts(w http.ResponseWriter, r *http.Request) {
	tag := r.URL.Query().Get("tag")
	list := s.listPosts(r.Context())

	out := make([]posts.Post, 0, len(list))
	for _, p := range list {
		if tag == "" || p.HasTag(tag) {
			out = append(out, p.Summary())
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"posts": out,
		"total": len(out),
	})
}

type postResponse struct {
	Post     posts.Post  `json:"post"`
	HTML     string      `json:"html"`
	Previous *posts.Post `json:"previous,omitempty"`
	Next     *posts.Post `json:"next,omitempty"`
}

// GetPost returns one published post with its rendered body. Drafts are
// reported as missing.
func (s *Server) GetPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := r.PathValue("slug")

	p, ok := s.posts.Get(ctx, slug)
	if !ok || p.Draft {
		s.fail(w, r, core.ErrNotFound)
		return
	}
	html, err := s.posts.Render(p)
	if err != nil {
		logger.FromContext(ctx).Error("render failed", "slug", slug, "error", err)
		s.fail(w, r, err)
		return
	}

	resp := postResponse{Post: p, HTML: html}
	if nb, ok := s.posts.Adjacent(ctx, slug); ok {
		resp.Previous, resp.Next = nb.Previous, nb.Next
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) ListTags(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"tags": s.posts.Tags(r.Context())})
}

// ListProjects returns projects filtered by the optional q, tag, category,
// from and to query parameters. Filters combine with AND. Projects without
// a start year never match a year filter.
func (s *Server) ListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, err := intParam(q.Get("from"), 0)
	if err != nil {
		s.fail(w, r, NewAppError(ErrInvalidInput, http.StatusBadRequest, "from must be a year"))
		return
	}
	to, err := intParam(q.Get("to"), 0)
	if err != nil {
		s.fail(w, r, NewAppError(ErrInvalidInput, http.StatusBadRequest, "to must be a year"))
		return
	}
	yearFilter := q.Has("from") || q.Has("to")
	if yearFilter && to == 0 {
		to = s.now().Year()
	}

	tag := q.Get("tag")
	category := projects.Category(q.Get("category"))
	search := q.Get("q")

	list := s.listProjects(r.Context())
	out := make([]projects.Project, 0, len(list))
	for _, p := range list {
		if tag != "" && !p.HasTag(tag, category) {
			continue
		}
		if yearFilter {
			if y := p.Year(); y == 0 || y < from || y > to {
				continue
			}
		}
		if !p.Matches(search) {
			continue
		}
		out = append(out, p)
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"projects": out,
		"total":    len(out),
	})
}

func (s *Server) ProjectStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, projects.ComputeStats(s.listProjects(r.Context())))
}

func (s *Server) GetProject(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	for _, p := range s.listProjects(r.Context()) {
		if p.Slug == slug {
			s.writeJSON(w, http.StatusOK, p)
			return
		}
	}
	s.fail(w, r, core.ErrNotFound)
}

// RelatedProjects ranks other projects by tag affinity with {slug}.
func (s *Server) RelatedProjects(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query().Get("limit"), projects.DefaultRelatedLimit)
	if err != nil {
		s.fail(w, r, NewAppError(ErrInvalidInput, http.StatusBadRequest, "limit must be an integer"))
		return
	}

	slug := r.PathValue("slug")
	list := s.listProjects(r.Context())
	for _, p := range list {
		if p.Slug == slug {
			related := projects.Related(p, list, limit)
			if related == nil {
				related = []projects.Scored{}
			}
			s.writeJSON(w, http.StatusOK, map[string]any{"related": related})
			return
		}
	}
	s.fail(w, r, core.ErrNotFound)
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

// fail writes err as a JSON error with the status HTTPStatusCode picks.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed", "error", err, "status_code", status)
	}
	s.writeError(w, status, publicMessage(err))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
