package server

import "net/http"

// Handler builds the full HTTP handler with all routes and middleware.
//
// Route table:
//
//	GET  /health
//	GET  /feed.xml
//	POST /api/contact
//	GET  /api/posts[?tag=]
//	GET  /api/posts/{slug}
//	GET  /api/tags
//	GET  /api/projects[?q=&tag=&category=&from=&to=]
//	GET  /api/projects/stats
//	GET  /api/projects/{slug}
//	GET  /api/projects/{slug}/related[?limit=]
//	GET  /metrics
//
// Middleware chain (outermost first):
//
//	RequestID → AccessLog → Metrics → mux
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.Health)
	mux.HandleFunc("GET /feed.xml", s.Feed)
	mux.HandleFunc("POST /api/contact", s.Contact)

	mux.HandleFunc("GET /api/posts", s.ListPosts)
	mux.HandleFunc("GET /api/posts/{slug}", s.GetPost)
	mux.HandleFunc("GET /api/tags", s.ListTags)

	mux.HandleFunc("GET /api/projects", s.ListProjects)
	mux.HandleFunc("GET /api/projects/stats", s.ProjectStats)
	mux.HandleFunc("GET /api/projects/{slug}", s.GetProject)
	mux.HandleFunc("GET /api/projects/{slug}/related", s.RelatedProjects)

	var chain http.Handler = mux
	if s.metrics != nil {
		mux.Handle("GET "+s.metricsPath, s.metrics.Handler())
		chain = Metrics(s.metrics)(chain)
	}
	chain = AccessLog(chain)
	chain = RequestID(chain)

	return chain
}
