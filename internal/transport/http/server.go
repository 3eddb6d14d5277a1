package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/clubbravado/fightfeed/internal/modules/feed/domain"
	feedService "github.com/clubbravado/fightfeed/internal/modules/feed/service"
	"github.com/clubbravado/fightfeed/internal/shared/config"
	"github.com/clubbravado/fightfeed/internal/shared/metrics"
	sloghttp "github.com/samber/slog-http"
)

// Lister serves listing pages.
type Lister interface {
	List(ctx context.Context, q domain.Query) domain.Page
}

// Server handles HTTP requests for the aggregated listings
type Server struct {
	cfg     *config.Config
	lister  Lister
	metrics *metrics.Metrics
	logger  *slog.Logger
	server  *http.Server
}

// New creates a new HTTP server
func New(cfg *config.Config, lister Lister, m *metrics.Metrics, logger *slog.Logger) *Server {
	return &Server{
		cfg:     cfg,
		lister:  lister,
		metrics: m,
		logger:  logger,
	}
}

// Handler returns the routed handler wrapped with request logging and panic recovery.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/rss", s.handleList)
	mux.HandleFunc("GET /api/news", s.handleNews)
	mux.HandleFunc("GET /api/rss.xml", s.handleRSSFeed)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	mux.HandleFunc("GET /{$}", s.handleRoot)

	handler := sloghttp.Recovery(mux)
	return sloghttp.New(s.logger)(handler)
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.cfg.HTTPPort)
	s.logger.Info("HTTP server starting", "addr", addr)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	s.writeJSON(w, http.StatusOK, s.lister.List(r.Context(), q))
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	q.Kind = domain.KindNews
	s.writeJSON(w, http.StatusOK, s.lister.List(r.Context(), q))
}

func (s *Server) handleRSSFeed(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	page := s.lister.List(r.Context(), q)

	category := strings.ToLower(strings.TrimSpace(q.Category))
	if category == "" {
		category = "all"
	}
	selfURL := fmt.Sprintf("%s://%s%s", getScheme(r), r.Host, r.URL.RequestURI())

	rss, err := feedService.RenderRSS(page, category, q.Kind, selfURL)
	if err != nil {
		s.logger.Error("Error converting listing to RSS", "error", err)
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=120")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(rss))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.metrics.GetStats())
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	html := `<!DOCTYPE html>
<html>
<head>
    <title>Fight Feed</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; }
        h1 { color: #333; }
        .info { background: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0; }
        code { background: #e8e8e8; padding: 2px 6px; border-radius: 3px; }
    </style>
</head>
<body>
    <h1>Fight Feed</h1>
    <div class="info">
        <p>Combat sports news and official fight videos from curated feeds.</p>
        <p>JSON listing: <code>/api/rss?tab=boxing&amp;kind=news&amp;page=0</code></p>
        <p>Tabs: all, mma, ufc, boxing, muay, bjj, wrestling. Kinds: all, news, videos.</p>
        <p>News only: <code>/api/news?tab=mma</code></p>
        <p>RSS: <code>/api/rss.xml?tab=bjj&amp;kind=videos</code></p>
    </div>
    <p><a href="/health">Health Check</a> | <a href="/metrics">Metrics</a></p>
</body>
</html>`
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Error encoding response", "error", err)
	}
}

// parseQuery reads tab, kind and page. Invalid or negative pages become 0 and unknown kinds become all.
func parseQuery(r *http.Request) domain.Query {
	values := r.URL.Query()

	page, err := strconv.Atoi(strings.TrimSpace(values.Get("page")))
	if err != nil || page < 0 {
		page = 0
	}

	return domain.Query{
		Category: values.Get("tab"),
		Kind:     domain.ParseKindOrAll(values.Get("kind")),
		Page:     page,
	}
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
