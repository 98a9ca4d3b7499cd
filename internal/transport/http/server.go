package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	feedService "github.com/reshetovitsme/channel-mirror/internal/modules/feed/service"
	mirrorDomain "github.com/reshetovitsme/channel-mirror/internal/modules/mirror/domain"
	"github.com/reshetovitsme/channel-mirror/internal/shared/config"
	"github.com/reshetovitsme/channel-mirror/internal/shared/metrics"
	"github.com/samber/oops"
	sloghttp "github.com/samber/slog-http"
)

// StatusProvider reports the mirror state
type StatusProvider interface {
	Status() mirrorDomain.Status
}

// Server is the liveness endpoint. The mirror does not depend on it; it
// exists so a hosting platform sees the process as healthy.
type Server struct {
	cfg         *config.Config
	feedService *feedService.Service
	status      StatusProvider
	metrics     *metrics.Metrics
	logger      *slog.Logger
	once        sync.Once
}

// New creates a new HTTP server
func New(cfg *config.Config, feedService *feedService.Service, status StatusProvider, m *metrics.Metrics) *Server {
	return &Server{
		cfg:         cfg,
		feedService: feedService,
		status:      status,
		metrics:     m,
		logger:      slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Handler builds the routed, logged handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /activity.rss", s.handleActivityFeed)
	if s.metrics != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	}
	mux.HandleFunc("GET /{$}", s.handleRoot)

	handler := sloghttp.Recovery(mux)
	handler = sloghttp.New(s.logger)(handler)
	return handler
}

// Start serves until ctx is done. Only the first call starts a listener;
// later calls return immediately.
func (s *Server) Start(ctx context.Context) error {
	err := oops.Errorf("http server already started")
	s.once.Do(func() {
		err = s.serve(ctx)
	})
	return err
}

func (s *Server) serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%s", s.cfg.Port)
	s.logger.Info("Liveness server starting", "addr", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return oops.With("addr", addr).Wrap(err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return oops.With("addr", addr).Wrap(err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return oops.With("addr", addr).Wrap(err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.status == nil {
		http.Error(w, "Status unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(s.status.Status()); err != nil {
		s.logger.Error("Error encoding status", "error", err)
	}
}

func (s *Server) handleActivityFeed(w http.ResponseWriter, r *http.Request) {
	baseURL := fmt.Sprintf("%s://%s", getScheme(r), r.Host)

	feed, err := s.feedService.GenerateFeed(baseURL, feedService.DefaultLimit)
	if err != nil {
		s.logger.Error("Error generating activity feed", "error", err)
		http.Error(w, "Failed to generate feed", http.StatusInternalServerError)
		return
	}

	rss, err := feed.ToRss()
	if err != nil {
		s.logger.Error("Error converting feed to RSS", "error", err)
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(rss))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	html := `<!DOCTYPE html>
<html>
<head>
    <title>Channel Mirror</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; }
        h1 { color: #333; }
        .info { background: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0; }
        code { background: #e8e8e8; padding: 2px 6px; border-radius: 3px; }
    </style>
</head>
<body>
    <h1>Channel Mirror</h1>
    <div class="info">
        <p>This process mirrors one Telegram channel into another.</p>
        <p>Mirror state: <code>/status</code></p>
        <p>Recent relays: <code>/activity.rss</code></p>
        <p>Prometheus metrics: <code>/metrics</code></p>
    </div>
    <p><a href="/health">Health Check</a></p>
</body>
</html>`
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
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
