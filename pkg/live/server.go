package live

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Odeneho-Calculus/kalx-go/pkg/render"
	"github.com/Odeneho-Calculus/kalx-go/pkg/telemetry"
	"github.com/Odeneho-Calculus/kalx-go/pkg/vdom"
)

// App builds a session's render function. It is called once per
// connection so every session gets its own reactive state.
type App func() func() *vdom.VNode

// Server serves one Kalx app over HTTP: a static snapshot at /, the live
// socket at /ws, health at /healthz, and Prometheus metrics at /metrics.
type Server struct {
	addr     string
	app      App
	logger   *slog.Logger
	metrics  *telemetry.Metrics
	tracer   *telemetry.Tracer
	upgrader websocket.Upgrader

	router chi.Router
	http   *http.Server
}

// ServerOption configures the server.
type ServerOption func(*Server)

// WithAddr sets the listen address. Default ":8080".
func WithAddr(addr string) ServerOption {
	return func(s *Server) { s.addr = addr }
}

// WithLogger sets the structured logger. Default slog.Default().
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) { s.logger = logger }
}

// WithServerMetrics sets the metrics recorder for sessions.
func WithServerMetrics(m *telemetry.Metrics) ServerOption {
	return func(s *Server) { s.metrics = m }
}

// WithServerTracer sets the tracer for sessions.
func WithServerTracer(t *telemetry.Tracer) ServerOption {
	return func(s *Server) { s.tracer = t }
}

// WithCheckOrigin sets the websocket origin check. Default accepts
// same-origin only (the gorilla default).
func WithCheckOrigin(fn func(*http.Request) bool) ServerOption {
	return func(s *Server) { s.upgrader.CheckOrigin = fn }
}

// NewServer creates a server for the given app.
func NewServer(app App, opts ...ServerOption) *Server {
	s := &Server{
		addr:    ":8080",
		app:     app,
		logger:  slog.Default(),
		metrics: telemetry.Default(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/ws", s.handleWS)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	s.router = r
	return s
}

// Router exposes the underlying router so embedders can add routes or
// mount the whole server under a prefix.
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.http = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errc <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

// handleIndex serves a static HTML snapshot of the app. The snapshot is
// rendered from a throwaway reactive scope; the live socket takes over
// from there.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	renderFn := s.app()
	tree := renderFn()

	renderer := render.NewRenderer(render.RendererConfig{})
	html, err := renderer.RenderToString(tree)
	if err != nil {
		s.logger.Error("snapshot render failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	session := NewSession(conn, s.app(), s.logger, s.metrics, s.tracer)
	s.logger.Info("session started", "session", session.ID(), "remote", r.RemoteAddr)

	session.Run()
	s.logger.Info("session ended", "session", session.ID())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
