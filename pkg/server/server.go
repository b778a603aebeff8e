package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/hydra/pkg/render"
)

// Server serves an app as a server-rendered page and keeps one hydrated
// session per page open over a WebSocket.
type Server struct {
	config   *Config
	sessions *Manager
	metrics  *metrics
	upgrader websocket.Upgrader
	logger   *slog.Logger
	router   chi.Router

	mu         sync.Mutex
	httpServer *http.Server
	wg         sync.WaitGroup
}

// New creates a server. config.App is required.
func New(config *Config) (*Server, error) {
	cfg := config.withDefaults()
	if cfg.App == nil {
		return nil, errors.New("server: Config.App is required")
	}

	s := &Server{
		config:   cfg,
		sessions: NewManager(cfg.MaxSessions, cfg.PendingTTL),
		logger:   cfg.Logger.With("component", "server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     cfg.CheckOrigin,
		},
	}
	if cfg.Registry != nil {
		s.metrics = newMetrics(cfg.Registry)
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get(s.config.WSPath, s.handleWebSocket)
	if s.config.Registry != nil {
		r.Handle(s.config.MetricsPath, promhttp.HandlerFor(s.config.Registry, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Sessions returns the session manager.
func (s *Server) Sessions() *Manager { return s.sessions }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handlePage renders a fresh page and keeps its bytes for the session that
// will hydrate it.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessions.Reserve()
	if err != nil {
		s.metrics.reject("capacity")
		http.Error(w, "too many sessions", http.StatusServiceUnavailable)
		return
	}

	page := s.config.Page
	page.Body = s.config.App()
	page.Meta = append(append([]render.MetaTag(nil), page.Meta...), render.MetaTag{Name: SessionMeta, Content: id})

	// The page is stored before any byte is sent so a client can never
	// connect ahead of it.
	var buf bytes.Buffer
	if err := render.NewRenderer(render.RendererConfig{}).RenderPage(&buf, page); err != nil {
		s.sessions.Release(id)
		s.logger.Error("render page", "request_id", middleware.GetReqID(r.Context()), "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	s.sessions.Store(id, buf.Bytes())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Debug("write page", "session", id, "error", err)
	}
	s.metrics.pageServed()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")
	page, err := s.sessions.Claim(id)
	if err != nil {
		s.metrics.reject("unknown_session")
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade", "error", err)
		return
	}

	sess, err := newSession(id, page, conn, s.config, s.metrics)
	if err != nil {
		s.logger.Error("hydrate session", "session", id, "error", err)
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "hydration failed"))
		_ = conn.Close()
		return
	}

	s.sessions.Add(sess)
	s.metrics.sessionOpened()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.sessions.Remove(id)
			s.metrics.sessionClosed()
		}()
		if err := sess.Run(context.Background()); err != nil {
			s.logger.Debug("session ended", "session", id, "error", err)
		}
	}()
}

// ListenAndServe serves on config.Address until ctx is done, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.router,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}
	srv := s.httpServer
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes every session and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.sessions.Shutdown()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("sessions still running at shutdown deadline")
	}

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	s.logger.Info("server shutdown complete")
	return nil
}
