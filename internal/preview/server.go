package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	derrors "git.home.luguber.info/inful/malvolio/internal/foundation/errors"
	"git.home.luguber.info/inful/malvolio/internal/logfields"
)

const shutdownTimeout = 5 * time.Second

// Server serves the files below root on port until ctx is done.
type Server interface {
	Serve(ctx context.Context, root string, port int) error
}

// HTTPServer serves the output tree on all interfaces with live reload.
type HTTPServer struct {
	hub     *LiveReloadHub
	metrics http.Handler
	logger  *slog.Logger
	ready   func(addr net.Addr)
}

// ServerOption customizes an HTTPServer.
type ServerOption func(*HTTPServer)

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(s *HTTPServer) { s.metrics = h }
}

// WithServerLogger sets the server logger.
func WithServerLogger(l *slog.Logger) ServerOption {
	return func(s *HTTPServer) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithReady registers a callback invoked with the bound address once the
// listener is open.
func WithReady(fn func(addr net.Addr)) ServerOption {
	return func(s *HTTPServer) { s.ready = fn }
}

// NewHTTPServer creates a server publishing reload events from hub.
func NewHTTPServer(hub *LiveReloadHub, opts ...ServerOption) *HTTPServer {
	s := &HTTPServer{hub: hub, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routes for a site rooted at root.
func (s *HTTPServer) Handler(root string) http.Handler {
	mux := http.NewServeMux()
	if s.hub != nil {
		mux.Handle("/livereload", s.hub)
		mux.HandleFunc(scriptPath, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
			w.Header().Set("Cache-Control", "no-cache")
			if _, err := w.Write([]byte(LiveReloadScript)); err != nil {
				s.logger.Debug("Failed to write livereload script", logfields.Error(err))
			}
		})
	}
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics)
	}

	var site http.Handler = http.FileServer(http.Dir(root))
	if s.hub != nil {
		site = injectLiveReload(site)
	}
	mux.Handle("/", noCache(site))
	return mux
}

// noCache keeps browsers from holding on to pages that a rebuild replaces.
func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		next.ServeHTTP(w, r)
	})
}

// Serve implements Server. It returns nil after a graceful shutdown.
func (s *HTTPServer) Serve(ctx context.Context, root string, port int) error {
	addr := fmt.Sprintf("0.0.0.0:%d", port)
	var lc net.ListenConfig
	ln, err := lc.Listen(context.WithoutCancel(ctx), "tcp", addr)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryServer, "listen").
			Fatal().
			WithContext(derrors.KeyAddr, addr).
			Build()
	}

	srv := &http.Server{
		Handler:           s.Handler(root),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// No WriteTimeout: live-reload streams stay open for the whole session.
		IdleTimeout: 120 * time.Second,
	}

	if s.ready != nil {
		s.ready(ln.Addr())
	}
	s.logger.Debug("HTTP server listening", slog.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return derrors.WrapError(err, derrors.CategoryServer, "serve").Fatal().Build()
	case <-ctx.Done():
	}

	if s.hub != nil {
		s.hub.Shutdown()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	return nil
}
