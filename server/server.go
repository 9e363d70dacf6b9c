// Package server serves the published page and the channel avatar over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"discord-blog/metrics"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Route labels used for request metrics.
const (
	RouteAvatar = "avatar"
	RoutePage   = "page"
)

// Server serves the avatar file at its configured relative path and the page file
// for every other path. Both are read from disk on every request.
type Server struct {
	router      chi.Router
	port        int
	pagePath    string
	avatarPath  string
	avatarRoute string
	logger      *zap.Logger

	srv      *http.Server
	listener net.Listener
}

// New constructs a Server with its routes.
func New(port int, pagePath, avatarPath string, logger *zap.Logger) *Server {
	s := &Server{
		port:        port,
		pagePath:    pagePath,
		avatarPath:  avatarPath,
		avatarRoute: AvatarRoute(avatarPath),
		logger:      logger.Named("server"),
	}

	// The avatar path may hold characters chi reads as route syntax, so it is
	// matched inside the catch-all handler.
	r := chi.NewRouter()
	r.Get("/", s.serve)
	r.Get("/*", s.serve)

	s.router = r
	return s
}

// AvatarRoute is the URL path under which the page references the avatar file.
func AvatarRoute(avatarPath string) string {
	return path.Clean("/" + strings.TrimPrefix(filepath.ToSlash(avatarPath), "/"))
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start binds the port and serves in a background goroutine.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", s.port, err)
	}
	s.listener = ln
	s.srv = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		s.logger.Info("http server started", zap.String("addr", ln.Addr().String()))
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", zap.Error(err))
		}
	}()
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == s.avatarRoute {
		s.avatar(w, r)
		return
	}
	s.page(w, r)
}

func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	metrics.ObserveHTTPRequest(RoutePage)
	s.serveFile(w, r, s.pagePath, "text/html; charset=utf-8")
}

func (s *Server) avatar(w http.ResponseWriter, r *http.Request) {
	metrics.ObserveHTTPRequest(RouteAvatar)
	s.serveFile(w, r, s.avatarPath, "")
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, path, contentType string) {
	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Error("read file failed", zap.String("path", path), zap.String("url", r.URL.Path), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
