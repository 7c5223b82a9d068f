// Package server serves the SocialPulse dashboard and its JSON API.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/KaramelBytes/socialpulse/internal/analytics"
	"github.com/KaramelBytes/socialpulse/internal/dataset"
	"github.com/KaramelBytes/socialpulse/internal/logger"
	"github.com/KaramelBytes/socialpulse/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

const shutdownTimeout = 5 * time.Second

// Config holds the settings the server needs from the global configuration.
type Config struct {
	// DefaultDataset is the file shown when no upload is selected.
	DefaultDataset string
	CORSOrigins    []string
	Load           dataset.LoadOptions
	Analytics      analytics.Options
}

// Server wires the upload store and analytics engine to HTTP.
type Server struct {
	cfg    Config
	store  *store.Store
	engine *gin.Engine
}

// New builds the gin engine. Call gin.SetMode before New to change the mode.
func New(cfg Config, st *store.Store) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s := &Server{cfg: cfg, store: st}
	s.engine = s.router(tmpl)
	return s, nil
}

// Router returns the bare gin engine.
func (s *Server) Router() *gin.Engine { return s.engine }

// Handler returns the engine wrapped with CORS handling.
func (s *Server) Handler() http.Handler {
	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", headerRequestID},
		ExposedHeaders: []string{headerRequestID},
	})
	return c.Handler(s.engine)
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infof("dashboard listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Log.Info("shutting down dashboard...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Log.Info("dashboard stopped")
	return nil
}
