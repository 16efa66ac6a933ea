// Package server provides the HTTP server for the mudra gesture pipeline.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/store"
)

// Pipeline is the view of the running app the server exposes.
type Pipeline interface {
	api.Catalog
	Status() app.Status
	Config() config.Config
	SessionID() string
	IsRunning() bool
	IsEnabled() bool
	Subscribe(fn func(app.Output)) func()
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Pipeline  Pipeline
}

// Server represents the HTTP server for the mudra application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	hub    *DeltaHub
}

// New creates a new Server with the given configuration. Routes whose
// backing component is missing from config are not registered.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if p := s.config.Pipeline; p != nil {
		s.mux.HandleFunc("/api/status", s.handleStatus)
		s.mux.HandleFunc("/api/config", s.handleConfig)

		gestureHandler := api.NewGestureHandler(p)
		s.mux.Handle("/api/gestures", gestureHandler)
		s.mux.Handle("/api/gestures/", gestureHandler)

		s.hub = NewDeltaHub(p)
		s.mux.Handle("/api/deltas", s.hub)
	}

	if s.config.Store != nil {
		sessionHandler := api.NewSessionHandler(s.config.Store)
		s.mux.Handle("/api/sessions", sessionHandler)
		s.mux.Handle("/api/sessions/", sessionHandler)
	}

	if dir := s.config.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			s.mux.Handle("/", http.FileServer(http.Dir(dir)))
		} else {
			log.Printf("Static directory %s not found, not serving it", dir)
		}
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Hub returns the live delta hub, or nil without a pipeline.
func (s *Server) Hub() *DeltaHub {
	return s.hub
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	})
}

type statusResponse struct {
	app.Status
	Running   bool   `json:"running"`
	Enabled   bool   `json:"enabled"`
	SessionID string `json:"session_id,omitempty"`
}

// handleStatus handles GET /api/status: the stable gesture and whether a
// usable hand is in view.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	p := s.config.Pipeline
	api.WriteJSON(w, http.StatusOK, statusResponse{
		Status:    p.Status(),
		Running:   p.IsRunning(),
		Enabled:   p.IsEnabled(),
		SessionID: p.SessionID(),
	})
}

// handleConfig handles GET /api/config with the effective configuration.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	api.WriteJSON(w, http.StatusOK, s.config.Pipeline.Config())
}

// ListenAndServe serves on addr until ctx is done, then shuts down and
// disconnects live clients.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close disconnects websocket clients and stops listening to the pipeline.
func (s *Server) Close() {
	if s.hub != nil {
		s.hub.Close()
	}
}
