// Package server provides the HTTP and WebSocket server for RepWise.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sampathk123/RepWise/internal/announce"
	"github.com/sampathk123/RepWise/internal/coach"
	"github.com/sampathk123/RepWise/internal/exercise"
	"github.com/sampathk123/RepWise/internal/server/api"
	"github.com/sampathk123/RepWise/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Registry  *exercise.Registry

	// Analyzer enables the /api/session frame socket.
	Analyzer        *coach.Analyzer
	DefaultExercise string
	Cooldown        time.Duration
	MinVisibility   float64

	// Frames enables the /api/stream MJPEG endpoint.
	Frames FrameReader

	// Sessions exposes live sessions; created when nil.
	Sessions *Sessions

	// OnSettingChange is called after a setting is updated over the API.
	OnSettingChange func(key, value string)
}

// Server represents the HTTP server for the RepWise application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.Registry == nil {
		config.Registry = exercise.DefaultRegistry()
	}
	if config.Sessions == nil {
		config.Sessions = NewSessions()
	}
	if config.DefaultExercise == "" {
		config.DefaultExercise = "bicep_curl"
	}
	if config.Cooldown <= 0 {
		config.Cooldown = announce.DefaultCooldown
	}
	if config.MinVisibility <= 0 {
		config.MinVisibility = exercise.DefaultMinVisibility
	}

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

	sessions := api.NewSessionsHandler(s.config.Sessions)
	s.mux.Handle("/api/sessions", sessions)
	s.mux.Handle("/api/sessions/", sessions)

	// Catalog and settings need the store
	if s.config.Store != nil {
		exercises := api.NewExerciseHandler(s.config.Store, s.config.Registry)
		s.mux.Handle("/api/exercises", exercises)
		s.mux.Handle("/api/exercises/", exercises)

		settings := api.NewSettingsHandler(s.config.Store, s.config.Registry)
		settings.OnChange = s.config.OnSettingChange
		s.mux.Handle("/api/settings", settings)
		s.mux.Handle("/api/settings/", settings)
	}

	if s.config.Analyzer != nil {
		s.mux.Handle("/api/session", NewSessionHandler(
			s.config.Analyzer,
			s.config.Registry,
			s.config.Sessions,
			s.config.DefaultExercise,
			s.config.Cooldown,
			s.config.MinVisibility,
		))
	}

	if s.config.Frames != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Frames))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Sessions returns the live session directory.
func (s *Server) Sessions() *Sessions {
	return s.config.Sessions
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status":   "ok",
		"uptime":   time.Since(s.start).String(),
		"sessions": s.config.Sessions.Len(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
