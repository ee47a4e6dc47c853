package api

import (
	"net/http"
	"strings"

	"github.com/sampathk123/RepWise/internal/exercise"
)

// SessionDirectory is the view of live sessions the sessions API needs.
type SessionDirectory interface {
	List() []exercise.Info
	Reset(id string) bool
}

// SessionsHandler lists live sessions and resets them out of band.
type SessionsHandler struct {
	sessions SessionDirectory
}

// NewSessionsHandler creates a new SessionsHandler.
func NewSessionsHandler(sessions SessionDirectory) *SessionsHandler {
	return &SessionsHandler{sessions: sessions}
}

type listSessionsResponse struct {
	Sessions []exercise.Info `json:"sessions"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// ServeHTTP routes GET /api/sessions and POST /api/sessions/{id}/reset.
func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		sessions := h.sessions.List()
		if sessions == nil {
			sessions = []exercise.Info{}
		}
		writeJSON(w, http.StatusOK, listSessionsResponse{Sessions: sessions})
		return
	}

	id, action, ok := strings.Cut(path, "/")
	if !ok || action != "reset" || id == "" {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.sessions.Reset(id) {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}
