package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sampathk123/RepWise/internal/exercise"
	"github.com/sampathk123/RepWise/internal/store"
)

// ExerciseHandler serves the exercise catalog.
type ExerciseHandler struct {
	store    *store.Store
	registry *exercise.Registry
}

// NewExerciseHandler creates a new ExerciseHandler. A nil registry means
// exercise.DefaultRegistry.
func NewExerciseHandler(s *store.Store, registry *exercise.Registry) *ExerciseHandler {
	if registry == nil {
		registry = exercise.DefaultRegistry()
	}
	return &ExerciseHandler{store: s, registry: registry}
}

// ServeHTTP routes /api/exercises and /api/exercises/{id}.
func (h *ExerciseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/exercises")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		h.list(w, r)
		return
	}
	h.get(w, r, path)
}

type exerciseResponse struct {
	*store.Exercise
	// Available reports whether the running registry can track this exercise.
	Available bool `json:"available"`
}

type listExercisesResponse struct {
	Exercises []exerciseResponse `json:"exercises"`
}

func (h *ExerciseHandler) toResponse(e *store.Exercise) exerciseResponse {
	_, ok := h.registry.Lookup(e.ID)
	return exerciseResponse{Exercise: e, Available: ok}
}

// list handles GET /api/exercises.
func (h *ExerciseHandler) list(w http.ResponseWriter, r *http.Request) {
	exercises, err := h.store.Exercises().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list exercises")
		return
	}

	response := listExercisesResponse{
		Exercises: make([]exerciseResponse, 0, len(exercises)),
	}
	for _, e := range exercises {
		response.Exercises = append(response.Exercises, h.toResponse(e))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/exercises/{id}. Aliases such as "curl" resolve to
// their canonical entry.
func (h *ExerciseHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	e, err := h.store.Exercises().GetByID(exercise.Normalize(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Exercise not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get exercise")
		return
	}

	writeJSON(w, http.StatusOK, h.toResponse(e))
}
