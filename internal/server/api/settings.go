package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sampathk123/RepWise/internal/exercise"
	"github.com/sampathk123/RepWise/internal/store"
)

// SettingsHandler reads and writes persisted settings.
type SettingsHandler struct {
	store    *store.Store
	registry *exercise.Registry

	// OnChange, if set, is called after a setting has been stored.
	OnChange func(key, value string)
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(s *store.Store, registry *exercise.Registry) *SettingsHandler {
	if registry == nil {
		registry = exercise.DefaultRegistry()
	}
	return &SettingsHandler{store: s, registry: registry}
}

type settingsResponse struct {
	Settings map[string]string `json:"settings"`
}

type updateSettingRequest struct {
	Value string `json:"value"`
}

type settingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ServeHTTP routes GET /api/settings and PUT /api/settings/{key}.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/settings")
	key := strings.TrimPrefix(path, "/")

	if key == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.update(w, r, key)
}

// list handles GET /api/settings.
func (h *SettingsHandler) list(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.Settings().All()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list settings")
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse{Settings: settings})
}

// update handles PUT /api/settings/{key}.
func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request, key string) {
	var req updateSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	value, msg := h.validate(key, strings.TrimSpace(req.Value))
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.store.Settings().Set(key, value); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save setting")
		return
	}

	if h.OnChange != nil {
		h.OnChange(key, value)
	}

	writeJSON(w, http.StatusOK, settingResponse{Key: key, Value: value})
}

// validate checks a value for a known key and returns it in canonical form,
// or an error message.
func (h *SettingsHandler) validate(key, value string) (string, string) {
	switch key {
	case store.SettingDefaultExercise:
		ex, ok := h.registry.Lookup(value)
		if !ok {
			return "", "Unknown exercise"
		}
		return ex.Name(), ""

	case store.SettingVoiceEnabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return "", "Value must be a boolean"
		}
		return strconv.FormatBool(b), ""

	case store.SettingCooldown:
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return "", "Value must be a non-negative duration"
		}
		return d.String(), ""

	default:
		return "", "Unknown setting"
	}
}
