package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"github.com/sampathk123/RepWise/internal/coach"
	"github.com/sampathk123/RepWise/internal/pose"
	"github.com/sampathk123/RepWise/internal/store"
)

func TestAPI_SettingsWorkflow(t *testing.T) {
	// Setup
	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	var changed []string
	srv := New(Config{
		Store:           s,
		OnSettingChange: func(key, value string) { changed = append(changed, key+"="+value) },
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// 1. Catalog lists every exercise
	resp, err := client.Get(ts.URL + "/api/exercises")
	if err != nil {
		t.Fatalf("GET /api/exercises error = %v", err)
	}
	var catalog struct {
		Exercises []struct {
			ID string `json:"id"`
		} `json:"exercises"`
	}
	json.NewDecoder(resp.Body).Decode(&catalog)
	resp.Body.Close()
	if len(catalog.Exercises) != len(store.Catalog()) {
		t.Fatalf("listed %d exercises, want %d", len(catalog.Exercises), len(store.Catalog()))
	}

	// 2. Aliases resolve to the canonical entry
	resp, _ = client.Get(ts.URL + "/api/exercises/push-up")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET alias status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()

	// 3. Update the default exercise
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/settings/default_exercise", bytes.NewBufferString(`{"value": "Push Up"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("PUT error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()

	// 4. Read it back
	resp, _ = client.Get(ts.URL + "/api/settings")
	var settings struct {
		Settings map[string]string `json:"settings"`
	}
	json.NewDecoder(resp.Body).Decode(&settings)
	resp.Body.Close()

	if settings.Settings["default_exercise"] != "pushup" {
		t.Errorf("default_exercise = %q, want pushup", settings.Settings["default_exercise"])
	}
	if len(changed) != 1 || changed[0] != "default_exercise=pushup" {
		t.Errorf("OnSettingChange calls = %v, want [default_exercise=pushup]", changed)
	}
}

func TestAPI_HealthCheck(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var health struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}
	json.NewDecoder(resp.Body).Decode(&health)

	if health.Status != "ok" {
		t.Errorf("status = %s, want ok", health.Status)
	}
}

// blankFrame returns a small black JPEG as a data URI.
func blankFrame(t *testing.T) string {
	t.Helper()

	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 240, 320, gocv.MatTypeCV8UC3)
	defer mat.Close()

	uri, err := coach.EncodeDataURI(&mat)
	if err != nil {
		t.Fatalf("EncodeDataURI() error = %v", err)
	}
	return uri
}

// wsMessage holds the union of fields the session socket sends.
type wsMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	RepCount  int    `json:"rep_count"`
	Phase     string `json:"phase"`
	Feedback  string `json:"feedback_text"`
	Text      string `json:"text"`
	Message   string `json:"message"`
}

// readUntil reads messages until one of the given type arrives.
func readUntil(t *testing.T, ws *websocket.Conn, typ string) wsMessage {
	t.Helper()

	ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg wsMessage
		if err := ws.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %q: %v", typ, err)
		}
		if msg.Type == typ {
			return msg
		}
	}
}

func TestAPI_SessionSocket(t *testing.T) {
	detector := pose.NewMockDetector()
	srv := New(Config{
		Analyzer:        coach.NewAnalyzer(detector),
		DefaultExercise: "bicep_curl",
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/session"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer ws.Close()

	connected := readUntil(t, ws, "connected")
	if connected.SessionID == "" {
		t.Fatal("connected message has no session id")
	}
	if srv.Sessions().Len() != 1 {
		t.Errorf("Sessions().Len() = %d, want 1", srv.Sessions().Len())
	}

	frame := blankFrame(t)
	send := func(elbow float64, frames int) wsMessage {
		detector.SetPoses(pose.ArmPose(elbow))
		var last wsMessage
		for i := 0; i < frames; i++ {
			if err := ws.WriteJSON(map[string]string{"type": "frame", "frame": frame}); err != nil {
				t.Fatalf("WriteJSON() error = %v", err)
			}
			last = readUntil(t, ws, "result")
		}
		return last
	}

	// Curl then extend, holding each pose long enough to fill the smoother
	send(170, 5)
	if got := send(30, 5); got.Phase != "curled" {
		t.Errorf("phase after curl = %q, want curled", got.Phase)
	}
	got := send(170, 5)
	if got.Status != "success" || got.RepCount != 1 {
		t.Errorf("after extend: status = %q reps = %d, want success and 1", got.Status, got.RepCount)
	}

	// Reset clears the count
	if err := ws.WriteJSON(map[string]string{"type": "reset"}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if msg := readUntil(t, ws, "reset_complete"); msg.Status != "ok" {
		t.Errorf("reset status = %q, want ok", msg.Status)
	}
	if infos := srv.Sessions().List(); len(infos) != 1 || infos[0].Reps != 0 {
		t.Errorf("sessions after reset = %+v, want one session with 0 reps", infos)
	}

	// Undecodable frames report an error but keep the socket open
	ws.WriteJSON(map[string]string{"type": "frame", "frame": "not-base64!"})
	if msg := readUntil(t, ws, "result"); msg.Status != "error" {
		t.Errorf("bad frame status = %q, want error", msg.Status)
	}

	ws.WriteJSON(map[string]string{"type": "dance"})
	if msg := readUntil(t, ws, "error"); msg.Message == "" {
		t.Error("unknown message type should carry a message")
	}
}
