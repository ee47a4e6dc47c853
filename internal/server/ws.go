package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sampathk123/RepWise/internal/announce"
	"github.com/sampathk123/RepWise/internal/coach"
	"github.com/sampathk123/RepWise/internal/exercise"
	"github.com/sampathk123/RepWise/internal/log"
)

// maxMessageSize bounds a single client message (a base64 JPEG frame).
const maxMessageSize = 8 << 20

var upgrader = websocket.Upgrader{
	ReadBufferSize:  64 << 10,
	WriteBufferSize: 64 << 10,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Message types exchanged on the session socket.
const (
	msgFrame         = "frame"
	msgReset         = "reset"
	msgResetExercise = "reset_exercise"

	msgConnected     = "connected"
	msgResult        = "result"
	msgAnnounce      = "announce"
	msgResetComplete = "reset_complete"
	msgError         = "error"
)

type clientMessage struct {
	Type     string `json:"type"`
	Frame    string `json:"frame"`
	Exercise string `json:"exercise"`
}

type connectedMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
}

type resultMessage struct {
	Type string `json:"type"`
	*coach.Result
}

type announceMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type statusMessage struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// SessionHandler serves the frame submission WebSocket. Every connection
// gets its own exercise session and announcer.
type SessionHandler struct {
	analyzer        *coach.Analyzer
	registry        *exercise.Registry
	sessions        *Sessions
	defaultExercise string
	cooldown        time.Duration
	minVisibility   float64
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(analyzer *coach.Analyzer, registry *exercise.Registry, sessions *Sessions, defaultExercise string, cooldown time.Duration, minVisibility float64) *SessionHandler {
	if registry == nil {
		registry = exercise.DefaultRegistry()
	}
	if sessions == nil {
		sessions = NewSessions()
	}
	return &SessionHandler{
		analyzer:        analyzer,
		registry:        registry,
		sessions:        sessions,
		defaultExercise: defaultExercise,
		cooldown:        cooldown,
		minVisibility:   minVisibility,
	}
}

// conn serializes writes to one websocket.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) send(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error("marshal websocket message", "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Debug("websocket write failed", "error", err)
	}
}

// ServeHTTP handles WebSocket upgrade requests and runs the session loop.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade error", "error", err)
		return
	}
	defer ws.Close()
	ws.SetReadLimit(maxMessageSize)

	c := &conn{ws: ws}
	id := uuid.NewString()

	// Announcements go back to the client, which owns the speaker.
	announcer := announce.New(announce.SpeakerFunc(func(ctx context.Context, text string) error {
		c.send(announceMessage{Type: msgAnnounce, Text: text})
		return nil
	}), announce.WithCooldown(h.cooldown))

	session := exercise.NewSession(id, h.registry,
		exercise.WithAnnouncer(announcer),
		exercise.WithMinVisibility(h.minVisibility),
		exercise.WithExercise(h.defaultExercise),
	)

	h.sessions.Add(session)
	defer h.sessions.Remove(id)

	logger := log.With("session", id, "remote", r.RemoteAddr)
	logger.Info("session connected")
	defer logger.Info("session closed")

	c.send(connectedMessage{Type: msgConnected, SessionID: id})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read error", "error", err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.send(errorMessage{Type: msgError, Message: "invalid message"})
			continue
		}

		switch msg.Type {
		case msgFrame:
			name := msg.Exercise
			if name == "" {
				name = h.defaultExercise
			}
			res := h.analyzer.AnalyzeEncoded(session, msg.Frame, name)
			c.send(resultMessage{Type: msgResult, Result: res})

		case msgReset, msgResetExercise:
			session.Reset()
			c.send(statusMessage{Type: msgResetComplete, Status: "ok"})

		default:
			c.send(errorMessage{Type: msgError, Message: "unknown message type: " + msg.Type})
		}
	}
}
