package webchat

import (
	"context"
	"crypto/rand"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/billcut/sophie/internal/conversation"
	"github.com/billcut/sophie/pkg/logging"
)

//go:embed widget.js
var widgetJS []byte

// busyReply is shown when a submission arrives while the previous one is
// still generating. The widget disables input during a turn, so this mostly
// covers the HTTP fallback.
const busyReply = "One moment, I'm still answering your previous question."

// Handler serves the chat widget: WebSocket transport, an HTTP fallback,
// history replay, and the embeddable widget script.
type Handler struct {
	registry   *Registry
	transcript conversation.TranscriptStore
	logger     *logging.Logger
}

// InboundMessage is what the widget sends.
type InboundMessage struct {
	Type      string `json:"type"` // "message", "ping"
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type      string           `json:"type"` // "message", "typing", "history", "session", "error", "pong"
	Text      string           `json:"text,omitempty"`
	Role      string           `json:"role,omitempty"`
	SessionID string           `json:"session_id,omitempty"`
	Timestamp string           `json:"timestamp,omitempty"`
	Messages  []HistoryMessage `json:"messages,omitempty"`
}

// HistoryMessage is a simplified message for history responses.
type HistoryMessage struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// NewHandler creates a web chat handler.
func NewHandler(registry *Registry, transcript conversation.TranscriptStore, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		registry:   registry,
		transcript: transcript,
		logger:     logger,
	}
}

// generateSessionID creates a random session identifier.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}

// HandleWebSocket upgrades to WebSocket and handles real-time messaging.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = generateSessionID()
	}

	session := h.registry.GetOrCreate(sessionID)

	_ = websocket.JSON.Send(conn, OutboundMessage{
		Type:      "session",
		SessionID: sessionID,
	})

	if history := snapshotHistory(session); len(history) > 0 {
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "history", Messages: history})
	}

	h.logger.Info("webchat: connection opened", "session_id", sessionID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "session_id", sessionID, "error", err)
			return
		}

		if msg.Type == "ping" {
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
			continue
		}

		if msg.Type != "message" || strings.TrimSpace(msg.Text) == "" {
			continue
		}

		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "typing"})

		reply, err := h.runTurn(r.Context(), session, msg.Text)
		if err != nil {
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "error", Text: busyReply})
			continue
		}

		_ = websocket.JSON.Send(conn, OutboundMessage{
			Type:      "message",
			Role:      conversation.RoleAssistant,
			Text:      reply.Content,
			Timestamp: reply.CreatedAt.Format(time.RFC3339),
		})
	}
}

// runTurn submits one user message and mirrors both turns to the transcript.
func (h *Handler) runTurn(ctx context.Context, session *conversation.Session, text string) (conversation.Message, error) {
	h.appendTranscript(ctx, session.ID(), conversation.RoleUser, text)

	reply, err := session.Submit(ctx, text)
	if err != nil {
		return conversation.Message{}, err
	}

	h.appendTranscript(ctx, session.ID(), reply.Role, reply.Content)
	return reply, nil
}

func (h *Handler) appendTranscript(ctx context.Context, sessionID, role, body string) {
	if h.transcript == nil {
		return
	}
	err := h.transcript.Append(ctx, sessionID, conversation.TranscriptMessage{
		Role:      role,
		Body:      body,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		h.logger.Warn("webchat: transcript append failed", "session_id", sessionID, "error", err)
	}
}

// HandleMessage is the HTTP fallback for sending messages. The response
// carries the assistant reply synchronously.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
		Text      string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = generateSessionID()
	}

	session := h.registry.GetOrCreate(req.SessionID)

	reply, err := h.runTurn(r.Context(), session, req.Text)
	if err != nil {
		if errors.Is(err, conversation.ErrBusy) {
			http.Error(w, busyReply, http.StatusConflict)
			return
		}
		http.Error(w, "failed to process message", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"session_id": req.SessionID,
		"reply":      reply.Content,
		"timestamp":  reply.CreatedAt.Format(time.RFC3339),
	})
}

// HandleHistory returns chat history for a session.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	var history []HistoryMessage
	if session, ok := h.registry.Lookup(sessionID); ok {
		history = snapshotHistory(session)
	} else if h.transcript != nil {
		// Session lives on another instance (or restarted): fall back to the
		// mirrored transcript.
		msgs, err := h.transcript.List(r.Context(), sessionID, 100)
		if err != nil {
			h.logger.Error("webchat: failed to load history", "error", err)
			http.Error(w, "failed to load history", http.StatusInternalServerError)
			return
		}
		for _, m := range msgs {
			history = append(history, HistoryMessage{
				Role:      m.Role,
				Text:      m.Body,
				Timestamp: m.Timestamp.Format(time.RFC3339),
			})
		}
	}

	if history == nil {
		history = []HistoryMessage{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"messages": history})
}

// HandleWidgetJS serves the embeddable widget JavaScript.
func (h *Handler) HandleWidgetJS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	_, _ = w.Write(widgetJS)
}

func snapshotHistory(session *conversation.Session) []HistoryMessage {
	snap := session.Snapshot()
	history := make([]HistoryMessage, 0, len(snap))
	for _, m := range snap {
		history = append(history, HistoryMessage{
			Role:      m.Role,
			Text:      m.Content,
			Timestamp: m.CreatedAt.Format(time.RFC3339),
		})
	}
	return history
}
