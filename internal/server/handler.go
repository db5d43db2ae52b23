// Package server provides the HTTP surface of the dialogue router.
package server

// #region imports
import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pulseai/pulsebot/internal/policy"
	"github.com/pulseai/pulsebot/internal/router"
)

// #endregion

// #region handler

// Handler serves the chat API on top of the dialogue router.
type Handler struct {
	router *router.Router
}

// NewHandler creates a new Handler.
func NewHandler(r *router.Router) *Handler {
	return &Handler{router: r}
}

// RegisterRoutes mounts the chat API on the given chi router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/chat", h.Chat)
	r.Get("/health", h.Health)
}

// #endregion

// #region wire-types

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// chatResponse carries either a plain string or the escalation payload in
// Reply, matching what the policy produced.
type chatResponse struct {
	SessionID string `json:"session_id"`
	TurnID    string `json:"turn_id,omitempty"`
	Reply     any    `json:"reply"`
	LastTopic string `json:"last_topic,omitempty"`
}

// #endregion

// #region endpoints

// Chat handles POST /api/chat: one dialogue turn.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		Error(w, http.StatusBadRequest, "message is required")
		return
	}

	turn, err := h.router.ProcessMessage(r.Context(), req.SessionID, req.Message)
	if err != nil {
		slog.Error("turn processing failed", "session_id", req.SessionID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to process message")
		return
	}

	resp := chatResponse{
		SessionID: turn.Session.ID,
		TurnID:    turn.TurnID,
		LastTopic: turn.Session.LastTopic,
	}
	if turn.Reply.Kind == policy.ReplyEscalation {
		resp.Reply = turn.Reply.Escalation
	} else {
		resp.Reply = turn.Reply.Text
	}
	JSON(w, http.StatusOK, resp)
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// #endregion

// #region helpers

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// #endregion
