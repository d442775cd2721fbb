package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ptarling/trolley/internal/auth"
	"github.com/ptarling/trolley/internal/chat"
	"github.com/ptarling/trolley/internal/push"
	"github.com/ptarling/trolley/internal/service"
	"github.com/ptarling/trolley/internal/websocket"
)

const maxChatMessageLength = 4000

type ChatHandler struct {
	orchestrator *chat.Orchestrator
	lists        *service.ListService
	hub          *websocket.Hub
	notifier     *push.Notifier
	logger       *slog.Logger
}

func NewChatHandler(orchestrator *chat.Orchestrator, lists *service.ListService, hub *websocket.Hub, notifier *push.Notifier, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		orchestrator: orchestrator,
		lists:        lists,
		hub:          hub,
		notifier:     notifier,
		logger:       logger,
	}
}

// Send runs one assistant turn against the list in the path. When the turn
// executed any tools the list may have changed, so subscribers get a refresh
// event and other members a push notification.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	listID, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req struct {
		Message string         `json:"message"`
		History []chat.Message `json:"history"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}
	if len(req.Message) > maxChatMessageLength {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is too long"})
		return
	}

	result, err := h.orchestrator.Reply(r.Context(), ac.UserID, listID, req.History, req.Message)
	if err != nil {
		h.logger.Error("chat turn", "list_id", listID, "error", err)
		writeError(w, err, "chat failed")
		return
	}

	if result.ToolCalls > 0 {
		h.hub.Broadcast(websocket.NewMessage(listID, "list", "refreshed", listID))
		if list, err := h.lists.Get(ac.UserID, listID); err == nil {
			h.notifier.NotifyListMembers(listID, ac.UserID, push.Payload{
				Title: list.Name,
				Body:  fmt.Sprintf("%s updated the list via the assistant", ac.Username),
				Tag:   fmt.Sprintf("list-%d", listID),
			})
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reply":      result.Reply,
		"rounds":     result.Rounds,
		"tool_calls": result.ToolCalls,
	})
}
