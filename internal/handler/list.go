package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ptarling/trolley/internal/auth"
	"github.com/ptarling/trolley/internal/model"
	"github.com/ptarling/trolley/internal/service"
	"github.com/ptarling/trolley/internal/websocket"
)

type ListHandler struct {
	lists  *service.ListService
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewListHandler(lists *service.ListService, hub *websocket.Hub, logger *slog.Logger) *ListHandler {
	return &ListHandler{lists: lists, hub: hub, logger: logger}
}

func (h *ListHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	lists, err := h.lists.ListForUser(userID)
	if err != nil {
		h.logger.Error("list lists", "error", err)
		writeError(w, err, "failed to list lists")
		return
	}
	if lists == nil {
		lists = []model.ShoppingList{}
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req struct {
		Name      string   `json:"name"`
		ListType  string   `json:"list_type"`
		ShareWith []string `json:"share_with"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.ListType == "" {
		req.ListType = model.ListTypePrivate
	}
	if req.ListType != model.ListTypePrivate && req.ListType != model.ListTypeShared {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "list_type must be 'private' or 'shared'"})
		return
	}

	list, err := h.lists.Create(userID, req.Name, req.ListType, req.ShareWith)
	if err != nil {
		writeError(w, err, "failed to create list")
		return
	}

	writeJSON(w, http.StatusCreated, list)
}

func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	listID, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	list, err := h.lists.Get(userID, listID)
	if err != nil {
		writeError(w, err, "failed to get list")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	listID, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req struct {
		Name     *string `json:"name"`
		ListType *string `json:"list_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.ListType != nil && *req.ListType != model.ListTypePrivate && *req.ListType != model.ListTypeShared {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "list_type must be 'private' or 'shared'"})
		return
	}

	list, err := h.lists.Update(userID, listID, req.Name, req.ListType)
	if err != nil {
		writeError(w, err, "failed to update list")
		return
	}

	h.hub.Broadcast(websocket.NewMessage(listID, "list", "updated", listID))
	writeJSON(w, http.StatusOK, list)
}

func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	listID, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.lists.Delete(userID, listID); err != nil {
		writeError(w, err, "failed to delete list")
		return
	}

	h.hub.Broadcast(websocket.NewMessage(listID, "list", "deleted", listID))
	w.WriteHeader(http.StatusNoContent)
}

func (h *ListHandler) Members(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	listID, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	members, err := h.lists.Members(userID, listID)
	if err != nil {
		writeError(w, err, "failed to list members")
		return
	}
	if members == nil {
		members = []model.ListMemberInfo{}
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *ListHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	listID, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username is required"})
		return
	}

	member, err := h.lists.AddMember(userID, listID, req.Username)
	if err != nil {
		writeError(w, err, "failed to add member")
		return
	}

	h.hub.Broadcast(websocket.NewMessage(listID, "member", "added", member.UserID))
	writeJSON(w, http.StatusCreated, member)
}

func (h *ListHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	listID, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	memberID, err := parseIDParam(r, "user_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user id"})
		return
	}

	if err := h.lists.RemoveMember(userID, listID, memberID); err != nil {
		writeError(w, err, "failed to remove member")
		return
	}

	h.hub.Broadcast(websocket.NewMessage(listID, "member", "removed", memberID))
	w.WriteHeader(http.StatusNoContent)
}
