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

type CategoryHandler struct {
	categories *service.CategoryService
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewCategoryHandler(categories *service.CategoryService, hub *websocket.Hub, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, hub: hub, logger: logger}
}

func (h *CategoryHandler) ListByList(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	listID, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	categories, err := h.categories.ListByList(userID, listID)
	if err != nil {
		writeError(w, err, "failed to list categories")
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	listID, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req struct {
		Name string `json:"name"`
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

	category, err := h.categories.Create(userID, listID, req.Name)
	if err != nil {
		writeError(w, err, "failed to create category")
		return
	}

	h.hub.Broadcast(websocket.NewMessage(listID, "category", "created", category.ID))
	writeJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	categoryID, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	category, err := h.categories.Get(userID, categoryID)
	if err != nil {
		writeError(w, err, "failed to get category")
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	categoryID, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req struct {
		Name *string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	category, err := h.categories.Update(userID, categoryID, req.Name)
	if err != nil {
		writeError(w, err, "failed to update category")
		return
	}

	h.hub.Broadcast(websocket.NewMessage(category.ListID, "category", "updated", category.ID))
	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	categoryID, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	category, err := h.categories.Get(userID, categoryID)
	if err != nil {
		writeError(w, err, "failed to get category")
		return
	}

	if err := h.categories.Delete(userID, categoryID); err != nil {
		writeError(w, err, "failed to delete category")
		return
	}

	h.hub.Broadcast(websocket.NewMessage(category.ListID, "category", "deleted", categoryID))
	w.WriteHeader(http.StatusNoContent)
}
