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

type ItemHandler struct {
	items  *service.ItemService
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewItemHandler(items *service.ItemService, hub *websocket.Hub, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{items: items, hub: hub, logger: logger}
}

func (h *ItemHandler) ListByList(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	listID, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var items []model.Item
	if name := strings.TrimSpace(r.URL.Query().Get("name")); name != "" {
		items, err = h.items.SearchInList(userID, listID, name)
	} else {
		items, err = h.items.ListByList(userID, listID)
	}
	if err != nil {
		writeError(w, err, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	categoryID, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	items, err := h.items.ListByCategory(userID, categoryID)
	if err != nil {
		writeError(w, err, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	categoryID, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req struct {
		Name       string `json:"name"`
		Note       string `json:"note"`
		PriceMatch bool   `json:"price_match"`
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

	item, err := h.items.Create(userID, categoryID, req.Name, req.Note, req.PriceMatch)
	if err != nil {
		writeError(w, err, "failed to create item")
		return
	}

	h.broadcast(userID, item, "created")
	writeJSON(w, http.StatusCreated, item)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	itemID, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	item, err := h.items.Get(userID, itemID)
	if err != nil {
		writeError(w, err, "failed to get item")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	itemID, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req struct {
		Name       *string `json:"name"`
		Note       *string `json:"note"`
		PriceMatch *bool   `json:"price_match"`
		IsTicked   *bool   `json:"is_ticked"`
		CategoryID *int64  `json:"category_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	item, err := h.items.Update(userID, itemID, service.ItemUpdate{
		Name:       req.Name,
		Note:       req.Note,
		PriceMatch: req.PriceMatch,
		IsTicked:   req.IsTicked,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		writeError(w, err, "failed to update item")
		return
	}

	h.broadcast(userID, item, "updated")
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Tick(w http.ResponseWriter, r *http.Request) {
	h.setTicked(w, r, true)
}

func (h *ItemHandler) Untick(w http.ResponseWriter, r *http.Request) {
	h.setTicked(w, r, false)
}

func (h *ItemHandler) setTicked(w http.ResponseWriter, r *http.Request, ticked bool) {
	userID := auth.UserID(r.Context())
	itemID, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	item, err := h.items.SetTicked(userID, itemID, ticked)
	if err != nil {
		writeError(w, err, "failed to update item")
		return
	}

	h.broadcast(userID, item, "updated")
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	itemID, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	item, err := h.items.Get(userID, itemID)
	if err != nil {
		writeError(w, err, "failed to get item")
		return
	}

	if err := h.items.Delete(userID, itemID); err != nil {
		writeError(w, err, "failed to delete item")
		return
	}

	h.broadcast(userID, item, "deleted")
	w.WriteHeader(http.StatusNoContent)
}

// broadcast resolves the item's list so websocket subscribers on that list
// see the change. Failures are logged, never surfaced to the client.
func (h *ItemHandler) broadcast(userID int64, item *model.Item, action string) {
	listID, err := h.items.ListIDForItem(userID, item)
	if err != nil {
		h.logger.Error("resolve item list", "item_id", item.ID, "error", err)
		return
	}
	h.hub.Broadcast(websocket.NewMessage(listID, "item", action, item.ID))
}
