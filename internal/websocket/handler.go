package websocket

import (
	"log"
	"net/http"
	"strconv"

	ws "github.com/coder/websocket"

	"github.com/ptarling/trolley/internal/auth"
)

// Authorizer decides whether a user may subscribe to a list's change feed.
type Authorizer interface {
	HasListAccess(userID, listID int64) (bool, error)
}

// HandleWebSocket returns an HTTP handler that upgrades connections and
// subscribes them to the requested list's events, after an access check.
func HandleWebSocket(hub *Hub, authz Authorizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listID, err := strconv.ParseInt(r.PathValue("list_id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid list_id", http.StatusBadRequest)
			return
		}

		userID := auth.UserID(r.Context())
		ok, err := authz.HasListAccess(userID, listID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if !ok {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		conn, err := ws.Accept(w, r, nil)
		if err != nil {
			log.Printf("websocket: accept: %v", err)
			return
		}

		client := NewClient(hub, conn, listID)
		client.Run(r.Context())
	}
}
