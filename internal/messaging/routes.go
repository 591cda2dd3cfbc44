// internal/messaging/routes.go

package messaging

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/uniroomhq/uniroom-backend/internal/auth"
)

// RegisterRoutes mounts the messaging endpoints under /api/v1.
func (h *Handler) RegisterRoutes(router *mux.Router, authMiddleware *auth.Middleware) {
	protected := router.PathPrefix("/api/v1").Subrouter()
	protected.Use(authMiddleware.Authenticate)

	protected.HandleFunc("/matches/{id:[0-9]+}/messages", h.GetMessages).Methods(http.MethodGet)
	protected.HandleFunc("/matches/{id:[0-9]+}/messages", h.SendMessage).Methods(http.MethodPost)
	protected.HandleFunc("/messages/{id:[0-9]+}", h.DeleteMessage).Methods(http.MethodDelete)
	protected.HandleFunc("/messages/unread", h.UnreadCount).Methods(http.MethodGet)
	protected.HandleFunc("/ws", h.ServeWS).Methods(http.MethodGet)
}
