// internal/matching/routes.go

package matching

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/uniroomhq/uniroom-backend/internal/auth"
)

// RegisterRoutes mounts the matching endpoints under /api/v1.
func (h *Handler) RegisterRoutes(router *mux.Router, authMiddleware *auth.Middleware) {
	protected := router.PathPrefix("/api/v1").Subrouter()
	protected.Use(authMiddleware.Authenticate)

	protected.HandleFunc("/matching/candidates", h.GetCandidates).Methods(http.MethodGet)
	protected.HandleFunc("/matching/like/{id:[0-9]+}", h.Like).Methods(http.MethodPost)
	protected.HandleFunc("/matching/dislike/{id:[0-9]+}", h.Dislike).Methods(http.MethodPost)
	protected.HandleFunc("/matching/compatibility/{id:[0-9]+}", h.Compatibility).Methods(http.MethodGet)

	protected.HandleFunc("/matches", h.GetMatches).Methods(http.MethodGet)
	protected.HandleFunc("/matches/stats", h.GetStats).Methods(http.MethodGet)
	protected.HandleFunc("/matches/{id:[0-9]+}", h.GetMatch).Methods(http.MethodGet)
	protected.HandleFunc("/matches/{id:[0-9]+}", h.UpdateMatch).Methods(http.MethodPut)
}
