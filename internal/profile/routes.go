// internal/profile/routes.go

package profile

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/uniroomhq/uniroom-backend/internal/auth"
)

// RegisterRoutes mounts the profile endpoints under /api/v1.
func (h *Handler) RegisterRoutes(router *mux.Router, authMiddleware *auth.Middleware) {
	protected := router.PathPrefix("/api/v1").Subrouter()
	protected.Use(authMiddleware.Authenticate)

	protected.HandleFunc("/profile/setup", h.SetupProfile).Methods(http.MethodPost)
	protected.HandleFunc("/profile", h.GetMyProfile).Methods(http.MethodGet)
	protected.HandleFunc("/profile", h.UpdateProfile).Methods(http.MethodPut)
	protected.HandleFunc("/users", h.ListProfiles).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id:[0-9]+}/profile", h.GetUserProfile).Methods(http.MethodGet)
}
