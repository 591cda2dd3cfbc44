// internal/profile/handlers.go

package profile

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/uniroomhq/uniroom-backend/internal/auth"
	"github.com/uniroomhq/uniroom-backend/internal/common/utils"
)

type Handler struct {
	service     Service
	authService auth.Service
}

func NewHandler(service Service, authService auth.Service) *Handler {
	return &Handler{service: service, authService: authService}
}

func (h *Handler) SetupProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req SetupProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	profile, err := h.service.SetupProfile(r.Context(), userID, user.Name, &req)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to setup profile")
		return
	}

	utils.RespondWithData(w, http.StatusCreated, profile)
}

func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	// seeing your own profile counts as activity
	if err := h.service.RecordActivity(r.Context(), userID); err != nil {
		log.Printf("Failed to record activity for user %d: %v", userID, err)
	}

	utils.RespondWithData(w, http.StatusOK, profile)
}

func (h *Handler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	targetID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), targetID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	utils.RespondWithData(w, http.StatusOK, profile)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	utils.RespondWithData(w, http.StatusOK, profile)
}

// ListProfiles serves the browsable directory with optional filters
func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	q := r.URL.Query()
	filters := &ListFilters{
		University: q.Get("university"),
		Course:     q.Get("course"),
		City:       q.Get("city"),
		Gender:     q.Get("gender"),
		MinAge:     queryInt(q.Get("min_age")),
		MaxAge:     queryInt(q.Get("max_age")),
		MinBudget:  queryInt(q.Get("min_budget")),
		MaxBudget:  queryInt(q.Get("max_budget")),
		Page:       queryInt(q.Get("page")),
		Limit:      queryInt(q.Get("limit")),
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.Limit <= 0 {
		filters.Limit = 10
	}

	profiles, total, err := h.service.ListProfiles(r.Context(), userID, filters)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list profiles")
		return
	}

	if err := h.service.RecordActivity(r.Context(), userID); err != nil {
		log.Printf("Failed to record activity for user %d: %v", userID, err)
	}

	utils.RespondWithPage(w, http.StatusOK, profiles, len(profiles), filters.Page, filters.Limit, total)
}

func queryInt(s string) int {
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
