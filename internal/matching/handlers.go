// internal/matching/handlers.go

package matching

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/uniroomhq/uniroom-backend/internal/auth"
	"github.com/uniroomhq/uniroom-backend/internal/common/utils"
	"github.com/uniroomhq/uniroom-backend/internal/profile"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	userID, targetID, ok := h.actorAndTarget(w, r)
	if !ok {
		return
	}

	result, err := h.service.Like(r.Context(), userID, targetID)
	if err != nil {
		h.respondActionError(w, err)
		return
	}

	utils.RespondWithData(w, http.StatusOK, result)
}

func (h *Handler) Dislike(w http.ResponseWriter, r *http.Request) {
	userID, targetID, ok := h.actorAndTarget(w, r)
	if !ok {
		return
	}

	if err := h.service.Dislike(r.Context(), userID, targetID); err != nil {
		h.respondActionError(w, err)
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "Profile dismissed")
}

func (h *Handler) Compatibility(w http.ResponseWriter, r *http.Request) {
	userID, targetID, ok := h.actorAndTarget(w, r)
	if !ok {
		return
	}

	result, err := h.service.ScoreCompatibility(r.Context(), userID, targetID)
	if err != nil {
		h.respondActionError(w, err)
		return
	}

	utils.RespondWithData(w, http.StatusOK, result)
}

func (h *Handler) GetCandidates(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	filters := &CandidateFilters{}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		filters.Limit = limit
	}

	candidates, err := h.service.GetCandidates(r.Context(), userID, filters)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Complete your profile to see candidates")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load candidates")
		return
	}

	utils.RespondWithData(w, http.StatusOK, candidates)
}

func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	page, limit := paginationParams(r, 20)
	matches, total, err := h.service.GetMatches(r.Context(), userID, page, limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load matches")
		return
	}

	utils.RespondWithPage(w, http.StatusOK, matches, len(matches), page, limit, total)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	matchID, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid match ID")
		return
	}

	summary, err := h.service.GetMatch(r.Context(), userID, matchID)
	if err != nil {
		h.respondMatchError(w, err)
		return
	}

	utils.RespondWithData(w, http.StatusOK, summary)
}

func (h *Handler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	matchID, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid match ID")
		return
	}

	var req UpdateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	match, err := h.service.UpdateMatch(r.Context(), userID, matchID, req.Action)
	if err != nil {
		h.respondMatchError(w, err)
		return
	}

	utils.RespondWithData(w, http.StatusOK, match)
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	stats, err := h.service.GetStats(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	utils.RespondWithData(w, http.StatusOK, stats)
}

func (h *Handler) actorAndTarget(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return 0, 0, false
	}
	targetID, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return 0, 0, false
	}
	return userID, targetID, true
}

func (h *Handler) respondActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSelfAction):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrAlreadyLiked), errors.Is(err, ErrAlreadyDisliked):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, profile.ErrProfileNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Something went wrong")
	}
}

func (h *Handler) respondMatchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMatchNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotParticipant):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrMatchInactive), errors.Is(err, ErrInvalidAction):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Something went wrong")
	}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func paginationParams(r *http.Request, defaultLimit int) (int, int) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = defaultLimit
	}
	return page, limit
}
