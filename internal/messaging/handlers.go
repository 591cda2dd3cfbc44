// internal/messaging/handlers.go

package messaging

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/uniroomhq/uniroom-backend/internal/auth"
	"github.com/uniroomhq/uniroom-backend/internal/common/utils"
	"github.com/uniroomhq/uniroom-backend/internal/matching"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the frontend origin once it is deployed
		return true
	},
}

type Handler struct {
	service  Service
	hub      *Hub
	pageSize int
}

func NewHandler(service Service, hub *Hub, pageSize int) *Handler {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &Handler{service: service, hub: hub, pageSize: pageSize}
}

func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	matchID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid match ID")
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = h.pageSize
	}

	messages, total, err := h.service.GetMessages(r.Context(), userID, matchID, page, limit)
	if err != nil {
		h.respondConversationError(w, err)
		return
	}

	utils.RespondWithPage(w, http.StatusOK, messages, len(messages), page, limit, total)
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	matchID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid match ID")
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := h.service.SendMessage(r.Context(), userID, matchID, &req)
	if err != nil {
		h.respondConversationError(w, err)
		return
	}

	utils.RespondWithData(w, http.StatusCreated, msg)
}

func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	messageID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid message ID")
		return
	}

	if err := h.service.DeleteMessage(r.Context(), userID, messageID); err != nil {
		switch {
		case errors.Is(err, ErrMessageNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrNotMessageSender):
			utils.RespondWithError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, ErrDeleteWindowExpired):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete message")
		}
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "Message deleted")
}

func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	summary, err := h.service.UnreadCount(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load unread count")
		return
	}

	utils.RespondWithData(w, http.StatusOK, summary)
}

// ServeWS upgrades the connection and attaches the client to the hub.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	NewClient(h.hub, conn, userID, h.service).Start()
}

func (h *Handler) respondConversationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, matching.ErrMatchNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotParticipant):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrMatchNotActive):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Something went wrong")
	}
}
