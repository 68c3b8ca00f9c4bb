package chat

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bizdesk/bizdesk/internal/platform/httpx"
	"github.com/bizdesk/bizdesk/internal/shared"
)

// Handler serves the messaging endpoints. All routes act as the
// authenticated user; there is no admin view into other people's threads.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers chat routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/conversations", h.conversations)
	r.Get("/threads/{peerID}", h.thread)
	r.Post("/threads/{peerID}", h.send)
	r.Put("/threads/{peerID}/read", h.markRead)
}

func (h *Handler) conversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.CurrentUserID(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	rows, err := h.service.Conversations(r.Context(), userID)
	if err != nil {
		h.respondErr(w, "list conversations", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"conversations": rows})
}

func (h *Handler) thread(w http.ResponseWriter, r *http.Request) {
	userID, peerID, ok := h.ids(w, r)
	if !ok {
		return
	}
	msgs, err := h.service.Thread(r.Context(), userID, peerID, httpx.QueryInt(r, "limit", 50))
	if err != nil {
		h.respondErr(w, "load thread", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	userID, peerID, ok := h.ids(w, r)
	if !ok {
		return
	}
	var req struct {
		Body string `json:"body"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	msg, err := h.service.Send(r.Context(), userID, peerID, req.Body)
	if err != nil {
		h.respondErr(w, "send message", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, msg)
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	userID, peerID, ok := h.ids(w, r)
	if !ok {
		return
	}
	count, err := h.service.MarkRead(r.Context(), userID, peerID)
	if err != nil {
		h.respondErr(w, "mark thread read", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"marked": count})
}

func (h *Handler) ids(w http.ResponseWriter, r *http.Request) (userID, peerID int64, ok bool) {
	userID, ok = shared.CurrentUserID(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return 0, 0, false
	}
	peerID, err := strconv.ParseInt(chi.URLParam(r, "peerID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return 0, 0, false
	}
	return userID, peerID, true
}

func (h *Handler) respondErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrEmptyBody), errors.Is(err, ErrSelfMessage):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
