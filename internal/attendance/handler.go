package attendance

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bizdesk/bizdesk/internal/platform/httpx"
	"github.com/bizdesk/bizdesk/internal/rbac"
	"github.com/bizdesk/bizdesk/internal/shared"
)

// Handler serves the attendance endpoints. Check-in and check-out act on the
// authenticated user; listings and summaries need the view permission.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers attendance routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/check-in", h.checkIn)
	r.Post("/check-out", h.checkOut)
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny("attendance.view", "attendance.manage"))
		r.Get("/{employeeID}", h.listMonth)
		r.Get("/{employeeID}/summary", h.monthSummary)
	})
}

func (h *Handler) checkIn(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.CurrentUserID(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var req struct {
		Note string `json:"note"`
	}
	_ = httpx.DecodeJSON(r, &req)
	entry, err := h.service.CheckIn(r.Context(), userID, req.Note)
	if err != nil {
		h.respondErr(w, "check in", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, entry)
}

func (h *Handler) checkOut(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.CurrentUserID(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	entry, err := h.service.CheckOut(r.Context(), userID)
	if err != nil {
		h.respondErr(w, "check out", err)
		return
	}
	httpx.JSON(w, http.StatusOK, entry)
}

func (h *Handler) listMonth(w http.ResponseWriter, r *http.Request) {
	employeeID, year, month, err := monthParams(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	entries, err := h.service.ListMonth(r.Context(), employeeID, year, month)
	if err != nil {
		h.respondErr(w, "list attendance", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (h *Handler) monthSummary(w http.ResponseWriter, r *http.Request) {
	employeeID, year, month, err := monthParams(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	summary, err := h.service.MonthSummary(r.Context(), employeeID, year, month)
	if err != nil {
		h.respondErr(w, "attendance summary", err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func monthParams(r *http.Request) (employeeID int64, year, month int, err error) {
	employeeID, err = strconv.ParseInt(chi.URLParam(r, "employeeID"), 10, 64)
	if err != nil {
		return 0, 0, 0, err
	}
	now := time.Now()
	year = httpx.QueryInt(r, "year", now.Year())
	month = httpx.QueryInt(r, "month", int(now.Month()))
	if month < 1 || month > 12 {
		return 0, 0, 0, errors.New("month out of range")
	}
	return employeeID, year, month, nil
}

func (h *Handler) respondErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrAlreadyCheckedIn), errors.Is(err, ErrCheckOutBeforeIn):
		httpx.Problem(w, http.StatusConflict, "Attendance Conflict", err.Error())
	case errors.Is(err, ErrNotCheckedIn):
		httpx.Problem(w, http.StatusBadRequest, "No Open Entry", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
