package calendar

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bizdesk/bizdesk/internal/deposits"
	"github.com/bizdesk/bizdesk/internal/platform/httpx"
	"github.com/bizdesk/bizdesk/internal/rbac"
)

// Handler serves the financial calendar endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers calendar routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny("calendar.view", "deposits.view"))
		r.Get("/events", h.events)
	})
}

func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	clientID := httpx.QueryInt64(r, "client_id", 0)
	now := time.Now().UTC()
	year := httpx.QueryInt(r, "year", now.Year())
	month := time.Month(httpx.QueryInt(r, "month", int(now.Month())))
	filter := Filter{
		Type:   EventType(r.URL.Query().Get("type")),
		Status: deposits.DisplayStatus(r.URL.Query().Get("status")),
	}

	events, err := h.service.MonthEvents(r.Context(), clientID, year, month, now, filter)
	if err != nil {
		switch {
		case errors.Is(err, ErrClientRequired), errors.Is(err, ErrInvalidMonth):
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		default:
			h.logger.Error("calendar events", slog.Any("error", err))
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"year":   year,
		"month":  int(month),
		"events": events,
	})
}
