package commissions

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bizdesk/bizdesk/internal/platform/httpx"
	"github.com/bizdesk/bizdesk/internal/rbac"
	"github.com/bizdesk/bizdesk/internal/shared"
)

// Handler serves the commission endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	rbac     rbac.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New(), rbac: rbac}
}

// MountRoutes registers commission routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny("commissions.view", "commissions.manage"))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll("commissions.manage"))
		r.Post("/build", h.buildPeriod)
		r.Put("/{id}/approve", h.approve)
		r.Put("/{id}/pay", h.markPaid)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ListCommissions(r.Context(),
		httpx.QueryInt(r, "year", 0),
		httpx.QueryInt(r, "month", 0),
		CommissionStatus(r.URL.Query().Get("status")))
	if err != nil {
		h.respondErr(w, "list commissions", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"commissions": rows})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	c, err := h.service.GetCommission(r.Context(), id)
	if err != nil {
		h.respondErr(w, "get commission", err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) buildPeriod(w http.ResponseWriter, r *http.Request) {
	var input BuildPeriodInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validate.Struct(input); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	actorID, _ := shared.CurrentUserID(r.Context())
	rows, err := h.service.BuildPeriod(r.Context(), actorID, input)
	if err != nil {
		h.respondErr(w, "build commission period", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"commissions": rows})
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Approve)
}

func (h *Handler) markPaid(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.MarkPaid)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, actorID, id int64) (Commission, error)) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	actorID, _ := shared.CurrentUserID(r.Context())
	c, err := fn(r.Context(), actorID, id)
	if err != nil {
		h.respondErr(w, "commission transition", err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) respondErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrBadTransition):
		httpx.Problem(w, http.StatusConflict, "Invalid Transition", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
