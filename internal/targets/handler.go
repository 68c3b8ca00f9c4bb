package targets

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bizdesk/bizdesk/internal/platform/httpx"
	"github.com/bizdesk/bizdesk/internal/rbac"
)

// Handler serves the target endpoints.
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

// MountRoutes registers target routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny("targets.view", "targets.manage"))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll("targets.manage"))
		r.Post("/", h.create)
		r.Put("/{id}/progress", h.recordProgress)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var employeeID int64
	if raw := r.URL.Query().Get("employee_id"); raw != "" {
		employeeID, _ = strconv.ParseInt(raw, 10, 64)
	}
	rows, err := h.service.ListTargets(r.Context(),
		employeeID,
		httpx.QueryInt(r, "year", 0),
		httpx.QueryInt(r, "month", 0))
	if err != nil {
		h.respondErr(w, "list targets", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"targets": rows})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	target, err := h.service.GetTarget(r.Context(), id)
	if err != nil {
		h.respondErr(w, "get target", err)
		return
	}
	httpx.JSON(w, http.StatusOK, target)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var input CreateTargetInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validate.Struct(input); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	target, err := h.service.CreateTarget(r.Context(), input)
	if err != nil {
		h.respondErr(w, "create target", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, target)
}

func (h *Handler) recordProgress(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	var req struct {
		Current float64 `json:"current"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	target, err := h.service.RecordProgress(r.Context(), id, req.Current)
	if err != nil {
		h.respondErr(w, "record target progress", err)
		return
	}
	httpx.JSON(w, http.StatusOK, target)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.service.DeleteTarget(r.Context(), id); err != nil {
		h.respondErr(w, "delete target", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrEmployeeRequired):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
