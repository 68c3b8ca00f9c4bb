package deposits

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bizdesk/bizdesk/internal/platform/httpx"
	"github.com/bizdesk/bizdesk/internal/rbac"
	"github.com/bizdesk/bizdesk/internal/shared"
)

// Handler serves deposit and withdrawal-schedule endpoints.
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

// MountRoutes registers deposit routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny("deposits.view", "deposits.manage"))
		r.Get("/{id}", h.get)
		r.Get("/by-client/{clientID}", h.listByClient)
		r.Get("/schedules/by-client/{clientID}", h.listSchedules)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll("deposits.manage"))
		r.Post("/", h.create)
		r.Post("/schedules", h.createSchedule)
		r.Post("/schedules/{id}/complete", h.completeSchedule)
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var input CreateDepositInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validate.Struct(input); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	actorID, _ := shared.CurrentUserID(r.Context())
	dep, err := h.service.CreateDeposit(r.Context(), actorID, input)
	if err != nil {
		h.respondErr(w, "create deposit", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, dep)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	dep, err := h.service.GetDeposit(r.Context(), id)
	if err != nil {
		h.respondErr(w, "get deposit", err)
		return
	}
	httpx.JSON(w, http.StatusOK, dep)
}

func (h *Handler) listByClient(w http.ResponseWriter, r *http.Request) {
	clientID, err := strconv.ParseInt(chi.URLParam(r, "clientID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	rows, err := h.service.ListDeposits(r.Context(), clientID)
	if err != nil {
		h.respondErr(w, "list deposits", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deposits": rows})
}

func (h *Handler) listSchedules(w http.ResponseWriter, r *http.Request) {
	clientID, err := strconv.ParseInt(chi.URLParam(r, "clientID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	views, err := h.service.ListSchedules(r.Context(), clientID, time.Now().UTC())
	if err != nil {
		h.respondErr(w, "list schedules", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"schedules": views})
}

func (h *Handler) createSchedule(w http.ResponseWriter, r *http.Request) {
	var input CreateScheduleInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validate.Struct(input); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	actorID, _ := shared.CurrentUserID(r.Context())
	sched, err := h.service.CreateSchedule(r.Context(), actorID, input)
	if err != nil {
		h.respondErr(w, "create schedule", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, sched)
}

func (h *Handler) completeSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	actorID, _ := shared.CurrentUserID(r.Context())
	sched, err := h.service.CompleteWithdrawal(r.Context(), actorID, id)
	if err != nil {
		h.respondErr(w, "complete withdrawal", err)
		return
	}
	httpx.JSON(w, http.StatusOK, sched)
}

func (h *Handler) respondErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrClientRequired), errors.Is(err, ErrAmountPositive), errors.Is(err, ErrDateRequired):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
