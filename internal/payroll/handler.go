package payroll

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

// Handler serves the payroll endpoints.
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

// MountRoutes registers payroll routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny("payroll.view", "payroll.manage"))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll("payroll.manage"))
		r.Post("/", h.create)
		r.Put("/{id}/pay", h.markPaid)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var employeeID int64
	if raw := r.URL.Query().Get("employee_id"); raw != "" {
		employeeID, _ = strconv.ParseInt(raw, 10, 64)
	}
	rows, err := h.service.ListPayslips(r.Context(),
		employeeID,
		httpx.QueryInt(r, "year", 0),
		httpx.QueryInt(r, "month", 0))
	if err != nil {
		h.respondErr(w, "list payslips", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"payslips": rows})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	p, err := h.service.GetPayslip(r.Context(), id)
	if err != nil {
		h.respondErr(w, "get payslip", err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var input CreatePayslipInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validate.Struct(input); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	p, err := h.service.CreatePayslip(r.Context(), input)
	if err != nil {
		h.respondErr(w, "create payslip", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *Handler) markPaid(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	p, err := h.service.MarkPaid(r.Context(), id)
	if err != nil {
		h.respondErr(w, "mark payslip paid", err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) respondErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrBadAmount):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrAlreadyPaid):
		httpx.Problem(w, http.StatusConflict, "Already Paid", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
