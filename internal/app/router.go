package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bizdesk/bizdesk/internal/attendance"
	"github.com/bizdesk/bizdesk/internal/audit"
	"github.com/bizdesk/bizdesk/internal/auth"
	"github.com/bizdesk/bizdesk/internal/calendar"
	"github.com/bizdesk/bizdesk/internal/chat"
	"github.com/bizdesk/bizdesk/internal/clients"
	"github.com/bizdesk/bizdesk/internal/commissions"
	"github.com/bizdesk/bizdesk/internal/dashboard"
	"github.com/bizdesk/bizdesk/internal/deposits"
	"github.com/bizdesk/bizdesk/internal/employees"
	"github.com/bizdesk/bizdesk/internal/observability"
	"github.com/bizdesk/bizdesk/internal/payroll"
	"github.com/bizdesk/bizdesk/internal/rbac"
	"github.com/bizdesk/bizdesk/internal/shared"
	"github.com/bizdesk/bizdesk/internal/targets"
	"github.com/bizdesk/bizdesk/jobs"
	"github.com/bizdesk/bizdesk/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	RBACMiddleware rbac.Middleware
	Metrics        *observability.Metrics

	AuthHandler        *auth.Handler
	ClientsHandler     *clients.Handler
	DepositsHandler    *deposits.Handler
	CalendarHandler    *calendar.Handler
	DashboardHandler   *dashboard.Handler
	TargetsHandler     *targets.Handler
	CommissionsHandler *commissions.Handler
	PayrollHandler     *payroll.Handler
	AttendanceHandler  *attendance.Handler
	EmployeesHandler   *employees.Handler
	ChatHandler        *chat.Handler
	AuditHandler       *audit.Handler
	PermissionsHandler *rbac.Handler
	JobHandler         *jobs.Handler
}

// NewRouter constructs the chi.Router with Bizdesk defaults. All API routes
// live under /api/v1; everything else falls through to the embedded SPA.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)
		if params.ClientsHandler != nil {
			r.Route("/clients", params.ClientsHandler.MountRoutes)
		}
		if params.DepositsHandler != nil {
			r.Route("/deposits", params.DepositsHandler.MountRoutes)
		}
		if params.CalendarHandler != nil {
			r.Route("/calendar", params.CalendarHandler.MountRoutes)
		}
		if params.DashboardHandler != nil {
			r.Route("/dashboard", params.DashboardHandler.MountRoutes)
		}
		if params.TargetsHandler != nil {
			r.Route("/targets", params.TargetsHandler.MountRoutes)
		}
		if params.CommissionsHandler != nil {
			r.Route("/commissions", params.CommissionsHandler.MountRoutes)
		}
		if params.PayrollHandler != nil {
			r.Route("/payroll", params.PayrollHandler.MountRoutes)
		}
		if params.AttendanceHandler != nil {
			r.Route("/attendance", params.AttendanceHandler.MountRoutes)
		}
		if params.EmployeesHandler != nil {
			r.Route("/employees", params.EmployeesHandler.MountRoutes)
		}
		if params.ChatHandler != nil {
			r.Route("/chat", params.ChatHandler.MountRoutes)
		}
		if params.AuditHandler != nil {
			r.Route("/audit", params.AuditHandler.MountRoutes)
		}
		if params.PermissionsHandler != nil {
			r.Route("/rbac", params.PermissionsHandler.MountRoutes)
		}
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		// Static files are served without session or CSRF requirements.
		fileServer := http.StripPrefix("/", http.FileServer(http.FS(staticFS)))
		r.Handle("/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler wraps the SPA file server with Cache-Control headers so
// browsers keep assets for an hour.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
