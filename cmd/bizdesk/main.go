package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/bizdesk/bizdesk/internal/app"
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
	"github.com/bizdesk/bizdesk/internal/platform/cache"
	"github.com/bizdesk/bizdesk/internal/platform/db"
	"github.com/bizdesk/bizdesk/internal/rbac"
	"github.com/bizdesk/bizdesk/internal/shared"
	"github.com/bizdesk/bizdesk/internal/targets"
	"github.com/bizdesk/bizdesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN, db.Options{MaxConns: cfg.PGMaxConns, MaxConnLifetime: cfg.PGConnLifetime})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "bizdesk_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	auditLogger := shared.NewAuditLogger(dbpool)
	metrics := observability.NewMetrics()

	rbacService := rbac.NewService(rbac.NewRepository(dbpool))
	rbacMiddleware := rbac.Middleware{Service: rbacService, Logger: logger}
	rbacHandler := rbac.NewHandler(logger, rbacService, rbacMiddleware)

	authService := auth.NewService(auth.NewRepository(dbpool))
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	clientsService := clients.NewService(clients.NewRepository(dbpool), auditLogger, logger)
	clientsHandler := clients.NewHandler(logger, clientsService, rbacMiddleware)

	depositsRepo := deposits.NewRepository(dbpool)
	depositsService := deposits.NewService(depositsRepo, auditLogger, logger)
	depositsHandler := deposits.NewHandler(logger, depositsService, rbacMiddleware)

	calendarService := calendar.NewService(depositsRepo, calendar.NewRepository(dbpool))
	calendarHandler := calendar.NewHandler(logger, calendarService, rbacMiddleware)

	dashboardCache := dashboard.NewCache(redisClient, cfg.DashboardCacheTTL)
	dashboardService := dashboard.NewService(dashboard.NewRepository(dbpool), dashboardCache)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService, rbacMiddleware)
	if err := dashboardCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("dashboard cache listener", slog.Any("error", err))
	}

	targetsService := targets.NewService(targets.NewRepository(dbpool))
	targetsHandler := targets.NewHandler(logger, targetsService, rbacMiddleware)

	commissionsService := commissions.NewService(logger, commissions.NewRepository(dbpool), auditLogger)
	commissionsHandler := commissions.NewHandler(logger, commissionsService, rbacMiddleware)

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	payslipMailer := jobs.NewPayslipMailer(jobsClient, dbpool)
	payrollService := payroll.NewService(logger, payroll.NewRepository(dbpool), payroll.NewCommissionTotals(dbpool), payslipMailer)
	payrollHandler := payroll.NewHandler(logger, payrollService, rbacMiddleware)

	attendanceService := attendance.NewService(attendance.NewRepository(dbpool))
	attendanceHandler := attendance.NewHandler(logger, attendanceService, rbacMiddleware)

	employeesService := employees.NewService(logger, employees.NewRepository(dbpool), auditLogger)
	employeesHandler := employees.NewHandler(logger, employeesService, rbacMiddleware)

	chatService := chat.NewService(logger, chat.NewRepository(dbpool), redisClient)
	chatHandler := chat.NewHandler(logger, chatService)

	auditService := audit.NewService(audit.NewRepository(dbpool))
	auditHandler := audit.NewHandler(logger, auditService, rbacMiddleware)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobsClient, logger, rbacMiddleware)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SessionManager:     sessionManager,
		CSRFManager:        csrfManager,
		RBACMiddleware:     rbacMiddleware,
		Metrics:            metrics,
		AuthHandler:        authHandler,
		ClientsHandler:     clientsHandler,
		DepositsHandler:    depositsHandler,
		CalendarHandler:    calendarHandler,
		DashboardHandler:   dashboardHandler,
		TargetsHandler:     targetsHandler,
		CommissionsHandler: commissionsHandler,
		PayrollHandler:     payrollHandler,
		AttendanceHandler:  attendanceHandler,
		EmployeesHandler:   employeesHandler,
		ChatHandler:        chatHandler,
		AuditHandler:       auditHandler,
		PermissionsHandler: rbacHandler,
		JobHandler:         jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
