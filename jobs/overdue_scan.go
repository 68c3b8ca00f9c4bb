package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/bizdesk/bizdesk/internal/dashboard"
	"github.com/bizdesk/bizdesk/internal/deposits"
	jobmetrics "github.com/bizdesk/bizdesk/internal/jobs"
)

// OverdueScanJob flips upcoming withdrawal schedules past their due date to
// overdue and invalidates cached dashboards so the late counts refresh.
type OverdueScanJob struct {
	Deposits  *deposits.Service
	Dashboard *dashboard.Service
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
	clock     func() time.Time
}

// NewOverdueScanJob initialises the overdue scan handler.
func NewOverdueScanJob(deps *deposits.Service, dash *dashboard.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *OverdueScanJob {
	return &OverdueScanJob{
		Deposits:  deps,
		Dashboard: dash,
		Logger:    logger,
		Metrics:   metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the overdue scan.
func (j *OverdueScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Deposits == nil {
		return errors.New("overdue scan: handler not configured")
	}
	var payload OverdueScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskWithdrawalsOverdueScan)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	cutoff := j.now().AddDate(0, 0, -payload.GraceDays)
	logger := j.logger()
	logger.Info("starting overdue scan", slog.Time("cutoff", cutoff))

	flipped, err := j.Deposits.MarkOverdue(ctx, cutoff)
	if err != nil {
		resultErr = err
		logger.Error("overdue scan failed", slog.Any("error", err))
		return resultErr
	}
	j.metrics().AddOverdue(flipped)

	if flipped > 0 && j.Dashboard != nil {
		if err := j.Dashboard.Invalidate(ctx); err != nil {
			logger.Warn("dashboard invalidate", slog.Any("error", err))
		}
	}

	logger.Info("completed overdue scan", slog.Int64("flipped", flipped))
	return resultErr
}

func (j *OverdueScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskWithdrawalsOverdueScan))
	}
	return slog.Default().With(slog.String("job", TaskWithdrawalsOverdueScan))
}

func (j *OverdueScanJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *OverdueScanJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
