package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/bizdesk/bizdesk/internal/commissions"
	jobmetrics "github.com/bizdesk/bizdesk/internal/jobs"
)

// CommissionsBuildJob runs the commission period for one month. With a zero
// period in the payload it targets the previous calendar month, which is what
// the monthly cron wants.
type CommissionsBuildJob struct {
	Service *commissions.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewCommissionsBuildJob initialises the commission build handler.
func NewCommissionsBuildJob(service *commissions.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *CommissionsBuildJob {
	return &CommissionsBuildJob{
		Service: service,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the commission run.
func (j *CommissionsBuildJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("commissions build: handler not configured")
	}
	var payload CommissionsBuildPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Rate <= 0 {
		return asynq.SkipRetry
	}
	if payload.PeriodYear == 0 || payload.PeriodMonth == 0 {
		prev := j.now().AddDate(0, -1, 0)
		payload.PeriodYear = prev.Year()
		payload.PeriodMonth = int(prev.Month())
	}

	tracker := j.metrics().Track(TaskCommissionsBuild)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(
		slog.Int("year", payload.PeriodYear),
		slog.Int("month", payload.PeriodMonth),
	)
	logger.Info("starting commission build")

	rows, err := j.Service.BuildPeriod(ctx, 0, commissions.BuildPeriodInput{
		PeriodYear:  payload.PeriodYear,
		PeriodMonth: payload.PeriodMonth,
		Rate:        payload.Rate,
	})
	if err != nil {
		resultErr = err
		logger.Error("commission build failed", slog.Any("error", err))
		return resultErr
	}

	logger.Info("completed commission build", slog.Int("entries", len(rows)))
	return resultErr
}

func (j *CommissionsBuildJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskCommissionsBuild))
	}
	return slog.Default().With(slog.String("job", TaskCommissionsBuild))
}

func (j *CommissionsBuildJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *CommissionsBuildJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
