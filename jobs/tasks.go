package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskWithdrawalsOverdueScan flips past-due withdrawal schedules.
	TaskWithdrawalsOverdueScan = "withdrawals:overdue-scan"
	// TaskDashboardWarmup precomputes the dashboard aggregates.
	TaskDashboardWarmup = "dashboard:warmup"
	// TaskCommissionsBuild runs the monthly commission period.
	TaskCommissionsBuild = "commissions:build"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// HandleSendEmailTask processes TaskTypeSendEmail tasks.
func HandleSendEmailTask(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	// Placeholder: integrate with SMTP/Mailpit in phase 2.
	fmt.Printf("[jobs] send email to %s subject=%s\n", payload.To, payload.Subject)
	return nil
}

// OverdueScanPayload parametrises the overdue scan.
type OverdueScanPayload struct {
	// GraceDays widens the cutoff so freshly due schedules are not flipped
	// at midnight sharp.
	GraceDays int `json:"grace_days"`
}

// NewOverdueScanTask constructs the overdue scan task.
func NewOverdueScanTask(graceDays int) (*asynq.Task, error) {
	data, err := json.Marshal(OverdueScanPayload{GraceDays: graceDays})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWithdrawalsOverdueScan, data), nil
}

// DashboardWarmupPayload parametrises the dashboard warmup.
type DashboardWarmupPayload struct {
	TopLimit int `json:"top_limit"`
}

// NewDashboardWarmupTask constructs the dashboard warmup task.
func NewDashboardWarmupTask(topLimit int) (*asynq.Task, error) {
	data, err := json.Marshal(DashboardWarmupPayload{TopLimit: topLimit})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardWarmup, data), nil
}

// CommissionsBuildPayload parametrises the monthly commission run.
type CommissionsBuildPayload struct {
	PeriodYear  int     `json:"period_year"`
	PeriodMonth int     `json:"period_month"`
	Rate        float64 `json:"rate"`
}

// NewCommissionsBuildTask constructs the commission build task.
func NewCommissionsBuildTask(year, month int, rate float64) (*asynq.Task, error) {
	data, err := json.Marshal(CommissionsBuildPayload{PeriodYear: year, PeriodMonth: month, Rate: rate})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCommissionsBuild, data), nil
}
