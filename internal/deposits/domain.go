package deposits

import "time"

// DepositStatus enumerates deposit lifecycle states.
type DepositStatus string

const (
	DepositActive    DepositStatus = "active"
	DepositCompleted DepositStatus = "completed"
	DepositCancelled DepositStatus = "cancelled"
	DepositWithdrawn DepositStatus = "withdrawn"
)

// ScheduleStatus enumerates persisted withdrawal-schedule states.
type ScheduleStatus string

const (
	ScheduleUpcoming  ScheduleStatus = "upcoming"
	ScheduleCompleted ScheduleStatus = "completed"
	ScheduleOverdue   ScheduleStatus = "overdue"
)

// DisplayStatus is the render-side classification of a schedule relative to
// the current date. It is derived, never persisted.
type DisplayStatus string

const (
	DisplayDone     DisplayStatus = "done"
	DisplayLate     DisplayStatus = "late"
	DisplayUpcoming DisplayStatus = "upcoming"
)

// Deposit model.
type Deposit struct {
	ID          int64         `json:"id"`
	ClientID    int64         `json:"client_id"`
	Amount      float64       `json:"amount"`
	DepositDate time.Time     `json:"deposit_date"`
	ProfitRate  float64       `json:"profit_rate"`
	Status      DepositStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Projects reports whether the deposit generates recurring calendar events.
// Completed, cancelled, and withdrawn deposits project nothing.
func (d Deposit) Projects() bool {
	return d.Status == DepositActive
}

// WithdrawalSchedule model. Each row belongs to exactly one deposit.
type WithdrawalSchedule struct {
	ID            int64          `json:"id"`
	DepositID     int64          `json:"deposit_id"`
	DueDate       time.Time      `json:"due_date"`
	Amount        float64        `json:"amount"`
	Status        ScheduleStatus `json:"status"`
	CompletedDate *time.Time     `json:"completed_date,omitempty"`
}

// DisplayStatusAt classifies a schedule for display:
// completed rows are done regardless of date, rows past due are late,
// everything else is upcoming.
func (s WithdrawalSchedule) DisplayStatusAt(today time.Time) DisplayStatus {
	if s.Status == ScheduleCompleted {
		return DisplayDone
	}
	if truncateDay(s.DueDate).Before(truncateDay(today)) {
		return DisplayLate
	}
	return DisplayUpcoming
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CreateDepositInput for recording a client investment.
type CreateDepositInput struct {
	ClientID    int64     `json:"client_id" validate:"required"`
	Amount      float64   `json:"amount" validate:"required,gt=0"`
	DepositDate time.Time `json:"deposit_date" validate:"required"`
	ProfitRate  float64   `json:"profit_rate" validate:"gte=0"`
}

// CreateScheduleInput for attaching a withdrawal schedule to a deposit.
type CreateScheduleInput struct {
	DepositID int64     `json:"deposit_id" validate:"required"`
	DueDate   time.Time `json:"due_date" validate:"required"`
	Amount    float64   `json:"amount" validate:"required,gt=0"`
}
