package targets

import "time"

// TargetStatus reflects how far along a target is.
type TargetStatus string

const (
	StatusPending    TargetStatus = "pending"
	StatusInProgress TargetStatus = "in_progress"
	StatusAchieved   TargetStatus = "achieved"
)

// Target is a periodic sales goal assigned to an employee.
type Target struct {
	ID          int64        `json:"id"`
	EmployeeID  int64        `json:"employee_id"`
	PeriodYear  int          `json:"period_year"`
	PeriodMonth int          `json:"period_month"`
	Amount      float64      `json:"amount"`
	Current     float64      `json:"current"`
	Progress    int          `json:"progress"`
	Status      TargetStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// CreateTargetInput carries a new target definition.
type CreateTargetInput struct {
	EmployeeID  int64   `json:"employee_id" validate:"required"`
	PeriodYear  int     `json:"period_year" validate:"required,min=2000"`
	PeriodMonth int     `json:"period_month" validate:"required,min=1,max=12"`
	Amount      float64 `json:"amount" validate:"min=0"`
}
