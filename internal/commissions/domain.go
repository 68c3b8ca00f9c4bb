package commissions

import "time"

// CommissionStatus walks pending -> approved -> paid.
type CommissionStatus string

const (
	StatusPending  CommissionStatus = "pending"
	StatusApproved CommissionStatus = "approved"
	StatusPaid     CommissionStatus = "paid"
)

// Commission is one employee's payout entry for a period.
type Commission struct {
	ID          int64            `json:"id"`
	EmployeeID  int64            `json:"employee_id"`
	PeriodYear  int              `json:"period_year"`
	PeriodMonth int              `json:"period_month"`
	BaseAmount  float64          `json:"base_amount"`
	Rate        float64          `json:"rate"`
	Amount      float64          `json:"amount"`
	Status      CommissionStatus `json:"status"`
	ApprovedBy  *int64           `json:"approved_by,omitempty"`
	PaidAt      *time.Time       `json:"paid_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// VolumeRow is an employee's managed deposit volume inside one period.
type VolumeRow struct {
	EmployeeID int64
	Volume     float64
}

// BuildPeriodInput asks for a commission run over one calendar month.
type BuildPeriodInput struct {
	PeriodYear  int     `json:"period_year" validate:"required,min=2000"`
	PeriodMonth int     `json:"period_month" validate:"required,min=1,max=12"`
	Rate        float64 `json:"rate" validate:"required,gt=0,lte=1"`
}
