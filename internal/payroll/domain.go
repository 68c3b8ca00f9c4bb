package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayslipStatus walks draft -> paid.
type PayslipStatus string

const (
	StatusDraft PayslipStatus = "draft"
	StatusPaid  PayslipStatus = "paid"
)

// Payslip is one employee's pay statement for a period. Money fields use
// decimals so repeated runs never accumulate float drift.
type Payslip struct {
	ID          int64           `json:"id"`
	EmployeeID  int64           `json:"employee_id"`
	PeriodYear  int             `json:"period_year"`
	PeriodMonth int             `json:"period_month"`
	BaseSalary  decimal.Decimal `json:"base_salary"`
	Commissions decimal.Decimal `json:"commissions"`
	Bonuses     decimal.Decimal `json:"bonuses"`
	Deductions  decimal.Decimal `json:"deductions"`
	NetPay      decimal.Decimal `json:"net_pay"`
	NetPayLabel string          `json:"net_pay_label"`
	Status      PayslipStatus   `json:"status"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreatePayslipInput carries the inputs of one pay statement. Amounts arrive
// as strings so the JSON layer never round-trips them through floats.
type CreatePayslipInput struct {
	EmployeeID  int64  `json:"employee_id" validate:"required"`
	PeriodYear  int    `json:"period_year" validate:"required,min=2000"`
	PeriodMonth int    `json:"period_month" validate:"required,min=1,max=12"`
	BaseSalary  string `json:"base_salary" validate:"required"`
	Bonuses     string `json:"bonuses"`
	Deductions  string `json:"deductions"`
}
