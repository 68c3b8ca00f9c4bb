package payroll

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bizdesk/bizdesk/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence. Money columns are
// NUMERIC(14,2); pgx scans them straight into decimals.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const payslipColumns = `id, employee_id, period_year, period_month, base_salary, commissions, bonuses, deductions, net_pay, status, paid_at, created_at, updated_at`

func scanPayslip(row interface{ Scan(...any) error }, p *Payslip) error {
	return row.Scan(&p.ID, &p.EmployeeID, &p.PeriodYear, &p.PeriodMonth, &p.BaseSalary, &p.Commissions, &p.Bonuses, &p.Deductions, &p.NetPay, &p.Status, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt)
}

// InsertPayslip stores a draft slip. One slip per employee and period.
func (r *Repository) InsertPayslip(ctx context.Context, p *Payslip) error {
	row := r.pool.QueryRow(ctx, `INSERT INTO payslips (employee_id, period_year, period_month, base_salary, commissions, bonuses, deductions, net_pay, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING `+payslipColumns,
		p.EmployeeID, p.PeriodYear, p.PeriodMonth, p.BaseSalary, p.Commissions, p.Bonuses, p.Deductions, p.NetPay, p.Status)
	if err := scanPayslip(row, p); err != nil {
		return httpx.MapStoreError(err)
	}
	return nil
}

// GetPayslip fetches one slip by id.
func (r *Repository) GetPayslip(ctx context.Context, id int64) (Payslip, error) {
	var p Payslip
	row := r.pool.QueryRow(ctx, `SELECT `+payslipColumns+` FROM payslips WHERE id = $1`, id)
	if err := scanPayslip(row, &p); err != nil {
		return Payslip{}, httpx.MapStoreError(err)
	}
	return p, nil
}

// ListPayslips filters by employee and period; zero arguments are skipped.
func (r *Repository) ListPayslips(ctx context.Context, employeeID int64, year, month int) ([]Payslip, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, val any) {
		args = append(args, val)
		where = append(where, cond+" $"+strconv.Itoa(len(args)))
	}
	if employeeID != 0 {
		add("employee_id =", employeeID)
	}
	if year != 0 {
		add("period_year =", year)
	}
	if month != 0 {
		add("period_month =", month)
	}
	query := `SELECT ` + payslipColumns + ` FROM payslips`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY period_year DESC, period_month DESC, employee_id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payslip
	for rows.Next() {
		var p Payslip
		if err := scanPayslip(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SetPaid settles the slip and stamps the payout time.
func (r *Repository) SetPaid(ctx context.Context, id int64, paidAt time.Time) (Payslip, error) {
	var p Payslip
	row := r.pool.QueryRow(ctx, `UPDATE payslips SET status = $1, paid_at = $2, updated_at = now()
WHERE id = $3 RETURNING `+payslipColumns, StatusPaid, paidAt, id)
	if err := scanPayslip(row, &p); err != nil {
		return Payslip{}, httpx.MapStoreError(err)
	}
	return p, nil
}

var _ RepositoryPort = (*Repository)(nil)

// CommissionTotals reads approved commission sums for the pay run.
type CommissionTotals struct {
	pool *pgxpool.Pool
}

// NewCommissionTotals builds the commission source on the shared pool.
func NewCommissionTotals(pool *pgxpool.Pool) *CommissionTotals {
	return &CommissionTotals{pool: pool}
}

// ApprovedTotal sums the employee's approved commission amounts for the period.
func (c *CommissionTotals) ApprovedTotal(ctx context.Context, employeeID int64, year, month int) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := c.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM commissions
WHERE employee_id = $1 AND period_year = $2 AND period_month = $3 AND status IN ('approved', 'paid')`,
		employeeID, year, month).Scan(&total)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return total, nil
}

var _ CommissionSource = (*CommissionTotals)(nil)
