package commissions

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizdesk/bizdesk/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const commissionColumns = `id, employee_id, period_year, period_month, base_amount, rate, amount, status, approved_by, paid_at, created_at, updated_at`

func scanCommission(row interface{ Scan(...any) error }, c *Commission) error {
	return row.Scan(&c.ID, &c.EmployeeID, &c.PeriodYear, &c.PeriodMonth, &c.BaseAmount, &c.Rate, &c.Amount, &c.Status, &c.ApprovedBy, &c.PaidAt, &c.CreatedAt, &c.UpdatedAt)
}

// VolumeByEmployee sums deposit amounts per assigned employee inside [from, to).
func (r *Repository) VolumeByEmployee(ctx context.Context, from, to time.Time) ([]VolumeRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.assigned_to, COALESCE(SUM(d.amount), 0)
		FROM deposits d
		JOIN clients c ON c.id = d.client_id
		WHERE c.assigned_to IS NOT NULL AND d.deposit_date >= $1 AND d.deposit_date < $2
		GROUP BY c.assigned_to`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []VolumeRow
	for rows.Next() {
		var v VolumeRow
		if err := rows.Scan(&v.EmployeeID, &v.Volume); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// UpsertCommission refreshes the pending entry for (employee, period). The
// conditional update keeps approved and paid rows untouched on re-runs.
func (r *Repository) UpsertCommission(ctx context.Context, c *Commission) error {
	row := r.pool.QueryRow(ctx, `INSERT INTO commissions (employee_id, period_year, period_month, base_amount, rate, amount, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (employee_id, period_year, period_month) DO UPDATE
SET base_amount = EXCLUDED.base_amount, rate = EXCLUDED.rate, amount = EXCLUDED.amount, updated_at = now()
WHERE commissions.status = 'pending'
RETURNING `+commissionColumns,
		c.EmployeeID, c.PeriodYear, c.PeriodMonth, c.BaseAmount, c.Rate, c.Amount, c.Status)
	if err := scanCommission(row, c); err != nil {
		return httpx.MapStoreError(err)
	}
	return nil
}

// GetByPeriod fetches the entry for one employee and period.
func (r *Repository) GetByPeriod(ctx context.Context, employeeID int64, year, month int) (Commission, error) {
	var c Commission
	row := r.pool.QueryRow(ctx, `SELECT `+commissionColumns+` FROM commissions
WHERE employee_id = $1 AND period_year = $2 AND period_month = $3`, employeeID, year, month)
	if err := scanCommission(row, &c); err != nil {
		return Commission{}, httpx.MapStoreError(err)
	}
	return c, nil
}

// GetCommission fetches one entry by id.
func (r *Repository) GetCommission(ctx context.Context, id int64) (Commission, error) {
	var c Commission
	row := r.pool.QueryRow(ctx, `SELECT `+commissionColumns+` FROM commissions WHERE id = $1`, id)
	if err := scanCommission(row, &c); err != nil {
		return Commission{}, httpx.MapStoreError(err)
	}
	return c, nil
}

// ListCommissions filters by period and status; zero arguments are skipped.
func (r *Repository) ListCommissions(ctx context.Context, year, month int, status CommissionStatus) ([]Commission, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, val any) {
		args = append(args, val)
		where = append(where, cond+" $"+strconv.Itoa(len(args)))
	}
	if year != 0 {
		add("period_year =", year)
	}
	if month != 0 {
		add("period_month =", month)
	}
	if status != "" {
		add("status =", status)
	}
	query := `SELECT ` + commissionColumns + ` FROM commissions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY period_year DESC, period_month DESC, employee_id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Commission
	for rows.Next() {
		var c Commission
		if err := scanCommission(rows, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SetApproved flips the row to approved and stamps the approver.
func (r *Repository) SetApproved(ctx context.Context, id, approverID int64) (Commission, error) {
	var c Commission
	row := r.pool.QueryRow(ctx, `UPDATE commissions SET status = $1, approved_by = $2, updated_at = now()
WHERE id = $3 RETURNING `+commissionColumns, StatusApproved, approverID, id)
	if err := scanCommission(row, &c); err != nil {
		return Commission{}, httpx.MapStoreError(err)
	}
	return c, nil
}

// SetPaid flips the row to paid with the payout timestamp.
func (r *Repository) SetPaid(ctx context.Context, id int64, paidAt time.Time) (Commission, error) {
	var c Commission
	row := r.pool.QueryRow(ctx, `UPDATE commissions SET status = $1, paid_at = $2, updated_at = now()
WHERE id = $3 RETURNING `+commissionColumns, StatusPaid, paidAt, id)
	if err := scanCommission(row, &c); err != nil {
		return Commission{}, httpx.MapStoreError(err)
	}
	return c, nil
}

var _ RepositoryPort = (*Repository)(nil)
