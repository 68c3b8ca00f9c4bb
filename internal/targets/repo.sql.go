package targets

import (
	"context"
	"strconv"
	"strings"

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

const targetColumns = `id, employee_id, period_year, period_month, amount, current_amount, progress, status, created_at, updated_at`

func scanTarget(row interface{ Scan(...any) error }, t *Target) error {
	return row.Scan(&t.ID, &t.EmployeeID, &t.PeriodYear, &t.PeriodMonth, &t.Amount, &t.Current, &t.Progress, &t.Status, &t.CreatedAt, &t.UpdatedAt)
}

// InsertTarget stores a fresh target, filling in the generated fields.
func (r *Repository) InsertTarget(ctx context.Context, t *Target) error {
	row := r.pool.QueryRow(ctx, `INSERT INTO targets (employee_id, period_year, period_month, amount, current_amount, progress, status)
VALUES ($1, $2, $3, $4, 0, 0, $5) RETURNING `+targetColumns,
		t.EmployeeID, t.PeriodYear, t.PeriodMonth, t.Amount, t.Status)
	if err := scanTarget(row, t); err != nil {
		return httpx.MapStoreError(err)
	}
	return nil
}

// GetTarget fetches one target by id.
func (r *Repository) GetTarget(ctx context.Context, id int64) (Target, error) {
	var t Target
	row := r.pool.QueryRow(ctx, `SELECT `+targetColumns+` FROM targets WHERE id = $1`, id)
	if err := scanTarget(row, &t); err != nil {
		return Target{}, httpx.MapStoreError(err)
	}
	return t, nil
}

// ListTargets filters by employee and period; zero arguments are skipped.
func (r *Repository) ListTargets(ctx context.Context, employeeID int64, year, month int) ([]Target, error) {
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
	query := `SELECT ` + targetColumns + ` FROM targets`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY period_year DESC, period_month DESC, employee_id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Target
	for rows.Next() {
		var t Target
		if err := scanTarget(rows, &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpdateProgress writes the amount, percentage and status in one statement.
func (r *Repository) UpdateProgress(ctx context.Context, id int64, current float64, progress int, status TargetStatus) (Target, error) {
	var t Target
	row := r.pool.QueryRow(ctx, `UPDATE targets SET current_amount = $1, progress = $2, status = $3, updated_at = now()
WHERE id = $4 RETURNING `+targetColumns, current, progress, status, id)
	if err := scanTarget(row, &t); err != nil {
		return Target{}, httpx.MapStoreError(err)
	}
	return t, nil
}

// DeleteTarget removes a target, reporting not found when nothing matched.
func (r *Repository) DeleteTarget(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM targets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
