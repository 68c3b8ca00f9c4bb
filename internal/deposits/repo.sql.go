package deposits

import (
	"context"
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

const depositColumns = `id, client_id, amount, deposit_date, profit_rate, status, created_at, updated_at`
const scheduleColumns = `id, deposit_id, due_date, amount, status, completed_date`

// CreateDeposit inserts a deposit with status active.
func (r *Repository) CreateDeposit(ctx context.Context, input CreateDepositInput, now time.Time) (*Deposit, error) {
	var dep Deposit
	err := r.pool.QueryRow(ctx, `INSERT INTO deposits (client_id, amount, deposit_date, profit_rate, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING `+depositColumns,
		input.ClientID, input.Amount, input.DepositDate, input.ProfitRate, DepositActive, now).
		Scan(&dep.ID, &dep.ClientID, &dep.Amount, &dep.DepositDate, &dep.ProfitRate, &dep.Status, &dep.CreatedAt, &dep.UpdatedAt)
	if err != nil {
		return nil, httpx.MapStoreError(err)
	}
	return &dep, nil
}

// GetDeposit fetches one deposit by id.
func (r *Repository) GetDeposit(ctx context.Context, id int64) (*Deposit, error) {
	var dep Deposit
	err := r.pool.QueryRow(ctx, `SELECT `+depositColumns+` FROM deposits WHERE id = $1`, id).
		Scan(&dep.ID, &dep.ClientID, &dep.Amount, &dep.DepositDate, &dep.ProfitRate, &dep.Status, &dep.CreatedAt, &dep.UpdatedAt)
	if err != nil {
		return nil, httpx.MapStoreError(err)
	}
	return &dep, nil
}

// ListDepositsByClient returns the client's deposits ordered by deposit date.
func (r *Repository) ListDepositsByClient(ctx context.Context, clientID int64) ([]Deposit, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+depositColumns+` FROM deposits WHERE client_id = $1 ORDER BY deposit_date`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Deposit
	for rows.Next() {
		var dep Deposit
		if err := rows.Scan(&dep.ID, &dep.ClientID, &dep.Amount, &dep.DepositDate, &dep.ProfitRate, &dep.Status, &dep.CreatedAt, &dep.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, dep)
	}
	return out, rows.Err()
}

// CreateSchedule inserts a withdrawal schedule with status upcoming.
func (r *Repository) CreateSchedule(ctx context.Context, input CreateScheduleInput) (*WithdrawalSchedule, error) {
	var sched WithdrawalSchedule
	err := r.pool.QueryRow(ctx, `INSERT INTO withdrawal_schedules (deposit_id, due_date, amount, status)
VALUES ($1, $2, $3, $4) RETURNING `+scheduleColumns,
		input.DepositID, input.DueDate, input.Amount, ScheduleUpcoming).
		Scan(&sched.ID, &sched.DepositID, &sched.DueDate, &sched.Amount, &sched.Status, &sched.CompletedDate)
	if err != nil {
		return nil, httpx.MapStoreError(err)
	}
	return &sched, nil
}

// ListSchedulesByClient returns schedules joined through the client's deposits.
func (r *Repository) ListSchedulesByClient(ctx context.Context, clientID int64) ([]WithdrawalSchedule, error) {
	rows, err := r.pool.Query(ctx, `SELECT s.id, s.deposit_id, s.due_date, s.amount, s.status, s.completed_date
FROM withdrawal_schedules s
JOIN deposits d ON d.id = s.deposit_id
WHERE d.client_id = $1 ORDER BY s.due_date`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSchedules(rows)
}

// ListSchedulesByDeposit returns schedules for one deposit.
func (r *Repository) ListSchedulesByDeposit(ctx context.Context, depositID int64) ([]WithdrawalSchedule, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+scheduleColumns+` FROM withdrawal_schedules WHERE deposit_id = $1 ORDER BY due_date`, depositID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSchedules(rows)
}

// CompleteSchedule sets status completed and the completion date in one statement.
func (r *Repository) CompleteSchedule(ctx context.Context, id int64, completedAt time.Time) (*WithdrawalSchedule, error) {
	var sched WithdrawalSchedule
	err := r.pool.QueryRow(ctx, `UPDATE withdrawal_schedules SET status = $1, completed_date = $2 WHERE id = $3 RETURNING `+scheduleColumns,
		ScheduleCompleted, completedAt, id).
		Scan(&sched.ID, &sched.DepositID, &sched.DueDate, &sched.Amount, &sched.Status, &sched.CompletedDate)
	if err != nil {
		return nil, httpx.MapStoreError(err)
	}
	return &sched, nil
}

// MarkSchedulesOverdue flips upcoming rows past due to overdue and returns the count.
func (r *Repository) MarkSchedulesOverdue(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE withdrawal_schedules SET status = $1 WHERE status = $2 AND due_date < $3`,
		ScheduleOverdue, ScheduleUpcoming, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanSchedules(rows pgxRows) ([]WithdrawalSchedule, error) {
	var out []WithdrawalSchedule
	for rows.Next() {
		var sched WithdrawalSchedule
		if err := rows.Scan(&sched.ID, &sched.DepositID, &sched.DueDate, &sched.Amount, &sched.Status, &sched.CompletedDate); err != nil {
			return nil, err
		}
		out = append(out, sched)
	}
	return out, rows.Err()
}

var _ RepositoryPort = (*Repository)(nil)
