package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
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

const entryColumns = `id, employee_id, day, check_in, check_out, note`

func scanEntry(row interface{ Scan(...any) error }, e *Entry) error {
	return row.Scan(&e.ID, &e.EmployeeID, &e.Day, &e.CheckIn, &e.CheckOut, &e.Note)
}

// InsertEntry opens a new attendance entry. The unique index on
// (employee_id, day) backs the one-entry-per-day rule.
func (r *Repository) InsertEntry(ctx context.Context, e *Entry) error {
	row := r.pool.QueryRow(ctx, `INSERT INTO attendance_entries (employee_id, day, check_in, note)
VALUES ($1, $2, $3, $4) RETURNING `+entryColumns,
		e.EmployeeID, e.Day, e.CheckIn, e.Note)
	if err := scanEntry(row, e); err != nil {
		return httpx.MapStoreError(err)
	}
	return nil
}

// OpenEntry finds the day's entry without a check-out yet.
func (r *Repository) OpenEntry(ctx context.Context, employeeID int64, day time.Time) (Entry, bool, error) {
	var e Entry
	row := r.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM attendance_entries
WHERE employee_id = $1 AND day = $2 AND check_out IS NULL`, employeeID, day)
	if err := scanEntry(row, &e); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, false, nil
		}
		return Entry{}, false, err
	}
	return e, true, nil
}

// EntryForDay finds the day's entry regardless of check-out state.
func (r *Repository) EntryForDay(ctx context.Context, employeeID int64, day time.Time) (Entry, bool, error) {
	var e Entry
	row := r.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM attendance_entries
WHERE employee_id = $1 AND day = $2`, employeeID, day)
	if err := scanEntry(row, &e); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, false, nil
		}
		return Entry{}, false, err
	}
	return e, true, nil
}

// CloseEntry stamps the check-out time.
func (r *Repository) CloseEntry(ctx context.Context, id int64, checkOut time.Time) (Entry, error) {
	var e Entry
	row := r.pool.QueryRow(ctx, `UPDATE attendance_entries SET check_out = $1 WHERE id = $2 RETURNING `+entryColumns,
		checkOut, id)
	if err := scanEntry(row, &e); err != nil {
		return Entry{}, httpx.MapStoreError(err)
	}
	return e, nil
}

// ListEntries returns entries inside [from, to) ordered by day.
func (r *Repository) ListEntries(ctx context.Context, employeeID int64, from, to time.Time) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+entryColumns+` FROM attendance_entries
WHERE employee_id = $1 AND day >= $2 AND day < $3 ORDER BY day`, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := scanEntry(rows, &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

var _ RepositoryPort = (*Repository)(nil)
