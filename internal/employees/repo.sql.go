package employees

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizdesk/bizdesk/internal/platform/db"
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

const employeeSelect = `SELECT p.id, p.account_id, a.email, p.full_name, p.position, p.phone, a.is_active, p.hired_at, p.created_at, p.updated_at
FROM employee_profiles p
JOIN accounts a ON a.id = p.account_id`

func scanEmployee(row interface{ Scan(...any) error }, e *Employee) error {
	return row.Scan(&e.ID, &e.AccountID, &e.Email, &e.FullName, &e.Position, &e.Phone, &e.IsActive, &e.HiredAt, &e.CreatedAt, &e.UpdatedAt)
}

// CreateEmployee provisions account, profile and role grant in one
// transaction. The unique index on accounts.email surfaces duplicates.
func (r *Repository) CreateEmployee(ctx context.Context, input CreateEmployeeInput, passwordHash string, hiredAt time.Time) (*Employee, error) {
	var emp Employee
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var accountID int64
		if err := tx.QueryRow(ctx, `INSERT INTO accounts (email, password_hash, is_active)
VALUES ($1, $2, true) RETURNING id`, input.Email, passwordHash).Scan(&accountID); err != nil {
			return err
		}
		var profileID int64
		if err := tx.QueryRow(ctx, `INSERT INTO employee_profiles (account_id, full_name, position, phone, is_active, hired_at)
VALUES ($1, $2, $3, $4, true, $5) RETURNING id`,
			accountID, input.FullName, input.Position, input.Phone, hiredAt).Scan(&profileID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`,
			accountID, input.RoleID); err != nil {
			return err
		}
		row := tx.QueryRow(ctx, employeeSelect+` WHERE p.id = $1`, profileID)
		return scanEmployee(row, &emp)
	})
	if err != nil {
		return nil, httpx.MapStoreError(err)
	}
	return &emp, nil
}

// GetEmployee fetches one employee by profile id.
func (r *Repository) GetEmployee(ctx context.Context, id int64) (*Employee, error) {
	var emp Employee
	row := r.pool.QueryRow(ctx, employeeSelect+` WHERE p.id = $1`, id)
	if err := scanEmployee(row, &emp); err != nil {
		return nil, httpx.MapStoreError(err)
	}
	return &emp, nil
}

// ListEmployees returns employees ordered by name.
func (r *Repository) ListEmployees(ctx context.Context, activeOnly bool) ([]Employee, error) {
	query := employeeSelect
	if activeOnly {
		query += ` WHERE a.is_active`
	}
	query += ` ORDER BY p.full_name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var emp Employee
		if err := scanEmployee(rows, &emp); err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

// UpdateEmployee edits the profile fields.
func (r *Repository) UpdateEmployee(ctx context.Context, id int64, input UpdateEmployeeInput) (*Employee, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE employee_profiles SET full_name = $1, position = $2, phone = $3, updated_at = now()
WHERE id = $4`, input.FullName, input.Position, input.Phone, id)
	if err != nil {
		return nil, httpx.MapStoreError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, httpx.ErrNotFound
	}
	return r.GetEmployee(ctx, id)
}

// SetActive toggles both the profile and its login account.
func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var accountID int64
		if err := tx.QueryRow(ctx, `UPDATE employee_profiles SET is_active = $1, updated_at = now()
WHERE id = $2 RETURNING account_id`, active, id).Scan(&accountID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `UPDATE accounts SET is_active = $1, updated_at = now() WHERE id = $2`, active, accountID)
		return err
	})
	return httpx.MapStoreError(err)
}

var _ RepositoryPort = (*Repository)(nil)
