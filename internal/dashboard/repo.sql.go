package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads the aggregation source rows from Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a Repository on the shared pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) ListProfileRows(ctx context.Context) ([]ProfileRow, error) {
	rows, err := r.pool.Query(ctx, `SELECT created_at, is_active FROM employee_profiles`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProfileRow
	for rows.Next() {
		var p ProfileRow
		if err := rows.Scan(&p.CreatedAt, &p.IsActive); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) ListClientRows(ctx context.Context) ([]ClientRow, error) {
	rows, err := r.pool.Query(ctx, `SELECT created_at, status FROM clients`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ClientRow
	for rows.Next() {
		var c ClientRow
		if err := rows.Scan(&c.CreatedAt, &c.Status); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) ListDepositRows(ctx context.Context) ([]DepositRow, error) {
	rows, err := r.pool.Query(ctx, `SELECT created_at, amount FROM deposits`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DepositRow
	for rows.Next() {
		var d DepositRow
		if err := rows.Scan(&d.CreatedAt, &d.Amount); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repository) ListInvestmentRows(ctx context.Context) ([]InvestmentRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.assigned_to, d.amount
		FROM deposits d
		JOIN clients c ON c.id = d.client_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []InvestmentRow
	for rows.Next() {
		var iv InvestmentRow
		if err := rows.Scan(&iv.AssignedTo, &iv.Amount); err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}
