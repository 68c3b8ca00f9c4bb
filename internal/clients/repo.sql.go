package clients

import (
	"context"
	"fmt"
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

const clientColumns = `id, code, name, phone, status, assigned_to, created_at, updated_at`

// CreateClient inserts a new client with status active.
func (r *Repository) CreateClient(ctx context.Context, input CreateClientInput, now time.Time) (*Client, error) {
	var client Client
	err := r.pool.QueryRow(ctx, `INSERT INTO clients (code, name, phone, status, assigned_to, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING `+clientColumns,
		input.Code, input.Name, input.Phone, StatusActive, input.AssignedTo, now).
		Scan(&client.ID, &client.Code, &client.Name, &client.Phone, &client.Status, &client.AssignedTo, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return nil, httpx.MapStoreError(err)
	}
	return &client, nil
}

// GetClient fetches one client by id.
func (r *Repository) GetClient(ctx context.Context, id int64) (*Client, error) {
	var client Client
	err := r.pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id).
		Scan(&client.ID, &client.Code, &client.Name, &client.Phone, &client.Status, &client.AssignedTo, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return nil, httpx.MapStoreError(err)
	}
	return &client, nil
}

// ListClients returns a filtered page of clients plus the total row count.
func (r *Repository) ListClients(ctx context.Context, req ListClientsRequest) ([]Client, int, error) {
	var (
		conds []string
		args  []any
	)
	if req.Status != "" {
		args = append(args, req.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if req.AssignedTo != nil {
		args = append(args, *req.AssignedTo)
		conds = append(conds, fmt.Sprintf("assigned_to = $%d", len(args)))
	}
	if req.Search != "" {
		args = append(args, "%"+req.Search+"%")
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR code ILIKE $%d)", len(args), len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	perPage := req.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, perPage, (page-1)*perPage)
	query := fmt.Sprintf(`SELECT `+clientColumns+` FROM clients%s ORDER BY id LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []Client
	for rows.Next() {
		var client Client
		if err := rows.Scan(&client.ID, &client.Code, &client.Name, &client.Phone, &client.Status, &client.AssignedTo, &client.CreatedAt, &client.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, client)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// UpdateClient edits client master data.
func (r *Repository) UpdateClient(ctx context.Context, id int64, input UpdateClientInput, now time.Time) (*Client, error) {
	var client Client
	err := r.pool.QueryRow(ctx, `UPDATE clients SET name = $1, phone = $2, assigned_to = $3, updated_at = $4 WHERE id = $5 RETURNING `+clientColumns,
		input.Name, input.Phone, input.AssignedTo, now, id).
		Scan(&client.ID, &client.Code, &client.Name, &client.Phone, &client.Status, &client.AssignedTo, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return nil, httpx.MapStoreError(err)
	}
	return &client, nil
}

// UpdateClientStatus sets the operator-assigned status.
func (r *Repository) UpdateClientStatus(ctx context.Context, id int64, status ClientStatus, now time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE clients SET status = $1, updated_at = $2 WHERE id = $3`, status, now, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
