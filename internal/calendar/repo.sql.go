package calendar

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for meetings and posters.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListMeetings returns the client's meetings within [from, to).
func (r *Repository) ListMeetings(ctx context.Context, clientID int64, from, to time.Time) ([]Meeting, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, client_id, title, meeting_at FROM meetings
WHERE client_id = $1 AND meeting_at >= $2 AND meeting_at < $3 ORDER BY meeting_at`, clientID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Meeting
	for rows.Next() {
		var m Meeting
		if err := rows.Scan(&m.ID, &m.ClientID, &m.Title, &m.MeetingAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListPosters returns the client's posters within [from, to).
func (r *Repository) ListPosters(ctx context.Context, clientID int64, from, to time.Time) ([]Poster, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, client_id, title, publish_at FROM posters
WHERE client_id = $1 AND publish_at >= $2 AND publish_at < $3 ORDER BY publish_at`, clientID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Poster
	for rows.Next() {
		var p Poster
		if err := rows.Scan(&p.ID, &p.ClientID, &p.Title, &p.PublishAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var _ RepositoryPort = (*Repository)(nil)
