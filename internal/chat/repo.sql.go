package chat

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

const messageColumns = `id, sender_id, recipient_id, body, sent_at, read_at`

// InsertMessage stores one message.
func (r *Repository) InsertMessage(ctx context.Context, m *Message) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO chat_messages (id, sender_id, recipient_id, body, sent_at)
VALUES ($1, $2, $3, $4, $5)`, m.ID, m.SenderID, m.RecipientID, m.Body, m.SentAt)
	return httpx.MapStoreError(err)
}

// ListThread returns the latest messages of one thread, oldest first.
func (r *Repository) ListThread(ctx context.Context, userID, peerID int64, limit int) ([]Message, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+messageColumns+` FROM (
	SELECT `+messageColumns+` FROM chat_messages
	WHERE (sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1)
	ORDER BY sent_at DESC LIMIT $3
) latest ORDER BY sent_at`, userID, peerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Body, &m.SentAt, &m.ReadAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListConversations folds the user's threads into inbox entries.
func (r *Repository) ListConversations(ctx context.Context, userID int64) ([]Conversation, error) {
	rows, err := r.pool.Query(ctx, `
WITH threads AS (
	SELECT CASE WHEN sender_id = $1 THEN recipient_id ELSE sender_id END AS peer_id,
	       body, sent_at,
	       (recipient_id = $1 AND read_at IS NULL)::int AS unread
	FROM chat_messages
	WHERE sender_id = $1 OR recipient_id = $1
)
SELECT DISTINCT ON (peer_id) peer_id,
       body,
       sent_at,
       SUM(unread) OVER (PARTITION BY peer_id)
FROM threads
ORDER BY peer_id, sent_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Conversation
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.PeerID, &c.LastBody, &c.LastAt, &c.UnreadCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// MarkThreadRead stamps all unread messages from peer to user.
func (r *Repository) MarkThreadRead(ctx context.Context, userID, peerID int64, at time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE chat_messages SET read_at = $1
WHERE recipient_id = $2 AND sender_id = $3 AND read_at IS NULL`, at, userID, peerID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ RepositoryPort = (*Repository)(nil)
