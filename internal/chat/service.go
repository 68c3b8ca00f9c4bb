package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const previewLen = 80

var (
	// ErrEmptyBody rejects blank messages.
	ErrEmptyBody = errors.New("chat: message body is empty")
	// ErrSelfMessage rejects messages addressed to the sender.
	ErrSelfMessage = errors.New("chat: cannot message yourself")
)

// RepositoryPort describes the persistence needs of the chat service.
type RepositoryPort interface {
	InsertMessage(ctx context.Context, m *Message) error
	ListThread(ctx context.Context, userID, peerID int64, limit int) ([]Message, error)
	ListConversations(ctx context.Context, userID int64) ([]Conversation, error)
	MarkThreadRead(ctx context.Context, userID, peerID int64, at time.Time) (int64, error)
}

// Service owns messaging between employees. New messages are announced on the
// recipient's Redis channel so connected clients can refresh without polling.
type Service struct {
	logger *slog.Logger
	repo   RepositoryPort
	pub    *redis.Client
	now    func() time.Time
}

// NewService wires the chat service. pub may be nil in tests; notifications
// are then skipped.
func NewService(logger *slog.Logger, repo RepositoryPort, pub *redis.Client) *Service {
	return &Service{logger: logger, repo: repo, pub: pub, now: time.Now}
}

// NotifyChannel names the per-user pub/sub channel.
func NotifyChannel(userID int64) string {
	return fmt.Sprintf("chat:notify:%d", userID)
}

// Send stores a message and announces it to the recipient. The announce is
// best effort; a Redis outage never loses the message itself.
func (s *Service) Send(ctx context.Context, senderID, recipientID int64, body string) (Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return Message{}, ErrEmptyBody
	}
	if senderID == recipientID {
		return Message{}, ErrSelfMessage
	}
	m := Message{
		ID:          uuid.NewString(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
		SentAt:      s.now().UTC(),
	}
	if err := s.repo.InsertMessage(ctx, &m); err != nil {
		return Message{}, err
	}
	s.notify(ctx, m)
	return m, nil
}

// truncatePreview caps the notification preview at previewLen runes so a
// multibyte body never gets cut mid-character.
func truncatePreview(body string) string {
	if utf8.RuneCountInString(body) <= previewLen {
		return body
	}
	return string([]rune(body)[:previewLen])
}

func (s *Service) notify(ctx context.Context, m Message) {
	if s.pub == nil {
		return
	}
	preview := truncatePreview(m.Body)
	payload, err := json.Marshal(Notification{
		MessageID: m.ID,
		SenderID:  m.SenderID,
		Preview:   preview,
		SentAt:    m.SentAt,
	})
	if err != nil {
		return
	}
	if err := s.pub.Publish(ctx, NotifyChannel(m.RecipientID), payload).Err(); err != nil {
		s.logger.Warn("chat notify", slog.Any("error", err))
	}
}

// Thread returns the most recent messages between the user and a peer,
// oldest first.
func (s *Service) Thread(ctx context.Context, userID, peerID int64, limit int) ([]Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListThread(ctx, userID, peerID, limit)
}

// Conversations returns the user's inbox, most recent thread first.
func (s *Service) Conversations(ctx context.Context, userID int64) ([]Conversation, error) {
	return s.repo.ListConversations(ctx, userID)
}

// MarkRead stamps every unread message from the peer and returns how many
// were flipped.
func (s *Service) MarkRead(ctx context.Context, userID, peerID int64) (int64, error) {
	return s.repo.MarkThreadRead(ctx, userID, peerID, s.now().UTC())
}
