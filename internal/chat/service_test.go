package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	messages []Message
}

func (m *memoryRepo) InsertMessage(ctx context.Context, msg *Message) error {
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *memoryRepo) ListThread(ctx context.Context, userID, peerID int64, limit int) ([]Message, error) {
	var out []Message
	for _, msg := range m.messages {
		if (msg.SenderID == userID && msg.RecipientID == peerID) ||
			(msg.SenderID == peerID && msg.RecipientID == userID) {
			out = append(out, msg)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (m *memoryRepo) ListConversations(ctx context.Context, userID int64) ([]Conversation, error) {
	byPeer := map[int64]*Conversation{}
	for _, msg := range m.messages {
		var peer int64
		switch {
		case msg.SenderID == userID:
			peer = msg.RecipientID
		case msg.RecipientID == userID:
			peer = msg.SenderID
		default:
			continue
		}
		c, ok := byPeer[peer]
		if !ok {
			c = &Conversation{PeerID: peer}
			byPeer[peer] = c
		}
		if msg.SentAt.After(c.LastAt) {
			c.LastAt = msg.SentAt
			c.LastBody = msg.Body
		}
		if msg.RecipientID == userID && msg.ReadAt == nil {
			c.UnreadCount++
		}
	}
	var out []Conversation
	for _, c := range byPeer {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memoryRepo) MarkThreadRead(ctx context.Context, userID, peerID int64, at time.Time) (int64, error) {
	var count int64
	for i := range m.messages {
		msg := &m.messages[i]
		if msg.RecipientID == userID && msg.SenderID == peerID && msg.ReadAt == nil {
			msg.ReadAt = &at
			count++
		}
	}
	return count, nil
}

func TestSendValidates(t *testing.T) {
	svc := NewService(slog.Default(), &memoryRepo{}, nil)

	_, err := svc.Send(context.Background(), 1, 2, "   ")
	require.ErrorIs(t, err, ErrEmptyBody)

	_, err = svc.Send(context.Background(), 1, 1, "hello me")
	require.ErrorIs(t, err, ErrSelfMessage)
}

func TestSendAssignsUUID(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(slog.Default(), repo, nil)

	msg, err := svc.Send(context.Background(), 1, 2, "hello")
	require.NoError(t, err)
	_, err = uuid.Parse(msg.ID)
	require.NoError(t, err)
	require.Len(t, repo.messages, 1)
}

func TestSendPublishesNotification(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sub := client.Subscribe(context.Background(), NotifyChannel(2))
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)

	svc := NewService(slog.Default(), &memoryRepo{}, client)
	sent, err := svc.Send(context.Background(), 1, 2, "ping")
	require.NoError(t, err)

	select {
	case raw := <-sub.Channel():
		var n Notification
		require.NoError(t, json.Unmarshal([]byte(raw.Payload), &n))
		require.Equal(t, sent.ID, n.MessageID)
		require.Equal(t, int64(1), n.SenderID)
		require.Equal(t, "ping", n.Preview)
	case <-time.After(2 * time.Second):
		t.Fatal("no notification received")
	}
}

func TestPreviewTruncatesOnRuneBoundary(t *testing.T) {
	require.Equal(t, "héllo", truncatePreview("héllo"))

	long := strings.Repeat("é", previewLen+10)
	got := truncatePreview(long)
	require.True(t, utf8.ValidString(got))
	require.Equal(t, previewLen, utf8.RuneCountInString(got))
	require.Equal(t, strings.Repeat("é", previewLen), got)
}

func TestSendPublishesTruncatedMultibytePreview(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sub := client.Subscribe(context.Background(), NotifyChannel(2))
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)

	svc := NewService(slog.Default(), &memoryRepo{}, client)
	_, err = svc.Send(context.Background(), 1, 2, strings.Repeat("日", previewLen+5))
	require.NoError(t, err)

	select {
	case raw := <-sub.Channel():
		var n Notification
		require.NoError(t, json.Unmarshal([]byte(raw.Payload), &n))
		require.True(t, utf8.ValidString(n.Preview))
		require.Equal(t, strings.Repeat("日", previewLen), n.Preview)
	case <-time.After(2 * time.Second):
		t.Fatal("no notification received")
	}
}

func TestMarkReadCountsOnlyUnreadFromPeer(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(slog.Default(), repo, nil)

	_, err := svc.Send(context.Background(), 2, 1, "one")
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), 2, 1, "two")
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), 1, 2, "reply")
	require.NoError(t, err)

	count, err := svc.MarkRead(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	count, err = svc.MarkRead(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestConversationsUnread(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(slog.Default(), repo, nil)

	_, err := svc.Send(context.Background(), 2, 1, "hey")
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), 3, 1, "yo")
	require.NoError(t, err)

	convs, err := svc.Conversations(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	for _, c := range convs {
		require.Equal(t, 1, c.UnreadCount)
	}
}
