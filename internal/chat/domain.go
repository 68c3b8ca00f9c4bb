package chat

import "time"

// Message is one chat line between two employees.
type Message struct {
	ID          string     `json:"id"`
	SenderID    int64      `json:"sender_id"`
	RecipientID int64      `json:"recipient_id"`
	Body        string     `json:"body"`
	SentAt      time.Time  `json:"sent_at"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
}

// Conversation summarises one peer thread for the inbox list.
type Conversation struct {
	PeerID      int64     `json:"peer_id"`
	LastBody    string    `json:"last_body"`
	LastAt      time.Time `json:"last_at"`
	UnreadCount int       `json:"unread_count"`
}

// Notification is the payload published to the recipient's channel.
type Notification struct {
	MessageID string    `json:"message_id"`
	SenderID  int64     `json:"sender_id"`
	Preview   string    `json:"preview"`
	SentAt    time.Time `json:"sent_at"`
}
