package calendar

import (
	"time"

	"github.com/bizdesk/bizdesk/internal/deposits"
)

// EventType enumerates the kinds of entries shown on the financial calendar.
type EventType string

const (
	EventDeposit  EventType = "deposit"
	EventWithdraw EventType = "withdraw"
	EventMeeting  EventType = "meeting"
	EventPoster   EventType = "poster"
)

// Event is the transient calendar view model. Events are assembled fresh on
// every render and never persisted.
type Event struct {
	Date     time.Time              `json:"date"`
	Type     EventType              `json:"type"`
	Amount   float64                `json:"amount,omitempty"`
	Status   deposits.DisplayStatus `json:"status,omitempty"`
	ClientID int64                  `json:"client_id,omitempty"`
	Title    string                 `json:"title,omitempty"`
}

// Meeting is a scheduled client meeting shown on the calendar.
type Meeting struct {
	ID        int64     `json:"id"`
	ClientID  int64     `json:"client_id"`
	Title     string    `json:"title"`
	MeetingAt time.Time `json:"meeting_at"`
}

// Poster is a scheduled announcement shown on the calendar.
type Poster struct {
	ID        int64     `json:"id"`
	ClientID  int64     `json:"client_id"`
	Title     string    `json:"title"`
	PublishAt time.Time `json:"publish_at"`
}

// Filter narrows the merged event list. Zero values match everything.
type Filter struct {
	Type   EventType
	Status deposits.DisplayStatus
}
