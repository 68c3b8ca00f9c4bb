package calendar

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/bizdesk/bizdesk/internal/deposits"
)

// Service errors.
var (
	ErrClientRequired = errors.New("client ID required")
	ErrInvalidMonth   = errors.New("month out of range")
)

// DepositSource supplies the live deposit and schedule rows the projection
// runs over.
type DepositSource interface {
	ListDepositsByClient(ctx context.Context, clientID int64) ([]deposits.Deposit, error)
	ListSchedulesByClient(ctx context.Context, clientID int64) ([]deposits.WithdrawalSchedule, error)
}

// RepositoryPort supplies meetings and posters for the displayed month.
type RepositoryPort interface {
	ListMeetings(ctx context.Context, clientID int64, from, to time.Time) ([]Meeting, error)
	ListPosters(ctx context.Context, clientID int64, from, to time.Time) ([]Poster, error)
}

// Service assembles the merged calendar event list.
type Service struct {
	deposits DepositSource
	repo     RepositoryPort
}

// NewService builds Service instance.
func NewService(depositSource DepositSource, repo RepositoryPort) *Service {
	return &Service{deposits: depositSource, repo: repo}
}

// MonthEvents recomputes the merged event list for one displayed month from
// the live rows. Nothing here is persisted.
func (s *Service) MonthEvents(ctx context.Context, clientID int64, year int, month time.Month, today time.Time, filter Filter) ([]Event, error) {
	if clientID == 0 {
		return nil, ErrClientRequired
	}
	if month < time.January || month > time.December {
		return nil, ErrInvalidMonth
	}

	deps, err := s.deposits.ListDepositsByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	schedules, err := s.deposits.ListSchedulesByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	meetings, err := s.repo.ListMeetings(ctx, clientID, from, to)
	if err != nil {
		return nil, err
	}
	posters, err := s.repo.ListPosters(ctx, clientID, from, to)
	if err != nil {
		return nil, err
	}

	events := ProjectDeposits(deps, year, month)
	events = append(events, WithdrawEvents(schedules, year, month, today, clientID)...)
	for _, m := range meetings {
		events = append(events, Event{Date: m.MeetingAt, Type: EventMeeting, ClientID: m.ClientID, Title: m.Title})
	}
	for _, p := range posters {
		events = append(events, Event{Date: p.PublishAt, Type: EventPoster, ClientID: p.ClientID, Title: p.Title})
	}

	events = ApplyFilter(events, filter)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
	return events, nil
}
