package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bizdesk/bizdesk/internal/deposits"
)

func activeDeposit(clientID int64, date time.Time, amount float64) deposits.Deposit {
	return deposits.Deposit{
		ID:          1,
		ClientID:    clientID,
		Amount:      amount,
		DepositDate: date,
		Status:      deposits.DepositActive,
	}
}

func TestProjectDepositsCapsDayOverflowLeapYear(t *testing.T) {
	deps := []deposits.Deposit{
		activeDeposit(7, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 1000),
	}

	events := ProjectDeposits(deps, 2024, time.February)
	require.Len(t, events, 1)
	require.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), events[0].Date)
	require.Equal(t, EventDeposit, events[0].Type)
}

func TestProjectDepositsCapsDayOverflowNonLeapYear(t *testing.T) {
	deps := []deposits.Deposit{
		activeDeposit(7, time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC), 1000),
	}

	events := ProjectDeposits(deps, 2023, time.February)
	require.Len(t, events, 1)
	require.Equal(t, time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC), events[0].Date)
}

func TestProjectDepositsSkipsMonthsBeforeOrigination(t *testing.T) {
	deps := []deposits.Deposit{
		activeDeposit(7, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), 1000),
	}

	require.Empty(t, ProjectDeposits(deps, 2024, time.February))
	require.Len(t, ProjectDeposits(deps, 2024, time.March), 1)
	require.Len(t, ProjectDeposits(deps, 2024, time.December), 1)
}

func TestProjectDepositsIgnoresNonActiveDeposits(t *testing.T) {
	for _, status := range []deposits.DepositStatus{deposits.DepositCompleted, deposits.DepositCancelled, deposits.DepositWithdrawn} {
		dep := activeDeposit(7, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 1000)
		dep.Status = status
		require.Empty(t, ProjectDeposits([]deposits.Deposit{dep}, 2024, time.February), "status %s", status)
	}
}

func TestWithdrawEventsClassification(t *testing.T) {
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	schedules := []deposits.WithdrawalSchedule{
		{ID: 1, DueDate: time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC), Status: deposits.ScheduleUpcoming, Amount: 100},
		{ID: 2, DueDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Status: deposits.ScheduleCompleted, Amount: 200},
		{ID: 3, DueDate: time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC), Status: deposits.ScheduleUpcoming, Amount: 300},
		{ID: 4, DueDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), Status: deposits.ScheduleUpcoming, Amount: 400},
	}

	events := WithdrawEvents(schedules, 2024, time.June, today, 7)
	require.Len(t, events, 3)
	require.Equal(t, deposits.DisplayLate, events[0].Status)
	require.Equal(t, deposits.DisplayDone, events[1].Status)
	require.Equal(t, deposits.DisplayUpcoming, events[2].Status)
}

func TestApplyFilterUniformAcrossKinds(t *testing.T) {
	events := []Event{
		{Type: EventDeposit, Status: deposits.DisplayUpcoming},
		{Type: EventWithdraw, Status: deposits.DisplayLate},
		{Type: EventWithdraw, Status: deposits.DisplayDone},
		{Type: EventMeeting},
	}

	byType := ApplyFilter(events, Filter{Type: EventWithdraw})
	require.Len(t, byType, 2)

	byStatus := ApplyFilter(events, Filter{Status: deposits.DisplayLate})
	require.Len(t, byStatus, 1)
	require.Equal(t, EventWithdraw, byStatus[0].Type)

	all := ApplyFilter(events, Filter{})
	require.Len(t, all, 4)
}

type stubDepositSource struct {
	deposits  []deposits.Deposit
	schedules []deposits.WithdrawalSchedule
}

func (s stubDepositSource) ListDepositsByClient(ctx context.Context, clientID int64) ([]deposits.Deposit, error) {
	return s.deposits, nil
}

func (s stubDepositSource) ListSchedulesByClient(ctx context.Context, clientID int64) ([]deposits.WithdrawalSchedule, error) {
	return s.schedules, nil
}

type stubCalendarRepo struct {
	meetings []Meeting
	posters  []Poster
}

func (s stubCalendarRepo) ListMeetings(ctx context.Context, clientID int64, from, to time.Time) ([]Meeting, error) {
	return s.meetings, nil
}

func (s stubCalendarRepo) ListPosters(ctx context.Context, clientID int64, from, to time.Time) ([]Poster, error) {
	return s.posters, nil
}

func TestMonthEventsMergesAllKindsSorted(t *testing.T) {
	src := stubDepositSource{
		deposits: []deposits.Deposit{
			activeDeposit(7, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), 1000),
		},
		schedules: []deposits.WithdrawalSchedule{
			{ID: 1, DueDate: time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), Status: deposits.ScheduleUpcoming, Amount: 100},
		},
	}
	repo := stubCalendarRepo{
		meetings: []Meeting{{ID: 1, ClientID: 7, Title: "Review", MeetingAt: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)}},
		posters:  []Poster{{ID: 1, ClientID: 7, Title: "Promo", PublishAt: time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)}},
	}
	svc := NewService(src, repo)

	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	events, err := svc.MonthEvents(context.Background(), 7, 2024, time.June, today, Filter{})
	require.NoError(t, err)
	require.Len(t, events, 4)

	// Sorted by date: meeting (3rd), withdraw (5th), deposit (10th), poster (20th).
	require.Equal(t, EventMeeting, events[0].Type)
	require.Equal(t, EventWithdraw, events[1].Type)
	require.Equal(t, EventDeposit, events[2].Type)
	require.Equal(t, EventPoster, events[3].Type)

	// The withdrawal on the 5th is past due relative to today.
	require.Equal(t, deposits.DisplayLate, events[1].Status)
}

func TestMonthEventsValidation(t *testing.T) {
	svc := NewService(stubDepositSource{}, stubCalendarRepo{})
	_, err := svc.MonthEvents(context.Background(), 0, 2024, time.June, time.Now(), Filter{})
	require.ErrorIs(t, err, ErrClientRequired)

	_, err = svc.MonthEvents(context.Background(), 7, 2024, time.Month(13), time.Now(), Filter{})
	require.ErrorIs(t, err, ErrInvalidMonth)
}
