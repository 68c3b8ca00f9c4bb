package attendance

import (
	"context"
	"errors"
	"math"
	"time"
)

var (
	// ErrAlreadyCheckedIn rejects a second check-in for the same day.
	ErrAlreadyCheckedIn = errors.New("attendance: already checked in today")
	// ErrNotCheckedIn rejects a check-out without an open entry.
	ErrNotCheckedIn = errors.New("attendance: no open check-in")
	// ErrCheckOutBeforeIn rejects clocks running backwards.
	ErrCheckOutBeforeIn = errors.New("attendance: check-out precedes check-in")
)

// RepositoryPort describes the persistence needs of the attendance service.
type RepositoryPort interface {
	InsertEntry(ctx context.Context, e *Entry) error
	OpenEntry(ctx context.Context, employeeID int64, day time.Time) (Entry, bool, error)
	EntryForDay(ctx context.Context, employeeID int64, day time.Time) (Entry, bool, error)
	CloseEntry(ctx context.Context, id int64, checkOut time.Time) (Entry, error)
	ListEntries(ctx context.Context, employeeID int64, from, to time.Time) ([]Entry, error)
}

// Service owns the clock-in lifecycle.
type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

// NewService wires the attendance service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now}
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CheckIn opens today's entry. One entry per employee per day.
func (s *Service) CheckIn(ctx context.Context, employeeID int64, note string) (Entry, error) {
	now := s.now().UTC()
	day := dayOf(now)
	if _, exists, err := s.repo.EntryForDay(ctx, employeeID, day); err != nil {
		return Entry{}, err
	} else if exists {
		return Entry{}, ErrAlreadyCheckedIn
	}
	e := Entry{EmployeeID: employeeID, Day: day, CheckIn: now, Note: note}
	if err := s.repo.InsertEntry(ctx, &e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// CheckOut closes today's open entry.
func (s *Service) CheckOut(ctx context.Context, employeeID int64) (Entry, error) {
	now := s.now().UTC()
	open, ok, err := s.repo.OpenEntry(ctx, employeeID, dayOf(now))
	if err != nil {
		return Entry{}, err
	}
	if !ok {
		return Entry{}, ErrNotCheckedIn
	}
	if now.Before(open.CheckIn) {
		return Entry{}, ErrCheckOutBeforeIn
	}
	return s.repo.CloseEntry(ctx, open.ID, now)
}

// ListMonth returns the employee's entries inside one calendar month.
func (s *Service) ListMonth(ctx context.Context, employeeID int64, year, month int) ([]Entry, error) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return s.repo.ListEntries(ctx, employeeID, from, from.AddDate(0, 1, 0))
}

// Summarize folds a month of entries into presence and hour totals. Open
// entries count as present but contribute no hours.
func Summarize(employeeID int64, year, month int, entries []Entry) MonthlySummary {
	sum := MonthlySummary{EmployeeID: employeeID, Year: year, Month: month}
	for _, e := range entries {
		sum.DaysPresent++
		if e.CheckOut == nil {
			sum.OpenEntries++
			continue
		}
		sum.TotalHours += e.CheckOut.Sub(e.CheckIn).Hours()
	}
	sum.TotalHours = math.Round(sum.TotalHours*100) / 100
	return sum
}

// MonthSummary loads and folds one employee's month.
func (s *Service) MonthSummary(ctx context.Context, employeeID int64, year, month int) (MonthlySummary, error) {
	entries, err := s.ListMonth(ctx, employeeID, year, month)
	if err != nil {
		return MonthlySummary{}, err
	}
	return Summarize(employeeID, year, month, entries), nil
}
