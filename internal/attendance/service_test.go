package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	seq     int64
	entries map[int64]Entry
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{entries: map[int64]Entry{}}
}

func (m *memoryRepo) InsertEntry(ctx context.Context, e *Entry) error {
	m.seq++
	e.ID = m.seq
	m.entries[e.ID] = *e
	return nil
}

func (m *memoryRepo) OpenEntry(ctx context.Context, employeeID int64, day time.Time) (Entry, bool, error) {
	for _, e := range m.entries {
		if e.EmployeeID == employeeID && e.Day.Equal(day) && e.CheckOut == nil {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}

func (m *memoryRepo) EntryForDay(ctx context.Context, employeeID int64, day time.Time) (Entry, bool, error) {
	for _, e := range m.entries {
		if e.EmployeeID == employeeID && e.Day.Equal(day) {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}

func (m *memoryRepo) CloseEntry(ctx context.Context, id int64, checkOut time.Time) (Entry, error) {
	e := m.entries[id]
	e.CheckOut = &checkOut
	m.entries[id] = e
	return e, nil
}

func (m *memoryRepo) ListEntries(ctx context.Context, employeeID int64, from, to time.Time) ([]Entry, error) {
	var out []Entry
	for _, e := range m.entries {
		if e.EmployeeID == employeeID && !e.Day.Before(from) && e.Day.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func fixedService(repo *memoryRepo, at time.Time) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return at }
	return svc
}

func TestCheckInOncePerDay(t *testing.T) {
	repo := newMemoryRepo()
	morning := time.Date(2025, time.June, 10, 8, 30, 0, 0, time.UTC)
	svc := fixedService(repo, morning)

	entry, err := svc.CheckIn(context.Background(), 1, "on site")
	require.NoError(t, err)
	require.Equal(t, morning, entry.CheckIn)

	_, err = svc.CheckIn(context.Background(), 1, "")
	require.ErrorIs(t, err, ErrAlreadyCheckedIn)

	// A different employee is unaffected.
	_, err = svc.CheckIn(context.Background(), 2, "")
	require.NoError(t, err)
}

func TestCheckOutRequiresOpenEntry(t *testing.T) {
	repo := newMemoryRepo()
	svc := fixedService(repo, time.Date(2025, time.June, 10, 17, 0, 0, 0, time.UTC))

	_, err := svc.CheckOut(context.Background(), 1)
	require.ErrorIs(t, err, ErrNotCheckedIn)
}

func TestCheckOutClosesEntry(t *testing.T) {
	repo := newMemoryRepo()
	morning := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	svc := fixedService(repo, morning)

	_, err := svc.CheckIn(context.Background(), 1, "")
	require.NoError(t, err)

	svc.now = func() time.Time { return morning.Add(8 * time.Hour) }
	entry, err := svc.CheckOut(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, entry.CheckOut)

	// A second check-out finds no open entry.
	_, err = svc.CheckOut(context.Background(), 1)
	require.ErrorIs(t, err, ErrNotCheckedIn)
}

func TestSummarize(t *testing.T) {
	in1 := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)
	out1 := in1.Add(8 * time.Hour)
	in2 := time.Date(2025, time.June, 3, 9, 30, 0, 0, time.UTC)
	out2 := in2.Add(7*time.Hour + 45*time.Minute)
	in3 := time.Date(2025, time.June, 4, 9, 0, 0, 0, time.UTC)

	entries := []Entry{
		{EmployeeID: 1, Day: in1, CheckIn: in1, CheckOut: &out1},
		{EmployeeID: 1, Day: in2, CheckIn: in2, CheckOut: &out2},
		{EmployeeID: 1, Day: in3, CheckIn: in3}, // still open
	}
	got := Summarize(1, 2025, 6, entries)
	require.Equal(t, 3, got.DaysPresent)
	require.Equal(t, 1, got.OpenEntries)
	require.Equal(t, 15.75, got.TotalHours)
}
