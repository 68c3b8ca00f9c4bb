package targets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bizdesk/bizdesk/internal/platform/httpx"
)

type memoryRepo struct {
	seq     int64
	targets map[int64]Target
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{targets: map[int64]Target{}}
}

func (m *memoryRepo) InsertTarget(ctx context.Context, t *Target) error {
	m.seq++
	t.ID = m.seq
	m.targets[t.ID] = *t
	return nil
}

func (m *memoryRepo) GetTarget(ctx context.Context, id int64) (Target, error) {
	t, ok := m.targets[id]
	if !ok {
		return Target{}, httpx.ErrNotFound
	}
	return t, nil
}

func (m *memoryRepo) ListTargets(ctx context.Context, employeeID int64, year, month int) ([]Target, error) {
	var out []Target
	for _, t := range m.targets {
		if employeeID != 0 && t.EmployeeID != employeeID {
			continue
		}
		if year != 0 && t.PeriodYear != year {
			continue
		}
		if month != 0 && t.PeriodMonth != month {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *memoryRepo) UpdateProgress(ctx context.Context, id int64, current float64, progress int, status TargetStatus) (Target, error) {
	t, ok := m.targets[id]
	if !ok {
		return Target{}, httpx.ErrNotFound
	}
	t.Current = current
	t.Progress = progress
	t.Status = status
	m.targets[id] = t
	return t, nil
}

func (m *memoryRepo) DeleteTarget(ctx context.Context, id int64) error {
	if _, ok := m.targets[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.targets, id)
	return nil
}

func TestComputeStatusThresholds(t *testing.T) {
	cases := []struct {
		name    string
		current float64
		target  float64
		want    TargetStatus
	}{
		{"achieved at exactly 100", 1000, 1000, StatusAchieved},
		{"achieved above 100", 1500, 1000, StatusAchieved},
		{"in progress at 80", 800, 1000, StatusInProgress},
		{"in progress at 99", 990, 1000, StatusInProgress},
		{"pending below 80", 799, 1000, StatusPending},
		{"pending at zero", 0, 1000, StatusPending},
		{"zero target with bookings", 50, 0, StatusAchieved},
		{"zero target without bookings", 0, 0, StatusPending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ComputeStatus(tc.current, tc.target))
		})
	}
}

func TestProgressZeroTarget(t *testing.T) {
	require.Equal(t, 0, Progress(0, 0))
	require.Equal(t, 100, Progress(1, 0))
	require.Equal(t, 50, Progress(500, 1000))
	require.Equal(t, 0, Progress(-50, 1000))
}

func TestRecordProgressUpdatesStatus(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	created, err := svc.CreateTarget(context.Background(), CreateTargetInput{
		EmployeeID: 1, PeriodYear: 2025, PeriodMonth: 6, Amount: 1000,
	})
	require.NoError(t, err)
	require.Equal(t, StatusPending, created.Status)

	got, err := svc.RecordProgress(context.Background(), created.ID, 850)
	require.NoError(t, err)
	require.Equal(t, StatusInProgress, got.Status)
	require.Equal(t, 85, got.Progress)

	got, err = svc.AddProgress(context.Background(), created.ID, 150)
	require.NoError(t, err)
	require.Equal(t, StatusAchieved, got.Status)
	require.Equal(t, 100, got.Progress)
	require.Equal(t, float64(1000), got.Current)
}

func TestCreateTargetRequiresEmployee(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, err := svc.CreateTarget(context.Background(), CreateTargetInput{PeriodYear: 2025, PeriodMonth: 1})
	require.ErrorIs(t, err, ErrEmployeeRequired)
}
