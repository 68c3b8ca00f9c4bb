package commissions

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bizdesk/bizdesk/internal/platform/httpx"
)

type periodKey struct {
	employee    int64
	year, month int
}

type memoryRepo struct {
	seq     int64
	volumes []VolumeRow
	rows    map[int64]Commission
	byKey   map[periodKey]int64
}

func newMemoryRepo(volumes []VolumeRow) *memoryRepo {
	return &memoryRepo{
		volumes: volumes,
		rows:    map[int64]Commission{},
		byKey:   map[periodKey]int64{},
	}
}

func (m *memoryRepo) VolumeByEmployee(ctx context.Context, from, to time.Time) ([]VolumeRow, error) {
	return m.volumes, nil
}

func (m *memoryRepo) UpsertCommission(ctx context.Context, c *Commission) error {
	key := periodKey{c.EmployeeID, c.PeriodYear, c.PeriodMonth}
	if id, ok := m.byKey[key]; ok {
		existing := m.rows[id]
		if existing.Status != StatusPending {
			// The conditional upsert emits no row for frozen entries.
			return httpx.ErrNotFound
		}
		existing.BaseAmount = c.BaseAmount
		existing.Rate = c.Rate
		existing.Amount = c.Amount
		m.rows[id] = existing
		*c = existing
		return nil
	}
	m.seq++
	c.ID = m.seq
	m.rows[c.ID] = *c
	m.byKey[key] = c.ID
	return nil
}

func (m *memoryRepo) GetByPeriod(ctx context.Context, employeeID int64, year, month int) (Commission, error) {
	id, ok := m.byKey[periodKey{employeeID, year, month}]
	if !ok {
		return Commission{}, httpx.ErrNotFound
	}
	return m.rows[id], nil
}

func (m *memoryRepo) GetCommission(ctx context.Context, id int64) (Commission, error) {
	c, ok := m.rows[id]
	if !ok {
		return Commission{}, httpx.ErrNotFound
	}
	return c, nil
}

func (m *memoryRepo) ListCommissions(ctx context.Context, year, month int, status CommissionStatus) ([]Commission, error) {
	var out []Commission
	for _, c := range m.rows {
		if year != 0 && c.PeriodYear != year {
			continue
		}
		if month != 0 && c.PeriodMonth != month {
			continue
		}
		if status != "" && c.Status != status {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *memoryRepo) SetApproved(ctx context.Context, id, approverID int64) (Commission, error) {
	c, ok := m.rows[id]
	if !ok {
		return Commission{}, httpx.ErrNotFound
	}
	c.Status = StatusApproved
	c.ApprovedBy = &approverID
	m.rows[id] = c
	return c, nil
}

func (m *memoryRepo) SetPaid(ctx context.Context, id int64, paidAt time.Time) (Commission, error) {
	c, ok := m.rows[id]
	if !ok {
		return Commission{}, httpx.ErrNotFound
	}
	c.Status = StatusPaid
	c.PaidAt = &paidAt
	m.rows[id] = c
	return c, nil
}

func testLogger() *slog.Logger {
	return slog.Default()
}

func TestBuildPeriodComputesAmounts(t *testing.T) {
	repo := newMemoryRepo([]VolumeRow{
		{EmployeeID: 1, Volume: 10000},
		{EmployeeID: 2, Volume: 333.33},
	})
	svc := NewService(testLogger(), repo, nil)

	rows, err := svc.BuildPeriod(context.Background(), 99, BuildPeriodInput{
		PeriodYear: 2025, PeriodMonth: 6, Rate: 0.05,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, float64(500), rows[0].Amount)
	require.Equal(t, 16.67, rows[1].Amount)
	require.Equal(t, StatusPending, rows[0].Status)
}

func TestBuildPeriodRerunKeepsApproved(t *testing.T) {
	repo := newMemoryRepo([]VolumeRow{
		{EmployeeID: 1, Volume: 1000},
		{EmployeeID: 2, Volume: 4000},
	})
	svc := NewService(testLogger(), repo, nil)

	input := BuildPeriodInput{PeriodYear: 2025, PeriodMonth: 6, Rate: 0.05}
	rows, err := svc.BuildPeriod(context.Background(), 99, input)
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), 99, rows[0].ID)
	require.NoError(t, err)

	repo.volumes = []VolumeRow{
		{EmployeeID: 1, Volume: 2000},
		{EmployeeID: 2, Volume: 6000},
	}
	rerun, err := svc.BuildPeriod(context.Background(), 99, input)
	require.NoError(t, err)
	require.Len(t, rerun, 2, "a frozen entry must not abort the rest of the run")
	require.Equal(t, StatusApproved, rerun[0].Status)
	require.Equal(t, float64(50), rerun[0].Amount, "approved entry keeps its original amount")
	require.Equal(t, StatusPending, rerun[1].Status)
	require.Equal(t, float64(300), rerun[1].Amount, "pending entry follows the new volume")
}

func TestTransitionsEnforceOrder(t *testing.T) {
	repo := newMemoryRepo([]VolumeRow{{EmployeeID: 1, Volume: 1000}})
	svc := NewService(testLogger(), repo, nil)

	rows, err := svc.BuildPeriod(context.Background(), 99, BuildPeriodInput{PeriodYear: 2025, PeriodMonth: 6, Rate: 0.1})
	require.NoError(t, err)
	id := rows[0].ID

	_, err = svc.MarkPaid(context.Background(), 99, id)
	require.ErrorIs(t, err, ErrBadTransition, "cannot pay before approval")

	approved, err := svc.Approve(context.Background(), 99, id)
	require.NoError(t, err)
	require.NotNil(t, approved.ApprovedBy)
	require.Equal(t, int64(99), *approved.ApprovedBy)

	_, err = svc.Approve(context.Background(), 99, id)
	require.ErrorIs(t, err, ErrBadTransition, "cannot approve twice")

	paid, err := svc.MarkPaid(context.Background(), 99, id)
	require.NoError(t, err)
	require.Equal(t, StatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)

	_, err = svc.MarkPaid(context.Background(), 99, id)
	require.ErrorIs(t, err, ErrBadTransition, "cannot pay twice")
}
