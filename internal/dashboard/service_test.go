package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	profiles     []ProfileRow
	clients      []ClientRow
	deposits     []DepositRow
	investments  []InvestmentRow
	failDeposits bool
	calls        int
}

func (m *memoryRepo) ListProfileRows(ctx context.Context) ([]ProfileRow, error) {
	m.calls++
	return m.profiles, nil
}

func (m *memoryRepo) ListClientRows(ctx context.Context) ([]ClientRow, error) {
	return m.clients, nil
}

func (m *memoryRepo) ListDepositRows(ctx context.Context) ([]DepositRow, error) {
	if m.failDeposits {
		return nil, errors.New("deposits unavailable")
	}
	return m.deposits, nil
}

func (m *memoryRepo) ListInvestmentRows(ctx context.Context) ([]InvestmentRow, error) {
	return m.investments, nil
}

func ptr(v int64) *int64 { return &v }

func TestPercentChange(t *testing.T) {
	require.Equal(t, 0, PercentChange(10, 0))
	require.Equal(t, 0, PercentChange(0, 0))
	require.Equal(t, 100, PercentChange(20, 10))
	require.Equal(t, -50, PercentChange(5, 10))
	require.Equal(t, 33, PercentChange(4, 3))
}

func TestBuildOverview(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	old := now.AddDate(0, -2, 0)
	recent := now.AddDate(0, 0, -5)

	profiles := []ProfileRow{
		{CreatedAt: old, IsActive: true},
		{CreatedAt: recent, IsActive: true},
		{CreatedAt: old, IsActive: false},
	}
	clients := []ClientRow{
		{CreatedAt: old, Status: "active"},
		{CreatedAt: old, Status: "late"},
		{CreatedAt: recent, Status: "late"},
		{CreatedAt: recent, Status: "inactive"},
	}
	deposits := []DepositRow{
		{CreatedAt: old, Amount: 1000},
		{CreatedAt: recent, Amount: 500},
	}

	got := BuildOverview(profiles, clients, deposits, now)

	require.Equal(t, 2, got.ActiveEmployees)
	require.Equal(t, 100, got.EmployeesChange)
	require.Equal(t, 4, got.TotalClients)
	require.Equal(t, 100, got.ClientsChange)
	require.Equal(t, float64(1500), got.TotalInvestments)
	require.Equal(t, 50, got.InvestmentsChange)
	require.Equal(t, 2, got.LateClients)
}

func TestBuildOverviewEmpty(t *testing.T) {
	got := BuildOverview(nil, nil, nil, time.Now())
	require.Equal(t, 0, got.EmployeesChange)
	require.Equal(t, 0, got.ClientsChange)
	require.Equal(t, 0, got.InvestmentsChange)
}

func TestRankTopSkipsUnassigned(t *testing.T) {
	rows := []InvestmentRow{
		{AssignedTo: ptr(1), Amount: 100},
		{AssignedTo: nil, Amount: 9999},
		{AssignedTo: ptr(2), Amount: 300},
		{AssignedTo: ptr(1), Amount: 250},
	}
	got := RankTop(rows, 3)
	require.Len(t, got, 2)
	require.Equal(t, EmployeeRank{EmployeeID: 1, Total: 350}, got[0])
	require.Equal(t, EmployeeRank{EmployeeID: 2, Total: 300}, got[1])
}

func TestRankTopTieBreaksByID(t *testing.T) {
	rows := []InvestmentRow{
		{AssignedTo: ptr(7), Amount: 200},
		{AssignedTo: ptr(3), Amount: 200},
		{AssignedTo: ptr(5), Amount: 200},
	}
	got := RankTop(rows, 2)
	require.Len(t, got, 2)
	require.Equal(t, int64(3), got[0].EmployeeID)
	require.Equal(t, int64(5), got[1].EmployeeID)
}

func TestOverviewFanOutFailure(t *testing.T) {
	repo := &memoryRepo{failDeposits: true}
	svc := NewService(repo, nil)

	_, err := svc.Overview(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "deposits unavailable")
}

func TestOverviewCachedUntilBump(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	repo := &memoryRepo{
		profiles: []ProfileRow{{CreatedAt: now.AddDate(0, -2, 0), IsActive: true}},
	}
	svc := NewService(repo, NewCache(client, time.Minute))
	svc.now = func() time.Time { return now }

	ctx := context.Background()
	first, err := svc.Overview(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, first.ActiveEmployees)
	require.Equal(t, 1, repo.calls)

	_, err = svc.Overview(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls, "second read should hit the cache")

	repo.profiles = append(repo.profiles, ProfileRow{CreatedAt: now, IsActive: true})
	require.NoError(t, svc.Invalidate(ctx))

	third, err := svc.Overview(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, third.ActiveEmployees)
	require.Equal(t, 2, repo.calls, "bump should force a reload")
}

func TestTopEmployeesDefaultLimit(t *testing.T) {
	repo := &memoryRepo{investments: []InvestmentRow{
		{AssignedTo: ptr(1), Amount: 10},
		{AssignedTo: ptr(2), Amount: 20},
		{AssignedTo: ptr(3), Amount: 30},
		{AssignedTo: ptr(4), Amount: 40},
	}}
	svc := NewService(repo, nil)

	got, err := svc.TopEmployees(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, int64(4), got[0].EmployeeID)
}
