package deposits

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bizdesk/bizdesk/internal/platform/httpx"
)

type memoryDepositRepo struct {
	deposits  map[int64]*Deposit
	schedules map[int64]*WithdrawalSchedule
	nextDepID int64
	nextSchID int64
}

func newMemoryDepositRepo() *memoryDepositRepo {
	return &memoryDepositRepo{
		deposits:  make(map[int64]*Deposit),
		schedules: make(map[int64]*WithdrawalSchedule),
	}
}

func (r *memoryDepositRepo) CreateDeposit(ctx context.Context, input CreateDepositInput, now time.Time) (*Deposit, error) {
	r.nextDepID++
	dep := &Deposit{
		ID:          r.nextDepID,
		ClientID:    input.ClientID,
		Amount:      input.Amount,
		DepositDate: input.DepositDate,
		ProfitRate:  input.ProfitRate,
		Status:      DepositActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.deposits[dep.ID] = dep
	return dep, nil
}

func (r *memoryDepositRepo) GetDeposit(ctx context.Context, id int64) (*Deposit, error) {
	dep, ok := r.deposits[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return dep, nil
}

func (r *memoryDepositRepo) ListDepositsByClient(ctx context.Context, clientID int64) ([]Deposit, error) {
	var out []Deposit
	for _, dep := range r.deposits {
		if dep.ClientID == clientID {
			out = append(out, *dep)
		}
	}
	return out, nil
}

func (r *memoryDepositRepo) CreateSchedule(ctx context.Context, input CreateScheduleInput) (*WithdrawalSchedule, error) {
	r.nextSchID++
	sched := &WithdrawalSchedule{
		ID:        r.nextSchID,
		DepositID: input.DepositID,
		DueDate:   input.DueDate,
		Amount:    input.Amount,
		Status:    ScheduleUpcoming,
	}
	r.schedules[sched.ID] = sched
	return sched, nil
}

func (r *memoryDepositRepo) ListSchedulesByClient(ctx context.Context, clientID int64) ([]WithdrawalSchedule, error) {
	var out []WithdrawalSchedule
	for _, sched := range r.schedules {
		dep, ok := r.deposits[sched.DepositID]
		if ok && dep.ClientID == clientID {
			out = append(out, *sched)
		}
	}
	return out, nil
}

func (r *memoryDepositRepo) ListSchedulesByDeposit(ctx context.Context, depositID int64) ([]WithdrawalSchedule, error) {
	var out []WithdrawalSchedule
	for _, sched := range r.schedules {
		if sched.DepositID == depositID {
			out = append(out, *sched)
		}
	}
	return out, nil
}

func (r *memoryDepositRepo) CompleteSchedule(ctx context.Context, id int64, completedAt time.Time) (*WithdrawalSchedule, error) {
	sched, ok := r.schedules[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	sched.Status = ScheduleCompleted
	sched.CompletedDate = &completedAt
	return sched, nil
}

func (r *memoryDepositRepo) MarkSchedulesOverdue(ctx context.Context, before time.Time) (int64, error) {
	var count int64
	for _, sched := range r.schedules {
		if sched.Status == ScheduleUpcoming && sched.DueDate.Before(before) {
			sched.Status = ScheduleOverdue
			count++
		}
	}
	return count, nil
}

func TestCreateDeposit(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryDepositRepo()
	svc := NewService(repo, nil, nil)

	dep, err := svc.CreateDeposit(ctx, 1, CreateDepositInput{
		ClientID:    7,
		Amount:      1500,
		DepositDate: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		ProfitRate:  2.5,
	})
	require.NoError(t, err)
	require.Equal(t, DepositActive, dep.Status)
	require.Equal(t, 1500.0, dep.Amount)
}

func TestCreateDepositRejectsNonPositiveAmount(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryDepositRepo(), nil, nil)

	_, err := svc.CreateDeposit(ctx, 1, CreateDepositInput{
		ClientID:    7,
		Amount:      0,
		DepositDate: time.Now(),
	})
	require.ErrorIs(t, err, ErrAmountPositive)
}

func TestCreateDepositRequiresClient(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryDepositRepo(), nil, nil)

	_, err := svc.CreateDeposit(ctx, 1, CreateDepositInput{Amount: 100, DepositDate: time.Now()})
	require.ErrorIs(t, err, ErrClientRequired)
}

func TestDisplayStatusLateWhenPastDue(t *testing.T) {
	today := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	sched := WithdrawalSchedule{
		DueDate: time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC),
		Status:  ScheduleUpcoming,
	}
	require.Equal(t, DisplayLate, sched.DisplayStatusAt(today))
}

func TestDisplayStatusDoneRegardlessOfDate(t *testing.T) {
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	sched := WithdrawalSchedule{
		DueDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:  ScheduleCompleted,
	}
	require.Equal(t, DisplayDone, sched.DisplayStatusAt(today))
}

func TestDisplayStatusUpcomingOnDueDay(t *testing.T) {
	// A schedule due later the same day is not late yet.
	today := time.Date(2024, 6, 15, 23, 0, 0, 0, time.UTC)
	sched := WithdrawalSchedule{
		DueDate: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		Status:  ScheduleUpcoming,
	}
	require.Equal(t, DisplayUpcoming, sched.DisplayStatusAt(today))
}

func TestListSchedulesAttachesDisplayStatus(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryDepositRepo()
	svc := NewService(repo, nil, nil)

	dep, err := svc.CreateDeposit(ctx, 1, CreateDepositInput{
		ClientID:    7,
		Amount:      1000,
		DepositDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = svc.CreateSchedule(ctx, 1, CreateScheduleInput{
		DepositID: dep.ID,
		DueDate:   time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		Amount:    200,
	})
	require.NoError(t, err)

	today := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	views, err := svc.ListSchedules(ctx, 7, today)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, DisplayLate, views[0].Display)
}

func TestCompleteWithdrawalSetsCompletionDate(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryDepositRepo()
	svc := NewService(repo, nil, nil)

	dep, _ := svc.CreateDeposit(ctx, 1, CreateDepositInput{ClientID: 7, Amount: 1000, DepositDate: time.Now()})
	sched, _ := svc.CreateSchedule(ctx, 1, CreateScheduleInput{DepositID: dep.ID, DueDate: time.Now(), Amount: 100})

	done, err := svc.CompleteWithdrawal(ctx, 1, sched.ID)
	require.NoError(t, err)
	require.Equal(t, ScheduleCompleted, done.Status)
	require.NotNil(t, done.CompletedDate)
}

func TestMarkOverdueOnlyFlipsUpcomingPastDue(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryDepositRepo()
	svc := NewService(repo, nil, nil)

	dep, _ := svc.CreateDeposit(ctx, 1, CreateDepositInput{ClientID: 7, Amount: 1000, DepositDate: time.Now()})
	past, _ := svc.CreateSchedule(ctx, 1, CreateScheduleInput{DepositID: dep.ID, DueDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Amount: 100})
	future, _ := svc.CreateSchedule(ctx, 1, CreateScheduleInput{DepositID: dep.ID, DueDate: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), Amount: 100})
	completed, _ := svc.CreateSchedule(ctx, 1, CreateScheduleInput{DepositID: dep.ID, DueDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), Amount: 100})
	_, _ = svc.CompleteWithdrawal(ctx, 1, completed.ID)

	count, err := svc.MarkOverdue(ctx, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
	require.Equal(t, ScheduleOverdue, repo.schedules[past.ID].Status)
	require.Equal(t, ScheduleUpcoming, repo.schedules[future.ID].Status)
	require.Equal(t, ScheduleCompleted, repo.schedules[completed.ID].Status)
}
