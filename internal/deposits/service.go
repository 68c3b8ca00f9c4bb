package deposits

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/bizdesk/bizdesk/internal/shared"
)

// Service errors.
var (
	ErrClientRequired   = errors.New("client ID required")
	ErrAmountPositive   = errors.New("amount must be positive")
	ErrDateRequired     = errors.New("deposit date required")
	ErrAlreadyCompleted = errors.New("withdrawal already completed")
)

// RepositoryPort defines data access methods for deposits and schedules.
type RepositoryPort interface {
	CreateDeposit(ctx context.Context, input CreateDepositInput, now time.Time) (*Deposit, error)
	GetDeposit(ctx context.Context, id int64) (*Deposit, error)
	ListDepositsByClient(ctx context.Context, clientID int64) ([]Deposit, error)
	CreateSchedule(ctx context.Context, input CreateScheduleInput) (*WithdrawalSchedule, error)
	ListSchedulesByClient(ctx context.Context, clientID int64) ([]WithdrawalSchedule, error)
	ListSchedulesByDeposit(ctx context.Context, depositID int64) ([]WithdrawalSchedule, error)
	CompleteSchedule(ctx context.Context, id int64, completedAt time.Time) (*WithdrawalSchedule, error)
	MarkSchedulesOverdue(ctx context.Context, before time.Time) (int64, error)
}

// Service handles deposit business logic.
type Service struct {
	repo   RepositoryPort
	audit  shared.AuditRecorder
	logger *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, audit shared.AuditRecorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// CreateDeposit records a client investment.
func (s *Service) CreateDeposit(ctx context.Context, actorID int64, input CreateDepositInput) (*Deposit, error) {
	if input.ClientID == 0 {
		return nil, ErrClientRequired
	}
	if input.Amount <= 0 {
		return nil, ErrAmountPositive
	}
	if input.DepositDate.IsZero() {
		return nil, ErrDateRequired
	}
	dep, err := s.repo.CreateDeposit(ctx, input, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.trail(ctx, actorID, "deposit.create", dep.ID, map[string]any{"amount": dep.Amount})
	return dep, nil
}

// GetDeposit returns one deposit.
func (s *Service) GetDeposit(ctx context.Context, id int64) (*Deposit, error) {
	return s.repo.GetDeposit(ctx, id)
}

// ListDeposits returns a client's deposits.
func (s *Service) ListDeposits(ctx context.Context, clientID int64) ([]Deposit, error) {
	return s.repo.ListDepositsByClient(ctx, clientID)
}

// CreateSchedule attaches a withdrawal schedule row to a deposit.
// Aggregate schedule amounts are not validated against the deposit principal;
// the store owns that constraint if it ever becomes one.
func (s *Service) CreateSchedule(ctx context.Context, actorID int64, input CreateScheduleInput) (*WithdrawalSchedule, error) {
	if input.DepositID == 0 {
		return nil, ErrClientRequired
	}
	if input.Amount <= 0 {
		return nil, ErrAmountPositive
	}
	if input.DueDate.IsZero() {
		return nil, ErrDateRequired
	}
	sched, err := s.repo.CreateSchedule(ctx, input)
	if err != nil {
		return nil, err
	}
	s.trail(ctx, actorID, "schedule.create", sched.ID, nil)
	return sched, nil
}

// ListSchedules returns the withdrawal schedules for a client, with the
// display classification computed against today.
func (s *Service) ListSchedules(ctx context.Context, clientID int64, today time.Time) ([]ScheduleView, error) {
	rows, err := s.repo.ListSchedulesByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	views := make([]ScheduleView, 0, len(rows))
	for _, row := range rows {
		views = append(views, ScheduleView{WithdrawalSchedule: row, Display: row.DisplayStatusAt(today)})
	}
	return views, nil
}

// ScheduleView pairs a schedule with its derived display status.
type ScheduleView struct {
	WithdrawalSchedule
	Display DisplayStatus `json:"display_status"`
}

// CompleteWithdrawal marks a schedule completed. Last writer wins: the update
// is a single statement with no concurrency token.
func (s *Service) CompleteWithdrawal(ctx context.Context, actorID, scheduleID int64) (*WithdrawalSchedule, error) {
	sched, err := s.repo.CompleteSchedule(ctx, scheduleID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.trail(ctx, actorID, "schedule.complete", scheduleID, nil)
	return sched, nil
}

// MarkOverdue flips upcoming schedules past their due date to overdue.
// Invoked by the daily background scan.
func (s *Service) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	return s.repo.MarkSchedulesOverdue(ctx, truncateDay(today))
}

func (s *Service) trail(ctx context.Context, actorID int64, action string, entityID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "deposit",
		EntityID: strconv.FormatInt(entityID, 10),
		Meta:     meta,
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}
