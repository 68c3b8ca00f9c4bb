package commissions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/bizdesk/bizdesk/internal/platform/httpx"
	"github.com/bizdesk/bizdesk/internal/shared"
)

// ErrBadTransition rejects out-of-order status changes.
var ErrBadTransition = errors.New("commissions: invalid status transition")

// RepositoryPort describes the persistence needs of the commission service.
type RepositoryPort interface {
	VolumeByEmployee(ctx context.Context, from, to time.Time) ([]VolumeRow, error)
	UpsertCommission(ctx context.Context, c *Commission) error
	GetByPeriod(ctx context.Context, employeeID int64, year, month int) (Commission, error)
	GetCommission(ctx context.Context, id int64) (Commission, error)
	ListCommissions(ctx context.Context, year, month int, status CommissionStatus) ([]Commission, error)
	SetApproved(ctx context.Context, id, approverID int64) (Commission, error)
	SetPaid(ctx context.Context, id int64, paidAt time.Time) (Commission, error)
}

// Service owns the commission run and status lifecycle.
type Service struct {
	logger *slog.Logger
	repo   RepositoryPort
	audit  shared.AuditRecorder
	now    func() time.Time
}

// NewService wires the commission service.
func NewService(logger *slog.Logger, repo RepositoryPort, audit shared.AuditRecorder) *Service {
	return &Service{logger: logger, repo: repo, audit: audit, now: time.Now}
}

// round2 keeps payout amounts at cent precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BuildPeriod computes every employee's commission for the month from their
// managed deposit volume and upserts the pending entries. Re-running a period
// refreshes pending rows but never touches approved or paid ones.
func (s *Service) BuildPeriod(ctx context.Context, actorID int64, input BuildPeriodInput) ([]Commission, error) {
	from := time.Date(input.PeriodYear, time.Month(input.PeriodMonth), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	volumes, err := s.repo.VolumeByEmployee(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("commissions: load volume: %w", err)
	}

	out := make([]Commission, 0, len(volumes))
	for _, v := range volumes {
		c := Commission{
			EmployeeID:  v.EmployeeID,
			PeriodYear:  input.PeriodYear,
			PeriodMonth: input.PeriodMonth,
			BaseAmount:  v.Volume,
			Rate:        input.Rate,
			Amount:      round2(v.Volume * input.Rate),
			Status:      StatusPending,
		}
		if err := s.repo.UpsertCommission(ctx, &c); err != nil {
			// The conditional upsert returns no row when the existing entry
			// is already approved or paid; keep the frozen row and move on.
			if !errors.Is(err, httpx.ErrNotFound) {
				return nil, err
			}
			frozen, ferr := s.repo.GetByPeriod(ctx, v.EmployeeID, input.PeriodYear, input.PeriodMonth)
			if ferr != nil {
				return nil, ferr
			}
			out = append(out, frozen)
			continue
		}
		out = append(out, c)
	}
	s.trail(ctx, actorID, "commission.build", fmt.Sprintf("%d-%02d", input.PeriodYear, input.PeriodMonth), map[string]any{"employees": len(out)})
	return out, nil
}

// GetCommission loads one entry.
func (s *Service) GetCommission(ctx context.Context, id int64) (Commission, error) {
	return s.repo.GetCommission(ctx, id)
}

// ListCommissions filters by period and status; zero values mean "any".
func (s *Service) ListCommissions(ctx context.Context, year, month int, status CommissionStatus) ([]Commission, error) {
	return s.repo.ListCommissions(ctx, year, month, status)
}

// Approve moves a pending commission to approved and remembers the approver.
func (s *Service) Approve(ctx context.Context, actorID, id int64) (Commission, error) {
	current, err := s.repo.GetCommission(ctx, id)
	if err != nil {
		return Commission{}, err
	}
	if current.Status != StatusPending {
		return Commission{}, ErrBadTransition
	}
	c, err := s.repo.SetApproved(ctx, id, actorID)
	if err != nil {
		return Commission{}, err
	}
	s.trail(ctx, actorID, "commission.approve", strconv.FormatInt(id, 10), nil)
	return c, nil
}

// MarkPaid moves an approved commission to paid and stamps the payout time.
func (s *Service) MarkPaid(ctx context.Context, actorID, id int64) (Commission, error) {
	current, err := s.repo.GetCommission(ctx, id)
	if err != nil {
		return Commission{}, err
	}
	if current.Status != StatusApproved {
		return Commission{}, ErrBadTransition
	}
	c, err := s.repo.SetPaid(ctx, id, s.now())
	if err != nil {
		return Commission{}, err
	}
	s.trail(ctx, actorID, "commission.pay", strconv.FormatInt(id, 10), nil)
	return c, nil
}

func (s *Service) trail(ctx context.Context, actorID int64, action, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "commission",
		EntityID: entityID,
		Meta:     meta,
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}
