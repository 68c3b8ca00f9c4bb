package targets

import (
	"context"
	"errors"
	"math"
)

// ErrEmployeeRequired rejects targets without an assignee.
var ErrEmployeeRequired = errors.New("targets: employee is required")

// RepositoryPort describes the persistence needs of the target service.
type RepositoryPort interface {
	InsertTarget(ctx context.Context, t *Target) error
	GetTarget(ctx context.Context, id int64) (Target, error)
	ListTargets(ctx context.Context, employeeID int64, year int, month int) ([]Target, error)
	UpdateProgress(ctx context.Context, id int64, current float64, progress int, status TargetStatus) (Target, error)
	DeleteTarget(ctx context.Context, id int64) error
}

// Service owns target lifecycle and progress recomputation.
type Service struct {
	repo RepositoryPort
}

// NewService wires the target service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Progress returns the achievement percentage, floored at 0. A zero target
// with any progress counts as fully achieved.
func Progress(current, target float64) int {
	if target == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	pct := int(math.Round(current / target * 100))
	if pct < 0 {
		pct = 0
	}
	return pct
}

// ComputeStatus derives the display status from the raw amounts. Thresholds:
// 100% and above is achieved, 80% to 99% is in progress, below 80% is
// pending. A zero target is achieved as soon as anything is booked.
func ComputeStatus(current, target float64) TargetStatus {
	if target == 0 {
		if current > 0 {
			return StatusAchieved
		}
		return StatusPending
	}
	switch pct := current / target * 100; {
	case pct >= 100:
		return StatusAchieved
	case pct >= 80:
		return StatusInProgress
	default:
		return StatusPending
	}
}

// CreateTarget validates and stores a new target. Progress starts at zero.
func (s *Service) CreateTarget(ctx context.Context, input CreateTargetInput) (Target, error) {
	if input.EmployeeID == 0 {
		return Target{}, ErrEmployeeRequired
	}
	t := Target{
		EmployeeID:  input.EmployeeID,
		PeriodYear:  input.PeriodYear,
		PeriodMonth: input.PeriodMonth,
		Amount:      input.Amount,
		Status:      ComputeStatus(0, input.Amount),
	}
	if err := s.repo.InsertTarget(ctx, &t); err != nil {
		return Target{}, err
	}
	return t, nil
}

// GetTarget loads one target.
func (s *Service) GetTarget(ctx context.Context, id int64) (Target, error) {
	return s.repo.GetTarget(ctx, id)
}

// ListTargets returns targets filtered by employee and period; zero values
// mean "any".
func (s *Service) ListTargets(ctx context.Context, employeeID int64, year, month int) ([]Target, error) {
	return s.repo.ListTargets(ctx, employeeID, year, month)
}

// RecordProgress sets the booked amount on a target and recomputes its
// percentage and status in one statement, so concurrent writers cannot leave
// the status out of step with the amount.
func (s *Service) RecordProgress(ctx context.Context, id int64, current float64) (Target, error) {
	t, err := s.repo.GetTarget(ctx, id)
	if err != nil {
		return Target{}, err
	}
	progress := Progress(current, t.Amount)
	status := ComputeStatus(current, t.Amount)
	return s.repo.UpdateProgress(ctx, id, current, progress, status)
}

// AddProgress increments the booked amount, typically from a commission
// approval.
func (s *Service) AddProgress(ctx context.Context, id int64, delta float64) (Target, error) {
	t, err := s.repo.GetTarget(ctx, id)
	if err != nil {
		return Target{}, err
	}
	return s.RecordProgress(ctx, id, t.Current+delta)
}

// DeleteTarget removes a target.
func (s *Service) DeleteTarget(ctx context.Context, id int64) error {
	return s.repo.DeleteTarget(ctx, id)
}
