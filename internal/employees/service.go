package employees

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bizdesk/bizdesk/internal/shared"
)

// ErrBadHireDate rejects hire dates that do not parse as YYYY-MM-DD.
var ErrBadHireDate = errors.New("employees: invalid hire date")

// RepositoryPort defines data access methods for employees. CreateEmployee
// provisions the account, profile and role grant in one transaction.
type RepositoryPort interface {
	CreateEmployee(ctx context.Context, input CreateEmployeeInput, passwordHash string, hiredAt time.Time) (*Employee, error)
	GetEmployee(ctx context.Context, id int64) (*Employee, error)
	ListEmployees(ctx context.Context, activeOnly bool) ([]Employee, error)
	UpdateEmployee(ctx context.Context, id int64, input UpdateEmployeeInput) (*Employee, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

// Service handles employee business logic.
type Service struct {
	logger *slog.Logger
	repo   RepositoryPort
	audit  shared.AuditRecorder
}

// NewService builds Service instance.
func NewService(logger *slog.Logger, repo RepositoryPort, audit shared.AuditRecorder) *Service {
	return &Service{logger: logger, repo: repo, audit: audit}
}

// CreateEmployee hashes the password and provisions account, profile and role
// atomically. A failure in any step leaves nothing behind.
func (s *Service) CreateEmployee(ctx context.Context, actorID int64, input CreateEmployeeInput) (*Employee, error) {
	hiredAt := time.Now().UTC()
	if input.HiredAt != "" {
		parsed, err := time.Parse("2006-01-02", input.HiredAt)
		if err != nil {
			return nil, ErrBadHireDate
		}
		hiredAt = parsed
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	emp, err := s.repo.CreateEmployee(ctx, input, string(hash), hiredAt)
	if err != nil {
		return nil, err
	}
	s.trail(ctx, actorID, "employee.create", emp.ID, nil)
	return emp, nil
}

// GetEmployee returns a single employee.
func (s *Service) GetEmployee(ctx context.Context, id int64) (*Employee, error) {
	return s.repo.GetEmployee(ctx, id)
}

// ListEmployees returns all employees, optionally only active ones.
func (s *Service) ListEmployees(ctx context.Context, activeOnly bool) ([]Employee, error) {
	return s.repo.ListEmployees(ctx, activeOnly)
}

// UpdateEmployee edits the profile fields.
func (s *Service) UpdateEmployee(ctx context.Context, actorID, id int64, input UpdateEmployeeInput) (*Employee, error) {
	emp, err := s.repo.UpdateEmployee(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.trail(ctx, actorID, "employee.update", id, nil)
	return emp, nil
}

// SetActive toggles the account. A deactivated employee keeps history but can
// no longer log in.
func (s *Service) SetActive(ctx context.Context, actorID, id int64, active bool) error {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.trail(ctx, actorID, "employee.active", id, map[string]any{"active": active})
	return nil
}

func (s *Service) trail(ctx context.Context, actorID int64, action string, employeeID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "employee",
		EntityID: strconv.FormatInt(employeeID, 10),
		Meta:     meta,
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}
