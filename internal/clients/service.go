package clients

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
	ErrCodeRequired  = errors.New("client code required")
	ErrNameRequired  = errors.New("client name required")
	ErrUnknownStatus = errors.New("unknown client status")
)

// RepositoryPort defines data access methods for clients.
type RepositoryPort interface {
	CreateClient(ctx context.Context, input CreateClientInput, now time.Time) (*Client, error)
	GetClient(ctx context.Context, id int64) (*Client, error)
	ListClients(ctx context.Context, req ListClientsRequest) ([]Client, int, error)
	UpdateClient(ctx context.Context, id int64, input UpdateClientInput, now time.Time) (*Client, error)
	UpdateClientStatus(ctx context.Context, id int64, status ClientStatus, now time.Time) error
}

// Service handles client business logic.
type Service struct {
	repo   RepositoryPort
	audit  shared.AuditRecorder
	logger *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, audit shared.AuditRecorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// CreateClient registers a new client.
func (s *Service) CreateClient(ctx context.Context, actorID int64, input CreateClientInput) (*Client, error) {
	if input.Code == "" {
		return nil, ErrCodeRequired
	}
	if input.Name == "" {
		return nil, ErrNameRequired
	}
	client, err := s.repo.CreateClient(ctx, input, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.trail(ctx, actorID, "client.create", client.ID, nil)
	return client, nil
}

// GetClient returns a single client.
func (s *Service) GetClient(ctx context.Context, id int64) (*Client, error) {
	return s.repo.GetClient(ctx, id)
}

// ListClients returns a filtered, paginated client listing.
func (s *Service) ListClients(ctx context.Context, req ListClientsRequest) ([]Client, shared.Pagination, error) {
	if req.Status != "" && !ValidStatus(req.Status) {
		return nil, shared.Pagination{}, ErrUnknownStatus
	}
	rows, total, err := s.repo.ListClients(ctx, req)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return rows, shared.NewPagination(req.Page, req.PerPage, total), nil
}

// UpdateClient edits client master data.
func (s *Service) UpdateClient(ctx context.Context, actorID, id int64, input UpdateClientInput) (*Client, error) {
	if input.Name == "" {
		return nil, ErrNameRequired
	}
	client, err := s.repo.UpdateClient(ctx, id, input, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.trail(ctx, actorID, "client.update", id, nil)
	return client, nil
}

// UpdateStatus sets the operator-assigned status.
func (s *Service) UpdateStatus(ctx context.Context, actorID, id int64, status ClientStatus) error {
	if !ValidStatus(status) {
		return ErrUnknownStatus
	}
	if err := s.repo.UpdateClientStatus(ctx, id, status, time.Now().UTC()); err != nil {
		return err
	}
	s.trail(ctx, actorID, "client.status", id, map[string]any{"status": string(status)})
	return nil
}

func (s *Service) trail(ctx context.Context, actorID int64, action string, clientID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "client",
		EntityID: strconv.FormatInt(clientID, 10),
		Meta:     meta,
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}
