package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// RepositoryPort describes the persistence needs of the dashboard service.
type RepositoryPort interface {
	ListProfileRows(ctx context.Context) ([]ProfileRow, error)
	ListClientRows(ctx context.Context) ([]ClientRow, error)
	ListDepositRows(ctx context.Context) ([]DepositRow, error)
	ListInvestmentRows(ctx context.Context) ([]InvestmentRow, error)
}

// Service aggregates the dashboard views.
type Service struct {
	repo  RepositoryPort
	cache *Cache
	now   func() time.Time
}

// NewService wires the dashboard service. cache may be nil, in which case
// every call recomputes from the repository.
func NewService(repo RepositoryPort, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache, now: time.Now}
}

// Overview fetches the three source row sets in parallel and folds them into
// the headline numbers. A failure on any branch cancels the others and is
// returned as-is.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	key, err := s.cache.BuildKey(ctx, keyOverview())
	if err != nil {
		return Overview{}, err
	}
	var out Overview
	err = s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		return s.buildOverview(ctx)
	})
	return out, err
}

func (s *Service) buildOverview(ctx context.Context) (Overview, error) {
	var (
		profiles []ProfileRow
		clients  []ClientRow
		deposits []DepositRow
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.repo.ListProfileRows(ctx)
		if err != nil {
			return err
		}
		profiles = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.repo.ListClientRows(ctx)
		if err != nil {
			return err
		}
		clients = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.repo.ListDepositRows(ctx)
		if err != nil {
			return err
		}
		deposits = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return BuildOverview(profiles, clients, deposits, s.now()), nil
}

// TopEmployees returns the limit best-performing employees by managed
// investment volume. A non-positive limit defaults to 3.
func (s *Service) TopEmployees(ctx context.Context, limit int) ([]EmployeeRank, error) {
	if limit <= 0 {
		limit = 3
	}
	key, err := s.cache.BuildKey(ctx, keyTop(limit))
	if err != nil {
		return nil, err
	}
	var out []EmployeeRank
	err = s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		rows, err := s.repo.ListInvestmentRows(ctx)
		if err != nil {
			return nil, err
		}
		return RankTop(rows, limit), nil
	})
	return out, err
}

// Invalidate bumps the cache version after a write elsewhere in the system.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}
