package employees

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bizdesk/bizdesk/internal/platform/httpx"
)

type memoryRepo struct {
	seq    int64
	rows   map[int64]Employee
	hashes map[int64]string
	roles  map[int64]int64
	emails map[string]bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		rows:   map[int64]Employee{},
		hashes: map[int64]string{},
		roles:  map[int64]int64{},
		emails: map[string]bool{},
	}
}

func (m *memoryRepo) CreateEmployee(ctx context.Context, input CreateEmployeeInput, passwordHash string, hiredAt time.Time) (*Employee, error) {
	if m.emails[input.Email] {
		return nil, httpx.ErrDuplicate
	}
	m.seq++
	emp := Employee{
		ID:        m.seq,
		AccountID: m.seq,
		Email:     input.Email,
		FullName:  input.FullName,
		Position:  input.Position,
		Phone:     input.Phone,
		IsActive:  true,
		HiredAt:   hiredAt,
	}
	m.rows[emp.ID] = emp
	m.hashes[emp.ID] = passwordHash
	m.roles[emp.AccountID] = input.RoleID
	m.emails[input.Email] = true
	return &emp, nil
}

func (m *memoryRepo) GetEmployee(ctx context.Context, id int64) (*Employee, error) {
	emp, ok := m.rows[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return &emp, nil
}

func (m *memoryRepo) ListEmployees(ctx context.Context, activeOnly bool) ([]Employee, error) {
	var out []Employee
	for _, emp := range m.rows {
		if activeOnly && !emp.IsActive {
			continue
		}
		out = append(out, emp)
	}
	return out, nil
}

func (m *memoryRepo) UpdateEmployee(ctx context.Context, id int64, input UpdateEmployeeInput) (*Employee, error) {
	emp, ok := m.rows[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	emp.FullName = input.FullName
	emp.Position = input.Position
	emp.Phone = input.Phone
	m.rows[id] = emp
	return &emp, nil
}

func (m *memoryRepo) SetActive(ctx context.Context, id int64, active bool) error {
	emp, ok := m.rows[id]
	if !ok {
		return httpx.ErrNotFound
	}
	emp.IsActive = active
	m.rows[id] = emp
	return nil
}

func TestCreateEmployeeHashesPassword(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(slog.Default(), repo, nil)

	emp, err := svc.CreateEmployee(context.Background(), 1, CreateEmployeeInput{
		Email:    "new@bizdesk.test",
		Password: "super-secret",
		FullName: "New Person",
		Position: "Advisor",
		RoleID:   2,
		HiredAt:  "2025-03-01",
	})
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), emp.HiredAt)
	require.Equal(t, int64(2), repo.roles[emp.AccountID])

	hash := repo.hashes[emp.ID]
	require.NotEqual(t, "super-secret", hash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("super-secret")))
}

func TestCreateEmployeeRejectsBadHireDate(t *testing.T) {
	svc := NewService(slog.Default(), newMemoryRepo(), nil)
	_, err := svc.CreateEmployee(context.Background(), 1, CreateEmployeeInput{
		Email: "a@b.test", Password: "super-secret", FullName: "A", Position: "B", RoleID: 1,
		HiredAt: "01-03-2025",
	})
	require.ErrorIs(t, err, ErrBadHireDate)
}

func TestCreateEmployeeDuplicateEmail(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(slog.Default(), repo, nil)

	input := CreateEmployeeInput{
		Email: "dup@bizdesk.test", Password: "super-secret", FullName: "Dup", Position: "X", RoleID: 1,
	}
	_, err := svc.CreateEmployee(context.Background(), 1, input)
	require.NoError(t, err)
	_, err = svc.CreateEmployee(context.Background(), 1, input)
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestSetActiveToggles(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(slog.Default(), repo, nil)

	emp, err := svc.CreateEmployee(context.Background(), 1, CreateEmployeeInput{
		Email: "t@bizdesk.test", Password: "super-secret", FullName: "T", Position: "X", RoleID: 1,
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetActive(context.Background(), 1, emp.ID, false))
	got, err := svc.GetEmployee(context.Background(), emp.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)

	active, err := svc.ListEmployees(context.Background(), true)
	require.NoError(t, err)
	require.Empty(t, active)
}
