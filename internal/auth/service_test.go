package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bizdesk/bizdesk/internal/shared"
	_ "github.com/bizdesk/bizdesk/testing"
)

type fakeRepo struct {
	accounts map[string]*Account
	sessions map[string]int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{accounts: map[string]*Account{}, sessions: map[string]int64{}}
}

func (f *fakeRepo) FindByEmail(ctx context.Context, email string) (*Account, error) {
	a, ok := f.accounts[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return a, nil
}

func (f *fakeRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	f.sessions[id] = userID
	return nil
}

func (f *fakeRepo) DeleteSession(ctx context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func seedAccount(t *testing.T, repo *fakeRepo, email, password string, active bool) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	repo.accounts[email] = &Account{
		ID:           int64(len(repo.accounts) + 1),
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     active,
	}
}

func TestAuthenticate(t *testing.T) {
	repo := newFakeRepo()
	seedAccount(t, repo, "owner@bizdesk.test", "s3cret-pass", true)
	seedAccount(t, repo, "gone@bizdesk.test", "s3cret-pass", false)
	svc := NewService(repo)

	account, err := svc.Authenticate(context.Background(), "owner@bizdesk.test", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, "owner@bizdesk.test", account.Email)

	_, err = svc.Authenticate(context.Background(), "owner@bizdesk.test", "wrong-pass")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "nobody@bizdesk.test", "s3cret-pass")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "gone@bizdesk.test", "s3cret-pass")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials, "inactive accounts cannot log in")
}

func TestSessionLifecycle(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	err := svc.RegisterSession(context.Background(), "sess-1", 42, time.Now().Add(time.Hour), "127.0.0.1", "test")
	require.NoError(t, err)
	require.Equal(t, int64(42), repo.sessions["sess-1"])

	require.NoError(t, svc.RemoveSession(context.Background(), "sess-1"))
	require.NotContains(t, repo.sessions, "sess-1")
}
