package httpx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestMapStoreErrorNoRows(t *testing.T) {
	require.ErrorIs(t, MapStoreError(pgx.ErrNoRows), ErrNotFound)
}

func TestMapStoreErrorUniqueViolation(t *testing.T) {
	err := MapStoreError(&pgconn.PgError{Code: "23505", ConstraintName: "clients_code_key"})
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestMapStoreErrorWrappedUniqueViolation(t *testing.T) {
	wrapped := fmt.Errorf("insert client: %w", &pgconn.PgError{Code: "23505"})
	require.ErrorIs(t, MapStoreError(wrapped), ErrDuplicate)
}

func TestMapStoreErrorPassesThroughOtherCodes(t *testing.T) {
	orig := &pgconn.PgError{Code: "23503"}
	err := MapStoreError(orig)
	require.NotErrorIs(t, err, ErrDuplicate)
	require.NotErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, error(orig))
}

func TestMapStoreErrorNil(t *testing.T) {
	require.NoError(t, MapStoreError(nil))
}

func TestMapStoreErrorUnknownErrorUnchanged(t *testing.T) {
	sentinel := errors.New("connection refused")
	require.ErrorIs(t, MapStoreError(sentinel), sentinel)
}
