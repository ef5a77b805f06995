package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	pgDup := &pgconn.PgError{Code: "23505", ConstraintName: "uq_clients_phone"}
	sqliteDup := errors.New("UNIQUE constraint failed: clients.phone")
	wrapped := fmt.Errorf("insert client: %w", pgDup)

	assert.False(t, IsUniqueViolation(nil, ""))
	assert.False(t, IsUniqueViolation(errors.New("connection refused"), ""))

	assert.True(t, IsUniqueViolation(pgDup, ""))
	assert.True(t, IsUniqueViolation(pgDup, "uq_clients_phone"))
	assert.False(t, IsUniqueViolation(pgDup, "uq_other"))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))

	assert.True(t, IsUniqueViolation(sqliteDup, ""))
	assert.True(t, IsUniqueViolation(sqliteDup, "clients.phone"))

	assert.True(t, IsUniqueViolation(wrapped, "uq_clients_phone"))
}
