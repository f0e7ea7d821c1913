package lib

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestOpError_KeepsMessageAndKind(t *testing.T) {
	cause := errors.New(`insert or update on table "items" violates foreign key constraint`)
	err := Persistence("insert item", cause)

	assert.Equal(t, cause.Error(), err.Error())
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrStorage)
}

func TestValidationError_IsValidationKind(t *testing.T) {
	err := (&ValidationError{}).Add("client.full_name", "is required")

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "client.full_name is required", err.Error())
	assert.Nil(t, (&ValidationError{}).OrNil())
}

func TestMapPgError(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})

	assert.ErrorIs(t, MapPgError(unique), ErrConflict)
	assert.Equal(t, "boom", MapPgError(errors.New("boom")).Error())
}
