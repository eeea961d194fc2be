package store

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidInputError(t *testing.T) {
	err := &InvalidInputError{Field: "password", Reason: "must be at least 8 characters long"}
	assert.Equal(t, "invalid password: must be at least 8 characters long", err.Error())
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrStorage)

	noField := &InvalidInputError{Reason: "bad"}
	assert.Equal(t, "invalid input: bad", noField.Error())
}

func TestStorageError(t *testing.T) {
	cause := sql.ErrConnDone
	err := storageErr("register", fmt.Errorf("inserting account: %w", cause))

	assert.Equal(t, "register: inserting account: sql: connection is already closed", err.Error())
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NotErrorIs(t, err, ErrInvalidInput)

	wrapped := fmt.Errorf("handling request: %w", err)
	var storageErr *StorageError
	assert.True(t, errors.As(wrapped, &storageErr))
	assert.Equal(t, "register", storageErr.Op)
}
