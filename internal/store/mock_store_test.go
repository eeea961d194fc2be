// ABOUTME: Unit tests for MockStore to ensure behavior matches SQLiteStore
// ABOUTME: Runs the same account scenarios against both implementations

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountStore_Scenarios(t *testing.T) {
	implementations := map[string]func(t *testing.T) AccountStore{
		"sqlite": func(t *testing.T) AccountStore { return setupTestStore(t) },
		"mock":   func(t *testing.T) AccountStore { return NewMockStore() },
	}

	for name, newStore := range implementations {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			ok, err := store.Register(ctx, "john_doe", "securepass123", "john@example.com")
			require.NoError(t, err)
			require.True(t, ok)

			ok, err = store.Register(ctx, "john_doe", "anotherpass1", "other@example.com")
			require.NoError(t, err)
			assert.False(t, ok)

			_, err = store.Register(ctx, "jane", "short", "jane@example.com")
			assert.ErrorIs(t, err, ErrInvalidInput)

			authed, err := store.Authenticate(ctx, "john_doe", "securepass123")
			require.NoError(t, err)
			assert.True(t, authed)

			authed, err = store.Authenticate(ctx, "john_doe", "wrongpassword")
			require.NoError(t, err)
			assert.False(t, authed)

			account, found, err := store.GetInfo(ctx, "john_doe")
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, Account{ID: 1, Username: "john_doe", Email: "john@example.com"}, account)

			_, found, err = store.GetInfo(ctx, "jane")
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestMockStore_FailWith(t *testing.T) {
	store := NewMockStore()
	ctx := context.Background()
	boom := errors.New("disk on fire")

	store.FailWith(boom)

	_, err := store.Register(ctx, "testuser", "password123", "test@example.com")
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, boom)

	// Validation still runs first.
	_, err = store.Register(ctx, "", "password123", "test@example.com")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = store.Authenticate(ctx, "testuser", "password123")
	assert.ErrorIs(t, err, ErrStorage)

	_, _, err = store.GetInfo(ctx, "testuser")
	assert.ErrorIs(t, err, ErrStorage)

	assert.ErrorIs(t, store.Ping(ctx), ErrStorage)

	store.FailWith(nil)
	ok, err := store.Register(ctx, "testuser", "password123", "test@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}
