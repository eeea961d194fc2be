// ABOUTME: Account type and the AccountStore interface for coven-accounts persistence
// ABOUTME: Accounts are create/read only; callers never see the stored password hash

package store

import (
	"context"
	"time"
)

// Defaults applied by NewSQLiteStore when Options leaves a field empty.
const (
	DefaultTable       = "accounts"
	DefaultDriver      = DriverModernc
	DefaultBusyTimeout = 5 * time.Second

	// MinPasswordLength is the shortest password Register accepts, in characters.
	MinPasswordLength = 8
)

// Account is the caller-visible view of a stored account.
// It never carries the password hash.
type Account struct {
	ID       int64
	Username string
	Email    string
}

// AccountStore defines the account operations exposed to callers.
type AccountStore interface {
	// Register creates a new account. It returns false, nil when the username
	// is already taken.
	Register(ctx context.Context, username, password, email string) (bool, error)

	// Authenticate reports whether password matches the stored credentials
	// for username. Unknown users and empty inputs yield false, nil.
	Authenticate(ctx context.Context, username, password string) (bool, error)

	// GetInfo looks up an account by username. The boolean is false when no
	// account exists.
	GetInfo(ctx context.Context, username string) (Account, bool, error)

	Ping(ctx context.Context) error
	Close() error
}

// Ensure SQLiteStore implements AccountStore.
var _ AccountStore = (*SQLiteStore)(nil)
