// ABOUTME: Mock AccountStore implementation for testing
// ABOUTME: Allows tests to run without SQLite and to inject storage failures

package store

import (
	"context"
	"sync"
)

type mockAccount struct {
	Account
	passwordHash string
}

// MockStore is an in-memory AccountStore implementation for testing.
// It applies the same validation and duplicate rules as SQLiteStore.
type MockStore struct {
	mu       sync.RWMutex
	accounts map[string]*mockAccount // keyed by username
	nextID   int64
	failWith error
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		accounts: make(map[string]*mockAccount),
		nextID:   1,
	}
}

// FailWith makes every later storage-touching call fail with a *StorageError
// wrapping err. Pass nil to clear.
func (m *MockStore) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// Register stores a new account.
func (m *MockStore) Register(ctx context.Context, username, password, email string) (bool, error) {
	if err := validateRegistration(username, password, email); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return false, storageErr(opRegister, m.failWith)
	}
	if _, exists := m.accounts[username]; exists {
		return false, nil
	}

	m.accounts[username] = &mockAccount{
		Account:      Account{ID: m.nextID, Username: username, Email: email},
		passwordHash: HashPassword(password),
	}
	m.nextID++
	return true, nil
}

// Authenticate checks a password against the stored hash.
func (m *MockStore) Authenticate(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failWith != nil {
		return false, storageErr(opAuthenticate, m.failWith)
	}
	a, ok := m.accounts[username]
	if !ok {
		return false, nil
	}
	return a.passwordHash == HashPassword(password), nil
}

// GetInfo returns a copy of the stored account.
func (m *MockStore) GetInfo(ctx context.Context, username string) (Account, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failWith != nil {
		return Account{}, false, storageErr(opGetInfo, m.failWith)
	}
	a, ok := m.accounts[username]
	if !ok {
		return Account{}, false, nil
	}
	return a.Account, true, nil
}

// Ping fails only when a failure has been injected.
func (m *MockStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failWith != nil {
		return storageErr("ping", m.failWith)
	}
	return nil
}

// Close is a no-op.
func (m *MockStore) Close() error {
	return nil
}

// Ensure MockStore implements AccountStore.
var _ AccountStore = (*MockStore)(nil)
