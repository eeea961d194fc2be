// ABOUTME: SQLite implementation of the AccountStore interface
// ABOUTME: Provides account registration, authentication and lookup with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"
	"unicode/utf8"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// errDuplicateUsername never leaves this package; Register maps it to false.
var errDuplicateUsername = errors.New("username already exists")

// Options configures a SQLiteStore. Zero values fall back to the package defaults.
type Options struct {
	// Path is the database file, created along with its parent directories
	// if absent. Use MemoryPath for a throwaway database.
	Path string

	// Driver selects the database/sql driver: DriverModernc or DriverMattn.
	Driver string

	// Table is the account table name.
	Table string

	// BusyTimeout is how long a connection waits for SQLite's write lock.
	BusyTimeout time.Duration

	Logger  *slog.Logger
	Metrics *Metrics
}

func (o Options) withDefaults() Options {
	if o.Driver == "" {
		o.Driver = DefaultDriver
	}
	if o.Table == "" {
		o.Table = DefaultTable
	}
	if o.BusyTimeout <= 0 {
		o.BusyTimeout = DefaultBusyTimeout
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// queries holds the SQL statements for one table name.
type queries struct {
	schema     string
	insert     string
	selectHash string
	selectInfo string
}

func buildQueries(table string) queries {
	return queries{
		schema: fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %q (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				username TEXT UNIQUE NOT NULL,
				password_hash TEXT NOT NULL,
				email TEXT NOT NULL
			)
		`, table),
		insert:     fmt.Sprintf(`INSERT INTO %q (username, password_hash, email) VALUES (?, ?, ?)`, table),
		selectHash: fmt.Sprintf(`SELECT password_hash FROM %q WHERE username = ?`, table),
		selectInfo: fmt.Sprintf(`SELECT id, username, email FROM %q WHERE username = ?`, table),
	}
}

// SQLiteStore implements AccountStore using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	driver  sqlDriver
	queries queries
	logger  *slog.Logger
	metrics *Metrics
}

// NewSQLiteStore opens the database at opts.Path and makes sure the account
// table exists. Any storage failure is returned as a *StorageError and leaves
// nothing open.
func NewSQLiteStore(opts Options) (*SQLiteStore, error) {
	opts = opts.withDefaults()

	if opts.Path == "" {
		return nil, &InvalidInputError{Field: "path", Reason: "database path is required"}
	}
	if !tableNamePattern.MatchString(opts.Table) {
		return nil, &InvalidInputError{Field: "table", Reason: fmt.Sprintf("%q is not a valid identifier", opts.Table)}
	}

	drv, err := lookupDriver(opts.Driver)
	if err != nil {
		return nil, storageErr("initialize", err)
	}

	logger := opts.Logger.With("component", "store")

	if opts.Path != MemoryPath {
		dir := filepath.Dir(opts.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, storageErr("initialize", fmt.Errorf("creating database directory: %w", err))
		}
	}

	db, err := sql.Open(drv.name, drv.dsn(opts.Path, opts.BusyTimeout))
	if err != nil {
		return nil, storageErr("initialize", fmt.Errorf("opening database: %w", err))
	}

	// Every connection to :memory: is a separate database.
	if opts.Path == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, storageErr("initialize", fmt.Errorf("enabling WAL mode: %w", err))
	}

	s := &SQLiteStore{
		db:      db,
		driver:  drv,
		queries: buildQueries(opts.Table),
		logger:  logger,
		metrics: opts.Metrics,
	}

	if _, err := db.Exec(s.queries.schema); err != nil {
		db.Close()
		return nil, storageErr("initialize", fmt.Errorf("creating schema: %w", err))
	}

	logger.Info("SQLite store initialized", "path", opts.Path, "driver", drv.name, "table", opts.Table)
	return s, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return storageErr("ping", err)
	}
	return nil
}

// withTx runs fn inside a transaction scoped to a single call. The
// transaction is rolled back on every path that does not commit.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// validateRegistration checks presence of all fields first, then password length.
func validateRegistration(username, password, email string) error {
	if username == "" {
		return &InvalidInputError{Field: "username", Reason: "username, password, and email are required"}
	}
	if password == "" {
		return &InvalidInputError{Field: "password", Reason: "username, password, and email are required"}
	}
	if email == "" {
		return &InvalidInputError{Field: "email", Reason: "username, password, and email are required"}
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return &InvalidInputError{
			Field:  "password",
			Reason: fmt.Sprintf("must be at least %d characters long", MinPasswordLength),
		}
	}
	return nil
}

// Register creates an account. It returns false, nil if the username is
// already taken, and a *InvalidInputError before touching the database if
// any field is empty or the password is too short.
func (s *SQLiteStore) Register(ctx context.Context, username, password, email string) (bool, error) {
	defer s.metrics.since(opRegister, time.Now())

	if err := validateRegistration(username, password, email); err != nil {
		s.metrics.observe(opRegister, outcomeInvalid)
		return false, err
	}

	passwordHash := HashPassword(password)

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, s.queries.insert, username, passwordHash, email)
		if err != nil {
			if s.driver.isUniqueViolation(err) {
				return errDuplicateUsername
			}
			return fmt.Errorf("inserting account: %w", err)
		}
		return nil
	})

	switch {
	case errors.Is(err, errDuplicateUsername):
		s.metrics.observe(opRegister, outcomeRejected)
		s.logger.Debug("username already registered", "username", username)
		return false, nil
	case err != nil:
		s.metrics.observe(opRegister, outcomeError)
		return false, storageErr(opRegister, err)
	}

	s.metrics.observe(opRegister, outcomeOK)
	s.logger.Info("registered account", "username", username)
	return true, nil
}

// Authenticate reports whether password hashes to the stored hash for
// username. Empty inputs return false without a query.
func (s *SQLiteStore) Authenticate(ctx context.Context, username, password string) (bool, error) {
	defer s.metrics.since(opAuthenticate, time.Now())

	if username == "" || password == "" {
		s.metrics.observe(opAuthenticate, outcomeRejected)
		return false, nil
	}

	want := HashPassword(password)

	var stored string
	found := true
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, s.queries.selectHash, username).Scan(&stored)
		if errors.Is(err, sql.ErrNoRows) {
			found = false
			return nil
		}
		if err != nil {
			return fmt.Errorf("querying password hash: %w", err)
		}
		return nil
	})
	if err != nil {
		s.metrics.observe(opAuthenticate, outcomeError)
		return false, storageErr(opAuthenticate, err)
	}

	if !found || stored != want {
		s.metrics.observe(opAuthenticate, outcomeRejected)
		s.logger.Debug("authentication failed", "username", username, "known", found)
		return false, nil
	}

	s.metrics.observe(opAuthenticate, outcomeOK)
	return true, nil
}

// GetInfo returns the account for username. ok is false when no such
// account exists.
func (s *SQLiteStore) GetInfo(ctx context.Context, username string) (Account, bool, error) {
	defer s.metrics.since(opGetInfo, time.Now())

	var account Account
	found := true
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, s.queries.selectInfo, username).Scan(
			&account.ID,
			&account.Username,
			&account.Email,
		)
		if errors.Is(err, sql.ErrNoRows) {
			found = false
			return nil
		}
		if err != nil {
			return fmt.Errorf("querying account: %w", err)
		}
		return nil
	})
	if err != nil {
		s.metrics.observe(opGetInfo, outcomeError)
		return Account{}, false, storageErr(opGetInfo, err)
	}

	if !found {
		s.metrics.observe(opGetInfo, outcomeRejected)
		return Account{}, false, nil
	}

	s.metrics.observe(opGetInfo, outcomeOK)
	return account, true, nil
}
