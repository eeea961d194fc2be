// Package store provides persistent account storage using SQLite.
//
// # Architecture
//
// AccountStore is the only interface. SQLiteStore implements it over a
// single database/sql handle and a single table:
//
//	accounts(id INTEGER PRIMARY KEY AUTOINCREMENT,
//	         username TEXT UNIQUE NOT NULL,
//	         password_hash TEXT NOT NULL,
//	         email TEXT NOT NULL)
//
// The table name, file path and driver are passed in Options, so several
// independent stores can live in one process.
//
// # Operations
//
//   - Register: validates input, hashes the password, inserts a row
//   - Authenticate: compares the hash of a password with the stored hash
//   - GetInfo: returns id, username and email; never the hash
//   - HashPassword: lowercase hex SHA-256, unsalted
//
// Accounts are never updated or deleted.
//
// # Drivers
//
//   - sqlite: modernc.org/sqlite (default, pure Go)
//   - sqlite3: github.com/mattn/go-sqlite3 (cgo builds only)
//
// Duplicate usernames are detected from the driver's extended result code
// (SQLITE_CONSTRAINT_UNIQUE), not from error text.
//
// # Error Handling
//
// Expected negative answers are plain return values: Register returns false
// for a taken username, Authenticate returns false for bad credentials,
// GetInfo returns ok=false for unknown users. Errors are reserved for:
//
//   - *InvalidInputError (errors.Is ErrInvalidInput): bad caller input, no
//     storage access happened
//   - *StorageError (errors.Is ErrStorage): the database failed; the cause is
//     available through errors.Unwrap
//
// # Concurrency
//
// Each operation runs in its own transaction which is always committed or
// rolled back before returning. SQLite serializes writers; a per-connection
// busy timeout makes them wait rather than fail.
//
// # Testing
//
// Use NewSQLiteStore(Options{Path: filepath.Join(t.TempDir(), "test.db")})
// or Options{Path: MemoryPath} for integration tests with real SQLite.
package store
