// ABOUTME: modernc.org/sqlite driver registration for the account store
// ABOUTME: Pure-Go default driver; duplicates detected by extended result code

package store

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

func init() {
	registerDriver(sqlDriver{
		name:              DriverModernc,
		dsn:               moderncDSN,
		isUniqueViolation: moderncUniqueViolation,
	})
}

// moderncDSN sets busy_timeout through a _pragma parameter, which modernc
// applies to every new connection.
func moderncDSN(path string, busyTimeout time.Duration) string {
	return fileURI(path, url.Values{
		"_pragma": {fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds())},
	})
}

func moderncUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	default:
		return false
	}
}
