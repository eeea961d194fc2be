//go:build cgo

// ABOUTME: github.com/mattn/go-sqlite3 driver registration for cgo builds
// ABOUTME: Duplicates detected by the driver's extended error code

package store

import (
	"errors"
	"net/url"
	"strconv"
	"time"

	mattn "github.com/mattn/go-sqlite3"
)

func init() {
	registerDriver(sqlDriver{
		name:              DriverMattn,
		dsn:               mattnDSN,
		isUniqueViolation: mattnUniqueViolation,
	})
}

func mattnDSN(path string, busyTimeout time.Duration) string {
	return fileURI(path, url.Values{
		"_busy_timeout": {strconv.FormatInt(busyTimeout.Milliseconds(), 10)},
	})
}

func mattnUniqueViolation(err error) bool {
	var sqliteErr mattn.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == mattn.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == mattn.ErrConstraintPrimaryKey
}
