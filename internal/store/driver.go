// ABOUTME: database/sql driver registry for the account store
// ABOUTME: Each driver supplies its DSN format and its UNIQUE-constraint classifier

package store

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Supported driver names, matching the database/sql registrations.
const (
	DriverModernc = "sqlite"  // modernc.org/sqlite, pure Go
	DriverMattn   = "sqlite3" // github.com/mattn/go-sqlite3, requires cgo
)

// sqlDriver describes how the store talks to one SQLite driver.
type sqlDriver struct {
	name string

	// dsn builds the connection string for path with a per-connection busy timeout.
	dsn func(path string, busyTimeout time.Duration) string

	// isUniqueViolation reports whether err is the driver's UNIQUE or
	// PRIMARY KEY constraint result code. Other constraint failures
	// (NOT NULL, CHECK, trigger aborts) must return false.
	isUniqueViolation func(err error) bool
}

var drivers = map[string]sqlDriver{}

func registerDriver(d sqlDriver) {
	drivers[d.name] = d
}

func lookupDriver(name string) (sqlDriver, error) {
	d, ok := drivers[name]
	if !ok {
		return sqlDriver{}, fmt.Errorf("unknown driver %q (available: %s)", name, strings.Join(AvailableDrivers(), ", "))
	}
	return d, nil
}

// AvailableDrivers lists the driver names compiled into this binary.
func AvailableDrivers() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// fileURI builds an SQLite "file:" URI for path. The path is percent-escaped
// so that '?', '#' and '%' in it stay part of the file name.
func fileURI(path string, query url.Values) string {
	u := url.URL{
		Scheme:   "file",
		Path:     path,
		OmitHost: true,
		RawQuery: query.Encode(),
	}
	return u.String()
}
