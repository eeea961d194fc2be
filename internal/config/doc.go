// Package config handles configuration loading for coven-accounts.
//
// # Overview
//
// Configuration is loaded from a YAML or TOML file with environment variable
// expansion. Every field has a default, so running without a file works.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from COVEN_ACCOUNTS_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/coven/accounts.yaml
//  3. ~/.config/coven/accounts.yaml
//
// Files ending in .toml are decoded as TOML; anything else is YAML.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	database:
//	  path: "${STATE_DIRECTORY}/accounts.db"
//
// Syntax: ${VAR_NAME}. Unset variables expand to the empty string.
//
// # Configuration Sections
//
// Database:
//
//	database:
//	  path: "${HOME}/.local/share/coven/accounts.db"
//	  driver: "sqlite"        # sqlite (pure Go), sqlite3 (cgo)
//	  table: "accounts"
//	  busy_timeout: "5s"
//
// HTTP API:
//
//	server:
//	  http_addr: "127.0.0.1:8080"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//	  file: ""        # optional rotating log file
//	  max_size_mb: 100
//	  max_backups: 3
//	  max_age_days: 28
//	  compress: false
//
// Metrics:
//
//	metrics:
//	  enabled: true
//	  path: "/metrics"
//
// The same layout in TOML:
//
//	[database]
//	path = "/var/lib/coven/accounts.db"
//	busy_timeout = "2s"
//
// # Validation
//
// Load() validates with go-playground/validator struct tags:
//
//   - database.path and database.table are required; table must be an SQL identifier
//   - database.driver, logging.level and logging.format take fixed values
//   - server.http_addr must be host:port (port 0 picks a free port)
//   - durations must parse with time.ParseDuration
//
// # Usage
//
//	cfg, found, err := config.LoadOrDefault("/etc/coven/accounts.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
