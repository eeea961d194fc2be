package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/coven-accounts/internal/config"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// setupTestConfig writes a config file pointing at a fresh database and
// points COVEN_ACCOUNTS_CONFIG at it.
func setupTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "accounts.db")
	configPath := filepath.Join(dir, "accounts.yaml")

	content := fmt.Sprintf(`
database:
  path: %s
  busy_timeout: 2s
server:
  http_addr: "127.0.0.1:0"
logging:
  level: warn
`, dbPath)
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
	t.Setenv("COVEN_ACCOUNTS_CONFIG", configPath)
	return dbPath
}

type result struct {
	stdout string
	stderr string
	err    error
}

func runCommand(t *testing.T, stdin string, command string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), command, args, strings.NewReader(stdin), &stdout, &stderr)
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("COVEN_ACCOUNTS_CONFIG", "/custom/accounts.yaml")
	assert.Equal(t, "/custom/accounts.yaml", getConfigPath())

	t.Setenv("COVEN_ACCOUNTS_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "coven", "accounts.yaml"), getConfigPath())
}

func TestRun_Version(t *testing.T) {
	res := runCommand(t, "", "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "coven-accounts")
}

func TestRun_UnknownCommand(t *testing.T) {
	setupTestConfig(t)

	res := runCommand(t, "", "frobnicate")
	assert.ErrorIs(t, res.err, errUsage)
	assert.Contains(t, res.stderr, "Unknown command: frobnicate")
}

func TestRun_WrongArgCount(t *testing.T) {
	setupTestConfig(t)

	tests := []struct {
		command string
		args    []string
	}{
		{"register", []string{"alice"}},
		{"login", nil},
		{"info", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			res := runCommand(t, "", tt.command, tt.args...)
			assert.ErrorIs(t, res.err, errUsage)
		})
	}
}

func TestRun_Demo(t *testing.T) {
	setupTestConfig(t)

	res := runCommand(t, "", "demo")
	require.NoError(t, res.err)
	assert.Equal(t,
		"User registered successfully!\n"+
			"Authentication successful!\n"+
			"User ID: 1, Username: john_doe, Email: john@example.com\n",
		res.stdout)

	// The account persists, so a second run reports the duplicate.
	res = runCommand(t, "", "demo")
	require.NoError(t, res.err)
	assert.Equal(t,
		"Username already exists!\n"+
			"Authentication successful!\n"+
			"User ID: 1, Username: john_doe, Email: john@example.com\n",
		res.stdout)
}

func TestRun_RegisterLoginInfo(t *testing.T) {
	setupTestConfig(t)

	res := runCommand(t, "password123\n", "register", "alice", "alice@example.com")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "User registered successfully!")

	res = runCommand(t, "otherpass12\n", "register", "alice", "other@example.com")
	assert.ErrorIs(t, res.err, errNegative)
	assert.Contains(t, res.stdout, "Username already exists!")

	res = runCommand(t, "password123\n", "login", "alice")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Authentication successful!")

	res = runCommand(t, "otherpass12\n", "login", "alice")
	assert.ErrorIs(t, res.err, errNegative)
	assert.Contains(t, res.stdout, "Authentication failed!")

	res = runCommand(t, "", "info", "alice")
	require.NoError(t, res.err)
	assert.Equal(t, "User ID: 1, Username: alice, Email: alice@example.com\n", res.stdout)

	res = runCommand(t, "", "info", "bob")
	assert.ErrorIs(t, res.err, errNegative)
	assert.Contains(t, res.stdout, `No account named "bob"`)
}

func TestRun_RegisterShortPassword(t *testing.T) {
	setupTestConfig(t)

	res := runCommand(t, "short\n", "register", "alice", "alice@example.com")
	require.Error(t, res.err)
	assert.NotErrorIs(t, res.err, errNegative)
	assert.Contains(t, res.err.Error(), "at least 8 characters")
}

func TestRun_InvalidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "accounts.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("database:\n  driver: postgres\n"), 0644))
	t.Setenv("COVEN_ACCOUNTS_CONFIG", configPath)

	res := runCommand(t, "", "demo")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "loading config")
}

func TestRun_Serve(t *testing.T) {
	setupTestConfig(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	err := run(ctx, "serve", nil, strings.NewReader(""), &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "HTTP:      127.0.0.1:0")
	assert.Contains(t, stdout.String(), "Metrics:   /metrics")
}

func TestRun_Init(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "accounts.yaml")
	t.Setenv("COVEN_ACCOUNTS_CONFIG", configPath)
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	res := runCommand(t, "", "init")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Wrote "+configPath)

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	want := config.Default()
	assert.Equal(t, want.Database.Path, cfg.Database.Path)
	assert.Equal(t, want.Database.BusyTimeout, cfg.Database.BusyTimeout)
	assert.Equal(t, want.Server, cfg.Server)
	assert.Equal(t, want.Logging, cfg.Logging)
	assert.Equal(t, want.Metrics, cfg.Metrics)

	res = runCommand(t, "", "init")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "already exists")
}
