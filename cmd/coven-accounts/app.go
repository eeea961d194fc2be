// ABOUTME: Command implementations for coven-accounts
// ABOUTME: Each command opens the account store from config and prints a colored result

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/yaml.v3"

	"github.com/2389/coven-accounts/internal/api"
	"github.com/2389/coven-accounts/internal/config"
	"github.com/2389/coven-accounts/internal/store"
)

var (
	// errUsage means the arguments were wrong; main prints usage.
	errUsage = errors.New("usage")

	// errNegative means the command ran but the answer was no
	// (taken username, bad password, unknown account).
	errNegative = errors.New("negative result")
)

type app struct {
	cfg        *config.Config
	configPath string
	logger     *slog.Logger
	logCloser  io.Closer
	accounts   store.AccountStore
	registry   *prometheus.Registry

	stdin  io.Reader
	stdout io.Writer
}

// newApp loads config, sets up logging and opens the store. serving enables
// info-level store logging and Prometheus collectors.
func newApp(configPath string, serving bool, stdin io.Reader, stdout, stderr io.Writer) (*app, error) {
	cfg, _, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logCfg := cfg.Logging
	if !serving && logCfg.Level == "info" {
		// One-shot commands only report problems.
		logCfg.Level = "warn"
	}
	logger, logCloser, err := setupLogger(logCfg, stderr)
	if err != nil {
		return nil, fmt.Errorf("setting up logger: %w", err)
	}

	a := &app{
		cfg:        cfg,
		configPath: configPath,
		logger:     logger,
		logCloser:  logCloser,
		stdin:      stdin,
		stdout:     stdout,
	}

	opts := store.Options{
		Path:        cfg.Database.Path,
		Driver:      cfg.Database.Driver,
		Table:       cfg.Database.Table,
		BusyTimeout: cfg.Database.BusyTimeout,
		Logger:      logger,
	}

	if serving && cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts.Metrics, err = store.NewMetrics(a.registry)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("creating metrics: %w", err)
		}
	}

	accounts, err := store.NewSQLiteStore(opts)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("opening account store: %w", err)
	}
	a.accounts = accounts

	return a, nil
}

func (a *app) close() {
	if a.accounts != nil {
		if err := a.accounts.Close(); err != nil {
			a.logger.Warn("closing store", "error", err)
		}
	}
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}

func (a *app) runRegister(ctx context.Context, username, email string) error {
	password, err := readPassword(a.stdin, a.stdout, "Password: ")
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	ok, err := a.accounts.Register(ctx, username, password, email)
	if err != nil {
		return err
	}
	if !ok {
		color.New(color.FgYellow).Fprintln(a.stdout, "Username already exists!")
		return errNegative
	}

	color.New(color.FgGreen).Fprintln(a.stdout, "User registered successfully!")
	return nil
}

func (a *app) runLogin(ctx context.Context, username string) error {
	password, err := readPassword(a.stdin, a.stdout, "Password: ")
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	ok, err := a.accounts.Authenticate(ctx, username, password)
	if err != nil {
		return err
	}
	if !ok {
		color.New(color.FgRed).Fprintln(a.stdout, "Authentication failed!")
		return errNegative
	}

	color.New(color.FgGreen).Fprintln(a.stdout, "Authentication successful!")
	return nil
}

func (a *app) runInfo(ctx context.Context, username string) error {
	account, found, err := a.accounts.GetInfo(ctx, username)
	if err != nil {
		return err
	}
	if !found {
		color.New(color.FgYellow).Fprintf(a.stdout, "No account named %q\n", username)
		return errNegative
	}

	a.printAccount(account)
	return nil
}

func (a *app) printAccount(account store.Account) {
	cyan := color.New(color.FgCyan)
	cyan.Fprint(a.stdout, "User ID: ")
	fmt.Fprintf(a.stdout, "%d, ", account.ID)
	cyan.Fprint(a.stdout, "Username: ")
	fmt.Fprintf(a.stdout, "%s, ", account.Username)
	cyan.Fprint(a.stdout, "Email: ")
	fmt.Fprintf(a.stdout, "%s\n", account.Email)
}

// runDemo walks through registration, login and lookup for a fixed user.
func (a *app) runDemo(ctx context.Context) error {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	ok, err := a.accounts.Register(ctx, "john_doe", "securepass123", "john@example.com")
	if err != nil {
		return err
	}
	if ok {
		green.Fprintln(a.stdout, "User registered successfully!")
	} else {
		yellow.Fprintln(a.stdout, "Username already exists!")
	}

	ok, err = a.accounts.Authenticate(ctx, "john_doe", "securepass123")
	if err != nil {
		return err
	}
	if !ok {
		red.Fprintln(a.stdout, "Authentication failed!")
		return nil
	}
	green.Fprintln(a.stdout, "Authentication successful!")

	account, found, err := a.accounts.GetInfo(ctx, "john_doe")
	if err != nil {
		return err
	}
	if found {
		a.printAccount(account)
	}
	return nil
}

func (a *app) runServe(ctx context.Context) error {
	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)
	green := color.New(color.FgGreen)

	cyan.Fprint(a.stdout, banner)
	gray.Fprintf(a.stdout, "    version: %s\n\n", version)

	green.Fprint(a.stdout, "    ▶ ")
	fmt.Fprintf(a.stdout, "Config:    %s\n", a.configPath)
	green.Fprint(a.stdout, "    ▶ ")
	fmt.Fprintf(a.stdout, "Database:  %s (%s)\n", a.cfg.Database.Path, a.cfg.Database.Driver)
	green.Fprint(a.stdout, "    ▶ ")
	fmt.Fprintf(a.stdout, "HTTP:      %s\n", a.cfg.Server.HTTPAddr)
	if a.registry != nil {
		green.Fprint(a.stdout, "    ▶ ")
		fmt.Fprintf(a.stdout, "Metrics:   %s\n", a.cfg.Metrics.Path)
	}
	fmt.Fprintln(a.stdout)

	var opts []api.Option
	if a.registry != nil {
		opts = append(opts, api.WithMetrics(a.cfg.Metrics.Path, promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))
	}

	a.logger.Info("starting coven-accounts",
		"config", a.configPath,
		"http_addr", a.cfg.Server.HTTPAddr,
	)

	return api.New(a.accounts, a.logger, opts...).Run(ctx, a.cfg.Server.HTTPAddr)
}

// runInit writes the default configuration to path unless a file already exists.
func runInit(path string, stdout io.Writer) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	cfg := config.Default()
	cfg.Database.BusyTimeoutRaw = cfg.Database.BusyTimeout.String()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	color.New(color.FgGreen).Fprint(stdout, "✓ ")
	fmt.Fprintf(stdout, "Wrote %s\n", path)
	return nil
}
