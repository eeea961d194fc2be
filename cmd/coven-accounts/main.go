// ABOUTME: Entry point for coven-accounts
// ABOUTME: Registers, authenticates and looks up accounts, or serves the HTTP API

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
  ___ _____   _____ _ __        __ _  ___ ___ ___  _   _ _ __ | |_ ___
 / __/ _ \ \ / / _ \ '_ \ _____/ _' |/ __/ __/ _ \| | | | '_ \| __/ __|
| (_| (_) \ V /  __/ | | |_____| (_| | (_| (_| (_) | |_| | | | | |_\__ \
 \___\___/ \_/ \___|_| |_|      \__,_|\___\___\___/ \__,_|_| |_|\__|___/
`

// getConfigPath returns the path to the config file.
// Priority: COVEN_ACCOUNTS_CONFIG env var > XDG_CONFIG_HOME/coven/accounts.yaml > ~/.config/coven/accounts.yaml
func getConfigPath() string {
	if envPath := os.Getenv("COVEN_ACCOUNTS_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "accounts.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "coven", "accounts.yaml")
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: coven-accounts <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  register <username> <email>  Create an account (password read from stdin)")
	fmt.Fprintln(w, "  login <username>             Check a password (read from stdin)")
	fmt.Fprintln(w, "  info <username>              Show account id, username and email")
	fmt.Fprintln(w, "  demo                         Register john_doe and walk through a login")
	fmt.Fprintln(w, "  serve                        Start the HTTP API")
	fmt.Fprintln(w, "  init                         Write a default config file")
	fmt.Fprintln(w, "  version                      Print version")
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stdout)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := run(ctx, os.Args[1], os.Args[2:], os.Stdin, os.Stdout, os.Stderr)
	if errors.Is(err, errUsage) {
		usage(os.Stderr)
		os.Exit(1)
	}
	if errors.Is(err, errNegative) {
		// The answer was already printed.
		os.Exit(1)
	}
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	configPath := getConfigPath()

	switch command {
	case "version":
		fmt.Fprintf(stdout, "coven-accounts %s\n", version)
		return nil
	case "init":
		return runInit(configPath, stdout)
	}

	a, err := newApp(configPath, command == "serve", stdin, stdout, stderr)
	if err != nil {
		return err
	}
	defer a.close()

	switch command {
	case "register":
		if len(args) != 2 {
			return errUsage
		}
		return a.runRegister(ctx, args[0], args[1])
	case "login":
		if len(args) != 1 {
			return errUsage
		}
		return a.runLogin(ctx, args[0])
	case "info":
		if len(args) != 1 {
			return errUsage
		}
		return a.runInfo(ctx, args[0])
	case "demo":
		return a.runDemo(ctx)
	case "serve":
		return a.runServe(ctx)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		return errUsage
	}
}
