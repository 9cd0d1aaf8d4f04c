// cmd/oppsync/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"oppsync/internal/core/domain"
	"oppsync/internal/platform/config"
	"oppsync/internal/platform/logx"
	"oppsync/internal/platform/registry"

	// Import adapters for auto-registration via init()
	_ "oppsync/internal/sources/api"
	_ "oppsync/internal/sources/feed"
	_ "oppsync/internal/sources/markup"
	_ "oppsync/internal/sources/tabular"
)

var (
	// Set with -ldflags at build time
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitConfig = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// 1. Configuration (defaults, .env, environment, flags)
	cfg, err := config.Load(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Try: oppsync -h for help")
		return exitConfig
	}
	if cfg.ShowHelp {
		config.PrintHelp(os.Stdout)
		return exitOK
	}
	if cfg.PrintVersion {
		config.PrintVersion(os.Stdout, version, commit, date)
		return exitOK
	}

	// 2. Shared logger
	logger := logx.NewWithOptions(logx.Options{
		Level:  logx.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
		Output: os.Stderr,
	})
	defer logger.Sync()

	logger.Info("oppsync starting",
		"version", version,
		"commit", commit,
		"sources_file", cfg.SourcesFile,
		"workers", cfg.Workers,
		"dry_run", cfg.DryRun,
	)

	if dump, err := cfg.ToJSON(); err == nil {
		logger.Debug("effective configuration", "config", dump)
	}

	// 3. Context cancelled on SIGINT/SIGTERM
	ctx, stop := rootContextWithSignals()
	defer stop()

	// 4. Source descriptors: file entries, then environment entries
	descriptors, err := registry.NewLoader(logger).Load(cfg.SourcesFile, cfg.SourcesEnv)
	if err != nil {
		logger.Err(err, "phase", "load-sources")
		return exitConfig
	}

	// 5. Store, adapters and use cases
	a, err := newApp(ctx, cfg, descriptors, logger)
	if err != nil {
		logger.Err(err, "phase", "setup")
		return exitFailed
	}
	defer a.Close()

	switch {
	case cfg.Scheduled():
		return a.runScheduled(ctx)
	case cfg.Links.Check:
		return a.runLinkCheck(ctx)
	default:
		summary, err := a.runSweep(ctx)
		return exitCode(summary, err)
	}
}

// exitCode maps a sweep outcome onto the process exit status.
func exitCode(summary *domain.Summary, err error) int {
	var cfgErr *domain.ConfigurationError
	switch {
	case errors.As(err, &cfgErr):
		return exitConfig
	case err != nil:
		return exitFailed
	case summary != nil && summary.Failed():
		return exitFailed
	default:
		return exitOK
	}
}

// rootContextWithSignals returns a context cancelled by SIGINT or SIGTERM.
func rootContextWithSignals() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// withOptionalTimeout bounds ctx when d is positive.
func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}
