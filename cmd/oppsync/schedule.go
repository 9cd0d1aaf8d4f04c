// cmd/oppsync/schedule.go
package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"

	"oppsync/internal/platform/logx"
)

// runScheduled keeps the process up, running sweeps and link checks on
// their cron schedules until ctx is cancelled.
func (a *app) runScheduled(ctx context.Context) int {
	clog := cronLogger{a.logger.With("component", "scheduler")}
	c := cron.New(
		cron.WithLogger(clog),
		cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)),
	)

	if a.cfg.Schedule != "" {
		if _, err := c.AddFunc(a.cfg.Schedule, func() {
			_, _ = a.runSweep(ctx)
			if n := a.client.Prune(); n > 0 {
				a.logger.Debug("pruned expired validators", "count", n)
			}
		}); err != nil {
			a.logger.Err(err, "phase", "schedule", "spec", a.cfg.Schedule)
			return exitConfig
		}
	}
	if a.cfg.LinkSchedule != "" {
		if _, err := c.AddFunc(a.cfg.LinkSchedule, func() {
			a.runLinkCheck(ctx)
		}); err != nil {
			a.logger.Err(err, "phase", "schedule", "spec", a.cfg.LinkSchedule)
			return exitConfig
		}
	}

	srv := a.serveMetrics()

	a.logger.Info("scheduler started",
		"sweep_schedule", a.cfg.Schedule,
		"link_schedule", a.cfg.LinkSchedule,
		"metrics_addr", a.cfg.MetricsAddr,
	)
	c.Start()

	<-ctx.Done()
	a.logger.Info("shutting down scheduler")

	// Wait for a running job to finish.
	<-c.Stop().Done()

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("metrics server shutdown failed", "error", err.Error())
		}
	}
	return exitOK
}

// serveMetrics exposes /metrics when an address is configured.
func (a *app) serveMetrics() *http.Server {
	if a.cfg.MetricsAddr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	srv := &http.Server{
		Addr:              a.cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Err(err, "phase", "metrics-server")
		}
	}()
	return srv
}

// cronLogger adapts logx.Logger to cron.Logger.
type cronLogger struct {
	logger logx.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Err(err, append([]interface{}{"msg", msg}, keysAndValues...)...)
}
