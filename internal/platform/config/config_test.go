// internal/platform/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"oppsync/internal/core/domain"
	"oppsync/internal/testutil"
)

func TestParseBool(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"1", true},
		{"TRUE", true},
		{"yes", true},
		{" on ", true},
		{"0", false},
		{"false", false},
		{"", false},
		{"maybe", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			testutil.AssertEqual(t, parseBool(tt.input), tt.expected, "parseBool")
		})
	}
}

func TestParseDuration(t *testing.T) {
	testutil.AssertEqual(t, parseDuration("45s", 0), 45*time.Second, "go duration")
	testutil.AssertEqual(t, parseDuration("12", 0), 12*time.Second, "bare seconds")
	testutil.AssertEqual(t, parseDuration("soon", time.Minute), time.Minute, "fallback")
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(nil)
	testutil.RequireNoError(t, err, "Load")

	testutil.AssertEqual(t, cfg.SourcesFile, "sources.yaml", "sources file")
	testutil.AssertEqual(t, cfg.Workers, 4, "workers")
	testutil.AssertEqual(t, cfg.Scheduler, "priority", "scheduler")
	testutil.AssertEqual(t, cfg.Approval, domain.ApprovalAuto, "approval")
	testutil.AssertEqual(t, cfg.Links.Recheck, 24*time.Hour, "recheck window")
	testutil.AssertEqual(t, cfg.Links.Delay, 100*time.Millisecond, "probe delay")
	testutil.AssertFalse(t, cfg.Scheduled(), "no schedule by default")
}

func TestLoad_EnvThenFlags(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("OPPSYNC_WORKERS", "9")
	t.Setenv("OPPSYNC_DB_PATH", "/tmp/env.db")
	t.Setenv("OPPSYNC_APPROVAL", "manual")
	t.Setenv("OPPSYNC_ITEM_TIMEOUT", "3s")

	cfg, err := Load([]string{"--workers", "2", "--schedule", "@hourly", "--scheduler", " FIFO "})
	testutil.RequireNoError(t, err, "Load")

	testutil.AssertEqual(t, cfg.Workers, 2, "flag overrides env")
	testutil.AssertEqual(t, cfg.Scheduler, "fifo", "scheduler normalized")
	testutil.AssertEqual(t, cfg.DBPath, "/tmp/env.db", "env applied")
	testutil.AssertEqual(t, cfg.Approval, domain.ApprovalManual, "approval from env")
	testutil.AssertEqual(t, cfg.ItemTimeout, 3*time.Second, "item timeout from env")
	testutil.AssertTrue(t, cfg.Scheduled(), "schedule set")
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	testutil.RequireNoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("OPPSYNC_OUTPUT_DIR=from-dotenv\n"), 0o644), "write .env")
	t.Cleanup(func() { os.Unsetenv("OPPSYNC_OUTPUT_DIR") })

	cfg, err := Load(nil)
	testutil.RequireNoError(t, err, "Load")
	testutil.AssertEqual(t, cfg.OutputDir, "from-dotenv", ".env value applied")
}

func TestLoad_BadFlag(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load([]string{"--no-such-flag"})
	testutil.AssertError(t, err, "unknown flag should fail")
}

func TestNormalize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 0
	cfg.OutputDir = ""
	cfg.Links.Concurrency = -3
	cfg.Resilience.BackoffMultiplier = 0.5

	normalize(&cfg)

	testutil.AssertEqual(t, cfg.Workers, 1, "workers clamped")
	testutil.AssertEqual(t, cfg.OutputDir, "oppsync_out", "output dir default")
	testutil.AssertEqual(t, cfg.Links.Concurrency, 1, "link workers clamped")
	testutil.AssertEqual(t, cfg.Resilience.BackoffMultiplier, 2.0, "multiplier reset")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
