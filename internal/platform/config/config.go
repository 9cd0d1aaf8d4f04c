// internal/platform/config/config.go
package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"oppsync/internal/core/domain"
)

type Config struct {
	// Sources
	SourcesFile string
	// SourcesEnv is the name of the variable holding extra JSON descriptors.
	SourcesEnv string

	// Store
	DBPath string
	DryRun bool

	// Pipeline
	Workers int
	// Scheduler orders source fetches: priority, weighted or fifo.
	Scheduler    string
	FetchTimeout time.Duration
	ItemTimeout  time.Duration
	SweepTimeout time.Duration
	Approval     domain.ApprovalPolicy

	// HTTP
	HTTP HTTP

	// IO
	OutputDir string
	Outputs   Outputs

	Resilience Resilience
	Links      Links

	// Scheduling
	Schedule     string
	LinkSchedule string
	MetricsAddr  string

	// Logging
	LogLevel  string
	LogFormat string

	PrintVersion bool
	ShowHelp     bool
}

type HTTP struct {
	UserAgent    string
	MaxBodyBytes int64
	// RatePerHost requests per second allowed against one registrable domain (0 = unlimited).
	RatePerHost float64
	Burst       int
	CacheTTL    time.Duration
}

type Outputs struct {
	TableDisabled bool
	JSON          bool
}

type Resilience struct {
	MaxRetries        int
	BackoffBase       time.Duration
	BackoffMultiplier float64

	CircuitBreakerEnabled     bool
	CircuitBreakerThreshold   int
	CircuitBreakerTimeout     time.Duration
	CircuitBreakerHalfOpenMax int
}

type Links struct {
	// Check runs the link checker instead of a sweep.
	Check       bool
	Concurrency int
	Recheck     time.Duration
	Delay       time.Duration
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		SourcesFile: "sources.yaml",
		SourcesEnv:  "OPP_SOURCES_JSON",

		DBPath: "oppsync.db",

		Workers:      4,
		Scheduler:    "priority",
		FetchTimeout: 30 * time.Second,
		ItemTimeout:  10 * time.Second,
		SweepTimeout: 30 * time.Minute,
		Approval:     domain.ApprovalAuto,

		HTTP: HTTP{
			UserAgent:    "oppsync/1.0 (+https://github.com/oppsync/oppsync)",
			MaxBodyBytes: 5 << 20,
			RatePerHost:  2,
			Burst:        4,
			CacheTTL:     6 * time.Hour,
		},

		OutputDir: "oppsync_out",

		Resilience: Resilience{
			MaxRetries:                2,
			BackoffBase:               1 * time.Second,
			BackoffMultiplier:         2.0,
			CircuitBreakerEnabled:     true,
			CircuitBreakerThreshold:   3,
			CircuitBreakerTimeout:     10 * time.Minute,
			CircuitBreakerHalfOpenMax: 1,
		},

		Links: Links{
			Concurrency: 4,
			Recheck:     24 * time.Hour,
			Delay:       100 * time.Millisecond,
		},

		LogLevel: "info",
	}
}

// Load builds the configuration: defaults, then .env files, then OPPSYNC_*
// variables, then command-line flags (flags win).
func Load(args []string) (Config, error) {
	cfg := DefaultConfig()

	loadDotEnv()
	loadFromEnv(&cfg)

	if err := loadFromFlags(&cfg, args); err != nil {
		return cfg, err
	}

	normalize(&cfg)
	return cfg, nil
}

// loadDotEnv reads ENV_FILE, or .env.local then .env. Existing variables are
// never overwritten and missing files are ignored.
func loadDotEnv() {
	if f := os.Getenv("ENV_FILE"); f != "" {
		_ = godotenv.Load(f)
		return
	}
	for _, f := range []string{".env.local", ".env"} {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}
}

func loadFromEnv(cfg *Config) {
	if v := getenv("OPPSYNC_SOURCES_FILE", ""); v != "" {
		cfg.SourcesFile = v
	}
	if v := getenv("OPPSYNC_DB_PATH", ""); v != "" {
		cfg.DBPath = v
	}
	if v := getenv("OPPSYNC_DRY_RUN", ""); v != "" {
		cfg.DryRun = parseBool(v)
	}
	if v := getenv("OPPSYNC_WORKERS", ""); v != "" {
		cfg.Workers = parseInt(v, cfg.Workers)
	}
	if v := getenv("OPPSYNC_SCHEDULER", ""); v != "" {
		cfg.Scheduler = v
	}
	if v := getenv("OPPSYNC_FETCH_TIMEOUT", ""); v != "" {
		cfg.FetchTimeout = parseDuration(v, cfg.FetchTimeout)
	}
	if v := getenv("OPPSYNC_ITEM_TIMEOUT", ""); v != "" {
		cfg.ItemTimeout = parseDuration(v, cfg.ItemTimeout)
	}
	if v := getenv("OPPSYNC_SWEEP_TIMEOUT", ""); v != "" {
		cfg.SweepTimeout = parseDuration(v, cfg.SweepTimeout)
	}
	if v := getenv("OPPSYNC_APPROVAL", ""); v != "" {
		cfg.Approval = domain.ParseApprovalPolicy(v)
	}

	if v := getenv("OPPSYNC_USER_AGENT", ""); v != "" {
		cfg.HTTP.UserAgent = v
	}
	if v := getenv("OPPSYNC_RATE_PER_HOST", ""); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			cfg.HTTP.RatePerHost = f
		}
	}

	if v := getenv("OPPSYNC_OUTPUT_DIR", ""); v != "" {
		cfg.OutputDir = v
	}
	if v := getenv("OPPSYNC_OUTPUTS_TABLE_DISABLED", ""); v != "" {
		cfg.Outputs.TableDisabled = parseBool(v)
	}

	if v := getenv("OPPSYNC_RESILIENCE_MAX_RETRIES", ""); v != "" {
		cfg.Resilience.MaxRetries = parseInt(v, cfg.Resilience.MaxRetries)
	}
	if v := getenv("OPPSYNC_RESILIENCE_CB_ENABLED", ""); v != "" {
		cfg.Resilience.CircuitBreakerEnabled = parseBool(v)
	}
	if v := getenv("OPPSYNC_RESILIENCE_CB_THRESHOLD", ""); v != "" {
		cfg.Resilience.CircuitBreakerThreshold = parseInt(v, cfg.Resilience.CircuitBreakerThreshold)
	}

	if v := getenv("OPPSYNC_LINK_CONCURRENCY", ""); v != "" {
		cfg.Links.Concurrency = parseInt(v, cfg.Links.Concurrency)
	}

	if v := getenv("OPPSYNC_SCHEDULE", ""); v != "" {
		cfg.Schedule = v
	}
	if v := getenv("OPPSYNC_LINK_SCHEDULE", ""); v != "" {
		cfg.LinkSchedule = v
	}
	if v := getenv("OPPSYNC_METRICS_ADDR", ""); v != "" {
		cfg.MetricsAddr = v
	}

	if v := getenv("OPPSYNC_LOG_LEVEL", ""); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv("OPPSYNC_LOG_FORMAT", ""); v != "" {
		cfg.LogFormat = v
	}
}

func loadFromFlags(cfg *Config, args []string) error {
	fs := pflag.NewFlagSet("oppsync", pflag.ContinueOnError)
	fs.Usage = func() {}

	fs.StringVarP(&cfg.SourcesFile, "sources", "s", cfg.SourcesFile, "Source descriptor file (YAML)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	fs.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "Use an in-memory store")

	fs.IntVarP(&cfg.Workers, "workers", "w", cfg.Workers, "Concurrent source fetches")
	fs.StringVar(&cfg.Scheduler, "scheduler", cfg.Scheduler, "Fetch order: priority, weighted or fifo")
	fs.DurationVar(&cfg.FetchTimeout, "fetch-timeout", cfg.FetchTimeout, "Timeout per source fetch")
	fs.DurationVar(&cfg.ItemTimeout, "item-timeout", cfg.ItemTimeout, "Timeout per reconciled item")
	fs.DurationVarP(&cfg.SweepTimeout, "timeout", "T", cfg.SweepTimeout, "Timeout of a whole sweep (0 = none)")
	approval := fs.String("approval", string(cfg.Approval), "Approval policy: auto or manual")

	fs.StringVar(&cfg.HTTP.UserAgent, "user-agent", cfg.HTTP.UserAgent, "HTTP User-Agent")
	fs.Float64Var(&cfg.HTTP.RatePerHost, "rate", cfg.HTTP.RatePerHost, "Requests per second per site (0 = unlimited)")

	fs.StringVarP(&cfg.OutputDir, "out", "o", cfg.OutputDir, "Output directory for summaries")
	fs.BoolVarP(&cfg.Outputs.TableDisabled, "no-table", "q", cfg.Outputs.TableDisabled, "Disable table output")
	fs.BoolVar(&cfg.Outputs.JSON, "json", cfg.Outputs.JSON, "Write the summary as JSON to the output directory")

	fs.IntVarP(&cfg.Resilience.MaxRetries, "retries", "r", cfg.Resilience.MaxRetries, "Max HTTP retries")
	fs.BoolVar(&cfg.Resilience.CircuitBreakerEnabled, "circuit-breaker", cfg.Resilience.CircuitBreakerEnabled, "Enable per-source circuit breaker")

	fs.BoolVar(&cfg.Links.Check, "check-links", cfg.Links.Check, "Run the link checker instead of a sweep")
	fs.IntVar(&cfg.Links.Concurrency, "link-workers", cfg.Links.Concurrency, "Concurrent link probes")

	fs.StringVar(&cfg.Schedule, "schedule", cfg.Schedule, "Cron expression for recurring sweeps")
	fs.StringVar(&cfg.LinkSchedule, "link-schedule", cfg.LinkSchedule, "Cron expression for recurring link checks")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Serve Prometheus metrics on this address")

	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: console or json")

	fs.BoolVarP(&cfg.PrintVersion, "version", "v", false, "Print version and exit")
	fs.BoolVarP(&cfg.ShowHelp, "help", "h", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.Approval = domain.ParseApprovalPolicy(*approval)
	return nil
}

func normalize(c *Config) {
	c.SourcesFile = strings.TrimSpace(c.SourcesFile)
	if c.Workers < 1 {
		c.Workers = 1
	}
	c.Scheduler = strings.ToLower(strings.TrimSpace(c.Scheduler))
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 30 * time.Second
	}
	if c.ItemTimeout <= 0 {
		c.ItemTimeout = 10 * time.Second
	}
	if c.SweepTimeout < 0 {
		c.SweepTimeout = 0
	}
	if c.OutputDir == "" {
		c.OutputDir = "oppsync_out"
	}
	if c.HTTP.RatePerHost < 0 {
		c.HTTP.RatePerHost = 0
	}
	if c.HTTP.Burst < 1 {
		c.HTTP.Burst = 1
	}
	if c.Resilience.MaxRetries < 0 {
		c.Resilience.MaxRetries = 0
	}
	if c.Resilience.BackoffBase < 0 {
		c.Resilience.BackoffBase = 1 * time.Second
	}
	if c.Resilience.BackoffMultiplier < 1.0 {
		c.Resilience.BackoffMultiplier = 2.0
	}
	if c.Links.Concurrency < 1 {
		c.Links.Concurrency = 1
	}
}

// ToJSON serializes the configuration (debug output).
func (c Config) ToJSON() (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Scheduled reports whether the binary should stay up and run on a cron schedule.
func (c Config) Scheduled() bool {
	return c.Schedule != "" || c.LinkSchedule != ""
}

// Helpers

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return def
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt(v string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return i
}

// parseDuration accepts Go durations ("45s") or bare seconds ("45").
func parseDuration(v string, def time.Duration) time.Duration {
	v = strings.TrimSpace(v)
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if i, err := strconv.Atoi(v); err == nil {
		return time.Duration(i) * time.Second
	}
	return def
}
