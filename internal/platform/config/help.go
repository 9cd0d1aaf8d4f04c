// internal/platform/config/help.go
package config

import (
	"fmt"
	"io"
	"runtime"
)

const helpText = `
oppsync - opportunity listing ingestion

USAGE:
  oppsync [options]

CORE OPTIONS:
  -s, --sources string       Source descriptor file (default: "sources.yaml")
      --db string            SQLite database path (default: "oppsync.db")
      --dry-run              Use an in-memory store, nothing is persisted
  -w, --workers int          Concurrent source fetches (default: 4)
      --scheduler string     Fetch order: priority, weighted, fifo (default: priority)
  -T, --timeout duration     Timeout of a whole sweep, 0=none (default: 30m)
      --fetch-timeout dur    Timeout per source fetch (default: 30s)
      --item-timeout dur     Timeout per reconciled item (default: 10s)
      --approval string      auto (approve when an application URL resolves) or manual

OUTPUT OPTIONS:
  -o, --out string           Output directory (default: "oppsync_out")
  -q, --no-table             Disable table output
      --json                 Write the sweep summary as JSON

NETWORK OPTIONS:
      --user-agent string    HTTP User-Agent
      --rate float           Requests per second per site, 0=unlimited (default: 2)
  -r, --retries int          Max HTTP retries (default: 2)
      --circuit-breaker      Skip sources that keep failing (default: true)

LINK CHECKER:
      --check-links          Probe application URLs instead of sweeping
      --link-workers int     Concurrent probes (default: 4)

SCHEDULING:
      --schedule string      Cron expression, e.g. "0 */6 * * *"
      --link-schedule string Cron expression for link checks
      --metrics-addr string  Serve Prometheus metrics, e.g. ":9090"

LOGGING:
      --log-level string     debug, info, warn, error (default: info)
      --log-format string    console or json

INFO:
  -v, --version              Print version information and exit
  -h, --help                 Show this help message

SOURCES:
  Descriptors are read from the sources file, then from the JSON array in
  OPP_SOURCES_JSON. Kinds: feed, api, markup, tabular (rss, json, html and
  csv are accepted as aliases).

ENVIRONMENT VARIABLES:
  OPPSYNC_SOURCES_FILE, OPPSYNC_DB_PATH, OPPSYNC_WORKERS, OPPSYNC_SCHEDULER,
  OPPSYNC_APPROVAL,
  OPPSYNC_FETCH_TIMEOUT, OPPSYNC_ITEM_TIMEOUT, OPPSYNC_SWEEP_TIMEOUT,
  OPPSYNC_USER_AGENT, OPPSYNC_RATE_PER_HOST, OPPSYNC_OUTPUT_DIR,
  OPPSYNC_SCHEDULE, OPPSYNC_LINK_SCHEDULE, OPPSYNC_METRICS_ADDR,
  OPPSYNC_LOG_LEVEL, OPPSYNC_LOG_FORMAT

  .env.local and .env are loaded first (or the file named by ENV_FILE).
  CLI flags override environment variables.

EXIT CODES:
  0  sweep completed, every source succeeded or had no items
  1  at least one source failed
  2  configuration or source validation error
`

// PrintHelp writes the help message.
func PrintHelp(w io.Writer) {
	fmt.Fprint(w, helpText)
}

// PrintVersion writes version information.
func PrintVersion(w io.Writer, version, commit, date string) {
	fmt.Fprintf(w, "oppsync %s\n", version)
	fmt.Fprintf(w, "  Commit:  %s\n", commit)
	fmt.Fprintf(w, "  Built:   %s\n", date)
	fmt.Fprintf(w, "  Go:      %s\n", runtime.Version())
}
