// Command tablecheck probes the watchlist tables once and exits non-zero if
// any of them cannot be read.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/pscheid92/watchlist/internal/adapter/postgres"
	"github.com/pscheid92/watchlist/internal/domain"
	"github.com/pscheid92/watchlist/internal/platform/config"
	"github.com/pscheid92/watchlist/internal/platform/logging"
	"github.com/pscheid92/watchlist/internal/platform/retry"
)

var errUnreachable = errors.New("database unreachable")

type prober interface {
	Configured() bool
	CheckConnection(ctx context.Context) bool
	CheckTablesAccess(ctx context.Context, tableNames ...string) []domain.TableAccessStatus
}

func main() {
	var (
		wait     = flag.Duration("wait", 0, "Keep retrying the connection for up to this long before probing")
		jsonOut  = flag.Bool("json", false, "Print statuses as JSON")
		verbose  = flag.Bool("verbose", false, "Verbose logging")
		attempts = flag.Int("attempts", 10, "Maximum connection attempts when --wait is set")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	level := cfg.LogLevel
	if *verbose {
		level = "debug"
	}
	logging.InitLogger(level, cfg.LogFormat)

	ctx := context.Background()
	db, err := postgres.Open(ctx, cfg.Database())
	if err != nil {
		log.Fatalf("Invalid database configuration: %v", err)
	}
	defer db.Close()

	os.Exit(run(ctx, db, os.Stdout, options{
		tables:   flag.Args(),
		wait:     *wait,
		attempts: *attempts,
		json:     *jsonOut,
	}))
}

type options struct {
	tables   []string
	wait     time.Duration
	attempts int
	json     bool
}

func run(ctx context.Context, db prober, out io.Writer, opts options) int {
	if !db.Configured() {
		fmt.Fprintln(out, "database is not configured; set DATABASE_URL, DATABASE_USER and DATABASE_PASSWORD")
		return 1
	}

	if opts.wait > 0 {
		if err := waitForConnection(ctx, db, opts); err != nil {
			fmt.Fprintf(out, "database unreachable: %v\n", err)
			return 1
		}
	}

	statuses := db.CheckTablesAccess(ctx, opts.tables...)
	if err := printStatuses(out, statuses, opts.json); err != nil {
		slog.Error("Failed to print statuses", "error", err)
		return 1
	}

	if !domain.AllAccessible(statuses) {
		return 1
	}
	return 0
}

func waitForConnection(ctx context.Context, db prober, opts options) error {
	ctx, cancel := context.WithTimeout(ctx, opts.wait)
	defer cancel()

	policy := retry.Policy{
		MaxAttempts:    max(opts.attempts, 1),
		InitialBackoff: 250 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			slog.Info("Waiting for database", "attempt", attempt, "backoff", backoff)
		},
	}
	classify := func(error) retry.Action { return retry.Retry }

	return retry.DoVoid(ctx, policy, classify, func() error {
		if !db.CheckConnection(ctx) {
			return errUnreachable
		}
		return nil
	})
}

func printStatuses(out io.Writer, statuses []domain.TableAccessStatus, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(statuses)
	}

	for _, s := range statuses {
		var err error
		switch {
		case s.Accessible:
			_, err = fmt.Fprintf(out, "ok    %-24s sample=%d\n", s.TableName, *s.SampleRowCount)
		default:
			_, err = fmt.Fprintf(out, "FAIL  %-24s %s\n", s.TableName, s.Error)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
