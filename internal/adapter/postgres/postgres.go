package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pscheid92/watchlist/internal/metrics"
	apperrors "github.com/pscheid92/watchlist/internal/platform/errors"
)

// DefaultStatementTimeout applies when Config.StatementTimeout is not positive.
const DefaultStatementTimeout = 5 * time.Second

// reasonInvalidConfig is set as Context["reason"] on configuration errors so
// callers can tell them apart from a deliberately unconfigured database.
const reasonInvalidConfig = "invalid_config"

const expectedURLFormat = "postgres://<user>:<password>@<host>:<port>/<db>?sslmode=require"

// Config holds the connection settings. User and Password override the
// userinfo embedded in URL when set.
type Config struct {
	URL              string
	User             string
	Password         string
	StatementTimeout time.Duration
}

// DB is either configured (backed by a pool) or unconfigured. An unconfigured
// DB fails every operation with a not_configured error instead of touching
// the network. A DB is immutable after construction.
type DB struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewUnconfigured returns a DB that rejects every operation as not configured.
func NewUnconfigured() *DB {
	return &DB{timeout: DefaultStatementTimeout}
}

// Open builds the pool lazily: no connection is made until the first
// operation, so an unreachable database does not prevent startup.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	rawURL := strings.TrimSpace(cfg.URL)
	if rawURL == "" {
		slog.Warn("Database URL not set, persistence layer is unconfigured")
		return NewUnconfigured(), nil
	}

	u, err := parseURL(rawURL)
	if err != nil {
		return nil, err
	}

	if !hasUser(u, cfg.User) {
		slog.Warn("Database user not set, persistence layer is unconfigured")
		return NewUnconfigured(), nil
	}

	timeout := cfg.StatementTimeout
	if timeout <= 0 {
		timeout = DefaultStatementTimeout
	}

	poolCfg, err := pgxpool.ParseConfig(rawURL)
	if err != nil {
		return nil, invalidConfig(fmt.Sprintf("invalid DATABASE_URL: %s", err.Error()))
	}
	if user := strings.TrimSpace(cfg.User); user != "" {
		poolCfg.ConnConfig.User = user
	}
	if cfg.Password != "" {
		poolCfg.ConnConfig.Password = cfg.Password
	}
	poolCfg.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(timeout.Milliseconds(), 10)
	poolCfg.ConnConfig.Tracer = &MetricsTracer{}
	poolCfg.AfterConnect = registerTypes

	slog.Info("Database SSL mode", "sslmode", extractSSLMode(rawURL))

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, invalidConfig(fmt.Sprintf("failed to create connection pool: %s", err.Error()))
	}

	slog.Info("Database pool created", "host", poolCfg.ConnConfig.Host, "max_conns", poolCfg.MaxConns, "statement_timeout", timeout)
	return &DB{pool: pool, timeout: timeout}, nil
}

// invalidConfig marks a present but unusable configuration, as opposed to the
// inert state of a missing one.
func invalidConfig(message string) *apperrors.Error {
	return apperrors.NotConfiguredError(message).WithContext("reason", reasonInvalidConfig)
}

// parseURL rejects anything that is not a well-formed postgres URL. The parse
// error itself is dropped because it echoes the raw URL.
func parseURL(rawURL string) (*url.URL, error) {
	lower := strings.ToLower(rawURL)
	if strings.HasPrefix(lower, "jdbc:") {
		return nil, invalidConfig("invalid DATABASE_URL: drop the 'jdbc:' prefix and use " + expectedURLFormat)
	}
	if !strings.HasPrefix(lower, "postgres://") && !strings.HasPrefix(lower, "postgresql://") {
		return nil, invalidConfig("invalid DATABASE_URL: expected format " + expectedURLFormat)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, invalidConfig("invalid DATABASE_URL: malformed URL, expected format " + expectedURLFormat)
	}
	return u, nil
}

func hasUser(u *url.URL, user string) bool {
	if strings.TrimSpace(user) != "" {
		return true
	}
	return u.User != nil && u.User.Username() != ""
}

func extractSSLMode(databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "unknown"
	}
	mode := strings.ToLower(u.Query().Get("sslmode"))
	if mode == "" {
		return "prefer (default)"
	}
	return mode
}

// registerTypes binds text[] to []string on every new connection so tag
// columns decode into plain slices.
func registerTypes(_ context.Context, conn *pgx.Conn) error {
	tm := conn.TypeMap()
	textType, ok := tm.TypeForOID(pgtype.TextOID)
	if !ok {
		return fmt.Errorf("text type not registered")
	}
	tm.RegisterType(&pgtype.Type{
		Name:  "_text",
		OID:   pgtype.TextArrayOID,
		Codec: &pgtype.ArrayCodec{ElementType: textType},
	})
	tm.RegisterDefaultPgType([]string{}, "_text")
	return nil
}

// Configured reports whether db is backed by a connection pool.
func (db *DB) Configured() bool {
	return db != nil && db.pool != nil
}

// Close releases the pool. It is a no-op on an unconfigured DB.
func (db *DB) Close() {
	if db.Configured() {
		db.pool.Close()
	}
}

// RecordPoolStats publishes the current pool occupancy.
func (db *DB) RecordPoolStats() {
	if !db.Configured() {
		return
	}
	stat := db.pool.Stat()
	metrics.DBConnectionsCurrent.WithLabelValues("active").Set(float64(stat.AcquiredConns()))
	metrics.DBConnectionsCurrent.WithLabelValues("idle").Set(float64(stat.IdleConns()))
	metrics.DBConnectionsCurrent.WithLabelValues("total").Set(float64(stat.TotalConns()))
}
