package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pscheid92/watchlist/internal/metrics"
	apperrors "github.com/pscheid92/watchlist/internal/platform/errors"
)

const notConfiguredMessage = "database is not configured; set DATABASE_URL, DATABASE_USER and DATABASE_PASSWORD"

// Reader is the read-only subset of a database handle.
type Reader interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Querier is satisfied by *pgxpool.Conn and pgx.Tx, so statements run the
// same way inside and outside a transaction.
type Querier interface {
	Reader
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type mode string

const (
	modeRead        mode = "read"
	modeWrite       mode = "write"
	modeTransaction mode = "transaction"
)

// Read runs op on a pooled connection without a transaction. The connection
// is released on every path.
func Read[T any](ctx context.Context, db *DB, action string, op func(ctx context.Context, r Reader) (T, error)) (T, error) {
	return run(ctx, db, modeRead, action, func(ctx context.Context) (T, error) {
		conn, err := db.pool.Acquire(ctx)
		if err != nil {
			var zero T
			return zero, err
		}
		defer conn.Release()

		return op(ctx, conn)
	})
}

// Write runs op inside a transaction that commits when op returns nil and
// rolls back otherwise, including when op panics.
func Write[T any](ctx context.Context, db *DB, action string, op func(ctx context.Context, w Querier) (T, error)) (T, error) {
	return run(ctx, db, modeWrite, action, func(ctx context.Context) (T, error) {
		return inTx(ctx, db, func(ctx context.Context, tx pgx.Tx) (T, error) {
			return op(ctx, tx)
		})
	})
}

// Transaction is Write for operations that mix reads and writes. Both
// handles are bound to the same transaction.
func Transaction[T any](ctx context.Context, db *DB, action string, op func(ctx context.Context, r Reader, w Querier) (T, error)) (T, error) {
	return run(ctx, db, modeTransaction, action, func(ctx context.Context) (T, error) {
		return inTx(ctx, db, func(ctx context.Context, tx pgx.Tx) (T, error) {
			return op(ctx, tx, tx)
		})
	})
}

func inTx[T any](ctx context.Context, db *DB, fn func(ctx context.Context, tx pgx.Tx) (T, error)) (T, error) {
	var zero T

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return zero, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	result, err := fn(ctx, tx)
	if err != nil {
		return zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return zero, err
	}
	return result, nil
}

func run[T any](ctx context.Context, db *DB, m mode, action string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if !db.Configured() {
		metrics.StoreOperationsTotal.WithLabelValues(string(m), "not_configured").Inc()
		return zero, apperrors.NotConfiguredError(notConfiguredMessage)
	}

	ctx, cancel := context.WithTimeout(ctx, db.timeout)
	defer cancel()

	start := time.Now()
	result, err := fn(ctx)
	metrics.StoreOperationDuration.WithLabelValues(string(m)).Observe(time.Since(start).Seconds())

	if err != nil {
		classified := classify(action, err)
		metrics.StoreOperationsTotal.WithLabelValues(string(m), string(classified.Type)).Inc()
		slog.WarnContext(ctx, "database operation failed", "mode", m, "action", action, "type", classified.Type, "error", classified.Message)
		return zero, classified
	}

	metrics.StoreOperationsTotal.WithLabelValues(string(m), "success").Inc()
	return result, nil
}

func classify(action string, err error) *apperrors.Error {
	var structured *apperrors.Error
	if errors.As(err, &structured) {
		return apperrors.AsStructuredError(err)
	}
	return apperrors.OperationError(action, err)
}
