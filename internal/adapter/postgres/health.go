package postgres

import (
	"context"
	"fmt"
	"regexp"

	"github.com/pscheid92/watchlist/internal/domain"
	apperrors "github.com/pscheid92/watchlist/internal/platform/errors"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var _ domain.DatabaseProbe = (*DB)(nil)

// CheckConnection reports whether a trivial query succeeds. Unconfigured
// databases report false.
func (db *DB) CheckConnection(ctx context.Context) bool {
	_, err := Read(ctx, db, "check connection", func(ctx context.Context, r Reader) (int, error) {
		var one int
		err := r.QueryRow(ctx, "SELECT 1").Scan(&one)
		return one, err
	})
	return err == nil
}

// CheckTablesAccess probes each table with a bounded sample query. It never
// fails as a whole: every problem is reported on the table's status. With no
// names it probes domain.DefaultTables.
func (db *DB) CheckTablesAccess(ctx context.Context, tableNames ...string) []domain.TableAccessStatus {
	if len(tableNames) == 0 {
		tableNames = domain.DefaultTables
	}

	statuses := make([]domain.TableAccessStatus, 0, len(tableNames))
	for _, name := range tableNames {
		statuses = append(statuses, db.checkTable(ctx, name))
	}
	return statuses
}

func (db *DB) checkTable(ctx context.Context, name string) domain.TableAccessStatus {
	if !identifierPattern.MatchString(name) {
		err := apperrors.ValidationError(fmt.Sprintf("invalid table name '%s'", name))
		return domain.TableAccessStatus{TableName: name, Error: err.Message}
	}

	// name is a validated identifier, so quoting it is safe.
	sql := fmt.Sprintf(`SELECT COUNT(*) AS sample_count FROM (SELECT 1 FROM "%s" LIMIT 1) AS sample`, name)
	count, err := Read(ctx, db, fmt.Sprintf("check table access for '%s'", name), func(ctx context.Context, r Reader) (int, error) {
		var n int
		err := r.QueryRow(ctx, sql).Scan(&n)
		return n, err
	})
	if err != nil {
		return domain.TableAccessStatus{TableName: name, Error: apperrors.AsStructuredError(err).Message}
	}
	return domain.TableAccessStatus{TableName: name, Accessible: true, SampleRowCount: &count}
}
