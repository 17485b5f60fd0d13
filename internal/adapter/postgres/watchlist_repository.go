package postgres

import (
	"context"
	"fmt"

	"github.com/pscheid92/watchlist/internal/domain"
	apperrors "github.com/pscheid92/watchlist/internal/platform/errors"
)

const (
	insertWatchlistSQL = `
		INSERT INTO watchlists (name, description)
		VALUES ($1, $2)
		RETURNING ` + watchlistColumns

	getWatchlistByIDSQL = `
		SELECT ` + watchlistColumns + `
		FROM watchlists
		WHERE id = $1
		LIMIT 1`

	getWatchlistByNameSQL = `
		SELECT ` + watchlistColumns + `
		FROM watchlists
		WHERE name = $1
		LIMIT 1`

	listWatchlistsSQL = `
		SELECT ` + watchlistColumns + `
		FROM watchlists
		ORDER BY id
		LIMIT $1`

	updateWatchlistSQL = `
		UPDATE watchlists
		SET
			name = CASE WHEN $2::boolean THEN $3::text ELSE name END,
			description = CASE WHEN $4::boolean THEN $5::text ELSE description END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + watchlistColumns

	deleteWatchlistSQL = `DELETE FROM watchlists WHERE id = $1`
)

type WatchlistRepo struct {
	db *DB
}

var _ domain.WatchlistRepository = (*WatchlistRepo)(nil)

// NewWatchlistRepo returns a repository for the watchlists table.
func NewWatchlistRepo(db *DB) *WatchlistRepo {
	return &WatchlistRepo{db: db}
}

type watchlistResult struct {
	watchlist domain.Watchlist
	found     bool
}

func (r *WatchlistRepo) Create(ctx context.Context, input domain.CreateWatchlistInput) (domain.Watchlist, error) {
	return Write(ctx, r.db, "create watchlist", func(ctx context.Context, w Querier) (domain.Watchlist, error) {
		return scanWatchlist(w.QueryRow(ctx, insertWatchlistSQL, input.Name, input.Description))
	})
}

func (r *WatchlistRepo) GetByID(ctx context.Context, watchlistID int64) (domain.Watchlist, bool, error) {
	return r.get(ctx, fmt.Sprintf("get watchlist by id '%d'", watchlistID), getWatchlistByIDSQL, watchlistID)
}

func (r *WatchlistRepo) GetByName(ctx context.Context, name string) (domain.Watchlist, bool, error) {
	return r.get(ctx, fmt.Sprintf("get watchlist by name '%s'", name), getWatchlistByNameSQL, name)
}

func (r *WatchlistRepo) get(ctx context.Context, action, sql string, arg any) (domain.Watchlist, bool, error) {
	res, err := Read(ctx, r.db, action, func(ctx context.Context, rd Reader) (watchlistResult, error) {
		w, found, err := scanOptional(rd.QueryRow(ctx, sql, arg), scanWatchlist)
		return watchlistResult{w, found}, err
	})
	return res.watchlist, res.found, err
}

func (r *WatchlistRepo) List(ctx context.Context, limit int) ([]domain.Watchlist, error) {
	return Read(ctx, r.db, "list watchlists", func(ctx context.Context, rd Reader) ([]domain.Watchlist, error) {
		rows, err := rd.Query(ctx, listWatchlistsSQL, normalizeLimit(limit))
		if err != nil {
			return nil, err
		}
		return collect(rows, scanWatchlist)
	})
}

func (r *WatchlistRepo) Update(ctx context.Context, watchlistID int64, update domain.WatchlistUpdate) (domain.Watchlist, bool, error) {
	if update.Fields.Len() == 0 {
		return domain.Watchlist{}, false, apperrors.ValidationError("no fields to update")
	}
	if update.Fields.Has(domain.WatchlistFieldName) && update.Name == nil {
		return domain.Watchlist{}, false, apperrors.ValidationError("name cannot be null")
	}

	res, err := Write(ctx, r.db, fmt.Sprintf("update watchlist '%d'", watchlistID), func(ctx context.Context, w Querier) (watchlistResult, error) {
		row := w.QueryRow(ctx, updateWatchlistSQL, watchlistID,
			update.Fields.Has(domain.WatchlistFieldName), update.Name,
			update.Fields.Has(domain.WatchlistFieldDescription), update.Description,
		)
		wl, found, err := scanOptional(row, scanWatchlist)
		return watchlistResult{wl, found}, err
	})
	return res.watchlist, res.found, err
}

func (r *WatchlistRepo) Delete(ctx context.Context, watchlistID int64) (bool, error) {
	return deleteRows(ctx, r.db, fmt.Sprintf("delete watchlist '%d'", watchlistID), deleteWatchlistSQL, watchlistID)
}
