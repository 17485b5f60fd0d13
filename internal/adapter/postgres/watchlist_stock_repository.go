package postgres

import (
	"context"
	"fmt"

	"github.com/pscheid92/watchlist/internal/domain"
	apperrors "github.com/pscheid92/watchlist/internal/platform/errors"
)

const (
	// No ON CONFLICT: a duplicate pair surfaces as an operation error.
	insertWatchlistStockSQL = `
		INSERT INTO watchlist_stocks (watchlist_id, stock_id, notes)
		VALUES ($1, $2, $3)
		RETURNING ` + watchlistStockColumns

	getWatchlistStockSQL = `
		SELECT ` + watchlistStockColumns + `
		FROM watchlist_stocks
		WHERE watchlist_id = $1 AND stock_id = $2
		LIMIT 1`

	listWatchlistStocksSQL = `
		SELECT ` + watchlistStockColumns + `
		FROM watchlist_stocks
		WHERE watchlist_id = $1
		ORDER BY created_at DESC`

	updateWatchlistStockSQL = `
		UPDATE watchlist_stocks
		SET notes = CASE WHEN $3::boolean THEN $4::text ELSE notes END
		WHERE watchlist_id = $1 AND stock_id = $2
		RETURNING ` + watchlistStockColumns

	deleteWatchlistStockSQL = `DELETE FROM watchlist_stocks WHERE watchlist_id = $1 AND stock_id = $2`
)

type WatchlistStockRepo struct {
	db *DB
}

var _ domain.WatchlistStockRepository = (*WatchlistStockRepo)(nil)

// NewWatchlistStockRepo returns a repository for watchlist memberships.
func NewWatchlistStockRepo(db *DB) *WatchlistStockRepo {
	return &WatchlistStockRepo{db: db}
}

type membershipResult struct {
	membership domain.WatchlistStock
	found      bool
}

func mappingKey(watchlistID, stockID int64) string {
	return fmt.Sprintf("%d:%d", watchlistID, stockID)
}

func (r *WatchlistStockRepo) Create(ctx context.Context, input domain.CreateWatchlistStockInput) (domain.WatchlistStock, error) {
	return Write(ctx, r.db, "create watchlist stock mapping", func(ctx context.Context, w Querier) (domain.WatchlistStock, error) {
		row := w.QueryRow(ctx, insertWatchlistStockSQL, input.WatchlistID, input.StockID, input.Notes)
		return scanWatchlistStock(row)
	})
}

func (r *WatchlistStockRepo) Get(ctx context.Context, watchlistID, stockID int64) (domain.WatchlistStock, bool, error) {
	action := fmt.Sprintf("get watchlist stock mapping '%s'", mappingKey(watchlistID, stockID))
	res, err := Read(ctx, r.db, action, func(ctx context.Context, rd Reader) (membershipResult, error) {
		ws, found, err := scanOptional(rd.QueryRow(ctx, getWatchlistStockSQL, watchlistID, stockID), scanWatchlistStock)
		return membershipResult{ws, found}, err
	})
	return res.membership, res.found, err
}

// ListForWatchlist returns memberships newest first.
func (r *WatchlistStockRepo) ListForWatchlist(ctx context.Context, watchlistID int64) ([]domain.WatchlistStock, error) {
	action := fmt.Sprintf("list stocks for watchlist '%d'", watchlistID)
	return Read(ctx, r.db, action, func(ctx context.Context, rd Reader) ([]domain.WatchlistStock, error) {
		rows, err := rd.Query(ctx, listWatchlistStocksSQL, watchlistID)
		if err != nil {
			return nil, err
		}
		return collect(rows, scanWatchlistStock)
	})
}

func (r *WatchlistStockRepo) Update(ctx context.Context, watchlistID, stockID int64, update domain.WatchlistStockUpdate) (domain.WatchlistStock, bool, error) {
	if update.Fields.Len() == 0 {
		return domain.WatchlistStock{}, false, apperrors.ValidationError("no fields to update")
	}

	action := fmt.Sprintf("update watchlist stock mapping '%s'", mappingKey(watchlistID, stockID))
	res, err := Write(ctx, r.db, action, func(ctx context.Context, w Querier) (membershipResult, error) {
		row := w.QueryRow(ctx, updateWatchlistStockSQL, watchlistID, stockID,
			update.Fields.Has(domain.WatchlistStockFieldNotes), update.Notes)
		ws, found, err := scanOptional(row, scanWatchlistStock)
		return membershipResult{ws, found}, err
	})
	return res.membership, res.found, err
}

func (r *WatchlistStockRepo) Delete(ctx context.Context, watchlistID, stockID int64) (bool, error) {
	action := fmt.Sprintf("delete watchlist stock mapping '%s'", mappingKey(watchlistID, stockID))
	return deleteRows(ctx, r.db, action, deleteWatchlistStockSQL, watchlistID, stockID)
}
