package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pscheid92/watchlist/internal/domain"
)

const (
	stockColumns          = "id, nse_symbol, company_name, groww_symbol, kite_symbol, description, rating, tags, created_at, updated_at"
	watchlistColumns      = "id, name, description, created_at, updated_at"
	watchlistStockColumns = "watchlist_id, stock_id, notes, created_at"
)

// rowScanner is satisfied by pgx.Row and pgx.CollectableRow.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanStock(row rowScanner) (domain.Stock, error) {
	var (
		s                             domain.Stock
		growwSymbol, kiteSymbol, desc pgtype.Text
		rating                        pgtype.Int2
		tags                          []string
		createdAt, updatedAt          pgtype.Timestamptz
	)

	err := row.Scan(&s.ID, &s.NSESymbol, &s.CompanyName, &growwSymbol, &kiteSymbol, &desc, &rating, &tags, &createdAt, &updatedAt)
	if err != nil {
		return domain.Stock{}, err
	}

	s.GrowwSymbol = textPtr(growwSymbol)
	s.KiteSymbol = textPtr(kiteSymbol)
	s.Description = textPtr(desc)
	s.Rating = int2Ptr(rating)
	s.Tags = tags
	if s.Tags == nil {
		s.Tags = []string{}
	}

	if s.CreatedAt, err = requireTimestamp("created_at", createdAt); err != nil {
		return domain.Stock{}, err
	}
	if s.UpdatedAt, err = requireTimestamp("updated_at", updatedAt); err != nil {
		return domain.Stock{}, err
	}
	return s, nil
}

func scanWatchlist(row rowScanner) (domain.Watchlist, error) {
	var (
		w                    domain.Watchlist
		desc                 pgtype.Text
		createdAt, updatedAt pgtype.Timestamptz
	)

	if err := row.Scan(&w.ID, &w.Name, &desc, &createdAt, &updatedAt); err != nil {
		return domain.Watchlist{}, err
	}

	w.Description = textPtr(desc)

	var err error
	if w.CreatedAt, err = requireTimestamp("created_at", createdAt); err != nil {
		return domain.Watchlist{}, err
	}
	if w.UpdatedAt, err = requireTimestamp("updated_at", updatedAt); err != nil {
		return domain.Watchlist{}, err
	}
	return w, nil
}

func scanWatchlistStock(row rowScanner) (domain.WatchlistStock, error) {
	var (
		ws        domain.WatchlistStock
		notes     pgtype.Text
		createdAt pgtype.Timestamptz
	)

	if err := row.Scan(&ws.WatchlistID, &ws.StockID, &notes, &createdAt); err != nil {
		return domain.WatchlistStock{}, err
	}

	ws.Notes = textPtr(notes)

	var err error
	if ws.CreatedAt, err = requireTimestamp("created_at", createdAt); err != nil {
		return domain.WatchlistStock{}, err
	}
	return ws, nil
}

// scanOptional maps pgx.ErrNoRows to absence.
func scanOptional[T any](row pgx.Row, scan func(rowScanner) (T, error)) (T, bool, error) {
	v, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		var zero T
		return zero, false, nil
	}
	if err != nil {
		var zero T
		return zero, false, err
	}
	return v, true, nil
}

// collect drains rows through scan. pgx.CollectRows closes rows on every path.
func collect[T any](rows pgx.Rows, scan func(rowScanner) (T, error)) ([]T, error) {
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (T, error) {
		return scan(row)
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func int2Ptr(i pgtype.Int2) *int16 {
	if !i.Valid {
		return nil
	}
	v := i.Int16
	return &v
}

func requireTimestamp(column string, ts pgtype.Timestamptz) (time.Time, error) {
	if !ts.Valid {
		return time.Time{}, fmt.Errorf("unexpected null timestamp in column %s", column)
	}
	if ts.InfinityModifier != pgtype.Finite {
		return time.Time{}, fmt.Errorf("unexpected infinite timestamp in column %s", column)
	}
	return ts.Time.UTC(), nil
}
