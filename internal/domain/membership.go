package domain

import (
	"context"
	"time"
)

// WatchlistStock records that a stock belongs to a watchlist. The pair
// (WatchlistID, StockID) is the identity; the database rejects duplicates.
type WatchlistStock struct {
	WatchlistID int64
	StockID     int64
	Notes       *string
	CreatedAt   time.Time
}

type CreateWatchlistStockInput struct {
	WatchlistID int64
	StockID     int64
	Notes       *string
}

type WatchlistStockField int

const (
	WatchlistStockFieldNotes WatchlistStockField = iota
)

func (f WatchlistStockField) String() string {
	if f == WatchlistStockFieldNotes {
		return "notes"
	}
	return "unknown"
}

type WatchlistStockUpdate struct {
	Fields FieldSet[WatchlistStockField]
	Notes  *string
}

type WatchlistStockRepository interface {
	Create(ctx context.Context, input CreateWatchlistStockInput) (WatchlistStock, error)
	Get(ctx context.Context, watchlistID, stockID int64) (WatchlistStock, bool, error)
	ListForWatchlist(ctx context.Context, watchlistID int64) ([]WatchlistStock, error)
	Update(ctx context.Context, watchlistID, stockID int64, update WatchlistStockUpdate) (WatchlistStock, bool, error)
	Delete(ctx context.Context, watchlistID, stockID int64) (bool, error)
}
