package domain

import (
	"context"
	"time"
)

type Watchlist struct {
	ID          int64
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateWatchlistInput struct {
	Name        string
	Description *string
}

type WatchlistField int

const (
	WatchlistFieldName WatchlistField = iota
	WatchlistFieldDescription
)

func (f WatchlistField) String() string {
	switch f {
	case WatchlistFieldName:
		return "name"
	case WatchlistFieldDescription:
		return "description"
	default:
		return "unknown"
	}
}

type WatchlistUpdate struct {
	Fields      FieldSet[WatchlistField]
	Name        *string
	Description *string
}

type WatchlistRepository interface {
	Create(ctx context.Context, input CreateWatchlistInput) (Watchlist, error)
	GetByID(ctx context.Context, watchlistID int64) (Watchlist, bool, error)
	GetByName(ctx context.Context, name string) (Watchlist, bool, error)
	List(ctx context.Context, limit int) ([]Watchlist, error)
	Update(ctx context.Context, watchlistID int64, update WatchlistUpdate) (Watchlist, bool, error)
	Delete(ctx context.Context, watchlistID int64) (bool, error)
}
