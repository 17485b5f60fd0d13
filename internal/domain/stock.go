package domain

import (
	"context"
	"time"
)

type Stock struct {
	ID          int64
	NSESymbol   string
	CompanyName string
	GrowwSymbol *string
	KiteSymbol  *string
	Description *string
	Rating      *int16
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateStockInput struct {
	NSESymbol   string
	CompanyName string
	GrowwSymbol *string
	KiteSymbol  *string
	Description *string
	Rating      *int16
	Tags        []string
}

// StockField names a mutable stock column. NSESymbol is the lookup key and
// cannot be changed through an update.
type StockField int

const (
	StockFieldCompanyName StockField = iota
	StockFieldGrowwSymbol
	StockFieldKiteSymbol
	StockFieldDescription
	StockFieldRating
	StockFieldTags
)

func (f StockField) String() string {
	switch f {
	case StockFieldCompanyName:
		return "company_name"
	case StockFieldGrowwSymbol:
		return "groww_symbol"
	case StockFieldKiteSymbol:
		return "kite_symbol"
	case StockFieldDescription:
		return "description"
	case StockFieldRating:
		return "rating"
	case StockFieldTags:
		return "tags"
	default:
		return "unknown"
	}
}

// StockUpdate is a partial update. Only fields listed in Fields are written.
// A nil Tags slice with StockFieldTags set writes NULL, which reads back as
// an empty tag list.
type StockUpdate struct {
	Fields      FieldSet[StockField]
	CompanyName *string
	GrowwSymbol *string
	KiteSymbol  *string
	Description *string
	Rating      *int16
	Tags        []string
}

type StockRepository interface {
	Create(ctx context.Context, input CreateStockInput) (Stock, error)
	GetByID(ctx context.Context, stockID int64) (Stock, bool, error)
	GetByNSESymbol(ctx context.Context, nseSymbol string) (Stock, bool, error)
	List(ctx context.Context, limit int) ([]Stock, error)
	Update(ctx context.Context, stockID int64, update StockUpdate) (Stock, bool, error)
	Delete(ctx context.Context, stockID int64) (bool, error)
}
