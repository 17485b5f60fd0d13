package postgres

import (
	"context"
	"fmt"

	"github.com/pscheid92/watchlist/internal/domain"
	apperrors "github.com/pscheid92/watchlist/internal/platform/errors"
)

// DefaultListLimit is applied when List is called with a non-positive limit.
const DefaultListLimit = 200

const (
	insertStockSQL = `
		INSERT INTO stocks (nse_symbol, company_name, groww_symbol, kite_symbol, description, rating, tags)
		VALUES ($1, $2, $3, $4, $5, $6::smallint, $7::text[])
		RETURNING ` + stockColumns

	getStockByIDSQL = `
		SELECT ` + stockColumns + `
		FROM stocks
		WHERE id = $1
		LIMIT 1`

	getStockByNSESymbolSQL = `
		SELECT ` + stockColumns + `
		FROM stocks
		WHERE nse_symbol = $1
		LIMIT 1`

	listStocksSQL = `
		SELECT ` + stockColumns + `
		FROM stocks
		ORDER BY id
		LIMIT $1`

	updateStockSQL = `
		UPDATE stocks
		SET
			company_name = CASE WHEN $2::boolean THEN $3::text ELSE company_name END,
			groww_symbol = CASE WHEN $4::boolean THEN $5::text ELSE groww_symbol END,
			kite_symbol = CASE WHEN $6::boolean THEN $7::text ELSE kite_symbol END,
			description = CASE WHEN $8::boolean THEN $9::text ELSE description END,
			rating = CASE WHEN $10::boolean THEN $11::smallint ELSE rating END,
			tags = CASE WHEN $12::boolean THEN $13::text[] ELSE tags END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + stockColumns

	deleteStockSQL = `DELETE FROM stocks WHERE id = $1`
)

type StockRepo struct {
	db *DB
}

var _ domain.StockRepository = (*StockRepo)(nil)

// NewStockRepo returns a repository for the stocks table.
func NewStockRepo(db *DB) *StockRepo {
	return &StockRepo{db: db}
}

type stockResult struct {
	stock domain.Stock
	found bool
}

func (r *StockRepo) Create(ctx context.Context, input domain.CreateStockInput) (domain.Stock, error) {
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	return Write(ctx, r.db, "create stock", func(ctx context.Context, w Querier) (domain.Stock, error) {
		row := w.QueryRow(ctx, insertStockSQL,
			input.NSESymbol, input.CompanyName, input.GrowwSymbol, input.KiteSymbol,
			input.Description, input.Rating, tags)
		return scanStock(row)
	})
}

func (r *StockRepo) GetByID(ctx context.Context, stockID int64) (domain.Stock, bool, error) {
	return readStock(ctx, r.db, fmt.Sprintf("get stock by id '%d'", stockID), getStockByIDSQL, stockID)
}

func (r *StockRepo) GetByNSESymbol(ctx context.Context, nseSymbol string) (domain.Stock, bool, error) {
	return readStock(ctx, r.db, fmt.Sprintf("get stock by symbol '%s'", nseSymbol), getStockByNSESymbolSQL, nseSymbol)
}

func readStock(ctx context.Context, db *DB, action, sql string, arg any) (domain.Stock, bool, error) {
	res, err := Read(ctx, db, action, func(ctx context.Context, r Reader) (stockResult, error) {
		s, found, err := scanOptional(r.QueryRow(ctx, sql, arg), scanStock)
		return stockResult{s, found}, err
	})
	return res.stock, res.found, err
}

func (r *StockRepo) List(ctx context.Context, limit int) ([]domain.Stock, error) {
	return Read(ctx, r.db, "list stocks", func(ctx context.Context, rd Reader) ([]domain.Stock, error) {
		rows, err := rd.Query(ctx, listStocksSQL, normalizeLimit(limit))
		if err != nil {
			return nil, err
		}
		return collect(rows, scanStock)
	})
}

func (r *StockRepo) Update(ctx context.Context, stockID int64, update domain.StockUpdate) (domain.Stock, bool, error) {
	if update.Fields.Len() == 0 {
		return domain.Stock{}, false, apperrors.ValidationError("no fields to update")
	}
	if update.Fields.Has(domain.StockFieldCompanyName) && update.CompanyName == nil {
		return domain.Stock{}, false, apperrors.ValidationError("company_name cannot be null")
	}

	f := update.Fields
	res, err := Write(ctx, r.db, fmt.Sprintf("update stock '%d'", stockID), func(ctx context.Context, w Querier) (stockResult, error) {
		row := w.QueryRow(ctx, updateStockSQL, stockID,
			f.Has(domain.StockFieldCompanyName), update.CompanyName,
			f.Has(domain.StockFieldGrowwSymbol), update.GrowwSymbol,
			f.Has(domain.StockFieldKiteSymbol), update.KiteSymbol,
			f.Has(domain.StockFieldDescription), update.Description,
			f.Has(domain.StockFieldRating), update.Rating,
			f.Has(domain.StockFieldTags), update.Tags,
		)
		s, found, err := scanOptional(row, scanStock)
		return stockResult{s, found}, err
	})
	return res.stock, res.found, err
}

func (r *StockRepo) Delete(ctx context.Context, stockID int64) (bool, error) {
	return deleteRows(ctx, r.db, fmt.Sprintf("delete stock '%d'", stockID), deleteStockSQL, stockID)
}

func deleteRows(ctx context.Context, db *DB, action, sql string, args ...any) (bool, error) {
	return Write(ctx, db, action, func(ctx context.Context, w Querier) (bool, error) {
		tag, err := w.Exec(ctx, sql, args...)
		if err != nil {
			return false, err
		}
		return tag.RowsAffected() > 0, nil
	})
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
