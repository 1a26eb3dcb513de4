package repository

import (
	"context"

	"golang-portfolio-tracker/internal/entity"
)

// StockRepository is the record store for portfolio holdings. Implementations
// must keep symbols unique: Create fails with entity.ErrDuplicateSymbol when
// the symbol is already present, Put overwrites unconditionally.
type StockRepository interface {
	Get(ctx context.Context, symbol string) (*entity.Stock, error)
	Create(ctx context.Context, stock *entity.Stock) error
	Put(ctx context.Context, stock *entity.Stock) error
	Delete(ctx context.Context, symbol string) error
	List(ctx context.Context) ([]entity.Stock, error)
	// SetBreached flips only the breached flag, leaving every other field as
	// currently stored, so the monitor cannot clobber a concurrent user edit.
	SetBreached(ctx context.Context, symbol string, breached bool) error
}

// MarketDataRepository fetches live and historical market data for a symbol.
type MarketDataRepository interface {
	// Quote returns the current price, or entity.ErrQuoteUnavailable.
	Quote(ctx context.Context, symbol string) (float64, error)
	// History returns chronologically ordered bars for the given interval and
	// range, or entity.ErrHistoryUnavailable.
	History(ctx context.Context, symbol, interval, rng string) ([]entity.PriceBar, error)
	// CompanyName resolves the listed name for a symbol, used to confirm
	// symbols before they enter the portfolio.
	CompanyName(ctx context.Context, symbol string) (string, error)
}
