package repository

import (
	"context"
	"sort"
	"sync"

	"golang-portfolio-tracker/internal/entity"
)

// memoryStockRepository is an in-memory StockRepository. It backs tests and
// the "memory" store backend for running without external services.
type memoryStockRepository struct {
	mu     sync.RWMutex
	stocks map[string]entity.Stock
}

// NewMemoryStockRepository creates an empty in-memory StockRepository.
func NewMemoryStockRepository() StockRepository {
	return &memoryStockRepository{stocks: make(map[string]entity.Stock)}
}

func (r *memoryStockRepository) Get(_ context.Context, symbol string) (*entity.Stock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stock, ok := r.stocks[symbol]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return &stock, nil
}

func (r *memoryStockRepository) Create(_ context.Context, stock *entity.Stock) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stocks[stock.Symbol]; ok {
		return entity.ErrDuplicateSymbol
	}
	r.stocks[stock.Symbol] = *stock
	return nil
}

func (r *memoryStockRepository) Put(_ context.Context, stock *entity.Stock) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stocks[stock.Symbol] = *stock
	return nil
}

func (r *memoryStockRepository) Delete(_ context.Context, symbol string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stocks[symbol]; !ok {
		return entity.ErrNotFound
	}
	delete(r.stocks, symbol)
	return nil
}

func (r *memoryStockRepository) SetBreached(_ context.Context, symbol string, breached bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stock, ok := r.stocks[symbol]
	if !ok {
		return entity.ErrNotFound
	}
	stock.Breached = breached
	r.stocks[symbol] = stock
	return nil
}

func (r *memoryStockRepository) List(_ context.Context) ([]entity.Stock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stocks := make([]entity.Stock, 0, len(r.stocks))
	for _, stock := range r.stocks {
		stocks = append(stocks, stock)
	}
	sort.Slice(stocks, func(i, j int) bool { return stocks[i].Symbol < stocks[j].Symbol })
	return stocks, nil
}
