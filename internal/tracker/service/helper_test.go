package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"golang-portfolio-tracker/internal/entity"
	"golang-portfolio-tracker/internal/tracker/repository"
	"golang-portfolio-tracker/pkg/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

// fakeMarketData is a MarketDataRepository serving canned data.
type fakeMarketData struct {
	mu         sync.Mutex
	prices     map[string]float64
	names      map[string]string
	quoteErr   map[string]error
	history    map[string][]entity.PriceBar
	historyErr error
}

func newFakeMarketData() *fakeMarketData {
	return &fakeMarketData{
		prices:   make(map[string]float64),
		names:    make(map[string]string),
		quoteErr: make(map[string]error),
		history:  make(map[string][]entity.PriceBar),
	}
}

func (f *fakeMarketData) setPrice(symbol string, price float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prices[symbol] = price
	delete(f.quoteErr, symbol)
}

func (f *fakeMarketData) failQuote(symbol string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quoteErr[symbol] = err
}

func (f *fakeMarketData) Quote(_ context.Context, symbol string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.quoteErr[symbol]; ok {
		return 0, err
	}
	price, ok := f.prices[symbol]
	if !ok {
		return 0, entity.ErrQuoteUnavailable
	}
	return price, nil
}

func (f *fakeMarketData) History(_ context.Context, symbol, _, _ string) ([]entity.PriceBar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	bars, ok := f.history[symbol]
	if !ok {
		return nil, entity.ErrHistoryUnavailable
	}
	return bars, nil
}

func (f *fakeMarketData) CompanyName(_ context.Context, symbol string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name, ok := f.names[symbol]
	if !ok {
		return "", entity.ErrQuoteUnavailable
	}
	return name, nil
}

// recordingDispatcher captures every dispatched alert.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []entity.AlertEvent
}

func (d *recordingDispatcher) Dispatch(_ context.Context, event entity.AlertEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Events() []entity.AlertEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]entity.AlertEvent(nil), d.events...)
}

func mustCreate(t *testing.T, repo repository.StockRepository, stock entity.Stock) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &stock))
}

func testStock(symbol string, qty, purchasePrice, threshold float64) entity.Stock {
	return entity.Stock{
		Symbol:        symbol,
		CompanyName:   symbol + " Inc.",
		Quantity:      qty,
		PurchasePrice: purchasePrice,
		PurchaseDate:  time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		LossThreshold: threshold,
	}
}
