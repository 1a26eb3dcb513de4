package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-portfolio-tracker/internal/entity"
	"golang-portfolio-tracker/internal/tracker/dto"
	"golang-portfolio-tracker/internal/tracker/repository"
)

func newTestPortfolio(t *testing.T) (PortfolioService, repository.StockRepository, *fakeMarketData) {
	t.Helper()
	repo := repository.NewMemoryStockRepository()
	market := newFakeMarketData()
	return NewPortfolioService(repo, market, newTestLogger(t)), repo, market
}

func saveRequest(symbol string, qty, price, threshold float64) dto.SaveStockRequest {
	return dto.SaveStockRequest{
		Symbol:        symbol,
		Quantity:      qty,
		PurchasePrice: price,
		PurchaseDate:  time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		LossThreshold: threshold,
	}
}

func TestPortfolio_AddAndRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, repo, market := newTestPortfolio(t)
	market.names["RY"] = "Royal Bank of Canada"

	added, err := svc.Add(ctx, saveRequest("ry", 10, 120, 100))
	require.NoError(t, err)
	assert.Equal(t, "RY", added.Symbol)
	assert.Equal(t, "Royal Bank of Canada", added.CompanyName)
	assert.False(t, added.Breached)

	stored, err := repo.Get(ctx, "RY")
	require.NoError(t, err)
	assert.Equal(t, *added, *stored)
}

func TestPortfolio_AddDuplicateLeavesRecordUnchanged(t *testing.T) {
	ctx := context.Background()
	svc, repo, market := newTestPortfolio(t)
	market.names["RY"] = "Royal Bank of Canada"

	_, err := svc.Add(ctx, saveRequest("RY", 10, 120, 100))
	require.NoError(t, err)

	_, err = svc.Add(ctx, saveRequest("RY", 99, 1, 1))
	assert.ErrorIs(t, err, entity.ErrDuplicateSymbol)

	stored, err := repo.Get(ctx, "RY")
	require.NoError(t, err)
	assert.Equal(t, 10.0, stored.Quantity)
	assert.Equal(t, 120.0, stored.PurchasePrice)
}

func TestPortfolio_AddValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, market := newTestPortfolio(t)
	market.names["RY"] = "Royal Bank of Canada"

	cases := []struct {
		name string
		req  dto.SaveStockRequest
	}{
		{"empty symbol", saveRequest("", 10, 120, 100)},
		{"zero quantity", saveRequest("RY", 0, 120, 100)},
		{"negative quantity", saveRequest("RY", -1, 120, 100)},
		{"zero price", saveRequest("RY", 10, 0, 100)},
		{"negative threshold", saveRequest("RY", 10, 120, -5)},
		{"unknown symbol", saveRequest("ZZZZ", 10, 120, 100)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Add(ctx, tc.req)
			assert.ErrorIs(t, err, entity.ErrInvalidInput)
		})
	}

	t.Run("future purchase date", func(t *testing.T) {
		req := saveRequest("RY", 10, 120, 100)
		req.PurchaseDate = time.Now().Add(48 * time.Hour)
		_, err := svc.Add(ctx, req)
		assert.ErrorIs(t, err, entity.ErrInvalidInput)
	})
}

func TestPortfolio_UpdateMissingSymbol(t *testing.T) {
	ctx := context.Background()
	svc, _, market := newTestPortfolio(t)
	market.names["RY"] = "Royal Bank of Canada"

	_, err := svc.Update(ctx, "RY", saveRequest("RY", 10, 120, 100))
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestPortfolio_DeleteMissingSymbol(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestPortfolio(t)
	assert.ErrorIs(t, svc.Delete(ctx, "RY"), entity.ErrNotFound)
}

func TestPortfolio_SummaryTotals(t *testing.T) {
	ctx := context.Background()
	svc, repo, market := newTestPortfolio(t)

	mustCreate(t, repo, testStock("AAA", 10, 50, 0))
	mustCreate(t, repo, testStock("BBB", 5, 20, 0))
	market.setPrice("AAA", 55)
	market.setPrice("BBB", 18)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)

	// (10*55 - 10*50) + (5*18 - 5*20) = 50 - 10 = 40
	assert.InDelta(t, 40.0, summary.TotalGainLoss, 1e-9)
	assert.InDelta(t, 600.0, summary.TotalCostBasis, 1e-9)
	assert.InDelta(t, 640.0, summary.TotalValue, 1e-9)
	assert.InDelta(t, 15.0, summary.TotalShares, 1e-9)
	assert.InDelta(t, 40.0, summary.AvgPurchasePrice, 1e-9)
	assert.Len(t, summary.Holdings, 2)

	require.NotNil(t, summary.Best)
	require.NotNil(t, summary.Worst)
	assert.Equal(t, "AAA", summary.Best.Symbol)
	assert.Equal(t, "BBB", summary.Worst.Symbol)
}

func TestPortfolio_SummaryIsolatesQuoteFailures(t *testing.T) {
	ctx := context.Background()
	svc, repo, market := newTestPortfolio(t)

	mustCreate(t, repo, testStock("AAA", 10, 50, 0))
	mustCreate(t, repo, testStock("BBB", 5, 20, 0))
	market.setPrice("AAA", 55)
	market.failQuote("BBB", entity.ErrQuoteUnavailable)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)

	// BBB stays visible with a nil valuation; totals cover AAA only.
	require.Len(t, summary.Holdings, 2)
	assert.InDelta(t, 50.0, summary.TotalGainLoss, 1e-9)
	assert.InDelta(t, 500.0, summary.TotalCostBasis, 1e-9)

	for _, v := range summary.Holdings {
		if v.Stock.Symbol == "BBB" {
			assert.False(t, v.Priced())
			assert.NotEmpty(t, v.QuoteError)
		}
	}
}

func TestPortfolio_GetValuation(t *testing.T) {
	ctx := context.Background()
	svc, repo, market := newTestPortfolio(t)

	mustCreate(t, repo, testStock("AAA", 10, 50, 0))
	market.setPrice("AAA", 55)

	v, err := svc.Get(ctx, "AAA")
	require.NoError(t, err)
	require.True(t, v.Priced())
	assert.InDelta(t, 55.0, *v.CurrentPrice, 1e-9)
	assert.InDelta(t, 550.0, *v.CurrentValue, 1e-9)
	assert.InDelta(t, 50.0, *v.GainLoss, 1e-9)
	require.NotNil(t, v.GainLossPercent)
	assert.InDelta(t, 10.0, *v.GainLossPercent, 1e-9)
}

func TestPortfolio_Search(t *testing.T) {
	ctx := context.Background()
	svc, _, market := newTestPortfolio(t)
	market.names["SHOP"] = "Shopify Inc."
	market.setPrice("SHOP", 140.25)

	quote, err := svc.Search(ctx, "shop")
	require.NoError(t, err)
	assert.Equal(t, "SHOP", quote.Symbol)
	assert.Equal(t, "Shopify Inc.", quote.CompanyName)
	assert.Equal(t, 140.25, quote.CurrentPrice)

	_, err = svc.Search(ctx, "ZZZZ")
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}
