package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang-portfolio-tracker/internal/entity"
	"golang-portfolio-tracker/internal/tracker/dto"
	"golang-portfolio-tracker/internal/tracker/repository"
	"golang-portfolio-tracker/pkg/logger"
	"golang-portfolio-tracker/pkg/utils"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// maxQuoteWorkers bounds the concurrent quote fetches when valuing the whole
// portfolio.
const maxQuoteWorkers = 5

// PortfolioService manages holdings and computes live valuations.
type PortfolioService interface {
	Add(ctx context.Context, req dto.SaveStockRequest) (*entity.Stock, error)
	Update(ctx context.Context, symbol string, req dto.SaveStockRequest) (*entity.Stock, error)
	Delete(ctx context.Context, symbol string) error
	Get(ctx context.Context, symbol string) (*entity.StockValuation, error)
	List(ctx context.Context) ([]entity.StockValuation, error)
	Summary(ctx context.Context) (*entity.PortfolioSummary, error)
	Search(ctx context.Context, symbol string) (*dto.QuoteResult, error)
}

type portfolioService struct {
	stockRepo  repository.StockRepository
	marketData repository.MarketDataRepository
	logger     *logger.Logger
}

// NewPortfolioService creates a new portfolio service.
func NewPortfolioService(stockRepo repository.StockRepository, marketData repository.MarketDataRepository, log *logger.Logger) PortfolioService {
	return &portfolioService{
		stockRepo:  stockRepo,
		marketData: marketData,
		logger:     log,
	}
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func validate(req dto.SaveStockRequest) error {
	if normalizeSymbol(req.Symbol) == "" {
		return fmt.Errorf("%w: symbol must not be empty", entity.ErrInvalidInput)
	}
	if req.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", entity.ErrInvalidInput)
	}
	if req.PurchasePrice <= 0 {
		return fmt.Errorf("%w: purchase price must be positive", entity.ErrInvalidInput)
	}
	if req.LossThreshold < 0 {
		return fmt.Errorf("%w: loss threshold must not be negative", entity.ErrInvalidInput)
	}
	if req.PurchaseDate.After(time.Now()) {
		return fmt.Errorf("%w: purchase date must not be in the future", entity.ErrInvalidInput)
	}
	return nil
}

// resolveName confirms the symbol against the market data provider, mirroring
// the interactive "Do you mean <name>?" check of the original tool. An
// unknown symbol is rejected before anything is persisted.
func (s *portfolioService) resolveName(ctx context.Context, symbol string) (string, error) {
	name, err := s.marketData.CompanyName(ctx, symbol)
	if err != nil {
		return "", fmt.Errorf("%w: unknown symbol %s", entity.ErrInvalidInput, symbol)
	}
	return name, nil
}

func (s *portfolioService) Add(ctx context.Context, req dto.SaveStockRequest) (*entity.Stock, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	symbol := normalizeSymbol(req.Symbol)

	name, err := s.resolveName(ctx, symbol)
	if err != nil {
		return nil, err
	}

	stock := &entity.Stock{
		Symbol:        symbol,
		CompanyName:   name,
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
		PurchaseDate:  req.PurchaseDate,
		LossThreshold: req.LossThreshold,
		Breached:      false,
	}
	if err := s.stockRepo.Create(ctx, stock); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Stock added",
		logger.StringField("symbol", symbol),
		logger.Float64Field("quantity", stock.Quantity),
		logger.Float64Field("loss_threshold", stock.LossThreshold))
	return stock, nil
}

func (s *portfolioService) Update(ctx context.Context, symbol string, req dto.SaveStockRequest) (*entity.Stock, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	symbol = normalizeSymbol(symbol)

	stock, err := s.stockRepo.Get(ctx, symbol)
	if err != nil {
		return nil, err
	}

	newSymbol := normalizeSymbol(req.Symbol)
	name, err := s.resolveName(ctx, newSymbol)
	if err != nil {
		return nil, err
	}

	updated := &entity.Stock{
		Symbol:        newSymbol,
		CompanyName:   name,
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
		PurchaseDate:  req.PurchaseDate,
		LossThreshold: req.LossThreshold,
		// A changed threshold starts a fresh breach episode.
		Breached:  stock.Breached && req.LossThreshold == stock.LossThreshold,
		CreatedAt: stock.CreatedAt,
	}

	if newSymbol != symbol {
		// Re-keying: create under the new symbol first so a crash cannot lose
		// the holding, then drop the old record.
		if err := s.stockRepo.Create(ctx, updated); err != nil {
			return nil, err
		}
		if err := s.stockRepo.Delete(ctx, symbol); err != nil && !errors.Is(err, entity.ErrNotFound) {
			return nil, err
		}
	} else {
		if err := s.stockRepo.Put(ctx, updated); err != nil {
			return nil, err
		}
	}

	s.logger.InfoContext(ctx, "Stock updated", logger.StringField("symbol", newSymbol))
	return updated, nil
}

func (s *portfolioService) Delete(ctx context.Context, symbol string) error {
	symbol = normalizeSymbol(symbol)
	if err := s.stockRepo.Delete(ctx, symbol); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Stock deleted", logger.StringField("symbol", symbol))
	return nil
}

// valuation computes the live valuation for one holding. A quote failure is
// recorded on the valuation instead of being returned, so callers can keep
// the holding visible.
func (s *portfolioService) valuation(ctx context.Context, stock entity.Stock) entity.StockValuation {
	v := entity.StockValuation{Stock: stock}

	price, err := s.marketData.Quote(ctx, stock.Symbol)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch quote",
			logger.StringField("symbol", stock.Symbol), logger.ErrorField(err))
		v.QuoteError = err.Error()
		return v
	}

	qty := decimal.NewFromFloat(stock.Quantity)
	cost := qty.Mul(decimal.NewFromFloat(stock.PurchasePrice))
	value := qty.Mul(decimal.NewFromFloat(price))
	gainLoss := value.Sub(cost)

	currentValue, _ := value.Float64()
	gl, _ := gainLoss.Float64()
	v.CurrentPrice = utils.ToPointer(price)
	v.CurrentValue = utils.ToPointer(currentValue)
	v.GainLoss = utils.ToPointer(gl)

	if !cost.IsZero() {
		pct, _ := gainLoss.Div(cost).Mul(decimal.NewFromInt(100)).Float64()
		v.GainLossPercent = utils.ToPointer(pct)
	}
	return v
}

func (s *portfolioService) Get(ctx context.Context, symbol string) (*entity.StockValuation, error) {
	stock, err := s.stockRepo.Get(ctx, normalizeSymbol(symbol))
	if err != nil {
		return nil, err
	}
	v := s.valuation(ctx, *stock)
	return &v, nil
}

func (s *portfolioService) List(ctx context.Context) ([]entity.StockValuation, error) {
	stocks, err := s.stockRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	valuations := make([]entity.StockValuation, len(stocks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxQuoteWorkers)
	for i, stock := range stocks {
		g.Go(func() error {
			valuations[i] = s.valuation(gctx, stock)
			return nil
		})
	}
	// Workers never return an error; per-symbol failures live on the
	// valuation itself.
	_ = g.Wait()

	return valuations, nil
}

func (s *portfolioService) Summary(ctx context.Context) (*entity.PortfolioSummary, error) {
	valuations, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	summary := &entity.PortfolioSummary{
		Holdings:    valuations,
		GeneratedAt: time.Now(),
	}

	totalCost := decimal.Zero
	totalValue := decimal.Zero
	totalShares := decimal.Zero
	for _, v := range valuations {
		if !v.Priced() {
			continue
		}
		qty := decimal.NewFromFloat(v.Stock.Quantity)
		totalShares = totalShares.Add(qty)
		totalCost = totalCost.Add(qty.Mul(decimal.NewFromFloat(v.Stock.PurchasePrice)))
		totalValue = totalValue.Add(decimal.NewFromFloat(*v.CurrentValue))

		if summary.Best == nil || *v.GainLoss > summary.Best.GainLoss {
			summary.Best = &entity.Performer{Symbol: v.Stock.Symbol, GainLoss: *v.GainLoss}
		}
		if summary.Worst == nil || *v.GainLoss < summary.Worst.GainLoss {
			summary.Worst = &entity.Performer{Symbol: v.Stock.Symbol, GainLoss: *v.GainLoss}
		}
	}

	gainLoss := totalValue.Sub(totalCost)
	summary.TotalCostBasis, _ = totalCost.Float64()
	summary.TotalValue, _ = totalValue.Float64()
	summary.TotalGainLoss, _ = gainLoss.Float64()
	summary.TotalShares, _ = totalShares.Float64()
	if !totalCost.IsZero() {
		summary.GainLossPercent, _ = gainLoss.Div(totalCost).Mul(decimal.NewFromInt(100)).Float64()
	}
	if !totalShares.IsZero() {
		summary.AvgPurchasePrice, _ = totalCost.Div(totalShares).Float64()
		summary.AvgCurrentPrice, _ = totalValue.Div(totalShares).Float64()
	}

	return summary, nil
}

func (s *portfolioService) Search(ctx context.Context, symbol string) (*dto.QuoteResult, error) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol must not be empty", entity.ErrInvalidInput)
	}

	name, err := s.resolveName(ctx, symbol)
	if err != nil {
		return nil, err
	}
	price, err := s.marketData.Quote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	return &dto.QuoteResult{
		Symbol:       symbol,
		CompanyName:  name,
		CurrentPrice: price,
		FetchedAt:    time.Now(),
	}, nil
}
