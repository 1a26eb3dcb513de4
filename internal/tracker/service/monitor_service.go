package service

import (
	"context"
	"errors"
	"time"

	"golang-portfolio-tracker/internal/entity"
	"golang-portfolio-tracker/internal/tracker/config"
	"golang-portfolio-tracker/internal/tracker/notifier"
	"golang-portfolio-tracker/internal/tracker/repository"
	"golang-portfolio-tracker/pkg/logger"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// MonitorService polls each holding's live price against its loss threshold
// and emits one alert per breach episode. The breached flag on the stock
// record is the only monitoring state; because it is persisted, a breach
// notified before a restart is not re-alerted after it.
type MonitorService interface {
	Start(ctx context.Context) error
	Stop()
	RunCycle(ctx context.Context)
}

type monitorService struct {
	cfg        config.Monitor
	stockRepo  repository.StockRepository
	marketData repository.MarketDataRepository
	dispatcher notifier.Dispatcher
	logger     *logger.Logger
	cron       *cron.Cron
}

// NewMonitorService creates a new threshold monitor.
func NewMonitorService(cfg config.Monitor, stockRepo repository.StockRepository, marketData repository.MarketDataRepository, dispatcher notifier.Dispatcher, log *logger.Logger) MonitorService {
	return &monitorService{
		cfg:        cfg,
		stockRepo:  stockRepo,
		marketData: marketData,
		dispatcher: dispatcher,
		logger:     log,
		// Skip a tick while the previous cycle is still running so poll
		// cycles never overlap and per-symbol writes stay serialized.
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// Start schedules the poll loop and launches the cron runner.
func (s *monitorService) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		cycleCtx, cancel := context.WithTimeout(ctx, s.cfg.CycleTimeout)
		defer cancel()
		s.RunCycle(cycleCtx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Threshold monitor started", logger.StringField("schedule", s.cfg.Schedule))
	return nil
}

// Stop halts the schedule and waits for a running cycle to finish.
func (s *monitorService) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Threshold monitor stopped")
}

// RunCycle evaluates every holding once. Per-symbol failures are isolated:
// they are logged and the symbol is skipped until the next cycle.
func (s *monitorService) RunCycle(ctx context.Context) {
	stocks, err := s.stockRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list stocks, retrying next cycle", logger.ErrorField(err))
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxConcurrentFetches)
	for _, stock := range stocks {
		g.Go(func() error {
			s.evaluate(gctx, stock.Symbol)
			return nil
		})
	}
	_ = g.Wait()
}

// evaluate runs the breach state machine for one symbol:
//
//	Normal   -> Breached  price <= threshold: alert once, persist flag
//	Breached -> Breached  still under: no new alert
//	Breached -> Normal    recovered: clear flag, no alert
//	Normal   -> Normal    nothing to do
func (s *monitorService) evaluate(ctx context.Context, symbol string) {
	price, err := s.marketData.Quote(ctx, symbol)
	if err != nil {
		s.logger.Error("Quote fetch failed, skipping symbol this cycle",
			logger.StringField("symbol", symbol), logger.ErrorField(err))
		return
	}

	// Re-read the record after the network call so the transition decision
	// uses fresh state and holds no lock across I/O.
	stock, err := s.stockRepo.Get(ctx, symbol)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			// Deleted while we were fetching the quote.
			return
		}
		s.logger.Error("Failed to read stock record",
			logger.StringField("symbol", symbol), logger.ErrorField(err))
		return
	}

	inBreach := price <= stock.LossThreshold

	switch {
	case inBreach && !stock.Breached:
		event := entity.AlertEvent{
			Symbol:        stock.Symbol,
			CompanyName:   stock.CompanyName,
			CurrentPrice:  price,
			LossThreshold: stock.LossThreshold,
			TriggeredAt:   time.Now(),
		}

		// Persist the flag before dispatching so a crash between the two
		// cannot produce a duplicate alert. Only the flag is written; a user
		// edit landing since the read above stays intact.
		if err := s.stockRepo.SetBreached(ctx, symbol, true); err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				return
			}
			s.logger.Error("Failed to persist breach flag, retrying next cycle",
				logger.StringField("symbol", symbol), logger.ErrorField(err))
			return
		}

		if err := s.dispatcher.Dispatch(ctx, event); err != nil {
			s.logger.Error("Failed to dispatch alert",
				logger.StringField("symbol", symbol), logger.ErrorField(err))
			return
		}
		s.logger.Info("Breach alert sent",
			logger.StringField("symbol", symbol),
			logger.Float64Field("price", price),
			logger.Float64Field("loss_threshold", stock.LossThreshold))

	case !inBreach && stock.Breached:
		if err := s.stockRepo.SetBreached(ctx, symbol, false); err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				return
			}
			s.logger.Error("Failed to clear breach flag, retrying next cycle",
				logger.StringField("symbol", symbol), logger.ErrorField(err))
			return
		}
		s.logger.Info("Breach episode ended",
			logger.StringField("symbol", symbol),
			logger.Float64Field("price", price))

	default:
		// No transition.
	}
}
