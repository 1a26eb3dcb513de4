package service

import (
	"context"

	"golang-portfolio-tracker/internal/tracker/analysis"
	"golang-portfolio-tracker/internal/tracker/dto"
	"golang-portfolio-tracker/internal/tracker/repository"
	"golang-portfolio-tracker/pkg/logger"
)

// ChartService assembles the renderable series for one symbol: bars, the
// patterns detected over them and the requested moving-average overlays. The
// result is handed to renderers unchanged.
type ChartService interface {
	Build(ctx context.Context, symbol, interval, rng string, overlayPeriods []int) (*dto.ChartData, error)
}

type chartService struct {
	marketData repository.MarketDataRepository
	logger     *logger.Logger
}

// NewChartService creates a new chart data builder.
func NewChartService(marketData repository.MarketDataRepository, log *logger.Logger) ChartService {
	return &chartService{marketData: marketData, logger: log}
}

func (s *chartService) Build(ctx context.Context, symbol, interval, rng string, overlayPeriods []int) (*dto.ChartData, error) {
	bars, err := s.marketData.History(ctx, symbol, interval, rng)
	if err != nil {
		return nil, err
	}

	data := &dto.ChartData{
		Symbol:   symbol,
		Interval: interval,
		Range:    rng,
		Bars:     bars,
		Patterns: analysis.Detect(bars),
	}

	for _, period := range overlayPeriods {
		overlay, ok := analysis.MovingAverage(bars, period)
		if !ok {
			// Not enough bars for this window; the overlay is simply absent.
			continue
		}
		data.Overlays = append(data.Overlays, overlay)
	}

	s.logger.DebugContext(ctx, "Chart data built",
		logger.StringField("symbol", symbol),
		logger.IntField("bars", len(data.Bars)),
		logger.IntField("patterns", len(data.Patterns)),
		logger.IntField("overlays", len(data.Overlays)))
	return data, nil
}
