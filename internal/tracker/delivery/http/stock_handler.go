package http

import (
	"errors"
	"net/http"

	"golang-portfolio-tracker/internal/entity"
	"golang-portfolio-tracker/internal/tracker/config"
	"golang-portfolio-tracker/internal/tracker/dto"
	"golang-portfolio-tracker/internal/tracker/service"
	"golang-portfolio-tracker/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StockHandler handles HTTP requests for portfolio holdings.
type StockHandler struct {
	portfolio service.PortfolioService
	charts    service.ChartService
	chartCfg  config.Chart
	logger    *logger.Logger
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(portfolio service.PortfolioService, charts service.ChartService, chartCfg config.Chart, log *logger.Logger) *StockHandler {
	return &StockHandler{portfolio: portfolio, charts: charts, chartCfg: chartCfg, logger: log}
}

// RegisterRoutes registers the stock routes to the Echo group.
func (h *StockHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/stocks", h.ListStocks)
	g.POST("/stocks", h.AddStock)
	g.GET("/stocks/:symbol", h.GetStock)
	g.PUT("/stocks/:symbol", h.UpdateStock)
	g.DELETE("/stocks/:symbol", h.DeleteStock)
	g.GET("/stocks/:symbol/chart", h.GetChart)
	g.GET("/portfolio/summary", h.GetSummary)
}

// errorStatus maps domain errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrDuplicateSymbol):
		return http.StatusConflict
	case errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrQuoteUnavailable), errors.Is(err, entity.ErrHistoryUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, entity.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *StockHandler) jsonError(c echo.Context, err error) error {
	return c.JSON(errorStatus(err), dto.ErrorResponse{Error: err.Error()})
}

// AddStock creates a new holding.
func (h *StockHandler) AddStock(c echo.Context) error {
	var req dto.SaveStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request payload"})
	}

	stock, err := h.portfolio.Add(c.Request().Context(), req)
	if err != nil {
		return h.jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, stock)
}

// GetStock returns one holding with its live valuation.
func (h *StockHandler) GetStock(c echo.Context) error {
	valuation, err := h.portfolio.Get(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return h.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, valuation)
}

// ListStocks returns all holdings with live valuations.
func (h *StockHandler) ListStocks(c echo.Context) error {
	valuations, err := h.portfolio.List(c.Request().Context())
	if err != nil {
		return h.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, valuations)
}

// UpdateStock replaces a holding's user-editable fields.
func (h *StockHandler) UpdateStock(c echo.Context) error {
	var req dto.SaveStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request payload"})
	}

	stock, err := h.portfolio.Update(c.Request().Context(), c.Param("symbol"), req)
	if err != nil {
		return h.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, stock)
}

// DeleteStock removes a holding.
func (h *StockHandler) DeleteStock(c echo.Context) error {
	if err := h.portfolio.Delete(c.Request().Context(), c.Param("symbol")); err != nil {
		return h.jsonError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetChart returns annotated chart data for a symbol.
func (h *StockHandler) GetChart(c echo.Context) error {
	interval := c.QueryParam("interval")
	if interval == "" {
		interval = h.chartCfg.Interval
	}
	rng := c.QueryParam("range")
	if rng == "" {
		rng = h.chartCfg.Range
	}

	data, err := h.charts.Build(c.Request().Context(), c.Param("symbol"), interval, rng, h.chartCfg.OverlayPeriods)
	if err != nil {
		return h.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, data)
}

// GetSummary returns the aggregate portfolio view.
func (h *StockHandler) GetSummary(c echo.Context) error {
	summary, err := h.portfolio.Summary(c.Request().Context())
	if err != nil {
		return h.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}
