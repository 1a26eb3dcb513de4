package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-portfolio-tracker/internal/tracker/config"
	"golang-portfolio-tracker/internal/tracker/delivery/cli"
	httpDelivery "golang-portfolio-tracker/internal/tracker/delivery/http"
	"golang-portfolio-tracker/internal/tracker/dto"
	"golang-portfolio-tracker/internal/tracker/notifier"
	"golang-portfolio-tracker/internal/tracker/renderer"
	"golang-portfolio-tracker/internal/tracker/repository"
	"golang-portfolio-tracker/internal/tracker/service"
	"golang-portfolio-tracker/pkg/logger"
	"golang-portfolio-tracker/pkg/mailer"
	"golang-portfolio-tracker/pkg/postgres"
	redisPkg "golang-portfolio-tracker/pkg/redis"
	"golang-portfolio-tracker/pkg/telegram"
	"golang-portfolio-tracker/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
)

var configPath string

// app wires the configuration, logger, repositories and services used by
// every command.
type app struct {
	cfg        *config.Config
	logger     *logger.Logger
	stockRepo  repository.StockRepository
	marketData repository.MarketDataRepository
	portfolio  service.PortfolioService
	charts     service.ChartService
	printer    *cli.Printer
	cleanup    []func()
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{cfg: cfg, logger: appLogger, printer: cli.NewPrinter(os.Stdout)}
	a.cleanup = append(a.cleanup, func() { _ = appLogger.Sync() })

	switch cfg.Store.Backend {
	case "redis":
		redisClient, err := redisPkg.NewClient(redisPkg.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		a.cleanup = append(a.cleanup, func() { _ = redisClient.Close() })
		a.stockRepo = repository.NewRedisStockRepository(redisClient, cfg.Store.KeyPrefix)
	case "postgres":
		db, err := postgres.NewDB(postgres.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			DBName:          cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			TimeZone:        cfg.Database.TimeZone,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if sqlDB, err := db.DB.DB(); err == nil {
			a.cleanup = append(a.cleanup, func() { _ = sqlDB.Close() })
		}
		a.stockRepo = repository.NewPostgresStockRepository(db.DB)
	case "memory":
		a.stockRepo = repository.NewMemoryStockRepository()
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	a.marketData = repository.NewYahooFinanceRepository(cfg.MarketData, appLogger)
	a.portfolio = service.NewPortfolioService(a.stockRepo, a.marketData, appLogger)
	a.charts = service.NewChartService(a.marketData, appLogger)
	return a, nil
}

func (a *app) close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
}

// dispatcher builds the alert fan-out from the enabled transports.
func (a *app) dispatcher() (notifier.Dispatcher, error) {
	var dispatchers []notifier.Dispatcher

	if a.cfg.Alert.Email.Enabled {
		sender := mailer.NewClient(mailer.Config{
			Host:     a.cfg.Alert.Email.Host,
			Port:     a.cfg.Alert.Email.Port,
			Username: a.cfg.Alert.Email.Username,
			Password: a.cfg.Alert.Email.Password,
			From:     a.cfg.Alert.Email.From,
		})
		dispatchers = append(dispatchers, notifier.NewEmailDispatcher(sender, a.cfg.Alert.Email.To))
	}

	if a.cfg.Alert.Telegram.Enabled {
		tg, err := telegram.NewClient(a.cfg.Alert.Telegram.BotToken, a.cfg.Alert.Telegram.ChatID)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Telegram notifier: %w", err)
		}
		dispatchers = append(dispatchers, notifier.NewTelegramDispatcher(tg))
	}

	if len(dispatchers) == 0 {
		a.logger.Warn("No alert transport enabled; breach alerts will only be logged")
	}
	return notifier.NewMultiDispatcher(dispatchers...), nil
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApp()
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.close()

	a.logger.Info("Starting portfolio tracker",
		logger.StringField("name", a.cfg.App.Name),
		logger.StringField("store_backend", a.cfg.Store.Backend))

	dispatcher, err := a.dispatcher()
	if err != nil {
		a.logger.Fatal("Failed to initialize alert dispatcher", logger.ErrorField(err))
	}

	monitor := service.NewMonitorService(a.cfg.Monitor, a.stockRepo, a.marketData, dispatcher, a.logger)
	if err := monitor.Start(ctx); err != nil {
		a.logger.Fatal("Failed to start threshold monitor", logger.ErrorField(err))
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	handler := httpDelivery.NewStockHandler(a.portfolio, a.charts, a.cfg.Chart, a.logger)
	handler.RegisterRoutes(e.Group("/api/v1"))

	utils.GoSafe(func() {
		addr := fmt.Sprintf("%s:%d", a.cfg.API.Host, a.cfg.API.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			a.logger.Fatal("API server failed", logger.ErrorField(err))
		}
	})

	a.logger.Info("Portfolio tracker started",
		logger.StringField("schedule", a.cfg.Monitor.Schedule),
		logger.IntField("api_port", a.cfg.API.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info("Shutting down portfolio tracker...")
	cancel()
	monitor.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("API server shutdown failed", logger.ErrorField(err))
	}
	a.logger.Info("Portfolio tracker stopped")
}

// withApp wraps a command body with app setup and teardown.
func withApp(fn func(a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer a.close()

		if err := fn(a, cmd, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func parseSaveRequest(cmd *cobra.Command) (dto.SaveStockRequest, error) {
	symbol, _ := cmd.Flags().GetString("symbol")
	quantity, _ := cmd.Flags().GetFloat64("quantity")
	price, _ := cmd.Flags().GetFloat64("price")
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	dateStr, _ := cmd.Flags().GetString("date")

	date := time.Now()
	if dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return dto.SaveStockRequest{}, fmt.Errorf("invalid purchase date %q, expected YYYY-MM-DD", dateStr)
		}
		date = parsed
	}

	return dto.SaveStockRequest{
		Symbol:        symbol,
		Quantity:      quantity,
		PurchasePrice: price,
		PurchaseDate:  date,
		LossThreshold: threshold,
	}, nil
}

func addSaveFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("symbol", "s", "", "Ticker symbol")
	cmd.Flags().Float64P("quantity", "q", 0, "Number of shares")
	cmd.Flags().Float64P("price", "p", 0, "Purchase price per share")
	cmd.Flags().Float64P("threshold", "t", 0, "Loss threshold price")
	cmd.Flags().StringP("date", "d", "", "Purchase date (YYYY-MM-DD, default today)")
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "tracker",
		Short: "A stock portfolio tracker with threshold alerts and pattern detection",
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the threshold monitor and the read/write API",
		Run:   runServe,
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a stock to the portfolio",
		Run: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			req, err := parseSaveRequest(cmd)
			if err != nil {
				return err
			}
			stock, err := a.portfolio.Add(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Printf("Added %s (%s)\n", stock.Symbol, stock.CompanyName)
			return nil
		}),
	}
	addSaveFlags(addCmd)

	updateCmd := &cobra.Command{
		Use:   "update <symbol>",
		Short: "Update a stock in the portfolio",
		Args:  cobra.ExactArgs(1),
		Run: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			req, err := parseSaveRequest(cmd)
			if err != nil {
				return err
			}
			if req.Symbol == "" {
				req.Symbol = args[0]
			}
			stock, err := a.portfolio.Update(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			fmt.Printf("Updated %s (%s)\n", stock.Symbol, stock.CompanyName)
			return nil
		}),
	}
	addSaveFlags(updateCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete <symbol>",
		Short: "Delete a stock from the portfolio",
		Args:  cobra.ExactArgs(1),
		Run: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if err := a.portfolio.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		}),
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all stocks with live valuations",
		Run: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			valuations, err := a.portfolio.List(cmd.Context())
			if err != nil {
				return err
			}
			a.printer.PrintHoldings(valuations)
			return nil
		}),
	}

	viewCmd := &cobra.Command{
		Use:   "view <symbol>",
		Short: "View one stock with valuation, patterns and a candlestick chart",
		Args:  cobra.ExactArgs(1),
		Run: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			valuation, err := a.portfolio.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.printer.PrintHolding(valuation)

			data, err := a.charts.Build(cmd.Context(), valuation.Stock.Symbol, a.cfg.Chart.Interval, a.cfg.Chart.Range, a.cfg.Chart.OverlayPeriods)
			if err != nil {
				return err
			}
			a.printer.PrintPatterns(data)

			path, err := renderer.WriteHTML(data, a.cfg.Chart.OutputDir)
			if err != nil {
				return err
			}
			fmt.Printf("Chart written to %s\n", path)
			return nil
		}),
	}

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the aggregate portfolio summary",
		Run: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			summary, err := a.portfolio.Summary(cmd.Context())
			if err != nil {
				return err
			}
			a.printer.PrintSummary(summary)
			return nil
		}),
	}

	searchCmd := &cobra.Command{
		Use:   "search <symbol>",
		Short: "Look up the current quote for any symbol",
		Args:  cobra.ExactArgs(1),
		Run: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			quote, err := a.portfolio.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.printer.PrintQuote(quote)
			return nil
		}),
	}

	chartCmd := &cobra.Command{
		Use:   "chart <symbol>",
		Short: "Render a candlestick chart with pattern annotations",
		Args:  cobra.ExactArgs(1),
		Run: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			interval, _ := cmd.Flags().GetString("interval")
			rng, _ := cmd.Flags().GetString("range")
			if interval == "" {
				interval = a.cfg.Chart.Interval
			}
			if rng == "" {
				rng = a.cfg.Chart.Range
			}

			data, err := a.charts.Build(cmd.Context(), args[0], interval, rng, a.cfg.Chart.OverlayPeriods)
			if err != nil {
				return err
			}
			a.printer.PrintPatterns(data)

			path, err := renderer.WriteHTML(data, a.cfg.Chart.OutputDir)
			if err != nil {
				return err
			}
			fmt.Printf("Chart written to %s\n", path)
			return nil
		}),
	}
	chartCmd.Flags().String("interval", "", "Bar interval (e.g. 5m, 1h, 1d)")
	chartCmd.Flags().String("range", "", "History range (e.g. 1d, 1mo, 1y)")

	rootCmd.AddCommand(serveCmd, addCmd, updateCmd, deleteCmd, listCmd, viewCmd, summaryCmd, searchCmd, chartCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing tracker CLI: %s\n", err)
		os.Exit(1)
	}
}
