package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"golang-portfolio-tracker/internal/entity"
	"golang-portfolio-tracker/internal/tracker/config"
	"golang-portfolio-tracker/pkg/logger"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// yahooFinanceRepository implements MarketDataRepository against the public
// Yahoo Finance chart API. Requests are rate limited and quotes are cached
// briefly so a list/summary over many holdings does not hammer the endpoint.
type yahooFinanceRepository struct {
	cfg     config.MarketData
	client  *http.Client
	limiter *rate.Limiter
	cache   *cache.Cache
	logger  *logger.Logger
}

// NewYahooFinanceRepository creates a Yahoo Finance MarketDataRepository.
func NewYahooFinanceRepository(cfg config.MarketData, log *logger.Logger) MarketDataRepository {
	return &yahooFinanceRepository{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.MaxRequestPerMinute)/60.0), cfg.MaxRequestPerMinute),
		cache:   cache.New(cfg.QuoteCacheTTL, 2*cfg.QuoteCacheTTL),
		logger:  log,
	}
}

// chartResponse is the response structure of the Yahoo Finance chart API.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				ShortName          string  `json:"shortName"`
				LongName           string  `json:"longName"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// providerSymbol appends the configured exchange suffix, e.g. "RY" -> "RY.TO"
// for Toronto listings.
func (r *yahooFinanceRepository) providerSymbol(symbol string) string {
	if r.cfg.SymbolSuffix == "" {
		return symbol
	}
	return symbol + r.cfg.SymbolSuffix
}

func (r *yahooFinanceRepository) fetchChart(ctx context.Context, symbol, interval, rng string) (*chartResponse, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		r.cfg.BaseURL, url.PathEscape(r.providerSymbol(symbol)), interval, rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chart request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("chart read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart request: status %d", resp.StatusCode)
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("chart decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart api: empty result")
	}
	return &chart, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func (r *yahooFinanceRepository) Quote(ctx context.Context, symbol string) (float64, error) {
	cacheKey := "quote:" + symbol
	if cached, ok := r.cache.Get(cacheKey); ok {
		return cached.(float64), nil
	}

	chart, err := r.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		r.logger.DebugContext(ctx, "Quote fetch failed", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return 0, fmt.Errorf("%w: %s: %v", entity.ErrQuoteUnavailable, symbol, err)
	}

	result := chart.Chart.Result[0]
	price := result.Meta.RegularMarketPrice
	if price == 0 {
		// Fall back to the last non-null close of the day.
		if len(result.Indicators.Quote) > 0 {
			closes := result.Indicators.Quote[0].Close
			for i := len(closes) - 1; i >= 0; i-- {
				if closes[i] != nil {
					price = *closes[i]
					break
				}
			}
		}
	}
	if price == 0 {
		return 0, fmt.Errorf("%w: %s: no price data", entity.ErrQuoteUnavailable, symbol)
	}

	r.cache.Set(cacheKey, price, cache.DefaultExpiration)
	return price, nil
}

func (r *yahooFinanceRepository) History(ctx context.Context, symbol, interval, rng string) ([]entity.PriceBar, error) {
	chart, err := r.fetchChart(ctx, symbol, interval, rng)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", entity.ErrHistoryUnavailable, symbol, err)
	}

	result := chart.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: %s: no bars returned", entity.ErrHistoryUnavailable, symbol)
	}

	// The API occasionally returns ragged series; only indices covered by
	// every OHLC array are usable.
	quote := result.Indicators.Quote[0]
	n := len(result.Timestamp)
	for _, series := range [][]*float64{quote.Open, quote.High, quote.Low, quote.Close} {
		if len(series) < n {
			n = len(series)
		}
	}

	bars := make([]entity.PriceBar, 0, n)
	for i := 0; i < n; i++ {
		ts := result.Timestamp[i]
		o, h, l, c := deref(quote.Open[i]), deref(quote.High[i]), deref(quote.Low[i]), deref(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // null bars on holidays and halts
		}
		var v float64
		if i < len(quote.Volume) {
			v = deref(quote.Volume[i])
		}
		bars = append(bars, entity.PriceBar{
			Timestamp: time.Unix(ts, 0).UTC(),
			Open:      o,
			High:      h,
			Low:       l,
			Close:     c,
			Volume:    v,
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s: only null bars returned", entity.ErrHistoryUnavailable, symbol)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp.Before(bars[j].Timestamp) })
	return bars, nil
}

func (r *yahooFinanceRepository) CompanyName(ctx context.Context, symbol string) (string, error) {
	cacheKey := "name:" + symbol
	if cached, ok := r.cache.Get(cacheKey); ok {
		return cached.(string), nil
	}

	chart, err := r.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", entity.ErrQuoteUnavailable, symbol, err)
	}

	meta := chart.Chart.Result[0].Meta
	name := meta.ShortName
	if name == "" {
		name = meta.LongName
	}
	if name == "" {
		return "", fmt.Errorf("%w: %s: no listed name", entity.ErrQuoteUnavailable, symbol)
	}

	r.cache.Set(cacheKey, name, 24*time.Hour)
	return name, nil
}
