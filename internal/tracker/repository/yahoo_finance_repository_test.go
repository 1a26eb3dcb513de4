package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-portfolio-tracker/internal/entity"
	"golang-portfolio-tracker/internal/tracker/config"
	"golang-portfolio-tracker/pkg/logger"
)

func newYahooTest(t *testing.T, handler http.HandlerFunc) MarketDataRepository {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log, err := logger.New("error", "console")
	require.NoError(t, err)

	return NewYahooFinanceRepository(config.MarketData{
		BaseURL:             server.URL,
		RequestTimeout:      5 * time.Second,
		MaxRequestPerMinute: 6000,
		QuoteCacheTTL:       time.Minute,
	}, log)
}

func chartJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, body)
	}
}

func TestYahooHistory_Bars(t *testing.T) {
	repo := newYahooTest(t, chartJSON(`{"chart":{"result":[{
		"meta":{"symbol":"RY","shortName":"Royal Bank of Canada","regularMarketPrice":101.5},
		"timestamp":[1700086400,1700000000,1700172800],
		"indicators":{"quote":[{
			"open":[101.0,100.0,null],
			"high":[102.0,101.0,null],
			"low":[100.5,99.0,null],
			"close":[101.5,100.5,null],
			"volume":[2000.0,1000.0,null]
		}]}}],"error":null}}`))

	bars, err := repo.History(context.Background(), "RY", "1d", "5d")
	require.NoError(t, err)

	// The null bar is dropped and the rest come back chronologically.
	require.Len(t, bars, 2)
	assert.True(t, bars[0].Timestamp.Before(bars[1].Timestamp))
	assert.Equal(t, 100.5, bars[0].Close)
	assert.Equal(t, 101.5, bars[1].Close)
}

func TestYahooHistory_RaggedSeries(t *testing.T) {
	// Shorter open/high/low arrays than timestamp/close: only the indices
	// covered by every series become bars.
	repo := newYahooTest(t, chartJSON(`{"chart":{"result":[{
		"meta":{"symbol":"RY","regularMarketPrice":101.5},
		"timestamp":[1700000000,1700086400],
		"indicators":{"quote":[{
			"open":[100.0],
			"high":[101.0],
			"low":[99.0],
			"close":[100.5,101.5],
			"volume":[1000.0,2000.0]
		}]}}],"error":null}}`))

	bars, err := repo.History(context.Background(), "RY", "1d", "5d")
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 100.0, bars[0].Open)
	assert.Equal(t, 100.5, bars[0].Close)
	assert.Equal(t, 1000.0, bars[0].Volume)
}

func TestYahooHistory_NoUsableBars(t *testing.T) {
	repo := newYahooTest(t, chartJSON(`{"chart":{"result":[{
		"meta":{"symbol":"RY","regularMarketPrice":101.5},
		"timestamp":[1700000000,1700086400],
		"indicators":{"quote":[{
			"open":[],"high":[],"low":[],"close":[],"volume":[]
		}]}}],"error":null}}`))

	_, err := repo.History(context.Background(), "RY", "1d", "5d")
	assert.ErrorIs(t, err, entity.ErrHistoryUnavailable)
}

func TestYahooHistory_APIError(t *testing.T) {
	repo := newYahooTest(t, chartJSON(`{"chart":{"result":null,
		"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))

	_, err := repo.History(context.Background(), "ZZZZ", "1d", "5d")
	assert.ErrorIs(t, err, entity.ErrHistoryUnavailable)
}

func TestYahooQuote(t *testing.T) {
	calls := 0
	repo := newYahooTest(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		fmt.Fprint(w, `{"chart":{"result":[{
			"meta":{"symbol":"RY","shortName":"Royal Bank of Canada","regularMarketPrice":120.5},
			"timestamp":[1700000000],
			"indicators":{"quote":[{"open":[120.0],"high":[121.0],"low":[119.0],"close":[120.5],"volume":[1000.0]}]}
		}],"error":null}}`)
	})

	price, err := repo.Quote(context.Background(), "RY")
	require.NoError(t, err)
	assert.Equal(t, 120.5, price)

	// Second read inside the TTL is served from cache.
	price, err = repo.Quote(context.Background(), "RY")
	require.NoError(t, err)
	assert.Equal(t, 120.5, price)
	assert.Equal(t, 1, calls)
}

func TestYahooQuote_FallsBackToLastClose(t *testing.T) {
	repo := newYahooTest(t, chartJSON(`{"chart":{"result":[{
		"meta":{"symbol":"RY","regularMarketPrice":0},
		"timestamp":[1700000000,1700003600],
		"indicators":{"quote":[{
			"open":[120.0,120.5],"high":[121.0,121.5],"low":[119.0,120.0],
			"close":[120.5,null],"volume":[1000.0,null]
		}]}}],"error":null}}`))

	price, err := repo.Quote(context.Background(), "RY")
	require.NoError(t, err)
	assert.Equal(t, 120.5, price)
}

func TestYahooQuote_ServerError(t *testing.T) {
	repo := newYahooTest(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := repo.Quote(context.Background(), "RY")
	assert.ErrorIs(t, err, entity.ErrQuoteUnavailable)
}

func TestYahooCompanyName(t *testing.T) {
	repo := newYahooTest(t, chartJSON(`{"chart":{"result":[{
		"meta":{"symbol":"RY","shortName":"","longName":"Royal Bank of Canada","regularMarketPrice":120.5},
		"timestamp":[1700000000],
		"indicators":{"quote":[{"open":[120.0],"high":[121.0],"low":[119.0],"close":[120.5],"volume":[1000.0]}]}
	}],"error":null}}`))

	name, err := repo.CompanyName(context.Background(), "RY")
	require.NoError(t, err)
	assert.Equal(t, "Royal Bank of Canada", name)
}

func TestYahooProviderSymbolSuffix(t *testing.T) {
	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		fmt.Fprint(w, `{"chart":{"result":[{
			"meta":{"symbol":"RY.TO","regularMarketPrice":120.5},
			"timestamp":[1700000000],
			"indicators":{"quote":[{"open":[120.0],"high":[121.0],"low":[119.0],"close":[120.5],"volume":[1000.0]}]}
		}],"error":null}}`)
	}))
	t.Cleanup(server.Close)

	log, err := logger.New("error", "console")
	require.NoError(t, err)
	repo := NewYahooFinanceRepository(config.MarketData{
		BaseURL:             server.URL,
		SymbolSuffix:        ".TO",
		RequestTimeout:      5 * time.Second,
		MaxRequestPerMinute: 6000,
		QuoteCacheTTL:       time.Minute,
	}, log)

	_, err = repo.Quote(context.Background(), "RY")
	require.NoError(t, err)
	assert.Equal(t, "/v8/finance/chart/RY.TO", requestedPath)
}
