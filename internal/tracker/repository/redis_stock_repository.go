package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"golang-portfolio-tracker/internal/entity"
	redisPkg "golang-portfolio-tracker/pkg/redis"

	"github.com/redis/go-redis/v9"
)

// redisStockRepository stores each holding as a field of a single Redis hash,
// keyed by symbol. HSetNX gives an atomic create, so duplicate detection does
// not race with concurrent adds.
type redisStockRepository struct {
	client *redisPkg.Client
	key    string
}

// NewRedisStockRepository creates a Redis-backed StockRepository. keyPrefix
// namespaces the hash, e.g. "portfolio" stores under "portfolio:stocks".
func NewRedisStockRepository(client *redisPkg.Client, keyPrefix string) StockRepository {
	return &redisStockRepository{
		client: client,
		key:    fmt.Sprintf("%s:stocks", keyPrefix),
	}
}

func (r *redisStockRepository) Get(ctx context.Context, symbol string) (*entity.Stock, error) {
	data, err := r.client.HGet(ctx, r.key, symbol).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", entity.ErrStoreUnavailable, err)
	}

	var stock entity.Stock
	if err := json.Unmarshal([]byte(data), &stock); err != nil {
		return nil, fmt.Errorf("failed to decode stock record %s: %w", symbol, err)
	}
	return &stock, nil
}

func (r *redisStockRepository) Create(ctx context.Context, stock *entity.Stock) error {
	data, err := json.Marshal(stock)
	if err != nil {
		return fmt.Errorf("failed to encode stock record %s: %w", stock.Symbol, err)
	}

	ok, err := r.client.HSetNX(ctx, r.key, stock.Symbol, data).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrStoreUnavailable, err)
	}
	if !ok {
		return entity.ErrDuplicateSymbol
	}
	return nil
}

func (r *redisStockRepository) Put(ctx context.Context, stock *entity.Stock) error {
	data, err := json.Marshal(stock)
	if err != nil {
		return fmt.Errorf("failed to encode stock record %s: %w", stock.Symbol, err)
	}

	if err := r.client.HSet(ctx, r.key, stock.Symbol, data).Err(); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrStoreUnavailable, err)
	}
	return nil
}

// SetBreached rewrites only the breached flag of the stored record inside a
// WATCH transaction, so a write racing with the read aborts instead of being
// clobbered; the monitor retries on its next cycle.
func (r *redisStockRepository) SetBreached(ctx context.Context, symbol string, breached bool) error {
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.HGet(ctx, r.key, symbol).Result()
		if err == redis.Nil {
			return entity.ErrNotFound
		}
		if err != nil {
			return err
		}

		var stock entity.Stock
		if err := json.Unmarshal([]byte(data), &stock); err != nil {
			return fmt.Errorf("failed to decode stock record %s: %w", symbol, err)
		}
		stock.Breached = breached

		payload, err := json.Marshal(stock)
		if err != nil {
			return fmt.Errorf("failed to encode stock record %s: %w", symbol, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, r.key, symbol, payload)
			return nil
		})
		return err
	}, r.key)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, entity.ErrNotFound):
		return err
	case errors.Is(err, redis.TxFailedErr):
		return fmt.Errorf("%w: concurrent write on %s", entity.ErrStoreUnavailable, symbol)
	default:
		return fmt.Errorf("%w: %v", entity.ErrStoreUnavailable, err)
	}
}

func (r *redisStockRepository) Delete(ctx context.Context, symbol string) error {
	n, err := r.client.HDel(ctx, r.key, symbol).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrStoreUnavailable, err)
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *redisStockRepository) List(ctx context.Context) ([]entity.Stock, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrStoreUnavailable, err)
	}

	stocks := make([]entity.Stock, 0, len(fields))
	for symbol, data := range fields {
		var stock entity.Stock
		if err := json.Unmarshal([]byte(data), &stock); err != nil {
			return nil, fmt.Errorf("failed to decode stock record %s: %w", symbol, err)
		}
		stocks = append(stocks, stock)
	}

	sort.Slice(stocks, func(i, j int) bool { return stocks[i].Symbol < stocks[j].Symbol })
	return stocks, nil
}
