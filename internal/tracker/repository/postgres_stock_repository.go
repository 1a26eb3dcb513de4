package repository

import (
	"context"
	"errors"
	"fmt"

	"golang-portfolio-tracker/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// postgresStockRepository is the gorm-backed StockRepository.
type postgresStockRepository struct {
	db *gorm.DB
}

// NewPostgresStockRepository creates a Postgres-backed StockRepository.
func NewPostgresStockRepository(db *gorm.DB) StockRepository {
	return &postgresStockRepository{db: db}
}

func (r *postgresStockRepository) Get(ctx context.Context, symbol string) (*entity.Stock, error) {
	var stock entity.Stock
	err := r.db.WithContext(ctx).First(&stock, "symbol = ?", symbol).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", entity.ErrStoreUnavailable, err)
	}
	return &stock, nil
}

func (r *postgresStockRepository) Create(ctx context.Context, stock *entity.Stock) error {
	err := r.db.WithContext(ctx).Create(stock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return entity.ErrDuplicateSymbol
		}
		return fmt.Errorf("%w: %v", entity.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *postgresStockRepository) Put(ctx context.Context, stock *entity.Stock) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		UpdateAll: true,
	}).Create(stock).Error
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *postgresStockRepository) Delete(ctx context.Context, symbol string) error {
	res := r.db.WithContext(ctx).Delete(&entity.Stock{}, "symbol = ?", symbol)
	if res.Error != nil {
		return fmt.Errorf("%w: %v", entity.ErrStoreUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// SetBreached updates the flag with a single-column UPDATE so a concurrent
// edit of the other fields is never overwritten.
func (r *postgresStockRepository) SetBreached(ctx context.Context, symbol string, breached bool) error {
	res := r.db.WithContext(ctx).Model(&entity.Stock{}).
		Where("symbol = ?", symbol).
		Update("breached", breached)
	if res.Error != nil {
		return fmt.Errorf("%w: %v", entity.ErrStoreUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *postgresStockRepository) List(ctx context.Context) ([]entity.Stock, error) {
	var stocks []entity.Stock
	if err := r.db.WithContext(ctx).Order("symbol").Find(&stocks).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrStoreUnavailable, err)
	}
	return stocks, nil
}
