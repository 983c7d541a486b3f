package repository

import (
	"context"
	"fmt"

	"stock-sniper/internal/entity"

	"gorm.io/gorm"
)

// BaselineRepository persists the baseline set so a restart does not require a rebuild.
type BaselineRepository interface {
	ReplaceAll(ctx context.Context, baselines []entity.InstrumentBaseline) error
	FindAll(ctx context.Context) ([]entity.InstrumentBaseline, error)
}

// NewBaselineRepository creates a new GORM-based baseline repository.
func NewBaselineRepository(db *gorm.DB) BaselineRepository {
	return &baselineRepository{db: db}
}

type baselineRepository struct {
	db *gorm.DB
}

// ReplaceAll supersedes every stored baseline within one transaction.
func (r *baselineRepository) ReplaceAll(ctx context.Context, baselines []entity.InstrumentBaseline) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entity.InstrumentBaseline{}).Error; err != nil {
			return fmt.Errorf("failed to clear baselines: %w", err)
		}
		if len(baselines) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(baselines, 500).Error; err != nil {
			return fmt.Errorf("failed to insert baselines: %w", err)
		}
		return nil
	})
}

// FindAll returns every stored baseline ordered by code.
func (r *baselineRepository) FindAll(ctx context.Context) ([]entity.InstrumentBaseline, error) {
	var baselines []entity.InstrumentBaseline
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&baselines).Error; err != nil {
		return nil, err
	}
	return baselines, nil
}
