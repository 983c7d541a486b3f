package repository

import (
	"context"
	"errors"

	"stock-sniper/internal/entity"
	"stock-sniper/internal/scanner/dto"

	"gorm.io/gorm"
)

// ReportRepository persists scan reports and their ranked items.
type ReportRepository interface {
	Create(ctx context.Context, report *entity.ScanReport) error
	FindLatest(ctx context.Context) (*entity.ScanReport, error)
	FindByScanID(ctx context.Context, scanID string) (*entity.ScanReport, error)
	List(ctx context.Context, limit int) ([]entity.ScanReport, error)
}

// NewReportRepository creates a new GORM-based report repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

type reportRepository struct {
	db *gorm.DB
}

// Create inserts the header and its items.
func (r *reportRepository) Create(ctx context.Context, report *entity.ScanReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepository) FindLatest(ctx context.Context) (*entity.ScanReport, error) {
	var report entity.ScanReport
	err := r.withItems(ctx).Order("finished_at DESC").First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, dto.ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) FindByScanID(ctx context.Context, scanID string) (*entity.ScanReport, error) {
	var report entity.ScanReport
	err := r.withItems(ctx).Where("scan_id = ?", scanID).First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, dto.ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// List returns the most recent report headers without items.
func (r *reportRepository) List(ctx context.Context, limit int) ([]entity.ScanReport, error) {
	var reports []entity.ScanReport
	if err := r.db.WithContext(ctx).Order("finished_at DESC").Limit(limit).Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("rank ASC")
	})
}
