package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"stock-sniper/internal/entity"
	"stock-sniper/internal/scanner/dto"
	"stock-sniper/pkg/common"
	"stock-sniper/pkg/redis"

	goRedis "github.com/redis/go-redis/v9"
)

// ReportCacheRepository keeps the latest report hot in Redis and announces completed scans on a stream.
type ReportCacheRepository interface {
	SetLatest(ctx context.Context, report entity.Report, ttl time.Duration) error
	GetLatest(ctx context.Context) (*entity.Report, error)
	PublishCompleted(ctx context.Context, summary dto.ScanSummary) error
	SetBaselineGeneratedAt(ctx context.Context, at time.Time) error
}

// NewReportCacheRepository creates a Redis-backed report cache.
func NewReportCacheRepository(client *redis.Client, streamMaxLen int64) ReportCacheRepository {
	return &reportCacheRepository{client: client, streamMaxLen: streamMaxLen}
}

type reportCacheRepository struct {
	client       *redis.Client
	streamMaxLen int64
}

func (r *reportCacheRepository) SetLatest(ctx context.Context, report entity.Report, ttl time.Duration) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return r.client.Set(ctx, common.RedisKeyLatestReport, data, ttl).Err()
}

// GetLatest returns dto.ErrReportNotFound when nothing is cached.
func (r *reportCacheRepository) GetLatest(ctx context.Context) (*entity.Report, error) {
	data, err := r.client.Get(ctx, common.RedisKeyLatestReport).Bytes()
	if errors.Is(err, goRedis.Nil) {
		return nil, dto.ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	var report entity.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached report: %w", err)
	}
	return &report, nil
}

func (r *reportCacheRepository) PublishCompleted(ctx context.Context, summary dto.ScanSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal scan summary: %w", err)
	}
	return r.client.XAdd(ctx, &goRedis.XAddArgs{
		Stream: common.RedisStreamReportCompleted,
		MaxLen: r.streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"scan_id": summary.ScanID,
			"payload": payload,
		},
	}).Err()
}

func (r *reportCacheRepository) SetBaselineGeneratedAt(ctx context.Context, at time.Time) error {
	return r.client.Set(ctx, common.RedisKeyBaselineGeneratedAt, at.Format(time.RFC3339), 0).Err()
}
