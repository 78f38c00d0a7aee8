package cmd

import (
	"context"
	"fmt"
	"time"

	personapp "rehoming/application/person"
	"rehoming/pkg/logger"
	"rehoming/pkg/metrics"

	"go.uber.org/zap"
)

// ExpirySweeper 定期把到期的 Active 广告置为 Expired
type ExpirySweeper struct {
	service   *personapp.ApplicationService
	metrics   *metrics.Metrics
	interval  time.Duration
	batchSize int
}

func NewExpirySweeper(service *personapp.ApplicationService, m *metrics.Metrics, interval time.Duration, batchSize int) (*ExpirySweeper, error) {
	if service == nil {
		return nil, fmt.Errorf("person service is required")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("sweep interval must be positive")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive")
	}
	return &ExpirySweeper{
		service:   service,
		metrics:   m,
		interval:  interval,
		batchSize: batchSize,
	}, nil
}

func (s *ExpirySweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
			logger.Error("Expiry sweep failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Sweep 处理一批；批次满时继续下一批，直到没有到期广告
func (s *ExpirySweeper) Sweep(ctx context.Context) error {
	for {
		result, err := s.service.ExpireDueAdvertisements(ctx, s.batchSize)
		if err != nil {
			return err
		}
		s.metrics.AddExpiredAdvertisements(result.AdvertisementsExpired)
		if result.AdvertisementsExpired > 0 || result.Failures > 0 {
			logger.Info("Expired advertisements",
				zap.Int("persons", result.PersonsScanned),
				zap.Int("expired", result.AdvertisementsExpired),
				zap.Int("failures", result.Failures),
			)
		}
		// 有失败时不再继续，避免反复扫描同一批失败的人员
		if result.PersonsScanned < s.batchSize || result.Failures > 0 {
			return nil
		}
	}
}
