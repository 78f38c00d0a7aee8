package rdb

import (
	"context"
	"fmt"
	"time"

	"rehoming/infrastructure/messaging"
	"rehoming/infrastructure/persistence/rdb/po"
	"rehoming/pkg/logger"
	"rehoming/pkg/metrics"

	"go.uber.org/zap"
)

const DefaultProcessingTimeout = 5 * time.Minute

// OutboxWorker 轮询 outbox 表并把事件交给 Publisher
type OutboxWorker struct {
	repository        *OutboxRepository
	publisher         messaging.Publisher
	metrics           *metrics.Metrics
	pollInterval      time.Duration
	batchSize         int
	maxRetries        int
	processingTimeout time.Duration
}

func NewOutboxWorker(
	repository *OutboxRepository,
	publisher messaging.Publisher,
	pollInterval time.Duration,
	batchSize int,
	maxRetries int,
) (*OutboxWorker, error) {
	if repository == nil {
		return nil, fmt.Errorf("outbox repository is required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher is required")
	}
	if pollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive")
	}
	if maxRetries <= 0 {
		return nil, fmt.Errorf("max retries must be positive")
	}

	return &OutboxWorker{
		repository:        repository,
		publisher:         publisher,
		pollInterval:      pollInterval,
		batchSize:         batchSize,
		maxRetries:        maxRetries,
		processingTimeout: DefaultProcessingTimeout,
	}, nil
}

// WithProcessingTimeout 非正值保持默认
func (w *OutboxWorker) WithProcessingTimeout(d time.Duration) *OutboxWorker {
	if d > 0 {
		w.processingTimeout = d
	}
	return w
}

// WithMetrics 可选
func (w *OutboxWorker) WithMetrics(m *metrics.Metrics) *OutboxWorker {
	w.metrics = m
	return w
}

func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	logger.Info("Outbox worker started",
		zap.Duration("poll_interval", w.pollInterval),
		zap.Int("batch_size", w.batchSize),
	)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.ProcessBatch(ctx); err != nil {
				logger.Error("Outbox batch processing failed", zap.Error(err))
			}
		}
	}
}

// ProcessBatch 处理一批事件，返回成功发布的数量
func (w *OutboxWorker) ProcessBatch(ctx context.Context) (int, error) {
	reclaimed, err := w.repository.ReclaimStaleEvents(ctx, w.processingTimeout, w.maxRetries)
	if err != nil {
		return 0, err
	}
	if reclaimed > 0 {
		logger.Warn("Reclaimed outbox events stuck in processing",
			zap.Int64("count", reclaimed),
			zap.Duration("timeout", w.processingTimeout),
		)
	}

	events, err := w.repository.GetPendingEvents(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, event := range events {
		if err := w.repository.MarkEventProcessing(ctx, event.ID); err != nil {
			logger.Warn("Skip outbox event due to lock contention",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
			continue
		}

		if err := w.publisher.Publish(ctx, toMessage(event)); err != nil {
			w.metrics.IncOutboxResult("failed")
			status, failErr := w.repository.MarkEventFailed(ctx, event.ID, w.maxRetries)
			if failErr != nil {
				logger.Error("Failed to mark outbox event as failed",
					zap.String("event_id", event.ID),
					zap.Error(failErr),
				)
				continue
			}
			logger.Warn("Outbox event publish failed",
				zap.String("event_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.String("status", string(status)),
				zap.Error(err),
			)
			continue
		}

		if err := w.repository.MarkEventPublished(ctx, event.ID); err != nil {
			logger.Error("Failed to mark outbox event as published",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
			continue
		}
		w.metrics.IncOutboxResult("published")
		published++
	}

	return published, nil
}

func toMessage(event *po.OutboxEventPO) messaging.Message {
	return messaging.Message{
		ID:          event.ID,
		EventType:   event.EventType,
		AggregateID: event.AggregateID,
		Payload:     event.Payload,
	}
}
