package rdb

import (
	"context"
	"fmt"
	"time"

	"rehoming/domain/shared"
	"rehoming/infrastructure/persistence"
	"rehoming/infrastructure/persistence/rdb/po"

	"gorm.io/gorm"
)

// OutboxRepository GORM implementation of outbox repository
// Implements transactional outbox pattern for reliable domain event publishing
type OutboxRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *OutboxRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// SaveEvent Save domain event to outbox table
// Uses transaction from context when called within UoW.Execute()
func (r *OutboxRepository) SaveEvent(ctx context.Context, event shared.DomainEvent) error {
	if err := shared.ValidateEvent(event); err != nil {
		return fmt.Errorf("invalid domain event: %w", err)
	}

	outboxPO, err := po.FromDomainEvent(event, r.now())
	if err != nil {
		return fmt.Errorf("failed to convert domain event: %w", err)
	}
	if err := r.getDB(ctx).Create(outboxPO).Error; err != nil {
		return fmt.Errorf("failed to save event to outbox: %w", err)
	}
	return nil
}

// GetPendingEvents 按写入顺序取待发布事件
func (r *OutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*po.OutboxEventPO, error) {
	var events []*po.OutboxEventPO
	err := r.getDB(ctx).Where("status = ?", string(po.EventStatusPending)).
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}
	return events, nil
}

// MarkEventProcessing 只有 PENDING 的事件能被领取，防止多个 worker 重复发布
func (r *OutboxRepository) MarkEventProcessing(ctx context.Context, eventID string) error {
	result := r.getDB(ctx).Model(&po.OutboxEventPO{}).
		Where("id = ? AND status = ?", eventID, string(po.EventStatusPending)).
		Updates(map[string]any{
			"status":     string(po.EventStatusProcessing),
			"updated_at": r.now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event not found or already being processed: %s", eventID)
	}
	return nil
}

func (r *OutboxRepository) MarkEventPublished(ctx context.Context, eventID string) error {
	result := r.getDB(ctx).Model(&po.OutboxEventPO{}).
		Where("id = ?", eventID).
		Updates(map[string]any{
			"status":     string(po.EventStatusPublished),
			"updated_at": r.now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event not found: %s", eventID)
	}
	return nil
}

// ReclaimStaleEvents 把 PROCESSING 超时的事件放回 PENDING 并计一次重试
// 重试次数用完的直接置为 FAILED；返回被回收的事件数
func (r *OutboxRepository) ReclaimStaleEvents(ctx context.Context, timeout time.Duration, maxRetries int) (int64, error) {
	cutoff := r.now().Add(-timeout)
	result := r.getDB(ctx).Model(&po.OutboxEventPO{}).
		Where("status = ? AND updated_at < ?", string(po.EventStatusProcessing), cutoff).
		Updates(map[string]any{
			"status": gorm.Expr("CASE WHEN retry_count + 1 >= ? THEN ? ELSE ? END",
				maxRetries, string(po.EventStatusFailed), string(po.EventStatusPending)),
			"retry_count": gorm.Expr("retry_count + 1"),
			"updated_at":  r.now(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to reclaim stale outbox events: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// MarkEventFailed 重试次数未用完时回到 PENDING，否则终止为 FAILED
func (r *OutboxRepository) MarkEventFailed(ctx context.Context, eventID string, maxRetries int) (po.EventStatus, error) {
	db := r.getDB(ctx)

	var event po.OutboxEventPO
	if err := db.First(&event, "id = ?", eventID).Error; err != nil {
		return "", fmt.Errorf("failed to find event: %w", err)
	}

	newRetryCount := event.RetryCount + 1
	newStatus := po.EventStatusFailed
	if newRetryCount < maxRetries {
		newStatus = po.EventStatusPending
	}

	err := db.Model(&po.OutboxEventPO{}).
		Where("id = ?", eventID).
		Updates(map[string]any{
			"status":      string(newStatus),
			"retry_count": newRetryCount,
			"updated_at":  r.now(),
		}).Error
	if err != nil {
		return "", err
	}
	return newStatus, nil
}

var _ shared.OutboxRepository = (*OutboxRepository)(nil)
