package rdb

import (
	"context"
	"fmt"

	"rehoming/domain/shared"
	"rehoming/infrastructure/persistence"
	"rehoming/infrastructure/persistence/retry"
	"rehoming/pkg/logger"
	"rehoming/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UnitOfWork implements the Unit of Work pattern with GORM
// It manages database transactions and collects domain events from aggregates
type UnitOfWork struct {
	db               *gorm.DB
	aggregates       []shared.AggregateRoot
	outboxRepository *OutboxRepository
	retryPolicy      retry.Policy
	dispatcher       shared.EventDispatcher
	metrics          *metrics.Metrics
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{
		db:               db,
		aggregates:       make([]shared.AggregateRoot, 0),
		outboxRepository: NewOutboxRepository(db),
		retryPolicy:      retry.DefaultPolicy,
	}
}

func (u *UnitOfWork) SetRetryPolicy(policy retry.Policy) {
	u.retryPolicy = policy
}

// SetDispatcher 提交成功后把事件交给进程内订阅者
func (u *UnitOfWork) SetDispatcher(dispatcher shared.EventDispatcher) {
	u.dispatcher = dispatcher
}

func (u *UnitOfWork) SetMetrics(m *metrics.Metrics) {
	u.metrics = m
}

// Execute runs the business logic inside a database transaction
//  1. Begins a transaction and injects it into context for repositories to use
//  2. Executes the business function
//  3. Writes events from registered aggregates to the outbox table in the same transaction
//  4. Commits on success, rolls back on error
//  5. Retries the whole attempt on retryable errors (concurrent modification, deadlocks)
//  6. After commit, dispatches events in-process; handler failures are only logged
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	var committed []shared.DomainEvent

	executeOnce := func(ctx context.Context) error {
		u.aggregates = make([]shared.AggregateRoot, 0)
		committed = nil

		tx := u.db.WithContext(ctx).Begin()
		if tx.Error != nil {
			return fmt.Errorf("failed to begin transaction: %w", tx.Error)
		}

		txCtx := persistence.ContextWithTx(ctx, tx)

		if err := fn(txCtx); err != nil {
			tx.Rollback()
			return err
		}

		var events []shared.DomainEvent
		for _, agg := range u.aggregates {
			for _, event := range agg.PullEvents() {
				if err := u.outboxRepository.SaveEvent(txCtx, event); err != nil {
					tx.Rollback()
					return fmt.Errorf("failed to save event to outbox: %w", err)
				}
				events = append(events, event)
			}
		}

		if err := tx.Commit().Error; err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		committed = events
		return nil
	}

	if err := retry.Do(ctx, u.retryPolicy, executeOnce); err != nil {
		return err
	}

	u.dispatch(ctx, committed)
	return nil
}

func (u *UnitOfWork) dispatch(ctx context.Context, events []shared.DomainEvent) {
	for _, event := range events {
		u.metrics.IncDomainEvent(event.EventName())
		if u.dispatcher == nil {
			continue
		}
		if err := u.dispatcher.Publish(event); err != nil {
			u.metrics.IncEventHandlerError(event.EventName())
			logger.FromContext(ctx).Warn("Event handler failed after commit",
				zap.String("event", event.EventName()),
				zap.String("aggregate_id", event.GetAggregateID()),
				zap.Error(err),
			)
		}
	}
}

func (u *UnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *UnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *UnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

var _ shared.UnitOfWork = (*UnitOfWork)(nil)
