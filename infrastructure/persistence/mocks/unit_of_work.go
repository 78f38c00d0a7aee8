package mocks

import (
	"context"
	"sync"

	"rehoming/domain/shared"
	"rehoming/pkg/logger"

	"go.uber.org/zap"
)

// MockUnitOfWork is a mock implementation of UnitOfWork for testing
// It doesn't use real transactions but still collects events and dispatches them after fn succeeds
type MockUnitOfWork struct {
	aggregates []shared.AggregateRoot
	factory    *MockUnitOfWorkFactory
}

func (u *MockUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	u.aggregates = make([]shared.AggregateRoot, 0)

	if err := fn(ctx); err != nil {
		return err
	}

	var events []shared.DomainEvent
	for _, agg := range u.aggregates {
		events = append(events, agg.PullEvents()...)
	}
	u.factory.record(events)

	if u.factory.dispatcher == nil {
		return nil
	}
	for _, event := range events {
		if err := u.factory.dispatcher.Publish(event); err != nil {
			logger.FromContext(ctx).Warn("Event handler failed after commit",
				zap.String("event", event.EventName()),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (u *MockUnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *MockUnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *MockUnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// MockUnitOfWorkFactory 同时充当内存 outbox：记录所有提交的事件
type MockUnitOfWorkFactory struct {
	dispatcher shared.EventDispatcher
	mu         sync.Mutex
	events     []shared.DomainEvent
}

func NewMockUnitOfWorkFactory(dispatcher shared.EventDispatcher) *MockUnitOfWorkFactory {
	return &MockUnitOfWorkFactory{dispatcher: dispatcher}
}

func (f *MockUnitOfWorkFactory) New() shared.UnitOfWork {
	return &MockUnitOfWork{factory: f}
}

func (f *MockUnitOfWorkFactory) record(events []shared.DomainEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, events...)
}

// Events 已提交的事件
func (f *MockUnitOfWorkFactory) Events() []shared.DomainEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]shared.DomainEvent(nil), f.events...)
}

// EventNames 已提交事件的名字，按提交顺序
func (f *MockUnitOfWorkFactory) EventNames() []string {
	events := f.Events()
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.EventName()
	}
	return names
}

// Reset 清空记录的事件
func (f *MockUnitOfWorkFactory) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = nil
}

var (
	_ shared.UnitOfWork        = (*MockUnitOfWork)(nil)
	_ shared.UnitOfWorkFactory = (*MockUnitOfWorkFactory)(nil)
)
