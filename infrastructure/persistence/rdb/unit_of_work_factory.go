package rdb

import (
	"rehoming/domain/shared"
	"rehoming/infrastructure/persistence/retry"
	"rehoming/pkg/metrics"

	"gorm.io/gorm"
)

// UnitOfWorkFactory 每个命令一个 UnitOfWork，互不共享注册的聚合
type UnitOfWorkFactory struct {
	db          *gorm.DB
	retryPolicy retry.Policy
	dispatcher  shared.EventDispatcher
	metrics     *metrics.Metrics
}

func NewUnitOfWorkFactory(db *gorm.DB, retryPolicy retry.Policy, dispatcher shared.EventDispatcher, m *metrics.Metrics) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		db:          db,
		retryPolicy: retryPolicy,
		dispatcher:  dispatcher,
		metrics:     m,
	}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	uow := NewUnitOfWork(f.db)
	uow.SetRetryPolicy(f.retryPolicy)
	uow.SetDispatcher(f.dispatcher)
	uow.SetMetrics(f.metrics)
	return uow
}

var _ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
