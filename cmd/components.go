package cmd

import (
	"fmt"

	personapp "rehoming/application/person"
	"rehoming/config"
	"rehoming/domain/person"
	"rehoming/domain/shared"
	"rehoming/infrastructure/persistence/mocks"
	"rehoming/infrastructure/persistence/rdb"
	"rehoming/infrastructure/persistence/retry"
	"rehoming/pkg/logger"
	"rehoming/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Components API 进程和 worker 进程共用的依赖
// DB 为 nil 表示内存存储（database.driver=memory），此时没有 outbox
type Components struct {
	DB            *gorm.DB
	PersonRepo    person.Repository
	UoWFactory    shared.UnitOfWorkFactory
	EventBus      *shared.EventBus
	Metrics       *metrics.Metrics
	Registry      *prometheus.Registry
	PersonService *personapp.ApplicationService
}

func NewComponents(cfg *config.Config) (*Components, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(cfg.Metrics.Namespace, registry)

	bus := shared.NewEventBus()
	if err := bus.Subscribe(shared.WildcardEvent, shared.NewFuncHandler("event-log", logDomainEvent)); err != nil {
		return nil, err
	}
	if err := bus.SubscribeAll(shared.NewFuncHandler("advertisement-audit", auditAdvertisement),
		advertisementLifecycleEvents...); err != nil {
		return nil, err
	}

	c := &Components{
		EventBus: bus,
		Metrics:  m,
		Registry: registry,
	}

	if cfg.Database.Driver == "memory" {
		logger.Warn("Using in-memory persistence; data is lost on restart and no outbox is written")
		c.PersonRepo = mocks.NewMockPersonRepository()
		c.UoWFactory = mocks.NewMockUnitOfWorkFactory(bus)
	} else {
		db, err := rdb.NewConfig(cfg.Database).Connect()
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := rdb.AutoMigrate(db); err != nil {
				return nil, fmt.Errorf("failed to auto migrate: %w", err)
			}
		}
		c.DB = db
		c.PersonRepo = rdb.NewPersonRepository(db)
		c.UoWFactory = rdb.NewUnitOfWorkFactory(db, retry.PolicyFromConfig(cfg.Database.Retry), bus, m)
	}

	c.PersonService = personapp.NewApplicationService(c.PersonRepo, c.UoWFactory, newCalculator(cfg.Priority))
	return c, nil
}

// Close 释放数据库连接
func (c *Components) Close() error {
	if c.DB == nil {
		return nil
	}
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newCalculator(cfg config.PriorityConfig) person.PriorityScoreCalculator {
	return person.NewDefaultPriorityScoreCalculator(person.PriorityWeights{
		Urgency:           cfg.UrgencyWeight,
		Age:               cfg.AgeWeight,
		Behavior:          cfg.BehaviorWeight,
		Health:            cfg.HealthWeight,
		NotCastratedBonus: cfg.NotCastratedBonus,
	})
}

func logDomainEvent(event shared.DomainEvent) error {
	logger.Debug("Domain event committed",
		zap.String("event", event.EventName()),
		zap.String("aggregate_id", event.GetAggregateID()),
		zap.Time("occurred_on", event.OccurredOn()),
	)
	return nil
}

// 广告状态变化在 Info 级别留痕，其余事件只在 Debug 可见
var advertisementLifecycleEvents = []string{
	person.EventAdvertisementCreated,
	person.EventAdvertisementActivated,
	person.EventAdvertisementClosed,
	person.EventAdvertisementExpired,
	person.EventAdvertisementRefreshed,
	person.EventAdvertisementRemoved,
}

func auditAdvertisement(event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event", event.EventName()),
		zap.String("person_id", event.GetAggregateID()),
	}
	if ad, ok := event.(interface{ AdvertisementID() string }); ok {
		fields = append(fields, zap.String("advertisement_id", ad.AdvertisementID()))
	}
	logger.Info("Advertisement lifecycle", fields...)
	return nil
}
