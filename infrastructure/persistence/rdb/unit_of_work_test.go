package rdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"rehoming/domain/person"
	"rehoming/domain/shared"
	"rehoming/infrastructure/persistence/rdb/po"
	"rehoming/infrastructure/persistence/retry"
	"rehoming/pkg/logger"
	"rehoming/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func fastRetry() retry.Policy {
	cfg := retry.DefaultPolicy
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	return cfg
}

func TestUnitOfWork_CommitWritesOutboxAndDispatches(t *testing.T) {
	db := newTestDB(t)
	repo := NewPersonRepository(db)
	bus := shared.NewEventBus()
	m := metrics.New("test", prometheus.NewRegistry())

	var received []string
	require.NoError(t, bus.Subscribe(shared.WildcardEvent, shared.NewFuncHandler("collector", func(e shared.DomainEvent) error {
		received = append(received, e.EventName())
		return nil
	})))

	factory := NewUnitOfWorkFactory(db, fastRetry(), bus, m)
	p := newPerson(t, "uow_owner", "uow@example.com", "+48 600 100 300")

	uow := factory.New()
	err := uow.Execute(context.Background(), func(ctx context.Context) error {
		addCat(t, p, "Filemon")
		if err := repo.Save(ctx, p); err != nil {
			return err
		}
		uow.RegisterNew(p)
		return nil
	})
	require.NoError(t, err)

	var rows []po.OutboxEventPO
	require.NoError(t, db.Order("created_at ASC, id ASC").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, person.EventPersonRegistered, rows[0].EventType)
	assert.Equal(t, person.EventCatAdded, rows[1].EventType)
	assert.Equal(t, p.ID(), rows[1].AggregateID)

	data, err := rows[1].ToEventData()
	require.NoError(t, err)
	assert.Equal(t, person.EventCatAdded, data["event_name"])
	assert.Contains(t, data, "data")

	assert.Equal(t, []string{person.EventPersonRegistered, person.EventCatAdded}, received)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DomainEvents.WithLabelValues(person.EventCatAdded)))
}

func TestUnitOfWork_RollbackOnError(t *testing.T) {
	db := newTestDB(t)
	repo := NewPersonRepository(db)
	dispatched := 0
	bus := shared.NewEventBus()
	require.NoError(t, bus.Subscribe(shared.WildcardEvent, shared.NewFuncHandler("counter", func(shared.DomainEvent) error {
		dispatched++
		return nil
	})))

	uow := NewUnitOfWorkFactory(db, fastRetry(), bus, nil).New()
	p := newPerson(t, "rollback", "rollback@example.com", "+48 600 100 301")
	boom := errors.New("boom")

	err := uow.Execute(context.Background(), func(ctx context.Context) error {
		require.NoError(t, repo.Save(ctx, p))
		uow.RegisterNew(p)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var persons, events int64
	require.NoError(t, db.Model(&po.PersonPO{}).Count(&persons).Error)
	require.NoError(t, db.Model(&po.OutboxEventPO{}).Count(&events).Error)
	assert.Zero(t, persons)
	assert.Zero(t, events)
	assert.Zero(t, dispatched)
}

func TestUnitOfWork_RetriesConcurrentModification(t *testing.T) {
	db := newTestDB(t)
	uow := NewUnitOfWorkFactory(db, fastRetry(), nil, nil).New()

	attempts := 0
	err := uow.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return person.NewConcurrentModificationError("p1")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestUnitOfWork_HandlerFailureDoesNotFailCommand(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	defer logger.SetForTest(zap.New(core))()

	db := newTestDB(t)
	repo := NewPersonRepository(db)
	bus := shared.NewEventBus()
	require.NoError(t, bus.Subscribe(person.EventPersonRegistered, shared.NewFuncHandler("broken", func(shared.DomainEvent) error {
		return errors.New("mail server down")
	})))

	uow := NewUnitOfWorkFactory(db, fastRetry(), bus, nil).New()
	p := newPerson(t, "handler", "handler@example.com", "+48 600 100 302")
	err := uow.Execute(context.Background(), func(ctx context.Context) error {
		if err := repo.Save(ctx, p); err != nil {
			return err
		}
		uow.RegisterNew(p)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("Event handler failed after commit").Len())

	_, err = repo.FindByID(context.Background(), p.ID())
	assert.NoError(t, err)
}
