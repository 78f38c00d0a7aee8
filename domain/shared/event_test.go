package shared

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	name        string
	aggregateID string
	occurredOn  time.Time
}

func (e testEvent) EventName() string      { return e.name }
func (e testEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e testEvent) GetAggregateID() string { return e.aggregateID }

func newTestEvent(name string) testEvent {
	return testEvent{name: name, aggregateID: "agg-1", occurredOn: time.Now()}
}

func TestValidateEvent(t *testing.T) {
	assert.Error(t, ValidateEvent(nil))
	assert.Error(t, ValidateEvent(testEvent{aggregateID: "a", occurredOn: time.Now()}))
	assert.Error(t, ValidateEvent(testEvent{name: "x", occurredOn: time.Now()}))
	assert.Error(t, ValidateEvent(testEvent{name: "x", aggregateID: "a"}))
	assert.NoError(t, ValidateEvent(newTestEvent("x")))
}

func TestEventBus_PublishToSubscribersAndWildcard(t *testing.T) {
	bus := NewEventBus()
	var got []string
	record := func(prefix string) func(DomainEvent) error {
		return func(e DomainEvent) error {
			got = append(got, prefix+":"+e.EventName())
			return nil
		}
	}
	require.NoError(t, bus.Subscribe("cat.added", NewFuncHandler("specific", record("specific"))))
	require.NoError(t, bus.Subscribe(WildcardEvent, NewFuncHandler("all", record("all"))))

	require.NoError(t, bus.Publish(newTestEvent("cat.added")))
	require.NoError(t, bus.Publish(newTestEvent("cat.removed")))

	assert.Equal(t, []string{"specific:cat.added", "all:cat.added", "all:cat.removed"}, got)
}

func TestEventBus_AllHandlersRunAndErrorsAreJoined(t *testing.T) {
	bus := NewEventBus()
	boom := errors.New("boom")
	var secondCalled bool

	require.NoError(t, bus.Subscribe("e", NewFuncHandler("first", func(DomainEvent) error { return boom })))
	require.NoError(t, bus.Subscribe("e", NewFuncHandler("second", func(DomainEvent) error {
		secondCalled = true
		return nil
	})))

	err := bus.Publish(newTestEvent("e"))
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "handler first")
	assert.True(t, secondCalled)
}

func TestEventBus_SubscribeValidation(t *testing.T) {
	bus := NewEventBus()
	h := NewFuncHandler("h", func(DomainEvent) error { return nil })

	assert.Error(t, bus.Subscribe("", h))
	assert.Error(t, bus.Subscribe("e", nil))
	require.NoError(t, bus.Subscribe("e", h))
	assert.Error(t, bus.Subscribe("e", h), "duplicate handler name")

	require.NoError(t, bus.SubscribeAll(NewFuncHandler("multi", func(DomainEvent) error { return nil }), "a", "b"))
	assert.Error(t, bus.Publish(testEvent{name: "a"}), "invalid events are rejected")
}

func TestNewFuncHandler_GeneratesName(t *testing.T) {
	h := NewFuncHandler("", func(DomainEvent) error { return nil })
	assert.NotEmpty(t, h.Name())
}
