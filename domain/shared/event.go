package shared

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// DomainEvent 领域事件：描述一次已完成状态迁移的具名事实
type DomainEvent interface {
	EventName() string
	OccurredOn() time.Time
	GetAggregateID() string
}

// PayloadCarrier 可选接口：事件暴露可序列化的负载，供 outbox 和外部发布器使用
type PayloadCarrier interface {
	Payload() map[string]any
}

// EventHandler 事件处理器
type EventHandler interface {
	Handle(event DomainEvent) error
	Name() string
}

// EventDispatcher 提交后分发领域事件的抽象（进程内订阅者）
type EventDispatcher interface {
	Publish(event DomainEvent) error
	Subscribe(eventName string, handler EventHandler) error
}

func ValidateEvent(event DomainEvent) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}
	if event.EventName() == "" {
		return errors.New("event name cannot be empty")
	}
	if event.GetAggregateID() == "" {
		return errors.New("aggregate ID cannot be empty")
	}
	if event.OccurredOn().IsZero() {
		return errors.New("occurred on time cannot be zero")
	}
	return nil
}

// EventBus 进程内事件总线
// 只在事务提交之后使用：处理器失败不会回滚已经提交的业务数据，
// 可靠投递由 outbox 表负责。
type EventBus struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[string][]EventHandler),
	}
}

// Publish 依次调用订阅者；所有处理器都会执行，失败合并返回
func (bus *EventBus) Publish(event DomainEvent) error {
	if err := ValidateEvent(event); err != nil {
		return err
	}

	bus.mu.RLock()
	handlers := append([]EventHandler(nil), bus.handlers[event.EventName()]...)
	handlers = append(handlers, bus.handlers[WildcardEvent]...)
	bus.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler.Handle(event); err != nil {
			errs = append(errs, fmt.Errorf("handler %s: %w", handler.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// WildcardEvent 订阅所有事件
const WildcardEvent = "*"

// Subscribe 订阅事件；eventName 为 WildcardEvent 时接收所有事件
func (bus *EventBus) Subscribe(eventName string, handler EventHandler) error {
	if eventName == "" {
		return errors.New("event name cannot be empty")
	}
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	for _, h := range bus.handlers[eventName] {
		if h.Name() == handler.Name() {
			return fmt.Errorf("handler %s already subscribed to %s", handler.Name(), eventName)
		}
	}
	bus.handlers[eventName] = append(bus.handlers[eventName], handler)
	return nil
}

// SubscribeAll 把同一个处理器挂到多个事件上
func (bus *EventBus) SubscribeAll(handler EventHandler, eventNames ...string) error {
	for _, name := range eventNames {
		if err := bus.Subscribe(name, handler); err != nil {
			return err
		}
	}
	return nil
}

type FuncHandler struct {
	name string
	fn   func(DomainEvent) error
}

func NewFuncHandler(name string, fn func(DomainEvent) error) *FuncHandler {
	if name == "" {
		name = fmt.Sprintf("func-handler-%d", time.Now().UnixNano())
	}
	return &FuncHandler{
		name: name,
		fn:   fn,
	}
}

func (h *FuncHandler) Handle(event DomainEvent) error { return h.fn(event) }
func (h *FuncHandler) Name() string                   { return h.name }

var _ EventDispatcher = (*EventBus)(nil)
