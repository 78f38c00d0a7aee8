/*
Package messaging 把 outbox 中的事件转发到外部系统：日志、Redis Stream 或 Kafka。
*/
package messaging

import (
	"context"
	"fmt"

	"rehoming/config"
	"rehoming/pkg/logger"

	"go.uber.org/zap"
)

//go:generate mockgen -source=publisher.go -destination=mock_publisher.go -package=messaging

// Message outbox 中的一条事件
type Message struct {
	ID          string
	EventType   string
	AggregateID string
	Payload     string
}

// Publisher outbox relay 的发布端，必须是同步的：返回 nil 即视为已投递
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// LogPublisher 只写日志，开发环境默认使用
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) Publish(ctx context.Context, msg Message) error {
	logger.FromContext(ctx).Info("Outbox event published",
		zap.String("event_id", msg.ID),
		zap.String("event_type", msg.EventType),
		zap.String("aggregate_id", msg.AggregateID),
		zap.String("payload", msg.Payload),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// NewPublisher 按配置选择发布端
func NewPublisher(cfg config.MessagingConfig) (Publisher, error) {
	switch cfg.Publisher {
	case "", "log":
		return NewLogPublisher(), nil
	case "redis":
		return NewRedisStreamPublisher(cfg.Redis)
	case "kafka":
		return NewKafkaPublisher(cfg.Kafka)
	default:
		return nil, fmt.Errorf("unsupported messaging publisher: %q", cfg.Publisher)
	}
}

var (
	_ Publisher = (*LogPublisher)(nil)
	_ Publisher = (*RedisStreamPublisher)(nil)
	_ Publisher = (*KafkaPublisher)(nil)
)
