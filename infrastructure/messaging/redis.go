package messaging

import (
	"context"
	"fmt"

	"rehoming/config"

	"github.com/redis/go-redis/v9"
)

// StreamAdder go-redis 客户端中 XADD 所需的最小子集
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	Close() error
}

// RedisStreamPublisher 每个事件一条 XADD，字段与 outbox 列一致
type RedisStreamPublisher struct {
	client StreamAdder
	stream string
	maxLen int64
}

func NewRedisStreamPublisher(cfg config.RedisConfig) (*RedisStreamPublisher, error) {
	if cfg.URL == "" || cfg.Stream == "" {
		return nil, fmt.Errorf("redis url and stream are required")
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	return NewRedisStreamPublisherWithClient(redis.NewClient(opts), cfg.Stream, cfg.MaxLen), nil
}

func NewRedisStreamPublisherWithClient(client StreamAdder, stream string, maxLen int64) *RedisStreamPublisher {
	return &RedisStreamPublisher{client: client, stream: stream, maxLen: maxLen}
}

func (p *RedisStreamPublisher) Publish(ctx context.Context, msg Message) error {
	args := &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: p.maxLen > 0,
		Values: map[string]any{
			"event_id":     msg.ID,
			"event_type":   msg.EventType,
			"aggregate_id": msg.AggregateID,
			"payload":      msg.Payload,
		},
	}
	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}

func (p *RedisStreamPublisher) Close() error {
	return p.client.Close()
}
