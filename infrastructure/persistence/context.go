package persistence

import (
	"context"

	"gorm.io/gorm"
)

type (
	txKey          struct{}
	requestIDKey   struct{}
	aggregateIDKey struct{}
)

// TxFromContext retrieves the GORM transaction from context
// Returns nil if no transaction is present
func TxFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// ContextWithTx returns a new context with the GORM transaction attached
func ContextWithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// ContextWithRequestID 请求 ID 随 context 进入仓储层，SQL 日志据此关联请求
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// ContextWithAggregateID 标记当前 SQL 所属的聚合，GORM 日志会带上 aggregate_id
func ContextWithAggregateID(ctx context.Context, aggregateID string) context.Context {
	if aggregateID == "" {
		return ctx
	}
	return context.WithValue(ctx, aggregateIDKey{}, aggregateID)
}

func AggregateIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(aggregateIDKey{}).(string)
	return id
}
