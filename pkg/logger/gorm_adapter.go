package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rehoming/infrastructure/persistence"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const DefaultSlowQueryThreshold = 200 * time.Millisecond

// GormOptions SQL 日志选项
type GormOptions struct {
	SlowThreshold  time.Duration
	IgnoreNotFound bool
}

// GormLogger 把 GORM 日志转发到全局 zap logger
// 每条 SQL 带上 request_id、aggregate_id 以及语句类型 op
type GormLogger struct {
	level gormlogger.LogLevel
	opts  GormOptions
}

func NewGormLogger(level gormlogger.LogLevel, opts GormOptions) *GormLogger {
	if opts.SlowThreshold < 0 {
		opts.SlowThreshold = 0
	}
	return &GormLogger{level: level, opts: opts}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

// 每次取全局 logger，Init/SetForTest 之前创建的适配器也能生效
func (l *GormLogger) zapLogger(ctx context.Context) *zap.Logger {
	base := log
	if base == nil {
		return zap.NewNop()
	}
	fields := make([]zap.Field, 0, 2)
	if id := persistence.RequestIDFromContext(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if id := persistence.AggregateIDFromContext(ctx); id != "" {
		fields = append(fields, zap.String("aggregate_id", id))
	}
	return base.With(fields...)
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		l.zapLogger(ctx).Info(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		l.zapLogger(ctx).Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		l.zapLogger(ctx).Error(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= gormlogger.Error:
		if l.opts.IgnoreNotFound && errors.Is(err, gormlogger.ErrRecordNotFound) {
			return
		}
		l.zapLogger(ctx).Error("SQL failed", append(sqlFields(fc, elapsed), zap.Error(err))...)
	case l.opts.SlowThreshold > 0 && elapsed > l.opts.SlowThreshold && l.level >= gormlogger.Warn:
		l.zapLogger(ctx).Warn("Slow SQL", append(sqlFields(fc, elapsed),
			zap.Duration("threshold", l.opts.SlowThreshold))...)
	case l.level >= gormlogger.Info:
		l.zapLogger(ctx).Info("SQL executed", sqlFields(fc, elapsed)...)
	}
}

func sqlFields(fc func() (string, int64), elapsed time.Duration) []zap.Field {
	sql, rows := fc()
	return []zap.Field{
		zap.String("op", statementKind(sql)),
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}
}

// statementKind SQL 的首个关键字，小写
func statementKind(sql string) string {
	sql = strings.TrimSpace(sql)
	if i := strings.IndexAny(sql, " \t\n("); i > 0 {
		sql = sql[:i]
	}
	if sql == "" {
		return "unknown"
	}
	return strings.ToLower(sql)
}

var _ gormlogger.Interface = (*GormLogger)(nil)
