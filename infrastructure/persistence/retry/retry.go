/*
Package retry 为整个工作单元提供重试：
人员聚合的乐观锁冲突、数据库死锁和锁等待超时会让整个事务重跑一次。
*/
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"time"

	"rehoming/config"
	"rehoming/domain/person"
	"rehoming/pkg/logger"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Policy 一次工作单元的重试策略
type Policy struct {
	Enabled       bool
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	Jitter        bool

	OnConflict    bool
	OnDeadlock    bool
	OnLockTimeout bool
}

var DefaultPolicy = Policy{
	Enabled:       true,
	MaxAttempts:   3,
	InitialDelay:  100 * time.Millisecond,
	MaxDelay:      2 * time.Second,
	BackoffFactor: 2.0,
	Jitter:        true,
	OnConflict:    true,
	OnDeadlock:    true,
	OnLockTimeout: true,
}

func PolicyFromConfig(cfg config.RetryConfig) Policy {
	return Policy{
		Enabled:       cfg.Enabled,
		MaxAttempts:   cfg.MaxAttempts,
		InitialDelay:  cfg.InitialDelay,
		MaxDelay:      cfg.MaxDelay,
		BackoffFactor: cfg.BackoffFactor,
		Jitter:        cfg.JitterEnabled,
		OnConflict:    cfg.RetryOnConcurrentModification,
		OnDeadlock:    cfg.RetryOnDeadlock,
		OnLockTimeout: cfg.RetryOnLockTimeout,
	}
}

// Cause 失败原因的分类
type Cause int

const (
	CausePermanent Cause = iota
	CauseConflict
	CauseDeadlock
	CauseLockTimeout
	CauseConnection
)

func (c Cause) String() string {
	switch c {
	case CauseConflict:
		return "conflict"
	case CauseDeadlock:
		return "deadlock"
	case CauseLockTimeout:
		return "lock_timeout"
	case CauseConnection:
		return "connection"
	default:
		return "permanent"
	}
}

// Classify 按驱动错误码和错误文本判断失败原因
func Classify(err error) Cause {
	if err == nil {
		return CausePermanent
	}
	if errors.Is(err, person.ErrConcurrentModification) {
		return CauseConflict
	}

	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1213:
			return CauseDeadlock
		case 1205:
			return CauseLockTimeout
		}
		return CausePermanent
	}
	if errors.Is(err, gorm.ErrInvalidTransaction) {
		return CauseConnection
	}

	msg := strings.ToLower(err.Error())
	switch {
	// postgres 40001 serialization_failure, 40P01 deadlock_detected
	case strings.Contains(msg, "sqlstate 40001"), strings.Contains(msg, "sqlstate 40p01"),
		strings.Contains(msg, "deadlock"), strings.Contains(msg, "database is locked"):
		return CauseDeadlock
	case strings.Contains(msg, "lock wait timeout"):
		return CauseLockTimeout
	case strings.Contains(msg, "connection") && strings.Contains(msg, "lost"):
		return CauseConnection
	}
	return CausePermanent
}

// Retryable 原因被分类后再由策略开关决定
func (p Policy) Retryable(err error) bool {
	switch Classify(err) {
	case CauseConflict:
		return p.OnConflict
	case CauseDeadlock:
		return p.OnDeadlock
	case CauseLockTimeout:
		return p.OnLockTimeout
	case CauseConnection:
		return true
	default:
		return false
	}
}

// Delay 第 attempt 次失败后的等待时长，抖动 ±20%
func (p Policy) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	d := float64(p.InitialDelay) * math.Pow(p.BackoffFactor, float64(attempt-1))
	d = math.Min(d, float64(p.MaxDelay))
	if p.Jitter {
		d *= 0.8 + rand.Float64()*0.4
	}
	return time.Duration(math.Max(d, 0))
}

// Do 重复执行 fn 直到成功、遇到不可重试的错误或用完次数
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	if !p.Enabled || p.MaxAttempts <= 1 {
		return fn(ctx)
	}

	var err error
	for attempt := 1; ; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt >= p.MaxAttempts || !p.Retryable(err) {
			return err
		}

		delay := p.Delay(attempt)
		logger.FromContext(ctx).Debug("Retrying unit of work",
			zap.Int("attempt", attempt),
			zap.String("cause", Classify(err).String()),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}
