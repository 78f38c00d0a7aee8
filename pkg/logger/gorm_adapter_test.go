package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"rehoming/infrastructure/persistence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func observeGlobal(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	t.Cleanup(SetForTest(zap.New(core)))
	return logs
}

func selectPerson() (string, int64) {
	return "SELECT * FROM `persons` WHERE id = 'p1' LIMIT 1", 1
}

func TestGormLogger_LevelFiltering(t *testing.T) {
	cases := []struct {
		name      string
		level     gormlogger.LogLevel
		wantInfo  bool
		wantWarn  bool
		wantError bool
		wantTrace bool
	}{
		{"silent", gormlogger.Silent, false, false, false, false},
		{"error", gormlogger.Error, false, false, true, false},
		{"warn", gormlogger.Warn, false, true, true, false},
		{"info", gormlogger.Info, true, true, true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logs := observeGlobal(t)
			l := NewGormLogger(tc.level, GormOptions{SlowThreshold: time.Hour})
			ctx := context.Background()

			l.Info(ctx, "info %d", 1)
			l.Warn(ctx, "warn %d", 2)
			l.Error(ctx, "error %d", 3)
			l.Trace(ctx, time.Now(), selectPerson, nil)

			assert.Equal(t, tc.wantInfo, logs.FilterMessage("info 1").Len() == 1)
			assert.Equal(t, tc.wantWarn, logs.FilterMessage("warn 2").Len() == 1)
			assert.Equal(t, tc.wantError, logs.FilterMessage("error 3").Len() == 1)
			assert.Equal(t, tc.wantTrace, logs.FilterMessage("SQL executed").Len() == 1)
		})
	}
}

func TestGormLogger_TraceCarriesContextAndStatementKind(t *testing.T) {
	logs := observeGlobal(t)
	l := NewGormLogger(gormlogger.Info, GormOptions{SlowThreshold: time.Hour})

	ctx := persistence.ContextWithRequestID(context.Background(), "req-42")
	ctx = persistence.ContextWithAggregateID(ctx, "person-7")
	l.Trace(ctx, time.Now(), func() (string, int64) {
		return "UPDATE `persons` SET version = 2 WHERE id = 'person-7' AND version = 1", 1
	}, nil)

	entries := logs.FilterMessage("SQL executed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "person-7", fields["aggregate_id"])
	assert.Equal(t, "update", fields["op"])
	assert.Equal(t, int64(1), fields["rows"])
}

func TestGormLogger_SlowQueryWarns(t *testing.T) {
	logs := observeGlobal(t)
	l := NewGormLogger(gormlogger.Warn, GormOptions{SlowThreshold: 10 * time.Millisecond})

	ctx := persistence.ContextWithRequestID(context.Background(), "req-slow")
	l.Trace(ctx, time.Now().Add(-50*time.Millisecond), selectPerson, nil)

	entries := logs.FilterMessage("Slow SQL").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "req-slow", entries[0].ContextMap()["request_id"])
	assert.Equal(t, "select", entries[0].ContextMap()["op"])
}

func TestGormLogger_Errors(t *testing.T) {
	logs := observeGlobal(t)
	ctx := context.Background()

	quiet := NewGormLogger(gormlogger.Warn, GormOptions{IgnoreNotFound: true})
	quiet.Trace(ctx, time.Now(), selectPerson, gormlogger.ErrRecordNotFound)
	assert.Zero(t, logs.Len())

	loud := NewGormLogger(gormlogger.Warn, GormOptions{})
	loud.Trace(ctx, time.Now(), selectPerson, gormlogger.ErrRecordNotFound)
	loud.Trace(ctx, time.Now(), selectPerson, errors.New("connection refused"))
	assert.Equal(t, 2, logs.FilterMessage("SQL failed").Len())
}

func TestGormLogger_LogModeReturnsCopy(t *testing.T) {
	logs := observeGlobal(t)
	base := NewGormLogger(gormlogger.Warn, GormOptions{})

	verbose := base.LogMode(gormlogger.Info)
	verbose.Info(context.Background(), "verbose")
	base.Info(context.Background(), "base")

	assert.Equal(t, 1, logs.FilterMessage("verbose").Len())
	assert.Zero(t, logs.FilterMessage("base").Len())
}

func TestStatementKind(t *testing.T) {
	assert.Equal(t, "select", statementKind("  SELECT 1"))
	assert.Equal(t, "insert", statementKind("INSERT INTO `cats` (`id`) VALUES ('c1')"))
	assert.Equal(t, "unknown", statementKind(""))
}
