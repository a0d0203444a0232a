package logger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nonsense"))
}

func TestNewWithConfig_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")

	l, err := NewWithConfig(Config{
		Level:          "info",
		Format:         "json",
		OutputPath:     path,
		ServiceName:    "user-crud-service",
		ServiceVersion: "test",
		Environment:    "test",
	})
	require.NoError(t, err)

	l.Info("hello")
	require.NoError(t, l.Sync())
	assert.FileExists(t, path)
}

func TestWithContext_AddsRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx := ContextWithRequestID(context.Background(), "req-123")
	WithContext(ctx, base).Info("with id")
	WithContext(context.Background(), base).Info("without id")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
	assert.NotContains(t, entries[1].ContextMap(), "request_id")
	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestIsSyncNoise(t *testing.T) {
	assert.True(t, IsSyncNoise(nil))
	assert.True(t, IsSyncNoise(errors.New("sync /dev/stdout: invalid argument")))
	assert.False(t, IsSyncNoise(errors.New("disk full")))
}

func TestGormLogger_Trace(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	gl := NewGormLoggerWithConfig(zap.New(core), 0.05, "info")

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 1", 1
	}, nil)
	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "INSERT INTO users", 0
	}, errors.New("duplicate key"))
	gl.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) {
		return "SELECT * FROM users", 3
	}, nil)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "gorm query", entries[0].Message)
	assert.Equal(t, "gorm query error", entries[1].Message)
	assert.Equal(t, "gorm slow query", entries[2].Message)
}

func TestGormLogger_Silent(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	gl := NewGormLoggerWithConfig(zap.New(core), 0.2, "warn").LogMode(gormlogger.Silent)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 1", 1
	}, errors.New("ignored"))

	assert.Zero(t, logs.Len())
}
