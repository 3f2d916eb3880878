package logger_test

import (
	"testing"

	"github.com/muhammadheryan/artisanhub/utils/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit_Level(t *testing.T) {
	require.NoError(t, logger.Init("development", "warn"))
	defer logger.Set(nil)

	assert.False(t, logger.Get().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Get().Core().Enabled(zapcore.WarnLevel))
}

func TestInit_BadLevelFallsBack(t *testing.T) {
	require.NoError(t, logger.Init("production", "loud"))
	defer logger.Set(nil)

	assert.True(t, logger.Get().Core().Enabled(zapcore.InfoLevel))
}

func TestHelpersWriteToGlobal(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger.Set(zap.New(core))
	defer logger.Set(nil)

	logger.Info("hello", zap.String("k", "v"))
	logger.Warn("careful")
	logger.With(zap.Int("n", 1)).Error("boom")

	require.Equal(t, 3, logs.Len())
	assert.Equal(t, "hello", logs.All()[0].Message)
	assert.Equal(t, zapcore.WarnLevel, logs.All()[1].Level)
	assert.Equal(t, int64(1), logs.All()[2].ContextMap()["n"])
}
