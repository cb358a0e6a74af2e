package logger

import (
	"context"
	"testing"

	"github.com/cristianadrielbraun/qrdesigner/internal/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCtxInfo_IncludesRequestIDAndError(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	Use(zap.New(core))
	defer Use(nil)

	ctx := WithRequestID(context.Background(), "req-1")
	CtxWarn(ctx, "something odd", LoggerInfo{
		ContextFunction: constant.CtxSettings,
		Error: &CustomError{
			Code:    constant.ErrCodeSettingsCorrupt,
			Message: "bad json",
			Type:    constant.ErrTypeSettings,
		},
		Data: map[string]interface{}{constant.DataClientID: "abc"},
	})

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields[constant.LogRequestIDKey])
	assert.Equal(t, constant.CtxSettings, fields[constant.LogFunctionKey])
	assert.Equal(t, constant.ErrCodeSettingsCorrupt, fields[constant.LogErrorCodeKey])
	assert.Equal(t, "abc", fields[constant.DataClientID])
}

func TestNilLoggerIsSilent(t *testing.T) {
	Use(nil)
	assert.NotPanics(t, func() {
		Info("nothing", LoggerInfo{})
		CtxError(context.Background(), "nothing", LoggerInfo{})
	})
}

func TestEnabled(t *testing.T) {
	Use(nil)
	assert.False(t, Enabled(zap.ErrorLevel))

	core, _ := observer.New(zap.InfoLevel)
	Use(zap.New(core))
	defer Use(nil)
	assert.True(t, Enabled(zap.InfoLevel))
	assert.False(t, Enabled(zap.DebugLevel))
}

func TestRequestID_Missing(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
	assert.Equal(t, "", RequestID(nil))
}

func TestFormatMetadata(t *testing.T) {
	assert.Equal(t, "", FormatMetadata(nil))
	assert.Equal(t, "a=1 • b=two", FormatMetadata(map[string]interface{}{"b": "two", "a": 1}))
}
