package logger

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cristianadrielbraun/qrdesigner/internal/constant"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

type ctxKey string

const requestIDKey ctxKey = constant.RequestIDKey

// LoggerInfo contains structured logging information
type LoggerInfo struct {
	ContextFunction string
	Error           *CustomError
	Data            map[string]interface{}
}

// CustomError represents a structured error for logging
type CustomError struct {
	Code    string
	Message string
	Type    string
}

// Initialize sets up the package logger. Production mode logs JSON at info
// level, otherwise a console encoder at debug level is used.
func Initialize(isProduction bool) error {
	logLevel := zap.NewAtomicLevelAt(zapcore.DebugLevel)
	if isProduction {
		logLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        constant.LogTimeKey,
		LevelKey:       constant.LogLevelKey,
		NameKey:        constant.LogNameKey,
		CallerKey:      constant.LogCallerKey,
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     constant.LogMessageKey,
		StacktraceKey:  constant.LogStacktraceKey,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var config zap.Config
	if isProduction {
		config = zap.Config{
			Level:       logLevel,
			Development: false,
			Sampling: &zap.SamplingConfig{
				Initial:    100,
				Thereafter: 100,
			},
			Encoding:         constant.LogEncodingJSON,
			EncoderConfig:    encoderConfig,
			OutputPaths:      []string{constant.LogOutputStdout},
			ErrorOutputPaths: []string{constant.LogOutputStderr},
		}
	} else {
		config = zap.Config{
			Level:            logLevel,
			Development:      true,
			Encoding:         constant.LogEncodingConsole,
			EncoderConfig:    encoderConfig,
			OutputPaths:      []string{constant.LogOutputStdout},
			ErrorOutputPaths: []string{constant.LogOutputStderr},
		}
	}

	built, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	logger = built
	return nil
}

// Use replaces the package logger. Tests pass zaptest or observer loggers here.
func Use(l *zap.Logger) {
	logger = l
}

// Enabled reports whether messages at level would be written.
func Enabled(level zapcore.Level) bool {
	return logger != nil && logger.Core().Enabled(level)
}

// Close ensures logger syncs before shutdown
func Close() {
	if logger != nil {
		_ = logger.Sync()
	}
}

func createFields(ctx context.Context, info LoggerInfo) []zap.Field {
	fields := []zap.Field{}

	if requestID := RequestID(ctx); requestID != "" {
		fields = append(fields, zap.String(constant.LogRequestIDKey, requestID))
	}

	if info.ContextFunction != "" {
		fields = append(fields, zap.String(constant.LogFunctionKey, info.ContextFunction))
	}

	if info.Error != nil {
		fields = append(fields,
			zap.String(constant.LogErrorCodeKey, info.Error.Code),
			zap.String(constant.LogErrorTypeKey, info.Error.Type),
			zap.String(constant.LogErrorMessageKey, info.Error.Message),
		)
	}

	for k, v := range info.Data {
		fields = append(fields, zap.Any(k, v))
	}

	return fields
}

// Debug logs a debug message
func Debug(msg string, info LoggerInfo) {
	CtxDebug(nil, msg, info)
}

// Info logs an info message
func Info(msg string, info LoggerInfo) {
	CtxInfo(nil, msg, info)
}

// Warn logs a warning message
func Warn(msg string, info LoggerInfo) {
	CtxWarn(nil, msg, info)
}

// Error logs an error message
func Error(msg string, info LoggerInfo) {
	CtxError(nil, msg, info)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, info LoggerInfo) {
	if logger == nil {
		panic(msg)
	}
	logger.Fatal(msg, createFields(nil, info)...)
}

// CtxDebug logs a debug message with context
func CtxDebug(ctx context.Context, msg string, info LoggerInfo) {
	if logger == nil {
		return
	}
	logger.Debug(msg, createFields(ctx, info)...)
}

// CtxInfo logs an info message with context
func CtxInfo(ctx context.Context, msg string, info LoggerInfo) {
	if logger == nil {
		return
	}
	logger.Info(msg, createFields(ctx, info)...)
}

// CtxWarn logs a warning message with context
func CtxWarn(ctx context.Context, msg string, info LoggerInfo) {
	if logger == nil {
		return
	}
	logger.Warn(msg, createFields(ctx, info)...)
}

// CtxError logs an error message with context
func CtxError(ctx context.Context, msg string, info LoggerInfo) {
	if logger == nil {
		return
	}
	logger.Error(msg, createFields(ctx, info)...)
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if reqID, ok := ctx.Value(requestIDKey).(string); ok {
		return reqID
	}
	return ""
}

// FormatMetadata formats map data into key=value • key=value format
func FormatMetadata(data map[string]interface{}) string {
	if len(data) == 0 {
		return ""
	}

	parts := make([]string, 0, len(data))
	for k, v := range data {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	sort.Strings(parts)
	return strings.Join(parts, " • ")
}
