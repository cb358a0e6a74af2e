package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cristianadrielbraun/qrdesigner/internal/config"
	"github.com/cristianadrielbraun/qrdesigner/internal/constant"
	appLogger "github.com/cristianadrielbraun/qrdesigner/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, "k", "v1"))
	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", got)

	require.NoError(t, kv.Set(ctx, "k", "v2"))
	got, err = kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)

	require.NoError(t, kv.Delete(ctx, "k"))
	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, kv.Delete(ctx, "never-existed"))
}

func TestMemoryKV(t *testing.T) {
	kv := NewMemoryKV()
	defer kv.Close()
	exerciseKV(t, kv)
}

func TestSQLiteKV(t *testing.T) {
	kv, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer kv.Close()
	exerciseKV(t, kv)
}

func TestSQLiteKV_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	kv, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "client", `{"url":"x"}`))
	require.NoError(t, kv.Close())

	kv, err = OpenSQLite(path)
	require.NoError(t, err)
	defer kv.Close()

	got, err := kv.Get(ctx, "client")
	require.NoError(t, err)
	assert.Equal(t, `{"url":"x"}`, got)
}

func TestOpenSQLite_InvalidPath(t *testing.T) {
	kv, err := OpenSQLite("/invalid/path/db.sqlite")
	assert.Error(t, err)
	assert.Nil(t, kv)
}

func TestOpenRedis_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	kv, err := OpenRedis(ctx, RedisOptions{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
	assert.Nil(t, kv)
}

func TestOpen_Memory(t *testing.T) {
	kv, err := Open(context.Background(), config.StorageConfig{Driver: config.DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryKV{}, kv)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StorageConfig{Driver: "mongo"})
	assert.Error(t, err)
}

func TestGormLogger_TraceSkipsStatementBelowDebug(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	appLogger.Use(zap.New(core))
	defer appLogger.Use(nil)

	built := false
	fc := func() (string, int64) {
		built = true
		return "SELECT 1", 1
	}

	(&GormLogger{}).Trace(context.Background(), time.Now(), fc, nil)
	(&GormLogger{}).Trace(context.Background(), time.Now(), fc, gorm.ErrRecordNotFound)
	assert.False(t, built)
	assert.Zero(t, logs.Len())
}

func TestGormLogger_TraceTruncatesLargeStatements(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	appLogger.Use(zap.New(core))
	defer appLogger.Use(nil)

	sql := "INSERT INTO design_records VALUES ('" + strings.Repeat("A", 4<<20) + "')"
	fc := func() (string, int64) { return sql, 1 }

	(&GormLogger{}).Trace(context.Background(), time.Now(), fc, nil)
	(&GormLogger{}).Trace(context.Background(), time.Now(), fc, errors.New("disk I/O error"))

	require.Equal(t, 2, logs.Len())
	for _, entry := range logs.All() {
		logged := entry.ContextMap()[constant.DataSQL].(string)
		assert.Less(t, len(logged), 1024)
		assert.True(t, strings.HasPrefix(logged, "INSERT INTO design_records"))
	}
	assert.Equal(t, zap.ErrorLevel, logs.All()[1].Level)
}
