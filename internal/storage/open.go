package storage

import (
	"context"
	"fmt"

	"github.com/cristianadrielbraun/qrdesigner/internal/config"
)

// Open builds the KV backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig) (KV, error) {
	var (
		kv  KV
		err error
	)
	switch cfg.Driver {
	case config.DriverSQLite:
		var g *GormKV
		if g, err = OpenSQLite(cfg.DSN); err == nil {
			kv = g
		}
	case config.DriverPostgres:
		var g *GormKV
		if g, err = OpenPostgres(cfg.DSN); err == nil {
			kv = g
		}
	case config.DriverRedis:
		var r *RedisKV
		r, err = OpenRedis(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err == nil {
			kv = r
		}
	case config.DriverMemory:
		kv = NewMemoryKV()
	default:
		err = fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return kv, nil
}
