package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/tableman/internal/config"
)

// Open returns the backend named by cfg.Backend.
func Open(ctx context.Context, cfg config.StorageConfig) (Backend, error) {
	switch strings.ToLower(cfg.Backend) {
	case config.BackendFile, "":
		return NewDir(cfg.Dir)
	case config.BackendMemory:
		return NewMemory(), nil
	case config.BackendPostgres:
		pool, err := Connect(ctx, PoolConfig{
			URL:             cfg.DatabaseURL,
			MaxConns:        cfg.MaxConns,
			MinConns:        cfg.MinConns,
			MaxConnLifetime: cfg.MaxConnLifetime,
			MaxConnIdleTime: cfg.MaxConnIdleTime,
		})
		if err != nil {
			return nil, err
		}
		pg, err := NewPostgres(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
