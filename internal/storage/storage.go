// Package storage provides the media the core Store snapshots its buckets to.
// Every backend keeps exactly one JSON payload per bucket name.
package storage

import (
	"context"
	"fmt"
	"io"
	"log"

	"optics-shop/internal/config"
	"optics-shop/internal/core"
	"optics-shop/internal/db"
)

// Backend is a Persister that owns resources released by Close.
type Backend interface {
	core.Persister
	io.Closer
	Driver() string
}

// Open selects and opens the backend named by cfg.StorageDriver.
func Open(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.StorageDriver {
	case "memory":
		log.Printf("storage: in-memory only, nothing survives a restart")
		return NewMemory(), nil
	case "file":
		return NewFile(cfg.StorageDir)
	case "sqlite":
		return NewSQLite(ctx, cfg.SQLitePath)
	case "postgres":
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return NewPostgres(ctx, pool)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
