package db

import (
	"context"
	"fmt"
	"fxconverter/internal/config"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const healthCheckPeriod = 30 * time.Second

// Connect opens a pool for the configured server and brings the schema up to date.
func Connect(ctx context.Context, cfg config.DbServer) (*pgxpool.Pool, error) {
	return Open(ctx, cfg.GetConnectionStr(), cfg.MaxConns)
}

// Open creates a pgx pool for dsn, pings it and applies the embedded migrations.
func Open(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid db config: %w", err)
	}
	if maxConns > 0 {
		poolCfg.MaxConns = maxConns
	}
	poolCfg.HealthCheckPeriod = healthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	if err = Migrate(ctx, dsn); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
