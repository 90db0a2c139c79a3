package driver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"feed-refresher/config"
	"feed-refresher/utils/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxIface is the subset of pgxpool.Pool used by the store. pgxmock pools
// satisfy it in tests.
type PgxIface interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// NewPostgresPool opens and pings a connection pool.
func NewPostgresPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Logger.Info("Connected to database pool", "max_conns", poolConfig.MaxConns, "min_conns", poolConfig.MinConns)
	return pool, nil
}

// retryDBOperation retries operations that fail with "conn busy" errors
func retryDBOperation(ctx context.Context, operation func() error, operationName string) error {
	const maxRetries = 3
	baseDelay := 100 * time.Millisecond

	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		err = operation()
		if err == nil {
			return nil
		}

		if !strings.Contains(err.Error(), "conn busy") || attempt == maxRetries-1 {
			return err
		}

		delay := baseDelay * time.Duration(1<<attempt)
		logger.Logger.WarnContext(ctx, "Database connection busy, retrying",
			"operation", operationName,
			"attempt", attempt+1,
			"max_retries", maxRetries,
			"retry_delay", delay,
			"error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("operation %s failed after %d retries: %w", operationName, maxRetries, err)
}
