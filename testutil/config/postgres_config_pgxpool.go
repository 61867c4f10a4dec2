package config

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPGXPool connects a pgxpool.Pool to the test database and closes it on cleanup.
func PostgresPGXPool(t testing.TB) *pgxpool.Pool {
	t.Helper()

	const defaultMaxConnections = int32(10)
	const defaultMinConnections = int32(1)
	const defaultMaxConnIdleTime = time.Minute
	const defaultConnectTimeout = time.Second * 5

	dbConfig, err := pgxpool.ParseConfig(PostgresDSN())
	if err != nil {
		t.Fatalf("failed to parse postgres dsn: %v", err)
	}

	dbConfig.MaxConns = defaultMaxConnections
	dbConfig.MinConns = defaultMinConnections
	dbConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	dbConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	pool, err := pgxpool.NewWithConfig(context.Background(), dbConfig)
	if err != nil {
		t.Fatalf("failed to create pgx pool: %v", err)
	}

	if pingErr := pool.Ping(context.Background()); pingErr != nil {
		pool.Close()
		t.Fatalf("failed to ping database: %v", pingErr)
	}

	t.Cleanup(pool.Close)

	return pool
}
