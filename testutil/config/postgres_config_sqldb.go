package config

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq" // postgres driver
)

// PostgresSQLDB opens a sql.DB on the lib/pq driver and closes it on cleanup.
func PostgresSQLDB(t testing.TB) *sql.DB {
	t.Helper()

	const defaultMaxOpenConnections = 10
	const defaultMaxIdleConnections = 2
	const defaultMaxConnIdleTime = time.Minute

	db, err := sql.Open("postgres", PostgresDSN())
	if err != nil {
		t.Fatalf("failed to open database connection: %v", err)
	}

	db.SetMaxOpenConns(defaultMaxOpenConnections)
	db.SetMaxIdleConns(defaultMaxIdleConnections)
	db.SetConnMaxIdleTime(defaultMaxConnIdleTime)

	if pingErr := db.PingContext(context.Background()); pingErr != nil {
		_ = db.Close()
		t.Fatalf("failed to ping database: %v", pingErr)
	}

	t.Cleanup(func() { _ = db.Close() })

	return db
}
