package config

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

// PostgresSQLX opens a sqlx.DB on the lib/pq driver and closes it on cleanup.
func PostgresSQLX(t testing.TB) *sqlx.DB {
	t.Helper()

	const defaultMaxOpenConnections = 10
	const defaultMaxIdleConnections = 2
	const defaultMaxConnIdleTime = time.Minute

	db, err := sqlx.Open("postgres", PostgresDSN())
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
