// Package config provides PostgreSQL connections for the recorder's integration tests.
//
// The tests only touch a real database when TIMELANE_TEST_POSTGRES=1 is set. The DSN defaults to a
// local test database and can be overridden with TIMELANE_TEST_POSTGRES_DSN. Each factory returns a
// connection for one of the supported adapters (pgx.Pool, sql.DB, sqlx.DB) that is closed when the
// test ends.
package config
