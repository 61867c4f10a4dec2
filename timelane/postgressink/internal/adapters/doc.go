// Package adapters lets the PostgreSQL recorder run on pgxpool.Pool, sql.DB or sqlx.DB.
//
// Every adapter executes parameterized statements ($1, $2, ...) as produced by goqu's prepared
// mode and wraps the driver specific rows and results behind DBRows and DBResult.
package adapters
