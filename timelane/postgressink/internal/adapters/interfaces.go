package adapters

import "context"

// DBAdapter is the subset of a database handle the recorder needs.
type DBAdapter interface {
	Query(ctx context.Context, query string, args ...any) (DBRows, error)
	Exec(ctx context.Context, query string, args ...any) (DBResult, error)
}

// DBRows iterates over a query result.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult reports what an Exec changed.
type DBResult interface {
	RowsAffected() (int64, error)
}
