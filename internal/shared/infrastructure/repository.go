package infrastructure

import (
	"context"
	"database/sql"
)

// Queryer is the read side of *sql.DB and *sql.Tx.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// BaseRepository is embedded by the read-only Postgres repositories.
// The dashboard never writes at runtime, so there is no command side.
type BaseRepository struct {
	db  Queryer
	ctx context.Context
}

func NewBaseRepository(db Queryer) BaseRepository {
	return BaseRepository{
		db:  db,
		ctx: context.Background(),
	}
}

// WithContext returns a copy bound to ctx.
func (r BaseRepository) WithContext(ctx context.Context) BaseRepository {
	r.ctx = ctx
	return r
}

// Context returns the bound context.
func (r *BaseRepository) Context() context.Context {
	return r.ctx
}

// Query runs a read query with the bound context.
func (r *BaseRepository) Query(query string, args ...any) (*sql.Rows, error) {
	return r.db.QueryContext(r.ctx, query, args...)
}

// QueryRow runs a single-row read query with the bound context.
func (r *BaseRepository) QueryRow(query string, args ...any) *sql.Row {
	return r.db.QueryRowContext(r.ctx, query, args...)
}
