package core

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// DBExecutor is the query surface the repositories need. Both *sqlx.DB and
// *sqlx.Tx satisfy it, so a repository can run inside a transaction without
// knowing it.
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

var (
	_ DBExecutor = (*sqlx.DB)(nil)
	_ DBExecutor = (*sqlx.Tx)(nil)
)

// DBOrdering renders an ORDER BY clause fragment.
type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}
