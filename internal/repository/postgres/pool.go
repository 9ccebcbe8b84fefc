// Package postgres contains PostgreSQL implementations of repository interfaces.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/and161185/notekeeper/internal/errs"
)

// PgxPool is a minimal abstraction over a Postgres connection pool,
// used by repositories. It is implemented by *pgxpool.Pool and pgxmock.PgxPoolIface.
type PgxPool interface {
	// Exec executes a SQL command and returns the command tag.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	// Query executes a SELECT and returns a rows iterator.
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	// QueryRow executes a query expected to return at most one row.
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error
	// Close shuts down the pool and frees resources.
	Close()
}

// DB wraps pgxpool.Pool to satisfy repository constructors and allow testing.
type DB struct{ Pool PgxPool }

// New creates a new connection pool for the given DSN.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &DB{Pool: pool}, nil
}

// Ping checks connectivity; used by the readiness probe.
func (db *DB) Ping(ctx context.Context) error { return db.Pool.Ping(ctx) }

// Close closes the underlying pool.
func (db *DB) Close() { db.Pool.Close() }

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

func pgCode(err error) string {
	var pg *pgconn.PgError
	if errors.As(err, &pg) {
		return pg.Code
	}
	return ""
}

// isUniqueViolation reports whether the error is a unique constraint violation.
func isUniqueViolation(err error) bool { return pgCode(err) == codeUniqueViolation }

// isForeignKeyViolation reports whether the error is a foreign key violation.
func isForeignKeyViolation(err error) bool { return pgCode(err) == codeForeignKeyViolation }

// writeErr maps errors of INSERT/UPDATE ... RETURNING statements.
// A foreign key failure on write means the referenced parent does not exist.
func writeErr(err error, uniqueField, parentField string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return errs.ErrNotFound
	case isUniqueViolation(err):
		return errs.OnField(uniqueField, errs.ErrAlreadyExists)
	case isForeignKeyViolation(err):
		return errs.OnField(parentField, errs.ErrNotFound)
	default:
		return err
	}
}

// readErr maps errors of single-row lookups.
func readErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	return err
}

// deleteRow runs a DELETE for one row and maps the outcome.
// Zero affected rows is ErrNotFound unless existsSQL says the row is still there,
// which for conditional deletes means children kept it alive.
func deleteRow(ctx context.Context, db *DB, deleteSQL, existsSQL string, id int64) error {
	tag, err := db.Pool.Exec(ctx, deleteSQL, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return errs.ErrReferentialIntegrity
		}
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	if existsSQL == "" {
		return errs.ErrNotFound
	}
	var exists bool
	if err := db.Pool.QueryRow(ctx, existsSQL, id).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return errs.ErrHasDependents
	}
	return errs.ErrNotFound
}

func countRows(ctx context.Context, db *DB, sql string, args ...any) (int, error) {
	var n int
	if err := db.Pool.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
