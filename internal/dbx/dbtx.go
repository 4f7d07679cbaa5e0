// Package dbx provides the small database helpers shared by repositories and
// commands: the DBTX interface implemented by both *sql.DB and *sql.Tx, a
// transaction runner, and the scoped connection used by every command.
package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// DBTX is the subset of database/sql used by our repos.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ErrConnect marks failures to open or reach the database, as opposed to
// errors returned by the function run against it.
var ErrConnect = errors.New("database connect error")

// WithTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. Panics are rethrown.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}

// WithDB opens a pool for driver/dsn, pings it within timeout, runs fn and
// closes the pool on every path, including a panic in fn. Open and ping
// failures are wrapped with ErrConnect; errors from fn are returned as is.
func WithDB(ctx context.Context, driver, dsn string, timeout time.Duration, fn func(ctx context.Context, db *sql.DB) error) (err error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnect, err)
	}

	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	// commands run their queries one after another
	db.SetMaxOpenConns(1)

	pingCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("%w: %w", ErrConnect, err)
	}

	return fn(ctx, db)
}
