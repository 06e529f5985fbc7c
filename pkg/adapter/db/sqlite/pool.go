// Package sqlite provides the embedded store adapter: a database/sql
// Pool/Conn/Tx/Rows layer over modernc.org/sqlite satisfying the
// interfaces declared in github.com/sourcecred/mirror/pkg/core/repo,
// plus the schema installer and mirror repository implementations
// (in the mirrorrp subpackage) built on top of it.
//
// Only one writer is ever expected, so the pool caps its connection
// count at one: sqlite serializes writers at the file level regardless,
// and a single *sql.Conn lets the transaction harness track "already in
// a transaction" locally instead of guessing from driver state.
package sqlite

import (
	"context"
	"fmt"

	"github.com/sourcecred/mirror/pkg/core/repo"

	"database/sql"

	_ "modernc.org/sqlite"
)

// ConnHandler is a handler function which takes a context and a
// database connection which should be used solely from the current
// goroutine. When it returns, the connection may be released and
// reused by other callers.
type ConnHandler = repo.ConnHandler

// Pool represents a database connection pool backed by a single
// modernc.org/sqlite connection.
type Pool struct {
	db *sql.DB
}

// NewPool opens (or creates) the sqlite database file at path and
// returns a Pool ready for use. busyTimeoutMillis bounds how long a
// statement waits on a lock held by another connection before failing;
// pass 0 to use the driver default.
func NewPool(ctx context.Context, path string, busyTimeoutMillis int) (*Pool, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	pool := &Pool{db: db}
	if err := pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		pragmas := []string{"PRAGMA foreign_keys = ON"}
		if busyTimeoutMillis > 0 {
			pragmas = append(pragmas, fmt.Sprintf(
				"PRAGMA busy_timeout = %d", busyTimeoutMillis,
			))
		}
		for _, p := range pragmas {
			if _, err := c.Exec(ctx, p); err != nil {
				return fmt.Errorf("setting pragma %q: %w", p, err)
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing connection: %w", err)
	}
	return pool, nil
}

// Conn acquires the pool's connection, passes it into handler, and
// releases it when handler returns.
func (p *Pool) Conn(ctx context.Context, handler ConnHandler) error {
	sc, err := p.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connection: %w", err)
	}
	defer sc.Close()
	return handler(ctx, &Conn{conn: sc})
}

// Close releases the pool's underlying resources.
func (p *Pool) Close() error {
	return p.db.Close()
}
