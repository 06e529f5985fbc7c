package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sourcecred/mirror/pkg/core/cerr"
	"github.com/sourcecred/mirror/pkg/core/repo"
)

// TxHandler is a handler function which takes a context and an ongoing
// transaction. If it returns an error, the transaction is rolled back;
// otherwise it is committed.
type TxHandler = repo.TxHandler

// Conn wraps a single *sql.Conn. It is unsafe for concurrent use.
type Conn struct {
	conn *sql.Conn
	inTx bool
}

// IsConn prevents a non-Conn type from mistakenly implementing the
// repo.Conn interface.
func (c *Conn) IsConn() {}

// Exec runs sql with args and returns the number of affected rows.
func (c *Conn) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := c.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Query runs sql with args and returns the result set.
func (c *Conn) Query(ctx context.Context, query string, args ...any) (repo.Rows, error) {
	rows, err := c.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rowsAdapter{rows}, nil
}

// Tx begins a serializable (BEGIN IMMEDIATE) transaction, calls
// handler with it, and commits on normal return. Attempting to open a
// transaction while one is already active on this connection fails
// fast with cerr.AlreadyInTransaction. Panics inside handler are
// turned into a rollback and a returned error, matching the surrounding
// transaction discipline for every other failure mode.
func (c *Conn) Tx(ctx context.Context, handler TxHandler) (err error) {
	if c.inTx {
		return cerr.AlreadyInTransaction(
			fmt.Errorf("a transaction is already open on this connection"),
		)
	}
	if _, err := c.conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return fmt.Errorf("begin immediate: %w", err)
	}
	c.inTx = true
	defer func() {
		if !c.inTx {
			// inTx is cleared only inside this function, so this branch
			// is not reached when handler returns. A handler that issues
			// its own COMMIT or ROLLBACK through its Tx leaves no open
			// transaction; the COMMIT below then fails and that error is
			// returned.
			return
		}
		if r := recover(); r != nil {
			c.inTx = false
			if _, rbErr := c.conn.ExecContext(ctx, "ROLLBACK"); rbErr != nil {
				err = fmt.Errorf("panicked: %v, rollback: %w", r, rbErr)
				return
			}
			err = fmt.Errorf("panicked: %v", r)
			return
		}
		if err != nil {
			c.inTx = false
			if _, rbErr := c.conn.ExecContext(ctx, "ROLLBACK"); rbErr != nil {
				err = fmt.Errorf("handler: %w, rollback: %w", err, rbErr)
				return
			}
			err = fmt.Errorf("handler: %w", err)
			return
		}
		c.inTx = false
		if _, cErr := c.conn.ExecContext(ctx, "COMMIT"); cErr != nil {
			err = fmt.Errorf("commit: %w", cErr)
		}
	}()
	return handler(ctx, &Tx{conn: c.conn})
}
