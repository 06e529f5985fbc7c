// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package sqlite

import (
	"context"
	"database/sql"

	"github.com/sourcecred/mirror/pkg/core/repo"
)

// Tx represents an ongoing transaction on the pool's single
// connection. It is unsafe for concurrent use.
type Tx struct {
	conn *sql.Conn
}

// IsTx prevents a non-Tx type (such as a Conn) from mistakenly
// implementing the repo.Tx interface.
func (t *Tx) IsTx() {}

// Exec runs sql with args and returns the number of affected rows.
func (t *Tx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := t.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Query runs sql with args and returns the result set.
func (t *Tx) Query(ctx context.Context, query string, args ...any) (repo.Rows, error) {
	rows, err := t.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rowsAdapter{rows}, nil
}
