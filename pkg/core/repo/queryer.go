// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// Queryer lists the methods for running SQL statements. Exec is for
// statements that may affect rows but return no result set (DDL,
// UPDATE without a result set). Query is for statements that return a
// result set (SELECT). This interface is embedded by both Conn and Tx,
// which differ only in isolation, not in execution shape.
type Queryer interface {
	// Exec runs sql with the given args and returns the number of
	// affected rows. Placeholders use the database/sql "?" convention.
	// If args is empty, sql may contain multiple semicolon-separated
	// statements; otherwise it must contain exactly one.
	Exec(ctx context.Context, sql string, args ...any) (count int64, err error)

	// Query runs sql with the given args and returns the result set.
	// sql must contain exactly one statement. The Rows must be closed
	// (directly or by exhausting Next) before this Queryer runs another
	// statement.
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

// Rows represents the result set of an executed query. Next must be
// called before reading the first row; it returns false once the
// result set is exhausted, at which point the rows are closed
// automatically. Err must be checked after Close (or after Next
// returns false) to detect errors not surfaced incrementally.
type Rows interface {
	Close()
	Err() error
	Next() bool
	Scan(dest ...any) error
}
