// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// TxHandler is a handler function which takes a context and an ongoing
// transaction. If an error is returned, the caller rolls back the
// transaction; otherwise it commits.
type TxHandler func(context.Context, Tx) error

// Conn represents a database connection. It is unsafe to use
// concurrently. A connection may execute one or more SQL statements or
// start transactions, one at a time. For statement execution methods,
// see the Queryer interface.
type Conn interface {
	Queryer

	// Tx begins a new serializable transaction on this connection,
	// calls the handler with it, and commits on normal return. Nested
	// calls fail fast with cerr.AlreadyInTransaction. Errors from the
	// handler roll the transaction back and are returned (after
	// possible wrapping).
	Tx(ctx context.Context, handler TxHandler) error

	// IsConn prevents a non-Conn type from mistakenly implementing the
	// Conn interface.
	IsConn()
}
