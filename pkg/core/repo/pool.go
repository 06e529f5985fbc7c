// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package repo specifies the expected interfaces for management of the
// mirror's store: a database connection pool which may be used
// concurrently by several goroutines, how individual connections and
// transactions are obtained from it, and which operations the mirror
// domain repository exposes once a connection or transaction is at
// hand.
package repo

import "context"

// ConnHandler is a handler function which takes a context and a
// database connection which should be used solely from the current
// goroutine (or by proper synchronization). When it returns, the
// connection may be released and reused by other routines.
type ConnHandler func(context.Context, Conn) error

// Pool represents a database connection pool. It may be used
// concurrently from different goroutines, but exactly one mirror
// instance is assumed to drive writes through it.
type Pool interface {
	// Conn acquires a database connection, passes it into the handler
	// function, and when it returns releases the connection so it may
	// be used by other callers. Returned errors from the handler are
	// returned by this method after possible wrapping.
	Conn(ctx context.Context, handler ConnHandler) error

	// Close releases the pool's underlying resources.
	Close() error
}
