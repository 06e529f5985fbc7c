// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/sourcecred/mirror/pkg/core/mirror"
	"github.com/sourcecred/mirror/pkg/core/schema"
)

// Mirror represents the mirror domain repository: the object registry,
// update clock, staleness planner and connection ingestor (components
// D, E, F, H). A repository instance unwraps a Conn/Tx into a
// ConnQueryer/TxQueryer just once, the same pattern used throughout
// this layer.
type Mirror interface {
	// Conn takes a Conn, unwraps it as required, and returns a
	// MirrorConnQueryer that runs each mirror operation in its own
	// transaction, committed when the operation returns.
	Conn(Conn) MirrorConnQueryer

	// Tx takes a Tx, unwraps it as required, and returns a
	// MirrorTxQueryer that can run mirror operations inside the
	// caller's ongoing transaction.
	Tx(Tx) MirrorTxQueryer
}

// MirrorConnQueryer lists mirror operations runnable with a bare
// connection. Each one opens and commits its own transaction.
type MirrorConnQueryer interface {
	MirrorQueryer
}

// MirrorTxQueryer lists mirror operations runnable inside an already
// open transaction, letting a caller (such as the connection ingestor
// registering referenced children) group several of them into one
// outer transaction.
type MirrorTxQueryer interface {
	MirrorQueryer
}

// MirrorQueryer lists the operations common to both isolation levels.
type MirrorQueryer interface {
	// CreateUpdate allocates a new update row tagged with
	// timeEpochMillis and returns its id (component E).
	CreateUpdate(ctx context.Context, timeEpochMillis int64) (int64, error)

	// RegisterObject registers (typename, id) against d, idempotently.
	// Fails with cerr.UnknownType, cerr.NonObjectType or
	// cerr.TypeConflict (component D).
	RegisterObject(ctx context.Context, d *schema.Decomposed, typename, id string) error

	// FindOutdated returns the QueryPlan of every object and connection
	// field stale as of sinceEpochMillis (component F). It needs no
	// schema: staleness is purely a function of the updates already
	// recorded in the store.
	FindOutdated(ctx context.Context, sinceEpochMillis int64) (*mirror.QueryPlan, error)

	// UpdateConnection ingests one page of a connection field,
	// registering any referenced nodes along the way (component H).
	// Fails with cerr.UnknownConnection or cerr.UnknownUpdate.
	UpdateConnection(
		ctx context.Context, d *schema.Decomposed,
		updateID int64, objectID, fieldname string,
		result mirror.ConnectionResult,
	) error
}
