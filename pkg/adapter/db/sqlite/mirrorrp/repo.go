// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package mirrorrp

import (
	"context"

	"github.com/sourcecred/mirror/pkg/adapter/db/sqlite"
	"github.com/sourcecred/mirror/pkg/core/mirror"
	"github.com/sourcecred/mirror/pkg/core/repo"
	"github.com/sourcecred/mirror/pkg/core/schema"
)

// Repo is the mirror domain repository instance.
type Repo struct{}

// New instantiates a mirror Repo.
func New() *Repo {
	return &Repo{}
}

var _ repo.Mirror = (*Repo)(nil)

// connQueryer runs every mirror operation inside its own freshly
// opened transaction: each one is a complete public write (or the read
// transaction the staleness planner requires), so it must not piggy-back
// on a transaction the caller might still be using for something else.
type connQueryer struct {
	conn *sqlite.Conn
}

// Conn implements repo.Mirror.
func (*Repo) Conn(c repo.Conn) repo.MirrorConnQueryer {
	return connQueryer{conn: c.(*sqlite.Conn)}
}

func (cq connQueryer) CreateUpdate(ctx context.Context, timeEpochMillis int64) (int64, error) {
	var id int64
	err := cq.conn.Tx(ctx, func(ctx context.Context, tx repo.Tx) (err error) {
		id, err = createUpdate(ctx, tx.(*sqlite.Tx), timeEpochMillis)
		return err
	})
	return id, err
}

func (cq connQueryer) RegisterObject(
	ctx context.Context, d *schema.Decomposed, typename, id string,
) error {
	return cq.conn.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
		return registerObject(ctx, tx.(*sqlite.Tx), d, typename, id)
	})
}

func (cq connQueryer) FindOutdated(
	ctx context.Context, sinceEpochMillis int64,
) (*mirror.QueryPlan, error) {
	var plan *mirror.QueryPlan
	err := cq.conn.Tx(ctx, func(ctx context.Context, tx repo.Tx) (err error) {
		plan, err = findOutdated(ctx, tx.(*sqlite.Tx), sinceEpochMillis)
		return err
	})
	return plan, err
}

func (cq connQueryer) UpdateConnection(
	ctx context.Context, d *schema.Decomposed,
	updateID int64, objectID, fieldname string,
	result mirror.ConnectionResult,
) error {
	return cq.conn.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
		return updateConnection(ctx, tx.(*sqlite.Tx), d, updateID, objectID, fieldname, result)
	})
}

// txQueryer runs every mirror operation directly against the caller's
// already-open transaction: the non-transactional variants that let a
// larger operation (such as connection ingestion registering the
// children it just learned about) group many of these into one outer
// transaction without a nested BEGIN.
type txQueryer struct {
	tx *sqlite.Tx
}

// Tx implements repo.Mirror.
func (*Repo) Tx(tx repo.Tx) repo.MirrorTxQueryer {
	return txQueryer{tx: tx.(*sqlite.Tx)}
}

func (tq txQueryer) CreateUpdate(ctx context.Context, timeEpochMillis int64) (int64, error) {
	return createUpdate(ctx, tq.tx, timeEpochMillis)
}

func (tq txQueryer) RegisterObject(
	ctx context.Context, d *schema.Decomposed, typename, id string,
) error {
	return registerObject(ctx, tq.tx, d, typename, id)
}

func (tq txQueryer) FindOutdated(
	ctx context.Context, sinceEpochMillis int64,
) (*mirror.QueryPlan, error) {
	return findOutdated(ctx, tq.tx, sinceEpochMillis)
}

func (tq txQueryer) UpdateConnection(
	ctx context.Context, d *schema.Decomposed,
	updateID int64, objectID, fieldname string,
	result mirror.ConnectionResult,
) error {
	return updateConnection(ctx, tq.tx, d, updateID, objectID, fieldname, result)
}
