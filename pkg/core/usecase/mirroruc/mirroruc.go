// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package mirroruc contains the mirror UseCase, which fronts the
// schema installer and the mirror domain repository with the
// operations an external fetch loop drives: install, register roots,
// plan refreshes, synthesize queries for the plan, and ingest results.
package mirroruc

import (
	"context"
	"fmt"

	"github.com/sourcecred/mirror/pkg/core/gqlquery"
	"github.com/sourcecred/mirror/pkg/core/mirror"
	"github.com/sourcecred/mirror/pkg/core/repo"
	"github.com/sourcecred/mirror/pkg/core/schema"
)

// UseCase represents the mirror use case. It holds a database
// connection pool, the schema installer and mirror repository
// instances (to be guided with the pool), the decomposed schema this
// mirror instance was opened with, and the use case's own settings.
type UseCase struct {
	pool      repo.Pool
	installer repo.Installer
	mirrorrp  repo.Mirror
	decomp    *schema.Decomposed

	pageSize int
}

// New instantiates a mirror use case. Required parameters are passed
// individually, so callers notice via a compilation error whenever
// they change. Optional parameters are passed as functional options.
func New(
	p repo.Pool, installer repo.Installer, m repo.Mirror,
	d *schema.Decomposed, opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{pool: p, installer: installer, mirrorrp: m, decomp: d}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.pageSize == 0 {
		uc.pageSize = 50
	}
	return uc, nil
}

// Install makes the store ready for the schema this use case was
// opened with, creating structural and per-type tables on first use
// or verifying compatibility on reuse.
func (uc *UseCase) Install(ctx context.Context) error {
	return uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return uc.installer.Install(ctx, c, uc.decomp)
	})
}

// RegisterObject registers (typename, id), idempotently.
func (uc *UseCase) RegisterObject(ctx context.Context, typename, id string) error {
	return uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return uc.mirrorrp.Conn(c).RegisterObject(ctx, uc.decomp, typename, id)
	})
}

// CreateUpdate allocates a new update row stamped with
// timeEpochMillis and returns its id.
func (uc *UseCase) CreateUpdate(ctx context.Context, timeEpochMillis int64) (id int64, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		id, err = uc.mirrorrp.Conn(c).CreateUpdate(ctx, timeEpochMillis)
		return err
	})
	return id, err
}

// FindOutdated returns the QueryPlan of every object and connection
// field stale as of sinceEpochMillis.
func (uc *UseCase) FindOutdated(ctx context.Context, sinceEpochMillis int64) (plan *mirror.QueryPlan, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		plan, err = uc.mirrorrp.Conn(c).FindOutdated(ctx, sinceEpochMillis)
		return err
	})
	return plan, err
}

// UpdateConnection ingests one page of a connection field, registering
// any referenced nodes along the way.
func (uc *UseCase) UpdateConnection(
	ctx context.Context, updateID int64, objectID, fieldname string,
	result mirror.ConnectionResult,
) error {
	return uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return uc.mirrorrp.Conn(c).UpdateConnection(
			ctx, uc.decomp, updateID, objectID, fieldname, result,
		)
	})
}

// QueryShallow returns the minimal selection needed to discover an
// object's concrete type and id. It performs no I/O.
func (uc *UseCase) QueryShallow(typename string) (string, error) {
	return gqlquery.QueryShallow(uc.decomp, typename)
}

// QueryConnection returns the paginated selection for parentTypename's
// fieldname connection, resuming from cursor and requesting this use
// case's configured page size. It performs no I/O.
func (uc *UseCase) QueryConnection(
	parentTypename, fieldname string, cursor gqlquery.Cursor,
) (string, error) {
	return gqlquery.QueryConnection(uc.decomp, parentTypename, fieldname, cursor, uc.pageSize)
}
