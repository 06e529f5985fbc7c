// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sourcecred/mirror/pkg/adapter/config"
	"github.com/sourcecred/mirror/pkg/adapter/db/sqlite"
	"github.com/sourcecred/mirror/pkg/core/log"
	"github.com/sourcecred/mirror/pkg/core/schema"
	"github.com/sourcecred/mirror/pkg/core/usecase/mirroruc"
)

// wired bundles together the pieces every store-touching sub-command
// needs, so each RunE can defer a single Close.
type wired struct {
	cfg    *config.Config
	decomp *schema.Decomposed
	pool   *sqlite.Pool
	uc     *mirroruc.UseCase
}

func (w *wired) Close() error {
	if w.pool == nil {
		return nil
	}
	return w.pool.Close()
}

// wireUseCase loads the config at cfgPath, decomposes its schema,
// opens the store, and instantiates the mirror use case. Each
// invocation is tagged with a fresh run id, logged once at entry, so
// the events a single command run emits can be correlated in a shared
// log stream.
func wireUseCase(ctx context.Context) (*wired, error) {
	log.Info(ctx, "mirrorctl run starting", slog.String("run_id", uuid.New().String()))
	c, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	d, err := c.Mirror.LoadSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}
	p, err := c.Database.NewPool(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating DB pool: %w", err)
	}
	uc, err := c.Mirror.NewUseCase(p, d)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("instantiating mirror use case: %w", err)
	}
	return &wired{cfg: c, decomp: d, pool: p, uc: uc}, nil
}

// wireSchema loads the config and decomposes its schema without
// touching the store, for the pure query sub-commands.
func wireSchema() (*config.Config, *schema.Decomposed, error) {
	c, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	d, err := c.Mirror.LoadSchema()
	if err != nil {
		return nil, nil, fmt.Errorf("loading schema: %w", err)
	}
	return c, d, nil
}
