// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/sourcecred/mirror/pkg/core/schema"
)

// Installer is the schema installer (component C). It owns its own
// transaction: Install begins one internally, so callers pass a Conn
// rather than a Tx.
type Installer interface {
	// Install makes the store ready for d. On a store with no meta
	// row, it creates the structural tables and one primitives_<T>
	// table per object type, then records d's fingerprint. On a store
	// whose recorded fingerprint matches d's, it is a no-op. Otherwise
	// it fails with cerr.IncompatibleStore and leaves the store
	// unchanged. Fails with cerr.UnsafeIdentifier if any typename or
	// primitive fieldname is not SQL-safe, before any DDL runs.
	Install(ctx context.Context, c Conn, d *schema.Decomposed) error
}
