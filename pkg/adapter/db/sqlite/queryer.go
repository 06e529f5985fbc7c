// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package sqlite

import "github.com/sourcecred/mirror/pkg/core/repo"

// Queryer is the generic type constraint satisfied by *Conn and *Tx.
// mirrorrp's operations are written once as generic functions over
// this constraint and exposed twice, through a connQueryer and a
// txQueryer, exactly the pattern used for every other repository in
// this codebase.
type Queryer interface {
	*Conn | *Tx
	repo.Queryer
}
