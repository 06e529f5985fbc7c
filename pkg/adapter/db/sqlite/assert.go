// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package sqlite

import (
	"fmt"

	"github.com/sourcecred/mirror/pkg/core/cerr"
)

// AssertSingleRow is the single-update guard (component J): for an
// UPDATE expected to touch exactly one row (a primary-key or
// unique-key lookup), it turns any other outcome into an
// InvariantViolation. Callers pass through the (count, err) pair
// Exec already returned; a non-nil err is returned unchanged.
func AssertSingleRow(count int64, err error) error {
	if err != nil {
		return err
	}
	if count != 1 {
		return cerr.InvariantViolation(fmt.Errorf(
			"expected exactly one row to be affected, got %d", count,
		))
	}
	return nil
}
