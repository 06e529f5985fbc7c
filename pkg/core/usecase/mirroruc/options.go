// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package mirroruc

import (
	"errors"
	"fmt"
)

// Option is a functional option for the mirror use case.
type Option func(uc *UseCase) error

// WithPageSize configures the page size used by QueryConnection. This
// option may be passed to New.
func WithPageSize(n int) Option {
	return func(uc *UseCase) error {
		if n <= 0 {
			return fmt.Errorf("page size (%d) is not positive", n)
		}
		if uc.pageSize != 0 {
			return errors.New("page size is already configured")
		}
		uc.pageSize = n
		return nil
	}
}
