// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

// Tx represents an ongoing database transaction. It is unsafe to use
// concurrently. All statements run in a single Tx observe serializable
// isolation. For statement execution methods, see the Queryer
// interface.
type Tx interface {
	Queryer

	// IsTx prevents a non-Tx type (such as a Conn) from mistakenly
	// implementing the Tx interface.
	IsTx()
}
