// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package ident implements the one precondition that guards every
// string this module ever splices unquoted into a SQL statement: a
// table or column name derived from schema-supplied typenames and
// fieldnames. It is conservative by design (some valid SQL identifiers
// are rejected); it is a precondition, not a sanitizer.
package ident

import "regexp"

var safe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Safe reports whether token may appear unquoted in a generated SQL
// statement (as part of a table or column name). It matches
// [A-Za-z0-9_]+ and nothing else.
func Safe(token string) bool {
	return token != "" && safe.MatchString(token)
}
