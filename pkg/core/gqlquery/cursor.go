// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gqlquery

import "github.com/goccy/go-json"

// Cursor is the three-valued pagination cursor produced by the
// staleness planner and consumed by the connection query synthesizer:
//
//   - Unfetched(): the connection has never been paginated; the
//     synthesizer omits the `after` argument entirely so pagination
//     begins from the start.
//   - Fetched(nil): the connection was fetched and reported a null
//     cursor (exhausted or cursorless); the synthesizer still emits
//     `after: null`.
//   - Fetched(&v): the connection was fetched and reported cursor v;
//     the synthesizer emits `after: "v"`.
//
// Collapsing this to a bare *string would make "never fetched" and
// "fetched, null" indistinguishable, which is exactly the distinction
// callers need.
type Cursor struct {
	fetched bool
	value   *string
}

// Unfetched returns a Cursor representing a connection that has never
// been fetched.
func Unfetched() Cursor {
	return Cursor{}
}

// Fetched returns a Cursor representing a connection that was fetched
// and reported the given end cursor value (nil if the server reported
// a null cursor).
func Fetched(value *string) Cursor {
	return Cursor{fetched: true, value: value}
}

// IsFetched reports whether this Cursor is in the fetched state.
func (c Cursor) IsFetched() bool {
	return c.fetched
}

// Value returns the fetched cursor value. It is only meaningful when
// IsFetched() is true; it returns nil both for Unfetched() and for
// Fetched(nil).
func (c Cursor) Value() *string {
	return c.value
}

// cursorDoc is Cursor's wire shape, exposing the three-valued state
// explicitly instead of collapsing it back to an ambiguous *string.
type cursorDoc struct {
	Fetched bool    `json:"fetched"`
	Value   *string `json:"value,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (c Cursor) MarshalJSON() ([]byte, error) {
	return json.Marshal(cursorDoc{Fetched: c.fetched, Value: c.value})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Cursor) UnmarshalJSON(data []byte) error {
	var doc cursorDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	c.fetched = doc.Fetched
	c.value = doc.Value
	return nil
}
