// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package fixtures provides a small Repo/Issue/Actor schema and a
// freshly installed sqlite store for it, shared by the sqlite adapter
// and mirror use case tests.
package fixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sourcecred/mirror/pkg/adapter/db/sqlite"
	"github.com/sourcecred/mirror/pkg/core/repo"
	"github.com/sourcecred/mirror/pkg/core/schema"
)

// RepoIssueSchema returns the schema document used throughout the test
// suite: a Repo with a name and an issues connection, an Issue with a
// title and an author link to the Actor union, and Actor's two clauses.
func RepoIssueSchema() *schema.Schema {
	return &schema.Schema{Types: map[string]schema.Type{
		"Repo": &schema.ObjectType{Fields: []schema.Field{
			{Name: "id", Kind: schema.FieldID},
			{Name: "name", Kind: schema.FieldPrimitive},
			{Name: "issues", Kind: schema.FieldConnection, ElementType: "Issue"},
		}},
		"Issue": &schema.ObjectType{Fields: []schema.Field{
			{Name: "id", Kind: schema.FieldID},
			{Name: "title", Kind: schema.FieldPrimitive},
			{Name: "author", Kind: schema.FieldNode, ElementType: "Actor"},
		}},
		"User": &schema.ObjectType{Fields: []schema.Field{
			{Name: "id", Kind: schema.FieldID},
			{Name: "login", Kind: schema.FieldPrimitive},
		}},
		"Bot": &schema.ObjectType{Fields: []schema.Field{
			{Name: "id", Kind: schema.FieldID},
		}},
		"Actor": &schema.UnionType{Clauses: []string{"User", "Bot"}},
	}}
}

// Decomposed decomposes RepoIssueSchema, failing the test on error.
func Decomposed(t *testing.T) *schema.Decomposed {
	t.Helper()
	d, err := schema.Decompose(RepoIssueSchema())
	require.NoError(t, err)
	return d
}

// NewPool opens a fresh sqlite store backed by a temporary file under
// t.TempDir(), closed automatically via t.Cleanup.
func NewPool(ctx context.Context, t *testing.T) *sqlite.Pool {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mirror.db")
	p, err := sqlite.NewPool(ctx, path, 1000)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

// NewInstalledPool opens a fresh store and installs RepoIssueSchema's
// decomposed shape into it, returning both.
func NewInstalledPool(ctx context.Context, t *testing.T) (*sqlite.Pool, *schema.Decomposed) {
	t.Helper()
	p := NewPool(ctx, t)
	d := Decomposed(t)
	err := p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return sqlite.NewInstaller().Install(ctx, c, d)
	})
	require.NoError(t, err)
	return p, d
}
