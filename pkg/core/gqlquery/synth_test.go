// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gqlquery_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcecred/mirror/pkg/core/cerr"
	"github.com/sourcecred/mirror/pkg/core/gqlquery"
	"github.com/sourcecred/mirror/pkg/core/schema"
)

func testSchema(t *testing.T) *schema.Decomposed {
	t.Helper()
	s := &schema.Schema{Types: map[string]schema.Type{
		"Repo": &schema.ObjectType{Fields: []schema.Field{
			{Name: "id", Kind: schema.FieldID},
			{Name: "name", Kind: schema.FieldPrimitive},
			{Name: "issues", Kind: schema.FieldConnection, ElementType: "Issue"},
		}},
		"Issue": &schema.ObjectType{Fields: []schema.Field{
			{Name: "id", Kind: schema.FieldID},
			{Name: "author", Kind: schema.FieldNode, ElementType: "Actor"},
		}},
		"User": &schema.ObjectType{Fields: []schema.Field{
			{Name: "id", Kind: schema.FieldID},
		}},
		"Bot": &schema.ObjectType{Fields: []schema.Field{
			{Name: "id", Kind: schema.FieldID},
		}},
		"Actor": &schema.UnionType{Clauses: []string{"User", "Bot"}},
	}}
	d, err := schema.Decompose(s)
	require.NoError(t, err)
	return d
}

func TestQueryShallowObjectType(t *testing.T) {
	d := testSchema(t)
	text, err := gqlquery.QueryShallow(d, "Repo")
	require.NoError(t, err)
	assert.Contains(t, text, "__typename")
	assert.Contains(t, text, "id")
}

func TestQueryShallowUnionType(t *testing.T) {
	d := testSchema(t)
	text, err := gqlquery.QueryShallow(d, "Actor")
	require.NoError(t, err)
	assert.Contains(t, text, "__typename")
	assert.Contains(t, text, "... on User")
	assert.Contains(t, text, "... on Bot")
}

func TestQueryShallowUnknownType(t *testing.T) {
	d := testSchema(t)
	_, err := gqlquery.QueryShallow(d, "Ghost")
	assert.True(t, errors.Is(err, cerr.Sentinel(cerr.KindUnknownType)))
}

func TestQueryConnectionOmitsAfterWhenUnfetched(t *testing.T) {
	d := testSchema(t)
	text, err := gqlquery.QueryConnection(d, "Repo", "issues", gqlquery.Unfetched(), 25)
	require.NoError(t, err)
	assert.Contains(t, text, "issues")
	assert.Contains(t, text, "first: 25")
	assert.NotContains(t, text, "after:")
	assert.Contains(t, text, "totalCount")
	assert.Contains(t, text, "pageInfo")
	assert.Contains(t, text, "endCursor")
	assert.Contains(t, text, "hasNextPage")
	assert.Contains(t, text, "nodes")
}

func TestQueryConnectionEmitsAfterNullWhenFetchedNull(t *testing.T) {
	d := testSchema(t)
	text, err := gqlquery.QueryConnection(d, "Repo", "issues", gqlquery.Fetched(nil), 10)
	require.NoError(t, err)
	assert.Contains(t, text, "after: null")
}

func TestQueryConnectionEmitsAfterValueWhenFetchedWithCursor(t *testing.T) {
	d := testSchema(t)
	v := "cursor-42"
	text, err := gqlquery.QueryConnection(d, "Repo", "issues", gqlquery.Fetched(&v), 10)
	require.NoError(t, err)
	assert.Contains(t, text, `after: "cursor-42"`)
}

func TestQueryConnectionUnknownParentType(t *testing.T) {
	d := testSchema(t)
	_, err := gqlquery.QueryConnection(d, "Ghost", "issues", gqlquery.Unfetched(), 10)
	assert.True(t, errors.Is(err, cerr.Sentinel(cerr.KindUnknownType)))
}

func TestQueryConnectionParentIsUnion(t *testing.T) {
	d := testSchema(t)
	_, err := gqlquery.QueryConnection(d, "Actor", "issues", gqlquery.Unfetched(), 10)
	assert.True(t, errors.Is(err, cerr.Sentinel(cerr.KindNonObjectType)))
}

func TestQueryConnectionUnknownField(t *testing.T) {
	d := testSchema(t)
	_, err := gqlquery.QueryConnection(d, "Repo", "ghostField", gqlquery.Unfetched(), 10)
	assert.True(t, errors.Is(err, cerr.Sentinel(cerr.KindUnknownField)))
}

func TestQueryConnectionFieldNotAConnection(t *testing.T) {
	d := testSchema(t)
	_, err := gqlquery.QueryConnection(d, "Repo", "name", gqlquery.Unfetched(), 10)
	assert.True(t, errors.Is(err, cerr.Sentinel(cerr.KindNotAConnection)))
}
