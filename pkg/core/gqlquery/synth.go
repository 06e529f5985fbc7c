// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gqlquery is the query synthesizer (component G): two pure
// functions that emit GraphQL selection-set text against a schema's
// decomposed shape. Neither function touches a store or a network
// connection; same inputs always produce the same output.
package gqlquery

import (
	"fmt"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/sourcecred/mirror/pkg/core/cerr"
	"github.com/sourcecred/mirror/pkg/core/schema"
)

// QueryShallow returns the minimal selection needed to discover an
// object's concrete type and id.
//
//   - If typename names an object type: `{ __typename, <idField> }`.
//   - If typename names a union type: `{ __typename, ... on C1 { <idField> }, ... }`
//     across every clause, in the order the schema declared them.
//
// Fails with UnknownType if typename names neither.
func QueryShallow(d *schema.Decomposed, typename string) (string, error) {
	sel, err := shallowSelection(d, typename)
	if err != nil {
		return "", err
	}
	return print(sel), nil
}

// shallowSelection builds the bare selection-set field list shared by
// QueryShallow and the `nodes { ... }` sub-selection of QueryConnection,
// without printing it.
func shallowSelection(d *schema.Decomposed, typename string) (*ast.SelectionSet, error) {
	if obj, ok := d.Objects[typename]; ok {
		sels := selectionField(nil, "__typename", nil)
		sels = selectionField(sels, obj.IDFieldName, nil)
		return selectionSet(sels), nil
	}
	if union, ok := d.Unions[typename]; ok {
		sels := selectionField(nil, "__typename", nil)
		for _, clause := range union.ClauseTypeNames {
			obj, ok := d.Objects[clause]
			if !ok {
				return nil, cerr.SchemaError(fmt.Errorf(
					"union %q clause %q does not resolve to an object type",
					typename, clause,
				))
			}
			clauseSels := selectionField(nil, obj.IDFieldName, nil)
			sels = append(sels, inlineFragment(clause, selectionSet(clauseSels)))
		}
		return selectionSet(sels), nil
	}
	return nil, cerr.UnknownType(fmt.Errorf("unknown type %q", typename))
}

// QueryConnection returns a selection of the form
//
//	<fieldname>(first: <pageSize>[, after: <endCursor>]) {
//	  totalCount
//	  pageInfo { endCursor, hasNextPage }
//	  nodes { <QueryShallow(elementType)> }
//	}
//
// The after argument is present iff cursor is in the fetched state: a
// fetched-null cursor still emits `after: null`, an unfetched cursor
// omits the argument entirely.
//
// Fails with UnknownType if parentTypename is unknown, NonObjectType if
// it names a union, UnknownField if fieldname is not declared on it, or
// NotAConnection if fieldname is declared but is not a CONNECTION
// field.
func QueryConnection(
	d *schema.Decomposed,
	parentTypename, fieldname string,
	cursor Cursor,
	pageSize int,
) (string, error) {
	parent, err := d.Object(parentTypename)
	if err != nil {
		return "", err
	}
	field, ok := parent.Fields[fieldname]
	if !ok {
		return "", cerr.UnknownField(fmt.Errorf(
			"type %q declares no field %q", parentTypename, fieldname,
		))
	}
	if field.Kind != schema.FieldConnection {
		return "", cerr.NotAConnection(fmt.Errorf(
			"type %q field %q is not a connection field", parentTypename, fieldname,
		))
	}

	nodesSel, err := shallowSelection(d, field.ElementType)
	if err != nil {
		return "", err
	}

	args := []*ast.Argument{argument("first", intLiteral(pageSize))}
	if cursor.IsFetched() {
		if v := cursor.Value(); v != nil {
			args = append(args, argument("after", stringLiteral(*v)))
		} else {
			args = append(args, argument("after", nullLiteral()))
		}
	}

	pageInfoSel := selectionSet(selectionField(
		selectionField(nil, "endCursor", nil), "hasNextPage", nil,
	))

	body := selectionField(nil, "totalCount", nil)
	body = argField(body, "pageInfo", nil, pageInfoSel)
	body = argField(body, "nodes", nil, nodesSel)

	top := argField(nil, fieldname, args, selectionSet(body))
	return print(top[0]), nil
}
