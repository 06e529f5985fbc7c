// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gqlquery

import (
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/printer"
)

// This file is the thin layer between the mirror engine's domain
// vocabulary (typenames, fieldnames, cursors, page sizes) and
// graphql-go's language/ast package, which is the query-AST builder
// and serializer this package treats as an external collaborator: it
// never hand-formats GraphQL text, it only assembles ast nodes and
// hands them to printer.Print.

// selectionField appends a field with no arguments and an optional
// sub-selection to sels.
func selectionField(sels []ast.Selection, name string, sub *ast.SelectionSet) []ast.Selection {
	return append(sels, ast.NewField(&ast.Field{
		Name:         ast.NewName(&ast.Name{Value: name}),
		SelectionSet: sub,
	}))
}

// argField appends a field with arguments and a sub-selection to sels.
func argField(sels []ast.Selection, name string, args []*ast.Argument, sub *ast.SelectionSet) []ast.Selection {
	return append(sels, ast.NewField(&ast.Field{
		Name:         ast.NewName(&ast.Name{Value: name}),
		Arguments:    args,
		SelectionSet: sub,
	}))
}

// inlineFragment wraps sub in an inline fragment typed to typename, the
// shape a union clause selection takes on the wire.
func inlineFragment(typename string, sub *ast.SelectionSet) ast.Selection {
	return ast.NewInlineFragment(&ast.InlineFragment{
		TypeCondition: ast.NewNamed(&ast.Named{
			Name: ast.NewName(&ast.Name{Value: typename}),
		}),
		SelectionSet: sub,
	})
}

// selectionSet builds a SelectionSet from sels.
func selectionSet(sels []ast.Selection) *ast.SelectionSet {
	return ast.NewSelectionSet(&ast.SelectionSet{Selections: sels})
}

// intLiteral builds an integer argument value.
func intLiteral(v int) ast.Value {
	return ast.NewIntValue(&ast.IntValue{Value: itoa(v)})
}

// stringLiteral builds a string argument value.
func stringLiteral(v string) ast.Value {
	return ast.NewStringValue(&ast.StringValue{Value: v})
}

// nullLiteral builds an explicit null argument value.
func nullLiteral() ast.Value {
	return ast.NewNullValue(&ast.NullValue{})
}

// argument builds a named argument from a literal value.
func argument(name string, value ast.Value) *ast.Argument {
	return ast.NewArgument(&ast.Argument{
		Name:  ast.NewName(&ast.Name{Value: name}),
		Value: value,
	})
}

// print serializes a node the way queryShallow and queryConnection hand
// their result back to callers: the node's own text, with no enclosing
// operation, so callers splice it under a root field of their own
// choosing. It takes the concrete *ast.SelectionSet or *ast.Field
// directly (printer.Print accepts any ast.Node) rather than the
// narrower ast.Selection interface, since queryShallow prints a
// selection set while queryConnection prints a single field.
func print(node any) string {
	return printer.Print(node.(ast.Node)).(string)
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
