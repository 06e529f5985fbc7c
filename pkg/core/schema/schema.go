// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schema describes the input schema shape that the mirror
// engine compiles into a relational layout: a closed universe of
// object types (ID/primitive/link/connection fields) and union types
// (discriminated unions of object types).
//
// Schema itself is pure data with no behavior; pkg/core/schema carries
// the Decompose operation (component A, the Schema Decomposer) which
// flattens it into the per-type indices the rest of the mirror engine
// relies on.
package schema

// FieldKind enumerates the kinds a Field may take.
type FieldKind int

// The closed set of field kinds this core understands. Any other
// value is rejected by Decompose with a SchemaError.
const (
	FieldUnknown FieldKind = iota
	FieldID
	FieldPrimitive
	FieldNode
	FieldConnection
)

// String renders a FieldKind the way it would appear in schema
// documents and error messages.
func (k FieldKind) String() string {
	switch k {
	case FieldID:
		return "ID"
	case FieldPrimitive:
		return "PRIMITIVE"
	case FieldNode:
		return "NODE"
	case FieldConnection:
		return "CONNECTION"
	default:
		return "UNKNOWN"
	}
}

// Field describes one entry of an object type's ordered field map.
// ElementType is only meaningful for FieldNode and FieldConnection
// kinds, naming the typename of the referenced node.
type Field struct {
	Name        string
	Kind        FieldKind
	ElementType string
}

// ObjectType is a typename with an ordered mapping of fieldname to
// field kind. Order is preserved because it drives per-type table
// column order and the derived field-name sequences.
type ObjectType struct {
	Fields []Field
}

// UnionType is a typename with an ordered set of clause typenames,
// each naming a member ObjectType.
type UnionType struct {
	Clauses []string
}

// Type is implemented by *ObjectType and *UnionType.
type Type interface {
	isSchemaType()
}

func (*ObjectType) isSchemaType() {}
func (*UnionType) isSchemaType()  {}

// Schema is a mapping from typename to either an ObjectType or a
// UnionType. It is opaque to this core beyond this shape.
type Schema struct {
	Types map[string]Type
}
