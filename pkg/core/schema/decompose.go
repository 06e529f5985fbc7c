// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package schema

import (
	"fmt"

	"github.com/sourcecred/mirror/pkg/core/cerr"
)

// DecomposedObject is the per-object-type index produced by Decompose:
// the full field map plus the three disjoint ordered sequences the rest
// of the mirror engine iterates over. The ID field is recorded in
// Fields but omitted from all three sequences.
type DecomposedObject struct {
	Typename string
	Fields   map[string]Field

	IDFieldName          string
	PrimitiveFieldNames  []string
	LinkFieldNames       []string
	ConnectionFieldNames []string
}

// DecomposedUnion is the per-union-type index produced by Decompose.
type DecomposedUnion struct {
	Typename        string
	ClauseTypeNames []string
}

// Decomposed is the output of Decompose: the schema's object and union
// types, each reduced to the indices their component needs, plus the
// original Schema. The installer's fingerprint is computed from Objects
// and Unions, not from Source.
type Decomposed struct {
	Objects map[string]*DecomposedObject
	Unions  map[string]*DecomposedUnion
	Source  *Schema
}

// Object looks up a decomposed object type by typename, reporting
// UnknownType if absent and NonObjectType if typename names a union.
func (d *Decomposed) Object(typename string) (*DecomposedObject, error) {
	if _, isUnion := d.Unions[typename]; isUnion {
		return nil, cerr.NonObjectType(
			fmt.Errorf("%q is a union type, not an object type", typename),
		)
	}
	obj, ok := d.Objects[typename]
	if !ok {
		return nil, cerr.UnknownType(fmt.Errorf("unknown type %q", typename))
	}
	return obj, nil
}

// Decompose flattens s into a Decomposed index, validating every field
// kind and every union clause reference. It is pure; it performs no I/O.
func Decompose(s *Schema) (*Decomposed, error) {
	d := &Decomposed{
		Objects: make(map[string]*DecomposedObject, len(s.Types)),
		Unions:  make(map[string]*DecomposedUnion, len(s.Types)),
		Source:  s,
	}
	for typename, t := range s.Types {
		switch tt := t.(type) {
		case *ObjectType:
			obj, err := decomposeObject(typename, tt)
			if err != nil {
				return nil, err
			}
			d.Objects[typename] = obj
		case *UnionType:
			clauses := make([]string, len(tt.Clauses))
			copy(clauses, tt.Clauses)
			d.Unions[typename] = &DecomposedUnion{
				Typename:        typename,
				ClauseTypeNames: clauses,
			}
		default:
			return nil, cerr.SchemaError(
				fmt.Errorf("type %q has an unrecognized shape", typename),
			)
		}
	}
	if err := validateElementTypes(d); err != nil {
		return nil, err
	}
	if err := validateUnionClauses(d); err != nil {
		return nil, err
	}
	return d, nil
}

func decomposeObject(typename string, t *ObjectType) (*DecomposedObject, error) {
	obj := &DecomposedObject{
		Typename: typename,
		Fields:   make(map[string]Field, len(t.Fields)),
	}
	for _, f := range t.Fields {
		if _, dup := obj.Fields[f.Name]; dup {
			return nil, cerr.SchemaError(fmt.Errorf(
				"type %q declares field %q more than once", typename, f.Name,
			))
		}
		obj.Fields[f.Name] = f
		switch f.Kind {
		case FieldID:
			if obj.IDFieldName != "" {
				return nil, cerr.SchemaError(fmt.Errorf(
					"type %q declares more than one ID field (%q and %q)",
					typename, obj.IDFieldName, f.Name,
				))
			}
			obj.IDFieldName = f.Name
		case FieldPrimitive:
			obj.PrimitiveFieldNames = append(obj.PrimitiveFieldNames, f.Name)
		case FieldNode:
			if f.ElementType == "" {
				return nil, cerr.SchemaError(fmt.Errorf(
					"type %q field %q is NODE but names no elementType",
					typename, f.Name,
				))
			}
			obj.LinkFieldNames = append(obj.LinkFieldNames, f.Name)
		case FieldConnection:
			if f.ElementType == "" {
				return nil, cerr.SchemaError(fmt.Errorf(
					"type %q field %q is CONNECTION but names no elementType",
					typename, f.Name,
				))
			}
			obj.ConnectionFieldNames = append(obj.ConnectionFieldNames, f.Name)
		default:
			return nil, cerr.SchemaError(fmt.Errorf(
				"type %q field %q has unrecognized kind %d",
				typename, f.Name, f.Kind,
			))
		}
	}
	if obj.IDFieldName == "" {
		return nil, cerr.SchemaError(fmt.Errorf(
			"type %q declares no ID field", typename,
		))
	}
	return obj, nil
}

func validateElementTypes(d *Decomposed) error {
	for _, obj := range d.Objects {
		for _, names := range [][]string{obj.LinkFieldNames, obj.ConnectionFieldNames} {
			for _, name := range names {
				elem := obj.Fields[name].ElementType
				if _, ok := d.Objects[elem]; ok {
					continue
				}
				if _, ok := d.Unions[elem]; ok {
					continue
				}
				return cerr.SchemaError(fmt.Errorf(
					"type %q field %q references unknown elementType %q",
					obj.Typename, name, elem,
				))
			}
		}
	}
	return nil
}

func validateUnionClauses(d *Decomposed) error {
	for _, u := range d.Unions {
		if len(u.ClauseTypeNames) == 0 {
			return cerr.SchemaError(fmt.Errorf(
				"union %q declares no clauses", u.Typename,
			))
		}
		for _, clause := range u.ClauseTypeNames {
			if _, ok := d.Objects[clause]; ok {
				continue
			}
			if _, isUnion := d.Unions[clause]; isUnion {
				return cerr.SchemaError(fmt.Errorf(
					"union %q clause %q names a union, not an object type",
					u.Typename, clause,
				))
			}
			return cerr.SchemaError(fmt.Errorf(
				"union %q clause %q names an unknown type", u.Typename, clause,
			))
		}
	}
	return nil
}
