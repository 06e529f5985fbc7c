// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package load decodes a YAML schema document (the on-disk format that
// mirrorctl and the config loader consume) into a *schema.Schema. It is
// a thin adapter over gopkg.in/yaml.v3; the actual schema shape
// validation lives in schema.Decompose.
package load

import (
	"fmt"
	"os"

	"github.com/sourcecred/mirror/pkg/core/schema"
	"gopkg.in/yaml.v3"
)

// doc mirrors the on-disk YAML shape. Kept unexported: callers only
// ever see the resulting *schema.Schema.
type doc struct {
	Types map[string]docType `yaml:"types"`
}

type docType struct {
	Kind    string      `yaml:"kind"` // "OBJECT" or "UNION"
	Fields  []docField  `yaml:"fields"`
	Clauses []string    `yaml:"clauses"`
}

type docField struct {
	Name        string `yaml:"name"`
	Kind        string `yaml:"kind"`
	ElementType string `yaml:"elementType"`
}

// File reads and parses the YAML schema document at path.
func File(path string) (*schema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}
	return Bytes(data)
}

// Bytes parses a YAML schema document already held in memory.
func Bytes(data []byte) (*schema.Schema, error) {
	var d doc
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshalling schema yaml: %w", err)
	}
	return fromDoc(&d)
}

func fromDoc(d *doc) (*schema.Schema, error) {
	s := &schema.Schema{Types: make(map[string]schema.Type, len(d.Types))}
	for typename, dt := range d.Types {
		switch dt.Kind {
		case "OBJECT":
			fields := make([]schema.Field, len(dt.Fields))
			for i, df := range dt.Fields {
				kind, err := fieldKind(df.Kind)
				if err != nil {
					return nil, fmt.Errorf(
						"type %q field %q: %w", typename, df.Name, err,
					)
				}
				fields[i] = schema.Field{
					Name:        df.Name,
					Kind:        kind,
					ElementType: df.ElementType,
				}
			}
			s.Types[typename] = &schema.ObjectType{Fields: fields}
		case "UNION":
			clauses := make([]string, len(dt.Clauses))
			copy(clauses, dt.Clauses)
			s.Types[typename] = &schema.UnionType{Clauses: clauses}
		default:
			return nil, fmt.Errorf(
				"type %q has unrecognized top-level kind %q", typename, dt.Kind,
			)
		}
	}
	return s, nil
}

func fieldKind(s string) (schema.FieldKind, error) {
	switch s {
	case "ID":
		return schema.FieldID, nil
	case "PRIMITIVE":
		return schema.FieldPrimitive, nil
	case "NODE":
		return schema.FieldNode, nil
	case "CONNECTION":
		return schema.FieldConnection, nil
	default:
		return schema.FieldUnknown, fmt.Errorf("unrecognized field kind %q", s)
	}
}
