// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package sqlite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/goccy/go-json"

	"github.com/sourcecred/mirror/pkg/core/cerr"
	"github.com/sourcecred/mirror/pkg/core/ident"
	"github.com/sourcecred/mirror/pkg/core/log"
	"github.com/sourcecred/mirror/pkg/core/repo"
	"github.com/sourcecred/mirror/pkg/core/schema"
)

// FingerprintVersion bumps whenever this package's interpretation of a
// schema's relational layout changes semantics. It is folded into the
// fingerprint so an on-disk store from an incompatible engine version
// is rejected the same way an incompatible schema is.
const FingerprintVersion = "MIRROR_v1"

const structuralDDL = `
CREATE TABLE updates (
	rowid INTEGER PRIMARY KEY,
	time_epoch_millis INTEGER NOT NULL
);
CREATE TABLE objects (
	id TEXT PRIMARY KEY,
	typename TEXT NOT NULL,
	last_update INTEGER REFERENCES updates(rowid)
);
CREATE TABLE links (
	rowid INTEGER PRIMARY KEY,
	parent_id TEXT NOT NULL REFERENCES objects(id),
	fieldname TEXT NOT NULL,
	child_id TEXT REFERENCES objects(id),
	UNIQUE(parent_id, fieldname)
);
CREATE TABLE connections (
	rowid INTEGER PRIMARY KEY,
	object_id TEXT NOT NULL REFERENCES objects(id),
	fieldname TEXT NOT NULL,
	last_update INTEGER REFERENCES updates(rowid),
	total_count INTEGER,
	has_next_page BOOLEAN,
	end_cursor TEXT,
	CHECK((last_update IS NULL) = (total_count IS NULL)),
	CHECK((last_update IS NULL) = (has_next_page IS NULL)),
	CHECK((last_update IS NOT NULL) OR (end_cursor IS NULL)),
	UNIQUE(object_id, fieldname)
);
CREATE TABLE connection_entries (
	rowid INTEGER PRIMARY KEY,
	connection_id INTEGER NOT NULL REFERENCES connections(rowid),
	idx INTEGER NOT NULL,
	child_id TEXT REFERENCES objects(id),
	UNIQUE(connection_id, idx)
);
CREATE INDEX connection_entries_connection_id ON connection_entries(connection_id);
`

// SchemaInstaller is the schema installer (component C).
type SchemaInstaller struct{}

// NewInstaller returns a ready-to-use SchemaInstaller.
func NewInstaller() *SchemaInstaller {
	return &SchemaInstaller{}
}

var _ repo.Installer = (*SchemaInstaller)(nil)

// Install implements repo.Installer.
func (SchemaInstaller) Install(ctx context.Context, c repo.Conn, d *schema.Decomposed) error {
	fingerprint, err := Fingerprint(d)
	if err != nil {
		return err
	}
	if err := validateIdentifiers(d); err != nil {
		return err
	}
	return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
		if _, err := tx.Exec(ctx,
			`CREATE TABLE IF NOT EXISTS meta (
				zero INTEGER PRIMARY KEY, schema TEXT NOT NULL
			)`,
		); err != nil {
			return fmt.Errorf("creating meta table: %w", err)
		}

		rows, err := tx.Query(ctx, `SELECT schema FROM meta WHERE zero = 0`)
		if err != nil {
			return fmt.Errorf("reading meta: %w", err)
		}
		var existing string
		found := false
		if rows.Next() {
			if err := rows.Scan(&existing); err != nil {
				rows.Close()
				return fmt.Errorf("scanning meta: %w", err)
			}
			found = true
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("reading meta: %w", err)
		}

		if found {
			if existing != fingerprint {
				err := cerr.IncompatibleStore(fmt.Errorf(
					"existing store schema does not match the supplied schema",
				))
				log.Error(ctx, "schema install rejected", log.Err("error", err))
				return err
			}
			log.Debug(ctx, "schema already installed, fingerprint matches")
			return nil
		}

		if _, err := tx.Exec(ctx, structuralDDL); err != nil {
			return fmt.Errorf("creating structural tables: %w", err)
		}
		for typename, obj := range d.Objects {
			if err := createPrimitivesTable(ctx, tx, typename, obj); err != nil {
				return err
			}
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO meta (zero, schema) VALUES (0, ?)`, fingerprint,
		); err != nil {
			return fmt.Errorf("writing meta: %w", err)
		}
		log.Info(ctx, "schema installed", slog.Int("types", len(d.Objects)+len(d.Unions)))
		return nil
	})
}

func createPrimitivesTable(
	ctx context.Context, tx repo.Tx, typename string, obj *schema.DecomposedObject,
) error {
	stmt := fmt.Sprintf(
		`CREATE TABLE primitives_%s (id TEXT PRIMARY KEY REFERENCES objects(id)`,
		typename,
	)
	for _, fieldname := range obj.PrimitiveFieldNames {
		stmt += fmt.Sprintf(`, %q`, fieldname)
	}
	stmt += ")"
	if _, err := tx.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("creating primitives_%s table: %w", typename, err)
	}
	return nil
}

// validateIdentifiers rejects any typename or primitive fieldname that
// would be unsafe to splice unquoted into a CREATE TABLE statement,
// before any DDL runs.
func validateIdentifiers(d *schema.Decomposed) error {
	for typename, obj := range d.Objects {
		if !ident.Safe(typename) {
			return cerr.UnsafeIdentifier(fmt.Errorf(
				"typename %q is not a safe SQL identifier", typename,
			))
		}
		for _, fieldname := range obj.PrimitiveFieldNames {
			if !ident.Safe(fieldname) {
				return cerr.UnsafeIdentifier(fmt.Errorf(
					"type %q primitive field %q is not a safe SQL identifier",
					typename, fieldname,
				))
			}
		}
	}
	return nil
}

// fingerprintDoc is marshalled with goccy/go-json, which (like
// encoding/json) serializes map keys in sorted order at every level;
// building the schema description out of maps rather than structs is
// what makes the fingerprint a function of content, not field
// declaration order.
type fingerprintDoc struct {
	Version string         `json:"version"`
	Schema  map[string]any `json:"schema"`
}

// Fingerprint computes the deterministic {version, schema} blob that
// the installer stores and compares on every reopen.
func Fingerprint(d *schema.Decomposed) (string, error) {
	doc := fingerprintDoc{
		Version: FingerprintVersion,
		Schema:  make(map[string]any, len(d.Objects)+len(d.Unions)),
	}
	for typename, obj := range d.Objects {
		fields := make(map[string]any, len(obj.Fields))
		for fieldname, f := range obj.Fields {
			fields[fieldname] = map[string]any{
				"kind":        f.Kind.String(),
				"elementType": f.ElementType,
			}
		}
		doc.Schema[typename] = map[string]any{
			"kind":   "OBJECT",
			"fields": fields,
		}
	}
	for typename, u := range d.Unions {
		doc.Schema[typename] = map[string]any{
			"kind":    "UNION",
			"clauses": u.ClauseTypeNames,
		}
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshalling schema fingerprint: %w", err)
	}
	return string(b), nil
}
