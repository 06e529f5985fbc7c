// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package mirrorrp is the sqlite-backed implementation of the mirror
// domain repository (components D, E, F, H): the object registry, the
// update clock, the staleness planner and the connection ingestor.
package mirrorrp

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/sourcecred/mirror/pkg/adapter/db/sqlite"
	"github.com/sourcecred/mirror/pkg/core/cerr"
	"github.com/sourcecred/mirror/pkg/core/gqlquery"
	"github.com/sourcecred/mirror/pkg/core/log"
	"github.com/sourcecred/mirror/pkg/core/mirror"
	"github.com/sourcecred/mirror/pkg/core/schema"
)

// createUpdate allocates a new update row stamped with
// timeEpochMillis and returns its rowid (component E).
func createUpdate[Q sqlite.Queryer](
	ctx context.Context, q Q, timeEpochMillis int64,
) (int64, error) {
	if _, err := q.Exec(ctx,
		`INSERT INTO updates (time_epoch_millis) VALUES (?)`, timeEpochMillis,
	); err != nil {
		return 0, fmt.Errorf("inserting update: %w", err)
	}
	rows, err := q.Query(ctx, `SELECT last_insert_rowid()`)
	if err != nil {
		return 0, fmt.Errorf("reading new update id: %w", err)
	}
	defer rows.Close()
	var id int64
	if !rows.Next() {
		return 0, fmt.Errorf("reading new update id: no row returned")
	}
	if err := rows.Scan(&id); err != nil {
		return 0, fmt.Errorf("scanning new update id: %w", err)
	}
	return id, rows.Err()
}

// registerObject registers (typename, id) against d. It is the
// non-transactional form: it never opens its own transaction, so
// callers already inside one (such as updateConnection, registering a
// page's referenced nodes) can call it directly.
func registerObject[Q sqlite.Queryer](
	ctx context.Context, q Q, d *schema.Decomposed, typename, id string,
) error {
	obj, err := d.Object(typename)
	if err != nil {
		return err
	}

	rows, err := q.Query(ctx, `SELECT typename FROM objects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("looking up object %q: %w", id, err)
	}
	var existing string
	found := rows.Next()
	if found {
		if err := rows.Scan(&existing); err != nil {
			rows.Close()
			return fmt.Errorf("scanning object %q: %w", id, err)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("looking up object %q: %w", id, err)
	}
	if found {
		if existing != typename {
			err := cerr.TypeConflict(fmt.Errorf(
				"object %q already registered as %q, not %q",
				id, existing, typename,
			))
			log.Error(ctx, "object registration conflict", log.Err("error", err))
			return err
		}
		return nil
	}

	if _, err := q.Exec(ctx,
		`INSERT INTO objects (id, typename, last_update) VALUES (?, ?, NULL)`,
		id, typename,
	); err != nil {
		return fmt.Errorf("inserting object %q: %w", id, err)
	}
	if _, err := q.Exec(ctx,
		fmt.Sprintf(`INSERT INTO primitives_%s (id) VALUES (?)`, typename), id,
	); err != nil {
		return fmt.Errorf("inserting primitives row for %q: %w", id, err)
	}
	for _, fieldname := range obj.LinkFieldNames {
		if _, err := q.Exec(ctx,
			`INSERT INTO links (parent_id, fieldname, child_id) VALUES (?, ?, NULL)`,
			id, fieldname,
		); err != nil {
			return fmt.Errorf(
				"inserting links row for %q.%s: %w", id, fieldname, err,
			)
		}
	}
	for _, fieldname := range obj.ConnectionFieldNames {
		if _, err := q.Exec(ctx,
			`INSERT INTO connections (object_id, fieldname) VALUES (?, ?)`,
			id, fieldname,
		); err != nil {
			return fmt.Errorf(
				"inserting connections row for %q.%s: %w", id, fieldname, err,
			)
		}
	}
	return nil
}

// findOutdated returns the QueryPlan of every object and connection
// field stale as of sinceEpochMillis (component F).
func findOutdated[Q sqlite.Queryer](
	ctx context.Context, q Q, sinceEpochMillis int64,
) (*mirror.QueryPlan, error) {
	plan := &mirror.QueryPlan{}

	objRows, err := q.Query(ctx,
		`SELECT o.id, o.typename
		 FROM objects o LEFT JOIN updates u ON o.last_update = u.rowid
		 WHERE o.last_update IS NULL OR u.time_epoch_millis < ?`,
		sinceEpochMillis,
	)
	if err != nil {
		return nil, fmt.Errorf("querying outdated objects: %w", err)
	}
	for objRows.Next() {
		var po mirror.PlanObject
		if err := objRows.Scan(&po.ID, &po.Typename); err != nil {
			objRows.Close()
			return nil, fmt.Errorf("scanning outdated object: %w", err)
		}
		plan.Objects = append(plan.Objects, po)
	}
	objRows.Close()
	if err := objRows.Err(); err != nil {
		return nil, fmt.Errorf("querying outdated objects: %w", err)
	}

	connRows, err := q.Query(ctx,
		`SELECT c.object_id, c.fieldname, c.last_update, c.end_cursor
		 FROM connections c LEFT JOIN updates u ON c.last_update = u.rowid
		 WHERE c.last_update IS NULL
		    OR u.time_epoch_millis < ?
		    OR c.has_next_page = 1`,
		sinceEpochMillis,
	)
	if err != nil {
		return nil, fmt.Errorf("querying outdated connections: %w", err)
	}
	for connRows.Next() {
		var pc mirror.PlanConnection
		var lastUpdate sql.NullInt64
		var endCursor sql.NullString
		if err := connRows.Scan(
			&pc.ObjectID, &pc.Fieldname, &lastUpdate, &endCursor,
		); err != nil {
			connRows.Close()
			return nil, fmt.Errorf("scanning outdated connection: %w", err)
		}
		if !lastUpdate.Valid {
			pc.EndCursor = gqlquery.Unfetched()
		} else if endCursor.Valid {
			v := endCursor.String
			pc.EndCursor = gqlquery.Fetched(&v)
		} else {
			pc.EndCursor = gqlquery.Fetched(nil)
		}
		plan.Connections = append(plan.Connections, pc)
	}
	connRows.Close()
	if err := connRows.Err(); err != nil {
		return nil, fmt.Errorf("querying outdated connections: %w", err)
	}

	return plan, nil
}

// updateConnection ingests one page of a connection field atomically
// within whatever transaction q is running in (component H).
func updateConnection[Q sqlite.Queryer](
	ctx context.Context, q Q, d *schema.Decomposed,
	updateID int64, objectID, fieldname string,
	result mirror.ConnectionResult,
) error {
	updRows, err := q.Query(ctx, `SELECT rowid FROM updates WHERE rowid = ?`, updateID)
	if err != nil {
		return fmt.Errorf("looking up update %d: %w", updateID, err)
	}
	foundUpdate := updRows.Next()
	updRows.Close()
	if err := updRows.Err(); err != nil {
		return fmt.Errorf("looking up update %d: %w", updateID, err)
	}
	if !foundUpdate {
		return cerr.UnknownUpdate(fmt.Errorf("unknown update id %d", updateID))
	}

	connRows, err := q.Query(ctx,
		`SELECT rowid FROM connections WHERE object_id = ? AND fieldname = ?`,
		objectID, fieldname,
	)
	if err != nil {
		return fmt.Errorf(
			"looking up connection %s.%s: %w", objectID, fieldname, err,
		)
	}
	var connID int64
	foundConn := connRows.Next()
	if foundConn {
		if err := connRows.Scan(&connID); err != nil {
			connRows.Close()
			return fmt.Errorf("scanning connection rowid: %w", err)
		}
	}
	connRows.Close()
	if err := connRows.Err(); err != nil {
		return fmt.Errorf(
			"looking up connection %s.%s: %w", objectID, fieldname, err,
		)
	}
	if !foundConn {
		return cerr.UnknownConnection(fmt.Errorf(
			"no connection %s.%s (object never registered, or fieldname is"+
				" not a connection of its type)", objectID, fieldname,
		))
	}

	hasNextPage := 0
	if result.PageInfo.HasNextPage {
		hasNextPage = 1
	}
	n, err := q.Exec(ctx,
		`UPDATE connections
		 SET last_update = ?, total_count = ?, has_next_page = ?, end_cursor = ?
		 WHERE rowid = ?`,
		updateID, result.TotalCount, hasNextPage, result.PageInfo.EndCursor, connID,
	)
	if err := sqlite.AssertSingleRow(n, err); err != nil {
		return fmt.Errorf("updating connection metadata: %w", err)
	}

	idxRows, err := q.Query(ctx,
		`SELECT COALESCE(MAX(idx), 0) FROM connection_entries WHERE connection_id = ?`,
		connID,
	)
	if err != nil {
		return fmt.Errorf("reading next entry index: %w", err)
	}
	var maxIdx int64
	if idxRows.Next() {
		if err := idxRows.Scan(&maxIdx); err != nil {
			idxRows.Close()
			return fmt.Errorf("scanning next entry index: %w", err)
		}
	}
	idxRows.Close()
	if err := idxRows.Err(); err != nil {
		return fmt.Errorf("reading next entry index: %w", err)
	}
	nextIndex := maxIdx + 1

	for _, node := range result.Nodes {
		var childID *string
		if node != nil {
			if err := registerObject(ctx, q, d, node.Typename, node.ID); err != nil {
				return err
			}
			childID = &node.ID
		}
		if _, err := q.Exec(ctx,
			`INSERT INTO connection_entries (connection_id, idx, child_id) VALUES (?, ?, ?)`,
			connID, nextIndex, childID,
		); err != nil {
			return fmt.Errorf("inserting connection entry %d: %w", nextIndex, err)
		}
		nextIndex++
	}
	log.Debug(ctx, "connection page ingested",
		slog.String("objectID", objectID),
		slog.String("fieldname", fieldname),
		slog.Int("entries", len(result.Nodes)),
	)
	return nil
}
