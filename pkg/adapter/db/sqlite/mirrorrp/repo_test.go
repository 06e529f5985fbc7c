// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package mirrorrp_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcecred/mirror/internal/test/fixtures"
	"github.com/sourcecred/mirror/pkg/adapter/db/sqlite/mirrorrp"
	"github.com/sourcecred/mirror/pkg/core/cerr"
	"github.com/sourcecred/mirror/pkg/core/mirror"
	"github.com/sourcecred/mirror/pkg/core/repo"
)

func TestRegisterObjectIdempotentAndConflicting(t *testing.T) {
	ctx := context.Background()
	p, d := fixtures.NewInstalledPool(ctx, t)
	r := mirrorrp.New()

	err := p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return r.Conn(c).RegisterObject(ctx, d, "Repo", "repo-1")
	})
	require.NoError(t, err)

	// Re-registering the same (typename, id) is a no-op.
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return r.Conn(c).RegisterObject(ctx, d, "Repo", "repo-1")
	})
	assert.NoError(t, err)

	// Registering the same id under a different typename conflicts.
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return r.Conn(c).RegisterObject(ctx, d, "Issue", "repo-1")
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, cerr.Sentinel(cerr.KindTypeConflict)))
}

func TestRegisterObjectUnknownType(t *testing.T) {
	ctx := context.Background()
	p, d := fixtures.NewInstalledPool(ctx, t)
	r := mirrorrp.New()

	err := p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return r.Conn(c).RegisterObject(ctx, d, "Ghost", "id-1")
	})
	assert.True(t, errors.Is(err, cerr.Sentinel(cerr.KindUnknownType)))
}

func TestFindOutdatedIncludesNeverFetchedObjectsAndConnections(t *testing.T) {
	ctx := context.Background()
	p, d := fixtures.NewInstalledPool(ctx, t)
	r := mirrorrp.New()

	err := p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return r.Conn(c).RegisterObject(ctx, d, "Repo", "repo-1")
	})
	require.NoError(t, err)

	var plan *mirror.QueryPlan
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		plan, err = r.Conn(c).FindOutdated(ctx, 1000)
		return err
	})
	require.NoError(t, err)

	require.Len(t, plan.Objects, 1)
	assert.Equal(t, "repo-1", plan.Objects[0].ID)
	assert.Equal(t, "Repo", plan.Objects[0].Typename)

	require.Len(t, plan.Connections, 1)
	assert.Equal(t, "issues", plan.Connections[0].Fieldname)
	assert.False(t, plan.Connections[0].EndCursor.IsFetched())
}

func TestUpdateConnectionThenFindOutdatedReflectsFreshness(t *testing.T) {
	ctx := context.Background()
	p, d := fixtures.NewInstalledPool(ctx, t)
	r := mirrorrp.New()

	var updateID int64
	err := p.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		if err := r.Conn(c).RegisterObject(ctx, d, "Repo", "repo-1"); err != nil {
			return err
		}
		updateID, err = r.Conn(c).CreateUpdate(ctx, 5000)
		return err
	})
	require.NoError(t, err)

	cursor := "cursor-1"
	result := mirror.ConnectionResult{
		TotalCount: 1,
		PageInfo:   mirror.PageInfo{HasNextPage: false, EndCursor: &cursor},
		Nodes: []*mirror.NodeResult{
			{Typename: "Issue", ID: "issue-1"},
		},
	}
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return r.Conn(c).UpdateConnection(ctx, d, updateID, "repo-1", "issues", result)
	})
	require.NoError(t, err)

	// The referenced Issue node was registered as a side effect.
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return r.Conn(c).RegisterObject(ctx, d, "Issue", "issue-1")
	})
	assert.NoError(t, err)

	var plan *mirror.QueryPlan
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		plan, err = r.Conn(c).FindOutdated(ctx, 4000)
		return err
	})
	require.NoError(t, err)
	for _, pc := range plan.Connections {
		if pc.ObjectID == "repo-1" && pc.Fieldname == "issues" {
			t.Fatalf("fresh connection should not be outdated as of an earlier instant")
		}
	}
}

func TestUpdateConnectionWithHasNextPageIsAlwaysStale(t *testing.T) {
	ctx := context.Background()
	p, d := fixtures.NewInstalledPool(ctx, t)
	r := mirrorrp.New()

	var updateID int64
	err := p.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		if err := r.Conn(c).RegisterObject(ctx, d, "Repo", "repo-1"); err != nil {
			return err
		}
		updateID, err = r.Conn(c).CreateUpdate(ctx, 9999999)
		return err
	})
	require.NoError(t, err)

	cursor := "cursor-1"
	result := mirror.ConnectionResult{
		TotalCount: 2,
		PageInfo:   mirror.PageInfo{HasNextPage: true, EndCursor: &cursor},
	}
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return r.Conn(c).UpdateConnection(ctx, d, updateID, "repo-1", "issues", result)
	})
	require.NoError(t, err)

	var plan *mirror.QueryPlan
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		plan, err = r.Conn(c).FindOutdated(ctx, 1)
		return err
	})
	require.NoError(t, err)

	found := false
	for _, pc := range plan.Connections {
		if pc.ObjectID == "repo-1" && pc.Fieldname == "issues" {
			found = true
			require.True(t, pc.EndCursor.IsFetched())
			require.NotNil(t, pc.EndCursor.Value())
			assert.Equal(t, "cursor-1", *pc.EndCursor.Value())
		}
	}
	assert.True(t, found, "a connection with has_next_page is always stale")
}

func TestUpdateConnectionUnknownUpdate(t *testing.T) {
	ctx := context.Background()
	p, d := fixtures.NewInstalledPool(ctx, t)
	r := mirrorrp.New()

	err := p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		require.NoError(t, r.Conn(c).RegisterObject(ctx, d, "Repo", "repo-1"))
		return r.Conn(c).UpdateConnection(ctx, d, 99999, "repo-1", "issues", mirror.ConnectionResult{})
	})
	assert.True(t, errors.Is(err, cerr.Sentinel(cerr.KindUnknownUpdate)))
}

func TestUpdateConnectionUnknownConnection(t *testing.T) {
	ctx := context.Background()
	p, d := fixtures.NewInstalledPool(ctx, t)
	r := mirrorrp.New()

	var updateID int64
	err := p.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		if err := r.Conn(c).RegisterObject(ctx, d, "Repo", "repo-1"); err != nil {
			return err
		}
		updateID, err = r.Conn(c).CreateUpdate(ctx, 1)
		return err
	})
	require.NoError(t, err)

	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return r.Conn(c).UpdateConnection(ctx, d, updateID, "repo-1", "ghostField", mirror.ConnectionResult{})
	})
	assert.True(t, errors.Is(err, cerr.Sentinel(cerr.KindUnknownConnection)))
}

func TestUpdateConnectionEntriesAreSequentiallyIndexedAcrossPages(t *testing.T) {
	ctx := context.Background()
	p, d := fixtures.NewInstalledPool(ctx, t)
	r := mirrorrp.New()

	err := p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return r.Conn(c).RegisterObject(ctx, d, "Repo", "repo-1")
	})
	require.NoError(t, err)

	pages := []mirror.ConnectionResult{
		{
			TotalCount: 2,
			PageInfo:   mirror.PageInfo{HasNextPage: true},
			Nodes:      []*mirror.NodeResult{{Typename: "Issue", ID: "issue-1"}},
		},
		{
			TotalCount: 2,
			PageInfo:   mirror.PageInfo{HasNextPage: false},
			Nodes:      []*mirror.NodeResult{{Typename: "Issue", ID: "issue-2"}},
		},
	}
	for _, page := range pages {
		var updateID int64
		err := p.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
			updateID, err = r.Conn(c).CreateUpdate(ctx, 1)
			return err
		})
		require.NoError(t, err)
		err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
			return r.Conn(c).UpdateConnection(ctx, d, updateID, "repo-1", "issues", page)
		})
		require.NoError(t, err)
	}

	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		rows, err := c.Query(ctx,
			`SELECT ce.idx FROM connection_entries ce
			 JOIN connections conn ON ce.connection_id = conn.rowid
			 WHERE conn.object_id = ? AND conn.fieldname = ?
			 ORDER BY ce.idx`,
			"repo-1", "issues",
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		var idxs []int64
		for rows.Next() {
			var idx int64
			if err := rows.Scan(&idx); err != nil {
				return err
			}
			idxs = append(idxs, idx)
		}
		assert.Equal(t, []int64{1, 2}, idxs)
		return rows.Err()
	})
	require.NoError(t, err)
}

func TestTxQueryerRunsWithinCallersTransaction(t *testing.T) {
	ctx := context.Background()
	p, d := fixtures.NewInstalledPool(ctx, t)
	r := mirrorrp.New()

	err := p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			return r.Tx(tx).RegisterObject(ctx, d, "Repo", "repo-1")
		})
	})
	require.NoError(t, err)

	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return r.Conn(c).RegisterObject(ctx, d, "Repo", "repo-1")
	})
	assert.NoError(t, err)
}
