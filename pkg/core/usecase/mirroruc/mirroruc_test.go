// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package mirroruc_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcecred/mirror/internal/test/fixtures"
	"github.com/sourcecred/mirror/pkg/adapter/db/sqlite"
	"github.com/sourcecred/mirror/pkg/adapter/db/sqlite/mirrorrp"
	"github.com/sourcecred/mirror/pkg/core/gqlquery"
	"github.com/sourcecred/mirror/pkg/core/mirror"
	"github.com/sourcecred/mirror/pkg/core/usecase/mirroruc"
)

func newUseCase(ctx context.Context, t *testing.T, opts ...mirroruc.Option) *mirroruc.UseCase {
	t.Helper()
	p := fixtures.NewPool(ctx, t)
	d := fixtures.Decomposed(t)
	uc, err := mirroruc.New(p, sqlite.NewInstaller(), mirrorrp.New(), d, opts...)
	require.NoError(t, err)
	return uc
}

func TestWithPageSizeRejectsNonPositive(t *testing.T) {
	_, err := mirroruc.New(nil, nil, nil, nil, mirroruc.WithPageSize(0))
	assert.Error(t, err)
	_, err = mirroruc.New(nil, nil, nil, nil, mirroruc.WithPageSize(-1))
	assert.Error(t, err)
}

func TestWithPageSizeRejectsDoubleConfiguration(t *testing.T) {
	_, err := mirroruc.New(nil, nil, nil, nil, mirroruc.WithPageSize(10), mirroruc.WithPageSize(20))
	assert.Error(t, err)
}

func TestQueryConnectionUsesConfiguredPageSize(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(ctx, t, mirroruc.WithPageSize(7))
	text, err := uc.QueryConnection("Repo", "issues", gqlquery.Unfetched())
	require.NoError(t, err)
	assert.Contains(t, text, "first: 7")
}

func TestQueryConnectionDefaultsPageSizeTo50(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(ctx, t)
	text, err := uc.QueryConnection("Repo", "issues", gqlquery.Unfetched())
	require.NoError(t, err)
	assert.Contains(t, text, "first: 50")
}

func TestInstallThenRegisterThenFindOutdatedEndToEnd(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(ctx, t)

	require.NoError(t, uc.Install(ctx))

	require.NoError(t, uc.RegisterObject(ctx, "Repo", "repo-1"))

	plan, err := uc.FindOutdated(ctx, 1000)
	require.NoError(t, err)
	require.Len(t, plan.Objects, 1)
	assert.Equal(t, "repo-1", plan.Objects[0].ID)
	require.Len(t, plan.Connections, 1)
	assert.Equal(t, "issues", plan.Connections[0].Fieldname)

	updateID, err := uc.CreateUpdate(ctx, 2000)
	require.NoError(t, err)

	err = uc.UpdateConnection(ctx, updateID, "repo-1", "issues", mirror.ConnectionResult{
		TotalCount: 1,
		PageInfo:   mirror.PageInfo{HasNextPage: false},
		Nodes:      []*mirror.NodeResult{{Typename: "Issue", ID: "issue-1"}},
	})
	require.NoError(t, err)

	shallow, err := uc.QueryShallow("Issue")
	require.NoError(t, err)
	assert.Contains(t, shallow, "__typename")
}

func TestInstallIsIdempotentAcrossReopens(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(ctx, t)
	require.NoError(t, uc.Install(ctx))
	require.NoError(t, uc.Install(ctx))
}
