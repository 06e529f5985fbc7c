// Copyright (c) 2024-2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package mirror carries the plain data shapes that cross the boundary
// between the use case layer and the repo/store adapters: the staleness
// planner's output and the connection ingestor's input. None of these
// types have behavior; they are what pkg/core/repo interfaces take and
// return.
package mirror

import "github.com/sourcecred/mirror/pkg/core/gqlquery"

// PlanObject names one stale object the caller should refresh with
// queryShallow.
type PlanObject struct {
	Typename string
	ID       string
}

// PlanConnection names one stale connection field the caller should
// refresh with queryConnection, carrying the cursor pagination should
// resume from.
type PlanConnection struct {
	ObjectID  string
	Fieldname string
	EndCursor gqlquery.Cursor
}

// QueryPlan is the staleness planner's output: every object and
// connection field that findOutdated judged stale as of some instant.
type QueryPlan struct {
	Objects     []PlanObject
	Connections []PlanConnection
}

// NodeResult is the shallow {__typename, id} pair a remote server
// reports for one connection entry. A nil *NodeResult represents a
// Relay null node (deleted or inaccessible).
type NodeResult struct {
	Typename string
	ID       string
}

// PageInfo is the pagination metadata accompanying a connection page.
type PageInfo struct {
	HasNextPage bool
	EndCursor   *string
}

// ConnectionResult is one page of a connection field, as reported by
// the remote server and handed to the connection ingestor.
type ConnectionResult struct {
	TotalCount int
	PageInfo   PageInfo
	Nodes      []*NodeResult
}
