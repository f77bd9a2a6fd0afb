// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package adt is the data preview client the CLI and the gRPC bridge depend on.
// A query runs as one sequential chain: translate the SQL, execute it with CSRF
// protection, decode the column blocks and check the per-call row cap.
package adt

import (
	"context"

	"adtbridge/cli/internal/dialect"
	"adtbridge/cli/internal/wire"
)

// API defines the data preview operations.
// Implementations may call the real service or provide mocks for tests.
type API interface {
	// Query runs sql and returns the decoded rows after the local offset.
	Query(ctx context.Context, sql string, opts QueryOptions) (*Result, error)
	// Describe returns the column metadata of a dictionary table or view.
	Describe(ctx context.Context, table string) ([]wire.Column, error)
	// Ping fetches a fresh CSRF token to verify connectivity and credentials.
	Ping(ctx context.Context) error
}

// QueryOptions tune a single query.
type QueryOptions struct {
	// Limit and Offset append an UP TO n OFFSET m clause when Limit is positive.
	// Offset without Limit, or Limit on a statement that already pages, is rejected.
	Limit  int
	Offset int
	// Generic enables LIMIT to UP TO normalization and strips identifier quotes.
	Generic bool
	// IncludeTime keeps the time part of 14-digit date values.
	IncludeTime bool
}

// Result is a decoded query result and the plan it was fetched with.
type Result struct {
	*wire.RowSet
	Translated dialect.Translated
}
