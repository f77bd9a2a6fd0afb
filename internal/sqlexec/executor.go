// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package sqlexec copies data preview results into PostgreSQL over a pgx pool.
// Target tables are created on demand with column types derived from the
// declared ABAP types; rows are loaded with COPY inside one transaction.
package sqlexec

import (
	"context"
	"fmt"
	"strings"

	"adtbridge/cli/internal/logging"
	"adtbridge/cli/internal/wire"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pterm/pterm"
)

// Options control an export.
type Options struct {
	// Create issues CREATE TABLE IF NOT EXISTS before loading.
	Create bool
	// Truncate empties the table before loading.
	Truncate bool
}

// Executor writes rows using a connection pool.
type Executor struct {
	// Pool is the PostgreSQL connection pool
	Pool   *pgxpool.Pool
	logger *pterm.Logger
}

// Open connects a pool to dsn and verifies it with a ping.
func Open(ctx context.Context, dsn string, logger *pterm.Logger) (*Executor, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return New(pool, logger), nil
}

// New creates an Executor from an existing pgx pool.
func New(pool *pgxpool.Pool, logger *pterm.Logger) *Executor {
	return &Executor{Pool: pool, logger: logging.OrNop(logger)}
}

// Close releases the pool.
func (e *Executor) Close() { e.Pool.Close() }

// Export loads rows into table and returns the number of rows copied.
func (e *Executor) Export(ctx context.Context, table string, cols []wire.Column, rows []wire.Row, opts Options) (int64, error) {
	if len(cols) == 0 {
		return 0, fmt.Errorf("export %s: result has no columns", table)
	}
	ident := TableIdentifier(table)

	tx, err := e.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // no-op after commit

	if opts.Create {
		if _, err := tx.Exec(ctx, CreateTableSQL(ident, cols)); err != nil {
			return 0, fmt.Errorf("create table %s: %w", ident.Sanitize(), err)
		}
	}
	if opts.Truncate {
		if _, err := tx.Exec(ctx, "TRUNCATE TABLE "+ident.Sanitize()); err != nil {
			return 0, fmt.Errorf("truncate %s: %w", ident.Sanitize(), err)
		}
	}

	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = columnName(c.Name)
	}
	values, rejected := Values(cols, rows)
	if rejected > 0 {
		e.logger.Warn("cells exported as NULL", e.logger.Args("table", table, "cells", rejected))
	}

	n, err := tx.CopyFrom(ctx, ident, names, pgx.CopyFromRows(values))
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", ident.Sanitize(), err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	e.logger.Debug("export finished", e.logger.Args("table", ident.Sanitize(), "rows", n))
	return n, nil
}

// TableIdentifier splits "schema.table" into an identifier; a bare name stays unqualified.
func TableIdentifier(name string) pgx.Identifier {
	parts := strings.SplitN(strings.TrimSpace(name), ".", 2)
	if len(parts) == 2 {
		return pgx.Identifier{parts[0], parts[1]}
	}
	return pgx.Identifier{parts[0]}
}

// columnName maps an ABAP column name to a PostgreSQL one; namespace slashes become underscores.
func columnName(name string) string {
	name = strings.ToLower(strings.Trim(name, "/"))
	return strings.ReplaceAll(name, "/", "_")
}

// CreateTableSQL returns a CREATE TABLE IF NOT EXISTS statement for cols.
func CreateTableSQL(ident pgx.Identifier, cols []wire.Column) string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE IF NOT EXISTS ")
	sb.WriteString(ident.Sanitize())
	sb.WriteString(" (")
	for i, c := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(pgx.Identifier{columnName(c.Name)}.Sanitize())
		sb.WriteByte(' ')
		sb.WriteString(PostgresType(c))
	}
	sb.WriteString(")")
	return sb.String()
}
