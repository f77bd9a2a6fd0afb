// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package adt

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"adtbridge/cli/internal/csrf"
	"adtbridge/cli/internal/dialect"
	"adtbridge/cli/internal/endpoint"
	aerr "adtbridge/cli/internal/errors"
	"adtbridge/cli/internal/errtext"
	"adtbridge/cli/internal/executor"
	"adtbridge/cli/internal/logging"
	"adtbridge/cli/internal/transport"
	"adtbridge/cli/internal/wire"

	"github.com/pterm/pterm"
)

// metadataTTL bounds how long DDIC metadata is reused.
const metadataTTL = 10 * time.Minute

type cachedColumns struct {
	columns []wire.Column
	at      time.Time
}

// Client implements API over the data preview REST resources.
// Table metadata is cached in memory to avoid repeated DDIC lookups.
type Client struct {
	ep     endpoint.Endpoint
	creds  *csrf.Manager
	exec   *executor.Executor
	logger *pterm.Logger

	mu      sync.RWMutex
	columns map[string]cachedColumns
}

func newClient(cfg Config) *Client {
	logger := logging.OrNop(cfg.Logger)
	creds := csrf.NewManager(cfg.Sender, cfg.Session, logger)
	return &Client{
		ep:      cfg.Endpoint,
		creds:   creds,
		exec:    executor.New(cfg.Sender, creds, logger),
		logger:  logger,
		columns: make(map[string]cachedColumns),
	}
}

// Query implements API.
func (c *Client) Query(ctx context.Context, sql string, opts QueryOptions) (*Result, error) {
	if strings.TrimSpace(sql) == "" {
		return nil, aerr.New(aerr.QueryRejected, "empty query")
	}
	if opts.Offset > 0 && opts.Limit <= 0 {
		return nil, aerr.New(aerr.QueryRejected, "offset requires a limit")
	}
	if opts.Limit > 0 && dialect.HasPage(sql, dialect.Options{Generic: opts.Generic}) {
		return nil, aerr.New(aerr.QueryRejected, "pagination given twice: the statement already limits its rows")
	}
	t := dialect.Translate(dialect.WithPage(sql, opts.Limit, opts.Offset), dialect.Options{Generic: opts.Generic})
	c.logger.Debug("query translated", c.logger.Args(
		"ceiling", t.Ceiling,
		"offset", t.Offset,
		"bytes", len(t.SQL),
	))

	resp, err := c.exec.Execute(ctx, c.ep, http.MethodPost, endpoint.QueryPath, t.Params(), []byte(t.SQL), nil)
	if err != nil {
		return nil, c.rejected(err)
	}

	rs, err := wire.Decode(bytes.NewReader(resp.Body), wire.Options{
		Offset:      t.Offset,
		IncludeTime: opts.IncludeTime,
		Logger:      c.logger,
	})
	if err != nil {
		return nil, aerr.Wrap(aerr.QueryRejected, "unreadable response from data preview service", err)
	}
	if err := dialect.CheckRowCount(rs.Seen); err != nil {
		return nil, err
	}
	c.logger.Debug("query decoded", c.logger.Args("rows", len(rs.Rows), "seen", rs.Seen, "columns", len(rs.Columns)))
	return &Result{RowSet: rs, Translated: t}, nil
}

// Describe implements API. Results are cached per table for metadataTTL.
func (c *Client) Describe(ctx context.Context, table string) ([]wire.Column, error) {
	name := strings.ToUpper(strings.TrimSpace(table))
	if name == "" {
		return nil, aerr.New(aerr.QueryRejected, "table name is required")
	}

	c.mu.RLock()
	hit, ok := c.columns[name]
	c.mu.RUnlock()
	if ok && time.Since(hit.at) < metadataTTL {
		return hit.columns, nil
	}

	params := url.Values{"rowNumber": {"1"}, "ddicEntityName": {name}}
	resp, err := c.exec.Execute(ctx, c.ep, http.MethodPost, endpoint.DDICPath, params, nil, nil)
	if err != nil {
		return nil, c.rejected(err)
	}
	cols, err := wire.DecodeMetadata(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, aerr.Wrap(aerr.QueryRejected, "unreadable DDIC metadata for "+name, err)
	}

	c.mu.Lock()
	c.columns[name] = cachedColumns{columns: cols, at: time.Now()}
	c.mu.Unlock()
	return cols, nil
}

// Ping implements API.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.creds.Fetch(ctx, c.ep)
	return err
}

// rejected turns an untyped non-2xx transport error into QueryRejected with
// the remote message; typed errors pass through.
func (c *Client) rejected(err error) error {
	if aerr.KindOf(err) != "" {
		return err
	}
	var terr *transport.Error
	if errors.As(err, &terr) && terr.HasResponse() {
		text := errtext.Extract(terr.Response, c.logger)
		return aerr.Wrap(aerr.QueryRejected, text.Message, err)
	}
	return aerr.Wrap(aerr.TransportError, "request failed", err)
}
