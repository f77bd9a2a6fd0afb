// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package executor performs one logical request against the data preview
// service with CSRF protection. A response rejecting the token triggers a
// single refresh and resend; any other failure is returned to the caller.
package executor

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"adtbridge/cli/internal/csrf"
	"adtbridge/cli/internal/endpoint"
	aerr "adtbridge/cli/internal/errors"
	"adtbridge/cli/internal/errtext"
	"adtbridge/cli/internal/logging"
	"adtbridge/cli/internal/transport"

	"github.com/pterm/pterm"
)

// DefaultAccept is sent unless the caller sets its own Accept header.
const DefaultAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

// maxAttempts is the first send plus one resend after a token refresh.
const maxAttempts = 2

// Executor sends requests with a CSRF credential attached.
type Executor struct {
	sender transport.Sender
	creds  *csrf.Manager
	logger *pterm.Logger
}

// New creates an executor. Credentials are obtained through creds.
func New(sender transport.Sender, creds *csrf.Manager, logger *pterm.Logger) *Executor {
	return &Executor{sender: sender, creds: creds, logger: logging.OrNop(logger)}
}

// Execute sends method to path (relative to the service root of ep) with params and body.
//
// Errors:
//   - TransportError when no response was received at all
//   - CredentialUnavailable when no token could be obtained
//   - StaleCredential when the token is rejected again after a refresh
//   - otherwise the *transport.Error carrying the non-2xx response, unchanged
func (x *Executor) Execute(ctx context.Context, ep endpoint.Endpoint, method, path string, params url.Values, body []byte, extra http.Header) (*transport.Response, error) {
	cred, err := x.creds.Get(ctx, ep)
	if err != nil {
		return nil, err
	}
	target := ep.URL(path, params)

	for attempt := 1; ; attempt++ {
		req := &transport.Request{
			Method: method,
			URL:    target,
			Header: headers(extra, cred),
			Body:   body,
		}
		resp, err := x.sender.Send(ctx, req)
		if err == nil {
			if resp == nil {
				return nil, aerr.New(aerr.TransportError, "empty response from "+ep.Host())
			}
			return resp, nil
		}

		var terr *transport.Error
		if !errors.As(err, &terr) || !terr.HasResponse() {
			return nil, aerr.Wrap(aerr.TransportError, "request to "+ep.Host()+" failed", err)
		}
		if !csrf.IsRequired(terr.Response.Header) {
			return terr.Response, err
		}
		if attempt >= maxAttempts {
			msg := errtext.Extract(terr.Response, x.logger).Title("CSRF token rejected after refresh")
			return terr.Response, aerr.Wrap(aerr.StaleCredential, msg, err)
		}

		x.logger.Debug("csrf token rejected, refreshing", x.logger.Args(
			"endpoint", ep.Key(),
			"status", terr.Response.StatusCode,
			"token", logging.MaskSecret(cred.Token),
		))
		cred, err = x.creds.Refresh(ctx, ep, cred)
		if err != nil {
			return nil, err
		}
	}
}

// headers merges extra with the credential; the credential headers always win.
func headers(extra http.Header, cred *csrf.Credential) http.Header {
	h := extra.Clone()
	if h == nil {
		h = http.Header{}
	}
	if h.Get("Accept") == "" {
		h.Set("Accept", DefaultAccept)
	}
	cred.Apply(h)
	return h
}
