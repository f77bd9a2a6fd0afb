// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"adtbridge/cli/internal/logging"

	"github.com/pterm/pterm"
)

// DefaultTimeout bounds a single round trip when no timeout is configured.
const DefaultTimeout = 60 * time.Second

// Options configures the HTTP sender.
type Options struct {
	// User and Password are sent as basic auth on every request when User is set.
	User     string
	Password string
	// Timeout bounds one round trip; zero means DefaultTimeout.
	Timeout time.Duration
	// InsecureSkipVerify disables TLS certificate verification (sandbox systems only).
	InsecureSkipVerify bool
	// UserAgent overrides the default User-Agent header.
	UserAgent string
	Logger    *pterm.Logger
}

// HTTP implements Sender over net/http. It deliberately has no cookie jar:
// the session cookie travels with the CSRF credential and is set per request.
type HTTP struct {
	client    *http.Client
	user      string
	password  string
	userAgent string
	logger    *pterm.Logger
}

// NewHTTP creates a sender with the given options.
func NewHTTP(opts Options) *HTTP {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if opts.InsecureSkipVerify {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for sandbox systems
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "adtbridge-cli/1.0"
	}
	return &HTTP{
		client:    &http.Client{Timeout: timeout, Transport: tr},
		user:      opts.User,
		password:  opts.Password,
		userAgent: ua,
		logger:    logging.OrNop(opts.Logger),
	}
}

// NewHTTPWithClient wraps an existing client, mainly for tests.
func NewHTTPWithClient(client *http.Client, opts Options) *HTTP {
	h := NewHTTP(opts)
	h.client = client
	return h
}

// Send performs the request and buffers the whole body. Non-2xx answers are
// returned as *Error carrying the response; failures before a response exist
// are returned as *Error without one.
func (h *HTTP) Send(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	hreq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, &Error{Err: fmt.Errorf("build request: %w", err)}
	}
	for k, vals := range req.Header {
		for _, v := range vals {
			hreq.Header.Add(k, v)
		}
	}
	if hreq.Header.Get("User-Agent") == "" {
		hreq.Header.Set("User-Agent", h.userAgent)
	}
	if h.user != "" {
		hreq.SetBasicAuth(h.user, h.password)
	}

	started := time.Now()
	resp, err := h.client.Do(hreq)
	if err != nil {
		h.logger.Debug("http request failed", h.logger.Args(
			"method", req.Method,
			"url", logging.Mask(req.URL),
			"error", logging.Mask(err.Error()),
		))
		return nil, &Error{Err: err}
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Err: fmt.Errorf("read response body: %w", err)}
	}
	out := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       b,
	}
	h.logger.Debug("http request", h.logger.Args(
		"method", req.Method,
		"url", logging.Mask(req.URL),
		"status", resp.StatusCode,
		"bytes", len(b),
		"elapsed", time.Since(started).Round(time.Millisecond).String(),
	))
	if !Success(resp.StatusCode) {
		return out, StatusError(out)
	}
	return out, nil
}
