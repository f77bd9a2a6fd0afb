// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package endpoint identifies a remote data preview service and builds its URLs.
package endpoint

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// DefaultServicePath is where the data preview service lives below the system URL.
	DefaultServicePath = "/sap/bc/adt/datapreview/"
	// DefaultTokenPath is the resource used to request a CSRF token.
	DefaultTokenPath = "freestyle"
	// QueryPath accepts free-style SQL in the request body.
	QueryPath = "freestyle"
	// DDICPath returns column metadata of a dictionary entity.
	DDICPath = "ddic"
)

// Endpoint is one remote service. Two endpoints with the same Key share a CSRF credential.
type Endpoint struct {
	// BaseURL is the system URL, e.g. "https://sap.example.com:44300".
	BaseURL string
	// ServicePath defaults to DefaultServicePath.
	ServicePath string
	// TokenPath is relative to the service root and defaults to DefaultTokenPath.
	TokenPath string
	// SapClient (MANDT) is appended as sap-client to every URL when set.
	SapClient string
}

// New creates an endpoint with default paths.
func New(baseURL, sapClient string) Endpoint {
	return Endpoint{BaseURL: baseURL, SapClient: sapClient}
}

// Validate checks that the base URL is absolute http(s).
func (e Endpoint) Validate() error {
	u, err := url.Parse(e.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", e.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid url %q: scheme must be http or https", e.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid url %q: missing host", e.BaseURL)
	}
	return nil
}

// Root returns the service root URL with a trailing slash.
func (e Endpoint) Root() string {
	sp := e.ServicePath
	if sp == "" {
		sp = DefaultServicePath
	}
	return strings.TrimRight(e.BaseURL, "/") + "/" + strings.Trim(sp, "/") + "/"
}

// Key identifies the endpoint for credential caching.
func (e Endpoint) Key() string {
	if e.SapClient == "" {
		return e.Root()
	}
	return e.Root() + "#" + e.SapClient
}

// URL builds the absolute URL of path (relative to the service root) with params.
// sap-client is added unless params already carries it.
func (e Endpoint) URL(path string, params url.Values) string {
	q := url.Values{}
	for k, vals := range params {
		q[k] = append([]string(nil), vals...)
	}
	if e.SapClient != "" && q.Get("sap-client") == "" {
		q.Set("sap-client", e.SapClient)
	}
	u := e.Root() + strings.TrimLeft(path, "/")
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// TokenURL is the URL used to fetch a CSRF token.
func (e Endpoint) TokenURL() string {
	tp := e.TokenPath
	if tp == "" {
		tp = DefaultTokenPath
	}
	return e.URL(tp, nil)
}

// Host returns the host part of the base URL, for messages.
func (e Endpoint) Host() string {
	u, err := url.Parse(e.BaseURL)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
