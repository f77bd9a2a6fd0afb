// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package csrf acquires and caches the anti-forgery token and session cookie
// the data preview service requires on every query.
//
// A Manager owns a Session, which is the only shared mutable state of a
// query. Concurrent acquisitions for the same endpoint are collapsed into one
// round trip; a refresh after a rejected token only refetches when the cached
// credential is still the rejected one.
package csrf

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"adtbridge/cli/internal/endpoint"
	aerr "adtbridge/cli/internal/errors"
	"adtbridge/cli/internal/errtext"
	"adtbridge/cli/internal/logging"
	"adtbridge/cli/internal/transport"

	"github.com/pterm/pterm"
	"golang.org/x/sync/singleflight"
)

const (
	// HeaderToken carries the token in both directions.
	HeaderToken = "X-CSRF-Token"
	// FetchValue asks the service to issue a token.
	FetchValue = "Fetch"
	// RequiredValue is answered when a request lacks a valid token.
	RequiredValue = "Required"

	// maxFetchAttempts allows one retry after a spurious 401 on the first hit of a session.
	maxFetchAttempts = 2
)

// Manager obtains credentials through a transport.Sender and caches them in a Session.
type Manager struct {
	session *Session
	sender  transport.Sender
	logger  *pterm.Logger
	group   singleflight.Group
	now     func() time.Time
}

// NewManager creates a manager. A nil session starts an empty one.
func NewManager(sender transport.Sender, session *Session, logger *pterm.Logger) *Manager {
	if session == nil {
		session = NewSession()
	}
	return &Manager{
		session: session,
		sender:  sender,
		logger:  logging.OrNop(logger),
		now:     time.Now,
	}
}

// Session returns the session the manager caches into.
func (m *Manager) Session() *Session { return m.session }

// Get returns the cached credential for ep or fetches a new one.
func (m *Manager) Get(ctx context.Context, ep endpoint.Endpoint) (*Credential, error) {
	if c, ok := m.session.Load(ep.Key()); ok {
		return c, nil
	}
	return m.fetchShared(ctx, ep)
}

// Invalidate forgets the credential for ep so the next Get refetches it.
func (m *Manager) Invalidate(ep endpoint.Endpoint) {
	m.session.Delete(ep.Key())
}

// Refresh replaces stale with a new credential. If another caller already
// replaced it, the newer credential is returned without another fetch.
func (m *Manager) Refresh(ctx context.Context, ep endpoint.Endpoint, stale *Credential) (*Credential, error) {
	if stale != nil {
		m.session.CompareAndDelete(ep.Key(), stale)
	} else {
		m.Invalidate(ep)
	}
	return m.Get(ctx, ep)
}

// fetchShared runs one Fetch per endpoint for all concurrent callers. The
// fetch is detached from the caller that started it; each caller stops
// waiting when its own context is done.
func (m *Manager) fetchShared(ctx context.Context, ep endpoint.Endpoint) (*Credential, error) {
	detached := context.WithoutCancel(ctx)
	ch := m.group.DoChan(ep.Key(), func() (any, error) {
		return m.Fetch(detached, ep)
	})
	select {
	case <-ctx.Done():
		return nil, aerr.Wrap(aerr.TransportError, "token fetch for "+ep.Host()+" canceled", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			m.logger.Trace("csrf fetch shared", m.logger.Args("endpoint", ep.Key()))
		}
		return res.Val.(*Credential), nil
	}
}

// Fetch requests a new token from the token path of ep and stores it in the session.
// A non-2xx answer still yields a credential when it carries a token. An answer
// without a token and with status 401 is retried once.
func (m *Manager) Fetch(ctx context.Context, ep endpoint.Endpoint) (*Credential, error) {
	var (
		resp  *transport.Response
		token string
		cause error
	)
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		r, err := m.sender.Send(ctx, &transport.Request{
			Method: http.MethodGet,
			URL:    ep.TokenURL(),
			Header: http.Header{HeaderToken: {FetchValue}},
		})
		if err != nil {
			var terr *transport.Error
			if !errors.As(err, &terr) || !terr.HasResponse() {
				return nil, aerr.Wrap(aerr.TransportError, "cannot reach "+ep.Host(), err)
			}
			r = terr.Response
		}
		if r == nil {
			return nil, aerr.New(aerr.TransportError, "empty response from "+ep.Host())
		}
		resp, cause = r, err
		token = tokenFrom(r)
		if token != "" || r.StatusCode != http.StatusUnauthorized {
			break
		}
		if attempt < maxFetchAttempts {
			m.logger.Debug("csrf fetch unauthorized, retrying", m.logger.Args("endpoint", ep.Key(), "attempt", attempt))
		}
	}

	if token == "" {
		text := errtext.Extract(resp, m.logger)
		if cause == nil {
			cause = fmt.Errorf("http %d without %s header", resp.StatusCode, HeaderToken)
		}
		m.logger.Error("csrf fetch failed", m.logger.Args(
			"endpoint", ep.Key(),
			"status", resp.StatusCode,
			"error", logging.Mask(cause.Error()),
		))
		return nil, aerr.Wrap(aerr.CredentialUnavailable, "cannot fetch CSRF token: "+text.Message, cause)
	}

	c := &Credential{
		Token:     token,
		Cookie:    cookieFrom(resp.Header),
		Endpoint:  ep.Key(),
		FetchedAt: m.now(),
	}
	m.session.Store(ep.Key(), c)
	m.logger.Debug("csrf token fetched", m.logger.Args(
		"endpoint", ep.Key(),
		"token", logging.MaskSecret(c.Token),
		"status", resp.StatusCode,
	))
	return c, nil
}

func tokenFrom(r *transport.Response) string {
	if r == nil {
		return ""
	}
	tok := strings.TrimSpace(r.Header.Get(HeaderToken))
	if strings.EqualFold(tok, RequiredValue) || strings.EqualFold(tok, FetchValue) {
		return ""
	}
	return tok
}

// cookieFrom folds every Set-Cookie header into a single Cookie header value.
func cookieFrom(h http.Header) string {
	cookies := (&http.Response{Header: h}).Cookies()
	parts := make([]string, 0, len(cookies))
	for _, c := range cookies {
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}

// Apply sets the token and cookie headers of c on h, replacing existing values.
func (c *Credential) Apply(h http.Header) {
	h.Set(HeaderToken, c.Token)
	if c.Cookie != "" {
		h.Set("Cookie", c.Cookie)
	} else {
		h.Del("Cookie")
	}
}

// IsRequired reports whether a response rejected the token it was sent with.
func IsRequired(h http.Header) bool {
	return strings.EqualFold(strings.TrimSpace(h.Get(HeaderToken)), RequiredValue)
}
