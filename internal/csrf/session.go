// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package csrf

import (
	"sync"
	"time"
)

// Credential is a CSRF token and the session cookie it is bound to.
// Values are never mutated after creation; a refresh replaces the whole pointer.
type Credential struct {
	Token     string
	Cookie    string
	Endpoint  string
	FetchedAt time.Time
}

// Session holds at most one credential per endpoint key. It is safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	creds map[string]*Credential
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{creds: make(map[string]*Credential)}
}

// Load returns the cached credential for key.
func (s *Session) Load(key string) (*Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.creds[key]
	return c, ok
}

// Store replaces the credential for key.
func (s *Session) Store(key string, c *Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds[key] = c
}

// Delete removes the credential for key.
func (s *Session) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.creds, key)
}

// CompareAndDelete removes the credential for key only if it is still old.
// It reports whether the entry was removed.
func (s *Session) CompareAndDelete(key string, old *Credential) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.creds[key]; ok && cur == old {
		delete(s.creds, key)
		return true
	}
	return false
}

// Clear drops every credential.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = make(map[string]*Credential)
}

// Len returns the number of cached credentials.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.creds)
}
