// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dsn

import "strings"

// DetectKind detects the kind of system from the scheme of s.
func DetectKind(s string) Kind {
	lower := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return KindPostgreSQL
	case strings.HasPrefix(lower, "adt://"), strings.HasPrefix(lower, "adts://"),
		strings.HasPrefix(lower, "https://"), strings.HasPrefix(lower, "http://"):
		return KindSAP
	}
	return KindUnknown
}

func resolverFor(s string) (Resolver, error) {
	if s == "" {
		return nil, NewParseError(s, "empty connection string", "provide adt://user@host:port or postgres://user@host/db")
	}
	switch DetectKind(s) {
	case KindSAP:
		return NewSAPResolver(), nil
	case KindPostgreSQL:
		return NewPostgreSQLResolver(), nil
	}
	return nil, NewParseError(s, "unknown scheme", "use adt://, https:// or postgres://")
}

// Parse parses s and returns its normalized form.
func Parse(s string) (string, error) {
	r, err := resolverFor(s)
	if err != nil {
		return "", err
	}
	info, err := r.Parse(s)
	if err != nil {
		return "", err
	}
	return r.Normalize(info)
}

// ParseInfo parses s and returns the detailed info.
func ParseInfo(s string) (*Info, error) {
	r, err := resolverFor(s)
	if err != nil {
		return nil, err
	}
	return r.Parse(s)
}

// splitUserinfo separates "user[:password]@rest" on the last '@', so that
// unencoded '@' and ':' in passwords survive.
func splitUserinfo(s string) (user, password, rest string, ok bool) {
	at := strings.LastIndex(s, "@")
	if at < 0 {
		return "", "", s, false
	}
	auth := s[:at]
	rest = s[at+1:]
	if i := strings.Index(auth, ":"); i >= 0 {
		return auth[:i], auth[i+1:], rest, true
	}
	return auth, "", rest, true
}

// splitQuery parses "a=1&b=2" leniently.
func splitQuery(q string) map[string]string {
	params := make(map[string]string)
	for _, kv := range strings.Split(q, "&") {
		if kv == "" {
			continue
		}
		k, v, _ := strings.Cut(kv, "=")
		params[k] = v
	}
	return params
}
