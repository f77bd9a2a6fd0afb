// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package dsn parses the connection strings the CLI accepts: SAP systems
// (adt://user@host:port?sap-client=100 or a plain https:// URL) and the
// PostgreSQL targets used by the export command.
package dsn

import "fmt"

// Kind is the kind of system a connection string points to.
type Kind string

const (
	KindSAP        Kind = "sap"
	KindPostgreSQL Kind = "postgresql"
	KindUnknown    Kind = "unknown"
)

// Info contains parsed information from a connection string.
type Info struct {
	Kind     Kind
	Scheme   string
	Host     string
	Port     string
	User     string
	Password string
	// Database is the PostgreSQL database name; empty for SAP systems.
	Database string
	Params   map[string]string
	Original string
}

// Resolver parses and normalizes one kind of connection string.
type Resolver interface {
	// Parse parses s into Info.
	Parse(s string) (*Info, error)
	// Normalize converts Info back into a canonical connection string.
	Normalize(info *Info) (string, error)
}

// ParseError represents an error that occurred during parsing.
type ParseError struct {
	DSN    string
	Reason string
	Hint   string
}

func (e *ParseError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("invalid connection string: %s\nHint: %s", e.Reason, e.Hint)
	}
	return fmt.Sprintf("invalid connection string: %s", e.Reason)
}

// NewParseError creates a new ParseError.
func NewParseError(dsn, reason, hint string) *ParseError {
	return &ParseError{DSN: dsn, Reason: reason, Hint: hint}
}
