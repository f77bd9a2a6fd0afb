// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package adt

import (
	"adtbridge/cli/internal/csrf"
	"adtbridge/cli/internal/endpoint"
	"adtbridge/cli/internal/transport"

	"github.com/pterm/pterm"
)

// Config wires a client.
type Config struct {
	Endpoint endpoint.Endpoint
	Sender   transport.Sender
	// Session is shared by clients of the same process; nil starts a private one.
	Session *csrf.Session
	Logger  *pterm.Logger
}

// New creates an API implementation over the data preview service.
func New(cfg Config) API {
	return newClient(cfg)
}
