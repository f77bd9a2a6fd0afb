// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package bridge lets one process own the data preview session while others
// query through it over gRPC. The server side wraps an adt.API; the client
// side is itself an adt.API, so commands work the same against either.
package bridge

import (
	"net"

	"adtbridge/cli/internal/adt"
	"adtbridge/cli/internal/bridge/grpcclient"
	"adtbridge/cli/internal/bridge/grpcserver"
)

// Server serves the QueryBridge service.
type Server = grpcserver.Server

// ServerOptions configure a bridge server.
type ServerOptions = grpcserver.Options

// ClientOptions configure a bridge client.
type ClientOptions = grpcclient.Options

// NewServer wraps api in a bridge server.
func NewServer(api adt.API, opts ServerOptions) *Server {
	return grpcserver.New(api, opts)
}

// Listen opens a TCP listener for the server.
func Listen(addr string) (net.Listener, error) {
	return net.Listen("tcp", addr)
}

// Dial connects to a bridge server at addr.
func Dial(addr string, opts ClientOptions) (*grpcclient.Client, error) {
	return grpcclient.Dial(addr, opts)
}
