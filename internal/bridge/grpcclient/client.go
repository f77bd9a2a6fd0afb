// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package grpcclient provides a gRPC-backed implementation of adt.API that
// talks to a remote QueryBridge server instead of the data preview service.
package grpcclient

import (
	"context"
	"crypto/tls"
	"errors"
	"net"

	"adtbridge/cli/internal/adt"
	"adtbridge/cli/internal/bridge/model"
	"adtbridge/cli/internal/wire"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

// Options configure the connection.
type Options struct {
	// Token is sent as "authorization: Bearer <token>" on every call.
	Token string
	// TLS enables transport security; the server name is taken from addr.
	TLS bool
	// DialOptions are appended to the defaults, e.g. a custom dialer in tests.
	DialOptions []grpc.DialOption
}

// Client implements adt.API over a bridge connection.
type Client struct {
	conn  *grpc.ClientConn
	token string
}

var _ adt.API = (*Client)(nil)

// Dial creates a client for addr. A missing port defaults to 443 with TLS.
// The connection is established lazily on the first call.
func Dial(addr string, opts Options) (*Client, error) {
	if addr == "" {
		return nil, errors.New("bridge address is required")
	}
	target := addr
	creds := insecure.NewCredentials()
	if opts.TLS {
		host := addr
		if h, _, err := net.SplitHostPort(addr); err == nil {
			host = h
		} else {
			target = net.JoinHostPort(addr, "443")
		}
		creds = credentials.NewTLS(&tls.Config{ServerName: host, MinVersion: tls.VersionTLS12})
	}
	dialOpts := append([]grpc.DialOption{grpc.WithTransportCredentials(creds)}, opts.DialOptions...)
	conn, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, token: opts.Token}, nil
}

// Close releases the connection.
func (c *Client) Close() error { return c.conn.Close() }

func (c *Client) invoke(ctx context.Context, method string, in *structpb.Struct) (*structpb.Struct, error) {
	if c.token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+c.token)
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, model.FullMethod(method), in, out); err != nil {
		return nil, model.FromStatus(err)
	}
	return out, nil
}

// Query runs sql on the remote bridge. Binary cells arrive hex-encoded.
func (c *Client) Query(ctx context.Context, sql string, opts adt.QueryOptions) (*adt.Result, error) {
	in, err := model.EncodeQuery(model.QueryRequest{
		SQL:         sql,
		Limit:       opts.Limit,
		Offset:      opts.Offset,
		Generic:     opts.Generic,
		IncludeTime: opts.IncludeTime,
	})
	if err != nil {
		return nil, err
	}
	out, err := c.invoke(ctx, model.MethodQuery, in)
	if err != nil {
		return nil, err
	}
	resp := model.DecodeResponse(out)
	return &adt.Result{RowSet: resp.RowSet, Translated: resp.Translated}, nil
}

// Describe returns the remote column metadata of table.
func (c *Client) Describe(ctx context.Context, table string) ([]wire.Column, error) {
	out, err := c.invoke(ctx, model.MethodDescribe, model.EncodeTable(table))
	if err != nil {
		return nil, err
	}
	return model.DecodeColumns(out), nil
}

// Ping asks the bridge to fetch a fresh CSRF token from its service.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.invoke(ctx, model.MethodPing, &structpb.Struct{})
	return err
}
