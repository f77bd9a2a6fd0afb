// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package grpcserver exposes an adt.API as the QueryBridge gRPC service.
// Messages are protobuf Struct values, so the service is registered from a
// hand-written descriptor instead of generated stubs.
package grpcserver

import (
	"context"
	"crypto/subtle"
	"net"
	"strings"
	"time"

	"adtbridge/cli/internal/adt"
	"adtbridge/cli/internal/bridge/model"
	aerr "adtbridge/cli/internal/errors"
	"adtbridge/cli/internal/logging"

	"github.com/pterm/pterm"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// queryBridge is the handler type the service descriptor is checked against.
type queryBridge interface {
	Query(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Describe(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Ping(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

func unaryHandler(method string, call func(queryBridge, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(queryBridge), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: model.FullMethod(method)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(queryBridge), ctx, req.(*structpb.Struct))
			})
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: model.ServiceName,
	HandlerType: (*queryBridge)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler(model.MethodQuery, queryBridge.Query),
		unaryHandler(model.MethodDescribe, queryBridge.Describe),
		unaryHandler(model.MethodPing, queryBridge.Ping),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "adtbridge.proto",
}

// Options configure the server.
type Options struct {
	// Token, when set, must be presented as "authorization: Bearer <token>".
	Token  string
	Logger *pterm.Logger
}

// Server serves QueryBridge on top of an adt.API.
type Server struct {
	api    adt.API
	token  string
	logger *pterm.Logger
	grpc   *grpc.Server
}

// New creates a server; call Serve to accept connections.
func New(api adt.API, opts Options) *Server {
	s := &Server{api: api, token: opts.Token, logger: logging.OrNop(opts.Logger)}
	s.grpc = grpc.NewServer(grpc.UnaryInterceptor(s.intercept))
	s.grpc.RegisterService(&serviceDesc, s)
	return s
}

// Serve accepts connections on lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("bridge listening", s.logger.Args("addr", lis.Addr().String()))
	return s.grpc.Serve(lis)
}

// Stop drains in-flight calls and stops the server.
func (s *Server) Stop() { s.grpc.GracefulStop() }

func (s *Server) intercept(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if s.token != "" && !s.authorized(ctx) {
		s.logger.Warn("bridge call rejected", s.logger.Args("method", info.FullMethod))
		return nil, status.Error(codes.Unauthenticated, "missing or invalid bridge token")
	}
	started := time.Now()
	resp, err := handler(ctx, req)
	args := []any{"method", info.FullMethod, "elapsed", time.Since(started).Round(time.Millisecond).String()}
	if err != nil {
		args = append(args, "kind", string(aerr.KindOf(err)), "error", logging.Mask(err.Error()))
		s.logger.Error("bridge call failed", s.logger.Args(args...))
		return nil, model.ToStatus(err)
	}
	s.logger.Debug("bridge call", s.logger.Args(args...))
	return resp, nil
}

func (s *Server) authorized(ctx context.Context) bool {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return false
	}
	for _, v := range md.Get("authorization") {
		got, found := strings.CutPrefix(v, "Bearer ")
		if found && subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) == 1 {
			return true
		}
	}
	return false
}

func (s *Server) Query(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := model.DecodeQuery(in)
	res, err := s.api.Query(ctx, req.SQL, adt.QueryOptions{
		Limit:       req.Limit,
		Offset:      req.Offset,
		Generic:     req.Generic,
		IncludeTime: req.IncludeTime,
	})
	if err != nil {
		return nil, err
	}
	return model.EncodeResponse(model.QueryResponse{RowSet: res.RowSet, Translated: res.Translated})
}

func (s *Server) Describe(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	cols, err := s.api.Describe(ctx, model.DecodeTable(in))
	if err != nil {
		return nil, err
	}
	return model.EncodeColumns(cols), nil
}

func (s *Server) Ping(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	if err := s.api.Ping(ctx); err != nil {
		return nil, err
	}
	return &structpb.Struct{}, nil
}
