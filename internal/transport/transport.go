// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package transport defines the outer HTTP contract the bridge depends on.
// The core only ever sees Sender: send a request, get a fully buffered response,
// or an *Error that may still carry the response the server managed to return.
// HTTP is the production implementation over net/http.
package transport

import (
	"context"
	"fmt"
	"net/http"
)

// Request is one outbound call. Header keys are canonicalized by net/http.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is a fully read HTTP response. It is owned by the caller of Send
// and is not retained by the transport.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// ContentType returns the Content-Type header value.
func (r *Response) ContentType() string {
	if r == nil {
		return ""
	}
	return r.Header.Get("Content-Type")
}

// Sender performs a single HTTP round trip.
type Sender interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, req *Request) (*Response, error)

func (f SenderFunc) Send(ctx context.Context, req *Request) (*Response, error) { return f(ctx, req) }

// Error is returned by a Sender when the call failed. Response is nil when nothing
// was received (network, DNS, timeout); otherwise it holds the non-2xx answer.
type Error struct {
	Response *Response
	Err      error
}

func (e *Error) Error() string {
	if e.Response != nil {
		if e.Err != nil {
			return fmt.Sprintf("http %d: %v", e.Response.StatusCode, e.Err)
		}
		return fmt.Sprintf("http %d %s", e.Response.StatusCode, http.StatusText(e.Response.StatusCode))
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "transport error"
}

func (e *Error) Unwrap() error { return e.Err }

// HasResponse reports whether the failure still produced a response.
func (e *Error) HasResponse() bool { return e != nil && e.Response != nil }

// StatusError builds the error a Sender returns for a non-2xx response.
func StatusError(resp *Response) *Error {
	return &Error{Response: resp}
}

// Success reports whether code is a 2xx status.
func Success(code int) bool { return code >= 200 && code < 300 }
