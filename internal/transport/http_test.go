// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPSendSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "DEVELOPER" || pass != "secret" {
			t.Errorf("basic auth = %q/%q/%v", user, pass, ok)
		}
		if got := r.Header.Get("X-CSRF-Token"); got != "tok" {
			t.Errorf("X-CSRF-Token = %q", got)
		}
		b, _ := io.ReadAll(r.Body)
		if string(b) != "SELECT 1" {
			t.Errorf("body = %q", b)
		}
		w.Header().Set("Content-Type", "application/xml")
		w.Header().Add("Set-Cookie", "a=1")
		w.Header().Add("Set-Cookie", "b=2")
		_, _ = w.Write([]byte("<ok/>"))
	}))
	defer srv.Close()

	h := NewHTTP(Options{User: "DEVELOPER", Password: "secret"})
	resp, err := h.Send(context.Background(), &Request{
		Method: http.MethodPost,
		URL:    srv.URL,
		Header: http.Header{"X-Csrf-Token": {"tok"}},
		Body:   []byte("SELECT 1"),
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if string(resp.Body) != "<ok/>" {
		t.Errorf("body = %q", resp.Body)
	}
	if got := resp.Header.Values("Set-Cookie"); len(got) != 2 {
		t.Errorf("Set-Cookie values = %v, want 2", got)
	}
	if resp.ContentType() != "application/xml" {
		t.Errorf("ContentType() = %q", resp.ContentType())
	}
}

func TestHTTPSendNon2xxCarriesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CSRF-Token", "Required")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("CSRF token validation failed"))
	}))
	defer srv.Close()

	resp, err := NewHTTP(Options{}).Send(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL})
	var terr *Error
	if !errors.As(err, &terr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if !terr.HasResponse() {
		t.Fatal("expected response attached to error")
	}
	if terr.Response.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d", terr.Response.StatusCode)
	}
	if terr.Response.Header.Get("x-csrf-token") != "Required" {
		t.Errorf("header lookup should be case-insensitive")
	}
	if resp == nil || string(resp.Body) != "CSRF token validation failed" {
		t.Errorf("response = %+v", resp)
	}
}

func TestHTTPSendTimeoutHasNoResponse(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	h := NewHTTP(Options{Timeout: 50 * time.Millisecond})
	_, err := h.Send(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL})
	var terr *Error
	if !errors.As(err, &terr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if terr.HasResponse() {
		t.Error("timeout must not carry a response")
	}
}

func TestSenderFunc(t *testing.T) {
	var s Sender = SenderFunc(func(ctx context.Context, req *Request) (*Response, error) {
		return &Response{StatusCode: 204}, nil
	})
	resp, err := s.Send(context.Background(), &Request{})
	if err != nil || resp.StatusCode != 204 {
		t.Errorf("SenderFunc Send() = %v, %v", resp, err)
	}
}
