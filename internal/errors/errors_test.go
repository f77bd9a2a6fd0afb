// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package errors

import (
	goerrors "errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *E
		want string
	}{
		{
			name: "without cause",
			err:  New(ResultTooLarge, "too many results"),
			want: "result_too_large: too many results",
		},
		{
			name: "with cause",
			err:  Wrap(TransportError, "request failed", goerrors.New("dial tcp: timeout")),
			want: "transport_error: request failed: dial tcp: timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindThroughWrapping(t *testing.T) {
	root := goerrors.New("connection reset")
	inner := Wrap(TransportError, "send failed", root)
	outer := fmt.Errorf("query: %w", Wrap(CredentialUnavailable, "cannot fetch CSRF token", inner))

	if got := KindOf(outer); got != CredentialUnavailable {
		t.Errorf("KindOf() = %q, want %q", got, CredentialUnavailable)
	}
	if !Is(outer, TransportError) {
		t.Error("Is(TransportError) = false, want true for nested kind")
	}
	if Is(outer, QueryRejected) {
		t.Error("Is(QueryRejected) = true, want false")
	}
	if !goerrors.Is(outer, root) {
		t.Error("errors.Is(root) = false, want unwrap chain to reach the root cause")
	}
	if got := MessageOf(outer); got != "cannot fetch CSRF token" {
		t.Errorf("MessageOf() = %q", got)
	}
}

func TestKindOfPlainError(t *testing.T) {
	if got := KindOf(goerrors.New("plain")); got != "" {
		t.Errorf("KindOf(plain) = %q, want empty", got)
	}
	if got := MessageOf(goerrors.New("plain")); got != "plain" {
		t.Errorf("MessageOf(plain) = %q, want %q", got, "plain")
	}
}
