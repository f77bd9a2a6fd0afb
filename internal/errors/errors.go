// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages. Only a handful of kinds ever cross the boundary of a
// query: transport failures, unavailable or stale CSRF credentials, rejected queries
// and results that exceed the per-call row cap. Everything else is absorbed with a
// best-effort fallback inside the decoding and extraction layers.
package errors

import (
	goerrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// TransportError indicates that no response was obtained at all (network, DNS, timeout).
	TransportError Kind = "transport_error"
	// CredentialUnavailable indicates the CSRF token/cookie could not be obtained after the bounded retry.
	CredentialUnavailable Kind = "credential_unavailable"
	// StaleCredential indicates the remote service rejected a freshly refreshed token a second time.
	StaleCredential Kind = "stale_credential"
	// QueryRejected indicates a non-2xx answer to a data query for reasons other than a stale token.
	QueryRejected Kind = "query_rejected"
	// ResultTooLarge indicates the decoded row count hit the per-call row cap.
	ResultTooLarge Kind = "result_too_large"
	// DecodeAnomaly marks a malformed cell or column. It is logged, never returned to callers.
	DecodeAnomaly Kind = "decode_anomaly"
	// ConfigInvalid indicates missing or malformed local configuration.
	ConfigInvalid Kind = "config_invalid"
	// SecretUnavailable indicates the service password could not be read from the keychain or env.
	SecretUnavailable Kind = "secret_unavailable"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the kind of the outermost *E in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *E
	if goerrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	for err != nil {
		var e *E
		if !goerrors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}

// MessageOf returns the human-friendly message of the outermost *E, falling back to err.Error().
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var e *E
	if goerrors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}
