// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package model

import (
	aerr "adtbridge/cli/internal/errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var kindCodes = map[aerr.Kind]codes.Code{
	aerr.TransportError:        codes.Unavailable,
	aerr.CredentialUnavailable: codes.Unauthenticated,
	aerr.StaleCredential:       codes.Aborted,
	aerr.QueryRejected:         codes.InvalidArgument,
	aerr.ResultTooLarge:        codes.ResourceExhausted,
	aerr.ConfigInvalid:         codes.FailedPrecondition,
	aerr.SecretUnavailable:     codes.FailedPrecondition,
}

// ToStatus converts a typed error into a gRPC status error. The kind travels
// as the status code; the human-friendly message as the status message.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	code, ok := kindCodes[aerr.KindOf(err)]
	if !ok {
		code = codes.Internal
	}
	return status.Error(code, aerr.MessageOf(err))
}

// FromStatus converts a status error back into a typed error.
func FromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return aerr.Wrap(aerr.TransportError, "bridge call failed", err)
	}
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return aerr.Wrap(aerr.TransportError, st.Message(), err)
	case codes.Unauthenticated:
		return aerr.Wrap(aerr.CredentialUnavailable, st.Message(), err)
	case codes.Aborted:
		return aerr.Wrap(aerr.StaleCredential, st.Message(), err)
	case codes.InvalidArgument:
		return aerr.Wrap(aerr.QueryRejected, st.Message(), err)
	case codes.ResourceExhausted:
		return aerr.Wrap(aerr.ResultTooLarge, st.Message(), err)
	case codes.FailedPrecondition:
		return aerr.Wrap(aerr.ConfigInvalid, st.Message(), err)
	}
	return err
}
