// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors turns bridge failures into user-facing guidance.
// Classify maps an error onto a category; Present prints troubleshooting
// hints for that category with pterm.
package httperrors

import (
	"errors"
	"net"
	"strings"
	"syscall"

	aerr "adtbridge/cli/internal/errors"
	"adtbridge/cli/internal/logging"
	"adtbridge/cli/internal/transport"

	"github.com/pterm/pterm"
)

// Category is a user-facing class of failure.
type Category string

const (
	CategoryTimeout  Category = "timeout"
	CategoryDNS      Category = "dns"
	CategoryRefused  Category = "connection_refused"
	CategoryTLS      Category = "tls"
	CategoryAuth     Category = "authentication"
	CategoryCSRF     Category = "csrf"
	CategoryServer   Category = "server"
	CategoryQuery    Category = "query"
	CategoryTooLarge Category = "too_large"
	CategoryConfig   Category = "config"
	CategoryGeneric  Category = "generic"
)

// Classify returns the category of err.
func Classify(err error) Category {
	if err == nil {
		return ""
	}
	switch aerr.KindOf(err) {
	case aerr.ResultTooLarge:
		return CategoryTooLarge
	case aerr.ConfigInvalid, aerr.SecretUnavailable:
		return CategoryConfig
	case aerr.StaleCredential:
		return CategoryCSRF
	}

	var terr *transport.Error
	if errors.As(err, &terr) && terr.HasResponse() {
		switch code := terr.Response.StatusCode; {
		case code == 401:
			return CategoryAuth
		case code >= 500:
			return CategoryServer
		}
	}
	if aerr.Is(err, aerr.CredentialUnavailable) {
		return CategoryAuth
	}
	if aerr.KindOf(err) == aerr.QueryRejected {
		return CategoryQuery
	}

	switch {
	case isTimeoutError(err):
		return CategoryTimeout
	case isDNSError(err):
		return CategoryDNS
	case isConnectionRefusedError(err):
		return CategoryRefused
	case isTLSError(err):
		return CategoryTLS
	}
	return CategoryGeneric
}

func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "timeout") || strings.Contains(s, "deadline exceeded")
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isConnectionRefusedError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isTLSError(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "tls") || strings.Contains(s, "x509") ||
		strings.Contains(s, "certificate") || strings.Contains(s, "handshake")
}

// Present prints guidance for err. host names the SAP system, context what was being done.
func Present(err error, host, context string) {
	if err == nil {
		return
	}
	msg := logging.Mask(aerr.MessageOf(err))
	switch Classify(err) {
	case CategoryTimeout:
		pterm.Error.Printfln("Connection to %s timed out while %s", host, context)
		hints("The system took too long to respond. This could mean:",
			"the system is under heavy load or the query scans a large table",
			"a VPN or firewall is dropping the connection",
			"the timeout is too low (profile.timeout_seconds)")
	case CategoryDNS:
		pterm.Error.Printfln("Cannot resolve %s while %s", host, context)
		hints("Please check:", "the host name in your profile", "that you are connected to the right network or VPN")
	case CategoryRefused:
		pterm.Error.Printfln("Connection to %s refused while %s", host, context)
		hints("The system is not accepting connections. Check:",
			"the port (HTTPS is usually 443 or 44300, HTTP 8000 or 50000)",
			"that the ICM is running")
	case CategoryTLS:
		pterm.Error.Printfln("Secure connection to %s failed while %s", host, context)
		hints("Cannot establish HTTPS. Try:",
			"checking that the system certificate is trusted by this machine",
			"setting profile.insecure_skip_verify for sandbox systems only")
	case CategoryAuth:
		pterm.Error.Printfln("Not authorized on %s while %s: %s", host, context, msg)
		hints("Please check:",
			"user and password (run 'adtbridge connect' again)",
			"the sap-client of your profile",
			"that the ICF service /sap/bc/adt is active and the user has ADT authorizations")
	case CategoryCSRF:
		pterm.Error.Printfln("%s rejected the CSRF token twice while %s", host, context)
		hints("The session could not be renewed. Try again; if it persists, check:",
			"that no proxy strips cookies or the X-CSRF-Token header")
	case CategoryServer:
		pterm.Error.Printfln("%s reported an internal error while %s: %s", host, context, msg)
		pterm.Println("Check transaction ST22 (short dumps) or SM21 (system log) on the SAP system.")
	case CategoryQuery:
		pterm.Error.Printfln("Query rejected: %s", msg)
	case CategoryTooLarge:
		pterm.Error.Println(msg)
		pterm.Println("Use --limit/--offset, a WHERE clause or UP TO n ROWS to narrow the result.")
	case CategoryConfig:
		pterm.Error.Println(msg)
	default:
		pterm.Error.Printfln("Failed while %s: %s", context, msg)
	}
	pterm.Debug.Println(logging.PresentError("technical details", err))
}

func hints(title string, lines ...string) {
	pterm.Println(title)
	for _, l := range lines {
		pterm.Println("  • " + l)
	}
	pterm.Println()
}
