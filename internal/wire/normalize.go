// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package wire

import (
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"strings"

	aerr "adtbridge/cli/internal/errors"

	"github.com/pterm/pterm"
)

type normalizer struct {
	includeTime bool
	logger      *pterm.Logger
}

// value normalizes one cell according to the declared column type.
func (n normalizer) value(col Column, raw string) any {
	switch {
	case col.Type.Numeric():
		return Number(raw)
	case col.Type == KindNumString:
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && f == 0 {
			return nil
		}
		return raw
	case col.Type == KindDate:
		return n.checked(col, raw, func() (any, bool) { return Date(raw, n.includeTime) })
	case col.Type == KindTime:
		return n.checked(col, raw, func() (any, bool) { return Time(raw) })
	case col.Type.Binary():
		return n.checked(col, raw, func() (any, bool) { return Binary(raw) })
	default:
		return raw
	}
}

func (n normalizer) checked(col Column, raw string, fn func() (any, bool)) any {
	v, ok := fn()
	if !ok {
		n.logger.Debug("cell passed through unchanged", n.logger.Args(
			"kind", string(aerr.DecodeAnomaly),
			"column", col.Name,
			"type", string(col.Type),
			"value", raw,
		))
		return raw
	}
	return v
}

// Number moves a trailing minus sign to the front and trims one trailing space:
// "150-" becomes "-150", "150 " becomes "150".
func Number(raw string) string {
	v := strings.TrimSuffix(raw, " ")
	if strings.HasSuffix(v, "-") {
		v = "-" + strings.TrimSpace(strings.TrimSuffix(v, "-"))
	}
	return v
}

// Date formats a YYYYMMDD or 14-digit value with separators. An all-zero date
// is nil. The time part of a 14-digit value is kept only with includeTime.
// Blank values pass through; any other shape is reported as not ok.
func Date(raw string, includeTime bool) (any, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return raw, true
	}
	if !digits(v) || (len(v) != 8 && len(v) != 14) {
		return nil, false
	}
	if zeros(v[:8]) {
		return nil, true
	}
	date := v[0:4] + "-" + v[4:6] + "-" + v[6:8]
	if len(v) == 14 && includeTime {
		return date + " " + clock(v[8:14]), true
	}
	return date, true
}

// Time formats a 14-digit timestamp as YYYY-MM-DD HH:MM:SS (all zeros is nil)
// and a 6-digit time as HH:MM:SS.
func Time(raw string) (any, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return raw, true
	}
	if !digits(v) {
		return nil, false
	}
	switch len(v) {
	case 14:
		if zeros(v) {
			return nil, true
		}
		return v[0:4] + "-" + v[4:6] + "-" + v[6:8] + " " + clock(v[8:14]), true
	case 6:
		return clock(v), true
	}
	return nil, false
}

// Binary decodes a hex (or, failing that, base64) encoded value into bytes.
func Binary(raw string) (any, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return []byte{}, true
	}
	if b, err := hex.DecodeString(v); err == nil {
		return b, true
	}
	if b, err := base64.StdEncoding.DecodeString(v); err == nil {
		return b, true
	}
	return nil, false
}

func clock(v string) string {
	return v[0:2] + ":" + v[2:4] + ":" + v[4:6]
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func zeros(s string) bool {
	return strings.Trim(s, "0") == ""
}
