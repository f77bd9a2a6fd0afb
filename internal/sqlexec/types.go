// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package sqlexec

import (
	"strconv"
	"strings"
	"time"

	"adtbridge/cli/internal/wire"
)

// PostgresType returns the column type used for c. Time columns hold either a
// clock time or a full timestamp depending on the service, so they stay text.
func PostgresType(c wire.Column) string {
	if c.Type.Binary() {
		return "bytea"
	}
	if c.Type == wire.KindTime {
		return "text"
	}
	switch c.Type.DataType() {
	case "integer":
		return "bigint"
	case "number":
		return "double precision"
	case "date":
		return "date"
	}
	return "text"
}

// Values converts decoded rows into COPY values matching PostgresType.
// Cells that cannot be converted become NULL; rejected counts them.
func Values(cols []wire.Column, rows []wire.Row) (out [][]any, rejected int) {
	out = make([][]any, len(rows))
	for i, row := range rows {
		vals := make([]any, len(cols))
		for j, c := range cols {
			v, ok := convert(c, row[c.Name])
			if !ok {
				rejected++
			}
			vals[j] = v
		}
		out[i] = vals
	}
	return out, rejected
}

func convert(c wire.Column, v any) (any, bool) {
	if v == nil {
		return nil, true
	}
	if b, ok := v.([]byte); ok {
		if c.Type.Binary() {
			return b, true
		}
		return string(b), true
	}
	s, ok := v.(string)
	if !ok {
		return nil, false
	}
	if c.Type.Binary() {
		return []byte(s), true
	}
	t := strings.TrimSpace(s)
	switch PostgresType(c) {
	case "bigint":
		if t == "" {
			return nil, true
		}
		n, err := strconv.ParseInt(t, 10, 64)
		return nilIfErr(n, err)
	case "double precision":
		if t == "" {
			return nil, true
		}
		f, err := strconv.ParseFloat(t, 64)
		return nilIfErr(f, err)
	case "date":
		if t == "" {
			return nil, true
		}
		// the time part of a date with time is dropped
		d, err := time.Parse(time.DateOnly, t[:min(len(t), len(time.DateOnly))])
		return nilIfErr(d, err)
	}
	return s, true
}

func nilIfErr[T any](v T, err error) (any, bool) {
	if err != nil {
		return nil, false
	}
	return v, true
}
