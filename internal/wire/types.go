// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package wire decodes the column-block XML returned by the data preview service.
//
// The payload is column-major: every column block carries one column's
// metadata followed by its cells in row order, always starting at row 0 of the
// unfiltered result. Decode transposes the blocks into rows, drops the rows
// before the requested offset and normalizes numbers, dates and binary values.
package wire

import "strings"

// Kind is the ABAP type code declared for a column.
type Kind string

const (
	KindChar      Kind = "C"
	KindNumString Kind = "N"
	KindDate      Kind = "D"
	KindTime      Kind = "T"
	KindInt       Kind = "I"
	KindInt1      Kind = "b"
	KindInt2      Kind = "s"
	KindInt8      Kind = "8"
	KindPacked    Kind = "P"
	KindFloat     Kind = "F"
	KindDecFloat  Kind = "a"
	KindDecFlt34  Kind = "e"
	KindRaw       Kind = "X"
	KindRawString Kind = "y"
	KindString    Kind = "g"
)

// Numeric reports whether values of k may carry a trailing sign.
func (k Kind) Numeric() bool {
	switch k {
	case KindInt, KindInt1, KindInt2, KindInt8, KindPacked, KindFloat, KindDecFloat, KindDecFlt34:
		return true
	}
	return false
}

// Binary reports whether values of k are transport-encoded bytes.
func (k Kind) Binary() bool { return k == KindRaw || k == KindRawString }

// DataType maps the type code to a generic data type name:
// number, integer, timestamp, date or string.
func (k Kind) DataType() string {
	switch strings.ToUpper(strings.TrimSpace(string(k))) {
	case "F":
		return "number"
	case "I":
		return "integer"
	case "T":
		return "timestamp"
	case "D":
		return "date"
	default:
		return "string"
	}
}

// Column describes one result column as declared by the service.
type Column struct {
	Name        string
	Type        Kind
	Description string
	Length      int
	Key         bool
}

// ColumnBlock is one column with its raw cells in row order.
type ColumnBlock struct {
	Column
	Values []string
}

// Row maps column names to values. A value is a string, nil for "no value",
// or []byte for binary columns.
type Row map[string]any

// RowSet is a decoded result.
type RowSet struct {
	// Columns in the order of the payload.
	Columns []Column
	// Rows after the discard offset.
	Rows []Row
	// Total is the row count reported by the service, nil when absent or not numeric.
	Total *int
	// Seen is the number of rows decoded from row 0, including discarded ones.
	Seen int
	// Query is the statement the service reports to have executed, if any.
	Query string
	// ExecutionTime is the server-side execution time as reported, if any.
	ExecutionTime string
}

// ColumnNames returns the column names in payload order.
func (rs *RowSet) ColumnNames() []string {
	names := make([]string, len(rs.Columns))
	for i, c := range rs.Columns {
		names[i] = c.Name
	}
	return names
}
