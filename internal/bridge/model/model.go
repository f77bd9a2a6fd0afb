// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package model defines the messages exchanged over the query bridge and their
// encoding as protobuf Struct values. Both the server and the client use these
// helpers so the field names exist in one place.
//
// Binary cells travel hex-encoded; every other cell is a string or null.
package model

import (
	"encoding/hex"
	"fmt"

	"adtbridge/cli/internal/dialect"
	"adtbridge/cli/internal/wire"

	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "adtbridge.QueryBridge"

	MethodQuery    = "Query"
	MethodDescribe = "Describe"
	MethodPing     = "Ping"
)

// FullMethod returns the "/service/method" path of a bridge method.
func FullMethod(method string) string { return "/" + ServiceName + "/" + method }

// QueryRequest asks the bridge to run one statement.
type QueryRequest struct {
	SQL         string
	Limit       int
	Offset      int
	Generic     bool
	IncludeTime bool
}

// QueryResponse is a decoded result plus the plan the server used.
type QueryResponse struct {
	RowSet     *wire.RowSet
	Translated dialect.Translated
}

// EncodeQuery converts a request into a Struct.
func EncodeQuery(req QueryRequest) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"sql":         req.SQL,
		"limit":       req.Limit,
		"offset":      req.Offset,
		"generic":     req.Generic,
		"includeTime": req.IncludeTime,
	})
}

// DecodeQuery reads a request; missing fields take their zero value.
func DecodeQuery(s *structpb.Struct) QueryRequest {
	f := s.GetFields()
	return QueryRequest{
		SQL:         f["sql"].GetStringValue(),
		Limit:       int(f["limit"].GetNumberValue()),
		Offset:      int(f["offset"].GetNumberValue()),
		Generic:     f["generic"].GetBoolValue(),
		IncludeTime: f["includeTime"].GetBoolValue(),
	}
}

// EncodeTable wraps a table name for Describe.
func EncodeTable(table string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{"table": structpb.NewStringValue(table)}}
}

// DecodeTable reads the table name of a Describe request.
func DecodeTable(s *structpb.Struct) string { return s.GetFields()["table"].GetStringValue() }

// EncodeColumns converts column metadata into a Struct with a "columns" list.
func EncodeColumns(cols []wire.Column) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{"columns": columnsValue(cols)}}
}

// DecodeColumns reads the "columns" list of s.
func DecodeColumns(s *structpb.Struct) []wire.Column {
	list := s.GetFields()["columns"].GetListValue().GetValues()
	cols := make([]wire.Column, 0, len(list))
	for _, v := range list {
		f := v.GetStructValue().GetFields()
		cols = append(cols, wire.Column{
			Name:        f["name"].GetStringValue(),
			Type:        wire.Kind(f["type"].GetStringValue()),
			Description: f["description"].GetStringValue(),
			Length:      int(f["length"].GetNumberValue()),
			Key:         f["key"].GetBoolValue(),
		})
	}
	return cols
}

func columnsValue(cols []wire.Column) *structpb.Value {
	vals := make([]*structpb.Value, len(cols))
	for i, c := range cols {
		vals[i] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"name":        structpb.NewStringValue(c.Name),
			"type":        structpb.NewStringValue(string(c.Type)),
			"description": structpb.NewStringValue(c.Description),
			"length":      structpb.NewNumberValue(float64(c.Length)),
			"key":         structpb.NewBoolValue(c.Key),
		}})
	}
	return structpb.NewListValue(&structpb.ListValue{Values: vals})
}

// EncodeResponse converts a query response into a Struct.
func EncodeResponse(resp QueryResponse) (*structpb.Struct, error) {
	rs := resp.RowSet
	if rs == nil {
		rs = &wire.RowSet{}
	}
	rows := make([]*structpb.Value, len(rs.Rows))
	for i, row := range rs.Rows {
		fields := make(map[string]*structpb.Value, len(row))
		for k, v := range row {
			cell, err := cellValue(v)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i, k, err)
			}
			fields[k] = cell
		}
		rows[i] = structpb.NewStructValue(&structpb.Struct{Fields: fields})
	}
	total := structpb.NewNullValue()
	if rs.Total != nil {
		total = structpb.NewNumberValue(float64(*rs.Total))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"columns":       columnsValue(rs.Columns),
		"rows":          structpb.NewListValue(&structpb.ListValue{Values: rows}),
		"total":         total,
		"seen":          structpb.NewNumberValue(float64(rs.Seen)),
		"query":         structpb.NewStringValue(rs.Query),
		"executionTime": structpb.NewStringValue(rs.ExecutionTime),
		"translated":    structpb.NewStringValue(resp.Translated.SQL),
		"ceiling":       structpb.NewNumberValue(float64(resp.Translated.Ceiling)),
		"pageOffset":    structpb.NewNumberValue(float64(resp.Translated.Offset)),
	}}, nil
}

// DecodeResponse reads a query response. Binary cells stay hex strings.
func DecodeResponse(s *structpb.Struct) QueryResponse {
	f := s.GetFields()
	rs := &wire.RowSet{
		Columns:       DecodeColumns(s),
		Seen:          int(f["seen"].GetNumberValue()),
		Query:         f["query"].GetStringValue(),
		ExecutionTime: f["executionTime"].GetStringValue(),
	}
	if v, ok := f["total"].GetKind().(*structpb.Value_NumberValue); ok {
		n := int(v.NumberValue)
		rs.Total = &n
	}
	for _, rv := range f["rows"].GetListValue().GetValues() {
		row := make(wire.Row)
		for k, cell := range rv.GetStructValue().GetFields() {
			if sv, ok := cell.GetKind().(*structpb.Value_StringValue); ok {
				row[k] = sv.StringValue
			} else {
				row[k] = nil
			}
		}
		rs.Rows = append(rs.Rows, row)
	}
	return QueryResponse{
		RowSet: rs,
		Translated: dialect.Translated{
			SQL:     f["translated"].GetStringValue(),
			Ceiling: int(f["ceiling"].GetNumberValue()),
			Offset:  int(f["pageOffset"].GetNumberValue()),
		},
	}
}

func cellValue(v any) (*structpb.Value, error) {
	switch x := v.(type) {
	case nil:
		return structpb.NewNullValue(), nil
	case string:
		return structpb.NewStringValue(x), nil
	case []byte:
		return structpb.NewStringValue(hex.EncodeToString(x)), nil
	default:
		return nil, fmt.Errorf("unsupported cell type %T", v)
	}
}
