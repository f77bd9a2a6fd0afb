// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package wire

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

// payloadXML builds a data preview document with one block per column.
func payloadXML(total string, cols ...ColumnBlock) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="utf-8"?>`)
	sb.WriteString(`<dataPreview:tableData xmlns:dataPreview="http://www.sap.com/adt/dataPreview">`)
	if total != "" {
		fmt.Fprintf(&sb, "<dataPreview:totalRows>%s</dataPreview:totalRows>", total)
	}
	sb.WriteString("<dataPreview:executedQueryString>SELECT * FROM T</dataPreview:executedQueryString>")
	for _, c := range cols {
		fmt.Fprintf(&sb, `<dataPreview:columns><dataPreview:metadata dataPreview:name="%s" dataPreview:type="%s" dataPreview:description="%s" dataPreview:length="%d" dataPreview:keyAttribute="%t"/><dataPreview:dataSet>`,
			c.Name, c.Type, c.Description, c.Length, c.Key)
		for _, v := range c.Values {
			fmt.Fprintf(&sb, "<dataPreview:data>%s</dataPreview:data>", v)
		}
		sb.WriteString("</dataPreview:dataSet></dataPreview:columns>")
	}
	sb.WriteString("</dataPreview:tableData>")
	return sb.String()
}

func block(name string, kind Kind, values ...string) ColumnBlock {
	return ColumnBlock{Column: Column{Name: name, Type: kind}, Values: values}
}

func TestDecodeTransposesAndDiscardsOffset(t *testing.T) {
	doc := payloadXML("3", block("A", KindChar, "1", "2", "3"), block("B", KindChar, "x", "y", "z"))
	rs, err := Decode(strings.NewReader(doc), Options{Offset: 1})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := []Row{{"A": "2", "B": "y"}, {"A": "3", "B": "z"}}
	if !reflect.DeepEqual(rs.Rows, want) {
		t.Errorf("Rows = %v, want %v", rs.Rows, want)
	}
	if rs.Seen != 3 {
		t.Errorf("Seen = %d, want 3", rs.Seen)
	}
	if rs.Total == nil || *rs.Total != 3 {
		t.Errorf("Total = %v, want 3", rs.Total)
	}
	if got := rs.ColumnNames(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("ColumnNames() = %v", got)
	}
	if rs.Query != "SELECT * FROM T" {
		t.Errorf("Query = %q", rs.Query)
	}
}

func TestDecodeTotalCounter(t *testing.T) {
	tests := []struct {
		name   string
		total  string
		values []string
		want   *int
	}{
		{name: "numeric", total: "42", values: []string{"a"}, want: intPtr(42)},
		{name: "zero with rows is distrusted", total: "0", values: []string{"a", "b"}, want: intPtr(2)},
		{name: "zero without rows", total: "0", want: intPtr(0)},
		{name: "not numeric", total: "n/a", values: []string{"a"}},
		{name: "absent", values: []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := Decode(strings.NewReader(payloadXML(tt.total, block("A", KindChar, tt.values...))), Options{})
			if err != nil {
				t.Fatal(err)
			}
			switch {
			case tt.want == nil && rs.Total != nil:
				t.Errorf("Total = %d, want nil", *rs.Total)
			case tt.want != nil && (rs.Total == nil || *rs.Total != *tt.want):
				t.Errorf("Total = %v, want %d", rs.Total, *tt.want)
			}
		})
	}
}

func TestDecodeRaggedColumnsStopAtShortest(t *testing.T) {
	doc := payloadXML("", block("A", KindChar, "1", "2", "3"), block("B", KindChar, "x", "y"))
	rs, err := Decode(strings.NewReader(doc), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rs.Rows) != 2 || rs.Seen != 2 {
		t.Errorf("rows = %d, seen = %d; want 2, 2", len(rs.Rows), rs.Seen)
	}
}

func TestDecodeOffsetBeyondRows(t *testing.T) {
	rs, err := Decode(strings.NewReader(payloadXML("2", block("A", KindChar, "1", "2"))), Options{Offset: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(rs.Rows) != 0 || rs.Seen != 2 {
		t.Errorf("rows = %d, seen = %d", len(rs.Rows), rs.Seen)
	}
}

func TestDecodeNormalizesCells(t *testing.T) {
	doc := payloadXML("",
		block("AMOUNT", KindPacked, "150-", "150 ", "0.00"),
		block("BUDAT", KindDate, "20240131", "00000000", "garbage"),
		block("NUMC", KindNumString, "0000", "0042", ""),
		block("RAW", KindRaw, "CAFE", "AQID", "!!"),
	)
	rs, err := Decode(strings.NewReader(doc), Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := []Row{
		{"AMOUNT": "-150", "BUDAT": "2024-01-31", "NUMC": nil, "RAW": []byte{0xca, 0xfe}},
		{"AMOUNT": "150", "BUDAT": nil, "NUMC": "0042", "RAW": []byte{1, 2, 3}},
		{"AMOUNT": "0.00", "BUDAT": "garbage", "NUMC": "", "RAW": "!!"},
	}
	if !reflect.DeepEqual(rs.Rows, want) {
		t.Errorf("Rows = %#v\nwant %#v", rs.Rows, want)
	}
}

func TestDecodeMalformedDocument(t *testing.T) {
	if _, err := Decode(strings.NewReader("<dataPreview:tableData><dataPreview:columns>"), Options{}); err == nil {
		t.Error("Decode() error = nil, want error for truncated document")
	}
}

func TestDecodeEmpty(t *testing.T) {
	rs, err := Decode(strings.NewReader(payloadXML("0")), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rs.Rows) != 0 || len(rs.Columns) != 0 {
		t.Errorf("RowSet = %+v", rs)
	}
}

func TestDecodeCapSizedPayload(t *testing.T) {
	values := make([]string, 99999)
	for i := range values {
		values[i] = "x"
	}
	var buf bytes.Buffer
	buf.WriteString(payloadXML("", block("A", KindChar, values...)))
	rs, err := Decode(&buf, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if rs.Seen != 99999 || len(rs.Rows) != 99999 {
		t.Errorf("Seen = %d, rows = %d", rs.Seen, len(rs.Rows))
	}
}

func TestDecodeMetadata(t *testing.T) {
	doc := payloadXML("1", ColumnBlock{
		Column: Column{Name: "MANDT", Type: KindChar, Description: "Client", Length: 3, Key: true},
		Values: []string{"000"},
	}, ColumnBlock{
		Column: Column{Name: "CHANGEDATE", Type: KindDate, Description: "Last changed on", Length: 8},
	})
	cols, err := DecodeMetadata(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	want := []Column{
		{Name: "MANDT", Type: KindChar, Description: "Client", Length: 3, Key: true},
		{Name: "CHANGEDATE", Type: KindDate, Description: "Last changed on", Length: 8},
	}
	if !reflect.DeepEqual(cols, want) {
		t.Errorf("DecodeMetadata() = %+v, want %+v", cols, want)
	}
}

func intPtr(v int) *int { return &v }
