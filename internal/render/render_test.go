// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"adtbridge/cli/internal/wire"
)

func sample() *wire.RowSet {
	total := 10
	return &wire.RowSet{
		Columns: []wire.Column{{Name: "ZB", Type: wire.KindChar}, {Name: "AA", Type: wire.KindDate}, {Name: "RAW", Type: wire.KindRaw}},
		Rows: []wire.Row{
			{"ZB": "x,y", "AA": "2024-01-31", "RAW": []byte{0xca, 0xfe}},
			{"ZB": "z", "AA": nil, "RAW": []byte{}},
		},
		Total: &total,
		Seen:  2,
	}
}

func TestParseFormat(t *testing.T) {
	for _, ok := range []string{"", "table", "json", "csv"} {
		if _, err := ParseFormat(ok); err != nil {
			t.Errorf("ParseFormat(%q) error = %v", ok, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) = nil error")
	}
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(&buf, FormatCSV).Rows(sample()); err != nil {
		t.Fatal(err)
	}
	want := "ZB,AA,RAW\n\"x,y\",2024-01-31,cafe\nz,,\n"
	if buf.String() != want {
		t.Errorf("csv = %q, want %q", buf.String(), want)
	}
}

func TestJSONKeepsColumnOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(&buf, FormatJSON).Rows(sample()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Index(out, `"ZB"`) > strings.Index(out, `"AA"`) {
		t.Errorf("column order lost: %s", out)
	}
	var rows []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(rows) != 2 || rows[1]["AA"] != nil || rows[0]["RAW"] != "yv4=" {
		t.Errorf("rows = %v", rows)
	}
}

func TestJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(&buf, FormatJSON).Rows(&wire.RowSet{}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "[]\n" {
		t.Errorf("json = %q", buf.String())
	}
}

func TestTableTruncatesAndSummarizes(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatTable)
	r.MaxRows = 1
	if err := r.Rows(sample()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "x,y") || strings.Contains(out, "z") {
		t.Errorf("table = %q", out)
	}
	if !strings.Contains(out, "1 row shown of 2 fetched (10 total)") {
		t.Errorf("summary missing: %q", out)
	}
}

func TestColumnsCSV(t *testing.T) {
	var buf bytes.Buffer
	cols := []wire.Column{{Name: "MANDT", Type: wire.KindChar, Length: 3, Key: true, Description: "Client"}}
	if err := NewRenderer(&buf, FormatCSV).Columns("T000", cols); err != nil {
		t.Fatal(err)
	}
	want := "name,type,data_type,length,key,description\nMANDT,C,string,3,true,Client\n"
	if buf.String() != want {
		t.Errorf("csv = %q, want %q", buf.String(), want)
	}
}

func TestText(t *testing.T) {
	if Text(nil) != "" || Text("a") != "a" || Text([]byte{1, 255}) != "01ff" || Text(3) != "3" {
		t.Error("Text() conversions mismatch")
	}
}
