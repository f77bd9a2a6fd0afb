// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package wire

import (
	"reflect"
	"testing"
)

func TestNumber(t *testing.T) {
	tests := map[string]string{
		"150-":    "-150",
		"150 ":    "150",
		"150":     "150",
		"1.25-":   "-1.25",
		"  1.25-": "-1.25",
		"0":       "0",
		"":        "",
	}
	for in, want := range tests {
		if got := Number(in); got != want {
			t.Errorf("Number(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		raw         string
		includeTime bool
		want        any
		ok          bool
	}{
		{"20240131", false, "2024-01-31", true},
		{"00000000", false, nil, true},
		{"20240131235959", false, "2024-01-31", true},
		{"20240131235959", true, "2024-01-31 23:59:59", true},
		{"00000000000000", true, nil, true},
		{"", false, "", true},
		{"2024-01-31", false, nil, false},
		{"202401", false, nil, false},
	}
	for _, tt := range tests {
		got, ok := Date(tt.raw, tt.includeTime)
		if ok != tt.ok || !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Date(%q, %v) = %v, %v; want %v, %v", tt.raw, tt.includeTime, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTime(t *testing.T) {
	tests := []struct {
		raw  string
		want any
		ok   bool
	}{
		{"20240131120000", "2024-01-31 12:00:00", true},
		{"00000000000000", nil, true},
		{"235959", "23:59:59", true},
		{"12:00", nil, false},
	}
	for _, tt := range tests {
		got, ok := Time(tt.raw)
		if ok != tt.ok || !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Time(%q) = %v, %v; want %v, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestKindDataType(t *testing.T) {
	tests := map[Kind]string{
		KindFloat:  "number",
		KindInt:    "integer",
		KindTime:   "timestamp",
		KindDate:   "date",
		KindChar:   "string",
		KindPacked: "string",
		"d":        "date",
	}
	for k, want := range tests {
		if got := k.DataType(); got != want {
			t.Errorf("Kind(%q).DataType() = %q, want %q", k, got, want)
		}
	}
}
