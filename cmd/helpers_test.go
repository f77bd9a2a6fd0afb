// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadSQL(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "q.sql")
	if err := os.WriteFile(file, []byte("SELECT * FROM t000\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := readSQL([]string{"SELECT", "carrid", "FROM", "scarr"}, file)
	if err != nil || got != "SELECT carrid FROM scarr" {
		t.Errorf("readSQL(args) = %q, %v", got, err)
	}
	got, err = readSQL(nil, file)
	if err != nil || got != "SELECT * FROM t000\n" {
		t.Errorf("readSQL(file) = %q, %v", got, err)
	}
	if _, err := readSQL([]string{"  "}, ""); err == nil {
		t.Error("readSQL(blank) error = nil, want error")
	}
}

func TestExportDSN(t *testing.T) {
	t.Setenv(ExportDSNEnv, "")
	t.Setenv("DATABASE_URL", "")

	exportTo = ""
	if _, err := exportDSN(); err == nil {
		t.Error("exportDSN() without target error = nil")
	}

	exportTo = "adt://DEVELOPER@sap:44300"
	if _, err := exportDSN(); err == nil {
		t.Error("exportDSN(adt) error = nil, want postgres-only error")
	}

	exportTo = ""
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/db")
	got, err := exportDSN()
	if err != nil || got == "" {
		t.Errorf("exportDSN(DATABASE_URL) = %q, %v", got, err)
	}
	t.Cleanup(func() { exportTo = "" })
}

func TestHostOf(t *testing.T) {
	if got := hostOf("https://sap.example.com:44300"); got != "sap.example.com:44300" {
		t.Errorf("hostOf() = %q", got)
	}
	if got := hostOf("not a url"); got != "not a url" {
		t.Errorf("hostOf(raw) = %q", got)
	}
}

func TestCheckPageFlags(t *testing.T) {
	tests := []struct {
		name          string
		limit, offset int
		wantErr       bool
	}{
		{"none", 0, 0, false},
		{"limit only", 10, 0, false},
		{"limit and offset", 10, 5, false},
		{"offset without limit", 0, 5, true},
		{"negative limit", -1, 0, true},
		{"negative offset", 10, -2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := checkPageFlags(tt.limit, tt.offset); (err != nil) != tt.wantErr {
				t.Errorf("checkPageFlags(%d, %d) = %v, wantErr %v", tt.limit, tt.offset, err, tt.wantErr)
			}
		})
	}
}
