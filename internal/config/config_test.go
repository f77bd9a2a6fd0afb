// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	aerr "adtbridge/cli/internal/errors"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	d := Defaults()
	if c.LogLevel != d.LogLevel || c.Output != d.Output || c.Profile.TokenPath != "freestyle" || c.Profile.TimeoutSeconds != 60 {
		t.Errorf("Load() = %+v, want defaults", c)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	in := Defaults()
	in.Profile.URL = "https://sap.example.com:44300"
	in.Profile.User = "DEVELOPER"
	in.Profile.SapClient = "001"
	in.Output = "csv"

	if err := Save(in); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	p, _ := Path()
	fi, err := os.Stat(p)
	if err != nil {
		t.Fatal(err)
	}
	if perm := fi.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want 600", perm)
	}

	out, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if out != in {
		t.Errorf("Load() = %+v, want %+v", out, in)
	}
	if err := out.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	ep := out.Endpoint()
	if ep.SapClient != "001" || ep.TokenURL() != "https://sap.example.com:44300/sap/bc/adt/datapreview/freestyle?sap-client=001" {
		t.Errorf("Endpoint() = %+v", ep)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	in := Defaults()
	in.Profile.URL = "https://from-file"
	if err := Save(in); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ADTBRIDGE_PROFILE_URL", "https://from-env")
	t.Setenv("ADTBRIDGE_PROFILE_TIMEOUT_SECONDS", "5")
	t.Setenv("ADTBRIDGE_LOG_LEVEL", "debug")

	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.Profile.URL != "https://from-env" {
		t.Errorf("URL = %q", c.Profile.URL)
	}
	if c.Timeout() != 5*time.Second {
		t.Errorf("Timeout() = %v", c.Timeout())
	}
	if c.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", c.LogLevel)
	}
}

func TestLoadMalformed(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(p, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(p); aerr.KindOf(err) != aerr.ConfigInvalid {
		t.Errorf("LoadFile() kind = %q, want %q", aerr.KindOf(err), aerr.ConfigInvalid)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"missing url", func(c *Config) {}, true},
		{"bad scheme", func(c *Config) { c.Profile.URL = "sap.example.com" }, true},
		{"bad output", func(c *Config) { c.Profile.URL = "https://h"; c.Output = "xml" }, true},
		{"ok", func(c *Config) { c.Profile.URL = "https://h" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults()
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && aerr.KindOf(err) != aerr.ConfigInvalid {
				t.Errorf("kind = %q", aerr.KindOf(err))
			}
		})
	}
}
