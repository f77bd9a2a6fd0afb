// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; the service password goes to the OS keychain.
// Every key can be overridden from the environment with the ADTBRIDGE_ prefix,
// e.g. ADTBRIDGE_PROFILE_URL or ADTBRIDGE_LOG_LEVEL.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"adtbridge/cli/internal/endpoint"
	aerr "adtbridge/cli/internal/errors"
	"adtbridge/cli/internal/xdg"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "ADTBRIDGE"

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel  string  `json:"log_level" mapstructure:"log_level"`
	LogFormat string  `json:"log_format" mapstructure:"log_format"`
	Profile   Profile `json:"profile" mapstructure:"profile"`
	// Output is the default result format: table, json or csv.
	Output string `json:"output" mapstructure:"output"`
	// MaxRows limits rows printed by the query command; 0 prints everything.
	MaxRows int `json:"max_rows" mapstructure:"max_rows"`
}

// Profile describes the SAP system to connect to.
type Profile struct {
	URL                string `json:"url" mapstructure:"url"`
	User               string `json:"user" mapstructure:"user"`
	SapClient          string `json:"sap_client" mapstructure:"sap_client"`
	TokenPath          string `json:"token_path,omitempty" mapstructure:"token_path"`
	TimeoutSeconds     int    `json:"timeout_seconds" mapstructure:"timeout_seconds"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify,omitempty" mapstructure:"insecure_skip_verify"`
}

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
		Output:    "table",
		MaxRows:   0,
		Profile: Profile{
			TokenPath:      endpoint.DefaultTokenPath,
			TimeoutSeconds: 60,
		},
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; a missing file returns defaults with env overrides applied.
func Load() (Config, error) {
	p, err := Path()
	if err != nil {
		return Config{}, err
	}
	return LoadFile(p)
}

// LoadFile reads configuration from p.
func LoadFile(p string) (Config, error) {
	v := viper.New()
	setDefaults(v, Defaults())
	v.SetConfigFile(p)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !missing(err) {
		return Config{}, aerr.Wrap(aerr.ConfigInvalid, "cannot read "+p, err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, aerr.Wrap(aerr.ConfigInvalid, "cannot parse "+p, err)
	}
	return c, nil
}

func missing(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf) || errors.Is(err, os.ErrNotExist)
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("output", d.Output)
	v.SetDefault("max_rows", d.MaxRows)
	v.SetDefault("profile.url", d.Profile.URL)
	v.SetDefault("profile.user", d.Profile.User)
	v.SetDefault("profile.sap_client", d.Profile.SapClient)
	v.SetDefault("profile.token_path", d.Profile.TokenPath)
	v.SetDefault("profile.timeout_seconds", d.Profile.TimeoutSeconds)
	v.SetDefault("profile.insecure_skip_verify", d.Profile.InsecureSkipVerify)
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	return SaveFile(p, c)
}

// SaveFile writes configuration to p with 0600 permissions.
func SaveFile(p string, c Config) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// Validate checks that a usable profile is configured.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Profile.URL) == "" {
		return aerr.New(aerr.ConfigInvalid, "no SAP system configured; run 'adtbridge connect' or set ADTBRIDGE_PROFILE_URL")
	}
	if err := c.Endpoint().Validate(); err != nil {
		return aerr.Wrap(aerr.ConfigInvalid, "invalid SAP system URL", err)
	}
	switch c.Output {
	case "", "table", "json", "csv":
	default:
		return aerr.New(aerr.ConfigInvalid, fmt.Sprintf("unknown output format %q", c.Output))
	}
	return nil
}

// Endpoint returns the data preview endpoint of the profile.
func (c Config) Endpoint() endpoint.Endpoint {
	return endpoint.Endpoint{
		BaseURL:   c.Profile.URL,
		SapClient: c.Profile.SapClient,
		TokenPath: c.Profile.TokenPath,
	}
}

// Timeout returns the per-request timeout of the profile.
func (c Config) Timeout() time.Duration {
	if c.Profile.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Profile.TimeoutSeconds) * time.Second
}
