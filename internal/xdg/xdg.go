// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package xdg resolves XDG Base Directory paths for adtbridge.
// It falls back to the traditional locations when the XDG environment
// variables are unset and keeps the directories private.
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used below the XDG base directories.
const AppName = "adtbridge"

// ConfigDir returns the XDG config directory for adtbridge.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.config/adtbridge when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return dir("XDG_CONFIG_HOME", ".config")
}

func dir(env, fallback string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, fallback)
	}
	d := filepath.Join(base, AppName)
	if err := os.MkdirAll(d, 0o700); err != nil { // private dir
		return "", err
	}
	return d, nil
}
