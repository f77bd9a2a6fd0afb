// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

//go:build darwin

package keychain

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/99designs/keyring"
)

// securityBackend stores generic passwords through the macOS security command.
type securityBackend struct{}

func newSecurityBackend() (*securityBackend, error) {
	if _, err := exec.LookPath("security"); err != nil {
		return nil, fmt.Errorf("security command not found: %w", err)
	}
	return &securityBackend{}, nil
}

func (s *securityBackend) run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command("security", args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// Set stores value for key, replacing an existing entry.
func (s *securityBackend) Set(key, value string) error {
	_ = s.Delete(key)
	if _, stderr, err := s.run("add-generic-password", "-a", ServiceName, "-s", key, "-w", value, "-U"); err != nil {
		return fmt.Errorf("failed to store %q in keychain: %s: %w", key, strings.TrimSpace(stderr), err)
	}
	return nil
}

// Get returns the value stored for key.
func (s *securityBackend) Get(key string) (string, error) {
	out, stderr, err := s.run("find-generic-password", "-a", ServiceName, "-s", key, "-w")
	if err != nil {
		if strings.Contains(stderr, "could not be found") {
			return "", keyring.ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to retrieve from keychain: %s: %w", strings.TrimSpace(stderr), err)
	}
	return strings.TrimSpace(out), nil
}

// Delete removes key; a missing entry is not an error.
func (s *securityBackend) Delete(key string) error {
	if _, stderr, err := s.run("delete-generic-password", "-a", ServiceName, "-s", key); err != nil {
		if strings.Contains(stderr, "could not be found") {
			return nil
		}
		return fmt.Errorf("failed to delete from keychain: %s: %w", strings.TrimSpace(stderr), err)
	}
	return nil
}
