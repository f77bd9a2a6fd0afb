// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides centralized, thread-safe keychain operations for adtbridge.
// It stores the SAP service password per system and user in the OS credential store
// (macOS Keychain, Windows Credential Manager, Secret Service or pass on Linux).
package keychain

import (
	"errors"
	"os"
	"runtime"
	"strings"
	"sync"

	aerr "adtbridge/cli/internal/errors"

	"github.com/99designs/keyring"
)

// Global keychain manager instance
var (
	globalManager *Manager
	globalError   error
	mu            sync.Mutex
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "adtbridge"

// PasswordEnv overrides the keychain for non-interactive use.
const PasswordEnv = "ADTBRIDGE_PASSWORD"

// keyPrefix prefixes password entries; the rest of the key is the account.
const keyPrefix = "password:"

// backend is the minimal store the manager needs. The keyring library and the
// macOS security command both satisfy it.
type backend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu      sync.RWMutex
	backend backend
}

// NewManager creates a new keychain manager with the OS keyring initialized.
func NewManager() (*Manager, error) {
	// Try native security backend first on macOS
	if runtime.GOOS == "darwin" {
		if b, err := newSecurityBackend(); err == nil {
			return &Manager{backend: b}, nil
		}
	}
	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return &Manager{backend: ringBackend{ring}}, nil
}

// NewWithKeyring wraps an opened keyring, e.g. keyring.NewArrayKeyring in tests.
func NewWithKeyring(ring keyring.Keyring) *Manager {
	return &Manager{backend: ringBackend{ring}}
}

// GetManager returns the global keychain manager instance.
// If initialization fails, it is retried on subsequent calls.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()
	if globalManager != nil {
		return globalManager, nil
	}
	globalManager, globalError = NewManager()
	if globalError != nil {
		return nil, globalError
	}
	return globalManager, nil
}

func openRing() (keyring.Keyring, error) {
	var allowed []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		allowed = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowed = []keyring.BackendType{keyring.WinCredBackend}
	default:
		allowed = []keyring.BackendType{keyring.SecretServiceBackend, keyring.KWalletBackend, keyring.PassBackend}
	}
	cfg := keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: allowed,
		PassPrefix:      ServiceName,
		WinCredPrefix:   ServiceName,
	}
	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, errors.New("no OS credential store available; set " + PasswordEnv + " instead")
	}
	return ring, nil
}

// Account builds the key for user on the system identified by endpointKey.
func Account(endpointKey, user string) string {
	return keyPrefix + strings.ToUpper(user) + "@" + endpointKey
}

// SavePassword stores the password for account.
// This method is thread-safe.
func (m *Manager) SavePassword(account, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backend.Set(account, password)
}

// LoadPassword retrieves the password for account.
// This method is thread-safe.
func (m *Manager) LoadPassword(account string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pw, err := m.backend.Get(account)
	if err != nil {
		return "", err
	}
	if pw == "" {
		return "", errors.New("empty password")
	}
	return pw, nil
}

// ClearPassword removes the password for account. A missing entry is not an error.
// This method is thread-safe.
func (m *Manager) ClearPassword(account string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.backend.Delete(account); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}

// ResolvePassword returns the password from PasswordEnv, or from the keychain.
func ResolvePassword(endpointKey, user string) (string, error) {
	if pw := os.Getenv(PasswordEnv); pw != "" {
		return pw, nil
	}
	m, err := GetManager()
	if err != nil {
		return "", aerr.Wrap(aerr.SecretUnavailable, "cannot open OS keychain", err)
	}
	pw, err := m.LoadPassword(Account(endpointKey, user))
	if err != nil {
		return "", aerr.Wrap(aerr.SecretUnavailable, "no stored password; run 'adtbridge connect' or set "+PasswordEnv, err)
	}
	return pw, nil
}

// ringBackend adapts keyring.Keyring to backend.
type ringBackend struct{ ring keyring.Keyring }

func (r ringBackend) Set(key, value string) error {
	return r.ring.Set(keyring.Item{Key: key, Data: []byte(value), Label: ServiceName + " " + key})
}

func (r ringBackend) Get(key string) (string, error) {
	it, err := r.ring.Get(key)
	if err != nil {
		return "", err
	}
	return string(it.Data), nil
}

func (r ringBackend) Delete(key string) error { return r.ring.Remove(key) }
