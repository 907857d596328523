// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain keeps the evaldb database key in the OS credential store.
//
// On macOS the `security` command is preferred and the keyring library is
// the fallback; elsewhere the keyring library picks a native backend
// (Windows Credential Manager, Secret Service, KWallet or pass).
package keychain

import (
	"errors"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
)

// Global keychain manager instance
var (
	globalManager *Manager
	mu            sync.Mutex
)

// ErrNotFound is returned when no key has been stored yet.
var ErrNotFound = errors.New("no evaldb key stored")

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "evaldb"

// KeyDatabaseKey is the item holding the database key.
const KeyDatabaseKey = "evaldb_key"

// store is the subset of keychain operations the manager needs.
type store interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// Manager provides thread-safe access to the stored key.
type Manager struct {
	mu    sync.RWMutex
	store store
}

// NewManager opens the platform credential store.
func NewManager() (*Manager, error) {
	if runtime.GOOS == "darwin" {
		if backend, err := newSecurityBackend(); err == nil {
			return &Manager{store: backend}, nil
		}
		// Fall through to keyring library if security command fails
	}

	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return NewManagerWithRing(ring), nil
}

// NewManagerWithRing wraps an already opened keyring.
func NewManagerWithRing(ring keyring.Keyring) *Manager {
	return &Manager{store: ringStore{ring: ring}}
}

// GetManager returns the process-wide manager, creating it on first use.
// A failed initialisation is retried on the next call.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}
	m, err := NewManager()
	if err != nil {
		return nil, err
	}
	globalManager = m
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
	return keyring.Open(cfg)
}

// SaveKey stores the database key.
func (m *Manager) SaveKey(key string) error {
	if key == "" {
		return errors.New("refusing to store an empty key")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Set(KeyDatabaseKey, key)
}

// LoadKey returns the stored database key or ErrNotFound.
func (m *Manager) LoadKey() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key, err := m.store.Get(KeyDatabaseKey)
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", ErrNotFound
	}
	return key, nil
}

// ClearKey removes the stored key. Removing a missing key is not an error.
func (m *Manager) ClearKey() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Delete(KeyDatabaseKey)
}

// ringStore adapts keyring.Keyring to store.
type ringStore struct {
	ring keyring.Keyring
}

func (r ringStore) Set(key, value string) error {
	return r.ring.Set(keyring.Item{Key: key, Data: []byte(value), Label: ServiceName})
}

func (r ringStore) Get(key string) (string, error) {
	it, err := r.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(it.Data), nil
}

func (r ringStore) Delete(key string) error {
	err := r.ring.Remove(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	return err
}
