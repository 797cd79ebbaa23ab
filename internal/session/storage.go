// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"sync"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/sweetshop-go/internal/apiclient"
)

// Durable storage keys.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Storage is the durable key/value backing for a session.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context, keys ...string) error
}

// MemoryStorage is an in-process Storage. The zero value is ready to use.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

// Get implements Storage.
func (m *MemoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements Storage.
func (m *MemoryStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

// Clear implements Storage.
func (m *MemoryStorage) Clear(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

// ManagerStorage stores values in the scs session carried by the request
// context. The context must have passed through SessionManager.LoadAndSave.
type ManagerStorage struct {
	sm *scs.SessionManager
}

// NewManagerStorage wraps a session manager.
func NewManagerStorage(sm *scs.SessionManager) *ManagerStorage {
	return &ManagerStorage{sm: sm}
}

// Get implements Storage.
func (m *ManagerStorage) Get(ctx context.Context, key string) (string, bool, error) {
	if !m.sm.Exists(ctx, key) {
		return "", false, nil
	}
	return m.sm.GetString(ctx, key), true, nil
}

// Set implements Storage.
func (m *ManagerStorage) Set(ctx context.Context, key, value string) error {
	m.sm.Put(ctx, key, value)
	return nil
}

// Clear implements Storage.
func (m *ManagerStorage) Clear(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		m.sm.Remove(ctx, k)
	}
	return nil
}

// RenewToken rotates the session cookie token, keeping the data.
func (m *ManagerStorage) RenewToken(ctx context.Context) error {
	return m.sm.RenewToken(ctx)
}

// TokenSource reads the bearer token from storage on every request.
func TokenSource(s Storage) apiclient.TokenSource {
	return apiclient.TokenFunc(func(ctx context.Context) string {
		token, ok, err := s.Get(ctx, KeyToken)
		if err != nil || !ok {
			return ""
		}
		return token
	})
}
