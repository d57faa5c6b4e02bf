package store

import (
	"context"
	"sync"
)

// Memory defines a public type used by secureauth APIs.
//
// Memory instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory describes the newmemory operation and its observable behavior.
//
// NewMemory does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMemory() *Memory {
	return &Memory{
		values: make(map[string]string),
	}
}

func (m *Memory) get(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key]
}

func (m *Memory) set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *Memory) SetTokens(_ context.Context, access, refresh, session string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[KeyAccessToken] = access
	m.values[KeyRefreshToken] = refresh
	if session != "" {
		m.values[KeySessionToken] = session
	}
	return nil
}

func (m *Memory) SetAccessToken(_ context.Context, access string) error {
	m.set(KeyAccessToken, access)
	return nil
}

func (m *Memory) AccessToken(context.Context) (string, error) {
	return m.get(KeyAccessToken), nil
}

func (m *Memory) RefreshToken(context.Context) (string, error) {
	return m.get(KeyRefreshToken), nil
}

func (m *Memory) SessionToken(context.Context) (string, error) {
	return m.get(KeySessionToken), nil
}

func (m *Memory) SetProfile(_ context.Context, raw []byte) error {
	m.set(KeyProfile, string(raw))
	return nil
}

func (m *Memory) Profile(context.Context) ([]byte, error) {
	v := m.get(KeyProfile)
	if v == "" {
		return nil, nil
	}
	return []byte(v), nil
}

func (m *Memory) SetUsername(_ context.Context, username string) error {
	m.set(KeyUsername, username)
	return nil
}

func (m *Memory) Username(context.Context) (string, error) {
	return m.get(KeyUsername), nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string]string)
	return nil
}
